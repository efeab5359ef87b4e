package vk

import "encoding/json"

// Size keys used by photos.get for the five legacy size variants, smallest first
const (
	SizeSmall  = "src_small"
	SizeMedium = "src"
	SizeBig    = "src_big"
	SizeXBig   = "src_xbig"
	SizeXXBig  = "src_xxbig"
)

// Photo is one record of the photos.get response
type Photo struct {
	PID      json.Number `json:"pid,omitempty"`
	AID      json.Number `json:"aid,omitempty"`
	OwnerID  json.Number `json:"owner_id,omitempty"`
	Created  json.Number `json:"created,omitempty"`
	Width    json.Number `json:"width,omitempty"`
	Height   json.Number `json:"height,omitempty"`
	SrcSmall string      `json:"src_small,omitempty"`
	Src      string      `json:"src,omitempty"`
	SrcBig   string      `json:"src_big,omitempty"`
	SrcXBig  string      `json:"src_xbig,omitempty"`
	SrcXXBig string      `json:"src_xxbig,omitempty"`
	Text     string      `json:"text"`
}

// URL returns the photo's URL for a size key. Empty values count as absent.
func (p Photo) URL(size string) (string, bool) {
	var u string
	switch size {
	case SizeSmall:
		u = p.SrcSmall
	case SizeMedium:
		u = p.Src
	case SizeBig:
		u = p.SrcBig
	case SizeXBig:
		u = p.SrcXBig
	case SizeXXBig:
		u = p.SrcXXBig
	}
	return u, u != ""
}

// APIError is the error envelope the service returns instead of a response
type APIError struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_msg"`
}

// PhotosResponse is the decoded result of one photos.get call. Records that
// could not be decoded are kept as empty photos and counted in Skipped.
type PhotosResponse struct {
	Photos  []Photo
	Skipped int
}

type envelope struct {
	Response json.RawMessage `json:"response"`
	Error    *APIError       `json:"error"`
}

type itemsPage struct {
	Items []json.RawMessage `json:"items"`
}

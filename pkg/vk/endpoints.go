package vk

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	// DefaultAPIURL is the photos.get method endpoint
	DefaultAPIURL = "https://api.vk.com/method/photos.get"

	// SiteURL is the public site album links point at
	SiteURL = "https://vk.com"
)

// PhotosRequest holds the parameters of a photos.get call
type PhotosRequest struct {
	OwnerID int64
	AlbumID int64
	// Rev is 0 for oldest first, 1 for newest first
	Rev int
	// Version is sent as v when set
	Version string
}

// Values encodes the request as query parameters
func (r PhotosRequest) Values() url.Values {
	params := url.Values{}
	params.Set("owner_id", strconv.FormatInt(r.OwnerID, 10))
	params.Set("album_id", strconv.FormatInt(r.AlbumID, 10))
	params.Set("rev", strconv.Itoa(r.Rev))
	if r.Version != "" {
		params.Set("v", r.Version)
	}
	return params
}

// PhotosURL builds the request URL against base, keeping any query base
// already carries.
func PhotosURL(base string, r PhotosRequest) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid API URL %q: %w", base, err)
	}

	query := u.Query()
	for key, values := range r.Values() {
		query[key] = values
	}
	u.RawQuery = query.Encode()
	return u.String(), nil
}

// AlbumPageURL returns the public address of an album
func AlbumPageURL(ownerID, albumID int64) string {
	return fmt.Sprintf("%s/album%d_%d", SiteURL, ownerID, albumID)
}

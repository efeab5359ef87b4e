package gallery

import (
	"fmt"
	"regexp"
	"strconv"

	"vkgallery/pkg/vk"
)

// AlbumURLPattern matches a public album link and captures owner and album ids
var AlbumURLPattern = regexp.MustCompile(`https?://(?:www\.|m\.)?vk\.com/album(-?\d+)_(\d+)`)

// Album identifies an album by owner and album id. Negative owners are groups.
type Album struct {
	OwnerID int64
	AlbumID int64
}

// ParseAlbum extracts the first album link found in text whose ids fit in
// int64
func ParseAlbum(text string) (Album, bool) {
	album, _, ok := findAlbum(text)
	return album, ok
}

func findAlbum(text string) (Album, []int, bool) {
	for _, m := range AlbumURLPattern.FindAllStringSubmatchIndex(text, -1) {
		owner, err := strconv.ParseInt(text[m[2]:m[3]], 10, 64)
		if err != nil {
			continue
		}
		album, err := strconv.ParseInt(text[m[4]:m[5]], 10, 64)
		if err != nil {
			continue
		}
		return Album{OwnerID: owner, AlbumID: album}, m[:2], true
	}
	return Album{}, nil, false
}

// Rel is the lightbox grouping attribute shared by the album's anchors
func (a Album) Rel() string {
	return "lightbox-" + a.String()
}

// URL returns the album's public page
func (a Album) URL() string {
	return vk.AlbumPageURL(a.OwnerID, a.AlbumID)
}

func (a Album) String() string {
	return fmt.Sprintf("album%d_%d", a.OwnerID, a.AlbumID)
}

// ReplaceAlbumURL substitutes the album link ParseAlbum would resolve with
// replacement
func ReplaceAlbumURL(content, replacement string) (string, bool) {
	_, loc, ok := findAlbum(content)
	if !ok {
		return content, false
	}
	return content[:loc[0]] + replacement + content[loc[1]:], true
}

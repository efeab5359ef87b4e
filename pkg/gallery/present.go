package gallery

import (
	"fmt"
	"html"
	"strconv"

	"vkgallery/pkg/vk"
)

// Present draws the clickable element for one photo. url is the image drawn
// by the image and div variants, normally the largest size in range; index
// is the photo's position in the response.
func Present(linkType LinkType, photo vk.Photo, url string, index int) string {
	switch linkType {
	case LinkNumber:
		return strconv.Itoa(index)
	case LinkDiv:
		return presentDiv(url)
	default:
		return presentImage(photo, url)
	}
}

func presentImage(photo vk.Photo, url string) string {
	return fmt.Sprintf(`<img src="%s" alt="%s">`, html.EscapeString(url), html.EscapeString(photo.Text))
}

func presentDiv(url string) string {
	return fmt.Sprintf(`<div class="picture" style="background:url(%s) no-repeat 50%% 30%%; background-size: cover;"></div>`,
		html.EscapeString(url))
}

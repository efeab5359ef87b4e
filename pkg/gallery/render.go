package gallery

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"vkgallery/pkg/vk"
)

// Fragment is the generated markup for one album
type Fragment struct {
	HTML string
	// Rendered counts the anchors in HTML
	Rendered int
	// Dropped counts records with no URL in the size range
	Dropped int
}

// Render builds the gallery markup: one anchor per photo that has a URL in
// the configured size range, in response order, inside an album wrapper.
// Anchors link the smallest size in range; images draw the largest.
func Render(photos []vk.Photo, album Album, opts Options) Fragment {
	tiers := ResolveSizeRange(opts.MinSize, opts.MaxSize)
	rel := html.EscapeString(album.Rel())

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="album" data-loop="%s">`, strconv.FormatBool(opts.Loop))

	var frag Fragment
	for i, photo := range photos {
		href, ok := SelectURL(photo, tiers)
		if !ok {
			frag.Dropped++
			continue
		}
		display, _ := SelectLargestURL(photo, tiers)

		fmt.Fprintf(&b, `<a href="%s" rel="%s" title="%s">%s</a>`,
			html.EscapeString(href), rel, html.EscapeString(photo.Text),
			Present(opts.LinkType, photo, display, i))
		frag.Rendered++
	}

	b.WriteString(`</div>`)
	frag.HTML = b.String()
	return frag
}

// Package gallery renders a VK photo album as lightbox gallery markup.
//
// A Gallery scans content for an album link such as
// https://vk.com/album-500_12, fetches the album's photo records through a
// Fetcher and renders one anchor per photo that has a URL inside the
// configured size range:
//
//	g := gallery.New(client, gallery.OverridesFromMap(map[string]any{
//	    "linkType": "image",
//	}), log)
//	g.OnGenerated(func(e gallery.GeneratedEvent) {
//	    fmt.Println(e.Fragment.HTML)
//	})
//	result := g.Generate(ctx, content)
//
// Listeners hear only about successful renders. The Result returned from
// Handle or Generate also reports the failure cases: no album link, a failed
// request, or an unreadable response.
//
// The building blocks are usable on their own: ParseAlbum, ResolveSizeRange,
// SelectURL, Present and Render are pure functions.
package gallery

package page

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"vkgallery/pkg/gallery"
)

var documentPattern = regexp.MustCompile(`(?i)<(!doctype|html|head|body)[\s>]`)

// Document is an HTML page or fragment whose containers can be read and
// rewritten
type Document struct {
	doc *goquery.Document
	// full is false for fragments, which are parsed under a bare body
	// and written back without it
	full bool
}

// Load parses HTML from r
func Load(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return Parse(string(data))
}

// Parse parses an HTML page or fragment
func Parse(src string) (*Document, error) {
	if documentPattern.MatchString(src) {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
		if err != nil {
			return nil, fmt.Errorf("failed to parse document: %w", err)
		}
		return &Document{doc: doc, full: true}, nil
	}

	// Parsing as a body keeps leading style, script and meta tags in place
	// instead of hoisting them into a head that HTML drops.
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(src), body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fragment: %w", err)
	}
	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(body)
	for _, n := range nodes {
		body.AppendChild(n)
	}
	return &Document{doc: goquery.NewDocumentFromNode(root)}, nil
}

// Container returns the inner HTML of the first element matching selector
func (d *Document) Container(selector string) (string, bool) {
	sel := d.doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", false
	}
	inner, err := sel.Html()
	if err != nil {
		return "", false
	}
	return inner, true
}

// Inject replaces the inner HTML of the first element matching selector
func (d *Document) Inject(selector, markup string) bool {
	sel := d.doc.Find(selector).First()
	if sel.Length() == 0 {
		return false
	}
	sel.SetHtml(markup)
	return true
}

// HTML renders the document back to markup
func (d *Document) HTML() (string, error) {
	if d.full {
		return d.doc.Html()
	}
	return d.doc.Find("body").Html()
}

// Apply puts a generated gallery in place of the album link inside the
// container. A link anchor pointing at the album is replaced whole;
// otherwise the first album URL in the container's markup is replaced.
func Apply(d *Document, selector string, event gallery.GeneratedEvent) bool {
	container := d.doc.Find(selector).First()
	if container.Length() == 0 {
		return false
	}

	anchor := container.Find("a[href]").FilterFunction(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		album, ok := gallery.ParseAlbum(href)
		return ok && album == event.Album
	}).First()
	if anchor.Length() > 0 {
		anchor.ReplaceWithHtml(event.Fragment.HTML)
		return true
	}

	inner, err := container.Html()
	if err != nil {
		return false
	}
	replaced, ok := gallery.ReplaceAlbumURL(inner, event.Fragment.HTML)
	if !ok {
		return false
	}
	container.SetHtml(replaced)
	return true
}

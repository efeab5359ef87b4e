package page

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Format is the markup an input file is written in
type Format string

const (
	FormatAuto     Format = "auto"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		gmhtml.WithUnsafe(),
	),
)

// FromMarkdown converts Markdown to HTML inside a content div so the default
// container selector finds it. Bare URLs become links.
func FromMarkdown(src []byte) (string, error) {
	var buf bytes.Buffer
	buf.WriteString("<div class=\"content\">\n")
	if err := md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	buf.WriteString("</div>\n")
	return buf.String(), nil
}

// DetectFormat resolves FormatAuto from the file extension
func DetectFormat(path string, format Format) Format {
	if format != FormatAuto && format != "" {
		return format
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return FormatMarkdown
	}
	return FormatHTML
}

// Read parses src in the given format
func Read(src []byte, format Format) (*Document, error) {
	if format == FormatMarkdown {
		converted, err := FromMarkdown(src)
		if err != nil {
			return nil, err
		}
		return Parse(converted)
	}
	return Parse(string(src))
}

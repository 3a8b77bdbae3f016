// Package markdown flattens markdown that models sometimes add to a scene
// paragraph (bold field names, headings, bullet lists) into plain text.
package markdown

import (
	"bytes"
	gohtml "html"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// ToHTML renders md without smartypants so quotes and dashes in dialogue
// come through as typed.
func ToHTML(md []byte) string {
	opts := html.RendererOptions{
		Flags: html.SkipHTML,
	}
	renderer := html.NewRenderer(opts)
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := p.Parse(md)
	return string(markdown.Render(doc, renderer))
}

// Flatten returns md as plain text with entities decoded.
func Flatten(md string) string {
	return strings.TrimSpace(gohtml.UnescapeString(StripHTMLTags(ToHTML([]byte(md)))))
}

func StripHTMLTags(htmlContent string) string {
	var result bytes.Buffer
	inTag := false

	for _, ch := range htmlContent {
		switch ch {
		case '<':
			inTag = true
		case '>':
			inTag = false
		default:
			if !inTag {
				result.WriteRune(ch)
			}
		}
	}

	return result.String()
}

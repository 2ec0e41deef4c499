package client

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// skippedElements are elements whose text content is never
// person-related: code, styling, and invisible machinery. The head is
// still walked so the page title comes through.
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"iframe":   true,
	"svg":      true,
}

// blockElements delimit text blobs. Text inside one block stays
// together so downstream proximity scoring (a name next to a phone
// number) sees it as one fragment; crossing a block boundary starts a
// new blob.
var blockElements = map[string]bool{
	"p": true, "div": true, "li": true, "tr": true, "td": true,
	"th": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "article": true, "section": true,
	"header": true, "footer": true, "blockquote": true, "pre": true,
	"title": true, "br": true, "table": true, "ul": true, "ol": true,
}

// minBlobLength drops fragments too short to contain any entity.
const minBlobLength = 3

// visibleText parses an HTML page and returns its visible text as a
// list of block-level blobs with whitespace collapsed.
//
// Design decision: we use golang.org/x/net/html rather than regex
// because it correctly handles the malformed markup real result pages
// serve, and gives us element context to skip scripts and styles.
func visibleText(r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var blobs []string
	var current strings.Builder

	flush := func() {
		text := strings.Join(strings.Fields(current.String()), " ")
		current.Reset()
		if len(text) >= minBlobLength {
			blobs = append(blobs, text)
		}
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skippedElements[n.Data] {
			return
		}
		isBlock := n.Type == html.ElementNode && blockElements[n.Data]
		if isBlock {
			flush()
		}
		if n.Type == html.TextNode {
			current.WriteString(n.Data)
			current.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if isBlock {
			flush()
		}
	}
	walk(doc)
	flush()

	return blobs, nil
}

// Package pages turns EPUB content documents into page views for the
// reading surface: it loads and caches chapter text, flows it into
// viewport-sized columns and draws them.
package pages

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/go-theft-auto/triptych"
)

// BlockKind distinguishes headings from body text.
type BlockKind int

const (
	Paragraph BlockKind = iota
	Heading
)

// Block is a run of text that starts on a new line.
type Block struct {
	Kind BlockKind
	Text string
}

// ExtractText parses an (X)HTML content document and returns its visible
// text as blocks, in document order.
func ExtractText(r io.Reader) ([]Block, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}

	e := &extractor{}
	e.walk(doc)
	e.flush()
	return e.blocks, nil
}

type extractor struct {
	blocks []Block
	buf    strings.Builder
	kind   BlockKind
}

func (e *extractor) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		e.buf.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Head, atom.Script, atom.Style, atom.Template:
			return
		case atom.Br:
			e.flush()
			return
		case atom.Img:
			if alt := attr(n, "alt"); alt != "" {
				e.buf.WriteString("[" + alt + "]")
			}
			return
		}
	}

	block := n.Type == html.ElementNode && isBlock(n.DataAtom)
	if block {
		e.flush()
		if isHeading(n.DataAtom) {
			e.kind = Heading
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		e.walk(c)
	}
	if block {
		e.flush()
	}
}

// flush ends the current block, dropping it if it holds only whitespace.
func (e *extractor) flush() {
	text := triptych.NormalizeSpace(e.buf.String())
	e.buf.Reset()
	kind := e.kind
	e.kind = Paragraph
	if text == "" {
		return
	}
	e.blocks = append(e.blocks, Block{Kind: kind, Text: text})
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Section, atom.Article, atom.Aside, atom.Header,
		atom.Footer, atom.Nav, atom.Blockquote, atom.Pre, atom.Li, atom.Ul, atom.Ol,
		atom.Dl, atom.Dt, atom.Dd, atom.Table, atom.Tr, atom.Figure, atom.Figcaption,
		atom.Hr, atom.Body:
		return true
	}
	return isHeading(a)
}

func isHeading(a atom.Atom) bool {
	switch a {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

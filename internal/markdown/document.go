// Package markdown converts a reduced Markdown dialect into an htmlnode tree.
//
// Parsing runs in two phases: the document is segmented into blank-line
// separated blocks, each block is classified and built, and block text is
// tokenized into inline spans (bold, italic, code, links, images). The
// dialect has no nested lists, reference links, raw HTML, tables or
// footnotes, and fenced code content is inline-tokenized like any other text.
//
// All functions are pure and safe for concurrent use.
package markdown

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/mdsite/internal/htmlnode"
)

const titlePrefix = "# "

// Result is a converted document.
type Result struct {
	Title string
	HTML  string
}

// ToHTMLTree builds the node tree for a document: one div wrapping every block.
func ToHTMLTree(document string) (htmlnode.Node, error) {
	blocks := Segment(document)
	if len(blocks) == 0 {
		return nil, fmt.Errorf("empty document: %w", htmlnode.ErrMissingTagOrChildren)
	}
	children := make([]htmlnode.Node, 0, len(blocks))
	for i, block := range blocks {
		node, err := BuildBlock(block)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i+1, err)
		}
		children = append(children, node)
	}
	return htmlnode.NewParent("div", children), nil
}

// ExtractTitle returns the text of the first line starting with "# ".
func ExtractTitle(document string) (string, error) {
	for _, line := range strings.Split(document, "\n") {
		if title, ok := strings.CutPrefix(line, titlePrefix); ok {
			return title, nil
		}
	}
	return "", ErrNoTitleFound
}

// Render converts a document straight to its HTML fragment.
func Render(document string) (string, error) {
	tree, err := ToHTMLTree(document)
	if err != nil {
		return "", err
	}
	return tree.Render()
}

// Convert renders a document and extracts its title. Content errors are
// reported before a missing title.
func Convert(document string) (Result, error) {
	html, err := Render(document)
	if err != nil {
		return Result{}, err
	}
	title, err := ExtractTitle(document)
	if err != nil {
		return Result{}, err
	}
	return Result{Title: title, HTML: html}, nil
}

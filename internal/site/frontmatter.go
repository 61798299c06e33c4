package site

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"
)

// PageMeta is the optional YAML front matter of a content page.
type PageMeta struct {
	Title string `yaml:"title"`
	Draft bool   `yaml:"draft"`
}

// parseFrontMatter separates front matter from the Markdown body. Documents
// without front matter are returned unchanged.
func parseFrontMatter(source []byte) (PageMeta, []byte, error) {
	var meta PageMeta
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return PageMeta{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return meta, body, nil
}

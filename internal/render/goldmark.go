package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/mdsite/internal/config"
	"git.home.luguber.info/inful/mdsite/internal/markdown"
)

// Goldmark renders CommonMark with GFM extensions. The title is the text of
// the first level-1 heading.
type Goldmark struct {
	md goldmark.Markdown
}

// NewGoldmark builds a goldmark engine. The instance is stateless and safe
// for concurrent use.
func NewGoldmark() *Goldmark {
	return &Goldmark{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

func (g *Goldmark) Name() string { return config.EngineGoldmark }

func (g *Goldmark) Convert(source []byte) (Result, error) {
	doc := g.md.Parser().Parse(text.NewReader(source))

	var buf bytes.Buffer
	if err := g.md.Renderer().Render(&buf, source, doc); err != nil {
		return Result{}, fmt.Errorf("goldmark render: %w", err)
	}

	title, err := firstTitle(doc, source)
	return Result{Title: title, HTML: buf.String()}, err
}

func firstTitle(doc ast.Node, source []byte) (string, error) {
	var title string
	found := false
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok || h.Level != 1 {
			return ast.WalkContinue, nil
		}
		title = headingText(h, source)
		found = true
		return ast.WalkStop, nil
	})
	if err != nil {
		return "", err
	}
	if !found {
		return "", markdown.ErrNoTitleFound
	}
	return title, nil
}

func headingText(h *ast.Heading, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(h, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Text:
			buf.Write(v.Segment.Value(source))
			if v.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

// Package render selects the Markdown engine used for page content.
package render

import (
	"fmt"

	"git.home.luguber.info/inful/mdsite/internal/config"
	serrors "git.home.luguber.info/inful/mdsite/internal/errors"
	"git.home.luguber.info/inful/mdsite/internal/markdown"
)

// Result is the rendered page content and its title.
type Result = markdown.Result

// Engine converts one Markdown document. When only the title is missing the
// returned Result still carries the rendered HTML alongside ErrNoTitleFound,
// so callers with a title from elsewhere can use it.
type Engine interface {
	Name() string
	Convert(source []byte) (Result, error)
}

// New returns the engine registered under name.
func New(name string) (Engine, error) {
	switch name {
	case "", config.EngineBuiltin:
		return Builtin{}, nil
	case config.EngineGoldmark:
		return NewGoldmark(), nil
	default:
		return nil, serrors.ValidationFailed("build.engine", fmt.Sprintf("unsupported engine %q", name))
	}
}

// Builtin renders with the in-tree Markdown dialect.
type Builtin struct{}

func (Builtin) Name() string { return config.EngineBuiltin }

func (Builtin) Convert(source []byte) (Result, error) {
	document := string(source)
	html, err := markdown.Render(document)
	if err != nil {
		return Result{}, err
	}
	title, err := markdown.ExtractTitle(document)
	return Result{Title: title, HTML: html}, err
}

package site

import (
	"log/slog"
	"os"
	"strings"

	serrors "git.home.luguber.info/inful/mdsite/internal/errors"
	"git.home.luguber.info/inful/mdsite/internal/logfields"
)

// Template placeholders. Every occurrence of each is replaced.
const (
	TitlePlaceholder   = "{{ Title }}"
	ContentPlaceholder = "{{ Content }}"
)

// Template is a page layout with literal placeholders.
type Template struct {
	raw string
}

// NewTemplate wraps a template string.
func NewTemplate(raw string) *Template {
	return &Template{raw: raw}
}

// LoadTemplate reads the layout from path. A missing placeholder is logged
// but not fatal.
func LoadTemplate(path string, logger *slog.Logger) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, serrors.TemplateError(path, err)
	}
	tmpl := NewTemplate(string(data))
	if logger == nil {
		logger = slog.Default()
	}
	for _, ph := range tmpl.MissingPlaceholders() {
		logger.Warn("Template is missing placeholder", logfields.Path(path), slog.String("placeholder", ph))
	}
	return tmpl, nil
}

// MissingPlaceholders lists the placeholders the template never uses.
func (t *Template) MissingPlaceholders() []string {
	var missing []string
	for _, ph := range []string{TitlePlaceholder, ContentPlaceholder} {
		if !strings.Contains(t.raw, ph) {
			missing = append(missing, ph)
		}
	}
	return missing
}

// Execute substitutes the title first, then the content, so a content body
// containing the literal title placeholder is left untouched.
func (t *Template) Execute(title, content string) string {
	out := strings.ReplaceAll(t.raw, TitlePlaceholder, title)
	return strings.ReplaceAll(out, ContentPlaceholder, content)
}

// Raw returns the unmodified template text.
func (t *Template) Raw() string {
	return t.raw
}

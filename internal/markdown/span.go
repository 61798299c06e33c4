package markdown

import (
	"fmt"

	"git.home.luguber.info/inful/mdsite/internal/htmlnode"
)

// SpanKind classifies an inline text span.
type SpanKind int

const (
	SpanPlain SpanKind = iota
	SpanBold
	SpanItalic
	SpanCode
	SpanLink
	SpanImage
)

var spanKindNames = [...]string{
	SpanPlain:  "plain",
	SpanBold:   "bold",
	SpanItalic: "italic",
	SpanCode:   "code",
	SpanLink:   "link",
	SpanImage:  "image",
}

func (k SpanKind) String() string {
	if k < 0 || int(k) >= len(spanKindNames) {
		return fmt.Sprintf("SpanKind(%d)", int(k))
	}
	return spanKindNames[k]
}

// TextSpan is a contiguous run of inline text with one formatting kind.
// Target holds the URL of links and images.
type TextSpan struct {
	Text   string
	Kind   SpanKind
	Target string
}

// Plain returns an unformatted span.
func Plain(text string) TextSpan { return TextSpan{Text: text, Kind: SpanPlain} }

func (s TextSpan) String() string {
	if s.Target != "" {
		return fmt.Sprintf("TextSpan(%q, %s, %q)", s.Text, s.Kind, s.Target)
	}
	return fmt.Sprintf("TextSpan(%q, %s)", s.Text, s.Kind)
}

// SpanToNode converts a span to its leaf node.
func SpanToNode(s TextSpan) (htmlnode.Node, error) {
	switch s.Kind {
	case SpanPlain:
		return htmlnode.Text(s.Text), nil
	case SpanBold:
		return htmlnode.NewLeaf("b", s.Text), nil
	case SpanItalic:
		return htmlnode.NewLeaf("i", s.Text), nil
	case SpanCode:
		return htmlnode.NewLeaf("code", s.Text), nil
	case SpanLink:
		return htmlnode.NewLeaf("a", s.Text, htmlnode.Attr{Key: "href", Value: s.Target}), nil
	case SpanImage:
		return htmlnode.NewLeaf("img", "",
			htmlnode.Attr{Key: "src", Value: s.Target},
			htmlnode.Attr{Key: "alt", Value: s.Text},
		), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSpanKind, s.Kind)
	}
}

package markdown

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	imagePattern = regexp.MustCompile(`!\[([^\[\]]*)\]\(([^\(\)]*)\)`)
	linkPattern  = regexp.MustCompile(`\[([^\[\]]*)\]\(([^\(\)]*)\)`)
)

// Reference is a label/URL pair extracted from link or image markup.
type Reference struct {
	Label string
	URL   string
}

// Tokenize splits text into inline spans. Stages run in a fixed order
// (bold, italic, code, links, images) and each only touches plain spans.
func Tokenize(text string) ([]TextSpan, error) {
	spans := []TextSpan{Plain(text)}
	var err error
	for _, stage := range []struct {
		delim string
		kind  SpanKind
	}{
		{"**", SpanBold},
		{"*", SpanItalic},
		{"`", SpanCode},
	} {
		if spans, err = SplitDelimiter(spans, stage.delim, stage.kind); err != nil {
			return nil, err
		}
	}
	if spans, err = SplitLinks(spans); err != nil {
		return nil, err
	}
	return SplitImages(spans)
}

// SplitDelimiter splits every plain span on delim. Parts alternate between
// outside (plain) and inside (kind) starting outside. Empty parts are kept.
func SplitDelimiter(spans []TextSpan, delim string, kind SpanKind) ([]TextSpan, error) {
	out := make([]TextSpan, 0, len(spans))
	for _, span := range spans {
		if span.Kind != SpanPlain {
			out = append(out, span)
			continue
		}
		parts := strings.Split(span.Text, delim)
		if len(parts)%2 == 0 {
			return nil, fmt.Errorf("%w: %q in %q", ErrUnbalancedDelimiter, delim, span.Text)
		}
		for i, part := range parts {
			if i%2 == 0 {
				out = append(out, Plain(part))
			} else {
				out = append(out, TextSpan{Text: part, Kind: kind})
			}
		}
	}
	return out, nil
}

// ExtractImages returns every ![alt](url) reference in text, left to right.
func ExtractImages(text string) []Reference {
	matches := imagePattern.FindAllStringSubmatch(text, -1)
	refs := make([]Reference, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, Reference{Label: m[1], URL: m[2]})
	}
	return refs
}

// ExtractLinks returns every [label](url) reference in text that is not
// immediately preceded by '!', left to right.
func ExtractLinks(text string) []Reference {
	var refs []Reference
	pos := 0
	for pos < len(text) {
		loc := linkPattern.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		start := pos + loc[0]
		if start > 0 && text[start-1] == '!' {
			pos = start + 1
			continue
		}
		refs = append(refs, Reference{
			Label: text[pos+loc[2] : pos+loc[3]],
			URL:   text[pos+loc[4] : pos+loc[5]],
		})
		pos += loc[1]
	}
	return refs
}

// SplitImages turns image markup inside plain spans into image spans.
func SplitImages(spans []TextSpan) ([]TextSpan, error) {
	return splitReferences(spans, SpanImage, ExtractImages, func(r Reference) string {
		return "![" + r.Label + "](" + r.URL + ")"
	})
}

// SplitLinks turns link markup inside plain spans into link spans.
func SplitLinks(spans []TextSpan) ([]TextSpan, error) {
	return splitReferences(spans, SpanLink, ExtractLinks, func(r Reference) string {
		return "[" + r.Label + "](" + r.URL + ")"
	})
}

func splitReferences(
	spans []TextSpan,
	kind SpanKind,
	extract func(string) []Reference,
	markup func(Reference) string,
) ([]TextSpan, error) {
	out := make([]TextSpan, 0, len(spans))
	for _, span := range spans {
		if span.Kind != SpanPlain {
			out = append(out, span)
			continue
		}
		rest := span.Text
		for _, ref := range extract(span.Text) {
			literal := markup(ref)
			before, after, found := strings.Cut(rest, literal)
			if !found {
				return nil, fmt.Errorf("%w: %s %q not found in %q", ErrMalformedInlineMarkup, kind, literal, rest)
			}
			if before != "" {
				out = append(out, Plain(before))
			}
			out = append(out, TextSpan{Text: ref.Label, Kind: kind, Target: ref.URL})
			rest = after
		}
		if rest != "" {
			out = append(out, Plain(rest))
		}
	}
	return out, nil
}

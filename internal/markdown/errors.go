package markdown

import "errors"

// Parse errors. All of them are returned to the caller wrapped with position
// context; match them with errors.Is.
var (
	// ErrUnbalancedDelimiter reports an unterminated bold, italic or code span.
	ErrUnbalancedDelimiter = errors.New("unbalanced inline delimiter")
	// ErrMalformedInlineMarkup reports a link or image match that could not be split out.
	ErrMalformedInlineMarkup = errors.New("malformed inline markup")
	// ErrUnknownBlockKind reports a block kind without a builder.
	ErrUnknownBlockKind = errors.New("unknown block kind")
	// ErrUnknownSpanKind reports a span kind without a node mapping.
	ErrUnknownSpanKind = errors.New("unknown span kind")
	// ErrNoTitleFound reports a document without a level-1 heading line.
	ErrNoTitleFound = errors.New("no level-1 heading found")
)

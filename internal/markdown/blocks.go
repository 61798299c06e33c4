package markdown

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/mdsite/internal/htmlnode"
)

// BlockType enumerates the supported block kinds.
type BlockType int

const (
	BlockParagraph BlockType = iota
	BlockHeading
	BlockCode
	BlockQuote
	BlockUnorderedList
	BlockOrderedList
)

var blockTypeNames = [...]string{
	BlockParagraph:     "paragraph",
	BlockHeading:       "heading",
	BlockCode:          "code",
	BlockQuote:         "quote",
	BlockUnorderedList: "unordered_list",
	BlockOrderedList:   "ordered_list",
}

func (t BlockType) String() string {
	if t < 0 || int(t) >= len(blockTypeNames) {
		return "BlockType(" + strconv.Itoa(int(t)) + ")"
	}
	return blockTypeNames[t]
}

// BlockKind is the classification of a block. Level is set for headings only.
type BlockKind struct {
	Type  BlockType
	Level int
}

func (k BlockKind) String() string {
	if k.Type == BlockHeading {
		return fmt.Sprintf("heading(%d)", k.Level)
	}
	return k.Type.String()
}

const codeFence = "```"

var headingPattern = regexp.MustCompile(`^(#{1,6}) [^#]`)

// Segment splits a document into blocks separated by blank lines. Blocks are
// trimmed and blank ones are dropped.
func Segment(document string) []string {
	parts := strings.Split(document, "\n\n")
	blocks := make([]string, 0, len(parts))
	for _, part := range parts {
		if block := strings.TrimSpace(part); block != "" {
			blocks = append(blocks, block)
		}
	}
	return blocks
}

// Classify returns the kind of a non-empty block. Paragraph is the fallback.
func Classify(block string) BlockKind {
	if m := headingPattern.FindStringSubmatch(block); m != nil {
		return BlockKind{Type: BlockHeading, Level: len(m[1])}
	}
	if len(block) >= 2*len(codeFence) && strings.HasPrefix(block, codeFence) && strings.HasSuffix(block, codeFence) {
		return BlockKind{Type: BlockCode}
	}

	lines := strings.Split(block, "\n")
	switch {
	case strings.HasPrefix(block, ">"):
		for _, line := range lines {
			if !strings.HasPrefix(line, ">") {
				return BlockKind{Type: BlockParagraph}
			}
		}
		return BlockKind{Type: BlockQuote}
	case isBullet(block):
		for _, line := range lines {
			if !isBullet(line) {
				return BlockKind{Type: BlockParagraph}
			}
		}
		return BlockKind{Type: BlockUnorderedList}
	case strings.HasPrefix(block, "1. "):
		for i, line := range lines {
			if !strings.HasPrefix(line, strconv.Itoa(i+1)+". ") {
				return BlockKind{Type: BlockParagraph}
			}
		}
		return BlockKind{Type: BlockOrderedList}
	}
	return BlockKind{Type: BlockParagraph}
}

func isBullet(line string) bool {
	return strings.HasPrefix(line, "* ") || strings.HasPrefix(line, "- ")
}

// BuildBlock classifies a block and builds its node.
func BuildBlock(block string) (htmlnode.Node, error) {
	return buildKind(block, Classify(block))
}

func buildKind(block string, kind BlockKind) (htmlnode.Node, error) {
	switch kind.Type {
	case BlockParagraph:
		return buildParagraph(block)
	case BlockHeading:
		return buildHeading(block, kind.Level)
	case BlockCode:
		return buildCode(block)
	case BlockQuote:
		return buildQuote(block)
	case BlockUnorderedList:
		return buildList(block, "ul", 2)
	case BlockOrderedList:
		return buildList(block, "ol", 3)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBlockKind, kind)
	}
}

// inlineChildren tokenizes text and converts each span to a leaf node.
func inlineChildren(text string) ([]htmlnode.Node, error) {
	spans, err := Tokenize(text)
	if err != nil {
		return nil, err
	}
	nodes := make([]htmlnode.Node, 0, len(spans))
	for _, span := range spans {
		n, err := SpanToNode(span)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func buildParagraph(block string) (htmlnode.Node, error) {
	children, err := inlineChildren(strings.Join(strings.Split(block, "\n"), " "))
	if err != nil {
		return nil, err
	}
	return htmlnode.NewParent("p", children), nil
}

func buildHeading(block string, level int) (htmlnode.Node, error) {
	children, err := inlineChildren(block[level+1:])
	if err != nil {
		return nil, err
	}
	return htmlnode.NewParent("h"+strconv.Itoa(level), children), nil
}

// buildCode inline-tokenizes the fenced content; fences are not verbatim in this dialect.
func buildCode(block string) (htmlnode.Node, error) {
	children, err := inlineChildren(block[len(codeFence) : len(block)-len(codeFence)])
	if err != nil {
		return nil, err
	}
	code := htmlnode.NewParent("code", children)
	return htmlnode.NewParent("pre", []htmlnode.Node{code}), nil
}

func buildQuote(block string) (htmlnode.Node, error) {
	lines := strings.Split(block, "\n")
	quoted := make([]string, 0, len(lines))
	for _, line := range lines {
		quoted = append(quoted, strings.TrimSpace(strings.TrimPrefix(line, ">")))
	}
	children, err := inlineChildren(strings.Join(quoted, " "))
	if err != nil {
		return nil, err
	}
	return htmlnode.NewParent("blockquote", children), nil
}

func buildList(block, tag string, markerLen int) (htmlnode.Node, error) {
	lines := strings.Split(block, "\n")
	items := make([]htmlnode.Node, 0, len(lines))
	for i, line := range lines {
		children, err := inlineChildren(line[markerLen:])
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		items = append(items, htmlnode.NewParent("li", children))
	}
	return htmlnode.NewParent(tag, items), nil
}

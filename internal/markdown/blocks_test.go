package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSegment(t *testing.T) {
	md := `
This is **bolded** paragraph

This is another paragraph with *italic* text and ` + "`code`" + ` here
This is the same paragraph on a new line

* This is a list
* with items
`
	require.Equal(t, []string{
		"This is **bolded** paragraph",
		"This is another paragraph with *italic* text and `code` here\nThis is the same paragraph on a new line",
		"* This is a list\n* with items",
	}, Segment(md))
}

func TestSegment_DropsBlankRuns(t *testing.T) {
	require.Equal(t, []string{"a", "b"}, Segment("a\n\n\n\n\nb"))
	require.Equal(t, []string{"a", "b"}, Segment("  a  \n\n \t \n\nb\n"))
	require.Empty(t, Segment(""))
	require.Empty(t, Segment(" \n\n\t\n\n  "))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		block    string
		expected BlockKind
	}{
		{"# heading", BlockKind{Type: BlockHeading, Level: 1}},
		{"### heading three", BlockKind{Type: BlockHeading, Level: 3}},
		{"###### heading six", BlockKind{Type: BlockHeading, Level: 6}},
		{"# heading\nwith a second line", BlockKind{Type: BlockHeading, Level: 1}},
		{"####### seven is too many", BlockKind{Type: BlockParagraph}},
		{"#missing space", BlockKind{Type: BlockParagraph}},
		{"## #hash after space", BlockKind{Type: BlockParagraph}},
		{"text\n# heading not on first line", BlockKind{Type: BlockParagraph}},
		{"```\ncode\n```", BlockKind{Type: BlockCode}},
		{"``````", BlockKind{Type: BlockCode}},
		{"`````", BlockKind{Type: BlockParagraph}},
		{"```\nunterminated", BlockKind{Type: BlockParagraph}},
		{"> quote\n> more quote", BlockKind{Type: BlockQuote}},
		{">no space is fine", BlockKind{Type: BlockQuote}},
		{"> quote\nnot a quote", BlockKind{Type: BlockParagraph}},
		{"* list\n* items", BlockKind{Type: BlockUnorderedList}},
		{"- list\n* mixed markers", BlockKind{Type: BlockUnorderedList}},
		{"- list\nbroken", BlockKind{Type: BlockParagraph}},
		{"-no space", BlockKind{Type: BlockParagraph}},
		{"1. list\n2. items", BlockKind{Type: BlockOrderedList}},
		{"1. a\n2. b\n3. c", BlockKind{Type: BlockOrderedList}},
		{"1. a\n2. b\n4. c", BlockKind{Type: BlockParagraph}},
		{"2. starts at two", BlockKind{Type: BlockParagraph}},
		{"1. a\n1. b", BlockKind{Type: BlockParagraph}},
		{"paragraph", BlockKind{Type: BlockParagraph}},
	}

	for _, tt := range tests {
		t.Run(tt.block, func(t *testing.T) {
			require.Equal(t, tt.expected, Classify(tt.block))
		})
	}
}

func TestBlockKind_String(t *testing.T) {
	require.Equal(t, "heading(2)", BlockKind{Type: BlockHeading, Level: 2}.String())
	require.Equal(t, "ordered_list", BlockKind{Type: BlockOrderedList}.String())
	require.Equal(t, "BlockType(42)", BlockType(42).String())
}

func TestBuildBlock(t *testing.T) {
	tests := []struct {
		name     string
		block    string
		expected string
	}{
		{"heading", "## paragraph with *italic* and **bold**", "<h2>paragraph with <i>italic</i> and <b>bold</b></h2>"},
		{"heading six", "###### small", "<h6>small</h6>"},
		{"code", "```print('x')```", "<pre><code>print('x')</code></pre>"},
		{"multiline code", "```\nfunc main() {}\n```", "<pre><code>\nfunc main() {}\n</code></pre>"},
		{"quote", "> line one\n> line two", "<blockquote>line one line two</blockquote>"},
		{"quote trims", ">   spaced  \n>tight", "<blockquote>spaced tight</blockquote>"},
		{"unordered", "- one\n* *two*", "<ul><li>one</li><li><i>two</i></li></ul>"},
		{"ordered", "1. `one`\n2. two", "<ol><li><code>one</code></li><li>two</li></ol>"},
		{"paragraph", "first line\nsecond **line**", "<p>first line second <b>line</b></p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := BuildBlock(tt.block)
			require.NoError(t, err)
			got, err := node.Render()
			require.NoError(t, err)
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestBuildBlock_ListItemError(t *testing.T) {
	_, err := BuildBlock("- fine\n- *broken")
	require.ErrorIs(t, err, ErrUnbalancedDelimiter)
	require.Contains(t, err.Error(), "item 2")
}

func TestBuildKind_Unknown(t *testing.T) {
	_, err := buildKind("text", BlockKind{Type: BlockType(42)})
	require.ErrorIs(t, err, ErrUnknownBlockKind)
}

package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitDelimiter(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		delim    string
		kind     SpanKind
		expected []TextSpan
	}{
		{
			name:  "code",
			input: "This is text with a `code block` word",
			delim: "`",
			kind:  SpanCode,
			expected: []TextSpan{
				Plain("This is text with a "),
				{Text: "code block", Kind: SpanCode},
				Plain(" word"),
			},
		},
		{
			name:  "bold",
			input: "This is text with a **bold** word",
			delim: "**",
			kind:  SpanBold,
			expected: []TextSpan{
				Plain("This is text with a "),
				{Text: "bold", Kind: SpanBold},
				Plain(" word"),
			},
		},
		{
			name:  "multiple italic",
			input: "This is text with an *italic* and *another italic* word",
			delim: "*",
			kind:  SpanItalic,
			expected: []TextSpan{
				Plain("This is text with an "),
				{Text: "italic", Kind: SpanItalic},
				Plain(" and "),
				{Text: "another italic", Kind: SpanItalic},
				Plain(" word"),
			},
		},
		{
			name:  "delimiter at end keeps empty tail",
			input: "This is text with an *italic*",
			delim: "*",
			kind:  SpanItalic,
			expected: []TextSpan{
				Plain("This is text with an "),
				{Text: "italic", Kind: SpanItalic},
				Plain(""),
			},
		},
		{
			name:     "no delimiter",
			input:    "plain words",
			delim:    "*",
			kind:     SpanItalic,
			expected: []TextSpan{Plain("plain words")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitDelimiter([]TextSpan{Plain(tt.input)}, tt.delim, tt.kind)
			require.NoError(t, err)
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestSplitDelimiter_Unbalanced(t *testing.T) {
	_, err := SplitDelimiter([]TextSpan{Plain("This is text with an *italic")}, "*", SpanItalic)
	require.ErrorIs(t, err, ErrUnbalancedDelimiter)

	_, err = Tokenize("an unterminated `code span")
	require.ErrorIs(t, err, ErrUnbalancedDelimiter)
}

func TestSplitDelimiter_SkipsFormattedSpans(t *testing.T) {
	in := []TextSpan{{Text: "a*b", Kind: SpanCode}, Plain("x *y* z")}
	got, err := SplitDelimiter(in, "*", SpanItalic)
	require.NoError(t, err)
	require.Equal(t, []TextSpan{
		{Text: "a*b", Kind: SpanCode},
		Plain("x "),
		{Text: "y", Kind: SpanItalic},
		Plain(" z"),
	}, got)
}

func TestExtractImages(t *testing.T) {
	refs := ExtractImages("This is text with a ![rick roll](https://i.imgur.com/aKaOqIh.gif) and ![obi wan](https://i.imgur.com/fJRm4Vk.jpeg)")
	require.Equal(t, []Reference{
		{Label: "rick roll", URL: "https://i.imgur.com/aKaOqIh.gif"},
		{Label: "obi wan", URL: "https://i.imgur.com/fJRm4Vk.jpeg"},
	}, refs)
}

func TestExtractLinks(t *testing.T) {
	refs := ExtractLinks("This is text with a link [to boot dev](https://www.boot.dev) and [to youtube](https://www.youtube.com/@bootdotdev)")
	require.Equal(t, []Reference{
		{Label: "to boot dev", URL: "https://www.boot.dev"},
		{Label: "to youtube", URL: "https://www.youtube.com/@bootdotdev"},
	}, refs)
}

func TestExtractLinks_SkipsImages(t *testing.T) {
	refs := ExtractLinks("![img](a.png) and [link](b.html)![x](y)[z](w)")
	require.Equal(t, []Reference{
		{Label: "link", URL: "b.html"},
		{Label: "z", URL: "w"},
	}, refs)

	require.Empty(t, ExtractLinks("only ![an image](pic.png) here"))
	require.Empty(t, ExtractLinks("nested [a [b]](c) and [d](e (f))"))
}

func TestSplitImages(t *testing.T) {
	got, err := SplitImages([]TextSpan{Plain("This is text with an ![image](https://i.imgur.com/zjjcJKZ.png) and another ![second image](https://i.imgur.com/3elNhQu.png)")})
	require.NoError(t, err)
	require.Equal(t, []TextSpan{
		Plain("This is text with an "),
		{Text: "image", Kind: SpanImage, Target: "https://i.imgur.com/zjjcJKZ.png"},
		Plain(" and another "),
		{Text: "second image", Kind: SpanImage, Target: "https://i.imgur.com/3elNhQu.png"},
	}, got)
}

func TestSplitImages_LeavesFollowingLink(t *testing.T) {
	got, err := SplitImages([]TextSpan{Plain("This is text with a ![alt](http://x)[lbl](http://y)")})
	require.NoError(t, err)
	require.Equal(t, []TextSpan{
		Plain("This is text with a "),
		{Text: "alt", Kind: SpanImage, Target: "http://x"},
		Plain("[lbl](http://y)"),
	}, got)
}

func TestSplitLinks(t *testing.T) {
	got, err := SplitLinks([]TextSpan{
		{Text: "[not](split)", Kind: SpanCode},
		Plain("[a](x) and ![i](y) then [b](z) tail"),
	})
	require.NoError(t, err)
	require.Equal(t, []TextSpan{
		{Text: "[not](split)", Kind: SpanCode},
		{Text: "a", Kind: SpanLink, Target: "x"},
		Plain(" and ![i](y) then "),
		{Text: "b", Kind: SpanLink, Target: "z"},
		Plain(" tail"),
	}, got)
}

func TestSplitLinks_DropsEmptyPlain(t *testing.T) {
	got, err := SplitLinks([]TextSpan{Plain(""), {Text: "b", Kind: SpanBold}, Plain("")})
	require.NoError(t, err)
	require.Equal(t, []TextSpan{{Text: "b", Kind: SpanBold}}, got)
}

func TestTokenize(t *testing.T) {
	got, err := Tokenize("This is **text** with an *italic* word and a `code block` and an ![obi wan image](https://i.imgur.com/fJRm4Vk.jpeg) and a [link](https://boot.dev)")
	require.NoError(t, err)
	require.Equal(t, []TextSpan{
		Plain("This is "),
		{Text: "text", Kind: SpanBold},
		Plain(" with an "),
		{Text: "italic", Kind: SpanItalic},
		Plain(" word and a "),
		{Text: "code block", Kind: SpanCode},
		Plain(" and an "),
		{Text: "obi wan image", Kind: SpanImage, Target: "https://i.imgur.com/fJRm4Vk.jpeg"},
		Plain(" and a "),
		{Text: "link", Kind: SpanLink, Target: "https://boot.dev"},
	}, got)
}

func TestTokenize_ReconstructsText(t *testing.T) {
	strip := strings.NewReplacer("*", "", "`", "")
	inputs := []string{
		"",
		"plain text only",
		"**bold** at start",
		"ends with *italic*",
		"mixed **b** and *i* and `c`",
		"adjacent ****empty bold",
		"**bold** then `code` and *more*",
		"``",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			spans, err := Tokenize(in)
			require.NoError(t, err)
			var b strings.Builder
			for _, s := range spans {
				b.WriteString(s.Text)
			}
			require.Equal(t, strip.Replace(in), b.String())
		})
	}
}

func TestSplitDelimiter_PlainSpansAreStable(t *testing.T) {
	stages := []struct {
		delim string
		kind  SpanKind
	}{{"**", SpanBold}, {"*", SpanItalic}, {"`", SpanCode}}

	for _, stage := range stages {
		spans, err := SplitDelimiter([]TextSpan{Plain("a " + stage.delim + "x" + stage.delim + " b " + stage.delim + stage.delim)}, stage.delim, stage.kind)
		require.NoError(t, err)
		for _, span := range spans {
			if span.Kind != SpanPlain {
				continue
			}
			again, err := SplitDelimiter([]TextSpan{span}, stage.delim, stage.kind)
			require.NoError(t, err)
			require.Equal(t, []TextSpan{span}, again, "stage %q", stage.delim)
		}
	}
}

func TestSpanToNode(t *testing.T) {
	tests := []struct {
		span     TextSpan
		expected string
	}{
		{Plain("This is a text node"), "This is a text node"},
		{TextSpan{Text: "bold", Kind: SpanBold}, "<b>bold</b>"},
		{TextSpan{Text: "it", Kind: SpanItalic}, "<i>it</i>"},
		{TextSpan{Text: "x := 1", Kind: SpanCode}, "<code>x := 1</code>"},
		{TextSpan{Text: "boot", Kind: SpanLink, Target: "https://boot.dev"}, `<a href="https://boot.dev">boot</a>`},
		{TextSpan{Text: "logo", Kind: SpanImage, Target: "/logo.png"}, `<img src="/logo.png" alt="logo"></img>`},
	}
	for _, tt := range tests {
		t.Run(tt.span.Kind.String(), func(t *testing.T) {
			n, err := SpanToNode(tt.span)
			require.NoError(t, err)
			got, err := n.Render()
			require.NoError(t, err)
			require.Equal(t, tt.expected, got)
		})
	}

	_, err := SpanToNode(TextSpan{Text: "x", Kind: SpanKind(99)})
	require.ErrorIs(t, err, ErrUnknownSpanKind)
}

package site

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	serrors "git.home.luguber.info/inful/mdsite/internal/errors"
	"git.home.luguber.info/inful/mdsite/internal/markdown"
	"git.home.luguber.info/inful/mdsite/internal/metrics"
	"git.home.luguber.info/inful/mdsite/internal/render"
	"git.home.luguber.info/inful/mdsite/internal/state"
)

func newTestGenerator(t *testing.T, opts Options) *Generator {
	t.Helper()
	if opts.Template == nil {
		opts.Template = NewTemplate(testTemplate)
	}
	return NewGenerator(opts)
}

func parseHTML(t *testing.T, path string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(readFile(t, path)))
	require.NoError(t, err)
	return doc
}

func TestGeneratePage(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "index.md")
	dest := filepath.Join(dir, "out", "nested", "index.html")
	writeTree(t, dir, map[string]string{
		"index.md": "# Tolkien Fan Club\n\n**I like Tolkien**. Read my [first post here](/majesty)\n\n> All that is gold does not glitter",
	})

	rep, err := newTestGenerator(t, Options{}).GeneratePage(context.Background(), "index.md", src, dest)
	require.NoError(t, err)
	require.Equal(t, metrics.PageWritten, rep.Result)
	require.Equal(t, "Tolkien Fan Club", rep.Title)
	require.Positive(t, rep.Bytes)

	doc := parseHTML(t, dest)
	require.Equal(t, "Tolkien Fan Club", doc.Find("title").Text())
	require.Equal(t, "Tolkien Fan Club", doc.Find("header").Text())
	require.Equal(t, "Tolkien Fan Club", doc.Find("main > div > h1").Text())
	href, ok := doc.Find("main a").Attr("href")
	require.True(t, ok)
	require.Equal(t, "/majesty", href)
	require.Equal(t, "All that is gold does not glitter", doc.Find("blockquote").Text())
	require.NotContains(t, readFile(t, dest), "{{ ")
}

func TestGeneratePage_MalformedWritesNothing(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"bad.md": "# Title\n\nThis has *unclosed italic"})
	dest := filepath.Join(dir, "bad.html")

	rep, err := newTestGenerator(t, Options{}).GeneratePage(context.Background(), "bad.md", filepath.Join(dir, "bad.md"), dest)
	require.ErrorIs(t, err, markdown.ErrUnbalancedDelimiter)
	require.True(t, serrors.IsCategory(err, serrors.CategoryMarkdown))
	require.Equal(t, metrics.PageFailed, rep.Result)

	_, statErr := os.Stat(dest)
	require.True(t, os.IsNotExist(statErr))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
}

func TestGeneratePage_MissingTitle(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.md": "no title here"})

	_, err := newTestGenerator(t, Options{}).GeneratePage(context.Background(), "a.md", filepath.Join(dir, "a.md"), filepath.Join(dir, "a.html"))
	require.ErrorIs(t, err, markdown.ErrNoTitleFound)
}

func TestGeneratePage_FrontMatter(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"titled.md": "---\ntitle: From Front Matter\n---\nno heading in the body",
		"draft.md":  "---\ndraft: true\n---\n# Draft",
		"both.md":   "---\ntitle: Override\n---\n# Heading Title\n\ntext",
	})
	gen := newTestGenerator(t, Options{SkipDrafts: true})
	ctx := context.Background()

	rep, err := gen.GeneratePage(ctx, "titled.md", filepath.Join(dir, "titled.md"), filepath.Join(dir, "titled.html"))
	require.NoError(t, err)
	require.Equal(t, "From Front Matter", rep.Title)
	require.Equal(t, "From Front Matter", parseHTML(t, filepath.Join(dir, "titled.html")).Find("title").Text())

	rep, err = gen.GeneratePage(ctx, "both.md", filepath.Join(dir, "both.md"), filepath.Join(dir, "both.html"))
	require.NoError(t, err)
	require.Equal(t, "Override", rep.Title)
	require.Equal(t, "Heading Title", parseHTML(t, filepath.Join(dir, "both.html")).Find("h1").Text())

	writeTree(t, dir, map[string]string{"draft.html": "stale"})
	rep, err = gen.GeneratePage(ctx, "draft.md", filepath.Join(dir, "draft.md"), filepath.Join(dir, "draft.html"))
	require.NoError(t, err)
	require.Equal(t, metrics.PageDraft, rep.Result)
	_, statErr := os.Stat(filepath.Join(dir, "draft.html"))
	require.True(t, os.IsNotExist(statErr))

	rep, err = newTestGenerator(t, Options{}).GeneratePage(ctx, "draft.md", filepath.Join(dir, "draft.md"), filepath.Join(dir, "draft.html"))
	require.NoError(t, err)
	require.Equal(t, metrics.PageWritten, rep.Result)
}

func TestGeneratePage_GoldmarkEngine(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"g.md": "# Goldmark\n\n- one\n  - nested\n"})

	gen := newTestGenerator(t, Options{Engine: render.NewGoldmark()})
	_, err := gen.GeneratePage(context.Background(), "g.md", filepath.Join(dir, "g.md"), filepath.Join(dir, "g.html"))
	require.NoError(t, err)
	require.Equal(t, 1, parseHTML(t, filepath.Join(dir, "g.html")).Find("ul ul li").Length())
}

func TestGeneratePage_Incremental(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"p.md": "# P\n\nfirst"})
	src, dest := filepath.Join(dir, "p.md"), filepath.Join(dir, "p.html")

	store, err := state.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	gen := newTestGenerator(t, Options{Store: store})

	rep, err := gen.GeneratePage(ctx, "p.md", src, dest)
	require.NoError(t, err)
	require.Equal(t, metrics.PageWritten, rep.Result)

	rep, err = gen.GeneratePage(ctx, "p.md", src, dest)
	require.NoError(t, err)
	require.Equal(t, metrics.PageSkipped, rep.Result)

	// Missing output forces a rewrite even with a matching fingerprint.
	require.NoError(t, os.Remove(dest))
	rep, err = gen.GeneratePage(ctx, "p.md", src, dest)
	require.NoError(t, err)
	require.Equal(t, metrics.PageWritten, rep.Result)

	// A template change invalidates the page.
	other := newTestGenerator(t, Options{Store: store, Template: NewTemplate("<b>{{ Title }}</b>{{ Content }}")})
	rep, err = other.GeneratePage(ctx, "p.md", src, dest)
	require.NoError(t, err)
	require.Equal(t, metrics.PageWritten, rep.Result)

	writeTree(t, dir, map[string]string{"p.md": "# P\n\nsecond"})
	rep, err = other.GeneratePage(ctx, "p.md", src, dest)
	require.NoError(t, err)
	require.Equal(t, metrics.PageWritten, rep.Result)
	require.Contains(t, readFile(t, dest), "second")
}

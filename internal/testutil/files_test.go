package testutil

import (
	"testing"
)

func TestFileAssertions(t *testing.T) {
	dir := t.TempDir()
	WriteTree(t, dir, map[string]string{
		"index.html":  "<html><head><title>Home</title></head><body><ul><li>a</li><li>b</li></ul></body></html>",
		"blog/x.html": "<p>post</p>",
	})

	NewFileAssertions(t, dir).
		AssertFileExists("index.html").
		AssertFileExists("blog/x.html").
		AssertFileNotExists("missing.html").
		AssertFileContains("blog/x.html", "post").
		AssertText("index.html", "title", "Home").
		AssertCount("index.html", "li", 2)
}

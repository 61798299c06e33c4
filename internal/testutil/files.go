// Package testutil holds filesystem fixtures and assertions shared by tests
// that build sites into temporary directories.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

// WriteTree creates files under root from a slash-separated path map.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
			t.Fatalf("mkdir %s: %v", filepath.Dir(full), err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", full, err)
		}
	}
}

// FileAssertions provides utilities for asserting file system state in tests
type FileAssertions struct {
	t       *testing.T
	baseDir string
}

// NewFileAssertions creates a new file assertions helper rooted at baseDir.
func NewFileAssertions(t *testing.T, baseDir string) *FileAssertions {
	return &FileAssertions{t: t, baseDir: baseDir}
}

func (fa *FileAssertions) path(rel string) string {
	return filepath.Join(fa.baseDir, filepath.FromSlash(rel))
}

// AssertFileExists validates that a file exists
func (fa *FileAssertions) AssertFileExists(rel string) *FileAssertions {
	fa.t.Helper()
	if _, err := os.Stat(fa.path(rel)); err != nil {
		fa.t.Errorf("Expected file to exist: %s", rel)
	}
	return fa
}

// AssertFileNotExists validates that a file does not exist
func (fa *FileAssertions) AssertFileNotExists(rel string) *FileAssertions {
	fa.t.Helper()
	if _, err := os.Stat(fa.path(rel)); err == nil {
		fa.t.Errorf("Expected file to not exist: %s", rel)
	}
	return fa
}

// AssertFileContains validates that a file contains expected content
func (fa *FileAssertions) AssertFileContains(rel, expected string) *FileAssertions {
	fa.t.Helper()
	content := fa.Content(rel)
	if !strings.Contains(content, expected) {
		fa.t.Errorf("Expected file %s to contain %q\nActual content:\n%s", rel, expected, content)
	}
	return fa
}

// AssertText validates the trimmed text of the first element matching selector.
func (fa *FileAssertions) AssertText(rel, selector, expected string) *FileAssertions {
	fa.t.Helper()
	got := strings.TrimSpace(fa.Document(rel).Find(selector).First().Text())
	if got != expected {
		fa.t.Errorf("%s %q: expected text %q, got %q", rel, selector, expected, got)
	}
	return fa
}

// AssertCount validates how many elements match selector.
func (fa *FileAssertions) AssertCount(rel, selector string, expected int) *FileAssertions {
	fa.t.Helper()
	if got := fa.Document(rel).Find(selector).Length(); got != expected {
		fa.t.Errorf("%s %q: expected %d matches, got %d", rel, selector, expected, got)
	}
	return fa
}

// Content reads a file, failing the test when it cannot.
func (fa *FileAssertions) Content(rel string) string {
	fa.t.Helper()
	content, err := os.ReadFile(fa.path(rel))
	if err != nil {
		fa.t.Fatalf("Failed to read file %s: %v", rel, err)
	}
	return string(content)
}

// Document parses a generated page.
func (fa *FileAssertions) Document(rel string) *goquery.Document {
	fa.t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fa.Content(rel)))
	if err != nil {
		fa.t.Fatalf("Failed to parse HTML %s: %v", rel, err)
	}
	return doc
}

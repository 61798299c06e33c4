// Package linkverify checks that relative links in generated pages resolve
// to files inside the public directory.
package linkverify

import (
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	serrors "git.home.luguber.info/inful/mdsite/internal/errors"
)

// Link represents an extracted link from HTML content.
type Link struct {
	URL       string // The URL or path
	Text      string // Link text or alt text
	Tag       string // a or img
	Attribute string // href or src
}

// ExtractLinksFromFile extracts all links from an HTML file.
func ExtractLinksFromFile(htmlPath string) ([]Link, error) {
	file, err := os.Open(filepath.Clean(htmlPath))
	if err != nil {
		return nil, serrors.FileSystemError("open", htmlPath, err)
	}
	defer func() {
		_ = file.Close()
	}()

	return ExtractLinks(file)
}

// ExtractLinks collects a[href] and img[src] links in document order.
func ExtractLinks(r io.Reader) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, serrors.Wrap(err, serrors.CategoryValidation, serrors.SeverityError, "failed to parse HTML")
	}

	var links []Link
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "a":
				if href := getAttr(n, "href"); href != "" {
					links = append(links, Link{URL: href, Text: extractText(n), Tag: "a", Attribute: "href"})
				}
			case "img":
				if src := getAttr(n, "src"); src != "" {
					links = append(links, Link{URL: src, Text: getAttr(n, "alt"), Tag: "img", Attribute: "src"})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}

	extract(doc)
	return links, nil
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func extractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}
	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		text.WriteString(extractText(c))
	}
	return strings.TrimSpace(text.String())
}

// ShouldVerify reports whether a link points at a local file. Absolute URLs,
// special schemes and bare fragments are skipped.
func ShouldVerify(link Link) bool {
	if link.URL == "" || strings.HasPrefix(link.URL, "#") {
		return false
	}
	u, err := url.Parse(link.URL)
	if err != nil {
		return false
	}
	if u.Scheme != "" || u.Host != "" {
		return false
	}
	return u.Path != ""
}

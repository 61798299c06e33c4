package linkverify

import (
	"context"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// BrokenLink is a relative link whose target does not exist.
type BrokenLink struct {
	Page   string // page path relative to the public directory
	URL    string
	Tag    string
	Target string // resolved target relative to the public directory
}

// VerifyDir scans every .html file under publicDir and returns links whose
// targets are missing. Results are sorted by page, then URL.
func VerifyDir(ctx context.Context, publicDir string) ([]BrokenLink, error) {
	var broken []BrokenLink

	err := filepath.WalkDir(publicDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(p), ".html") {
			return nil
		}

		links, err := ExtractLinksFromFile(p)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(publicDir, p)
		if err != nil {
			return err
		}
		page := filepath.ToSlash(rel)

		for _, link := range links {
			if !ShouldVerify(link) {
				continue
			}
			target, ok := resolve(page, link.URL)
			if !ok || !exists(publicDir, target) {
				broken = append(broken, BrokenLink{Page: page, URL: link.URL, Tag: link.Tag, Target: target})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(broken, func(i, j int) bool {
		if broken[i].Page != broken[j].Page {
			return broken[i].Page < broken[j].Page
		}
		return broken[i].URL < broken[j].URL
	})
	return broken, nil
}

// resolve maps a link on page to a slash path relative to the public root.
// ok is false when a relative link climbs above the root.
func resolve(page, raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return raw, false
	}
	if strings.HasPrefix(u.Path, "/") {
		return strings.TrimPrefix(path.Clean(u.Path), "/"), true
	}
	target := path.Join(path.Dir(page), u.Path)
	if target == ".." || strings.HasPrefix(target, "../") {
		return target, false
	}
	return target, true
}

// exists accepts a file, or a directory holding index.html.
func exists(root, target string) bool {
	full := filepath.Join(root, filepath.FromSlash(target))
	info, err := os.Stat(full)
	if err != nil {
		return false
	}
	if !info.IsDir() {
		return true
	}
	_, err = os.Stat(filepath.Join(full, "index.html"))
	return err == nil
}

// Package localpath makes relative links in a rendered CV absolute.
//
// Exports load the document from a temporary file, so an image written as
// "photos/me.png" in a Markdown field would resolve against the temp
// directory. Rewrite anchors those paths to the directory of the CV file.
package localpath

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// ErrParse is returned when the document cannot be parsed.
var ErrParse = errors.New("parsing rendered document")

// rewritten lists, per element, the attribute holding a local reference.
var rewritten = map[string]string{
	"img": "src",
	"a":   "href",
}

// Rewrite turns relative img sources and link targets of doc into file://
// URLs under baseDir. URLs, anchors, data URIs, absolute paths and paths
// escaping baseDir are left as they are. An empty baseDir returns doc
// unchanged.
func Rewrite(doc, baseDir string) (string, error) {
	if baseDir == "" {
		return doc, nil
	}
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("resolving base directory: %w", err)
	}

	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrParse, err)
	}

	changed := 0
	for n := range root.Descendants() {
		if n.Type != html.ElementNode {
			continue
		}
		key, ok := rewritten[n.Data]
		if !ok {
			continue
		}
		for i, attr := range n.Attr {
			if attr.Key != key {
				continue
			}
			if abs, ok := Resolve(attr.Val, base); ok {
				n.Attr[i].Val = abs
				changed++
			}
		}
	}
	if changed == 0 {
		return doc, nil
	}

	var buf strings.Builder
	if err := html.Render(&buf, root); err != nil {
		return "", fmt.Errorf("%w: %v", ErrParse, err)
	}
	return buf.String(), nil
}

// Resolve returns the file:// URL of ref under base, or false when ref is
// not a relative path inside base.
func Resolve(ref, base string) (string, bool) {
	if !isRelative(ref) {
		return "", false
	}
	abs := filepath.Join(base, filepath.FromSlash(ref))
	if !within(abs, base) {
		return "", false
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), true
}

func isRelative(ref string) bool {
	switch {
	case ref == "",
		strings.HasPrefix(ref, "#"),
		strings.HasPrefix(ref, "//"),
		filepath.IsAbs(ref),
		strings.HasPrefix(ref, "/"):
		return false
	}
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" {
		return false // http, https, file, data, mailto, tel...
	}
	return true
}

// within reports whether path is base or below it.
func within(path, base string) bool {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

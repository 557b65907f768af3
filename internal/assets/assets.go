// Package assets provides CSS styles and HTML templates for CV rendering.
// Assets can be loaded from embedded files or custom filesystem paths.
package assets

import (
	"errors"
	"fmt"
)

// Names of the shared assets every template relies on.
const (
	// BaseStyleName is prepended to every template style.
	BaseStyleName = "base"

	// DocumentTemplateName wraps rendered sections in a standalone page.
	DocumentTemplateName = "document"

	// PreviewTemplateName lays out the paginated on-screen frames.
	PreviewTemplateName = "preview"

	// GenericTemplateName holds the style-table driven section markup.
	GenericTemplateName = "generic"
)

// Sentinel errors for asset operations.
var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetName = errors.New("invalid asset name")
	ErrInvalidBasePath  = errors.New("invalid base path")
	ErrAssetRead        = errors.New("failed to read asset")
	ErrPathTraversal    = errors.New("path traversal detected")
)

// AssetLoader loads the stylesheets and HTML templates a CV renders with.
// Names carry no extension. A missing asset is ErrStyleNotFound or
// ErrTemplateNotFound; a malformed name is ErrInvalidAssetName.
type AssetLoader interface {
	LoadStyle(name string) (string, error)
	LoadTemplate(name string) (string, error)
}

// kind locates one class of asset inside a loader root.
type kind struct {
	dir      string
	ext      string
	notFound error
}

var (
	styleKind    = kind{dir: "styles", ext: ".css", notFound: ErrStyleNotFound}
	templateKind = kind{dir: "templates", ext: ".html", notFound: ErrTemplateNotFound}
)

// file returns the slash-separated path of name relative to the loader root.
func (k kind) file(name string) string {
	return k.dir + "/" + name + k.ext
}

func (k kind) missing(name string) error {
	return fmt.Errorf("%w: %q", k.notFound, name)
}

// ValidateAssetName accepts names made of ASCII letters, digits, '-' and '_'.
// Everything else, separators and dots included, is rejected so a name can
// never select another directory or extension.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
		}
	}
	return nil
}

// defaultLoader serves the package-level helpers.
var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads an embedded stylesheet by name.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadTemplate loads an embedded HTML template by name.
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}

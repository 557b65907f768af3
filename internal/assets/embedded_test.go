package assets

import (
	"errors"
	"html/template"
	"strings"
	"testing"
)

var templateStyles = []string{"classic", "modern", "minimal", "professional", "creative", "elegant"}

func TestEmbeddedLoader_LoadStyle(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	for _, name := range append([]string{BaseStyleName}, templateStyles...) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			css, err := loader.LoadStyle(name)
			if err != nil {
				t.Fatalf("LoadStyle(%q) error = %v", name, err)
			}
			if name != BaseStyleName && !strings.Contains(css, ".cv--"+name) && !strings.Contains(css, name+"-") {
				t.Errorf("style %q does not reference its own classes", name)
			}
		})
	}

	t.Run("unknown style", func(t *testing.T) {
		t.Parallel()

		if _, err := loader.LoadStyle("neon"); !errors.Is(err, ErrStyleNotFound) {
			t.Errorf("LoadStyle(neon) error = %v, want ErrStyleNotFound", err)
		}
	})
}

func TestEmbeddedLoader_BaseStyleGeometry(t *testing.T) {
	t.Parallel()

	css, err := NewEmbeddedLoader().LoadStyle(BaseStyleName)
	if err != nil {
		t.Fatalf("LoadStyle(base) error = %v", err)
	}
	for _, want := range []string{"width: 794px", "min-height: 1123px", "[data-cv2pdf-stage]", ".cv-page"} {
		if !strings.Contains(css, want) {
			t.Errorf("base.css missing %q", want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestEmbeddedLoader_Templates - Every embedded template parses
// ---------------------------------------------------------------------------

func TestEmbeddedLoader_Templates(t *testing.T) {
	t.Parallel()

	sectionBlocks := []string{"personalInfo", "experience", "education", "skills", "projects", "references", "custom"}

	tests := []struct {
		name       string
		wantBlocks []string
	}{
		{name: DocumentTemplateName},
		{name: PreviewTemplateName},
		{name: GenericTemplateName, wantBlocks: sectionBlocks},
		{name: "classic", wantBlocks: sectionBlocks},
		{name: "modern", wantBlocks: sectionBlocks},
	}

	loader := NewEmbeddedLoader()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src, err := loader.LoadTemplate(tt.name)
			if err != nil {
				t.Fatalf("LoadTemplate(%q) error = %v", tt.name, err)
			}
			tmpl, err := template.New(tt.name).Parse(src)
			if err != nil {
				t.Fatalf("template %q does not parse: %v", tt.name, err)
			}
			for _, block := range tt.wantBlocks {
				if tmpl.Lookup(block) == nil {
					t.Errorf("template %q missing block %q", tt.name, block)
				}
			}
		})
	}
}

func TestEmbeddedLoader_LoadTemplate_Invalid(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()
	if _, err := loader.LoadTemplate("cover"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("LoadTemplate(cover) error = %v, want ErrTemplateNotFound", err)
	}
	if _, err := loader.LoadTemplate("../document"); !errors.Is(err, ErrInvalidAssetName) {
		t.Errorf("LoadTemplate(../document) error = %v, want ErrInvalidAssetName", err)
	}
}

func TestEmbeddedLoader_ImplementsAssetLoader(t *testing.T) {
	t.Parallel()

	var _ AssetLoader = (*EmbeddedLoader)(nil)
}

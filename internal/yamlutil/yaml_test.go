package yamlutil_test

// Notes:
// - Marshal error branch: not tested because yaml.Marshal only fails with
//   unmarshalable types (channels, functions) which never reach this package.

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-cv2pdf/internal/yamlutil"
)

type testConfig struct {
	Name    string `yaml:"name"`
	Count   int    `yaml:"count"`
	Enabled bool   `yaml:"enabled"`
}

// ---------------------------------------------------------------------------
// TestUnmarshal / TestUnmarshalStrict
// ---------------------------------------------------------------------------

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
	}{
		{name: "valid YAML", data: []byte("name: test\ncount: 42\nenabled: true"), dest: &testConfig{}},
		{name: "unknown field ignored", data: []byte("name: test\nextra: 1"), dest: &testConfig{}},
		{name: "nil data", data: nil, dest: &testConfig{}, wantErr: yamlutil.ErrNilData},
		{name: "nil destination", data: []byte("name: test"), dest: nil, wantErr: yamlutil.ErrNilDestination},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.Unmarshal(tt.data, tt.dest)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Unmarshal() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal() unexpected error: %v", err)
			}
			if cfg := tt.dest.(*testConfig); cfg.Name != "test" {
				t.Errorf("Name = %q, want %q", cfg.Name, "test")
			}
		})
	}
}

func TestUnmarshalStrict_RejectsUnknownFields(t *testing.T) {
	t.Parallel()

	var cfg testConfig
	err := yamlutil.UnmarshalStrict([]byte("name: test\nbogus: true"), &cfg)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	if !strings.Contains(err.Error(), "yamlutil:") {
		t.Errorf("error %q should carry the yamlutil prefix", err)
	}
}

func TestUnmarshal_InputTooLarge(t *testing.T) {
	orig := yamlutil.MaxInputSize
	yamlutil.MaxInputSize = 8
	t.Cleanup(func() { yamlutil.MaxInputSize = orig })

	err := yamlutil.Unmarshal([]byte("name: way too long"), &testConfig{})
	if !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("error = %v, want ErrInputTooLarge", err)
	}
}

// ---------------------------------------------------------------------------
// TestDecodeMap - Loose decoding for CV files
// ---------------------------------------------------------------------------

func TestDecodeMap(t *testing.T) {
	t.Parallel()

	t.Run("YAML mapping", func(t *testing.T) {
		t.Parallel()

		m, err := yamlutil.DecodeMap([]byte("personalInfo:\n  fullName: Ada\nskills:\n  - Go\n  - 3\n"))
		if err != nil {
			t.Fatalf("DecodeMap() error: %v", err)
		}
		pi, ok := m["personalInfo"].(map[string]any)
		if !ok || pi["fullName"] != "Ada" {
			t.Errorf("personalInfo = %#v", m["personalInfo"])
		}
		skills, ok := m["skills"].([]any)
		if !ok || len(skills) != 2 {
			t.Errorf("skills = %#v", m["skills"])
		}
	})

	t.Run("JSON mapping", func(t *testing.T) {
		t.Parallel()

		m, err := yamlutil.DecodeMap([]byte(`{"template": "modern", "skills": ["Go"]}`))
		if err != nil {
			t.Fatalf("DecodeMap() error: %v", err)
		}
		if m["template"] != "modern" {
			t.Errorf("template = %#v", m["template"])
		}
	})

	t.Run("top-level sequence rejected", func(t *testing.T) {
		t.Parallel()

		_, err := yamlutil.DecodeMap([]byte("- a\n- b\n"))
		if !errors.Is(err, yamlutil.ErrNotMapping) {
			t.Errorf("error = %v, want ErrNotMapping", err)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		_, err := yamlutil.DecodeMap(nil)
		if !errors.Is(err, yamlutil.ErrNilData) {
			t.Errorf("error = %v, want ErrNilData", err)
		}
	})
}

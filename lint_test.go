package cv2pdf

import (
	"errors"
	"strings"
	"testing"
)

func TestLint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		data      string
		wantValid bool
		wantField string
	}{
		{
			name:      "valid",
			data:      sampleValidCV,
			wantValid: true,
		},
		{
			name:      "bad date",
			data:      "experience:\n  - company: X\n    startDate: last spring\n",
			wantValid: false,
			wantField: "experience.0.startDate",
		},
		{
			name:      "unknown token is only a warning",
			data:      "sectionOrder: [personalInfo, hobbies]\n",
			wantValid: true,
			wantField: "sectionOrder.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			report, err := Lint([]byte(tt.data))
			if err != nil {
				t.Fatalf("Lint() error = %v", err)
			}
			if report.Valid() != tt.wantValid {
				t.Errorf("Valid() = %v, want %v (%v)", report.Valid(), tt.wantValid, report.Issues)
			}
			if tt.wantField == "" {
				return
			}
			found := false
			for _, is := range report.Issues {
				if is.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("no issue at %q in %v", tt.wantField, report.Issues)
			}
		})
	}
}

func TestLint_Errors(t *testing.T) {
	t.Parallel()

	if _, err := Lint(nil); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Lint(nil) error = %v, want ErrEmptyInput", err)
	}
	if _, err := Lint([]byte("a: [")); !errors.Is(err, ErrCVParse) {
		t.Errorf("Lint(broken) error = %v, want ErrCVParse", err)
	}
	if _, err := LintFile("/nonexistent/cv.yaml"); err == nil {
		t.Error("LintFile(missing) expected error")
	}
}

func TestSchema(t *testing.T) {
	t.Parallel()

	if !strings.Contains(Schema(), `"$schema"`) {
		t.Error("Schema() does not look like a JSON schema")
	}
}

const sampleValidCV = `
template: modern
personalInfo:
  fullName: Ada Lovelace
  email: ada@example.com
experience:
  - company: Analytical Engines
    position: Programmer
    startDate: "1842-01"
    current: true
skills: [Mathematics]
`

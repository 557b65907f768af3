package main

// Notes:
// - runLint: text and JSON output against real schema validation. Warnings
//   alone never fail the command.
// - runTemplates: the default template is marked in both output forms.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	cv2pdf "github.com/alnah/go-cv2pdf"
)

// ---------------------------------------------------------------------------
// TestRunLint - Schema diagnostics
// ---------------------------------------------------------------------------

func TestRunLint(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{
		"ada.yaml":    validCV,
		"broken.yaml": invalidCV,
		"warn.yaml":   "personalInfo:\n  fullName: W\nsectionOrder: [personalInfo, hobbies]\n",
	})
	ada := filepath.Join(dir, "ada.yaml")
	broken := filepath.Join(dir, "broken.yaml")
	warn := filepath.Join(dir, "warn.yaml")

	t.Run("quiet valid prints nothing", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(nil)
		if err := runLint([]string{"-q", ada}, env.Environment); err != nil {
			t.Fatalf("runLint() error = %v", err)
		}
		if env.stdout.String() != "" {
			t.Errorf("stdout = %q, want empty", env.stdout.String())
		}
	})

	t.Run("warnings pass", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(nil)
		if err := runLint([]string{warn}, env.Environment); err != nil {
			t.Fatalf("runLint() error = %v", err)
		}
		if !strings.Contains(env.stdout.String(), "hobbies") {
			t.Errorf("stdout = %q, want warning about the unknown token", env.stdout.String())
		}
	})

	t.Run("json counts failures", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(nil)
		err := runLint([]string{"--json", ada, broken}, env.Environment)
		if !errors.Is(err, ErrLintFailed) || !strings.Contains(err.Error(), "1 of 2") {
			t.Errorf("runLint() error = %v, want 1 of 2 failed", err)
		}

		var outputs []lintOutput
		if err := json.Unmarshal([]byte(env.stdout.String()), &outputs); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, env.stdout.String())
		}
		if len(outputs) != 2 || !outputs[0].Valid || outputs[1].Valid {
			t.Fatalf("outputs = %+v", outputs)
		}
		if outputs[0].Issues == nil {
			t.Error("valid file should have an empty issue list, not null")
		}
		if len(outputs[1].Issues) == 0 || outputs[1].Issues[0].Field != "experience.0.startDate" {
			t.Errorf("issues = %+v", outputs[1].Issues)
		}
	})

	t.Run("unreadable file", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(nil)
		err := runLint([]string{filepath.Join(dir, "nope.yaml")}, env.Environment)
		if exitCodeFor(err) != ExitIO {
			t.Errorf("exit code = %d, want %d (err = %v)", exitCodeFor(err), ExitIO, err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunTemplates - Template listing
// ---------------------------------------------------------------------------

func TestRunTemplates(t *testing.T) {
	t.Parallel()

	t.Run("text", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(nil)
		if err := runTemplates(nil, env.Environment); err != nil {
			t.Fatalf("runTemplates() error = %v", err)
		}
		lines := strings.Split(strings.TrimSpace(env.stdout.String()), "\n")
		if len(lines) != len(cv2pdf.Templates()) {
			t.Errorf("got %d lines, want %d", len(lines), len(cv2pdf.Templates()))
		}
		if strings.Count(env.stdout.String(), "(default)") != 1 {
			t.Errorf("stdout = %q, want exactly one default", env.stdout.String())
		}
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(nil)
		if err := runTemplates([]string{"--json"}, env.Environment); err != nil {
			t.Fatalf("runTemplates() error = %v", err)
		}
		var out []templateOutput
		if err := json.Unmarshal([]byte(env.stdout.String()), &out); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		defaults := 0
		for _, tpl := range out {
			if tpl.Default {
				defaults++
				if tpl.ID != cv2pdf.DefaultTemplate.String() {
					t.Errorf("default = %q, want %q", tpl.ID, cv2pdf.DefaultTemplate)
				}
			}
		}
		if defaults != 1 {
			t.Errorf("got %d defaults, want 1", defaults)
		}
	})
}

// ---------------------------------------------------------------------------
// TestTemplateNames - Hint names
// ---------------------------------------------------------------------------

func TestTemplateNames(t *testing.T) {
	t.Parallel()

	names := templateNames()
	if len(names) != 6 || names[0] != "classic" {
		t.Errorf("templateNames() = %v", names)
	}
}

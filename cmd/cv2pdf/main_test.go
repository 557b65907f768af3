package main

// Notes:
// - runMain: we test dispatch and exit codes through the fake pipeline. Real
//   browser exports are covered by the root package integration tests.
// - isCommand / hasVerboseFlag: we test command name matching and the
//   pre-dispatch --verbose scan used by automaxprocs logging.
// - hintFor: we test that actionable errors get a hint and others do not.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cv2pdf "github.com/alnah/go-cv2pdf"
	"github.com/alnah/go-cv2pdf/internal/config"
)

// ---------------------------------------------------------------------------
// TestRunMain - Dispatch and exit codes
// ---------------------------------------------------------------------------

func TestRunMain(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{
		"ada.yaml":     validCV,
		"broken.yaml":  invalidCV,
		"syntax.yaml":  "a: [",
		"app.yaml":     "template:\n  name: minimal\n",
		"bad-cfg.yaml": "template:\n  name: neon\n",
	})
	cv := filepath.Join(dir, "ada.yaml")

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"no command", []string{"cv2pdf"}, ExitUsage, "", "Usage: cv2pdf"},
		{"unknown command", []string{"cv2pdf", "convert"}, ExitUsage, "", "Unknown command: convert"},
		{"version", []string{"cv2pdf", "version"}, ExitSuccess, "cv2pdf dev", ""},
		{"--version", []string{"cv2pdf", "--version"}, ExitSuccess, "cv2pdf dev", ""},
		{"help", []string{"cv2pdf", "help"}, ExitSuccess, "Commands:", ""},
		{"help export", []string{"cv2pdf", "help", "export"}, ExitSuccess, "--overlap", ""},
		{"export --help", []string{"cv2pdf", "export", "--help"}, ExitSuccess, "", "Usage: cv2pdf export"},
		{"templates", []string{"cv2pdf", "templates"}, ExitSuccess, "classic (default)", ""},
		{"lint valid", []string{"cv2pdf", "lint", cv}, ExitSuccess, "ok", ""},
		{"lint invalid", []string{"cv2pdf", "lint", filepath.Join(dir, "broken.yaml")}, ExitUsage, "experience.0.startDate", "CV file has errors"},
		{"lint no input", []string{"cv2pdf", "lint"}, ExitIO, "", "no input specified"},
		{"export", []string{"cv2pdf", "export", cv}, ExitSuccess, "ada.pdf", ""},
		{"export missing file", []string{"cv2pdf", "export", filepath.Join(dir, "nope.yaml")}, ExitIO, "", "failed to read CV file"},
		{"export syntax error", []string{"cv2pdf", "export", filepath.Join(dir, "syntax.yaml")}, ExitUsage, "", "hint: run 'cv2pdf lint"},
		{"export unknown flag", []string{"cv2pdf", "export", "--bogus", cv}, ExitUsage, "", "invalid flags"},
		{"export unknown template", []string{"cv2pdf", "export", "--template", "neon", cv}, ExitUsage, "", "available: classic"},
		{"export unknown engine", []string{"cv2pdf", "export", "--engine", "gecko", cv}, ExitUsage, "", "supported engines"},
		{"export config not found", []string{"cv2pdf", "export", "-c", filepath.Join(dir, "missing.yaml"), cv}, ExitUsage, "", "config file not found"},
		{"export invalid config", []string{"cv2pdf", "export", "-c", filepath.Join(dir, "bad-cfg.yaml"), cv}, ExitUsage, "", "template.name"},
		{"preview", []string{"cv2pdf", "preview", cv}, ExitSuccess, "preview of Ada Lovelace", ""},
		{"preview two files", []string{"cv2pdf", "preview", cv, cv}, ExitIO, "", "exactly one CV file"},
		{"pages", []string{"cv2pdf", "pages", cv}, ExitSuccess, "estimate: 1 page", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(nil)
			code := runMain(tt.args, env.Environment)

			if code != tt.wantCode {
				t.Errorf("runMain(%v) = %d, want %d\nstderr: %s", tt.args, code, tt.wantCode, env.stderr.String())
			}
			if tt.wantStdout != "" && !strings.Contains(env.stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want substring %q", env.stdout.String(), tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(env.stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want substring %q", env.stderr.String(), tt.wantStderr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_ConfigSelection - Config file overrides the CV selection
// ---------------------------------------------------------------------------

func TestRunMain_ConfigSelection(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{
		"ada.yaml": validCV,
		"app.yaml": "template:\n  name: minimal\nsections:\n  order: [personalInfo, skills]\n",
	})

	env := newTestEnv(nil)
	code := runMain([]string{"cv2pdf", "export", "-c", filepath.Join(dir, "app.yaml"), filepath.Join(dir, "ada.yaml")}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, env.stderr.String())
	}

	in := env.pipeline.lastInput(t)
	if in.Selection.Template != cv2pdf.TemplateMinimal {
		t.Errorf("Template = %v, want minimal from config", in.Selection.Template)
	}
	if len(in.Order) != 2 {
		t.Errorf("Order = %v, want config order", in.Order)
	}
	if _, err := os.Stat(filepath.Join(dir, "ada.pdf")); err != nil {
		t.Errorf("ada.pdf not written next to the CV: %v", err)
	}
	if !env.pipeline.closed {
		t.Error("pipeline not closed")
	}
}

// ---------------------------------------------------------------------------
// TestIsCommand - Command name matching
// ---------------------------------------------------------------------------

func TestIsCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"export", true},
		{"preview", true},
		{"pages", true},
		{"lint", true},
		{"templates", true},
		{"serve", true},
		{"doctor", true},
		{"version", true},
		{"help", true},
		{"convert", false},
		{"cv.yaml", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := isCommand(tt.input); got != tt.want {
				t.Errorf("isCommand(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestHasVerboseFlag - Pre-dispatch verbose detection
// ---------------------------------------------------------------------------

func TestHasVerboseFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want bool
	}{
		{"short", []string{"cv2pdf", "export", "-v", "cv.yaml"}, true},
		{"long", []string{"cv2pdf", "serve", "--verbose"}, true},
		{"absent", []string{"cv2pdf", "export", "cv.yaml"}, false},
		{"unknown command", []string{"cv2pdf", "nope", "-v"}, false},
		{"no command", []string{"cv2pdf"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := hasVerboseFlag(tt.args); got != tt.want {
				t.Errorf("hasVerboseFlag(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestHintFor - Actionable hints
// ---------------------------------------------------------------------------

func TestHintFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"timeout", fmt.Errorf("export: %w", context.DeadlineExceeded), "--timeout"},
		{"config not found", config.ErrConfigNotFound, "--config"},
		{"unknown template", ErrUnknownTemplate, "available: classic"},
		{"invalid engine", cv2pdf.ErrInvalidEngine, "chromedp"},
		{"write output", ErrWriteOutput, "writable"},
		{"no hint", errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := hintFor(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("hintFor() = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("hintFor() = %q, want substring %q", got, tt.want)
			}
		})
	}
}

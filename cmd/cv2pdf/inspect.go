package main

import (
	"encoding/json"
	"fmt"

	cv2pdf "github.com/alnah/go-cv2pdf"
)

// lintOutput is the JSON form of one linted file.
type lintOutput struct {
	File   string             `json:"file"`
	Valid  bool               `json:"valid"`
	Issues []cv2pdf.LintIssue `json:"issues"`
}

// runLint checks CV files against the schema. Warnings never fail the
// command; any error-severity issue does.
func runLint(args []string, env *Environment) error {
	flags, positional, err := parseJSONFlags("lint", args, env.Stderr, printLintUsage)
	if err != nil {
		return err
	}
	if len(positional) == 0 {
		return ErrNoInput
	}

	outputs := make([]lintOutput, 0, len(positional))
	invalid := 0
	for _, path := range positional {
		report, err := cv2pdf.LintFile(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		out := lintOutput{File: path, Valid: report.Valid(), Issues: report.Issues}
		if out.Issues == nil {
			out.Issues = []cv2pdf.LintIssue{}
		}
		if !out.Valid {
			invalid++
		}
		outputs = append(outputs, out)
	}

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(outputs); err != nil {
			return err
		}
	} else {
		for _, out := range outputs {
			printLint(env, out, flags.quiet)
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%w: %d of %d file(s)", ErrLintFailed, invalid, len(outputs))
	}
	return nil
}

func printLint(env *Environment, out lintOutput, quiet bool) {
	if len(out.Issues) == 0 {
		if !quiet {
			fmt.Fprintf(env.Stdout, "%s: ok\n", out.File)
		}
		return
	}
	fmt.Fprintf(env.Stdout, "%s:\n", out.File)
	for _, issue := range out.Issues {
		fmt.Fprintf(env.Stdout, "  %s\n", issue)
	}
}

// templateOutput is the JSON form of one template.
type templateOutput struct {
	ID      string `json:"id"`
	Default bool   `json:"default"`
}

// runTemplates lists the prebuilt templates.
func runTemplates(args []string, env *Environment) error {
	flags, _, err := parseJSONFlags("templates", args, env.Stderr, printTemplatesUsage)
	if err != nil {
		return err
	}

	ids := cv2pdf.Templates()
	if flags.json {
		out := make([]templateOutput, len(ids))
		for i, id := range ids {
			out[i] = templateOutput{ID: id.String(), Default: id == cv2pdf.DefaultTemplate}
		}
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for _, id := range ids {
		if id == cv2pdf.DefaultTemplate {
			fmt.Fprintf(env.Stdout, "%s (default)\n", id)
			continue
		}
		fmt.Fprintln(env.Stdout, id)
	}
	return nil
}

// runVersion prints the build version.
func runVersion(env *Environment) {
	fmt.Fprintf(env.Stdout, "cv2pdf %s\n", Version)
}

// templateNames lists template identifiers for hints.
func templateNames() []string {
	ids := cv2pdf.Templates()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.String()
	}
	return names
}

// Package schema lints CV files against an embedded JSON Schema.
//
// Rendering never rejects a CV: malformed values are coerced or dropped.
// Lint reports what would be coerced, dropped or skipped so authors can
// fix their files.
package schema

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/alnah/go-cv2pdf/internal/model"
	"github.com/alnah/go-cv2pdf/internal/yamlutil"
)

//go:embed cv.schema.json
var cvSchema string

// Sentinel errors for schema operations.
var (
	ErrSchemaLoad = errors.New("failed to load CV schema")
	ErrDecode     = errors.New("failed to decode CV file")
)

// Severity of an issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one finding at a field path such as "experience.0.startDate".
type Issue struct {
	Field    string   `json:"field"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: %s", i.Severity, i.Field, i.Message)
}

// Report collects the issues of one file.
type Report struct {
	Issues []Issue `json:"issues"`
}

// Valid is true when no issue has error severity.
func (r *Report) Valid() bool {
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			return false
		}
	}
	return true
}

// Errors returns the error-severity issues.
func (r *Report) Errors() []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			out = append(out, i)
		}
	}
	return out
}

var compiled = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(cvSchema))
})

// Source returns the embedded schema document.
func Source() string {
	return cvSchema
}

// LintBytes decodes a YAML or JSON CV file and lints it.
func LintBytes(data []byte) (*Report, error) {
	raw, err := yamlutil.DecodeMap(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return Lint(raw)
}

// Lint validates raw against the schema and adds warnings for section
// tokens that rendering would skip.
func Lint(raw map[string]any) (*Report, error) {
	s, err := compiled()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaLoad, err)
	}

	result, err := s.Validate(gojsonschema.NewGoLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	report := &Report{}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" || field == "(root)" {
			field = "(root)"
		}
		report.Issues = append(report.Issues, Issue{
			Field:    field,
			Message:  desc.Description(),
			Severity: SeverityError,
		})
	}
	report.Issues = append(report.Issues, orderWarnings(raw)...)

	sort.SliceStable(report.Issues, func(i, j int) bool {
		return report.Issues[i].Field < report.Issues[j].Field
	})
	return report, nil
}

// orderWarnings flags sectionOrder tokens that resolve to nothing.
// Non-string tokens are left to the schema.
func orderWarnings(raw map[string]any) []Issue {
	tokens, _ := raw["sectionOrder"].([]any)
	doc := model.Decode(raw).Document

	var out []Issue
	seen := make(map[string]bool)
	for i, t := range tokens {
		token, ok := t.(string)
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			continue
		}
		field := "sectionOrder." + strconv.Itoa(i)
		if seen[token] {
			out = append(out, Issue{Field: field, Message: fmt.Sprintf("duplicate section %q", token), Severity: SeverityWarning})
			continue
		}
		seen[token] = true
		if _, ok := model.Resolve(&doc, token); !ok {
			out = append(out, Issue{
				Field:    field,
				Message:  fmt.Sprintf("unknown section %q is skipped", token),
				Severity: SeverityWarning,
			})
		}
	}
	return out
}

// Summary renders a report as one issue per line.
func (r *Report) Summary() string {
	if len(r.Issues) == 0 {
		return "ok"
	}
	var sb strings.Builder
	for _, i := range r.Issues {
		sb.WriteString(i.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

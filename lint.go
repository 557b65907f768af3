package cv2pdf

import (
	"fmt"
	"os"

	"github.com/alnah/go-cv2pdf/internal/schema"
)

// Lint findings.
type (
	LintReport = schema.Report
	LintIssue  = schema.Issue
	Severity   = schema.Severity
)

// Lint severities.
const (
	SeverityError   = schema.SeverityError
	SeverityWarning = schema.SeverityWarning
)

// Lint checks a CV file against the CV JSON schema. Lint is advisory:
// ParseCV accepts files that fail it, coercing or dropping bad values.
func Lint(data []byte) (*LintReport, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	report, err := schema.LintBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCVParse, err)
	}
	return report, nil
}

// LintFile reads and lints a CV file.
func LintFile(path string) (*LintReport, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("reading CV file: %w", err)
	}
	return Lint(data)
}

// Schema returns the CV JSON schema document.
func Schema() string {
	return schema.Source()
}

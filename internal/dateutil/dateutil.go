// Package dateutil formats the partial dates found in CV entries.
//
// Entry dates are stored the way people type them ("2021", "2021-03",
// "03/2021", "2021-03-15"). They are rendered through a user-friendly
// format string such as "MMM YYYY". Anything unparsable is shown as typed.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length to prevent abuse.
const MaxDateFormatLength = 50

// DefaultDateFormat is used when no format is configured.
const DefaultDateFormat = "MMM YYYY"

// dateTokens maps user-friendly tokens to Go time format components.
// Ordered by length descending for greedy matching.
var dateTokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// DatePresets provides named shortcuts for common date formats.
var DatePresets = map[string]string{
	"iso":     "YYYY-MM",
	"short":   "MMM YYYY",
	"long":    "MMMM YYYY",
	"numeric": "MM/YYYY",
	"year":    "YYYY",
}

// inputLayouts are the entry date shapes accepted, most precise first.
// Each carries the precision it encodes so a "2021" entry is never shown
// as "Jan 2021".
var inputLayouts = []struct {
	layout    string
	precision precision
}{
	{"2006-01-02", precisionDay},
	{"2006-01", precisionMonth},
	{"01/2006", precisionMonth},
	{"1/2006", precisionMonth},
	{"2006/01", precisionMonth},
	{"Jan 2006", precisionMonth},
	{"January 2006", precisionMonth},
	{"2006", precisionYear},
}

type precision int

const (
	precisionYear precision = iota
	precisionMonth
	precisionDay
)

// ParseDateFormat converts a user-friendly format string to Go's time format.
// Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D
// Use brackets to escape literal text: [Since] preserves "Since" literally.
// Any non-token characters outside brackets are preserved as literals.
// Returns ErrInvalidDateFormat if the format is empty, too long, or has unclosed brackets.
func ParseDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var result strings.Builder
	result.Grow(len(format) + 10)

	i := 0
	for i < len(format) {
		if format[i] == '[' {
			end := strings.Index(format[i+1:], "]")
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			result.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		matched := false
		for _, t := range dateTokens {
			if strings.HasPrefix(format[i:], t.token) {
				result.WriteString(t.goFmt)
				i += len(t.token)
				matched = true
				break
			}
		}

		if !matched {
			result.WriteByte(format[i])
			i++
		}
	}

	return result.String(), nil
}

// ResolveFormat expands a preset name ("long", "numeric", ...) and converts
// the result to a Go layout. An empty format means DefaultDateFormat.
func ResolveFormat(format string) (string, error) {
	format = strings.TrimSpace(format)
	if format == "" {
		format = DefaultDateFormat
	}
	if preset, ok := DatePresets[strings.ToLower(format)]; ok {
		format = preset
	}
	return ParseDateFormat(format)
}

// Formatter renders entry dates with a fixed Go layout.
type Formatter struct {
	layout string
}

// NewFormatter creates a Formatter from a user-friendly format or preset.
func NewFormatter(format string) (*Formatter, error) {
	layout, err := ResolveFormat(format)
	if err != nil {
		return nil, err
	}
	return &Formatter{layout: layout}, nil
}

// Format renders value. Year-only input keeps only year components and
// unparsable input is returned trimmed but otherwise unchanged.
func (f *Formatter) Format(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	for _, in := range inputLayouts {
		t, err := time.Parse(in.layout, value)
		if err != nil {
			continue
		}
		if in.precision == precisionYear {
			return t.Format("2006")
		}
		return t.Format(f.layout)
	}
	return value
}

// Period renders "start – end". A current entry ends with present; a missing
// end leaves only the start. Returns "" when nothing is known.
func (f *Formatter) Period(start, end string, current bool, present string) string {
	from := f.Format(start)
	to := f.Format(end)
	if current {
		to = present
	}
	switch {
	case from == "" && to == "":
		return ""
	case from == "":
		return to
	case to == "":
		return from
	}
	return from + " – " + to
}

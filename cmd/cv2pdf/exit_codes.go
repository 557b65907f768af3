package main

import (
	"errors"
	"os"

	cv2pdf "github.com/alnah/go-cv2pdf"
	"github.com/alnah/go-cv2pdf/internal/config"
	"github.com/alnah/go-cv2pdf/internal/surface"
)

// Exit codes for the cv2pdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command succeeded
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, CV file, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, cv2pdf.ErrBrowserConnect) ||
		errors.Is(err, cv2pdf.ErrPageLoad) ||
		errors.Is(err, cv2pdf.ErrCapture) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadCV) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrReadEnvFile) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, cv2pdf.ErrEmptyInput) ||
		errors.Is(err, cv2pdf.ErrCVParse) ||
		errors.Is(err, cv2pdf.ErrInputTooLarge) ||
		errors.Is(err, cv2pdf.ErrInvalidEngine) ||
		errors.Is(err, surface.ErrUnknownEngine) ||
		errors.Is(err, cv2pdf.ErrInvalidOverlap) ||
		errors.Is(err, cv2pdf.ErrInvalidShift) ||
		errors.Is(err, cv2pdf.ErrInvalidScale) ||
		errors.Is(err, cv2pdf.ErrInvalidHeuristic) ||
		errors.Is(err, cv2pdf.ErrStyleNotFound) ||
		errors.Is(err, cv2pdf.ErrTemplateNotFound) ||
		errors.Is(err, cv2pdf.ErrInvalidAssetPath) ||
		errors.Is(err, ErrUnknownTemplate) ||
		errors.Is(err, ErrInvalidFlags) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrOutputIsFile) ||
		errors.Is(err, ErrLintFailed) {
		return ExitUsage
	}

	return ExitGeneral
}

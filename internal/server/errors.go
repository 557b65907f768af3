package server

import (
	"context"
	"errors"
	"net/http"

	cv2pdf "github.com/alnah/go-cv2pdf"
)

// statusFor returns the HTTP status for a pipeline error.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, cv2pdf.ErrEmptyInput),
		errors.Is(err, cv2pdf.ErrCVParse),
		errors.Is(err, cv2pdf.ErrNilDocument):
		return http.StatusBadRequest
	case errors.Is(err, cv2pdf.ErrInputTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, cv2pdf.ErrExportInProgress):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, cv2pdf.ErrPoolClosed), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	case errors.Is(err, cv2pdf.ErrExportFailed),
		errors.Is(err, cv2pdf.ErrBrowserConnect):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

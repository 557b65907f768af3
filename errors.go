package cv2pdf

import (
	"errors"

	"github.com/alnah/go-cv2pdf/internal/export"
	"github.com/alnah/go-cv2pdf/internal/layout"
	"github.com/alnah/go-cv2pdf/internal/render"
	"github.com/alnah/go-cv2pdf/internal/schema"
	"github.com/alnah/go-cv2pdf/internal/surface"
	"github.com/alnah/go-cv2pdf/internal/yamlutil"
)

// Sentinel errors for library operations.
var (
	ErrNilDocument      = errors.New("document cannot be nil")
	ErrEmptyInput       = errors.New("CV file is empty")
	ErrCVParse          = errors.New("failed to parse CV file")
	ErrTemplateRender   = errors.New("CV rendering failed")
	ErrPreviewRender    = errors.New("preview rendering failed")
	ErrInvalidEngine    = errors.New("invalid browser engine")
	ErrInvalidAssetPath = errors.New("invalid asset path")

	// Asset loading errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
)

// Errors surfaced unchanged from the pipeline stages, so callers can match
// them with errors.Is without importing internal packages.
var (
	ErrExportFailed     = export.ErrExportFailed
	ErrExportInProgress = export.ErrExportInProgress
	ErrInvalidOverlap   = export.ErrInvalidOverlap
	ErrInvalidShift     = export.ErrInvalidShift
	ErrInvalidScale     = export.ErrInvalidScale
	ErrBrowserConnect   = surface.ErrBrowserConnect
	ErrPageLoad         = surface.ErrPageLoad
	ErrCapture          = surface.ErrCapture
	ErrInvalidHeuristic = layout.ErrInvalidHeuristic
	ErrSchemaLoad       = schema.ErrSchemaLoad
	ErrTemplateParse    = render.ErrTemplateParse
	ErrInputTooLarge    = yamlutil.ErrInputTooLarge
)

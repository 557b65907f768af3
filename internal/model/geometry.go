package model

// Fixed A4 page geometry at 96 DPI. Preview frames, estimated page plans and
// exported PDF pages all use these values so that their boundaries line up.
const (
	PageWidthPx  = 794  // 210 mm
	PageHeightPx = 1123 // 297 mm

	// CaptureScale is the device pixel ratio of rasterized pages.
	CaptureScale = 2

	// PxToPt converts CSS pixels (1/96 in) to PDF points (1/72 in).
	PxToPt = 72.0 / 96.0
)

// PageCount returns how many pages of PageHeightPx are needed for height,
// never less than one.
func PageCount(height float64) int {
	if height <= 0 {
		return 1
	}
	n := int(height) / PageHeightPx
	if float64(n*PageHeightPx) < height {
		n++
	}
	return max(n, 1)
}

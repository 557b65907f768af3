package export

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/alnah/go-cv2pdf/internal/model"
)

// metadata is written into the PDF info dictionary.
type metadata struct {
	Title   string
	Creator string
	Created time.Time
}

// assemble lays out one PNG per page on A4 pages sized in points.
// Every page after the first is painted shift px higher to hide the seam
// left by the capture overlap.
func assemble(images [][]byte, shift float64, meta metadata) ([]byte, error) {
	if len(images) == 0 {
		return nil, ErrNoPages
	}

	pageW := float64(model.PageWidthPx) * model.PxToPt
	pageH := float64(model.PageHeightPx) * model.PxToPt

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	if meta.Title != "" {
		pdf.SetTitle(meta.Title, true)
	}
	if meta.Creator != "" {
		pdf.SetCreator(meta.Creator, true)
	}
	if !meta.Created.IsZero() {
		pdf.SetCreationDate(meta.Created)
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG", AllowNegativePosition: true}
	for i, img := range images {
		name := "page-" + strconv.Itoa(i+1)
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img))
		if pdf.Err() {
			return nil, fmt.Errorf("%w: page %d: %v", ErrAssemble, i+1, pdf.Error())
		}

		y := 0.0
		if i > 0 {
			y = -shift * model.PxToPt
		}
		pdf.AddPage()
		// Height 0 keeps the capture's aspect ratio, so the overlap hangs
		// below the page edge and is clipped.
		pdf.ImageOptions(name, 0, y, pageW, 0, false, opts, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssemble, err)
	}
	return buf.Bytes(), nil
}

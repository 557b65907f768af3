// Package cv2pdf renders CV documents to paginated A4 previews and PDFs.
//
// # Quick Start
//
// Load a CV, create a converter, export and close when done:
//
//	cv, err := cv2pdf.LoadCV("cv.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	conv, err := cv2pdf.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	art, err := conv.Export(ctx, cv2pdf.InputFrom(cv))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(art.FileName, art.Data, 0644)
//
// # Pipeline
//
//  1. Normalize: every section of the section order becomes an HTML
//     fragment styled by the selected template.
//  2. Plan: a heuristic over section sizes estimates the document height
//     and cuts it into 1123 px pages.
//  3. Compose: each planned page becomes a 794x1123 px frame showing the
//     full document translated up by the page offset (Preview).
//  4. Export: the document is mounted in headless Chrome, measured, captured
//     page by page at 2x density and assembled into an A4 PDF.
//
// Plan never measures, so the preview page count can differ from the
// exported one. MeasurePages reports the measured count.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := cv2pdf.NewConverter(
//	    cv2pdf.WithEngine("chromedp"),
//	    cv2pdf.WithTimeout(time.Minute),
//	    cv2pdf.WithDateFormat("long"),
//	    cv2pdf.WithAssetPath("/path/to/custom/assets"),
//	)
//
// # Failures
//
// Export never panics into the caller. A failed export sends
// FailureMessage to the configured Notifier once and returns an error
// matching ErrExportFailed; the browser page is torn down either way.
// A second Export while one is running returns ErrExportInProgress.
//
// # Parallel Processing
//
// A Converter exports one CV at a time. For batches, use ConverterPool:
//
//	pool := cv2pdf.NewConverterPool(4)
//	defer pool.Close()
//
//	conv, err := pool.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(conv)
//
// # Browser Requirements
//
// Export requires Chrome/Chromium. The rod engine downloads a managed
// Chromium on first run (~/.cache/rod/browser/); the chromedp engine uses
// the system Chrome or CHROME_PATH.
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package cv2pdf

// Package export turns an assembled CV document into a PDF by
// rasterizing it page by page.
//
// The document is mounted unpaginated on a surface stage 794 px wide. Once
// layout is stable the stage height gives the page count. For each page the
// content is translated up by a whole page, settled again, and captured
// 1123 px plus a small overlap tall at twice the density. Captures become
// full-bleed images on A4 pages; pages after the first are painted a few
// pixels higher so the overlap hides the seam between slices.
//
// The stage is always detached, whatever the outcome. Failures are reported
// once through a Notifier and returned wrapped in ErrExportFailed; nothing
// is retried.
package export

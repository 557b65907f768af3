// Package surface is the boundary between the CV pipeline and a headless
// browser. A Surface mounts assembled HTML in an off-screen stage whose
// content can be measured, translated page by page, and captured as PNG.
//
// Two engines are available. The go-rod engine is the default; it honours
// ROD_BROWSER_BIN, ROD_NO_SANDBOX and CI, and kills the browser's whole
// process group on Close. The chromedp engine honours CHROME_PATH.
//
// Stages wait for a layout-stable signal (document.fonts.ready followed by
// two animation frames) instead of fixed delays.
package surface

package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cv2pdf <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  export     Export CV files to PDF")
	fmt.Fprintln(w, "  preview    Write the paged HTML preview of a CV file")
	fmt.Fprintln(w, "  pages      Show estimated and measured page counts")
	fmt.Fprintln(w, "  lint       Check CV files against the schema")
	fmt.Fprintln(w, "  templates  List the prebuilt templates")
	fmt.Fprintln(w, "  serve      Run the HTTP API")
	fmt.Fprintln(w, "  doctor     Check the browser and environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'cv2pdf help <command>' for details on a specific command.")
}

// printPipelineFlags prints the rendering flags shared by several commands.
func printPipelineFlags(w io.Writer) {
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --template <s>        classic, modern, minimal, professional, creative, elegant")
	fmt.Fprintln(w, "      --title <s>           Document title (\"\" = full name)")
	fmt.Fprintln(w, "      --css <path>          Extra CSS file")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom styles/ and templates/ directory")
	fmt.Fprintln(w, "      --date-format <s>     Presets: short, long, numeric, iso")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MMMM, MMM, MM, M")
	fmt.Fprintln(w, "      --present-label <s>   End label of current positions (default: Present)")
	fmt.Fprintln(w, "      --lang <s>            Document language (default: en)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Browser:")
	fmt.Fprintln(w, "      --engine <s>          rod (default) or chromedp")
	fmt.Fprintln(w, "  -t, --timeout <d>         Export timeout (default: 30s)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel browsers (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
}

// printExportUsage prints usage for the export command.
func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cv2pdf export <cv.yaml|dir>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export CV files to PDF. Pages are cut from the rendered height, so the")
	fmt.Fprintln(w, "page count can differ from the preview estimate.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       PDF file (single input) or directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Capture:")
	fmt.Fprintln(w, "      --overlap <px>        Extra height captured per page (10-80, default: 20)")
	fmt.Fprintln(w, "      --shift <px>          Upward paint offset of later pages (default: 4)")
	fmt.Fprintln(w, "      --scale <f>           Pixel density (1-4, default: 2)")
	fmt.Fprintln(w)
	printPipelineFlags(w)
}

// printPreviewUsage prints usage for the preview command.
func printPreviewUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cv2pdf preview <cv.yaml> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Write the CV as fixed-size A4 frames, one per estimated page.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       HTML file (default: stdout)")
	fmt.Fprintln(w, "      --watch               Re-plan and rewrite on every save")
	fmt.Fprintln(w, "      --interval <d>        Watch polling interval (default: 250ms)")
	fmt.Fprintln(w)
	printPipelineFlags(w)
}

// printPagesUsage prints usage for the pages command.
func printPagesUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cv2pdf pages <cv.yaml>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Show the page plan estimated from the content. With --measure, also")
	fmt.Fprintln(w, "render in a browser and show the page count the export would produce.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --measure             Measure the rendered height")
	fmt.Fprintln(w, "      --json                Print JSON")
	fmt.Fprintln(w)
	printPipelineFlags(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cv2pdf serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run the HTTP API:")
	fmt.Fprintln(w, "  GET  /healthz")
	fmt.Fprintln(w, "  GET  /api/v1/templates")
	fmt.Fprintln(w, "  GET  /api/v1/schema")
	fmt.Fprintln(w, "  POST /api/v1/preview    CV body -> paged HTML")
	fmt.Fprintln(w, "  POST /api/v1/pages      CV body -> page plan (?measure=true)")
	fmt.Fprintln(w, "  POST /api/v1/export     CV body -> PDF attachment (?filename=, ?title=)")
	fmt.Fprintln(w, "  POST /api/v1/lint       CV body -> schema issues")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "      --addr <addr>         Listen address (default: :8080)")
	fmt.Fprintln(w, "      --origin <url>        Allowed CORS origin (repeatable)")
	fmt.Fprintln(w, "      --env-file <path>     .env file (default: .env if present)")
	fmt.Fprintln(w, "      --log-level <s>       debug, info, warn, error")
	fmt.Fprintln(w, "      --log-format <s>      console or json")
	fmt.Fprintln(w)
	printPipelineFlags(w)
}

// printLintUsage prints usage for the lint command.
func printLintUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cv2pdf lint <cv.yaml>... [--json] [-q]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check CV files against the schema. Fails only on errors; warnings")
	fmt.Fprintln(w, "are values the renderer will coerce or skip.")
}

// printTemplatesUsage prints usage for the templates command.
func printTemplatesUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cv2pdf templates [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List the prebuilt templates.")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cv2pdf doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that a browser can be launched for exports.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	usages := map[string]func(io.Writer){
		"export":    printExportUsage,
		"preview":   printPreviewUsage,
		"pages":     printPagesUsage,
		"serve":     printServeUsage,
		"lint":      printLintUsage,
		"templates": printTemplatesUsage,
		"doctor":    printDoctorUsage,
	}
	if usage, ok := usages[args[0]]; ok {
		usage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: cv2pdf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: cv2pdf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}

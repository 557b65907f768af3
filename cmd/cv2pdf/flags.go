package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// shiftSentinel detects if --shift was explicitly set.
// Since 0 is a valid shift, we use an out-of-range sentinel.
const shiftSentinel = -1.0

// defaultWatchInterval is how often --watch polls the CV file.
const defaultWatchInterval = 250 * time.Millisecond

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// pipelineFlags holds flags that configure rendering.
type pipelineFlags struct {
	template     string
	assetPath    string
	engine       string
	timeout      string
	dateFormat   string
	presentLabel string
	lang         string
	css          string
	title        string
	workers      int
}

// exportFlags holds all flags for the export command.
type exportFlags struct {
	common   commonFlags
	pipeline pipelineFlags
	output   string
	overlap  int
	shift    float64
	scale    float64
}

// previewFlags holds all flags for the preview command.
type previewFlags struct {
	common   commonFlags
	pipeline pipelineFlags
	output   string
	watch    bool
	interval time.Duration
}

// pagesFlags holds all flags for the pages command.
type pagesFlags struct {
	common   commonFlags
	pipeline pipelineFlags
	measure  bool
	json     bool
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common    commonFlags
	pipeline  pipelineFlags
	addr      string
	origins   []string
	envFile   string
	logLevel  string
	logFormat string
}

// jsonFlags holds flags of the commands that only choose an output format.
type jsonFlags struct {
	json  bool
	quiet bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addPipelineFlags adds rendering flags to a FlagSet.
func addPipelineFlags(fs *flag.FlagSet, f *pipelineFlags) {
	fs.StringVar(&f.template, "template", "", "template: classic, modern, minimal, professional, creative, elegant")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.StringVar(&f.engine, "engine", "", "browser engine: rod, chromedp")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "export timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.dateFormat, "date-format", "", "date format: short, long, numeric, iso, or tokens")
	fs.StringVar(&f.presentLabel, "present-label", "", "end label of current positions")
	fs.StringVar(&f.lang, "lang", "", "document language")
	fs.StringVar(&f.css, "css", "", "extra CSS file appended after the template style")
	fs.StringVar(&f.title, "title", "", "document title (\"\" = full name)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel browsers (0 = auto)")
}

// ErrInvalidFlags wraps flag parsing errors.
var ErrInvalidFlags = errors.New("invalid flags")

// parseFlagSet parses args. --help is passed through unwrapped.
func parseFlagSet(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrInvalidFlags, err)
	}
	return nil
}

// newFlagSet creates a FlagSet that reports errors instead of exiting.
func newFlagSet(name string, stderr io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }
	return fs
}

// parseExportFlags parses export command flags and returns positional args.
func parseExportFlags(args []string, stderr io.Writer) (*exportFlags, []string, error) {
	f := &exportFlags{}
	fs := newFlagSet("export", stderr, printExportUsage)

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVar(&f.overlap, "overlap", 0, "extra capture height per page in px (10-80)")
	fs.Float64Var(&f.shift, "shift", shiftSentinel, "upward paint offset of later pages in px")
	fs.Float64Var(&f.scale, "scale", 0, "capture pixel density (1-4)")
	addCommonFlags(fs, &f.common)
	addPipelineFlags(fs, &f.pipeline)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parsePreviewFlags parses preview command flags and returns positional args.
func parsePreviewFlags(args []string, stderr io.Writer) (*previewFlags, []string, error) {
	f := &previewFlags{}
	fs := newFlagSet("preview", stderr, printPreviewUsage)

	fs.StringVarP(&f.output, "output", "o", "", "output HTML file (default: stdout)")
	fs.BoolVar(&f.watch, "watch", false, "re-plan pages whenever the CV file changes")
	fs.DurationVar(&f.interval, "interval", defaultWatchInterval, "watch polling interval")
	addCommonFlags(fs, &f.common)
	addPipelineFlags(fs, &f.pipeline)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	if f.interval <= 0 {
		return nil, nil, fmt.Errorf("%w: --interval must be positive, got %s", ErrInvalidFlags, f.interval)
	}
	return f, fs.Args(), nil
}

// parsePagesFlags parses pages command flags and returns positional args.
func parsePagesFlags(args []string, stderr io.Writer) (*pagesFlags, []string, error) {
	f := &pagesFlags{}
	fs := newFlagSet("pages", stderr, printPagesUsage)

	fs.BoolVar(&f.measure, "measure", false, "also measure the rendered height in a browser")
	fs.BoolVar(&f.json, "json", false, "print JSON")
	addCommonFlags(fs, &f.common)
	addPipelineFlags(fs, &f.pipeline)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string, stderr io.Writer) (*serveFlags, []string, error) {
	f := &serveFlags{}
	fs := newFlagSet("serve", stderr, printServeUsage)

	fs.StringVar(&f.addr, "addr", "", "listen address (default :8080)")
	fs.StringSliceVar(&f.origins, "origin", nil, "allowed CORS origin (repeatable)")
	fs.StringVar(&f.envFile, "env-file", "", ".env file to load (default: .env if present)")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: console, json")
	addCommonFlags(fs, &f.common)
	addPipelineFlags(fs, &f.pipeline)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseJSONFlags parses the flags of lint, templates and doctor.
func parseJSONFlags(name string, args []string, stderr io.Writer, usage func(io.Writer)) (*jsonFlags, []string, error) {
	f := &jsonFlags{}
	fs := newFlagSet(name, stderr, usage)

	fs.BoolVar(&f.json, "json", false, "print JSON")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show problems")

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

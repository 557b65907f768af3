package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	cv2pdf "github.com/alnah/go-cv2pdf"
	"github.com/alnah/go-cv2pdf/internal/export"
	"github.com/alnah/go-cv2pdf/internal/fileutil"
)

// exportJob is one CV file to export.
type exportJob struct {
	InputPath string
	Sink      *export.FileDownloader
}

// exportResult holds the outcome of a single export.
type exportResult struct {
	InputPath  string
	OutputPath string
	Pages      int
	Err        error
	Duration   time.Duration
}

// runExport exports every CV file given on the command line, in parallel.
func runExport(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseExportFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	s, err := loadSettings(&flags.common, &flags.pipeline, env)
	if err != nil {
		return err
	}
	mergeExportFlags(flags, s)

	inputs, err := expandInputs(positional)
	if err != nil {
		return err
	}
	jobs, err := planJobs(inputs, flags.output, s)
	if err != nil {
		return err
	}

	var notifier cv2pdf.Notifier = cv2pdf.NotifierFunc(func(context.Context, string) {})
	if !flags.common.quiet {
		notifier = &export.WriterNotifier{W: env.Stderr}
	}
	logger := commandLogger(flags.common.verbose)
	defer func() { _ = logger.Sync() }()

	workers := min(s.workers, len(jobs))
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Pool size: %d\n", workers)
	}
	pool := env.NewPipeline(workers, s.converterOptions(logger, notifier)...)
	defer func() { _ = pool.Close() }()

	results := exportBatch(ctx, pool, jobs, s)
	return reportResults(results, flags.common, env)
}

// mergeExportFlags applies the rasterization flags. Unset flags keep config values.
func mergeExportFlags(f *exportFlags, s *settings) {
	if f.overlap != 0 {
		s.cfg.Export.Overlap = f.overlap
	}
	if f.shift != shiftSentinel {
		s.cfg.Export.Shift = f.shift
	}
	if f.scale != 0 {
		s.cfg.Export.Scale = f.scale
	}
}

// expandInputs replaces directories with the CV files they contain.
func expandInputs(paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, ErrNoInput
	}
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadCV, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadCV, err)
		}
		found := 0
		for _, e := range entries {
			if !e.IsDir() && isCVFile(e.Name()) {
				files = append(files, filepath.Join(p, e.Name()))
				found++
			}
		}
		if found == 0 {
			return nil, fmt.Errorf("%w: no CV files in %s", ErrNoInput, p)
		}
	}
	sort.Strings(files)
	return files, nil
}

// planJobs decides where each PDF goes. An output ending in .pdf names the
// file of a single input; any other output is a directory. Without output,
// PDFs go to the configured directory or next to their CV.
func planJobs(inputs []string, output string, s *settings) ([]exportJob, error) {
	if output == "" {
		output = s.cfg.Output.DefaultDir
	}
	toFile := strings.EqualFold(filepath.Ext(output), ".pdf")
	if toFile && len(inputs) > 1 {
		return nil, fmt.Errorf("%w: %d inputs, output %s", ErrOutputIsFile, len(inputs), output)
	}

	jobs := make([]exportJob, 0, len(inputs))
	for _, in := range inputs {
		sink := &export.FileDownloader{}
		switch {
		case toFile:
			sink.Path = output
		case output != "":
			sink.Dir = output
		default:
			sink.Dir = filepath.Dir(in)
		}
		if len(inputs) == 1 && !toFile && s.cfg.Output.FileName != "" {
			sink.Path = filepath.Join(sink.Dir, fileutil.PDFFileName(s.cfg.Output.FileName))
		}
		jobs = append(jobs, exportJob{InputPath: in, Sink: sink})
	}
	return jobs, nil
}

// exportBatch runs the jobs concurrently. The pool bounds how many browsers
// work at once.
func exportBatch(ctx context.Context, pool Pipeline, jobs []exportJob, s *settings) []exportResult {
	results := make([]exportResult, len(jobs))
	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = exportOne(ctx, pool, job, s)
		}()
	}
	wg.Wait()
	return results
}

// exportOne exports a single CV file and writes the PDF.
func exportOne(ctx context.Context, pool Pipeline, job exportJob, s *settings) exportResult {
	start := time.Now()
	result := exportResult{InputPath: job.InputPath}

	in, err := s.loadInput(job.InputPath)
	if err != nil {
		result.Err = err
		return result
	}

	art, err := pool.Export(ctx, in)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	if err := job.Sink.Download(ctx, art); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWriteOutput, err)
		result.Duration = time.Since(start)
		return result
	}

	result.OutputPath = job.Sink.Written
	result.Pages = art.Pages
	result.Duration = time.Since(start)
	return result
}

// reportResults prints one line per export and returns the joined failures.
func reportResults(results []exportResult, common commonFlags, env *Environment) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.InputPath, r.Err))
			continue
		}
		if common.quiet {
			continue
		}
		if common.verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%d pages, %v)\n", r.InputPath, r.OutputPath, r.Pages, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "%s -> %s\n", r.InputPath, r.OutputPath)
		}
	}

	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return fmt.Errorf("%d export(s) failed:\n%w", len(errs), errors.Join(errs...))
	}
}

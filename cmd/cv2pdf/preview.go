package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cv2pdf "github.com/alnah/go-cv2pdf"
)

// runPreview writes the paged HTML preview of a CV file. With --watch it
// keeps running, re-planning pages whenever the file changes.
func runPreview(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parsePreviewFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: preview takes exactly one CV file", ErrNoInput)
	}
	path := positional[0]

	s, err := loadSettings(&flags.common, &flags.pipeline, env)
	if err != nil {
		return err
	}

	logger := commandLogger(flags.common.verbose)
	defer func() { _ = logger.Sync() }()
	pool := env.NewPipeline(1, s.converterOptions(logger, nil)...)
	defer func() { _ = pool.Close() }()

	in, err := s.loadInput(path)
	if err != nil {
		return err
	}
	if err := writePreview(ctx, pool, path, in, flags, env); err != nil {
		return err
	}
	if !flags.watch {
		return nil
	}

	w := &previewWatcher{
		path:     path,
		settings: s,
		flags:    flags,
		pool:     pool,
		env:      env,
	}
	return w.run(ctx, in)
}

// writePreview composes in, read from source, and writes the HTML to
// --output or stdout.
func writePreview(ctx context.Context, pool Pipeline, source string, in cv2pdf.Input, flags *previewFlags, env *Environment) error {
	comp, err := pool.Preview(ctx, in)
	if err != nil {
		return err
	}

	if flags.output == "" {
		if flags.watch {
			// Keep the terminal for page counts.
			return nil
		}
		_, err := fmt.Fprint(env.Stdout, comp.HTML)
		return err
	}

	if dir := filepath.Dir(flags.output); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
	}
	// #nosec G306 -- previews are meant to be readable
	if err := os.WriteFile(flags.output, []byte(comp.HTML), 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stderr, "%s -> %s (%s)\n", source, flags.output, pageWord(comp.Count))
	}
	return nil
}

// previewWatcher polls a CV file and feeds edits to a debounced Replanner.
type previewWatcher struct {
	path     string
	settings *settings
	flags    *previewFlags
	pool     Pipeline
	env      *Environment
}

func (w *previewWatcher) run(ctx context.Context, in cv2pdf.Input) error {
	replanner := cv2pdf.NewReplanner(w.settings.cfg.Layout.Heuristics, w.settings.cfg.Layout.Debounce(),
		func(plan cv2pdf.PagePlan) {
			fmt.Fprintf(w.env.Stdout, "pages: %d\n", plan.Count)
		})
	defer replanner.Stop()

	replanner.Update(in.Document, in.Order)
	if !w.flags.common.quiet {
		fmt.Fprintf(w.env.Stderr, "watching %s (Ctrl+C to stop)\n", w.path)
	}

	last := modTime(w.path)
	ticker := time.NewTicker(w.flags.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		mt := modTime(w.path)
		if mt.Equal(last) {
			continue
		}
		last = mt

		next, err := w.settings.loadInput(w.path)
		if err != nil {
			// Half-written files are common while editing; wait for the next save.
			if !w.flags.common.quiet {
				fmt.Fprintf(w.env.Stderr, "warning: %v\n", err)
			}
			continue
		}
		replanner.Update(next.Document, next.Order)
		if err := writePreview(ctx, w.pool, w.path, next, w.flags, w.env); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			fmt.Fprintf(w.env.Stderr, "warning: %v\n", err)
		}
	}
}

// modTime returns the modification time of path, or zero if it cannot be read.
func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// pageWord formats a page count for humans.
func pageWord(n int) string {
	if n == 1 {
		return "1 page"
	}
	return fmt.Sprintf("%d pages", n)
}

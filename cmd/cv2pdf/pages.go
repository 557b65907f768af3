package main

import (
	"context"
	"encoding/json"
	"fmt"

	cv2pdf "github.com/alnah/go-cv2pdf"
)

// pagesReport is the output of the pages command. The estimate comes from
// the content heuristics; the measurement from the rendered height.
type pagesReport struct {
	File     string          `json:"file"`
	Template string          `json:"template"`
	Estimate estimateReport  `json:"estimate"`
	Measured *measuredReport `json:"measured,omitempty"`
}

type estimateReport struct {
	Height  int   `json:"height"`
	Pages   int   `json:"pages"`
	Offsets []int `json:"offsets"`
}

type measuredReport struct {
	Height float64 `json:"height"`
	Pages  int     `json:"pages"`
}

// runPages prints the page plan of each CV file, and with --measure the
// page count the exporter would produce.
func runPages(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parsePagesFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) == 0 {
		return ErrNoInput
	}
	s, err := loadSettings(&flags.common, &flags.pipeline, env)
	if err != nil {
		return err
	}

	logger := commandLogger(flags.common.verbose)
	defer func() { _ = logger.Sync() }()
	pool := env.NewPipeline(1, s.converterOptions(logger, nil)...)
	defer func() { _ = pool.Close() }()

	reports := make([]pagesReport, 0, len(positional))
	for _, path := range positional {
		in, err := s.loadInput(path)
		if err != nil {
			return err
		}
		r, err := planPages(ctx, pool, path, in, flags.measure)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		reports = append(reports, r)
	}

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}
	for _, r := range reports {
		printPagesReport(env, r)
	}
	return nil
}

func planPages(ctx context.Context, pool Pipeline, path string, in cv2pdf.Input, measure bool) (pagesReport, error) {
	plan, err := pool.Plan(ctx, in)
	if err != nil {
		return pagesReport{}, err
	}
	r := pagesReport{
		File:     path,
		Template: in.Selection.Template.String(),
		Estimate: estimateReport{Height: plan.Estimate, Pages: plan.Count, Offsets: plan.Offsets},
	}
	if !measure {
		return r, nil
	}
	m, err := pool.MeasurePages(ctx, in)
	if err != nil {
		return pagesReport{}, err
	}
	r.Measured = &measuredReport{Height: m.Height, Pages: m.Pages}
	return r, nil
}

func printPagesReport(env *Environment, r pagesReport) {
	fmt.Fprintf(env.Stdout, "%s (%s)\n", r.File, r.Template)
	fmt.Fprintf(env.Stdout, "  estimate: %s, %dpx, offsets %v\n", pageWord(r.Estimate.Pages), r.Estimate.Height, r.Estimate.Offsets)
	if r.Measured == nil {
		return
	}
	fmt.Fprintf(env.Stdout, "  measured: %s, %.0fpx\n", pageWord(r.Measured.Pages), r.Measured.Height)
	if r.Measured.Pages != r.Estimate.Pages {
		fmt.Fprintln(env.Stdout, "  note: preview and PDF page counts differ")
	}
}

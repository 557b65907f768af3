package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	cv2pdf "github.com/alnah/go-cv2pdf"
	"github.com/alnah/go-cv2pdf/internal/config"
	"github.com/alnah/go-cv2pdf/internal/export"
	"github.com/alnah/go-cv2pdf/internal/fileutil"
	"github.com/alnah/go-cv2pdf/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrReadCV             = errors.New("failed to read CV file")
	ErrReadCSS            = errors.New("failed to read CSS file")
	ErrWriteOutput        = errors.New("failed to write output file")
	ErrUnknownTemplate    = errors.New("unknown template")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrLintFailed         = errors.New("CV file has errors")
	ErrOutputIsFile       = errors.New("output must be a directory for several inputs")
)

// maxWorkers caps --workers; each worker owns a browser.
const maxWorkers = 32

// settings is the resolved configuration of one command run.
type settings struct {
	cfg     *config.Config
	workers int
	css     string
	title   string
}

// loadSettings layers defaults, config file, environment and flags.
func loadSettings(common *commonFlags, p *pipelineFlags, env *Environment) (*settings, error) {
	envCfg := loadEnvConfig(env.getenv)
	if !common.quiet {
		warnUnknownEnvVars(env.Environ(), env.Stderr)
	}

	cfg := config.DefaultConfig()
	configPath := common.config
	if configPath == "" {
		configPath = envCfg.ConfigPath
	}
	if configPath != "" {
		var err error
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(envCfg, cfg)
	mergePipelineFlags(p, cfg)

	if cfg.Template.Name != "" {
		if _, ok := cv2pdf.ParseTemplateID(cfg.Template.Name); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, cfg.Template.Name)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	workers, err := resolveWorkers(p.workers, envCfg.Workers)
	if err != nil {
		return nil, err
	}

	css, err := readCSS(p.css)
	if err != nil {
		return nil, err
	}

	return &settings{cfg: cfg, workers: workers, css: css, title: p.title}, nil
}

// mergePipelineFlags merges CLI flags into config. CLI values override config values.
func mergePipelineFlags(p *pipelineFlags, cfg *config.Config) {
	if p.template != "" {
		cfg.Template.Name = p.template
	}
	if p.assetPath != "" {
		cfg.Assets.BasePath = p.assetPath
	}
	if p.engine != "" {
		cfg.Export.Engine = p.engine
	}
	if p.timeout != "" {
		cfg.Export.Timeout = p.timeout
	}
	if p.dateFormat != "" {
		cfg.Dates.Format = p.dateFormat
	}
	if p.presentLabel != "" {
		cfg.Dates.PresentLabel = p.presentLabel
	}
	if p.lang != "" {
		cfg.Dates.Lang = p.lang
	}
}

// resolveWorkers picks the pool size: flag > env > GOMAXPROCS-based.
func resolveWorkers(flagWorkers, envWorkers int) (int, error) {
	if flagWorkers < 0 || flagWorkers > maxWorkers {
		return 0, fmt.Errorf("%w: %d (allowed 0-%d)", ErrInvalidWorkerCount, flagWorkers, maxWorkers)
	}
	if flagWorkers > 0 {
		return flagWorkers, nil
	}
	if envWorkers > maxWorkers {
		return 0, fmt.Errorf("%w: %d (allowed 0-%d)", ErrInvalidWorkerCount, envWorkers, maxWorkers)
	}
	return cv2pdf.ResolvePoolSize(envWorkers), nil
}

// readCSS reads the --css file, if any.
func readCSS(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadCSS, err)
	}
	return string(data), nil
}

// converterOptions turns settings into converter options. Zero export
// values keep the library defaults.
func (s *settings) converterOptions(logger *zap.Logger, notifier cv2pdf.Notifier) []cv2pdf.Option {
	cfg := s.cfg
	opts := []cv2pdf.Option{
		cv2pdf.WithTimeout(cfg.Export.TimeoutDuration()),
		cv2pdf.WithEngine(cfg.Export.Engine),
		cv2pdf.WithHeuristics(cfg.Layout.Heuristics),
		cv2pdf.WithLogger(logger),
		cv2pdf.WithNotifier(notifier),
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, cv2pdf.WithAssetPath(cfg.Assets.BasePath))
	}
	if cfg.Dates.Format != "" {
		opts = append(opts, cv2pdf.WithDateFormat(cfg.Dates.Format))
	}
	if cfg.Dates.PresentLabel != "" {
		opts = append(opts, cv2pdf.WithPresentLabel(cfg.Dates.PresentLabel))
	}
	if cfg.Dates.Lang != "" {
		opts = append(opts, cv2pdf.WithLang(cfg.Dates.Lang))
	}
	if cfg.Export.Overlap != 0 {
		opts = append(opts, cv2pdf.WithOverlap(cfg.Export.Overlap))
	}
	if cfg.Export.Shift != export.DefaultShift {
		opts = append(opts, cv2pdf.WithShift(cfg.Export.Shift))
	}
	if cfg.Export.Scale != 0 {
		opts = append(opts, cv2pdf.WithScale(cfg.Export.Scale))
	}
	return opts
}

// loadInput reads one CV file and applies the configured overrides.
// Relative image paths in the CV resolve against its directory.
func (s *settings) loadInput(path string) (cv2pdf.Input, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return cv2pdf.Input{}, fmt.Errorf("%w: %v", ErrReadCV, err)
	}
	file, err := cv2pdf.ParseCV(data)
	if err != nil {
		return cv2pdf.Input{}, fmt.Errorf("%s: %w%s", path, err, hints.ForLint(path))
	}

	in := cv2pdf.InputFrom(file)
	in.Selection = s.cfg.Selection(in.Selection)
	in.Order = s.cfg.Order(in.Order)
	in.Title = s.title
	in.CSS = s.css
	in.FileName = fileutil.PDFNameFor(path)
	if abs, err := filepath.Abs(path); err == nil {
		in.BaseDir = filepath.Dir(abs)
	}
	return in, nil
}

// isCVFile reports whether path looks like a CV file.
func isCVFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

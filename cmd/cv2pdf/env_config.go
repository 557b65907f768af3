package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-cv2pdf/internal/config"
)

// envPrefix marks the variables read by loadEnvConfig.
const envPrefix = "CV2PDF_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string        // CV2PDF_CONFIG: config file path
	Template   string        // CV2PDF_TEMPLATE: template name
	Timeout    time.Duration // CV2PDF_TIMEOUT: export timeout

	// Tier 2 - I/O and browser
	AssetPath string // CV2PDF_ASSET_PATH: custom asset directory
	OutputDir string // CV2PDF_OUTPUT_DIR: default output directory
	Engine    string // CV2PDF_ENGINE: rod or chromedp
	Workers   int    // CV2PDF_WORKERS: parallel browsers

	// Tier 3 - Extended
	DateFormat     string   // CV2PDF_DATE_FORMAT: date format preset or tokens
	PresentLabel   string   // CV2PDF_PRESENT_LABEL: end label of current positions
	Lang           string   // CV2PDF_LANG: document language
	Addr           string   // CV2PDF_ADDR: serve listen address
	AllowedOrigins []string // CV2PDF_ALLOWED_ORIGINS: comma-separated CORS origins
	LogLevel       string   // CV2PDF_LOG_LEVEL: debug, info, warn, error
	LogFormat      string   // CV2PDF_LOG_FORMAT: console or json
}

// knownEnvVars lists valid CV2PDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	// Tier 1 - Essential
	"CV2PDF_CONFIG":   true,
	"CV2PDF_TEMPLATE": true,
	"CV2PDF_TIMEOUT":  true,
	// Tier 2 - I/O and browser
	"CV2PDF_ASSET_PATH": true,
	"CV2PDF_OUTPUT_DIR": true,
	"CV2PDF_ENGINE":     true,
	"CV2PDF_WORKERS":    true,
	// Tier 3 - Extended
	"CV2PDF_DATE_FORMAT":     true,
	"CV2PDF_PRESENT_LABEL":   true,
	"CV2PDF_LANG":            true,
	"CV2PDF_ADDR":            true,
	"CV2PDF_ALLOWED_ORIGINS": true,
	"CV2PDF_LOG_LEVEL":       true,
	"CV2PDF_LOG_FORMAT":      true,
	// Read by doctor
	"CV2PDF_CONTAINER": true,
}

// loadEnvConfig reads configuration from environment variables.
// Returns a struct with all recognized CV2PDF_* values.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		// Tier 1
		ConfigPath: getenv("CV2PDF_CONFIG"),
		Template:   getenv("CV2PDF_TEMPLATE"),
		// Tier 2
		AssetPath: getenv("CV2PDF_ASSET_PATH"),
		OutputDir: getenv("CV2PDF_OUTPUT_DIR"),
		Engine:    getenv("CV2PDF_ENGINE"),
		// Tier 3
		DateFormat:   getenv("CV2PDF_DATE_FORMAT"),
		PresentLabel: getenv("CV2PDF_PRESENT_LABEL"),
		Lang:         getenv("CV2PDF_LANG"),
		Addr:         getenv("CV2PDF_ADDR"),
		LogLevel:     getenv("CV2PDF_LOG_LEVEL"),
		LogFormat:    getenv("CV2PDF_LOG_FORMAT"),
	}

	// Parse duration for timeout
	if timeout := getenv("CV2PDF_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	// Parse int for workers
	if workers := getenv("CV2PDF_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	if origins := getenv("CV2PDF_ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized CV2PDF_* variables.
// Helps catch typos like CV2PDF_TEMPLTE instead of CV2PDF_TEMPLATE.
func warnUnknownEnvVars(environ []string, w io.Writer) {
	for _, env := range environ {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Set variables override the config file; CLI flags are applied later via
// mergePipelineFlags, giving: CLI flags > env vars > config file > defaults.
// Workers are not part of the config and are resolved in resolveWorkers.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	// Tier 1
	if env.Template != "" {
		cfg.Template.Name = env.Template
	}
	if env.Timeout > 0 {
		cfg.Export.Timeout = env.Timeout.String()
	}

	// Tier 2
	if env.AssetPath != "" {
		cfg.Assets.BasePath = env.AssetPath
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Engine != "" {
		cfg.Export.Engine = env.Engine
	}

	// Tier 3
	if env.DateFormat != "" {
		cfg.Dates.Format = env.DateFormat
	}
	if env.PresentLabel != "" {
		cfg.Dates.PresentLabel = env.PresentLabel
	}
	if env.Lang != "" {
		cfg.Dates.Lang = env.Lang
	}
	if env.Addr != "" {
		cfg.Server.Addr = env.Addr
	}
	if len(env.AllowedOrigins) > 0 {
		cfg.Server.AllowedOrigins = env.AllowedOrigins
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.LogFormat != "" {
		cfg.Log.Format = env.LogFormat
	}
}

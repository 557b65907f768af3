package main

// Notes:
// - loadEnvConfig: we test every CV2PDF_* variable across the 3 tiers.
//   Invalid/negative values for timeout and workers are ignored, not errors.
// - warnUnknownEnvVars: we test typo detection and that known vars don't warn.
// - applyEnvConfig: we test that set variables override the config file and
//   unset ones leave it alone.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-cv2pdf/internal/config"
)

func mapGetenv(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("all tiers", func(t *testing.T) {
		t.Parallel()

		cfg := loadEnvConfig(mapGetenv(map[string]string{
			"CV2PDF_CONFIG":          "/etc/cv2pdf.yaml",
			"CV2PDF_TEMPLATE":        "elegant",
			"CV2PDF_TIMEOUT":         "2m",
			"CV2PDF_ASSET_PATH":      "/assets",
			"CV2PDF_OUTPUT_DIR":      "/out",
			"CV2PDF_ENGINE":          "chromedp",
			"CV2PDF_WORKERS":         "3",
			"CV2PDF_DATE_FORMAT":     "iso",
			"CV2PDF_PRESENT_LABEL":   "Now",
			"CV2PDF_LANG":            "fr",
			"CV2PDF_ADDR":            ":9090",
			"CV2PDF_ALLOWED_ORIGINS": "https://a.example, https://b.example,",
			"CV2PDF_LOG_LEVEL":       "debug",
			"CV2PDF_LOG_FORMAT":      "json",
		}))

		if cfg.ConfigPath != "/etc/cv2pdf.yaml" || cfg.Template != "elegant" || cfg.Timeout != 2*time.Minute {
			t.Errorf("tier 1 = %q %q %v", cfg.ConfigPath, cfg.Template, cfg.Timeout)
		}
		if cfg.AssetPath != "/assets" || cfg.OutputDir != "/out" || cfg.Engine != "chromedp" || cfg.Workers != 3 {
			t.Errorf("tier 2 = %q %q %q %d", cfg.AssetPath, cfg.OutputDir, cfg.Engine, cfg.Workers)
		}
		if cfg.DateFormat != "iso" || cfg.PresentLabel != "Now" || cfg.Lang != "fr" || cfg.Addr != ":9090" {
			t.Errorf("tier 3 = %q %q %q %q", cfg.DateFormat, cfg.PresentLabel, cfg.Lang, cfg.Addr)
		}
		if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
			t.Errorf("AllowedOrigins = %v, want 2 trimmed origins", cfg.AllowedOrigins)
		}
		if cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
			t.Errorf("log = %q %q", cfg.LogLevel, cfg.LogFormat)
		}
	})

	t.Run("invalid numbers are ignored", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			timeout string
			workers string
		}{
			{"soon", "many"},
			{"-5s", "-2"},
			{"0s", "0"},
		}
		for _, tt := range tests {
			cfg := loadEnvConfig(mapGetenv(map[string]string{
				"CV2PDF_TIMEOUT": tt.timeout,
				"CV2PDF_WORKERS": tt.workers,
			}))
			if cfg.Timeout != 0 {
				t.Errorf("Timeout(%q) = %v, want 0", tt.timeout, cfg.Timeout)
			}
			if cfg.Workers != 0 {
				t.Errorf("Workers(%q) = %d, want 0", tt.workers, cfg.Workers)
			}
		}
	})

	t.Run("empty environment", func(t *testing.T) {
		t.Parallel()

		cfg := loadEnvConfig(mapGetenv(nil))
		if cfg.ConfigPath != "" || cfg.Timeout != 0 || cfg.AllowedOrigins != nil {
			t.Errorf("expected zero config, got %+v", cfg)
		}
	})
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	warnUnknownEnvVars([]string{
		"CV2PDF_TEMPLTE=modern",
		"CV2PDF_TEMPLATE=modern",
		"CV2PDF_CONTAINER=1",
		"HOME=/root",
	}, &buf)

	out := buf.String()
	if !strings.Contains(out, "CV2PDF_TEMPLTE") {
		t.Errorf("expected warning for typo, got %q", out)
	}
	if strings.Contains(out, "CV2PDF_TEMPLATE ") || strings.Contains(out, "CV2PDF_CONTAINER") || strings.Contains(out, "HOME") {
		t.Errorf("unexpected warning in %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("expected exactly one warning, got %q", out)
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Env overrides config file
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("set variables override", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Template.Name = "classic"
		applyEnvConfig(&envConfig{
			Template:       "modern",
			Timeout:        90 * time.Second,
			Engine:         "chromedp",
			OutputDir:      "/out",
			DateFormat:     "long",
			Addr:           ":1234",
			AllowedOrigins: []string{"https://x.example"},
			LogFormat:      "json",
		}, cfg)

		if cfg.Template.Name != "modern" {
			t.Errorf("Template.Name = %q, want modern", cfg.Template.Name)
		}
		if cfg.Export.Timeout != "1m30s" {
			t.Errorf("Export.Timeout = %q, want 1m30s", cfg.Export.Timeout)
		}
		if cfg.Export.Engine != "chromedp" || cfg.Output.DefaultDir != "/out" || cfg.Dates.Format != "long" {
			t.Errorf("overrides not applied: %+v", cfg)
		}
		if cfg.Server.Addr != ":1234" || len(cfg.Server.AllowedOrigins) != 1 || cfg.Log.Format != "json" {
			t.Errorf("server/log overrides not applied: %+v %+v", cfg.Server, cfg.Log)
		}
	})

	t.Run("unset variables keep config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Template.Name = "classic"
		cfg.Dates.Lang = "de"
		applyEnvConfig(&envConfig{}, cfg)

		if cfg.Template.Name != "classic" || cfg.Dates.Lang != "de" {
			t.Errorf("config changed: %+v %+v", cfg.Template, cfg.Dates)
		}
		if cfg.Export.Engine != config.DefaultConfig().Export.Engine {
			t.Errorf("Engine = %q, want default", cfg.Export.Engine)
		}
	})
}

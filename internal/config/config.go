package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-cv2pdf/internal/dateutil"
	"github.com/alnah/go-cv2pdf/internal/export"
	"github.com/alnah/go-cv2pdf/internal/fileutil"
	"github.com/alnah/go-cv2pdf/internal/layout"
	"github.com/alnah/go-cv2pdf/internal/model"
	"github.com/alnah/go-cv2pdf/internal/surface"
	"github.com/alnah/go-cv2pdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits for multi-tenant safety.
const (
	MaxTemplateLength     = 20   // "professional"
	MaxColorLength        = 20   // "#1a73e8"
	MaxFontLength         = 100  // Font family name
	MaxSectionTokenLength = 100  // "experience_2", custom section IDs
	MaxSections           = 50   // Section order entries
	MaxDateFormatLength   = 30   // "MMMM YYYY"
	MaxLabelLength        = 50   // "Present"
	MaxLangLength         = 20   // "en", "fr-CA"
	MaxFileNameLength     = 255  // Download name
	MaxURLLength          = 2048 // Browser limit
	MaxAddrLength         = 100  // ":8080"
	MaxOrigins            = 50   // CORS allow-list
)

// Defaults that are not owned by another package.
const (
	DefaultAddr         = ":8080"
	DefaultMaxBodyBytes = 1 << 20
	DefaultLogLevel     = "info"
)

// Config holds all configuration for CV generation.
type Config struct {
	Template TemplateConfig `yaml:"template"`
	Sections SectionsConfig `yaml:"sections"`
	Output   OutputConfig   `yaml:"output"`
	Assets   AssetsConfig   `yaml:"assets"`
	Dates    DatesConfig    `yaml:"dates"`
	Layout   LayoutConfig   `yaml:"layout"`
	Export   ExportConfig   `yaml:"export"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

// TemplateConfig overrides the selection stored in CV files.
type TemplateConfig struct {
	Name   string       `yaml:"name"`   // One of the prebuilt templates (empty = from CV file)
	Design model.Design `yaml:"design"` // Empty fields keep the CV file's design
}

// SectionsConfig overrides the section order of CV files.
type SectionsConfig struct {
	Order []string `yaml:"order"` // Empty = from CV file
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
	FileName   string `yaml:"fileName"`   // Download name (empty = derived from input, then cv.pdf)
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// DatesConfig defines how entry periods are printed.
type DatesConfig struct {
	Format       string `yaml:"format"`       // Preset or pattern (default: "MMM YYYY")
	PresentLabel string `yaml:"presentLabel"` // End label for current entries (default: "Present")
	Lang         string `yaml:"lang"`         // Document language (default: "en")
}

// LayoutConfig tunes the page estimate and live re-planning.
type LayoutConfig struct {
	Heuristics layout.Heuristics `yaml:"heuristics"`
	DebounceMs int               `yaml:"debounceMs"` // Re-plan delay while editing (default: 100)
}

// Debounce returns the re-plan delay.
func (l LayoutConfig) Debounce() time.Duration {
	if l.DebounceMs <= 0 {
		return layout.DefaultDebounce
	}
	return time.Duration(l.DebounceMs) * time.Millisecond
}

// ExportConfig tunes rasterization.
type ExportConfig struct {
	Engine  string  `yaml:"engine"`  // "rod" or "chromedp" (default: "rod")
	Overlap int     `yaml:"overlap"` // Extra capture height in px, 10-80 (default: 20)
	Shift   float64 `yaml:"shift"`   // Upward paint offset of later pages in px (default: 4)
	Scale   float64 `yaml:"scale"`   // Capture density, 1-4 (default: 2)
	Timeout string  `yaml:"timeout"` // Go duration (default: "30s")
}

// TimeoutDuration parses Timeout, falling back to the surface default.
func (e ExportConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(e.Timeout)
	if err != nil || d <= 0 {
		return surface.DefaultTimeout
	}
	return d
}

// ServerConfig defines the HTTP API.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`           // Listen address (default: ":8080")
	AllowedOrigins []string `yaml:"allowedOrigins"` // CORS origins (empty = same-origin only)
	MaxBodyBytes   int64    `yaml:"maxBodyBytes"`   // Request size limit (default: 1 MiB)
}

// LogConfig defines structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error (default: "info")
	Format string `yaml:"format"` // "console" or "json" (default: "console")
}

// Validate checks field lengths and ranges. Called automatically by
// LoadConfig, but available for consumers who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("template.name", c.Template.Name, MaxTemplateLength); err != nil {
		return err
	}
	if c.Template.Name != "" {
		if _, ok := model.ParseTemplateID(c.Template.Name); !ok {
			return fmt.Errorf("%w: template.name %q (available: %s)", ErrInvalidValue, c.Template.Name, templateNames())
		}
	}
	if err := validateFieldLength("template.design.fontFamily", c.Template.Design.FontFamily, MaxFontLength); err != nil {
		return err
	}
	if err := validateFieldLength("template.design.primaryColor", c.Template.Design.PrimaryColor, MaxColorLength); err != nil {
		return err
	}
	if err := validateFieldLength("template.design.secondaryColor", c.Template.Design.SecondaryColor, MaxColorLength); err != nil {
		return err
	}

	if len(c.Sections.Order) > MaxSections {
		return fmt.Errorf("%w: sections.order has %d entries (max %d)", ErrInvalidValue, len(c.Sections.Order), MaxSections)
	}
	for i, token := range c.Sections.Order {
		if err := validateFieldLength(fmt.Sprintf("sections.order[%d]", i), token, MaxSectionTokenLength); err != nil {
			return err
		}
	}

	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxURLLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.fileName", c.Output.FileName, MaxFileNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxURLLength); err != nil {
		return err
	}

	if err := validateFieldLength("dates.format", c.Dates.Format, MaxDateFormatLength); err != nil {
		return err
	}
	if c.Dates.Format != "" {
		if _, err := dateutil.ResolveFormat(c.Dates.Format); err != nil {
			return fmt.Errorf("%w: dates.format: %v", ErrInvalidValue, err)
		}
	}
	if err := validateFieldLength("dates.presentLabel", c.Dates.PresentLabel, MaxLabelLength); err != nil {
		return err
	}
	if err := validateFieldLength("dates.lang", c.Dates.Lang, MaxLangLength); err != nil {
		return err
	}

	if err := c.Layout.Heuristics.Validate(); err != nil {
		return fmt.Errorf("layout.heuristics: %w", err)
	}
	if c.Layout.DebounceMs < 0 {
		return fmt.Errorf("%w: layout.debounceMs must be >= 0, got %d", ErrInvalidValue, c.Layout.DebounceMs)
	}

	if err := c.validateExport(); err != nil {
		return err
	}

	if err := validateFieldLength("server.addr", c.Server.Addr, MaxAddrLength); err != nil {
		return err
	}
	if len(c.Server.AllowedOrigins) > MaxOrigins {
		return fmt.Errorf("%w: server.allowedOrigins has %d entries (max %d)", ErrInvalidValue, len(c.Server.AllowedOrigins), MaxOrigins)
	}
	for i, o := range c.Server.AllowedOrigins {
		if err := validateFieldLength(fmt.Sprintf("server.allowedOrigins[%d]", i), o, MaxURLLength); err != nil {
			return err
		}
	}
	if c.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("%w: server.maxBodyBytes must be >= 0", ErrInvalidValue)
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q (must be debug, info, warn, or error)", ErrInvalidValue, c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("%w: log.format %q (must be console or json)", ErrInvalidValue, c.Log.Format)
	}

	return nil
}

func (c *Config) validateExport() error {
	if _, err := surface.ParseEngine(c.Export.Engine); err != nil {
		return fmt.Errorf("export.engine: %w", err)
	}
	if c.Export.Overlap != 0 && (c.Export.Overlap < export.MinOverlap || c.Export.Overlap > export.MaxOverlap) {
		return fmt.Errorf("%w: export.overlap must be between %d and %d, got %d",
			ErrInvalidValue, export.MinOverlap, export.MaxOverlap, c.Export.Overlap)
	}
	if c.Export.Shift < 0 {
		return fmt.Errorf("%w: export.shift must be >= 0, got %v", ErrInvalidValue, c.Export.Shift)
	}
	if c.Export.Scale != 0 && (c.Export.Scale < 1 || c.Export.Scale > 4) {
		return fmt.Errorf("%w: export.scale must be between 1 and 4, got %v", ErrInvalidValue, c.Export.Scale)
	}
	if c.Export.Timeout != "" {
		d, err := time.ParseDuration(c.Export.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: export.timeout %q is not a positive duration", ErrInvalidValue, c.Export.Timeout)
		}
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

func templateNames() string {
	ids := model.Templates()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.String()
	}
	return strings.Join(names, ", ")
}

// DefaultConfig returns the configuration used when no file is given.
// Selection fields are empty so that CV files keep their own choices.
func DefaultConfig() *Config {
	return &Config{
		Dates: DatesConfig{
			Format:       dateutil.DefaultDateFormat,
			PresentLabel: "Present",
			Lang:         "en",
		},
		Layout: LayoutConfig{
			Heuristics: layout.DefaultHeuristics(),
			DebounceMs: int(layout.DefaultDebounce / time.Millisecond),
		},
		Export: ExportConfig{
			Engine:  string(surface.DefaultEngine),
			Overlap: export.DefaultOverlap,
			Shift:   export.DefaultShift,
			Scale:   model.CaptureScale,
			Timeout: surface.DefaultTimeout.String(),
		},
		Server: ServerConfig{
			Addr:         DefaultAddr,
			MaxBodyBytes: DefaultMaxBodyBytes,
		},
		Log: LogConfig{Level: DefaultLogLevel, Format: "console"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields missing from the file keep their defaults.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-cv2pdf/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-cv2pdf", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// Selection applies the template overrides on top of a CV file's selection.
func (c *Config) Selection(base model.TemplateSelection) model.TemplateSelection {
	if id, ok := model.ParseTemplateID(c.Template.Name); ok {
		base.Template = id
	}
	d := c.Template.Design
	if d.FontFamily != "" {
		base.Design.FontFamily = d.FontFamily
	}
	if d.PrimaryColor != "" {
		base.Design.PrimaryColor = d.PrimaryColor
	}
	if d.SecondaryColor != "" {
		base.Design.SecondaryColor = d.SecondaryColor
	}
	return base
}

// Order returns the configured section order, or fallback when unset.
func (c *Config) Order(fallback model.SectionOrder) model.SectionOrder {
	if len(c.Sections.Order) == 0 {
		return fallback
	}
	return model.SectionOrder(c.Sections.Order)
}

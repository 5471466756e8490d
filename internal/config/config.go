// Package config loads service settings from defaults, an optional YAML file
// and NOTES_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "NOTES_"

type Config struct {
	App     AppConfig     `koanf:"app"     validate:"required"`
	HTTP    HTTPConfig    `koanf:"http"    validate:"required"`
	Log     LogConfig     `koanf:"log"     validate:"required"`
	Metrics MetricsConfig `koanf:"metrics"`
}

type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev test prod"`
}

type HTTPConfig struct {
	Addr              string        `koanf:"addr"                validate:"required"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout" validate:"min=1s"`
	ReadTimeout       time.Duration `koanf:"read_timeout"        validate:"min=1s"`
	WriteTimeout      time.Duration `koanf:"write_timeout"       validate:"min=1s"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"    validate:"min=1s"`
	MaxBodyBytes      int64         `koanf:"max_body_bytes"      validate:"min=1"`
	CORSOrigin        string        `koanf:"cors_origin"`
}

type LogConfig struct {
	Level          string `koanf:"level"             validate:"required,oneof=debug info warn error"`
	Format         string `koanf:"format"            validate:"required,oneof=json console"`
	FilePath       string `koanf:"file_path"`
	FileMaxSizeMB  int    `koanf:"file_max_size_mb"  validate:"min=1,max=1024"`
	FileMaxBackups int    `koanf:"file_max_backups"  validate:"min=0,max=100"`
	FileMaxAgeDays int    `koanf:"file_max_age_days" validate:"min=0,max=365"`
	FileCompress   bool   `koanf:"file_compress"`
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path" validate:"required_if=Enabled true,omitempty,startswith=/"`
}

func defaults() map[string]any {
	return map[string]any{
		"app.name":        "markdown-notes",
		"app.environment": "local",

		"http.addr":                ":8080",
		"http.read_header_timeout": "5s",
		"http.read_timeout":        "15s",
		"http.write_timeout":       "15s",
		"http.shutdown_timeout":    "10s",
		"http.max_body_bytes":      1 << 20,
		"http.cors_origin":         "*",

		"log.level":             "info",
		"log.format":            "json",
		"log.file_path":         "",
		"log.file_max_size_mb":  100,
		"log.file_max_backups":  3,
		"log.file_max_age_days": 28,
		"log.file_compress":     true,

		"metrics.enabled": true,
		"metrics.path":    "/metrics",
	}
}

// Load builds a Config. Later sources win:
//  1. defaults
//  2. the YAML file at path, when path is not empty
//  3. NOTES_<SECTION>_<KEY> environment variables
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %q: %w", path, err)
		}
	}

	// NOTES_HTTP_READ_HEADER_TIMEOUT -> http.read_header_timeout
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.Replace(key, "_", ".", 1)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return &cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment. Variables already set are kept. Missing files are skipped.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("koanf")
	})
	return v
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fieldMessage(e))
	}
	return fmt.Errorf("config validation failed:\n  %s", strings.Join(msgs, "\n  "))
}

func fieldMessage(e validator.FieldError) string {
	// Config.http.read_header_timeout -> http.read_header_timeout
	field := e.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}

	switch e.Tag() {
	case "required":
		return field + " is required"
	case "required_if":
		return fmt.Sprintf("%s is required when %s", field, e.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "startswith":
		return fmt.Sprintf("%s must start with %q", field, e.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, e.Tag())
	}
}

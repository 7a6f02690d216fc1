package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/spigot/internal/ctxlog"
	"github.com/specialistvlad/spigot/internal/replay"
)

// DefaultConfigFile is read when present in the working directory.
const DefaultConfigFile = "spigot.hcl"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	LogFormat string `validate:"oneof=text json"`
	LogLevel  string `validate:"oneof=debug info warn error"`

	// StateFile holds the network's replay log; the extension picks the format.
	StateFile string `validate:"required,statefile"`
	// MetricsFile, when set, receives the Prometheus text exposition of the
	// network metrics after each operation.
	MetricsFile string

	Seed uint64
}

// DefaultConfig returns the configuration used when neither a config file nor
// flags say otherwise.
func DefaultConfig() Config {
	return Config{
		LogFormat: "text",
		LogLevel:  "info",
		StateFile: "spigot-state.hcl",
	}
}

// configValidate is the validator instance for Config.
var configValidate = newConfigValidator()

// newConfigValidator panics when a custom validation cannot be registered,
// which only happens for a malformed tag name.
func newConfigValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("statefile", validateStateFile); err != nil {
		panic(fmt.Sprintf("app: failed to register statefile validation: %v", err))
	}
	return v
}

// validateStateFile accepts file names whose extension names a replay format.
func validateStateFile(fl validator.FieldLevel) bool {
	_, err := replay.FormatFromPath(fl.Field().String())
	return err == nil
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if err := configValidate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, fmt.Errorf("invalid configuration: %s", describe(verrs[0]))
		}
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	case "statefile":
		return fmt.Sprintf("%s must end in .hcl, .yaml or .yml, got %q", fe.Field(), fe.Value())
	}
	return fmt.Sprintf("%s failed %q validation", fe.Field(), fe.Tag())
}

// fileConfig is the layout of the HCL config file. Every attribute is
// optional; absent ones leave the current value alone.
type fileConfig struct {
	LogFormat   *string `hcl:"log_format,optional"`
	LogLevel    *string `hcl:"log_level,optional"`
	StateFile   *string `hcl:"state_file,optional"`
	MetricsFile *string `hcl:"metrics_file,optional"`
	Seed        *uint64 `hcl:"seed,optional"`
}

// LoadConfigFile applies the attributes of an HCL config file on top of base.
// If the file does not exist and missingOK is set, base is returned unchanged.
func LoadConfigFile(ctx context.Context, filename string, base Config, missingOK bool) (Config, error) {
	logger := ctxlog.FromContext(ctx)

	src, err := os.ReadFile(filename)
	if err != nil {
		if missingOK && errors.Is(err, fs.ErrNotExist) {
			logger.Debug("No config file found.", "file", filename)
			return base, nil
		}
		return base, fmt.Errorf("error accessing config file %s: %w", filename, err)
	}

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return base, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var fc fileConfig
	diags = gohcl.DecodeBody(hclFile.Body, nil, &fc)
	if diags.HasErrors() {
		return base, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	cfg := base
	setIf(&cfg.LogFormat, fc.LogFormat)
	setIf(&cfg.LogLevel, fc.LogLevel)
	setIf(&cfg.StateFile, fc.StateFile)
	setIf(&cfg.MetricsFile, fc.MetricsFile)
	setIf(&cfg.Seed, fc.Seed)

	logger.Debug("Config file applied.", "file", filename)
	return cfg, nil
}

func setIf[V any](dst *V, src *V) {
	if src != nil {
		*dst = *src
	}
}

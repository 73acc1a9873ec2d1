package config

import (
	_ "embed"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/quartz-framework/start/internal/catalog"
	oerrors "github.com/quartz-framework/start/internal/errors"
)

//go:embed schema.cue
var schemaCUE []byte

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}

// Unwrap classifies config problems as validation errors.
func (e ValidationErrors) Unwrap() error {
	return oerrors.ErrValidation
}

// Validator validates configuration against the embedded CUE schema and
// the option catalog.
type Validator struct {
	ctx     *cue.Context
	schema  cue.Value
	catalog *catalog.Catalog
}

// NewValidator creates a new configuration validator.
func NewValidator(cat *catalog.Catalog) (*Validator, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaCUE).LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}

	return &Validator{ctx: ctx, schema: schema, catalog: cat}, nil
}

// Validate checks values the schema cannot: listen address syntax, URL
// shape and catalog membership.
func (v *Validator) Validate(cfg *Config) error {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if _, _, err := net.SplitHostPort(cfg.Server.Addr); err != nil {
		add(KeyServerAddr, "invalid listen address %q", cfg.Server.Addr)
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		add(KeyServerShutdownTimeout, "must be positive")
	}
	if cfg.Server.PublicURL != "" {
		u, err := url.Parse(cfg.Server.PublicURL)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			add(KeyServerPublicURL, "must be an absolute http(s) URL")
		}
	}

	if p := cfg.Defaults.Platform; p != "" {
		if _, err := v.catalog.Platform(catalog.Platform(strings.ToUpper(p))); err != nil {
			add(KeyDefaultsPlatform, "unknown platform %q", p)
		}
	}
	if jv := cfg.Defaults.JavaVersion; jv != 0 && !v.catalog.SupportsJava(catalog.JavaVersion(jv)) {
		add(KeyDefaultsJavaVersion, "Java %d is not supported", jv)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateFile validates a configuration file against the schema, then
// validates the merged configuration.
func (v *Validator) ValidateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return oerrors.NewNotFoundError("config file not readable", path, "Run 'qstart config init' to create one")
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return ValidationErrors{{Field: path, Message: fmt.Sprintf("invalid YAML: %v", err)}}
	}

	if err := v.validateSchema(doc); err != nil {
		return err
	}

	loader := NewLoader(v.catalog)
	cfg, err := loader.Load(path)
	if err != nil {
		return fmt.Errorf("loading config file: %w", err)
	}
	return v.Validate(cfg)
}

func (v *Validator) validateSchema(doc map[string]any) error {
	if doc == nil {
		return nil
	}

	value := v.ctx.Encode(doc)
	if err := value.Err(); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	unified := v.schema.Unify(value)
	err := unified.Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}

	var errs ValidationErrors
	for _, e := range cueerrors.Errors(err) {
		field := strings.Join(e.Path(), ".")
		if field == "" {
			field = "config"
		}
		format, args := e.Msg()
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}
	return errs
}

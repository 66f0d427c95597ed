package testsupport

import (
	"path/filepath"
	"testing"

	"subfix/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a validated default config whose log directory lives in
// a per-test temp dir, then applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Logging.Level = "debug"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return builder.cfg
}

// WithLogDir enables JSON log output under the test temp dir.
func WithLogDir() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Logging.Dir = filepath.Join(b.baseDir, "logs")
	}
}

// WithFormat overrides the subtitle output format.
func WithFormat(format string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Output.Format = format
	}
}

// WithSequential disables concurrent analysis.
func WithSequential() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Correction.Parallel = false
	}
}

// WithHallucinationFilter enables the transcript filter.
func WithHallucinationFilter() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Normalize.FilterHallucinations = true
	}
}

package testsupport

import (
	"path/filepath"
	"testing"

	"glassinv/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose default paths live under a per-test temp
// directory. Options are applied in order.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.HTMLSource = filepath.Join(base, "your_file_table.html")
	cfgVal.Paths.JSONTarget = filepath.Join(base, "backend", "data", "glasses.json")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithLogDir enables file logging under the test's temp directory.
func WithLogDir() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.LogDir = filepath.Join(b.baseDir, "logs")
	}
}

// WithColorColumn reads glass color from the named incoming column.
func WithColorColumn(column string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Reconcile.ColorColumn = column
	}
}

// WithLogging overrides the log format and level.
func WithLogging(format, level string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Logging.Format = format
		b.cfg.Logging.Level = level
	}
}

package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeExport()
	c.normalizeReconcile()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.HTMLSource) == "" {
		c.Paths.HTMLSource = defaultHTMLSource
	}
	if c.Paths.HTMLSource, err = expandPath(strings.TrimSpace(c.Paths.HTMLSource)); err != nil {
		return fmt.Errorf("paths.html_source: %w", err)
	}
	if strings.TrimSpace(c.Paths.JSONTarget) == "" {
		c.Paths.JSONTarget = defaultJSONTarget
	}
	if c.Paths.JSONTarget, err = expandPath(strings.TrimSpace(c.Paths.JSONTarget)); err != nil {
		return fmt.Errorf("paths.json_target: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeExport() {
	c.Export.Title = strings.TrimSpace(c.Export.Title)
	if c.Export.Title == "" {
		c.Export.Title = defaultExportTitle
	}
	c.Export.Sheet = strings.TrimSpace(c.Export.Sheet)
	c.Export.Columns = dedupeTrimmed(c.Export.Columns, strings.TrimSpace)
	c.Export.ReservedKeywords = dedupeTrimmed(c.Export.ReservedKeywords, strings.ToUpper)
	if len(c.Export.ReservedKeywords) == 0 {
		c.Export.ReservedKeywords = append([]string(nil), DefaultKnownProjects...)
	}
	c.Export.StockColumns = dedupeTrimmed(c.Export.StockColumns, strings.ToUpper)
	if len(c.Export.StockColumns) == 0 {
		c.Export.StockColumns = append([]string(nil), DefaultStockColumns...)
	}
}

func (c *Config) normalizeReconcile() {
	r := &c.Reconcile
	r.WidthColumn = defaultIfBlank(r.WidthColumn, defaultWidthColumn)
	r.HeightColumn = defaultIfBlank(r.HeightColumn, defaultHeightColumn)
	r.ReservationColumn = defaultIfBlank(r.ReservationColumn, defaultReservationColumn)
	r.StockColumn = defaultIfBlank(r.StockColumn, defaultStockColumn)
	r.RackColumn = defaultIfBlank(r.RackColumn, defaultRackColumn)
	r.ColorColumn = strings.TrimSpace(r.ColorColumn)
	r.BackupSuffix = defaultIfBlank(r.BackupSuffix, defaultBackupSuffix)
	r.KnownProjects = dedupeTrimmed(r.KnownProjects, strings.ToUpper)
	if len(r.KnownProjects) == 0 {
		r.KnownProjects = append([]string(nil), DefaultKnownProjects...)
	}
}

func (c *Config) normalizeLogging() {
	if value, ok := os.LookupEnv("GLASSINV_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func defaultIfBlank(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}

func dedupeTrimmed(values []string, transform func(string) string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		normalized := transform(strings.TrimSpace(value))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}

package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateReconcile(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateReconcile() error {
	r := c.Reconcile
	if strings.ContainsAny(r.BackupSuffix, `/\`) {
		return fmt.Errorf("reconcile.backup_suffix must not contain path separators, got %q", r.BackupSuffix)
	}
	columns := map[string]string{
		"reconcile.width_column":       r.WidthColumn,
		"reconcile.height_column":      r.HeightColumn,
		"reconcile.reservation_column": r.ReservationColumn,
		"reconcile.stock_column":       r.StockColumn,
		"reconcile.rack_column":        r.RackColumn,
	}
	for key, value := range columns {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s must be set", key)
		}
	}
	if r.WidthColumn == r.HeightColumn {
		return errors.New("reconcile.width_column and reconcile.height_column must differ")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (use console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

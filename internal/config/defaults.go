package config

const (
	defaultConfigPath        = "~/.config/glassinv/config.toml"
	defaultHTMLSource        = "your_file_table.html"
	defaultJSONTarget        = "backend/data/glasses.json"
	defaultExportTitle       = "Data Table"
	defaultWidthColumn       = "wide"
	defaultHeightColumn      = "height"
	defaultReservationColumn = "RESERV PROJET"
	defaultStockColumn       = "STOCKS38"
	defaultRackColumn        = "Rack"
	defaultBackupSuffix      = "_backup"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// DefaultKnownProjects lists the project names recognised inside free-text
// reservation notes, in match priority order.
var DefaultKnownProjects = []string{
	"QUEEN",
	"ROCKWELL",
	"STOCK",
	"WESTMOUNT",
	"MARLSTONE",
	"SOUTHTOWER",
	"PARKLAND",
	"FINCH",
	"BESLING",
	"HOWTHORNE",
}

// DefaultStockColumns lists the column names (case-insensitive) whose literal
// "0" marks a row as out of stock.
var DefaultStockColumns = []string{"STOCK", "STOCKS38", "INVENTORY"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			HTMLSource: defaultHTMLSource,
			JSONTarget: defaultJSONTarget,
		},
		Export: Export{
			Title:            defaultExportTitle,
			ReservedKeywords: append([]string(nil), DefaultKnownProjects...),
			StockColumns:     append([]string(nil), DefaultStockColumns...),
		},
		Reconcile: Reconcile{
			WidthColumn:       defaultWidthColumn,
			HeightColumn:      defaultHeightColumn,
			ReservationColumn: defaultReservationColumn,
			StockColumn:       defaultStockColumn,
			RackColumn:        defaultRackColumn,
			BackupSuffix:      defaultBackupSuffix,
			KnownProjects:     append([]string(nil), DefaultKnownProjects...),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

package reconcile

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"glassinv/internal/inventory"
	"glassinv/internal/logging"
	"glassinv/internal/services"
	"glassinv/internal/tabular"
)

// Columns names the incoming table columns the merge reads. ColorColumn may
// be empty, in which case every row is Clear glass.
type Columns struct {
	Width       string
	Height      string
	Reservation string
	Stock       string
	Rack        string
	Color       string
}

// MergeOptions configures Merge.
type MergeOptions struct {
	Columns       Columns
	KnownProjects []string
}

// Action describes what happened to a record during a merge.
type Action string

const (
	ActionCreated   Action = "created"
	ActionUpdated   Action = "updated"
	ActionAnnotated Action = "annotated"
)

// Change is one record the merge created or modified.
type Change struct {
	Key      string
	ID       string
	Action   Action
	OldCount float64
	NewCount float64
}

// Result is the outcome of a merge.
type Result struct {
	// Records is the full merged collection, sorted by width, height, color.
	Records []*inventory.Record
	// Created counts new records.
	Created int
	// Updated counts existing records whose stock changed.
	Updated int
	// Annotated counts existing records that only gained racks or projects.
	Annotated int
	// Unchanged counts existing records matched by a row but left as they were.
	Unchanged int
	// Skipped counts incoming rows without usable dimensions.
	Skipped int
	// CarriedForward counts existing records no row matched.
	CarriedForward int
	// Duplicates lists keys shared by more than one stored record.
	Duplicates []string
	Changes    []Change
}

type entry struct {
	key          string
	record       *inventory.Record
	created      bool
	matched      bool
	countChanged bool
	oldCount     float64
}

type incomingRow struct {
	width   int64
	height  int64
	color   string
	stock   int64
	rack    string
	project string
}

// Merge applies the incoming rows to the existing records. Existing records
// are mutated in place; records that are never matched are returned as they
// were loaded.
func Merge(existing []*inventory.Record, incoming *tabular.Table, opts MergeOptions, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := requireColumns(incoming, opts.Columns); err != nil {
		return nil, err
	}

	result := &Result{}

	// Phase 1: index stored records by key.
	index := make(map[string]*entry, len(existing))
	entries := make([]*entry, 0, len(existing))
	output := make([]*inventory.Record, 0, len(existing)+incoming.Len())
	for i, record := range existing {
		output = append(output, record)
		key, ok := record.Key()
		if !ok {
			result.CarriedForward++
			logger.Debug("stored record has no usable dimensions; carried forward",
				logging.Int("position", i), logging.String("id", record.ID()))
			continue
		}
		if _, dup := index[key]; dup {
			result.CarriedForward++
			result.Duplicates = append(result.Duplicates, key)
			logging.WarnWithContext(logger, "duplicate inventory key; later record left untouched", "inventory_duplicate_key",
				logging.String("key", key),
				logging.String("id", record.ID()),
				logging.Int("position", i),
				logging.String(logging.FieldImpact, "incoming rows only update the first record with this key"),
				logging.String(logging.FieldErrorHint, "merge or remove the duplicate entry in the JSON store"),
			)
			continue
		}
		e := &entry{key: key, record: record}
		index[key] = e
		entries = append(entries, e)
	}

	// Phase 2: apply incoming rows.
	var touched []*entry
	for i, row := range incoming.Rows {
		in, ok, reason := readRow(row, opts)
		if !ok {
			result.Skipped++
			logger.Debug("incoming row skipped",
				logging.Int("row", i+1),
				logging.String("reason", reason),
				logging.String("error_kind", services.Kind(services.ErrValidation)),
			)
			continue
		}
		key := inventory.LookupKey(in.width, in.height, in.color)
		e, found := index[key]
		if !found {
			record := inventory.NewRecord(in.width, in.height, in.color, in.stock, in.rack, in.project)
			e = &entry{key: key, record: record, created: true, matched: true}
			index[key] = e
			entries = append(entries, e)
			touched = append(touched, e)
			output = append(output, record)
			continue
		}
		if !e.matched {
			e.matched = true
			touched = append(touched, e)
		}
		if err := applyRow(e, in); err != nil {
			return nil, services.Wrap(services.ErrWrite, stage, "merge", fmt.Sprintf("row %d (%s)", i+1, key), err)
		}
	}

	// Phase 3: sweep.
	for _, e := range entries {
		switch {
		case e.created:
			result.Created++
		case !e.matched:
			result.CarriedForward++
		case e.countChanged:
			result.Updated++
		case e.record.Modified():
			result.Annotated++
		default:
			result.Unchanged++
		}
	}
	for _, e := range touched {
		if change, ok := describe(e); ok {
			result.Changes = append(result.Changes, change)
		}
	}

	inventory.Sort(output)
	result.Records = output
	return result, nil
}

func applyRow(e *entry, in incomingRow) error {
	before, _ := e.record.Count()
	changed, err := e.record.SetCount(in.stock)
	if err != nil {
		return err
	}
	if changed && !e.countChanged && !e.created {
		e.countChanged = true
		e.oldCount = before
	}
	if err := e.record.AddReservedProject(in.project); err != nil {
		return err
	}
	if _, err := e.record.AddRack(in.rack); err != nil {
		return err
	}
	return nil
}

func describe(e *entry) (Change, bool) {
	current, _ := e.record.Count()
	change := Change{Key: e.key, ID: e.record.ID(), NewCount: current}
	switch {
	case e.created:
		change.Action = ActionCreated
	case e.countChanged:
		change.Action = ActionUpdated
		change.OldCount = e.oldCount
	case e.record.Modified():
		change.Action = ActionAnnotated
		change.OldCount = current
	default:
		return Change{}, false
	}
	return change, true
}

func readRow(row tabular.Row, opts MergeOptions) (incomingRow, bool, string) {
	cols := opts.Columns
	width, ok := dimension(row, cols.Width)
	if !ok {
		return incomingRow{}, false, "missing or out-of-range " + cols.Width
	}
	height, ok := dimension(row, cols.Height)
	if !ok {
		return incomingRow{}, false, "missing or out-of-range " + cols.Height
	}

	in := incomingRow{width: width, height: height, color: inventory.DefaultColor}
	if cols.Color != "" {
		if v, found := row.Get(cols.Color); found && !v.IsNull() {
			in.color = v.String()
		}
	}
	if v, found := row.Get(cols.Stock); found {
		in.stock, _ = v.Int()
	}
	if v, found := row.Get(cols.Rack); found && !v.IsNull() {
		in.rack = strings.TrimSpace(v.String())
	}
	if v, found := row.Get(cols.Reservation); found && !v.IsNull() {
		in.project, _ = inventory.ExtractProject(v.String(), opts.KnownProjects)
	}
	return in, true, ""
}

// dimension reads a positive whole dimension no larger than
// inventory.MaxDimension; fractional values truncate.
func dimension(row tabular.Row, column string) (int64, bool) {
	v, found := row.Get(column)
	if !found {
		return 0, false
	}
	f, ok := v.Float()
	if !ok || f <= 0 || f > inventory.MaxDimension {
		return 0, false
	}
	n, _ := v.Int()
	if n <= 0 {
		return 0, false
	}
	return n, true
}

func requireColumns(table *tabular.Table, cols Columns) error {
	var missing []string
	for _, name := range []string{cols.Width, cols.Height} {
		if !slices.Contains(table.Columns, name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return services.Wrap(services.ErrParse, stage, "merge",
			fmt.Sprintf("table is missing required column(s) %s (found: %s)",
				strings.Join(missing, ", "), strings.Join(table.Columns, ", ")), nil)
	}
	return nil
}

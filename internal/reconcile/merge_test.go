package reconcile_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"glassinv/internal/config"
	"glassinv/internal/inventory"
	"glassinv/internal/reconcile"
	"glassinv/internal/services"
	"glassinv/internal/tabular"
)

var incomingColumns = []string{"wide", "height", "RESERV PROJET", "STOCKS38", "Rack"}

func mergeOptions() reconcile.MergeOptions {
	cfg := config.Default()
	return reconcile.OptionsFromConfig(&cfg).Merge
}

func decode(t *testing.T, data string) []*inventory.Record {
	t.Helper()
	records, err := inventory.Decode([]byte(data))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return records
}

func row(values ...tabular.Value) []tabular.Value { return values }

func findByID(t *testing.T, records []*inventory.Record, id string) *inventory.Record {
	t.Helper()
	for _, r := range records {
		if r.ID() == id {
			return r
		}
	}
	t.Fatalf("record %q not found", id)
	return nil
}

func TestMergeUpdatesMatchingRecord(t *testing.T) {
	existing := decode(t, `[{"id":"36x48_clear_group","width":36,"height":48,"color":"Clear","count":5,"reservedCount":1,"availableCount":4,"racks":[],"reservedProjects":[]}]`)
	incoming := tabular.NewTable(incomingColumns, [][]tabular.Value{
		row(tabular.IntValue(36), tabular.IntValue(48), tabular.TextValue("Queen Tower"), tabular.IntValue(8), tabular.TextValue("A3")),
	})

	result, err := reconcile.Merge(existing, incoming, mergeOptions(), nil)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if result.Updated != 1 || result.Created != 0 {
		t.Fatalf("updated=%d created=%d", result.Updated, result.Created)
	}
	r := findByID(t, result.Records, "36x48_clear_group")
	if c, _ := r.Count(); c != 8 {
		t.Fatalf("count = %v", c)
	}
	if a, _ := r.AvailableCount(); a != 7 {
		t.Fatalf("availableCount = %v", a)
	}
	if !reflect.DeepEqual(r.Racks(), []string{"A3"}) {
		t.Fatalf("racks = %v", r.Racks())
	}
	if !reflect.DeepEqual(r.ReservedProjects(), []string{"QUEEN"}) {
		t.Fatalf("reservedProjects = %v", r.ReservedProjects())
	}
	if p, _ := r.ReservedProject(); p != "QUEEN" {
		t.Fatalf("reservedProject = %q", p)
	}
	if len(result.Changes) != 1 || result.Changes[0].Action != reconcile.ActionUpdated ||
		result.Changes[0].OldCount != 5 || result.Changes[0].NewCount != 8 {
		t.Fatalf("unexpected changes %+v", result.Changes)
	}
}

func TestMergeCreatesRecordWhenNoMatch(t *testing.T) {
	incoming := tabular.NewTable(incomingColumns, [][]tabular.Value{
		row(tabular.IntValue(24), tabular.IntValue(30), tabular.NullValue(), tabular.IntValue(0), tabular.NullValue()),
	})

	result, err := reconcile.Merge(nil, incoming, mergeOptions(), nil)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if result.Created != 1 || len(result.Records) != 1 {
		t.Fatalf("created=%d records=%d", result.Created, len(result.Records))
	}
	r := result.Records[0]
	if r.ID() != "24x30_clear_group" {
		t.Fatalf("id = %q", r.ID())
	}
	if c, _ := r.Count(); c != 0 {
		t.Fatalf("count = %v", c)
	}
	if a, _ := r.AvailableCount(); a != 0 {
		t.Fatalf("availableCount = %v", a)
	}
	if r.ReservedCount() != 0 {
		t.Fatalf("reservedCount = %v", r.ReservedCount())
	}
	if raw, _ := r.Raw(inventory.KeyThickness); string(raw) != `"6mm"` {
		t.Fatalf("thickness = %s", raw)
	}
	if raw, _ := r.Raw(inventory.KeyReservedProject); string(raw) != "null" {
		t.Fatalf("reservedProject = %s", raw)
	}
}

func TestMergeUnchangedStockDoesNotCountAsUpdate(t *testing.T) {
	existing := decode(t, `[{"width":36,"height":48,"color":"Clear","count":5,"reservedCount":1,"availableCount":3}]`)
	incoming := tabular.NewTable(incomingColumns, [][]tabular.Value{
		row(tabular.IntValue(36), tabular.IntValue(48), tabular.NullValue(), tabular.FloatValue(5.0), tabular.NullValue()),
	})

	result, err := reconcile.Merge(existing, incoming, mergeOptions(), nil)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if result.Updated != 0 || result.Unchanged != 1 {
		t.Fatalf("updated=%d unchanged=%d", result.Updated, result.Unchanged)
	}
	if a, _ := result.Records[0].AvailableCount(); a != 3 {
		t.Fatalf("availableCount should stay 3, got %v", a)
	}
	if result.Records[0].Modified() {
		t.Fatal("record should be untouched")
	}
	if len(result.Changes) != 0 {
		t.Fatalf("unexpected changes %+v", result.Changes)
	}
}

func TestMergeCarriesForwardUntouchedRecordsVerbatim(t *testing.T) {
	data := `[
  {
    "id": "99x99_gray_group",
    "width": 99,
    "height": 99,
    "color": "Gray",
    "custom": {"a": [1, 2]},
    "count": 2.0
  },
  {
    "id": "broken",
    "height": 10
  }
]
`
	existing := decode(t, data)
	incoming := tabular.NewTable(incomingColumns, [][]tabular.Value{
		row(tabular.IntValue(10), tabular.IntValue(12), tabular.NullValue(), tabular.IntValue(1), tabular.NullValue()),
	})

	result, err := reconcile.Merge(existing, incoming, mergeOptions(), nil)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if result.CarriedForward != 2 || result.Created != 1 {
		t.Fatalf("carried=%d created=%d", result.CarriedForward, result.Created)
	}

	out, err := inventory.Encode(result.Records)
	if err != nil {
		t.Fatal(err)
	}
	want := "  {\n    \"id\": \"99x99_gray_group\",\n    \"width\": 99,\n    \"height\": 99,\n    \"color\": \"Gray\",\n    \"custom\": {\n      \"a\": [\n        1,\n        2\n      ]\n    },\n    \"count\": 2.0\n  }"
	if !strings.Contains(string(out), want) {
		t.Fatalf("carried record changed:\n%s", out)
	}
	if !strings.Contains(string(out), "\"id\": \"broken\"") {
		t.Fatalf("record without dimensions must be kept:\n%s", out)
	}
}

func TestMergeSkipsRowsWithoutDimensions(t *testing.T) {
	incoming := tabular.NewTable(incomingColumns, [][]tabular.Value{
		row(tabular.NullValue(), tabular.IntValue(48)),
		row(tabular.TextValue("wide"), tabular.IntValue(48)),
		row(tabular.IntValue(0), tabular.IntValue(48)),
		row(tabular.IntValue(-4), tabular.IntValue(48)),
		row(tabular.FloatValue(0.5), tabular.IntValue(48)),
		row(tabular.IntValue(12), tabular.NullValue()),
		row(tabular.FloatValue(12.9), tabular.IntValue(48), tabular.NullValue(), tabular.FloatValue(3.7)),
	})
	result, err := reconcile.Merge(nil, incoming, mergeOptions(), nil)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if result.Skipped != 6 || result.Created != 1 {
		t.Fatalf("skipped=%d created=%d", result.Skipped, result.Created)
	}
	r := result.Records[0]
	if r.ID() != "12x48_clear_group" {
		t.Fatalf("fractional width should truncate, got %q", r.ID())
	}
	if c, _ := r.Count(); c != 3 {
		t.Fatalf("fractional stock should truncate, got %v", c)
	}
}

func TestMergeRepeatedRowsShareOneRecord(t *testing.T) {
	existing := decode(t, `[{"id":"36x48_clear_group","width":36,"height":48,"color":"Clear","count":5,"racks":["A1"],"reservedProjects":[]}]`)
	incoming := tabular.NewTable(incomingColumns, [][]tabular.Value{
		row(tabular.IntValue(24), tabular.IntValue(30), tabular.TextValue("finch"), tabular.IntValue(2), tabular.TextValue("C1")),
		row(tabular.IntValue(36), tabular.IntValue(48), tabular.NullValue(), tabular.IntValue(6), tabular.TextValue("A2")),
		row(tabular.IntValue(24), tabular.IntValue(30), tabular.TextValue("Rockwell"), tabular.IntValue(4), tabular.TextValue("C2")),
		row(tabular.IntValue(36), tabular.IntValue(48), tabular.TextValue("queen"), tabular.IntValue(7), tabular.TextValue("A1")),
	})
	result, err := reconcile.Merge(existing, incoming, mergeOptions(), nil)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(result.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(result.Records))
	}
	if result.Created != 1 || result.Updated != 1 {
		t.Fatalf("created=%d updated=%d", result.Created, result.Updated)
	}

	created := findByID(t, result.Records, "24x30_clear_group")
	if c, _ := created.Count(); c != 4 {
		t.Fatalf("created count = %v", c)
	}
	if !reflect.DeepEqual(created.Racks(), []string{"C1", "C2"}) {
		t.Fatalf("created racks = %v", created.Racks())
	}
	if !reflect.DeepEqual(created.ReservedProjects(), []string{"FINCH", "ROCKWELL"}) {
		t.Fatalf("created projects = %v", created.ReservedProjects())
	}
	if p, _ := created.ReservedProject(); p != "ROCKWELL" {
		t.Fatalf("created reservedProject = %q", p)
	}

	updated := findByID(t, result.Records, "36x48_clear_group")
	if !reflect.DeepEqual(updated.Racks(), []string{"A1", "A2"}) {
		t.Fatalf("updated racks = %v", updated.Racks())
	}
	if len(result.Changes) != 2 || result.Changes[1].OldCount != 5 || result.Changes[1].NewCount != 7 {
		t.Fatalf("unexpected changes %+v", result.Changes)
	}

	// Sorted by width then height.
	if result.Records[0].ID() != "24x30_clear_group" {
		t.Fatalf("unexpected order: %q first", result.Records[0].ID())
	}
}

func TestMergeDuplicateStoredKeys(t *testing.T) {
	existing := decode(t, `[
		{"id":"first","width":36,"height":48,"color":"Clear","count":1},
		{"id":"second","width":36,"height":48,"color":"clear","count":9}
	]`)
	incoming := tabular.NewTable(incomingColumns, [][]tabular.Value{
		row(tabular.IntValue(36), tabular.IntValue(48), tabular.NullValue(), tabular.IntValue(3)),
	})
	result, err := reconcile.Merge(existing, incoming, mergeOptions(), nil)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(result.Records) != 2 {
		t.Fatalf("duplicate must not be dropped, got %d records", len(result.Records))
	}
	if !reflect.DeepEqual(result.Duplicates, []string{"36x48_clear"}) {
		t.Fatalf("duplicates = %v", result.Duplicates)
	}
	if c, _ := findByID(t, result.Records, "first").Count(); c != 3 {
		t.Fatalf("first record should be updated, count = %v", c)
	}
	second := findByID(t, result.Records, "second")
	if second.Modified() {
		t.Fatal("second record should be untouched")
	}
}

func TestMergeColorColumn(t *testing.T) {
	existing := decode(t, `[{"id":"36x48_gray_group","width":36,"height":48,"color":"Gray","count":1}]`)
	opts := mergeOptions()
	opts.Columns.Color = "Color"
	incoming := tabular.NewTable(append(append([]string(nil), incomingColumns...), "Color"), [][]tabular.Value{
		row(tabular.IntValue(36), tabular.IntValue(48), tabular.NullValue(), tabular.IntValue(2), tabular.NullValue(), tabular.TextValue("grey")),
		row(tabular.IntValue(36), tabular.IntValue(48), tabular.NullValue(), tabular.IntValue(4), tabular.NullValue(), tabular.TextValue("acid_div")),
		row(tabular.IntValue(36), tabular.IntValue(48), tabular.NullValue(), tabular.IntValue(6), tabular.NullValue(), tabular.NullValue()),
	})
	result, err := reconcile.Merge(existing, incoming, opts, nil)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if result.Updated != 1 || result.Created != 2 {
		t.Fatalf("updated=%d created=%d", result.Updated, result.Created)
	}
	etched := findByID(t, result.Records, "36x48_acid_etched_group")
	if etched.Color() != "Acid Etched" {
		t.Fatalf("color = %q", etched.Color())
	}
	findByID(t, result.Records, "36x48_clear_group")
}

func TestMergeRequiresDimensionColumns(t *testing.T) {
	incoming := tabular.NewTable([]string{"Width", "height"}, nil)
	_, err := reconcile.Merge(nil, incoming, mergeOptions(), nil)
	if !errors.Is(err, services.ErrParse) {
		t.Fatalf("expected parse failure, got %v", err)
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	incoming := tabular.NewTable(incomingColumns, [][]tabular.Value{
		row(tabular.IntValue(36), tabular.IntValue(48), tabular.TextValue("Queen Tower"), tabular.IntValue(8), tabular.TextValue("A3")),
		row(tabular.IntValue(24), tabular.IntValue(30), tabular.NullValue(), tabular.IntValue(0), tabular.NullValue()),
	})
	first, err := reconcile.Merge(nil, incoming, mergeOptions(), nil)
	if err != nil {
		t.Fatal(err)
	}
	encoded, err := inventory.Encode(first.Records)
	if err != nil {
		t.Fatal(err)
	}

	second, err := reconcile.Merge(decode(t, string(encoded)), incoming, mergeOptions(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if second.Created != 0 || second.Updated != 0 || second.Annotated != 0 || second.Unchanged != 2 {
		t.Fatalf("second run should be a no-op: %+v", second)
	}
	again, err := inventory.Encode(second.Records)
	if err != nil {
		t.Fatal(err)
	}
	if string(again) != string(encoded) {
		t.Fatalf("second run changed output:\n%s\nvs\n%s", again, encoded)
	}
}

func TestMergeSkipsDimensionsBeyondStoredRange(t *testing.T) {
	incoming := tabular.NewTable(incomingColumns, [][]tabular.Value{
		row(tabular.IntValue(3000000000), tabular.IntValue(48), tabular.NullValue(), tabular.IntValue(2), tabular.NullValue()),
		row(tabular.IntValue(inventory.MaxDimension), tabular.IntValue(48), tabular.NullValue(), tabular.IntValue(2), tabular.NullValue()),
	})
	first, err := reconcile.Merge(nil, incoming, mergeOptions(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if first.Created != 1 || first.Skipped != 1 {
		t.Fatalf("oversized row should be skipped: %+v", first)
	}

	encoded, err := inventory.Encode(first.Records)
	if err != nil {
		t.Fatal(err)
	}
	second, err := reconcile.Merge(decode(t, string(encoded)), incoming, mergeOptions(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(second.Records) != 1 || second.Created != 0 || second.Unchanged != 1 {
		t.Fatalf("records created at the bound must match on the next run: records=%d %+v", len(second.Records), second)
	}
}

func TestMergeMissingStoredCountReadsAsZero(t *testing.T) {
	const stored = `[{"width":36,"height":48,"color":"Clear"}]`
	incoming := tabular.NewTable(incomingColumns, [][]tabular.Value{
		row(tabular.IntValue(36), tabular.IntValue(48), tabular.NullValue(), tabular.IntValue(0), tabular.NullValue()),
	})
	result, err := reconcile.Merge(decode(t, stored), incoming, mergeOptions(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Updated != 0 || result.Unchanged != 1 || len(result.Changes) != 0 {
		t.Fatalf("zero stock against a record without count should be unchanged: %+v", result)
	}
	out, err := inventory.Encode(result.Records)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(out), "count") {
		t.Fatalf("no count fields should be added:\n%s", out)
	}
}

package inventory

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// JSON keys of an inventory record, in the order new records are written.
const (
	KeyID               = "id"
	KeyWidth            = "width"
	KeyHeight           = "height"
	KeyColor            = "color"
	KeyHeatSoaked       = "heatSoaked"
	KeyRacks            = "racks"
	KeyCount            = "count"
	KeyAvailableCount   = "availableCount"
	KeyReservedCount    = "reservedCount"
	KeyReservedProjects = "reservedProjects"
	KeyReservedProject  = "reservedProject"
	KeyThickness        = "thickness"
)

// DefaultThickness is assigned to newly created records.
const DefaultThickness = "6mm"

// MaxDimension bounds width and height for both stored records and incoming
// rows, so every record the merge creates can be matched again.
const MaxDimension = math.MaxInt32

var canonicalRank = map[string]int{
	KeyID:               0,
	KeyWidth:            1,
	KeyHeight:           2,
	KeyColor:            3,
	KeyHeatSoaked:       4,
	KeyRacks:            5,
	KeyCount:            6,
	KeyAvailableCount:   7,
	KeyReservedCount:    8,
	KeyReservedProjects: 9,
	KeyReservedProject:  10,
	KeyThickness:        11,
}

type field struct {
	key string
	raw json.RawMessage
}

// Record is one inventory entry. Fields keep their file order and raw
// encoding; setters rewrite only the keys they touch.
type Record struct {
	fields   []field
	original json.RawMessage
	// loaded counts fields present when the record was read; fields past it
	// were added during this run.
	loaded int
	object bool
	dirty  bool
}

// NewRecord builds a record with the default shape used for glass first seen
// in an incoming table. Stock below zero is stored as zero.
func NewRecord(width, height int64, color string, stock int64, rack, project string) *Record {
	stock = max(stock, 0)
	racks := []string{}
	if rack != "" {
		racks = append(racks, rack)
	}
	projects := []string{}
	var reserved any
	if project != "" {
		projects = append(projects, project)
		reserved = project
	}
	name := NormalizeColor(color)

	r := &Record{object: true, dirty: true}
	r.mustSet(KeyID, GlassID(width, height, name))
	r.mustSet(KeyWidth, width)
	r.mustSet(KeyHeight, height)
	r.mustSet(KeyColor, name)
	r.mustSet(KeyHeatSoaked, false)
	r.mustSet(KeyRacks, racks)
	r.mustSet(KeyCount, stock)
	r.mustSet(KeyAvailableCount, stock)
	r.mustSet(KeyReservedCount, 0)
	r.mustSet(KeyReservedProjects, projects)
	r.mustSet(KeyReservedProject, reserved)
	r.mustSet(KeyThickness, DefaultThickness)
	return r
}

// UnmarshalJSON keeps the raw bytes and the ordered fields of an object.
// Non-object elements are retained verbatim but expose no fields.
func (r *Record) UnmarshalJSON(data []byte) error {
	r.original = append(json.RawMessage(nil), data...)
	r.fields = nil
	r.dirty = false
	r.object = false

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decode %q: %w", key, err)
		}
		r.fields = append(r.fields, field{key: key, raw: raw})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	r.object = true
	r.loaded = len(r.fields)
	return nil
}

// MarshalJSON returns the loaded bytes for untouched records and a rebuilt
// object otherwise.
func (r *Record) MarshalJSON() ([]byte, error) {
	if !r.dirty && r.original != nil {
		return r.original, nil
	}
	if !r.object {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalValue(f.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(f.raw)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Modified reports whether any field changed since the record was loaded.
func (r *Record) Modified() bool { return r.dirty }

// Keys returns the record's keys in output order.
func (r *Record) Keys() []string {
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.key
	}
	return keys
}

// Raw returns the raw JSON stored under key.
func (r *Record) Raw(key string) (json.RawMessage, bool) {
	for i := len(r.fields) - 1; i >= 0; i-- {
		if r.fields[i].key == key {
			return r.fields[i].raw, true
		}
	}
	return nil, false
}

// ID returns the stored identifier, if it is a string.
func (r *Record) ID() string {
	s, _ := r.stringField(KeyID)
	return s
}

// Color returns the stored color text (possibly empty).
func (r *Record) Color() string {
	s, _ := r.stringField(KeyColor)
	return s
}

// Dimensions returns width and height when both are positive whole numbers.
// Integral floats such as 36.0 are accepted.
func (r *Record) Dimensions() (int64, int64, bool) {
	w, okW := r.numberField(KeyWidth)
	h, okH := r.numberField(KeyHeight)
	if !okW || !okH {
		return 0, 0, false
	}
	if w <= 0 || h <= 0 || w != math.Trunc(w) || h != math.Trunc(h) || w > MaxDimension || h > MaxDimension {
		return 0, 0, false
	}
	return int64(w), int64(h), true
}

// Key returns the lookup key derived from the stored dimensions and color.
func (r *Record) Key() (string, bool) {
	w, h, ok := r.Dimensions()
	if !ok {
		return "", false
	}
	return LookupKey(w, h, r.Color()), true
}

// SortKey returns the (width, height, color) triple used to order the store.
// Missing or non-numeric dimensions sort as zero.
func (r *Record) SortKey() (float64, float64, string) {
	w, _ := r.numberField(KeyWidth)
	h, _ := r.numberField(KeyHeight)
	return w, h, r.Color()
}

// Count returns the stored stock, if numeric.
func (r *Record) Count() (float64, bool) { return r.numberField(KeyCount) }

// AvailableCount returns the stored available stock, if numeric.
func (r *Record) AvailableCount() (float64, bool) { return r.numberField(KeyAvailableCount) }

// ReservedCount returns the stored reserved count, defaulting to zero.
func (r *Record) ReservedCount() float64 {
	v, _ := r.numberField(KeyReservedCount)
	return v
}

// ReservedProject returns the most recently recorded project.
func (r *Record) ReservedProject() (string, bool) { return r.stringField(KeyReservedProject) }

// Racks returns rack labels as text. Numeric labels keep their literal form.
func (r *Record) Racks() []string { return r.labels(KeyRacks) }

// ReservedProjects returns the recorded project names as text.
func (r *Record) ReservedProjects() []string { return r.labels(KeyReservedProjects) }

// SetCount stores a new stock value and recomputes availableCount as
// count minus reservedCount, kept within [0, count]. Negative stock is stored
// as zero and a missing count reads as zero. It reports whether count changed.
func (r *Record) SetCount(stock int64) (bool, error) {
	stock = max(stock, 0)
	current, ok := r.Count()
	if _, present := r.Raw(KeyCount); !present {
		current, ok = 0, true
	}
	if ok && current == float64(stock) {
		return false, nil
	}
	available := min(max(float64(stock)-r.ReservedCount(), 0), float64(stock))
	if err := r.set(KeyCount, stock); err != nil {
		return false, err
	}
	if err := r.set(KeyAvailableCount, json.Number(strconv.FormatFloat(available, 'f', -1, 64))); err != nil {
		return false, err
	}
	return true, nil
}

// AddReservedProject appends project to reservedProjects when absent and
// records it as the most recent reservation.
func (r *Record) AddReservedProject(project string) error {
	if project == "" {
		return nil
	}
	if _, err := r.appendLabel(KeyReservedProjects, project); err != nil {
		return err
	}
	if current, ok := r.ReservedProject(); ok && current == project {
		return nil
	}
	return r.set(KeyReservedProject, project)
}

// AddRack appends a rack label when no existing label has the same text.
func (r *Record) AddRack(label string) (bool, error) {
	if strings.TrimSpace(label) == "" {
		return false, nil
	}
	return r.appendLabel(KeyRacks, label)
}

func (r *Record) appendLabel(key, label string) (bool, error) {
	items := r.rawItems(key)
	for _, item := range items {
		if labelText(item) == label {
			return false, nil
		}
	}
	encoded, err := marshalValue(label)
	if err != nil {
		return false, err
	}
	items = append(items, encoded)
	return true, r.set(key, items)
}

func (r *Record) labels(key string) []string {
	items := r.rawItems(key)
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, labelText(item))
	}
	return out
}

// rawItems returns the elements of an array field; missing or non-array
// values read as empty.
func (r *Record) rawItems(key string) []json.RawMessage {
	raw, ok := r.Raw(key)
	if !ok {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

func labelText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

func (r *Record) stringField(key string) (string, bool) {
	raw, ok := r.Raw(key)
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func (r *Record) numberField(key string) (float64, bool) {
	raw, ok := r.Raw(key)
	if !ok {
		return 0, false
	}
	// json.Number also accepts quoted numbers; only bare literals count.
	if len(raw) > 0 && raw[0] == '"' {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	v, err := n.Float64()
	if err != nil {
		return 0, false
	}
	return v, true
}

func (r *Record) mustSet(key string, value any) {
	if err := r.set(key, value); err != nil {
		panic(fmt.Sprintf("inventory: encode %s: %v", key, err))
	}
}

// set replaces key in place, or inserts it after the loaded fields ordered by
// canonical rank among other added keys.
func (r *Record) set(key string, value any) error {
	encoded, err := marshalValue(value)
	if err != nil {
		return err
	}
	if !r.object {
		return errors.New("record is not a JSON object")
	}
	r.dirty = true
	for i := len(r.fields) - 1; i >= 0; i-- {
		if r.fields[i].key == key {
			r.fields[i].raw = encoded
			return nil
		}
	}
	pos := len(r.fields)
	if rank, known := canonicalRank[key]; known {
		for i := r.loaded; i < len(r.fields); i++ {
			other, ok := canonicalRank[r.fields[i].key]
			if !ok || other > rank {
				pos = i
				break
			}
		}
	}
	r.fields = append(r.fields, field{})
	copy(r.fields[pos+1:], r.fields[pos:])
	r.fields[pos] = field{key: key, raw: encoded}
	return nil
}

// marshalValue encodes v without HTML escaping so names like "A&B" survive
// as written.
func marshalValue(v any) (json.RawMessage, error) {
	if raw, ok := v.(json.RawMessage); ok {
		return raw, nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

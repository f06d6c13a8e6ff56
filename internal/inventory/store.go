package inventory

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"glassinv/internal/fileutil"
	"glassinv/internal/services"
)

const storeStage = "inventory"

// Load reads the JSON array at path. A missing file is ErrNotFound; anything
// that is not a JSON array is ErrParse.
func Load(path string) ([]*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, storeStage, "load", path, err)
		}
		return nil, services.Wrap(services.ErrParse, storeStage, "load", path, err)
	}
	records, err := Decode(data)
	if err != nil {
		return nil, services.Wrap(services.ErrParse, storeStage, "decode", path, err)
	}
	return records, nil
}

// Decode parses a JSON array of records.
func Decode(data []byte) ([]*Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errors.New("inventory must be a JSON array")
	}
	var records []*Record
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, err
	}
	out := records[:0]
	for _, r := range records {
		// A literal null element decodes to a nil pointer; keep it as an
		// opaque entry so the array length is preserved.
		if r == nil {
			r = &Record{original: json.RawMessage("null")}
		}
		out = append(out, r)
	}
	return out, nil
}

// Encode renders records as a JSON array indented by two spaces. Untouched
// records keep their original token text; only whitespace is normalized.
func Encode(records []*Record) ([]byte, error) {
	if len(records) == 0 {
		return []byte("[]\n"), nil
	}
	var buf bytes.Buffer
	buf.WriteString("[\n")
	for i, r := range records {
		raw, err := r.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("encode record %d: %w", i, err)
		}
		buf.WriteString("  ")
		if err := json.Indent(&buf, raw, "  ", "  "); err != nil {
			return nil, fmt.Errorf("indent record %d: %w", i, err)
		}
		if i < len(records)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("]\n")
	return buf.Bytes(), nil
}

// Save encodes records and writes them to path atomically.
func Save(path string, records []*Record) error {
	data, err := Encode(records)
	if err != nil {
		return services.Wrap(services.ErrWrite, storeStage, "encode", path, err)
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return services.Wrap(services.ErrWrite, storeStage, "save", path, err)
	}
	return nil
}

// Sort orders records by width, then height, then color. Equal keys keep
// their relative order.
func Sort(records []*Record) {
	slices.SortStableFunc(records, func(a, b *Record) int {
		aw, ah, ac := a.SortKey()
		bw, bh, bc := b.SortKey()
		switch {
		case aw < bw:
			return -1
		case aw > bw:
			return 1
		case ah < bh:
			return -1
		case ah > bh:
			return 1
		default:
			return strings.Compare(ac, bc)
		}
	})
}

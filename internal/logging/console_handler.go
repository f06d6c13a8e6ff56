package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

const (
	consoleTimeLayout = "2006-01-02 15:04:05"
	jsonTimeLayout    = "2006-01-02T15:04:05.000Z07:00"
)

type kv struct {
	key   string
	value slog.Value
}

// prettyHandler renders one header line per record followed by indented
// "- Label: value" detail lines.
type prettyHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Leveler
	attrs  []kv
	groups []string
}

func newPrettyHandler(w io.Writer, level slog.Leveler) *prettyHandler {
	return &prettyHandler{mu: &sync.Mutex{}, w: w, level: level}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := h.clone()
	for _, attr := range attrs {
		clone.attrs = appendFlattened(clone.attrs, h.groups, attr)
	}
	return clone
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

func (h *prettyHandler) Handle(_ context.Context, record slog.Record) error {
	fields := make([]kv, 0, len(h.attrs)+record.NumAttrs())
	fields = append(fields, h.attrs...)
	record.Attrs(func(attr slog.Attr) bool {
		fields = appendFlattened(fields, h.groups, attr)
		return true
	})

	var component, stage string
	details := make([]kv, 0, len(fields))
	verbose := h.level.Level() <= slog.LevelDebug
	for _, field := range fields {
		switch field.key {
		case FieldComponent:
			component = field.value.String()
			continue
		case FieldStage:
			stage = field.value.String()
			continue
		case FieldRunID:
			if !verbose {
				continue
			}
		}
		details = append(details, field)
	}

	var buf bytes.Buffer
	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	buf.WriteString(ts.Format(consoleTimeLayout))
	buf.WriteByte(' ')
	fmt.Fprintf(&buf, "%-5s", levelLabel(record.Level))
	if subject := subjectLabel(component, stage); subject != "" {
		buf.WriteString(" [")
		buf.WriteString(subject)
		buf.WriteByte(']')
	}
	buf.WriteByte(' ')
	buf.WriteString(record.Message)
	buf.WriteByte('\n')
	for _, field := range details {
		buf.WriteString("    - ")
		buf.WriteString(displayLabel(field.key))
		buf.WriteString(": ")
		buf.WriteString(formatValue(field.value))
		buf.WriteByte('\n')
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *prettyHandler) clone() *prettyHandler {
	return &prettyHandler{
		mu:     h.mu,
		w:      h.w,
		level:  h.level,
		attrs:  append([]kv(nil), h.attrs...),
		groups: append([]string(nil), h.groups...),
	}
}

func appendFlattened(dst []kv, groups []string, attr slog.Attr) []kv {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return dst
	}
	if attr.Value.Kind() == slog.KindGroup {
		nested := groups
		if attr.Key != "" {
			nested = append(append([]string(nil), groups...), attr.Key)
		}
		for _, child := range attr.Value.Group() {
			dst = appendFlattened(dst, nested, child)
		}
		return dst
	}
	key := attr.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}
	return append(dst, kv{key: key, value: attr.Value})
}

func subjectLabel(component, stage string) string {
	switch {
	case component == "":
		return stage
	case stage == "" || stage == component:
		return component
	default:
		return component + "/" + stage
	}
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

func displayLabel(key string) string {
	switch key {
	case FieldEventType:
		return "Event"
	case FieldErrorHint:
		return "Hint"
	case FieldRunID:
		return "Run"
	default:
		return titleizeKey(key)
	}
}

func titleizeKey(key string) string {
	parts := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})
	if len(parts) == 0 {
		return key
	}
	for i, part := range parts {
		lower := strings.ToLower(part)
		parts[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(parts, " ")
}

func formatValue(value slog.Value) string {
	switch value.Kind() {
	case slog.KindDuration:
		return value.Duration().Round(time.Millisecond).String()
	case slog.KindTime:
		return value.Time().Format(consoleTimeLayout)
	case slog.KindAny:
		switch v := value.Any().(type) {
		case error:
			return v.Error()
		case []string:
			return strings.Join(v, ", ")
		case fmt.Stringer:
			return v.String()
		default:
			return fmt.Sprint(v)
		}
	default:
		return value.String()
	}
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.Format(jsonTimeLayout)
}

package xlogpub

import (
	"context"
	"log/slog"
)

// Attribute keys the slog bridge lifts out of the record.
const (
	SlogSystemKey = "system"
	SlogSourceKey = "source"
)

// SlogHandler is a slog.Handler that publishes records as events.
// The record message is the event template and attributes become its
// parameters; a top-level "system" attribute sets the subsystem tag and a
// top-level "source" attribute sets the source object.
type SlogHandler struct {
	pub    *Publisher
	system string
	source any
	level  slog.Leveler
	attrs  []Field
	prefix string
}

// NewSlogHandler returns a handler publishing to pub under system.
// A nil level accepts everything from slog.LevelDebug up.
func NewSlogHandler(pub *Publisher, system string, level slog.Leveler) *SlogHandler {
	if system == "" {
		system = SystemNone
	}
	if level == nil {
		level = slog.LevelDebug
	}
	return &SlogHandler{pub: pub, system: system, level: level}
}

func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *SlogHandler) Handle(_ context.Context, r slog.Record) error {
	c := *h
	c.attrs = make([]Field, len(h.attrs), len(h.attrs)+r.NumAttrs())
	copy(c.attrs, h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		c.add(a)
		return true
	})

	at := r.Time
	if at.IsZero() {
		at = h.pub.Now()
	}
	e := NewEvent(FromSlog(r.Level), c.system, at, r.Message, c.attrs...)
	e.Source = c.source
	h.pub.Publish(e)
	return nil
}

func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	c := *h
	c.attrs = make([]Field, len(h.attrs), len(h.attrs)+len(attrs))
	copy(c.attrs, h.attrs)
	for _, a := range attrs {
		c.add(a)
	}
	return &c
}

// WithGroup qualifies the keys of later attributes with name.
func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	c.prefix = h.prefix + name + "."
	return &c
}

func (h *SlogHandler) add(a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Key == "" && a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			h.add(ga)
		}
		return
	}
	if h.prefix == "" {
		switch a.Key {
		case SlogSystemKey:
			if s := a.Value.String(); s != "" {
				h.system = s
			}
			return
		case SlogSourceKey:
			h.source = a.Value.Any()
			return
		}
	}
	h.addValue(h.prefix+a.Key, a.Value)
}

func (h *SlogHandler) addValue(key string, v slog.Value) {
	switch v.Kind() {
	case slog.KindGroup:
		for _, ga := range v.Group() {
			h.addValue(key+"."+ga.Key, ga.Value.Resolve())
		}
	case slog.KindString:
		h.attrs = append(h.attrs, Str(key, v.String()))
	case slog.KindInt64:
		h.attrs = append(h.attrs, Int64(key, v.Int64()))
	case slog.KindUint64:
		h.attrs = append(h.attrs, Uint64(key, v.Uint64()))
	case slog.KindFloat64:
		h.attrs = append(h.attrs, Float64(key, v.Float64()))
	case slog.KindBool:
		h.attrs = append(h.attrs, Bool(key, v.Bool()))
	case slog.KindDuration:
		h.attrs = append(h.attrs, Dur(key, v.Duration()))
	case slog.KindTime:
		h.attrs = append(h.attrs, Time(key, v.Time()))
	default:
		if err, ok := v.Any().(error); ok {
			h.attrs = append(h.attrs, Err(key, err))
			return
		}
		h.attrs = append(h.attrs, Any(key, v.Any()))
	}
}

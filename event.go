package xlogpub

import (
	"sync"
	"time"
)

// SystemNone marks an event without a subsystem tag.
const SystemNone = "-"

// Event is a single log record. It is built once per log call and treated as
// read-only by every observer.
type Event struct {
	Level    Level
	System   string
	Time     time.Time
	Template string
	Params   []Field
	// Source is the originating object, used only for its type name.
	Source any
}

// NewEvent returns an event with the system tag normalised. params is copied,
// so the caller may reuse its slice once NewEvent returns.
func NewEvent(level Level, system string, at time.Time, template string, params ...Field) Event {
	if system == "" {
		system = SystemNone
	}
	var owned []Field
	if len(params) > 0 {
		owned = make([]Field, len(params))
		copy(owned, params)
	}
	return Event{
		Level:    level,
		System:   system,
		Time:     at,
		Template: template,
		Params:   owned,
	}
}

// HasSystem reports whether the event carries a subsystem tag.
func (e Event) HasSystem() bool { return e.System != "" && e.System != SystemNone }

// Message renders the template with the event parameters.
// It is only called by observers that accept the event.
func (e Event) Message() string { return FormatEvent(e) }

// Param returns the parameter named k.
func (e Event) Param(k string) (Field, bool) {
	f, ok := lookup(e.Params, k)
	if !ok {
		return Field{}, false
	}
	return *f, true
}

// Entry is a fluent builder (Builder pattern) for a single event.
// API: log.At(LevelInfo).Str("name", "alice").Msg("user {name} logged in")
type Entry struct {
	l      *Logger
	level  Level
	source any
	fields []Field
}

var entryPool = sync.Pool{
	New: func() any { return &Entry{fields: make([]Field, 0, 8)} },
}

func getEntry(l *Logger, level Level) *Entry {
	en := entryPool.Get().(*Entry)
	en.l = l
	en.level = level
	en.source = l.source
	en.fields = en.fields[:0]
	return en
}

func (en *Entry) putBack() {
	// allow GC of large backing arrays by capping
	if cap(en.fields) > 128 {
		en.fields = make([]Field, 0, 8)
	}
	en.l = nil
	en.level = 0
	en.source = nil
	entryPool.Put(en)
}

func (en *Entry) Str(k, v string) *Entry {
	en.fields = append(en.fields, Str(k, v))
	return en
}

func (en *Entry) Int(k string, v int) *Entry { return en.Int64(k, int64(v)) }

func (en *Entry) Int64(k string, v int64) *Entry {
	en.fields = append(en.fields, Int64(k, v))
	return en
}

func (en *Entry) Uint64(k string, v uint64) *Entry {
	en.fields = append(en.fields, Uint64(k, v))
	return en
}

func (en *Entry) Float64(k string, v float64) *Entry {
	en.fields = append(en.fields, Float64(k, v))
	return en
}

func (en *Entry) Bool(k string, v bool) *Entry {
	en.fields = append(en.fields, Bool(k, v))
	return en
}

func (en *Entry) Dur(k string, v time.Duration) *Entry {
	en.fields = append(en.fields, Dur(k, v))
	return en
}

func (en *Entry) Time(k string, v time.Time) *Entry {
	en.fields = append(en.fields, Time(k, v))
	return en
}

func (en *Entry) Bytes(k string, v []byte) *Entry {
	en.fields = append(en.fields, Bytes(k, v))
	return en
}

// Err binds err under the "error" key; nil is ignored.
func (en *Entry) Err(err error) *Entry {
	if err == nil {
		return en
	}
	en.fields = append(en.fields, Err("error", err))
	return en
}

func (en *Entry) Any(k string, v any) *Entry {
	en.fields = append(en.fields, Any(k, v))
	return en
}

// Source overrides the logger's source object for this event.
func (en *Entry) Source(src any) *Entry {
	en.source = src
	return en
}

// Msg terminates the builder and publishes the event.
func (en *Entry) Msg(template string) {
	// NewEvent copies the fields before the entry goes back to the pool.
	en.l.publish(en.level, template, en.source, en.fields)
	en.putBack()
}

package xlogpub

// Logger is the producer handle of a subsystem. It stamps every event with
// the publisher's clock and its system tag, then publishes it synchronously.
type Logger struct {
	pub    *Publisher
	system string
	source any
}

// NewLogger returns a producer bound to pub. An empty system means SystemNone.
func NewLogger(pub *Publisher, system string) *Logger {
	if system == "" {
		system = SystemNone
	}
	return &Logger{pub: pub, system: system}
}

// Logger returns a producer for system on this publisher.
func (p *Publisher) Logger(system string) *Logger { return NewLogger(p, system) }

// System returns the logger's subsystem tag.
func (l *Logger) System() string { return l.system }

// With returns a child logger with a different system tag and the same source.
func (l *Logger) With(system string) *Logger {
	child := NewLogger(l.pub, system)
	child.source = l.source
	return child
}

// WithSource returns a child logger that attaches src to every event.
func (l *Logger) WithSource(src any) *Logger {
	child := *l
	child.source = src
	return &child
}

// Level entry points.

func (l *Logger) Debug(template string, params ...Field) {
	l.publish(LevelDebug, template, l.source, params)
}

func (l *Logger) Info(template string, params ...Field) {
	l.publish(LevelInfo, template, l.source, params)
}

func (l *Logger) Warn(template string, params ...Field) {
	l.publish(LevelWarn, template, l.source, params)
}

func (l *Logger) Error(template string, params ...Field) {
	l.publish(LevelError, template, l.source, params)
}

func (l *Logger) Critical(template string, params ...Field) {
	l.publish(LevelCritical, template, l.source, params)
}

// Log publishes at an arbitrary level.
func (l *Logger) Log(level Level, template string, params ...Field) {
	l.publish(level, template, l.source, params)
}

// At returns a fluent builder for one event at level.
func (l *Logger) At(level Level) *Entry { return getEntry(l, level) }

func (l *Logger) publish(level Level, template string, source any, params []Field) {
	e := NewEvent(level, l.system, l.pub.Now(), template, params...)
	e.Source = source
	l.pub.Publish(e)
}

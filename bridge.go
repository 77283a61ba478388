package xlogpub

import (
	"bytes"
	"sync"
)

// LineWriter is an io.Writer that publishes every complete line written to
// it as one event. Lines are treated as literal text, not templates.
type LineWriter struct {
	l     *Logger
	level Level

	mu      sync.Mutex
	pending []byte
}

// TextParam is the parameter that carries a bridged line.
const TextParam = "text"

const lineTemplate = "{" + TextParam + "}"

func NewLineWriter(l *Logger, level Level) *LineWriter {
	return &LineWriter{l: l, level: level}
}

func (w *LineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = append(w.pending, p...)
	for {
		i := bytes.IndexByte(w.pending, '\n')
		if i < 0 {
			break
		}
		w.emit(w.pending[:i])
		w.pending = w.pending[i+1:]
	}
	if len(w.pending) == 0 {
		w.pending = w.pending[:0:0]
	}
	return len(p), nil
}

// Flush publishes a trailing partial line, if any.
func (w *LineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) > 0 {
		w.emit(w.pending)
		w.pending = nil
	}
}

func (w *LineWriter) emit(line []byte) {
	line = bytes.TrimSuffix(line, []byte{'\r'})
	w.l.publish(w.level, lineTemplate, w.l.source, []Field{Str(TextParam, string(line))})
}

package xlogpub

import (
	"io"
	"log"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

type startConfig struct {
	system string
	level  slog.Leveler
	stdio  bool
}

// StartOption configures StartLogging.
type StartOption func(*startConfig)

// WithStartSystem tags events from the stdlib log and slog defaults with system.
func WithStartSystem(system string) StartOption {
	return func(c *startConfig) { c.system = system }
}

// WithSlogLevel sets the minimum level of the default slog handler.
func WithSlogLevel(l slog.Leveler) StartOption {
	return func(c *startConfig) { c.level = l }
}

// WithStdioRedirect also replaces os.Stdout and os.Stderr with pipes whose
// lines are published as info events (system "stdout") and error events
// (system "stderr"). Observers keep writing to the streams captured at init.
func WithStdioRedirect() StartOption {
	return func(c *startConfig) { c.stdio = true }
}

var started atomic.Bool

// StartLogging makes pub the sole consumer of the process-wide log entry
// points: the stdlib log package and the default slog logger. It may be
// called once; a second call before stop returns ErrAlreadyStarted. stop
// restores the previous state.
func StartLogging(pub *Publisher, opts ...StartOption) (stop func(), err error) {
	if pub == nil {
		return nil, errors.New("xlogpub: StartLogging with nil publisher")
	}
	if !started.CompareAndSwap(false, true) {
		return nil, ErrAlreadyStarted
	}
	cfg := startConfig{system: SystemNone}
	for _, o := range opts {
		o(&cfg)
	}

	var restores []func()
	undo := func() {
		for i := len(restores) - 1; i >= 0; i-- {
			restores[i]()
		}
	}

	if cfg.stdio {
		r, err := redirect(&os.Stdout, NewLineWriter(pub.Logger("stdout"), LevelInfo))
		if err != nil {
			started.Store(false)
			return nil, err
		}
		restores = append(restores, r)
		r, err = redirect(&os.Stderr, NewLineWriter(pub.Logger("stderr"), LevelError))
		if err != nil {
			undo()
			started.Store(false)
			return nil, err
		}
		restores = append(restores, r)
	}

	prevSlog := slog.Default()
	prevOut, prevFlags, prevPrefix := log.Writer(), log.Flags(), log.Prefix()
	restores = append(restores, func() {
		slog.SetDefault(prevSlog)
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
		log.SetPrefix(prevPrefix)
	})

	slog.SetDefault(slog.New(NewSlogHandler(pub, cfg.system, cfg.level)))
	// slog.SetDefault points the log package at the slog handler; route it
	// through a LineWriter instead so log lines are never parsed as templates.
	log.SetOutput(NewLineWriter(NewLogger(pub, cfg.system), LevelInfo))
	log.SetFlags(0)
	log.SetPrefix("")

	var once sync.Once
	return func() {
		once.Do(func() {
			undo()
			started.Store(false)
		})
	}, nil
}

func redirect(target **os.File, lw *LineWriter) (restore func(), err error) {
	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, errors.Wrap(err, "xlogpub: stdio redirect")
	}
	prev := *target
	*target = pw
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = io.Copy(lw, pr)
		lw.Flush()
		_ = pr.Close()
	}()
	return func() {
		*target = prev
		_ = pw.Close()
		<-done
	}, nil
}

package xlogpub

import "github.com/trickstertwo/xclock"

// Config for constructing a Publisher (Factory data structure).
type Config struct {
	Observers    []Observer
	ErrorHandler ErrorHandler // optional; defaults to the captured stderr
	Clock        xclock.Clock // optional; defaults to xclock.Default()
}

// Builder separates construction from representation (Builder pattern).
type Builder struct {
	cfg Config
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) WithErrorHandler(h ErrorHandler) *Builder {
	b.cfg.ErrorHandler = h
	return b
}

func (b *Builder) WithClock(c xclock.Clock) *Builder {
	b.cfg.Clock = c
	return b
}

func (b *Builder) AddObserver(o Observer) *Builder {
	b.cfg.Observers = append(b.cfg.Observers, o)
	return b
}

// Build constructs the Publisher (Factory + Builder).
func (b *Builder) Build() (*Publisher, error) {
	for _, o := range b.cfg.Observers {
		if o == nil {
			return nil, ErrNilObserver
		}
	}
	obs := make([]Observer, len(b.cfg.Observers))
	copy(obs, b.cfg.Observers)
	cfg := b.cfg
	cfg.Observers = obs
	return newPublisher(cfg), nil
}

package xlogpub

// Observer pattern

// Observer receives every published event. It decides on its own whether to
// render it. A returned error is reported by the Publisher and never stops
// delivery to the remaining observers.
// Implementations MUST be concurrency-safe when the Publisher is shared
// between goroutines.
type Observer interface {
	Observe(e Event) error
}

// ObserverFunc adapter.
type ObserverFunc func(Event) error

func (f ObserverFunc) Observe(e Event) error { return f(e) }

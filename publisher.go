package xlogpub

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/trickstertwo/xclock"
)

// ErrorHandler receives observer failures. It must not publish back into the
// Publisher that reported the failure.
type ErrorHandler func(error)

type registration struct {
	id uint64
	o  Observer
}

// Publisher is the multicast point between producers and observers.
// Delivery is synchronous and follows subscription order.
type Publisher struct {
	clock   xclock.Clock
	onError ErrorHandler

	// Observers: lock-free reads via atomic.Value; synchronized updates via obsMu.
	// Stored value is []registration and MUST be treated as immutable by readers.
	observers atomic.Value
	obsMu     sync.Mutex
	nextID    uint64

	stats stats
}

// Factory: internal constructor.
func newPublisher(cfg Config) *Publisher {
	p := &Publisher{
		clock:   cfg.Clock,
		onError: cfg.ErrorHandler,
	}
	if p.onError == nil {
		p.onError = StderrErrorHandler(CapturedStreams().Stderr)
	}
	regs := make([]registration, 0, len(cfg.Observers))
	for _, o := range cfg.Observers {
		p.nextID++
		regs = append(regs, registration{id: p.nextID, o: o})
	}
	p.observers.Store(regs)
	return p
}

// NewPublisher returns a Publisher with no observers, the default clock and
// the default error handler.
func NewPublisher() *Publisher {
	return newPublisher(Config{})
}

// Now returns the publisher's notion of the current time.
func (p *Publisher) Now() time.Time {
	if p.clock != nil {
		return p.clock.Now()
	}
	return xclock.Now()
}

func (p *Publisher) load() []registration {
	v := p.observers.Load()
	if v == nil {
		return nil
	}
	return v.([]registration)
}

// Subscribe appends o to the dispatch list. Subscribing the same observer
// twice delivers every event to it twice. The returned func removes this
// registration; calling it more than once is a no-op.
func (p *Publisher) Subscribe(o Observer) (unsubscribe func()) {
	if o == nil {
		p.report(ErrNilObserver)
		return func() {}
	}
	p.obsMu.Lock()
	defer p.obsMu.Unlock()
	p.nextID++
	id := p.nextID
	cur := p.load()
	next := make([]registration, len(cur), len(cur)+1)
	copy(next, cur)
	next = append(next, registration{id: id, o: o})
	p.observers.Store(next)

	var once sync.Once
	return func() { once.Do(func() { p.remove(id) }) }
}

func (p *Publisher) remove(id uint64) {
	p.obsMu.Lock()
	defer p.obsMu.Unlock()
	cur := p.load()
	next := make([]registration, 0, len(cur))
	for _, r := range cur {
		if r.id != id {
			next = append(next, r)
		}
	}
	p.observers.Store(next)
}

// Len returns the number of current registrations.
func (p *Publisher) Len() int { return len(p.load()) }

// Publish hands e to every subscribed observer in subscription order.
// Observer errors and panics are reported to the ErrorHandler and do not
// affect delivery to later observers.
func (p *Publisher) Publish(e Event) {
	if e.System == "" {
		e.System = SystemNone
	}
	p.stats.published.Add(1)
	regs := p.load()
	for i := range regs {
		p.deliver(i, regs[i].o, e)
	}
}

func (p *Publisher) deliver(i int, o Observer, e Event) {
	defer func() {
		if r := recover(); r != nil {
			p.stats.failed.Add(1)
			p.report(&PanicError{Index: i, Value: r})
		}
	}()
	if err := o.Observe(e); err != nil {
		p.stats.failed.Add(1)
		p.report(err)
		return
	}
	p.stats.delivered.Add(1)
}

// report never lets a failing handler escape into Publish.
func (p *Publisher) report(err error) {
	defer func() { _ = recover() }()
	p.onError(err)
}

// Stats returns a snapshot of the delivery counters.
func (p *Publisher) Stats() StatsSnapshot { return p.stats.snapshot() }

// ResetStats zeroes the delivery counters.
func (p *Publisher) ResetStats() { p.stats.reset() }

// StderrErrorHandler writes one line per error straight to w.
func StderrErrorHandler(w io.Writer) ErrorHandler {
	var mu sync.Mutex
	return func(err error) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintln(w, err.Error())
	}
}

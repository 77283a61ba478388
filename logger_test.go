package xlogpub

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trickstertwo/xclock"
)

// captureObserver records every event it sees.
type captureObserver struct {
	mu     sync.Mutex
	events []Event
}

func (c *captureObserver) Observe(e Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
	return nil
}

func (c *captureObserver) all() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...)
}

func newFrozenPublisher(t *testing.T, at time.Time, obs ...Observer) *Publisher {
	t.Helper()
	b := NewBuilder().WithClock(xclock.NewFrozen(at))
	for _, o := range obs {
		b = b.AddObserver(o)
	}
	pub, err := b.Build()
	require.NoError(t, err)
	return pub
}

func TestLogger_PerLevelEmit(t *testing.T) {
	t.Parallel()

	ft := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	capture := &captureObserver{}
	log := newFrozenPublisher(t, ft, capture).Logger("Router 1")

	log.Debug("d")
	log.Info("user {name} logged in", Str("name", "alice"))
	log.Warn("w")
	log.Error("e")
	log.Critical("c")

	events := capture.all()
	require.Len(t, events, 5)
	levels := make([]Level, len(events))
	for i, e := range events {
		levels[i] = e.Level
		assert.Equal(t, "Router 1", e.System)
		assert.True(t, e.Time.Equal(ft), "timestamp mismatch: %s", e.Time)
	}
	assert.Equal(t, []Level{LevelDebug, LevelInfo, LevelWarn, LevelError, LevelCritical}, levels)
	assert.Equal(t, "user alice logged in", events[1].Message())
}

func TestLogger_DefaultSystemAndSource(t *testing.T) {
	t.Parallel()

	capture := &captureObserver{}
	pub := newFrozenPublisher(t, testTime, capture)
	src := &routerSession{}

	pub.Logger("").Info("no system")
	pub.Logger("Router").WithSource(src).Info("with source")
	pub.Logger("Router").WithSource(src).With("Container").Info("child keeps source")

	events := capture.all()
	require.Len(t, events, 3)
	assert.Equal(t, SystemNone, events[0].System)
	assert.Nil(t, events[0].Source)
	assert.Same(t, src, events[1].Source)
	assert.Equal(t, "Container", events[2].System)
	assert.Same(t, src, events[2].Source)
}

func TestLogger_FluentEntry(t *testing.T) {
	t.Parallel()

	capture := &captureObserver{}
	log := newFrozenPublisher(t, testTime, capture).Logger("Container")
	other := &routerSession{}

	log.At(LevelWarn).
		Str("from", "old").
		Int("count", 2).
		Dur("after", time.Second).
		Bool("retry", true).
		Err(nil).
		Source(other).
		Msg("state {from} changed {count} times")

	events := capture.all()
	require.Len(t, events, 1)
	e := events[0]
	assert.Equal(t, LevelWarn, e.Level)
	assert.Same(t, other, e.Source)
	assert.Len(t, e.Params, 4)
	assert.Equal(t, "state old changed 2 times", e.Message())
}

func TestLogger_EntryParamsAreNotShared(t *testing.T) {
	t.Parallel()

	capture := &captureObserver{}
	log := newFrozenPublisher(t, testTime, capture).Logger("x")

	log.At(LevelInfo).Str("k", "first").Msg("{k}")
	log.At(LevelInfo).Str("k", "second").Msg("{k}")

	events := capture.all()
	require.Len(t, events, 2)
	assert.Equal(t, "first", events[0].Message())
	assert.Equal(t, "second", events[1].Message())
}

func TestLogger_VariadicParamsAreCopied(t *testing.T) {
	t.Parallel()

	capture := &captureObserver{}
	log := newFrozenPublisher(t, testTime, capture).Logger("Router")

	fs := []Field{Str("name", "alice")}
	log.Info("user {name} logged in", fs...)
	fs[0] = Str("name", "mallory")

	events := capture.all()
	require.Len(t, events, 1)
	assert.Equal(t, "user alice logged in", events[0].Message())
}

func TestNewEvent_OwnsParams(t *testing.T) {
	t.Parallel()

	fs := []Field{Int("n", 1)}
	e := NewEvent(LevelInfo, "", testTime, "{n}", fs...)
	fs[0] = Int("n", 2)
	assert.Equal(t, "1", e.Message())
	assert.Equal(t, SystemNone, e.System)
	assert.Nil(t, NewEvent(LevelInfo, "x", testTime, "plain").Params)
}

func TestLogger_RendersThroughObservers(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	pub := newFrozenPublisher(t, testTime,
		newTestObserver(Primary, &stdout, Options{Format: FormatNoColour}),
		newTestObserver(Secondary, &stderr, Options{Format: FormatNoColour}),
	)
	log := pub.Logger("Router")
	log.Info("hello {who}", Str("who", "world"))
	log.Error("failed: {err}", Err("err", assert.AnError))

	assert.Equal(t, FormatTime(testTime)+" [Router] hello world\n", stdout.String())
	assert.Equal(t, FormatTime(testTime)+" [Router] failed: "+assert.AnError.Error()+"\n", stderr.String())
}

func TestPublisher_NowUsesGlobalClockByDefault(t *testing.T) {
	old := xclock.Default()
	defer xclock.SetDefault(old)
	ft := time.Date(2030, 2, 2, 3, 4, 5, 0, time.UTC)
	xclock.SetDefault(xclock.NewFrozen(ft))

	assert.True(t, NewPublisher().Now().Equal(ft))
}

package xlogpub

import (
	"io"
	"testing"
	"time"

	"github.com/trickstertwo/xclock"
)

func newBenchLogger(format Format, levels LevelSet) *Logger {
	pub, err := NewBuilder().
		WithClock(xclock.NewFrozen(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))).
		AddObserver(NewStandardOutObserver(Options{Writer: io.Discard, Format: format, Levels: &levels, Colour: ColourAlways})).
		AddObserver(NewStandardErrObserver(Options{Writer: io.Discard, Format: format, Colour: ColourAlways})).
		Build()
	if err != nil {
		panic(err)
	}
	return pub.Logger("Router 1")
}

func BenchmarkInfo_NoParams(b *testing.B) {
	l := newBenchLogger(FormatColour, PrimaryLevels)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.Info("ok")
	}
}

func BenchmarkInfo_5Params(b *testing.B) {
	l := newBenchLogger(FormatNoColour, PrimaryLevels)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.At(LevelInfo).
			Str("a", "b").
			Int("i", i).
			Bool("ok", true).
			Dur("d", time.Millisecond*25).
			Float64("f", 1.23).
			Msg("{a} {i} {ok} {d} {f}")
	}
}

func BenchmarkFiltered_5Params(b *testing.B) {
	// Neither observer accepts debug, so the template is never rendered.
	l := newBenchLogger(FormatColour, NewLevelSet(LevelInfo))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.At(LevelDebug).
			Str("a", "b").
			Int("i", i).
			Bool("ok", true).
			Dur("d", time.Millisecond*25).
			Float64("f", 1.23).
			Msg("{a} {i} {ok} {d} {f}")
	}
}

func BenchmarkSyslogd_Parallel(b *testing.B) {
	l := newBenchLogger(FormatSyslogd, PrimaryLevels)
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			l.Info("request {i} took {d}", Int("i", i), Dur("d", time.Millisecond))
			i++
		}
	})
}

func BenchmarkFormatTemplate(b *testing.B) {
	params := []Field{Str("name", "alice"), Int("n", 3)}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = FormatTemplate("user {name} logged in {n} times", params)
	}
}

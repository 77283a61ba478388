package xlogpub

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Level is the severity of an event. Ordered: Debug < Info < Warn < Error < Critical.
type Level uint8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
)

var levelNames = [...]string{
	LevelDebug:    "debug",
	LevelInfo:     "info",
	LevelWarn:     "warn",
	LevelError:    "error",
	LevelCritical: "critical",
}

func (l Level) String() string {
	if l.Valid() {
		return levelNames[l]
	}
	return "level(" + strconv.Itoa(int(l)) + ")"
}

// Valid reports whether l is one of the five defined levels.
func (l Level) Valid() bool { return l <= LevelCritical }

// ParseLevel parses a level name, case-insensitively.
// "warning" and "fatal" are accepted as aliases for warn and critical.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "critical", "fatal":
		return LevelCritical, nil
	}
	return 0, errors.Wrapf(ErrUnknownLevel, "%q", s)
}

// FromSlog maps a slog level onto the nearest Level.
func FromSlog(l slog.Level) Level {
	switch {
	case l < slog.LevelInfo:
		return LevelDebug
	case l < slog.LevelWarn:
		return LevelInfo
	case l < slog.LevelError:
		return LevelWarn
	case l < slog.LevelError+4:
		return LevelError
	default:
		return LevelCritical
	}
}

// LevelSet is an immutable set of levels.
type LevelSet uint8

var (
	// PrimaryLevels is the default set for the standard out observer.
	PrimaryLevels = NewLevelSet(LevelInfo, LevelDebug)
	// SecondaryLevels is the default set for the standard error observer.
	SecondaryLevels = NewLevelSet(LevelWarn, LevelError, LevelCritical)
	// AllLevels accepts every level.
	AllLevels = NewLevelSet(LevelDebug, LevelInfo, LevelWarn, LevelError, LevelCritical)
)

func NewLevelSet(levels ...Level) LevelSet {
	var s LevelSet
	for _, l := range levels {
		if l.Valid() {
			s |= 1 << l
		}
	}
	return s
}

// Only returns a pointer to the set of levels, for Options.Levels.
func Only(levels ...Level) *LevelSet {
	s := NewLevelSet(levels...)
	return &s
}

// ParseLevelSet builds a set from level names.
func ParseLevelSet(names []string) (LevelSet, error) {
	var s LevelSet
	for _, n := range names {
		l, err := ParseLevel(n)
		if err != nil {
			return 0, err
		}
		s |= 1 << l
	}
	return s, nil
}

func (s LevelSet) Has(l Level) bool { return l.Valid() && s&(1<<l) != 0 }

func (s LevelSet) Empty() bool { return s == 0 }

// Levels returns the members in ascending order.
func (s LevelSet) Levels() []Level {
	out := make([]Level, 0, len(levelNames))
	for l := LevelDebug; l <= LevelCritical; l++ {
		if s.Has(l) {
			out = append(out, l)
		}
	}
	return out
}

func (s LevelSet) String() string {
	ls := s.Levels()
	names := make([]string, len(ls))
	for i, l := range ls {
		names[i] = l.String()
	}
	return "{" + strings.Join(names, ",") + "}"
}

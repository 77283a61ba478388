package xlogpub

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Direction selects which captured stream an observer writes to and how the
// colour format picks its colour.
type Direction uint8

const (
	// Primary writes to stdout and colours by subsystem.
	Primary Direction = iota
	// Secondary writes to stderr and is always red.
	Secondary
)

func (d Direction) String() string {
	if d == Secondary {
		return "stderr"
	}
	return "stdout"
}

// Format is the rendering style of a console observer.
type Format string

const (
	FormatColour   Format = "colour"
	FormatNoColour Format = "nocolour"
	FormatSyslogd  Format = "syslogd"
)

func (f Format) Valid() bool {
	switch f {
	case FormatColour, FormatNoColour, FormatSyslogd:
		return true
	}
	return false
}

// ParseFormat accepts the three format names ("color"/"nocolor" too).
// An empty string selects FormatColour.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "colour", "color":
		return FormatColour, nil
	case "nocolour", "nocolor":
		return FormatNoColour, nil
	case "syslogd":
		return FormatSyslogd, nil
	}
	return "", errors.Wrapf(ErrUnknownFormat, "%q", s)
}

// ColourMode controls colour capability resolution.
type ColourMode uint8

const (
	ColourAuto ColourMode = iota // detect from the writer and environment
	ColourAlways
	ColourNever
)

// ParseColourMode accepts auto, always and never.
func ParseColourMode(s string) (ColourMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ColourAuto, nil
	case "always", "on", "true":
		return ColourAlways, nil
	case "never", "off", "false":
		return ColourNever, nil
	}
	return 0, errors.Errorf("xlogpub: unknown colour mode %q", s)
}

// DefaultSystemRole is the role shown for events without a subsystem tag.
const DefaultSystemRole = "Controller"

// Options configures a console observer. Zero values select the defaults of
// the observer's direction.
type Options struct {
	// Levels accepted; nil selects PrimaryLevels or SecondaryLevels. An empty
	// set accepts nothing.
	Levels *LevelSet
	// ShowSource appends the source's type name to the subsystem label.
	ShowSource bool
	// Format defaults to FormatColour.
	Format Format
	// Writer defaults to the captured stdout or stderr.
	Writer io.Writer
	// Colour is resolved once at construction.
	Colour ColourMode
	// Diagnostics receives configuration problems; defaults to the captured stderr.
	Diagnostics io.Writer
	// Pid shown in the default subsystem label; defaults to os.Getpid().
	Pid int
	// TimeFormat defaults to TimeLayout.
	TimeFormat string
}

// ConsoleObserver filters events by level and writes one rendered line per
// accepted event to its writer.
type ConsoleObserver struct {
	dir          Direction
	levels       LevelSet
	showSource   bool
	format       Format
	palette      Palette
	timeFormat   string
	defaultLabel string

	mu   sync.Mutex
	w    io.Writer
	diag io.Writer

	badFormat sync.Once
}

// NewStandardOutObserver builds the primary observer: {info, debug} to stdout.
func NewStandardOutObserver(opts Options) *ConsoleObserver {
	return NewConsoleObserver(Primary, opts)
}

// NewStandardErrObserver builds the secondary observer: {warn, error, critical} to stderr.
func NewStandardErrObserver(opts Options) *ConsoleObserver {
	return NewConsoleObserver(Secondary, opts)
}

// NewConsoleObserver applies the defaults of dir to opts.
func NewConsoleObserver(dir Direction, opts Options) *ConsoleObserver {
	streams := CapturedStreams()
	o := &ConsoleObserver{
		dir:        dir,
		showSource: opts.ShowSource,
		format:     opts.Format,
		timeFormat: opts.TimeFormat,
		w:          opts.Writer,
		diag:       opts.Diagnostics,
	}
	switch {
	case opts.Levels != nil:
		o.levels = *opts.Levels
	case dir == Secondary:
		o.levels = SecondaryLevels
	default:
		o.levels = PrimaryLevels
	}
	if o.format == "" {
		o.format = FormatColour
	}
	if o.w == nil {
		o.w = streams.Stdout
		if dir == Secondary {
			o.w = streams.Stderr
		}
	}
	if o.diag == nil {
		o.diag = streams.Stderr
	}
	pid := opts.Pid
	if pid == 0 {
		pid = os.Getpid()
	}
	o.defaultLabel = fmt.Sprintf("%-10s %6d", DefaultSystemRole, pid)

	switch opts.Colour {
	case ColourAlways:
		o.palette = ANSIPalette
	case ColourNever:
		o.palette = Palette{}
	default:
		o.palette = PaletteFor(ColourEnabled(o.w))
	}
	return o
}

func (o *ConsoleObserver) Direction() Direction { return o.dir }
func (o *ConsoleObserver) Levels() LevelSet     { return o.levels }
func (o *ConsoleObserver) Format() Format       { return o.format }

// Observe renders and writes e when its level is accepted.
func (o *ConsoleObserver) Observe(e Event) error {
	if !o.levels.Has(e.Level) {
		return nil
	}
	buf := getBuf()
	defer putBuf(buf)
	o.render(buf, e)

	o.mu.Lock()
	_, err := o.w.Write(buf.b)
	o.mu.Unlock()
	if err != nil {
		return &DeliveryError{Observer: o.dir.String(), Err: err}
	}
	return nil
}

// Label returns the subsystem label shown for e.
func (o *ConsoleObserver) Label(e Event) string {
	label := e.System
	if !e.HasSystem() {
		label = o.defaultLabel
	}
	if o.showSource && e.Source != nil {
		label += " " + TypeName(e.Source)
	}
	return label
}

func (o *ConsoleObserver) render(buf *buffer, e Event) {
	start := len(buf.b)
	label := o.Label(e)
	switch o.format {
	case FormatColour:
		colour := o.palette.Red
		if o.dir == Primary {
			colour = o.palette.SystemColour(label)
		}
		buf.writeString(colour)
		buf.writeString(formatTimeLayout(e.Time, o.timeFormat))
		buf.writeString(" [")
		buf.writeString(label)
		buf.writeByte(']')
		buf.writeString(o.palette.Reset)
		buf.writeByte(' ')
	case FormatSyslogd:
		buf.writeByte('[')
		buf.writeString(label)
		buf.writeString("] ")
	case FormatNoColour:
		o.writePlainPrefix(buf, e, label)
	default:
		o.badFormat.Do(func() {
			fmt.Fprintf(o.diag, "xlogpub: %s observer: unknown format %q, rendering as %s\n",
				o.dir, string(o.format), FormatNoColour)
		})
		o.writePlainPrefix(buf, e, label)
	}
	appendTemplate(buf, e.Template, e.Params)
	escapeLineBreaks(buf, start)
	buf.writeByte('\n')
}

// escapeLineBreaks rewrites CR and LF in buf.b[start:] as \r and \n so one
// event stays one output line.
func escapeLineBreaks(buf *buffer, start int) {
	if bytes.IndexAny(buf.b[start:], "\r\n") < 0 {
		return
	}
	msg := append([]byte(nil), buf.b[start:]...)
	buf.b = buf.b[:start]
	for _, c := range msg {
		switch c {
		case '\n':
			buf.writeString(`\n`)
		case '\r':
			buf.writeString(`\r`)
		default:
			buf.writeByte(c)
		}
	}
}

func (o *ConsoleObserver) writePlainPrefix(buf *buffer, e Event, label string) {
	buf.writeString(formatTimeLayout(e.Time, o.timeFormat))
	buf.writeString(" [")
	buf.writeString(label)
	buf.writeString("] ")
}

package xlogpub

import (
	"io"
	"os"
)

// Streams are the process output streams as they were before any redirection.
// Observers write here so their output never re-enters the Publisher when
// os.Stdout/os.Stderr are later redirected into it.
type Streams struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Captured at package init, before StartLogging can redirect anything.
var captured = Streams{Stdout: os.Stdout, Stderr: os.Stderr}

// CapturedStreams returns the streams captured at startup.
func CapturedStreams() Streams { return captured }

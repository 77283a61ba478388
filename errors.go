package xlogpub

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrUnknownLevel   = errors.New("xlogpub: unknown level")
	ErrUnknownFormat  = errors.New("xlogpub: unknown format")
	ErrAlreadyStarted = errors.New("xlogpub: logging already started")
	ErrNilObserver    = errors.New("xlogpub: nil observer")
)

// DeliveryError reports a failed write to an observer's stream.
type DeliveryError struct {
	Observer string
	Err      error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("xlogpub: %s observer: write failed: %v", e.Observer, e.Err)
}

func (e *DeliveryError) Cause() error  { return e.Err }
func (e *DeliveryError) Unwrap() error { return e.Err }

// PanicError wraps a value recovered from a panicking observer.
type PanicError struct {
	Index int
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("xlogpub: observer %d panicked: %v", e.Index, e.Value)
}

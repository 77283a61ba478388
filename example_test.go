package xlogpub_test

import (
	"os"

	"github.com/trickstertwo/xlogpub"
)

func Example() {
	pub := xlogpub.NewPublisher()
	pub.Subscribe(xlogpub.NewStandardOutObserver(xlogpub.Options{
		Writer: os.Stdout,
		Format: xlogpub.FormatSyslogd,
	}))
	// Errors go to a second observer; here it shares stdout so the example can show it.
	pub.Subscribe(xlogpub.NewStandardErrObserver(xlogpub.Options{
		Writer: os.Stdout,
		Format: xlogpub.FormatSyslogd,
	}))

	log := pub.Logger("Router 1")
	log.Info("user {name} logged in", xlogpub.Str("name", "alice"))
	log.Debug("session {id} opened", xlogpub.Int("id", 7))
	log.Critical("lost {name}", xlogpub.Str("who", "bob"))

	// Output:
	// [Router 1] user alice logged in
	// [Router 1] session 7 opened
	// [Router 1] lost {name:MISSING}
}

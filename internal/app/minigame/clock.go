// Package minigame implements the mini-activity state machines
// (cloud catcher, lantern release, garden bloom) and the outer session
// timer that wraps every activity type.
//
// All machines are timer-driven and cooperative: one cancellable timer
// handle per machine, no recursive timer closures. Cancellation marks the
// machine stopped so already-scheduled callbacks become inert, and the
// completion callback fires exactly once per session.
package minigame

import "time"

// Timer is a cancellable one-shot timer handle.
type Timer interface {
	// Stop prevents the timer from firing. Returns false if it already
	// fired or was stopped.
	Stop() bool
}

// Clock abstracts time so tests can drive the machines on virtual time.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock returns the wall-clock implementation used in production.
func SystemClock() Clock { return systemClock{} }

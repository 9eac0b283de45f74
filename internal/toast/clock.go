package toast

import "time"

// Timer is a pending expiry that can be cancelled.
type Timer interface {
	Stop() bool
}

// Clock schedules expiry callbacks. The wall clock is used unless a
// Manager is built with WithClock.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

func (wallClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

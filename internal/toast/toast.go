// Package toast keeps the set of transient status messages shown by the
// dashboard. Every toast gets a unique id at creation and is removed either
// when its lifetime runs out or when someone dismisses it, whichever comes
// first. Whichever arrives second does nothing.
package toast

import "time"

// Severity classifies a toast. It only changes how the toast is drawn.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// DefaultLifetime is used by the severity helpers when the caller does not
// pass a lifetime.
const DefaultLifetime = 3 * time.Second

// Severities lists every known severity.
var Severities = []Severity{SeveritySuccess, SeverityError, SeverityWarning, SeverityInfo}

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	switch s {
	case SeveritySuccess, SeverityError, SeverityWarning, SeverityInfo:
		return true
	}
	return false
}

func (s Severity) normalize() Severity {
	if s.Valid() {
		return s
	}
	return SeverityInfo
}

// Notification is one active toast.
type Notification struct {
	ID        string
	Message   string
	Severity  Severity
	Lifetime  time.Duration // zero means the toast stays until dismissed
	CreatedAt time.Time
}

// AutoDismiss reports whether the toast expires on its own.
func (n Notification) AutoDismiss() bool {
	return n.Lifetime > 0
}

// Item is the render-facing view of a toast.
type Item struct {
	ID       string
	Message  string
	Severity Severity
}

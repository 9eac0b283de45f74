package toast

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type entry struct {
	note  Notification
	timer Timer
}

// Manager owns the ordered collection of active toasts and their expiry
// timers. One Manager is meant to be shared by every part of the UI that
// shows toasts.
//
// Expiry callbacks run on timer goroutines, so all state sits behind mu.
// Subscribers are always called with mu released.
type Manager struct {
	mu              sync.Mutex
	clock           Clock
	log             zerolog.Logger
	defaultLifetime time.Duration

	seq     uint64
	order   []string
	entries map[string]*entry

	subs    map[int]func()
	nextSub int
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(c Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithDefaultLifetime sets the lifetime used by Success, Error, Warning and
// Info when no lifetime is passed. Values <= 0 make those toasts sticky.
func WithDefaultLifetime(d time.Duration) Option {
	return func(m *Manager) { m.defaultLifetime = d }
}

// WithLogger sets the logger used for debug events.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// New creates an empty Manager.
func New(opts ...Option) *Manager {
	m := &Manager{
		clock:           wallClock{},
		log:             zerolog.Nop(),
		defaultLifetime: DefaultLifetime,
		entries:         make(map[string]*entry),
		subs:            make(map[int]func()),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Show adds a toast and returns its id. A positive lifetime schedules an
// automatic dismiss; zero or negative keeps the toast until Dismiss or Clear.
func (m *Manager) Show(message string, severity Severity, lifetime time.Duration) string {
	if lifetime < 0 {
		lifetime = 0
	}

	m.mu.Lock()
	m.seq++
	id := newID(m.seq)
	e := &entry{note: Notification{
		ID:        id,
		Message:   message,
		Severity:  severity.normalize(),
		Lifetime:  lifetime,
		CreatedAt: m.clock.Now(),
	}}
	m.entries[id] = e
	m.order = append(m.order, id)
	if lifetime > 0 {
		e.timer = m.clock.AfterFunc(lifetime, func() { m.expire(id, e) })
	}
	m.mu.Unlock()

	m.notify()
	return id
}

// Success shows a success toast. lifetime is optional.
func (m *Manager) Success(message string, lifetime ...time.Duration) string {
	return m.Show(message, SeveritySuccess, m.lifetimeOr(lifetime))
}

// Error shows an error toast. lifetime is optional.
func (m *Manager) Error(message string, lifetime ...time.Duration) string {
	return m.Show(message, SeverityError, m.lifetimeOr(lifetime))
}

// Warning shows a warning toast. lifetime is optional.
func (m *Manager) Warning(message string, lifetime ...time.Duration) string {
	return m.Show(message, SeverityWarning, m.lifetimeOr(lifetime))
}

// Info shows an info toast. lifetime is optional.
func (m *Manager) Info(message string, lifetime ...time.Duration) string {
	return m.Show(message, SeverityInfo, m.lifetimeOr(lifetime))
}

func (m *Manager) lifetimeOr(lifetime []time.Duration) time.Duration {
	if len(lifetime) > 0 {
		return lifetime[0]
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.defaultLifetime
}

// Dismiss removes the toast with the given id and cancels its timer.
// Unknown ids are ignored.
func (m *Manager) Dismiss(id string) {
	m.mu.Lock()
	e, ok := m.entries[id]
	if !ok {
		m.mu.Unlock()
		m.log.Debug().Str("id", id).Msg("dismiss: toast not active")
		return
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	m.remove(id)
	m.mu.Unlock()

	m.notify()
}

// Clear removes every toast and cancels every pending timer.
func (m *Manager) Clear() {
	m.mu.Lock()
	n := len(m.order)
	for _, e := range m.entries {
		if e.timer != nil {
			e.timer.Stop()
		}
	}
	m.entries = make(map[string]*entry)
	m.order = nil
	m.mu.Unlock()

	if n > 0 {
		m.notify()
	}
}

// expire is the timer callback. It only removes the toast if e is still the
// live entry for id; a timer that lost the race against Dismiss or Clear
// finds nothing and returns.
func (m *Manager) expire(id string, e *entry) {
	m.mu.Lock()
	if cur, ok := m.entries[id]; !ok || cur != e {
		m.mu.Unlock()
		return
	}
	m.remove(id)
	m.mu.Unlock()

	m.log.Debug().Str("id", id).Msg("toast expired")
	m.notify()
}

// remove drops id from the collection. Caller holds mu.
func (m *Manager) remove(id string) {
	delete(m.entries, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Active returns the current toasts, oldest first.
func (m *Manager) Active() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Notification, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.entries[id].note)
	}
	return out
}

// Display returns the render list for the view layer, oldest first.
func (m *Manager) Display() []Item {
	active := m.Active()
	items := make([]Item, len(active))
	for i, n := range active {
		items[i] = Item{ID: n.ID, Message: n.Message, Severity: n.Severity}
	}
	return items
}

// Newest returns the most recently shown toast that is still active.
func (m *Manager) Newest() (Notification, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.order) == 0 {
		return Notification{}, false
	}
	return m.entries[m.order[len(m.order)-1]].note, true
}

// Len returns the number of active toasts.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.order)
}

// Subscribe registers fn to run after every change to the collection,
// including changes made by expiring timers. The returned func removes it.
func (m *Manager) Subscribe(fn func()) (cancel func()) {
	m.mu.Lock()
	key := m.nextSub
	m.nextSub++
	m.subs[key] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, key)
		m.mu.Unlock()
	}
}

func (m *Manager) notify() {
	m.mu.Lock()
	subs := make([]func(), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// newID combines the per-manager sequence with a random suffix so ids stay
// unique across managers too.
func newID(seq uint64) string {
	return fmt.Sprintf("toast_%d_%s", seq, uuid.NewString()[:8])
}

package export

import (
	"log/slog"
	"sync"
)

const (
	// JournalMessages is the host side-effect of popping up a message each
	// time a journal entry is revealed, which happens when cells are rendered.
	JournalMessages = "journal-messages"
)

// Suppressor switches off named host side-effects for a scope.
type Suppressor interface {
	// Suppress `name` until the returned func is called.
	Suppress(name string) (release func())

	// Suppressed returns if `name` is currently suppressed.
	Suppressed(name string) bool
}

// Suppressions is a Suppressor counting nested scopes per name.
type Suppressions struct {
	lock   sync.Mutex
	counts map[string]int
}

// NewSuppressions returns an empty set of suppressions.
func NewSuppressions() *Suppressions {
	return &Suppressions{counts: map[string]int{}}
}

// Suppress `name`. The side-effect stays off until every scope on it has
// been released; releasing twice is harmless.
func (s *Suppressions) Suppress(name string) func() {
	s.lock.Lock()
	s.counts[name]++
	s.lock.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.lock.Lock()
			defer s.lock.Unlock()
			s.counts[name]--
			if s.counts[name] <= 0 {
				delete(s.counts, name)
			}
		})
	}
}

// Suppressed returns if `name` is held by any scope.
func (s *Suppressions) Suppressed(name string) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.counts[name] > 0
}

// MessageLog is the host's message sink. Messages are dropped while
// JournalMessages is suppressed.
type MessageLog struct {
	suppress Suppressor
	logger   *slog.Logger

	lock     sync.Mutex
	messages []string
	dropped  int
}

// NewMessageLog returns a message sink gated by `s`.
func NewMessageLog(s Suppressor) *MessageLog {
	return &MessageLog{suppress: s, logger: slog.With("d", "messages")}
}

// Display shows a message unless suppressed. Returns if it was shown.
func (m *MessageLog) Display(msg string) bool {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.suppress != nil && m.suppress.Suppressed(JournalMessages) {
		m.dropped++
		return false
	}

	m.messages = append(m.messages, msg)
	m.logger.Info(msg)
	return true
}

// Messages returns everything displayed so far.
func (m *MessageLog) Messages() []string {
	m.lock.Lock()
	defer m.lock.Unlock()
	return append([]string{}, m.messages...)
}

// Dropped returns how many messages were suppressed.
func (m *MessageLog) Dropped() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.dropped
}

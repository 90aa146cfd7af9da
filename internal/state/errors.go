package state

import (
	"time"

	"github.com/rs/zerolog/log"
)

// ErrorEntry is one user visible failure.
type ErrorEntry struct {
	Err  error
	Time time.Time
}

// Errors is the shared error surface. Every component reports failures here
// instead of handling display itself.
type Errors struct {
	*Store[[]ErrorEntry]
	now func() time.Time
}

func NewErrors() *Errors {
	return &Errors{Store: NewStore[[]ErrorEntry](nil), now: time.Now}
}

// Add records err; nil is ignored.
func (e *Errors) Add(err error) {
	if err == nil {
		return
	}
	log.Error().Err(err).Msg("surfaced error")
	entry := ErrorEntry{Err: err, Time: e.now()}
	e.Update(func(cur []ErrorEntry) []ErrorEntry {
		next := make([]ErrorEntry, 0, len(cur)+1)
		next = append(next, cur...)
		return append(next, entry)
	})
}

// Dismiss drops the oldest error.
func (e *Errors) Dismiss() {
	e.Update(func(cur []ErrorEntry) []ErrorEntry {
		if len(cur) == 0 {
			return cur
		}
		return append([]ErrorEntry(nil), cur[1:]...)
	})
}

// Latest returns the oldest undismissed error, if any.
func (e *Errors) Latest() (ErrorEntry, bool) {
	cur := e.Get()
	if len(cur) == 0 {
		return ErrorEntry{}, false
	}
	return cur[0], true
}

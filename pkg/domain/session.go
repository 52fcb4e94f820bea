package domain

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ErrInvalidSessionID is returned for session IDs that are empty or unsafe as storage keys.
var ErrInvalidSessionID = errors.New("invalid session id")

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,127}$`)

// ValidateSessionID checks that id can be used as a file name or key suffix.
func ValidateSessionID(id string) error {
	if !sessionIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}
	return nil
}

// Session is the persisted form of an engine.
// History holds every recorded Move (without the initial sentinel) and Cursor counts
// how many of them are currently applied to Chart.
// Sealed is only set on encrypted envelopes; it then holds the whole session.
type Session struct {
	ID        string    `json:"id"`
	Chart     Chart     `json:"chart"`
	History   []Move    `json:"history,omitempty"`
	Cursor    int       `json:"cursor"`
	UpdatedAt time.Time `json:"updated_at"`
	Sealed    []byte    `json:"sealed,omitempty"`
}

// NewSession creates a session with an empty history.
func NewSession(id string, chart Chart) *Session {
	return &Session{
		ID:        id,
		Chart:     chart,
		History:   []Move{},
		UpdatedAt: time.Now(),
	}
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	c := *s
	c.Chart = cloneChart(s.Chart)
	c.History = make([]Move, len(s.History))
	for i, m := range s.History {
		m.OriginalSubordinates = append([]int(nil), m.OriginalSubordinates...)
		c.History[i] = m
	}
	c.Sealed = append([]byte(nil), s.Sealed...)
	return &c
}

func cloneChart(c Chart) Chart {
	out := Chart{ID: c.ID}
	if len(c.Subordinates) > 0 {
		out.Subordinates = make([]Chart, len(c.Subordinates))
		for i, sub := range c.Subordinates {
			out.Subordinates[i] = cloneChart(sub)
		}
	}
	return out
}

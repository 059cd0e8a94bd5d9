// Package session keeps each visitor's page state between requests. The
// state is keyed by the id carried in the signed session cookie.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/dinner-invite/internal/reservation"
)

// ErrNotFound is returned when no state exists for an id (never saved or
// expired).
var ErrNotFound = errors.New("session not found")

// Notice kinds.
const (
	NoticeSuccess = "success"
	NoticeError   = "error"
)

// Notice is a one-shot status line shown under the name form.
type Notice struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// State is everything the page needs for one visitor: the reservation
// session plus the view-only bits around it.
type State struct {
	Booking   *reservation.Session `json:"booking"`
	Draft     string               `json:"draft,omitempty"`
	Notice    *Notice              `json:"notice,omitempty"`
	Joke      string               `json:"joke,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

// NewState returns a fresh state for a table of n seats.
func NewState(n int) *State {
	return &State{
		Booking:   reservation.NewSession(n),
		CreatedAt: time.Now().UTC(),
	}
}

// Flash sets the notice for the next render.
func (s *State) Flash(kind, text string) {
	s.Notice = &Notice{Kind: kind, Text: text}
}

// TakeNotice returns the pending notice and clears it.
func (s *State) TakeNotice() *Notice {
	n := s.Notice
	s.Notice = nil
	return n
}

// Store persists State by session id.
type Store interface {
	Get(ctx context.Context, id string) (*State, error)
	Save(ctx context.Context, id string, st *State) error
}

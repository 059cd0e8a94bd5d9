// Package reservation implements the seat reservation flow: loading the
// occupancy snapshot, selecting a free seat and committing it to the
// guest store. All state lives in a Session passed in by the caller.
package reservation

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/dinner-invite/internal/model"
	"github.com/iliyamo/dinner-invite/internal/pkg/logger"
)

// GuestStore is the remote table of reservations.
type GuestStore interface {
	List(ctx context.Context) ([]model.Reservation, error)
	Insert(ctx context.Context, r model.Reservation) error
}

// Notifier is told about every committed reservation.
type Notifier interface {
	Reserved(ctx context.Context, r model.Reservation) error
}

// Engine runs reservation operations against a GuestStore.
type Engine struct {
	store    GuestStore
	notifier Notifier
}

// Option configures an Engine.
type Option func(*Engine)

// WithNotifier attaches n to receive committed reservations.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// NewEngine constructs an Engine. store must be non-nil.
func NewEngine(store GuestStore, opts ...Option) *Engine {
	if store == nil {
		panic("nil store passed to NewEngine")
	}
	e := &Engine{store: store}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// LoadOccupancy replaces the session snapshot with every row in the
// store. On failure the snapshot is left untouched, the error is
// recorded on the session and a *FetchError is returned.
func (e *Engine) LoadOccupancy(ctx context.Context, s *Session) error {
	rows, err := e.store.List(ctx)
	if err != nil {
		s.LoadErr = err.Error()
		return &FetchError{Err: err}
	}

	occupied := make([]model.Reservation, 0, len(rows))
	for _, r := range rows {
		if !r.Seat.Valid(s.Seats) {
			// rows from a larger table layout
			continue
		}
		occupied = append(occupied, r)
	}
	s.Occupied = occupied
	s.Loaded = true
	s.LoadErr = ""

	if s.HasSelection() {
		if _, taken := s.OccupantOf(s.Selected); taken {
			s.Selected = 0
		}
	}
	return nil
}

// SelectSeat toggles the selection of seat. Seats outside the table,
// seats in the snapshot, and any seat while occupancy is unknown are
// rejected without touching the current selection.
func (e *Engine) SelectSeat(s *Session, seat model.Seat) error {
	if !seat.Valid(s.Seats) {
		return ErrSeatOutOfRange
	}
	if !s.Loaded {
		return ErrOccupancyUnknown
	}
	if _, taken := s.OccupantOf(seat); taken {
		return ErrSeatOccupied
	}

	if s.Selected == seat {
		s.Selected = 0
		return nil
	}
	s.Selected = seat
	return nil
}

// Submit validates name and the selection, then inserts the reservation.
// The name is checked first. On a store failure the session is left as
// it was so the guest can try again.
func (e *Engine) Submit(ctx context.Context, s *Session, name string) (model.Reservation, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Reservation{}, ErrEmptyName
	}
	if !s.HasSelection() {
		return model.Reservation{}, ErrNoSeatSelected
	}

	r := model.Reservation{Seat: s.Selected, Name: name}
	if err := e.store.Insert(ctx, r); err != nil {
		return model.Reservation{}, &StoreError{Err: err}
	}

	s.Occupied = append(s.Occupied, r)
	s.Selected = 0

	if e.notifier != nil {
		if err := e.notifier.Reserved(ctx, r); err != nil {
			logger.Warn("reservation notify failed",
				zap.Int("seat", int(r.Seat)),
				zap.Error(err),
			)
		}
	}
	return r, nil
}

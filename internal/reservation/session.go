package reservation

import (
	"github.com/iliyamo/dinner-invite/internal/model"
)

// Session is one visitor's view of the table: the occupancy snapshot
// mirrored from the store plus the seat they are about to claim. It is
// owned by the caller and handed to every Engine operation.
//
// Occupied is only ever appended to after the first successful load;
// a reload replaces it wholesale. Selected is zero when nothing is
// selected.
type Session struct {
	Seats    int                 `json:"seats"`
	Occupied []model.Reservation `json:"occupied"`
	Loaded   bool                `json:"loaded"`
	LoadErr  string              `json:"load_err,omitempty"`
	Selected model.Seat          `json:"selected,omitempty"`
}

// NewSession returns an empty session for a table of n seats. Its
// occupancy is unknown until LoadOccupancy succeeds.
func NewSession(n int) *Session {
	return &Session{Seats: n, Occupied: []model.Reservation{}}
}

// OccupantOf returns the guest name holding seat, if any.
func (s *Session) OccupantOf(seat model.Seat) (string, bool) {
	for _, r := range s.Occupied {
		if r.Seat == seat {
			return r.Name, true
		}
	}
	return "", false
}

// HasSelection reports whether a seat is currently selected.
func (s *Session) HasSelection() bool {
	return s.Selected != 0
}

// FreeSeats counts seats not present in the snapshot.
func (s *Session) FreeSeats() int {
	free := 0
	for i := 1; i <= s.Seats; i++ {
		if _, taken := s.OccupantOf(model.Seat(i)); !taken {
			free++
		}
	}
	return free
}

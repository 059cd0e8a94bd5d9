package model

// Reservation binds one seat to one guest name.  It mirrors a row of the
// guests table and is never updated or deleted once written.
//
// Fields:
//  Seat – the reserved seat (guests.seat, primary key).
//  Name – the trimmed guest name (guests.name).
type Reservation struct {
	Seat Seat   `json:"seat"` // guests.seat
	Name string `json:"name"` // guests.name
}

package model

// Seat identifies one chair at the table.  Seats are numbered from 1 up to
// the table size; the number never changes once the table is laid out.
type Seat int

// Valid reports whether s falls within a table of n seats.
func (s Seat) Valid(n int) bool {
	return s >= 1 && int(s) <= n
}

// TopRow reports whether s sits on the upper long side of a table of n
// seats.  The first half of the numbers go on top, the rest below.
func (s Seat) TopRow(n int) bool {
	return int(s) <= (n+1)/2
}

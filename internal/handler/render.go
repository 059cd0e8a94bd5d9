package handler

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dinner-invite/internal/model"
	"github.com/iliyamo/dinner-invite/internal/session"
)

// Templates renders the embedded html/template set for echo.
type Templates struct {
	t *template.Template
}

// NewTemplates parses every templates/*.html file in fsys.
func NewTemplates(fsys fs.FS) (*Templates, error) {
	t, err := template.New("").ParseFS(fsys, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Templates{t: t}, nil
}

// Render implements echo.Renderer.
func (t *Templates) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return t.t.ExecuteTemplate(w, name, data)
}

type seatView struct {
	Number   int
	Occupant string
	Occupied bool
	Selected bool
	Disabled bool
}

// Title is the hover text of the seat button.
func (s seatView) Title() string {
	if s.Occupied {
		return fmt.Sprintf("Chair %d - %s", s.Number, s.Occupant)
	}
	return fmt.Sprintf("Chair %d", s.Number)
}

type pageView struct {
	Top        []seatView
	Bottom     []seatView
	Loaded     bool
	LoadFailed bool
	Selected   int
	Free       int
	Draft      string
	Notice     *session.Notice
	Joke       string
}

// buildPage turns the visitor's state into what the template shows. The
// first half of the seats sits along the top of the table.
func buildPage(st *session.State, notice *session.Notice) pageView {
	b := st.Booking
	v := pageView{
		Loaded:     b.Loaded,
		LoadFailed: !b.Loaded && b.LoadErr != "",
		Selected:   int(b.Selected),
		Draft:      st.Draft,
		Notice:     notice,
		Joke:       st.Joke,
	}
	if b.Loaded {
		v.Free = b.FreeSeats()
	}

	for i := 1; i <= b.Seats; i++ {
		seat := model.Seat(i)
		name, taken := b.OccupantOf(seat)
		sv := seatView{
			Number:   i,
			Occupant: name,
			Occupied: taken,
			Selected: b.Selected == seat,
			Disabled: taken || !b.Loaded,
		}
		if seat.TopRow(b.Seats) {
			v.Top = append(v.Top, sv)
		} else {
			v.Bottom = append(v.Bottom, sv)
		}
	}
	return v
}

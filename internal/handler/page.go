// Package handler exposes the HTTP handlers of the invitation site. The
// page handlers follow post/redirect/get: every form post mutates the
// visitor's session state and redirects back to "/".
package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/dinner-invite/internal/joke"
	"github.com/iliyamo/dinner-invite/internal/middleware"
	"github.com/iliyamo/dinner-invite/internal/model"
	"github.com/iliyamo/dinner-invite/internal/pkg/logger"
	"github.com/iliyamo/dinner-invite/internal/pkg/metrics"
	"github.com/iliyamo/dinner-invite/internal/reservation"
	"github.com/iliyamo/dinner-invite/internal/session"
)

// Messages shown under the name form.
const (
	msgEmptyName  = "Please enter your name first!"
	msgNoSeat     = "Please select a seat!"
	msgStorePrefx = "Error: "
	msgSlowDown   = "Slow down! Try again in %d seconds."
)

// PageHandler serves the invitation page and its form posts.
type PageHandler struct {
	Engine   *reservation.Engine
	Sessions session.Store
	Metrics  *metrics.Metrics
	Seats    int
}

// seatParam is the path parameter of POST /seats/:seat/select.
type seatParam struct {
	Seat int `param:"seat" validate:"min=1"`
}

// Index renders the page for the current visitor.
func (h *PageHandler) Index(c echo.Context) error {
	st, err := h.state(c)
	if err != nil {
		return err
	}
	view := buildPage(st, st.TakeNotice())
	if err := h.save(c, st); err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.Render(http.StatusOK, "index.html", view)
}

// SelectSeat toggles the visitor's selection. Clicks on seats that cannot
// be selected are ignored.
func (h *PageHandler) SelectSeat(c echo.Context) error {
	var p seatParam
	if err := (&echo.DefaultBinder{}).BindPathParams(c, &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid seat")
	}
	if err := c.Validate(&p); err != nil {
		return err
	}

	st, err := h.state(c)
	if err != nil {
		return err
	}
	keepDraft(c, st)

	before := st.Booking.Selected
	seat := model.Seat(p.Seat)
	switch err := h.Engine.SelectSeat(st.Booking, seat); {
	case err != nil:
		h.countSelection("rejected")
		logger.Debug("seat click ignored",
			zap.Int("seat", p.Seat),
			zap.String("reason", err.Error()),
		)
	case before == seat:
		h.countSelection("deselected")
	default:
		h.countSelection("selected")
	}
	return h.saveAndRedirect(c, st)
}

// Submit commits the selected seat under the posted name.
func (h *PageHandler) Submit(c echo.Context) error {
	st, err := h.state(c)
	if err != nil {
		return err
	}

	name := c.FormValue("name")
	st.Draft = name

	r, err := h.Engine.Submit(c.Request().Context(), st.Booking, name)
	var storeErr *reservation.StoreError
	switch {
	case err == nil:
		st.Draft = ""
		st.Flash(session.NoticeSuccess, fmt.Sprintf("✅ %s saved to seat %d!", r.Name, r.Seat))
		h.countReservation("success")
		logger.Info("seat reserved",
			zap.Int("seat", int(r.Seat)),
			zap.String("session", middleware.SessionID(c)),
		)
	case errors.Is(err, reservation.ErrEmptyName):
		st.Flash(session.NoticeError, msgEmptyName)
		h.countReservation("invalid")
	case errors.Is(err, reservation.ErrNoSeatSelected):
		st.Flash(session.NoticeError, msgNoSeat)
		h.countReservation("invalid")
	case errors.As(err, &storeErr):
		st.Flash(session.NoticeError, msgStorePrefx+storeErr.Message())
		h.countReservation("store_error")
		logger.Warn("reservation insert failed",
			zap.Int("seat", int(st.Booking.Selected)),
			zap.Error(err),
		)
	default:
		return err
	}
	return h.saveAndRedirect(c, st)
}

// Refresh reloads the occupancy snapshot.
func (h *PageHandler) Refresh(c echo.Context) error {
	st, err := h.state(c)
	if err != nil {
		return err
	}
	keepDraft(c, st)
	h.load(c, st)
	return h.saveAndRedirect(c, st)
}

// Joke draws a new joke for the joke box.
func (h *PageHandler) Joke(c echo.Context) error {
	st, err := h.state(c)
	if err != nil {
		return err
	}
	keepDraft(c, st)
	st.Joke = joke.Next()
	if h.Metrics != nil {
		h.Metrics.JokesServedTotal.Inc()
	}
	return h.saveAndRedirect(c, st)
}

// RateLimited answers a blocked form post with a notice on the page
// instead of an error body. The request is not applied.
func (h *PageHandler) RateLimited(c echo.Context, retryAfter int) error {
	st, err := h.state(c)
	if err != nil {
		return err
	}
	keepDraft(c, st)
	if retryAfter < 1 {
		retryAfter = 1
	}
	st.Flash(session.NoticeError, fmt.Sprintf(msgSlowDown, retryAfter))
	return h.saveAndRedirect(c, st)
}

// state returns the visitor's state. A visitor without one, or whose state
// was built for another table size, gets a fresh state with one full load.
// A session minted on this request has nothing stored yet.
func (h *PageHandler) state(c echo.Context) (*session.State, error) {
	if !middleware.IsNewSession(c) {
		st, err := h.Sessions.Get(c.Request().Context(), middleware.SessionID(c))
		switch {
		case err == nil && st.Booking != nil && st.Booking.Seats == h.Seats:
			return st, nil
		case err != nil && !errors.Is(err, session.ErrNotFound):
			logger.Error("session load failed", zap.Error(err))
			return nil, echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
		}
	}

	st := session.NewState(h.Seats)
	h.load(c, st)
	return st, nil
}

// keepDraft stores the name typed so far. Every button on the page posts
// the name field along, so a click elsewhere does not lose it.
func keepDraft(c echo.Context, st *session.State) {
	form, err := c.FormParams()
	if err != nil {
		return
	}
	if v, ok := form["name"]; ok && len(v) > 0 {
		st.Draft = v[0]
	}
}

func (h *PageHandler) load(c echo.Context, st *session.State) {
	if err := h.Engine.LoadOccupancy(c.Request().Context(), st.Booking); err != nil {
		h.countLoad("error")
		logger.Warn("occupancy load failed", zap.Error(err))
		return
	}
	h.countLoad("success")
}

func (h *PageHandler) save(c echo.Context, st *session.State) error {
	if err := h.Sessions.Save(c.Request().Context(), middleware.SessionID(c), st); err != nil {
		logger.Error("session save failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
	}
	return nil
}

func (h *PageHandler) saveAndRedirect(c echo.Context, st *session.State) error {
	if err := h.save(c, st); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (h *PageHandler) countSelection(result string) {
	if h.Metrics != nil {
		h.Metrics.SeatSelectionsTotal.WithLabelValues(result).Inc()
	}
}

func (h *PageHandler) countReservation(status string) {
	if h.Metrics != nil {
		h.Metrics.ReservationsTotal.WithLabelValues(status).Inc()
	}
}

func (h *PageHandler) countLoad(result string) {
	if h.Metrics != nil {
		h.Metrics.OccupancyLoadsTotal.WithLabelValues(result).Inc()
	}
}

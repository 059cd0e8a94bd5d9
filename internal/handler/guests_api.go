package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/dinner-invite/internal/joke"
	"github.com/iliyamo/dinner-invite/internal/pkg/logger"
	"github.com/iliyamo/dinner-invite/internal/pkg/metrics"
	"github.com/iliyamo/dinner-invite/internal/reservation"
)

// GuestsHandler exposes the guest list and jokes as JSON.
type GuestsHandler struct {
	Store   reservation.GuestStore
	Metrics *metrics.Metrics
}

// List returns every reservation ordered by seat.
// Response JSON contains an "items" array of {seat, name}.
func (h *GuestsHandler) List(c echo.Context) error {
	rows, err := h.Store.List(c.Request().Context())
	if err != nil {
		logger.Error("guest list failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": rows})
}

// Joke returns one random joke.
func (h *GuestsHandler) Joke(c echo.Context) error {
	if h.Metrics != nil {
		h.Metrics.JokesServedTotal.Inc()
	}
	return c.JSON(http.StatusOK, echo.Map{"joke": joke.Next()})
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is a simple health-check endpoint used by load balancers and
// monitoring systems to verify that the service is running.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Version reports the running release.
func Version(release string) echo.HandlerFunc {
	body := "dinner-invite v" + release + "\n"
	return func(c echo.Context) error {
		return c.String(http.StatusOK, body)
	}
}

// Robots keeps crawlers away from the invitation.
func Robots(c echo.Context) error {
	return c.String(http.StatusOK, "User-agent: *\nDisallow: /\n")
}

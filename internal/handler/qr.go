package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/skip2/go-qrcode"
)

const qrSize = 320 // mobile-friendly size

// InviteQR returns a handler serving a PNG QR code that points at url.
// The image is generated once.
func InviteQR(url string) (echo.HandlerFunc, error) {
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("qr encode: %w", err)
	}
	return func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=3600")
		return c.Blob(http.StatusOK, "image/png", png)
	}, nil
}

package router // package router defines how HTTP routes are registered for the site

import (
	"io/fs"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/dinner-invite/internal/config"
	"github.com/iliyamo/dinner-invite/internal/handler"
	"github.com/iliyamo/dinner-invite/internal/middleware"
)

// RegisterRoutes registers operational endpoints that need no session:
// health, version, robots and the Prometheus scrape target.
func RegisterRoutes(e *echo.Echo, release string) {
	e.GET("/healthz", handler.Health)
	e.GET("/version", handler.Version(release))
	e.GET("/robots.txt", handler.Robots)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterPage registers the invitation page and its form posts.  They run
// behind the session cookie; the form posts are additionally rate limited
// per visitor, and a blocked post comes back to the page with a notice.
func RegisterPage(e *echo.Echo, p *handler.PageHandler, cfg config.Config, rl config.RateLimitConfig, rdb *redis.Client) {
	sess := middleware.SessionCookie(cfg.SessionSecret, cfg.SessionTTL, strings.HasPrefix(cfg.PublicURL, "https://"))
	limit := middleware.NewTokenBucket(rl, rdb, middleware.OnLimited(p.RateLimited))

	e.GET("/", p.Index, sess)
	e.POST("/seats/:seat/select", p.SelectSeat, sess, limit)
	e.POST("/reservations", p.Submit, sess, limit)
	e.POST("/occupancy/refresh", p.Refresh, sess, limit)
	e.POST("/joke", p.Joke, sess, limit)
}

// RegisterPublic registers unauthenticated JSON endpoints.  The guest list
// is served through the short-lived Redis response cache.
func RegisterPublic(e *echo.Echo, g *handler.GuestsHandler, cc config.CacheConfig, rdb *redis.Client) {
	e.GET("/v1/guests", g.List, middleware.NewRedisCache(cc, rdb))
	e.GET("/v1/joke", g.Joke)
}

// RegisterAssets registers the embedded static files and the invite QR.
func RegisterAssets(e *echo.Echo, static fs.FS, qr echo.HandlerFunc) {
	e.StaticFS("/static", static)
	e.GET("/invite.png", qr)
}

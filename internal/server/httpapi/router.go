// Package httpapi is the JSON-over-HTTP surface of the server, built on gin.
package httpapi

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/booklib/internal/logging"
	"github.com/dmitrijs2005/booklib/internal/server/catalog"
	"github.com/dmitrijs2005/booklib/internal/server/metrics"
	"github.com/dmitrijs2005/booklib/internal/server/ratelimit"
	"github.com/gin-gonic/gin"
)

var ginModeOnce sync.Once

// AccountService registers accounts and logs them in.
type AccountService interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (string, error)
}

// FavoritesService manages the favorites of a verified user.
type FavoritesService interface {
	List(ctx context.Context, username string) ([]catalog.Book, error)
	Add(ctx context.Context, username string, id catalog.BookID) error
	Remove(ctx context.Context, username string, id catalog.BookID) error
}

// TokenVerifier resolves an access token to a username.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Deps are the collaborators the handlers call into. Throttle and Metrics
// are optional.
type Deps struct {
	Accounts     AccountService
	Favorites    FavoritesService
	Catalog      catalog.Catalog
	Tokens       TokenVerifier
	LoginLimiter ratelimit.Limiter
	Throttle     ratelimit.Limiter
	Metrics      *metrics.Metrics
	Logger       logging.Logger
}

type Options struct {
	// Prefix is prepended to every API route, e.g. "/api".
	Prefix string
	// LoginWindow is only used to word the rate limit rejection and the
	// RateLimit-Policy header; the limiter itself enforces it.
	LoginWindow    time.Duration
	TrustedProxies []string
}

type handler struct {
	Deps
	loginWindow time.Duration
}

// NewRouter wires routes and middleware into a gin engine.
func NewRouter(d Deps, o Options) (*gin.Engine, error) {
	ginModeOnce.Do(func() {
		gin.SetMode(gin.ReleaseMode)
	})

	if d.Logger == nil {
		d.Logger = logging.Nop()
	}
	if d.Metrics == nil {
		d.Metrics = metrics.New()
	}
	if o.LoginWindow <= 0 {
		o.LoginWindow = 15 * time.Minute
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(o.TrustedProxies); err != nil {
		return nil, err
	}

	h := &handler{Deps: d, loginWindow: o.LoginWindow}

	engine.Use(requestID(), h.recovery(), h.accessLog(), h.observe())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	api := engine.Group(o.Prefix)
	if d.Throttle != nil {
		api.Use(h.throttle())
	}

	api.POST("/register", h.register)
	api.POST("/login", h.loginRateLimit(), h.login)

	gated := api.Group("", h.authGate())
	gated.GET("/books", h.listBooks)
	gated.GET("/favorites", h.listFavorites)
	gated.POST("/favorites", h.addFavorite)
	gated.DELETE("/favorites", h.removeFavorite)
	gated.DELETE("/favorites/:bookId", h.removeFavorite)

	return engine, nil
}

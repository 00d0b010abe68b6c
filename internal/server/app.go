// Package server wires configuration, storage, the login limiter and the
// transports together and runs them until the process is told to stop.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/booklib/internal/logging"
	"github.com/dmitrijs2005/booklib/internal/server/accounts"
	"github.com/dmitrijs2005/booklib/internal/server/auth"
	"github.com/dmitrijs2005/booklib/internal/server/catalog"
	"github.com/dmitrijs2005/booklib/internal/server/config"
	"github.com/dmitrijs2005/booklib/internal/server/favorites"
	"github.com/dmitrijs2005/booklib/internal/server/httpapi"
	"github.com/dmitrijs2005/booklib/internal/server/metrics"
	"github.com/dmitrijs2005/booklib/internal/server/ratelimit"
	"github.com/dmitrijs2005/booklib/internal/shared"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/booklib/internal/server/grpc"
)

const (
	shutdownTimeout = 10 * time.Second
	janitorInterval = time.Minute
	redisKeyPrefix  = "booklib:login:"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	router  http.Handler
	closers []func() error

	loginWindow  *ratelimit.FixedWindow
	loginLimiter ratelimit.Limiter
	throttle     *ratelimit.Throttle
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogBackend, c.LogLevel, os.Stdout)
	if err != nil {
		return nil, err
	}

	app := &App{config: c, logger: logger}
	if err := app.init(ctx); err != nil {
		app.close()
		return nil, err
	}
	return app, nil
}

func (app *App) init(ctx context.Context) error {
	c := app.config

	secret := c.SecretKey
	if secret == "" {
		s, err := shared.MakeRandHexString(32)
		if err != nil {
			return fmt.Errorf("generate secret: %w", err)
		}
		secret = s
		app.logger.Warn(ctx, "no secret key configured, tokens will not survive a restart")
	}

	repo, err := app.openRepository(ctx)
	if err != nil {
		return err
	}

	books, err := app.openCatalog(ctx)
	if err != nil {
		return err
	}

	m := metrics.New()
	tokens := auth.NewTokenService([]byte(secret), c.AccessTokenValidityDuration)

	app.loginWindow = ratelimit.NewFixedWindow(c.LoginRateLimit, c.LoginRateWindow)
	app.loginLimiter = app.loginWindow
	if c.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		})
		app.closers = append(app.closers, client.Close)

		fb := ratelimit.NewFallback(
			ratelimit.NewRedisFixedWindow(client, redisKeyPrefix, c.LoginRateLimit, c.LoginRateWindow),
			app.loginWindow, 3, 30*time.Second, app.logger.With("module", "ratelimit"))
		fb.OnFallback = m.LimiterFallbacks.Inc
		app.loginLimiter = fb
	}

	deps := httpapi.Deps{
		Accounts:     accounts.NewService(repo, accounts.BcryptHasher{Cost: c.BcryptCost}, tokens),
		Favorites:    favorites.NewService(repo, books),
		Catalog:      books,
		Tokens:       tokens,
		LoginLimiter: app.loginLimiter,
		Metrics:      m,
		Logger:       app.logger.With("module", "http"),
	}
	if c.ThrottleRPS > 0 {
		app.throttle = ratelimit.NewThrottle(c.ThrottleRPS, c.ThrottleBurst, 10*time.Minute)
		deps.Throttle = app.throttle
	}

	app.router, err = httpapi.NewRouter(deps, httpapi.Options{
		Prefix:         c.APIPrefix,
		LoginWindow:    c.LoginRateWindow,
		TrustedProxies: c.TrustedProxies,
	})
	return err
}

func (app *App) openRepository(ctx context.Context) (accounts.Repository, error) {
	c := app.config

	switch c.StorageType {
	case config.StorageMemory:
		return accounts.NewCollectionRepository(accounts.NewMemoryStore()), nil
	case config.StorageFile:
		return accounts.NewCollectionRepository(accounts.NewFileStore(c.UsersFile)), nil
	case config.StoragePostgres:
		db, err := accounts.OpenPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		app.closers = append(app.closers, db.Close)
		if err := accounts.RunMigrations(ctx, db); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
		return accounts.NewPostgresRepository(db), nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", c.StorageType)
	}
}

func (app *App) openCatalog(ctx context.Context) (catalog.Catalog, error) {
	c := app.config

	switch c.CatalogSource {
	case config.CatalogFile:
		return catalog.NewFileCatalog(c.BooksFile), nil
	case config.CatalogS3:
		return catalog.NewS3Catalog(ctx, catalog.S3Settings{
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			Bucket:       c.S3Bucket,
			Key:          c.S3CatalogKey,
		})
	default:
		return nil, fmt.Errorf("unknown catalog source %q", c.CatalogSource)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled, a termination signal arrives, or a
// server fails. Resources opened by NewApp are released before it returns.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.close()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	lis, err := net.Listen("tcp", app.config.EndpointAddrHTTP)
	if err != nil {
		return err
	}

	var (
		wg      sync.WaitGroup
		errMu   sync.Mutex
		runErrs []error
	)
	fail := func(err error) {
		errMu.Lock()
		runErrs = append(runErrs, err)
		errMu.Unlock()
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.serveHTTP(ctx, lis); err != nil {
			fail(err)
		}
	}()

	if app.config.EndpointAddrGRPC != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := gs.NewHealthServer(app.config.EndpointAddrGRPC, app.logger)
			if err := s.Run(ctx); err != nil {
				fail(err)
			}
		}()
	}

	cleanups := []func(){app.loginWindow.Cleanup}
	if app.throttle != nil {
		cleanups = append(cleanups, app.throttle.Cleanup)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		ratelimit.RunJanitor(ctx, janitorInterval, cleanups...)
	}()

	wg.Wait()
	app.logger.Info(context.Background(), "App stopped")
	return errors.Join(runErrs...)
}

func (app *App) serveHTTP(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           app.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, "http shutdown", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())
	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (app *App) close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			app.logger.Error(context.Background(), "close", "error", err)
		}
	}
	app.closers = nil
}


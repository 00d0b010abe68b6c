package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/booklib/internal/flagx"
)

var ownFlags = []string{
	"-a", "-g", "-prefix", "-storage", "-users", "-d", "-catalog", "-books",
	"-s", "-t", "-lr", "-lw", "-redis", "-rps", "-burst", "-log", "-level",
}

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string        HTTP bind address (e.g., ":8080")
//	-g string        gRPC health bind address; "" disables it
//	-prefix string   API path prefix (e.g., "/api")
//	-storage string  memory | file | postgres
//	-users string    users JSON file for file storage
//	-d string        PostgreSQL DSN
//	-catalog string  file | s3
//	-books string    books JSON file for the file catalog
//	-s string        JWT HMAC secret key
//	-t int           access token validity, minutes
//	-lr int          login attempts allowed per window
//	-lw int          login rate window, minutes
//	-redis string    redis address for the shared login limiter
//	-rps float       per-client API throttle, requests per second
//	-burst int       per-client API throttle burst
//	-log string      slog | zap
//	-level string    debug | info | warn | error
//
// Duration flags are accepted as integers in minutes.
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run the HTTP API")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "address and port to run the gRPC health service")
	fs.StringVar(&config.APIPrefix, "prefix", config.APIPrefix, "API path prefix")
	fs.StringVar(&config.StorageType, "storage", config.StorageType, "account storage: memory, file or postgres")
	fs.StringVar(&config.UsersFile, "users", config.UsersFile, "users file")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.CatalogSource, "catalog", config.CatalogSource, "catalog source: file or s3")
	fs.StringVar(&config.BooksFile, "books", config.BooksFile, "books file")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	fs.IntVar(&config.LoginRateLimit, "lr", config.LoginRateLimit, "login attempts per window")
	loginRateWindow := fs.Int("lw", int(config.LoginRateWindow.Minutes()), "login rate window (in minutes)")

	fs.StringVar(&config.RedisAddr, "redis", config.RedisAddr, "redis address for the login limiter")
	fs.Float64Var(&config.ThrottleRPS, "rps", config.ThrottleRPS, "per-client requests per second, 0 disables")
	fs.IntVar(&config.ThrottleBurst, "burst", config.ThrottleBurst, "per-client burst")
	fs.StringVar(&config.LogBackend, "log", config.LogBackend, "log backend: slog or zap")
	fs.StringVar(&config.LogLevel, "level", config.LogLevel, "log level")

	if err := fs.Parse(flagx.FilterArgs(args, ownFlags)); err != nil {
		return err
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidity) * time.Minute
	config.LoginRateWindow = time.Duration(*loginRateWindow) * time.Minute
	return nil
}

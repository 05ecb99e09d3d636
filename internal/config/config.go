package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress  string
	DatabaseURI string
	JWTSecret   string
	TokenTTL    time.Duration
	LogLevel    slog.Level

	RestaurantLatitude   float64
	RestaurantLongitude  float64
	GeofenceRadiusMeters int

	ReferralSignupBonus     int64
	ReferralFirstOrderBonus int64
	PointsPerCurrencyUnit   int64
	PointsRounding          string
	LedgerMaxRetries        int
	VenueTimezone           *time.Location

	StaffAPIKey      string
	NATSURL          string
	NotifyWebhookURL string
	RedisURL         string
	MenuCacheTTL     time.Duration
	CatalogFile      string

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	WorkerPoolSize     int
	ShutdownTimeout    time.Duration
}

const (
	defaultRunAddress         = ":8080"
	defaultJWTSecret          = "change-me-in-production"
	defaultTokenTTL           = 24 * time.Hour
	defaultGeofenceRadius     = 500
	defaultSignupBonus        = 500
	defaultFirstOrderBonus    = 500
	defaultPointsPerUnit      = 1
	defaultPointsRounding     = "floor"
	defaultLedgerMaxRetries   = 3
	defaultVenueTimezone      = "UTC"
	defaultMenuCacheTTL       = 5 * time.Minute
	defaultOutboxPollInterval = 3 * time.Second
	defaultOutboxBatchSize    = 32
	defaultWorkerPoolSize     = 4
	defaultShutdownTimeout    = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	var parseErrs []error
	envInt := func(key string, def int) int {
		n, err := getInt(lookup, key, def)
		if err != nil {
			parseErrs = append(parseErrs, err)
		}
		return n
	}
	envDuration := func(key string, def time.Duration) time.Duration {
		d, err := getDuration(lookup, key, def)
		if err != nil {
			parseErrs = append(parseErrs, err)
		}
		return d
	}

	cfg := &Config{
		RunAddress:              getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:             getString(lookup, "DATABASE_URI", ""),
		JWTSecret:               getString(lookup, "JWT_SECRET", defaultJWTSecret),
		TokenTTL:                envDuration("TOKEN_TTL", defaultTokenTTL),
		GeofenceRadiusMeters:    envInt("GEOFENCE_RADIUS_METERS", defaultGeofenceRadius),
		ReferralSignupBonus:     int64(envInt("REFERRAL_SIGNUP_BONUS", defaultSignupBonus)),
		ReferralFirstOrderBonus: int64(envInt("REFERRAL_FIRST_ORDER_BONUS", defaultFirstOrderBonus)),
		PointsPerCurrencyUnit:   int64(envInt("POINTS_PER_CURRENCY_UNIT", defaultPointsPerUnit)),
		PointsRounding:          getString(lookup, "POINTS_ROUNDING", defaultPointsRounding),
		LedgerMaxRetries:        envInt("LEDGER_MAX_RETRIES", defaultLedgerMaxRetries),
		StaffAPIKey:             getString(lookup, "STAFF_API_KEY", ""),
		NATSURL:                 getString(lookup, "NATS_URL", ""),
		NotifyWebhookURL:        getString(lookup, "NOTIFY_WEBHOOK_URL", ""),
		RedisURL:                getString(lookup, "REDIS_URL", ""),
		MenuCacheTTL:            envDuration("MENU_CACHE_TTL", defaultMenuCacheTTL),
		CatalogFile:             getString(lookup, "CATALOG_FILE", ""),
		OutboxPollInterval:      envDuration("OUTBOX_POLL_INTERVAL", defaultOutboxPollInterval),
		OutboxBatchSize:         envInt("OUTBOX_BATCH_SIZE", defaultOutboxBatchSize),
		WorkerPoolSize:          envInt("WORKER_POOL_SIZE", defaultWorkerPoolSize),
		ShutdownTimeout:         envDuration("SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}
	if err := errors.Join(parseErrs...); err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet("gopherbistro", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		latStr             = getString(lookup, "RESTAURANT_LATITUDE", "")
		lonStr             = getString(lookup, "RESTAURANT_LONGITUDE", "")
		timezone           = getString(lookup, "VENUE_TIMEZONE", defaultVenueTimezone)
		logLevel           = getString(lookup, "LOG_LEVEL", "info")
		tokenTTLStr        = cfg.TokenTTL.String()
		pollIntervalStr    = cfg.OutboxPollInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.StringVar(&tokenTTLStr, "token-ttl", tokenTTLStr, "Lifetime of issued auth tokens")
	fs.StringVar(&latStr, "lat", latStr, "Restaurant latitude")
	fs.StringVar(&lonStr, "lon", lonStr, "Restaurant longitude")
	fs.IntVar(&cfg.GeofenceRadiusMeters, "radius", cfg.GeofenceRadiusMeters, "Geofence radius in meters")
	fs.StringVar(&cfg.NATSURL, "nats", cfg.NATSURL, "NATS server URL for domain events")
	fs.StringVar(&cfg.RedisURL, "redis", cfg.RedisURL, "Redis URL for the menu cache")
	fs.StringVar(&cfg.CatalogFile, "catalog", cfg.CatalogFile, "YAML file with menu and rewards to seed")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent outbox workers")
	fs.StringVar(&pollIntervalStr, "poll-interval", pollIntervalStr, "Interval between outbox polls")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.IntVar(&cfg.OutboxBatchSize, "poll-batch", cfg.OutboxBatchSize, "Maximum events per outbox batch")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.TokenTTL, err = time.ParseDuration(tokenTTLStr); err != nil {
		return nil, fmt.Errorf("invalid token ttl: %w", err)
	}

	if cfg.OutboxPollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid poll interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = strings.TrimSpace(string(content))
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.OutboxBatchSize <= 0 {
		cfg.OutboxBatchSize = defaultOutboxBatchSize
	}

	if cfg.OutboxPollInterval <= 0 {
		cfg.OutboxPollInterval = defaultOutboxPollInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	if cfg.MenuCacheTTL <= 0 {
		cfg.MenuCacheTTL = defaultMenuCacheTTL
	}

	if cfg.LedgerMaxRetries <= 0 {
		cfg.LedgerMaxRetries = defaultLedgerMaxRetries
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.RestaurantLatitude, err = parseCoordinate(latStr, 90); err != nil {
		return nil, fmt.Errorf("invalid restaurant latitude: %w", err)
	}

	if cfg.RestaurantLongitude, err = parseCoordinate(lonStr, 180); err != nil {
		return nil, fmt.Errorf("invalid restaurant longitude: %w", err)
	}

	if cfg.GeofenceRadiusMeters <= 0 {
		return nil, fmt.Errorf("geofence radius must be a positive integer, got %d", cfg.GeofenceRadiusMeters)
	}

	if cfg.ReferralSignupBonus < 0 || cfg.ReferralFirstOrderBonus < 0 {
		return nil, fmt.Errorf("referral bonuses must not be negative")
	}

	if cfg.PointsPerCurrencyUnit <= 0 {
		return nil, fmt.Errorf("points per currency unit must be positive")
	}

	cfg.PointsRounding = strings.ToLower(cfg.PointsRounding)
	if cfg.PointsRounding != "floor" && cfg.PointsRounding != "round" {
		return nil, fmt.Errorf("points rounding must be floor or round, got %q", cfg.PointsRounding)
	}

	if cfg.VenueTimezone, err = time.LoadLocation(timezone); err != nil {
		return nil, fmt.Errorf("invalid venue timezone: %w", err)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	if cfg.NotifyWebhookURL != "" {
		parsed, err := url.Parse(cfg.NotifyWebhookURL)
		if err != nil || !parsed.IsAbs() {
			return nil, fmt.Errorf("notify webhook url must be absolute")
		}
	}

	return cfg, nil
}

func parseCoordinate(raw string, limit float64) (float64, error) {
	if raw == "" {
		return 0, fmt.Errorf("value must be provided")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if v < -limit || v > limit {
		return 0, fmt.Errorf("%v is outside [-%v, %v]", v, limit, limit)
	}
	return v, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) (int, error) {
	v, ok := lookup(key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def, fmt.Errorf("invalid %s %q: must be an integer", key, v)
	}
	return n, nil
}

func getDuration(lookup envLookup, key string, def time.Duration) (time.Duration, error) {
	v, ok := lookup(key)
	if !ok || v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return def, fmt.Errorf("invalid %s %q: must be a duration", key, v)
	}
	return d, nil
}

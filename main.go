package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jcabrera-io/wayfarer/internal/geocode"
	"github.com/jcabrera-io/wayfarer/internal/handler"
	"github.com/jcabrera-io/wayfarer/internal/metrics"
	"github.com/jcabrera-io/wayfarer/internal/repository/sqlite"
	"github.com/jcabrera-io/wayfarer/internal/service"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	port := envOrDefault("PORT", "5000")
	dbPath := envOrDefault("DATABASE_PATH", "wayfarer.db")
	geocoderURL := envOrDefault("GEOCODER_URL", "https://nominatim.openstreetmap.org")
	corsOrigin := envOrDefault("CORS_ORIGIN", "*")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if len(jwtSecret) < 32 {
		slog.Error("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security")
		os.Exit(1)
	}

	tokenTTL := time.Hour
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil || parsed <= 0 {
			slog.Error("invalid TOKEN_TTL", "value", v, "error", err)
			os.Exit(1)
		}
		tokenTTL = parsed
	}

	bcryptCost := 12
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			slog.Error("invalid BCRYPT_COST", "error", err)
			os.Exit(1)
		}
		if parsed < 4 || parsed > 14 {
			slog.Error("BCRYPT_COST must be between 4 and 14", "value", parsed)
			os.Exit(1)
		}
		bcryptCost = parsed
	}

	db, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	collector := metrics.NewCollector()
	geocoder := geocode.New(geocoderURL, geocode.WithMetrics(collector))
	authService := service.NewAuthService(db.Users(), jwtSecret, tokenTTL, bcryptCost)
	userService := service.NewUserService(db.Users())
	placeService := service.NewPlaceService(db.Places(), db.Coordinator(), geocoder, db.FileStore())

	limiter := service.NewTokenBucket(2, 120)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, authService, userService, placeService, db.FileStore())
	mux.Handle("GET /metrics", collector.Handler())

	chain := handler.CORS(corsOrigin,
		handler.SecurityHeaders(
			handler.RateLimit(limiter,
				collector.Middleware(mux))))

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           chain,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

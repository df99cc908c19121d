package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fueldesk/dashboard-service/internal/auth"
	"fueldesk/dashboard-service/internal/backend/postgres"
	"fueldesk/dashboard-service/internal/config"
	"fueldesk/dashboard-service/internal/health"
	"fueldesk/dashboard-service/internal/httpapi"
	"fueldesk/dashboard-service/internal/logging"
	"fueldesk/dashboard-service/internal/notify"
	"fueldesk/dashboard-service/internal/store/backendstore"
	"fueldesk/dashboard-service/internal/telemetry"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const serviceName = "dashboard-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logging.New(logging.Config{ServiceName: serviceName})
		boot.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logging.New(logging.Config{Level: cfg.LogLevel, ServiceName: serviceName})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing := telemetry.Setup(ctx, telemetry.Config{
		ServiceName: serviceName,
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    cfg.OTLPInsecure,
	}, log)
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn().Err(err).Msg("tracer shutdown")
		}
	}()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db pool")
	}
	defer pool.Close()

	client := postgres.NewClient(pool)
	gate := health.NewGate(health.CountProbe(client, "stations"), cfg.ProbeTimeout, log)
	gate.Start(ctx)

	limiter := httpapi.NewRateLimiter(httpapi.RateLimitConfig{
		IPPerMinute:      cfg.RateLimitPerMinute,
		IPBurst:          cfg.RateLimitBurst,
		StationPerMinute: cfg.StationRateLimitPerMinute,
		StationBurst:     cfg.StationRateLimitBurst,
	})
	handler := httpapi.NewHandler(httpapi.Options{
		Store:         backendstore.New(client),
		Client:        client,
		Tokens:        auth.NewManager(cfg.ServiceKey, cfg.TokenTTL),
		Gate:          gate,
		Notifications: notify.NewCenter(notify.Config{TTL: cfg.NotificationTTL}, log),
		Limiter:       limiter,
		Logger:        log,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelhttp.NewHandler(httpapi.LoggingMiddleware(log, limiter.Middleware(handler.Routes())), serviceName),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("dashboard-service listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}

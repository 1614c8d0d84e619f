package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"doctortravel/pkg/config"
	"doctortravel/pkg/contracts"
	"doctortravel/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

type Application struct {
	cfg              *config.Config
	server           *http.Server
	idempotencyStore middleware.IdempotencyStore
	rateLimiter      middleware.Limiter
	healthHandler    http.Handler
	appHttpHandler   http.Handler
	onShutdown       []func(ctx context.Context)
}

func NewApplication(cfg *config.Config) *Application {
	return &Application{cfg: cfg}
}

// SetApp wires the API handler behind the full middleware stack and the
// health handler behind a minimal one.
func (a *Application) SetApp(appHandler contracts.Handler, health *HealthHandler) {
	a.setHealthHandler(health)
	a.setAppHandler(appHandler)
	a.setAppServer()
}

// OnShutdown registers cleanup that runs after the server stops accepting
// requests, in registration order.
func (a *Application) OnShutdown(fn func(ctx context.Context)) {
	a.onShutdown = append(a.onShutdown, fn)
}

func (a *Application) Handler() http.Handler {
	return a.server.Handler
}

func (a *Application) setHealthHandler(health *HealthHandler) {
	healthRouter := httprouter.New()
	health.RegisterRoutes(healthRouter)

	a.healthHandler = middleware.Chain(healthRouter,
		middleware.Recovery(a.cfg.Log),
		middleware.RequestLogging(a.cfg.Log),
	)
	a.cfg.Log.Info("Health endpoints configured with minimal middleware (Recovery + Logging only)")
}

func (a *Application) setAppHandler(appHandler contracts.Handler) {
	appRouter := httprouter.New()
	appHandler.RegisterRoutes(appRouter)

	if rdb := a.cfg.Client.Redis; rdb != nil {
		a.idempotencyStore = middleware.NewRedisIdempotencyStore(rdb, a.cfg.IdempotencyTTL)
		a.rateLimiter = middleware.NewRedisLimiter(rdb, "ratelimit:ip", a.cfg.RateLimitRequests, a.cfg.RateLimitWindow)
	} else {
		a.idempotencyStore = middleware.NewInMemoryIdempotencyStore(a.cfg.IdempotencyTTL)
		a.rateLimiter = middleware.NewSlidingWindowLimiter(a.cfg.RateLimitRequests, a.cfg.RateLimitWindow)
	}

	a.appHttpHandler = middleware.Chain(appRouter,
		middleware.Recovery(a.cfg.Log),
		middleware.RequestLogging(a.cfg.Log),
		middleware.MaxBodySize(int64(a.cfg.MaxRequestSize)),
		middleware.ContentTypeValidation(a.cfg.Log),
		middleware.RateLimit(a.rateLimiter, middleware.ClientIP, a.cfg.Log),
		middleware.RequestTimeout(a.cfg.RequestTimeout),
		middleware.Idempotency(a.idempotencyStore, a.cfg.Log),
	)
	a.cfg.Log.Info("Application endpoints configured with full middleware stack",
		"shared_state", a.cfg.Client.Redis != nil,
	)
}

func (a *Application) setAppServer() {
	mux := http.NewServeMux()
	mux.Handle("/health", a.healthHandler)
	mux.Handle("/ready", a.healthHandler)
	mux.Handle("/", a.appHttpHandler)

	a.server = &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      mux,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}

	a.cfg.Log.Info("HTTP server configured", "port", a.cfg.Port)
}

func (a *Application) Run() {
	serverErrors := make(chan error, 1)

	go func() {
		a.cfg.Log.Info("Starting HTTP server", "address", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			a.cfg.Log.Fatal("HTTP server failed", "error", err)
		}

	case sig := <-shutdown:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig)
		a.gracefulShutdown()
	}
}

func (a *Application) gracefulShutdown() {
	a.cfg.Log.Info("Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.cfg.Log.Fatal("Could not stop server gracefully", "error", err)
		}
	}

	a.cfg.Log.Info("Stopping background workers...")
	a.idempotencyStore.Stop()
	if stopper, ok := a.rateLimiter.(interface{ Stop() }); ok {
		stopper.Stop()
	}
	for _, fn := range a.onShutdown {
		fn(ctx)
	}
	a.cfg.Log.Info("Background workers stopped")

	a.cfg.GracefulShutdown()
	a.cfg.Log.Info("Server stopped gracefully")
}

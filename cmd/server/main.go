package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/groupledger/internal/api"
	"github.com/mmynk/groupledger/internal/config"
	"github.com/mmynk/groupledger/internal/metrics"
	"github.com/mmynk/groupledger/internal/middleware"
	"github.com/mmynk/groupledger/internal/rpc"
	"github.com/mmynk/groupledger/internal/service"
	"github.com/mmynk/groupledger/internal/storage"
	"github.com/mmynk/groupledger/internal/storage/backend"
	"github.com/mmynk/groupledger/pkg/logging"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Configure(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	store, err := backend.Open(cfg.DB.Driver, cfg.DB.Path)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err, "driver", cfg.DB.Driver)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("Failed to close storage", "error", err)
		}
	}()
	slog.Info("Storage initialized", "driver", cfg.DB.Driver, "database", cfg.DB.Path)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h2c.NewHandler(newRouter(cfg, store, reg), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		slog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
	}()

	slog.Info("Connect server starting", "address", cfg.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped")
}

// newRouter mounts the Connect services, health check and metrics endpoint.
func newRouter(cfg *config.Config, store storage.Store, reg *prometheus.Registry) http.Handler {
	m := metrics.New(reg)
	interceptors := connect.WithInterceptors(middleware.LoggingInterceptor(m))

	groupPath, groupHandler := api.NewGroupServiceHandler(
		rpc.NewGroupServer(service.NewGroupService(store)),
		interceptors,
	)
	ledgerPath, ledgerHandler := api.NewLedgerServiceHandler(
		rpc.NewLedgerServer(service.NewLedgerService(store, service.WithMetrics(m))),
		interceptors,
	)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(loggingMiddleware)
	r.Use(corsMiddleware(cfg.CORSOrigin))

	r.Mount(groupPath, groupHandler)
	r.Mount(ledgerPath, ledgerHandler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	if cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	}
	return r
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", chimw.GetReqID(r.Context()),
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
			w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

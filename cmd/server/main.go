// Command server exposes stored game logs and the state derived from them
// over a read-only HTTP API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"

	"github.com/SwiggitySwerve/MekStation-sub016/internal/config"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/db"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/handlers"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/logging"
)

func main() {
	cfgPath := flag.String("config", "mekstation.json", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Console)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	sqlDB, err := db.ConnectSQLite(cfg.Store.Path, true)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Store.Path).Msg("open event store")
	}
	store := &db.EventStore{DB: sqlDB}
	defer store.Close()

	units := &handlers.UnitHandler{Log: log}
	if cfg.Catalog.DSN != "" {
		catalog, err := db.ConnectCatalog(ctx, cfg.Catalog.DSN)
		if err != nil {
			log.Fatal().Err(err).Msg("connect catalog")
		}
		defer catalog.Close()
		units.Catalog = catalog
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           routes(&handlers.GameHandler{Store: store, Log: log}, units, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	srv.Shutdown(shutdownCtx)
}

func routes(games *handlers.GameHandler, units *handlers.UnitHandler, log zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /api/games", games.List)
	mux.HandleFunc("GET /api/games/{id}", games.Get)
	mux.HandleFunc("GET /api/games/{id}/events", games.Events)
	mux.HandleFunc("GET /api/games/{id}/state", games.State)
	mux.HandleFunc("GET /api/units", units.List)

	return accessLog(corsMiddleware(mux), log)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func accessLog(next http.Handler, log zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Debug().Str("method", r.Method).Str("path", r.URL.Path).
			Int("status", rec.status).Dur("took", time.Since(start)).Msg("request")
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

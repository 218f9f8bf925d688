package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/renalhub/nurse-scheduling/internal/api"
	"github.com/renalhub/nurse-scheduling/internal/config"
	"github.com/renalhub/nurse-scheduling/internal/presence"
	"github.com/renalhub/nurse-scheduling/internal/schedule"
	"github.com/renalhub/nurse-scheduling/internal/slotlock"
	"github.com/renalhub/nurse-scheduling/internal/store"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("config load error")
	}

	log := newLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Str("http_port", cfg.HTTPPort).Msg("api-server starting up")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fileStore, err := store.NewFileStore(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("snapshot store error")
	}

	engine := schedule.NewEngine(
		schedule.NewAvailabilityStore(),
		schedule.NewAppointmentStore(),
		schedule.NewEmitter(),
		slotlock.NewKeyedLocker(),
		fileStore,
		log,
	)

	snap, err := fileStore.Load(rootCtx)
	if err != nil {
		log.Fatal().Err(err).Msg("snapshot load error")
	}
	engine.Load(snap)
	log.Info().
		Int("nurses", len(snap.Nurses)).
		Int("appointments", len(snap.Appointments)).
		Msg("snapshot loaded")

	if cfg.PresenceSim {
		sim := presence.NewSimulator(engine, log, time.Now().UnixNano())
		c := cron.New()
		if _, err := c.AddFunc("@every "+cfg.PresenceEvery.String(), func() {
			sim.Tick(rootCtx)
		}); err != nil {
			log.Fatal().Err(err).Msg("presence schedule error")
		}
		c.Start()
		defer c.Stop()
		log.Info().Dur("interval", cfg.PresenceEvery).Msg("presence simulator running")
	}

	router := api.NewRouter(api.RouterConfig{
		Engine:  engine,
		Store:   fileStore,
		Logger:  log,
		Env:     cfg.Env,
		Version: version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()
	log.Info().Str("addr", srv.Addr).Msg("listening")

	<-rootCtx.Done()
	log.Info().Msg("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}

func newLogger(env string) zerolog.Logger {
	if env == "dev" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/renalhub/nurse-scheduling/internal/schedule"
	"github.com/renalhub/nurse-scheduling/internal/store"
)

type RouterConfig struct {
	Engine  *schedule.Engine
	Store   *store.FileStore
	Logger  zerolog.Logger
	Env     string
	Version string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))

	health := NewHealthHandler(cfg.Store, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Post("/appointments", createAppointmentHandler(cfg.Engine))
	r.Get("/appointments", listAppointmentsHandler(cfg.Engine))
	r.Get("/appointments/{id}", getAppointmentHandler(cfg.Engine))
	r.Post("/appointments/{id}/cancel", cancelAppointmentHandler(cfg.Engine))
	r.Post("/appointments/{id}/complete", completeAppointmentHandler(cfg.Engine))
	r.Post("/appointments/{id}/reassign", reassignAppointmentHandler(cfg.Engine))

	r.Get("/nurses", listNursesHandler(cfg.Engine))
	r.Get("/nurses/{id}/availability", getAvailabilityHandler(cfg.Engine))
	r.Put("/nurses/{id}/availability/{date}", setAvailabilityHandler(cfg.Engine))
	r.Post("/nurses/{id}/availability/{date}/toggle", toggleSlotHandler(cfg.Engine))
	r.Post("/nurses/{id}/blocked-dates", blockDateHandler(cfg.Engine))
	r.Delete("/nurses/{id}/blocked-dates/{date}", unblockDateHandler(cfg.Engine))

	r.Get("/notifications", listNotificationsHandler(cfg.Engine))
	r.Post("/notifications/{id}/read", markNotificationReadHandler(cfg.Engine))

	return r
}

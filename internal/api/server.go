package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/swaranjjalii/daily-execution-app/internal/service"
)

const (
	requestTimeout  = time.Second * 10
	shutdownTimeout = time.Second * 5
)

type Server struct {
	mx            *chi.Mux
	streakService service.StreakServiceI
}

type ServicesList struct {
	StreakService service.StreakServiceI
}

func New(servicesOptions *ServicesList) *Server {
	s := &Server{
		mx:            chi.NewMux(),
		streakService: servicesOptions.StreakService,
	}
	s.MountEndpoints()
	return s
}

func (s *Server) MountEndpoints() {
	s.mx.Use(s.RequestIDMiddleware, s.SettingUpLoggerMiddleware)
	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Post("/visit", s.CheckDailyVisit)
		r.Get("/data", s.GetUserData)
		r.Get("/streak", s.GetStats)
		r.Get("/achievements", s.GetAchievements)
		r.Get("/records", s.GetDailyRecords)
		r.Get("/sheet", s.GetTaskSheet)
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", s.GetTasks)
			r.Post("/", s.AddTask)
			r.Get("/today", s.GetTodayTasks)
			r.Patch("/{id}", s.UpdateTask)
			r.Delete("/{id}", s.DeleteTask)
			r.Post("/{id}/complete", s.CompleteTask)
		})
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mx.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mx,
		ReadHeaderTimeout: time.Second * 5,
	}
	serveErr := make(chan error, 1)
	slog.Info("api listening", slog.String("address", addr))
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"

	errorvalues "github.com/swaranjjalii/daily-execution-app/internal/error_values"
	"github.com/swaranjjalii/daily-execution-app/internal/service"
	"github.com/swaranjjalii/daily-execution-app/pkg/entity"
	"github.com/swaranjjalii/daily-execution-app/pkg/httputil"
)

func (s *Server) CheckDailyVisit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	data, err := s.streakService.CheckDailyVisit(ctx)
	if err != nil {
		writeServiceError(w, logger, "daily visit error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, data)
	logger.Info("daily visit checked", slog.Int("current_streak", data.CurrentStreak))
}

func (s *Server) GetUserData(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	data, err := s.streakService.GetUserData(ctx)
	if err != nil {
		writeServiceError(w, logger, "get user data error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, data)
}

// GetTasks lists every task, or the tasks of one day when ?date= is set.
func (s *Server) GetTasks(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	var (
		tasks []entity.Task
		err   error
	)
	if date := r.URL.Query().Get("date"); date != "" {
		tasks, err = s.streakService.GetTasksForDate(ctx, date)
	} else {
		tasks, err = s.streakService.GetAllTasks(ctx)
	}
	if err != nil {
		writeServiceError(w, logger, "get tasks error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, tasks)
}

func (s *Server) GetTodayTasks(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	tasks, err := s.streakService.GetTodayTasks(ctx)
	if err != nil {
		writeServiceError(w, logger, "get today tasks error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, tasks)
}

func (s *Server) AddTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req AddTaskRequest
	defer r.Body.Close()
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("add task error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	task, err := s.streakService.AddTask(ctx, &service.AddTaskRequest{
		Title:         req.Title,
		Description:   req.Description,
		ScheduledTime: req.ScheduledTime,
		Date:          req.Date,
	})
	if err != nil {
		writeServiceError(w, logger, "add task error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, task)
	logger.Info("task added", slog.String("task_id", task.ID))
}

func (s *Server) UpdateTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id := chi.URLParam(r, "id")
	var req UpdateTaskRequest
	defer r.Body.Close()
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("update task error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	err := s.streakService.UpdateTask(ctx, id, &service.UpdateTaskRequest{
		Title:         req.Title,
		Description:   req.Description,
		ScheduledTime: req.ScheduledTime,
		Date:          req.Date,
		Notes:         req.Notes,
	})
	if err != nil {
		writeServiceError(w, logger, "update task error", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("task updated", slog.String("task_id", id))
}

func (s *Server) DeleteTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	if err := s.streakService.DeleteTask(ctx, id); err != nil {
		writeServiceError(w, logger, "delete task error", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("task deleted", slog.String("task_id", id))
}

func (s *Server) CompleteTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id := chi.URLParam(r, "id")
	var req CompleteTaskRequest
	defer r.Body.Close()
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("complete task error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	if err := s.streakService.CompleteTask(ctx, id, req.Proof); err != nil {
		writeServiceError(w, logger, "complete task error", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("task completed", slog.String("task_id", id))
}

func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	stats, err := s.streakService.GetStats(ctx)
	if err != nil {
		writeServiceError(w, logger, "get stats error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, stats)
}

func (s *Server) GetAchievements(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	achievements, err := s.streakService.GetAchievements(ctx)
	if err != nil {
		writeServiceError(w, logger, "get achievements error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, achievements)
}

func (s *Server) GetDailyRecords(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	records, err := s.streakService.GetDailyRecords(ctx)
	if err != nil {
		writeServiceError(w, logger, "get daily records error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, records)
}

func (s *Server) GetTaskSheet(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			logger.Error("get task sheet error: invalid days", slog.String("days", raw))
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "days must be a number", nil)
			return
		}
		days = parsed
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	sheet, err := s.streakService.GetTaskSheet(ctx, days)
	if err != nil {
		writeServiceError(w, logger, "get task sheet error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, sheet)
}

func writeServiceError(w http.ResponseWriter, logger *slog.Logger, msg string, err error) {
	switch {
	case errors.Is(err, errorvalues.ErrEmptyTitle),
		errors.Is(err, errorvalues.ErrEmptyProof),
		errors.Is(err, errorvalues.ErrValidation):
		logger.Error(msg+": invalid request", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request", err)
	case errors.Is(err, errorvalues.ErrCorruptedData):
		logger.Error(msg+": corrupted data", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, errorvalues.ErrCorruptedData.Error(), nil)
	default:
		logger.Error(msg+": service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error", nil)
	}
}

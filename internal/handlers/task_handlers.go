package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"taskvault/internal/handlers/dto"
	"taskvault/internal/logger"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TaskHandler struct {
	TaskService TaskService
}

func NewTaskHandler(taskService TaskService) TaskHandler {
	return TaskHandler{
		TaskService: taskService,
	}
}

func (s *TaskHandler) PostTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: wrong content type",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var request dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: reading JSON failed",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "Bad Request: No data provided")
		return
	}

	if strings.TrimSpace(request.Text) == "" {
		logger.Warn("HTTP: validation failed",
			zap.String("field", "text"),
			zap.String("error", "empty_field"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, `Bad Request: Missing required field "text"`)
		return
	}

	task, err := s.TaskService.Create(r.Context(), request.Text)
	if err != nil {
		handleServiceError(w, err, "create_task")
		return
	}

	logger.Info("HTTP_OUT: task created",
		zap.String("task_id", task.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithFields(w, http.StatusCreated,
		toPayload("message", "Task created successfully"),
		toPayload("id", task.ID),
	)
}

func (s *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id := chi.URLParam(r, "id")
	if id == "" {
		logger.Warn("HTTP: missing id",
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "Bad Request: No ID provided in path parameters")
		return
	}

	task, err := s.TaskService.Fetch(r.Context(), id)
	if err != nil {
		handleServiceError(w, err, "get_task")
		return
	}

	if task == nil {
		logger.Warn("HTTP: task not found",
			zap.String("task_id", id),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusNotFound, "Task not found")
		return
	}

	logger.Info("HTTP_OUT: task fetched",
		zap.String("task_id", task.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.FromTask(task))
}

func (s *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	tasks, err := s.TaskService.List(r.Context())
	if err != nil {
		handleServiceError(w, err, "list_tasks")
		return
	}

	logger.Info("HTTP_OUT: tasks listed",
		zap.Int("total", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithFields(w, http.StatusOK,
		toPayload("tasks", dto.FromTaskList(tasks)),
		toPayload("total", len(tasks)),
	)
}

func (s *TaskHandler) UpdateTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id := chi.URLParam(r, "id")
	if id == "" {
		logger.Warn("HTTP: missing id",
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "Bad Request: No ID provided in path parameters")
		return
	}

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: wrong content type",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var request dto.UpdateTaskRequest
	decoder := json.NewDecoder(r.Body)
	defer r.Body.Close()

	if err := decoder.Decode(&request); err != nil {
		logger.Warn("HTTP: reading JSON failed",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "Bad Request: No body provided")
		return
	}

	task, err := s.TaskService.Modify(r.Context(), id, request.Text, request.Done)
	if err != nil {
		handleServiceError(w, err, "update_task")
		return
	}

	logger.Info("HTTP_OUT: task updated",
		zap.String("task_id", task.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithFields(w, http.StatusOK,
		toPayload("message", "Task updated successfully"),
		toPayload("updatedTask", dto.FromTask(task)),
	)
}

func (s *TaskHandler) DeleteTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id := chi.URLParam(r, "id")
	if id == "" {
		logger.Warn("HTTP: missing id",
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "Bad Request: No ID provided in path parameters")
		return
	}

	if err := s.TaskService.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err, "delete_task")
		return
	}

	logger.Info("HTTP_OUT: task deleted",
		zap.String("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithFields(w, http.StatusOK,
		toPayload("message", "Task deleted successfully"),
	)
}

func (s *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: health check")

	if err := s.TaskService.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: health check failed", err)
		responseWithFields(w, http.StatusServiceUnavailable,
			toPayload("status", "unavailable"),
		)
		return
	}

	responseWithFields(w, http.StatusOK,
		toPayload("status", "ok"),
	)
}

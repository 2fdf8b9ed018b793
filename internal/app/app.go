package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"taskvault/internal/config"
	"taskvault/internal/handlers"
	"taskvault/internal/logger"
	"taskvault/internal/middleware"
	"taskvault/internal/repository"
	"taskvault/internal/repository/task/dynamo"
	"taskvault/internal/repository/task/inmemory"
	"taskvault/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type App struct {
	config    *config.Config
	server    *http.Server
	router    *chi.Mux
	shutdowns []func() // run in reverse order on shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("App: flushing logs...")
		logger.Sync()
	})

	var taskRepo repository.TaskRepository
	switch a.config.Repository.Type {
	case config.RepositoryInMemory:
		taskRepo = inmemory.NewTaskStorage()
	default:
		storage, err := dynamo.New(ctx, &a.config.Dynamo)
		if err != nil {
			return fmt.Errorf("initializing repository: %w", err)
		}
		taskRepo = storage
	}

	taskService := service.NewTaskService(taskRepo)
	taskHandler := handlers.NewTaskHandler(&taskService)

	a.router = newRouter(&taskHandler)
	a.server = &http.Server{
		Addr:              a.config.GetServerAddr(),
		Handler:           a.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return nil
}

func newRouter(taskHandler *handlers.TaskHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.RateLimit(100))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
	}))

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", taskHandler.GetTasks)  // GET /tasks
		r.Post("/", taskHandler.PostTask) // POST /tasks

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", taskHandler.GetTaskByID)       // GET /tasks/{id}
			r.Put("/", taskHandler.UpdateTaskByID)    // PUT /tasks/{id}
			r.Delete("/", taskHandler.DeleteTaskByID) // DELETE /tasks/{id}
		})
	})

	r.Get("/health", taskHandler.HealthCheck)

	return r
}

// Run serves until ctx is cancelled, then shuts the server down
// gracefully and runs the registered shutdown funcs.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("App: server started")
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.runShutdowns()
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("App: shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)
	a.runShutdowns()
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (a *App) runShutdowns() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
}

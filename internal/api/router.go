package api

import (
	"net/http"

	"github.com/St1cky1/task-management/internal/api/handlers"
	"github.com/St1cky1/task-management/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(taskService *usecase.TaskService, db handlers.HealthChecker, corsOrigin string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// CORS только для одного настроенного origin, без wildcard
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{corsOrigin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	taskHandler := handlers.NewTaskHandler(taskService)
	healthHandler := handlers.NewHealthHandler(db)

	r.Get("/healthz", healthHandler.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", taskHandler.GetAllTasks)
			r.Post("/", taskHandler.CreateTask)
			r.Get("/overdue", taskHandler.GetOverdueTasks)
			r.Get("/search", taskHandler.SearchTasks)
			r.Get("/filter", taskHandler.FilterTasks)
			r.Get("/statistics", taskHandler.GetTaskStatistics)
			r.Get("/status/{status}", taskHandler.GetTasksByStatus)
			r.Get("/priority/{priority}", taskHandler.GetTasksByPriority)
			r.Get("/assignee/{assignee}", taskHandler.GetTasksByAssignee)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", taskHandler.GetTask)
				r.Put("/", taskHandler.UpdateTask)
				r.Delete("/", taskHandler.DeleteTask)
				r.Get("/audit", taskHandler.GetTaskAudit)
			})
		})
	})

	return r
}

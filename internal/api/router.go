package api

import (
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/go-chi/chi/v5"

	"github.com/profilehub/backend/internal/api/handler"
	"github.com/profilehub/backend/internal/api/middleware"
	"github.com/profilehub/backend/internal/auth"
	"github.com/profilehub/backend/internal/expense"
	"github.com/profilehub/backend/internal/invite"
	"github.com/profilehub/backend/internal/organization"
	"github.com/profilehub/backend/internal/project"
	"github.com/profilehub/backend/internal/todo"
	"github.com/profilehub/backend/internal/trip"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	DBPinger         handler.DBPinger
	Version          string
	OpenAPISpec      []byte
	AuthService      *auth.Service
	UserRepo         auth.UserRepository
	InviteRepo       invite.Repository
	OrganizationRepo organization.Repository
	ProjectRepo      project.Repository
	TodoRepo         todo.Repository
	TripRepo         trip.Repository
	ExpenseRepo      expense.Repository
	RAG              handler.RAG
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)

	if len(deps.OpenAPISpec) > 0 {
		openapiHandler := handler.NewOpenAPIHandler(deps.OpenAPISpec)
		r.Get("/openapi.json", openapiHandler.ServeHTTP)
	}

	authenticate := middleware.Auth(deps.AuthService)
	superuser := middleware.RequireSuperuser()

	r.Route("/api", func(r chi.Router) {
		healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.Version)
		r.Get("/health", healthHandler.ServeHTTP)

		settingsHandler := handler.NewSettingsHandler(deps.AuthService)
		r.Route("/settings", func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/verify-key", settingsHandler.VerifyKey)
			r.With(superuser).Post("/rotate-key", settingsHandler.RotateKey)
		})

		userHandler := handler.NewUserHandler(deps.AuthService, deps.UserRepo, deps.InviteRepo, deps.OrganizationRepo)
		r.Route("/users", func(r chi.Router) {
			r.Post("/register", userHandler.Register)
			r.Post("/login", userHandler.Login)
		})

		orgHandler := handler.NewOrganizationHandler(deps.OrganizationRepo)
		r.Route("/organizations", func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/", orgHandler.List)
			r.Get("/{id}", orgHandler.GetByID)
			r.Group(func(r chi.Router) {
				r.Use(superuser)
				r.Post("/", orgHandler.Create)
				r.Patch("/{id}", orgHandler.Update)
				r.Delete("/{id}", orgHandler.Delete)
			})
		})

		inviteHandler := handler.NewInviteHandler(deps.InviteRepo)
		r.Route("/invites", func(r chi.Router) {
			r.Use(authenticate)
			r.Use(superuser)
			r.Post("/", inviteHandler.Create)
			r.Get("/", inviteHandler.List)
			r.Delete("/{id}", inviteHandler.Delete)
		})

		projectHandler := handler.NewProjectHandler(deps.ProjectRepo, deps.OrganizationRepo)
		r.Route("/projects", func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", projectHandler.Create)
			r.Get("/", projectHandler.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", projectHandler.GetByID)
				r.Patch("/", projectHandler.Update)
				r.Delete("/", projectHandler.Delete)
				r.Route("/epics", func(r chi.Router) {
					r.Post("/", projectHandler.CreateEpic)
					r.Get("/", projectHandler.ListEpics)
					r.Route("/{epicId}", func(r chi.Router) {
						r.Get("/", projectHandler.GetEpic)
						r.Patch("/", projectHandler.UpdateEpic)
						r.Delete("/", projectHandler.DeleteEpic)
						r.Route("/tasks", func(r chi.Router) {
							r.Post("/", projectHandler.CreateTask)
							r.Get("/", projectHandler.ListTasks)
							r.Get("/{taskId}", projectHandler.GetTask)
							r.Patch("/{taskId}", projectHandler.UpdateTask)
							r.Delete("/{taskId}", projectHandler.DeleteTask)
						})
					})
				})
			})
		})

		todoHandler := handler.NewTodoHandler(deps.TodoRepo)
		r.Route("/todos", func(r chi.Router) {
			r.Get("/", todoHandler.List)
			r.Get("/{id}", todoHandler.GetByID)
			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Post("/", todoHandler.Create)
				r.Patch("/{id}", todoHandler.Update)
				r.Delete("/{id}", todoHandler.Delete)
			})
		})

		tripHandler := handler.NewTripHandler(deps.TripRepo, deps.UserRepo)
		r.Route("/trips", func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", tripHandler.Create)
			r.Get("/", tripHandler.List)
			r.Get("/{id}", tripHandler.GetByID)
			r.Patch("/{id}", tripHandler.Update)
			r.Delete("/{id}", tripHandler.Delete)
		})

		expenseHandler := handler.NewExpenseHandler(deps.ExpenseRepo, deps.TripRepo, deps.UserRepo)
		r.Route("/expenses", func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", expenseHandler.Create)
			r.Get("/", expenseHandler.List)
			r.Get("/{id}", expenseHandler.GetByID)
			r.Patch("/{id}", expenseHandler.Update)
			r.Delete("/{id}", expenseHandler.Delete)
		})

		ragHandler := handler.NewRAGHandler(deps.RAG)
		r.Route("/rag", func(r chi.Router) {
			r.Post("/query", ragHandler.Query)
			r.Get("/documents", ragHandler.ListDocuments)
			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Post("/ingest", ragHandler.Ingest)
				r.Delete("/documents/{id}", ragHandler.DeleteDocument)
			})
		})
	})

	return r
}

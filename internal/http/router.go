package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"notes-workspace/internal/handlers"
	"notes-workspace/internal/storage"
	"notes-workspace/internal/workspace"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Session *workspace.Session
	Local   *storage.LocalStore
	// RemoteConfigured is surfaced by the health endpoint so operators can
	// tell a local-only deployment from a degraded one.
	RemoteConfigured bool
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	notesHandler := handlers.NewNotesHandler(deps.Session)
	authHandler := handlers.NewAuthHandler(deps.Session)
	foldersHandler := handlers.NewFoldersHandler(deps.Session)
	tagsHandler := handlers.NewTagsHandler(deps.Session)
	exportHandler := handlers.NewExportHandler(deps.Session)
	previewHandler := handlers.NewPreviewHandler(deps.Session)
	healthHandler := handlers.NewHealthHandler(deps.Local, deps.RemoteConfigured)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", healthHandler)

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", notesHandler.List)
			r.Post("/", notesHandler.Create)
			r.Get("/{id}", notesHandler.Get)
			r.Put("/{id}", notesHandler.Save)
			r.Delete("/{id}", notesHandler.Delete)
			r.Post("/{id}/select", notesHandler.Select)
			r.Post("/{id}/duplicate", notesHandler.Duplicate)
			r.Post("/{id}/tags", notesHandler.AddTag)
			r.Delete("/{id}/tags/{tag}", notesHandler.RemoveTag)
			r.Method(http.MethodGet, "/{id}/preview", previewHandler)
		})

		r.Post("/sync", notesHandler.Sync)
		r.Method(http.MethodGet, "/export", exportHandler)

		r.Route("/folders", func(r chi.Router) {
			r.Get("/", foldersHandler.List)
			r.Post("/", foldersHandler.Create)
			r.Put("/{id}", foldersHandler.Rename)
			r.Delete("/{id}", foldersHandler.Delete)
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", tagsHandler.List)
			r.Put("/", tagsHandler.Replace)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.SignUp)
			r.Post("/login", authHandler.LogIn)
			r.Post("/logout", authHandler.LogOut)
			r.Get("/session", authHandler.Session)
			r.Put("/profile", authHandler.UpdateProfile)
		})
	})

	return r
}

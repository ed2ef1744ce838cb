// Package rest exposes the notekeeper HTTP/JSON API.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter mounts every route on a chi router. Write routes and /get-user
// sit behind bearer authentication; reads are public.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/", h.hello)

	r.Post("/create-account", h.createAccount)
	r.Post("/login", h.login)

	r.Get("/get-all-notes", h.listNotes)
	r.Get("/get-all-notes/{id}", h.getNote)
	r.Get("/get-note/{id}", h.getNote)
	r.Get("/search-note", h.searchNotes)

	r.Group(func(r chi.Router) {
		r.Use(h.authenticate)

		r.Post("/add-notes", h.addNote)
		r.Put("/edit-note/{noteId}", h.editNote)
		r.Delete("/delete-note/{noteId}", h.deleteNote)
		r.Get("/get-user", h.getUser)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: true, Message: "Route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: true, Message: "Method not allowed"})
	})

	return r
}

// Package http exposes the expense API and serves the embedded browser UI.
package http

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"outlay/internal/events"
	"outlay/internal/storage"
	appweb "outlay/web"
)

type Server struct {
	http.Server
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server. The handler chain is stateless; all shared state lives in the
// store and the event publisher.
func NewServer(addr string, store storage.Store, publisher events.Publisher) *Server {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(securityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}))

	h := NewHandler(store, publisher)

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", handleReady)

	r.Route("/api", func(api chi.Router) {
		api.Get("/expenses", h.ListExpenses)
		api.Post("/expenses", h.CreateExpense)
		api.Delete("/expenses", h.DeleteExpense)
	})

	mountUI(r)

	return &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: r,
		},
	}
}

// mountUI serves the embedded single-page client.
func mountUI(r chi.Router) {
	sub, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		// The assets are compiled in; a failure here is a build defect.
		panic(err)
	}

	static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
	r.Get("/static/*", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
		static.ServeHTTP(w, req)
	})

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFileFS(w, req, sub, "index.html")
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

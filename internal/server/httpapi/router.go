// Package httpapi exposes the bookstore services over HTTP with JSON bodies.
// Every request carries its session through a cookie; handlers receive the
// loaded session.State explicitly and the state is saved once the handler
// returns.
package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/bookstore/internal/logging"
	"github.com/dmitrijs2005/bookstore/internal/server/services"
	"github.com/dmitrijs2005/bookstore/internal/server/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Deps are the collaborators and settings of the router.
type Deps struct {
	Auth     *services.AuthService
	Catalog  *services.CatalogService
	Cart     *services.CartService
	Profile  *services.ProfileService
	Sessions *session.Manager
	DB       Pinger
	Logger   logging.Logger

	RequestTimeout time.Duration
	CORSOrigins    []string
	MaxUploadBytes int64
	// UploadDir is served under /uploads/ when the local upload backend is used.
	UploadDir string
}

func NewRouter(d Deps) http.Handler {
	h := NewHandler(d)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(d.Logger.With("module", "http_access")))
	r.Use(middleware.Recoverer)
	if d.RequestTimeout > 0 {
		r.Use(middleware.Timeout(d.RequestTimeout))
	}
	if len(d.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   d.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/healthz", h.Health)
	r.Get("/", h.withSession(h.Index))

	r.Post("/register", h.withSession(h.Register))
	r.Post("/login", h.withSession(h.Login))
	r.Get("/logout", h.withSession(h.Logout))
	r.Post("/logout", h.withSession(h.Logout))
	r.Get("/dashboard", h.withSession(h.Dashboard))

	r.Get("/profile", h.withSession(h.GetProfile))
	r.Post("/profile", h.withSession(h.UpdateProfile))

	r.Get("/books", h.withSession(h.ListBooks))

	r.Get("/cart", h.withSession(h.ViewCart))
	r.Post("/cart/items/{bookID}", h.withSession(h.AddToCart))
	r.Get("/add_to_cart/{bookID}", h.withSession(h.AddToCart))

	if d.UploadDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", uploadHeaders(noListing(http.FileServer(http.Dir(d.UploadDir))))))
	}

	return r
}

// uploadHeaders stops browsers from sniffing or running uploaded files as
// anything but the declared image.
func uploadHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; sandbox")
		next.ServeHTTP(w, r)
	})
}

// noListing hides directory indexes of the upload directory.
func noListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		next.ServeHTTP(w, r)
	})
}

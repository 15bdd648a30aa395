package service

import (
	"encoding/json"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// HandlerSettings configure the site server.
type HandlerSettings struct {
	AllowedOrigins []string
	// Mounts are additional handlers, e.g. the MCP endpoint, keyed by path prefix.
	Mounts map[string]http.Handler
}

// NewHandler serves the site root. HTML pages of known builds get their version panels
// updated on the fly; everything else is served from disk as is.
func NewHandler(logger *zap.Logger, s Service, siteSettings SiteSettings, handlerSettings HandlerSettings) chi.Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	allowedOrigins := handlerSettings.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "HEAD", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Cache-Control", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/versions.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(s.Versions()); err != nil {
			logger.Error("failed to encode versions", zap.Error(err))
		}
	})

	for prefix, h := range handlerSettings.Mounts {
		r.Mount(prefix, h)
	}

	files := http.FileServer(http.Dir(siteSettings.Root))
	servePage := func(w http.ResponseWriter, r *http.Request) {
		rel := chi.URLParam(r, "*")
		if rel == "" || strings.HasSuffix(rel, "/") {
			rel = path.Join(rel, "index.html")
		}

		start := time.Now()
		page, ok, err := s.GetPage(r.Context(), rel)
		if err != nil {
			logger.Error("failed to render page", zap.String("path", rel), zap.Error(err))
			http.Error(w, "failed to render page", http.StatusInternalServerError)
			return
		}
		if !ok {
			files.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write(page)
		logger.Debug("served page", zap.String("path", rel), zap.Duration("duration", time.Since(start)))
	}
	r.Get("/*", servePage)
	r.Head("/*", servePage)

	return r
}

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/avatarshuffle/pkg/catalog"
	"github.com/matzehuels/avatarshuffle/pkg/errors"
	"github.com/matzehuels/avatarshuffle/pkg/plugin"
	"github.com/matzehuels/avatarshuffle/pkg/style"
	"github.com/matzehuels/avatarshuffle/pkg/suggest"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

// Server exposes avatar generation, the style catalog and parameter
// suggestions over HTTP.
type Server struct {
	Generator   plugin.Generator     // nil answers 503 on /v1/avatars
	Catalog     plugin.CatalogLoader // nil serves the built-in catalog
	Suggest     *suggest.Provider    // Categories are filled per request from the catalog
	Categorizer *style.Categorizer   // nil uses the default
	Metrics     http.Handler         // mounted at /metrics when set
	Logger      *log.Logger
}

// AvatarRequest is the body of POST /v1/avatars.
type AvatarRequest struct {
	Prompt string `json:"prompt"`
	Count  int    `json:"count"`
}

// AvatarResponse carries base64 encoded images.
type AvatarResponse struct {
	Images []string `json:"images"`
}

// StylesResponse is the body of GET /v1/styles.
type StylesResponse struct {
	Origin     catalog.Origin `json:"origin"`
	Version    string         `json:"version,omitempty"`
	Categories []string       `json:"categories"`
	Styles     style.Pool     `json:"styles"`
}

// SuggestionsResponse is the body of GET /v1/suggestions.
type SuggestionsResponse struct {
	Key         string               `json:"key"`
	Suggestions []suggest.Suggestion `json:"suggestions"`
}

type errorBody struct {
	Error struct {
		Code    errors.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	if s.Logger == nil {
		s.Logger = log.Default()
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.Metrics != nil {
		r.Handle("/metrics", s.Metrics)
	}
	r.Route("/v1", func(r chi.Router) {
		r.Post("/avatars", s.avatars)
		r.Get("/styles", s.styles)
		r.Get("/suggestions", s.suggestions)
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) avatars(w http.ResponseWriter, r *http.Request) {
	var req AvatarRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		s.writeError(w, errors.New(errors.ErrCodeInvalidPrompt, "prompt is required"))
		return
	}
	if err := errors.ValidatePrompt(req.Prompt); err != nil {
		s.writeError(w, err)
		return
	}
	if err := errors.ValidateCount(req.Count); err != nil {
		s.writeError(w, err)
		return
	}
	if s.Generator == nil {
		s.writeError(w, errors.New(errors.ErrCodeConfiguration, "avatar generation is not configured"))
		return
	}

	images, err := s.Generator.Generate(r.Context(), req.Prompt, req.Count)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if images == nil {
		images = []string{}
	}
	writeJSON(w, http.StatusOK, AvatarResponse{Images: images})
}

func (s *Server) styles(w http.ResponseWriter, r *http.Request) {
	cat := s.load(r.Context())
	category := r.URL.Query().Get("category")
	if err := errors.ValidateCategory(category); err != nil {
		s.writeError(w, err)
		return
	}
	pool := cat.Styles.Filter(category)
	if len(pool) == 0 {
		s.writeError(w, errors.NoEligibleStyles(category))
		return
	}
	writeJSON(w, http.StatusOK, StylesResponse{
		Origin:     cat.Origin,
		Version:    cat.Version,
		Categories: s.categorizer().Categories(cat.Styles),
		Styles:     pool,
	})
}

func (s *Server) suggestions(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	p := suggest.Provider{}
	if s.Suggest != nil {
		p = *s.Suggest
	}
	if key == suggest.KeyCategory && p.Categories == nil {
		p.Categories = s.categorizer().Categories(s.load(r.Context()).Styles)
	}
	out, err := p.Suggest(r.Context(), key, r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if out == nil {
		out = []suggest.Suggestion{}
	}
	writeJSON(w, http.StatusOK, SuggestionsResponse{Key: key, Suggestions: out})
}

func (s *Server) load(ctx context.Context) catalog.Result {
	if s.Catalog == nil {
		return catalog.Result{Styles: style.Fallback(), Origin: catalog.OriginFallback}
	}
	return s.Catalog.Load(ctx)
}

func (s *Server) categorizer() *style.Categorizer {
	if s.Categorizer == nil {
		return style.DefaultCategorizer()
	}
	return s.Categorizer
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "err", err)
	}
	var body errorBody
	body.Error.Code = errors.GetCode(err)
	if body.Error.Code == "" {
		body.Error.Code = errors.ErrCodeInternal
	}
	body.Error.Message = errors.UserMessage(err)
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ListenAndServe serves h on addr until ctx is done, then shuts down
// gracefully.
func ListenAndServe(ctx context.Context, addr string, h http.Handler, logger *log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errc
		return nil
	}
}

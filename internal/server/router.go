package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	contentErrorMessage = "Failed to fetch content"
	statsErrorMessage   = "Failed to fetch GitHub data"
	notFoundMessage     = "Not Found."
)

var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET, OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type",
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		s.logRequests,
		cors,
		middleware.Recoverer,
	)

	r.Get("/content/{lang}", s.handleContent)
	r.Get("/github", s.handleGitHub)

	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)
	return r
}

// cors sets the cross-origin headers on every response and answers preflight
// requests before routing.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range corsHeaders {
			w.Header().Set(k, v)
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			s.logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	lang := chi.URLParam(r, "lang")
	content, err := s.content.Content(r.Context(), lang)
	if err != nil {
		s.logger.Error("content request failed", "lang", lang, "error", err)
		msg := contentErrorMessage
		if s.exposeErrors {
			msg = err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: msg})
		return
	}
	writeJSON(w, http.StatusOK, content)
}

func (s *Server) handleGitHub(w http.ResponseWriter, r *http.Request) {
	summary, err := s.stats.Summary(r.Context())
	if err != nil {
		s.logger.Error("statistics request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: statsErrorMessage})
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(notFoundMessage))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":"Internal Server Error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

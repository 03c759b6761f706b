package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appanalysis "github.com/bintangp/dermalens/internal/application/analysis"
	apptimeline "github.com/bintangp/dermalens/internal/application/timeline"
	domtimeline "github.com/bintangp/dermalens/internal/domain/timeline"
	"github.com/bintangp/dermalens/internal/middleware"
)

type Router struct {
	analysisSvc *appanalysis.Service
	timelineSvc *apptimeline.Service
}

func NewRouter(analysisSvc *appanalysis.Service, timelineSvc *apptimeline.Service, health http.HandlerFunc) http.Handler {
	r := &Router{analysisSvc: analysisSvc, timelineSvc: timelineSvc}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)

	if health == nil {
		health = func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("ok"))
		}
	}
	mux.Get("/health", health)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1", func(rt chi.Router) {
		rt.Use(middleware.RateLimitMiddleware(30, 1))
		rt.Post("/analyze", r.wrap(r.handleAnalyze))
		rt.Post("/compare", r.wrap(r.handleCompare))
		rt.Post("/timeline", r.wrap(r.handleTimelineCreate))
		rt.Get("/timeline", r.wrap(r.handleTimelineList))
		rt.Get("/timeline/{id}", r.wrap(r.handleTimelineGet))
		rt.Delete("/timeline/{id}", r.wrap(r.handleTimelineDelete))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

type badRequestError struct{ msg string }

func (e *badRequestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &badRequestError{msg: fmt.Sprintf(format, args...)}
}

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			var br *badRequestError
			switch {
			case errors.Is(err, sql.ErrNoRows):
				http.Error(w, "not found", http.StatusNotFound)
			case errors.As(err, &br):
				http.Error(w, br.msg, http.StatusBadRequest)
			default:
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

// POST /v1/analyze
// Body: {"image": "<base64 or data URL>"}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Image string `json:"image"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("invalid request body: %v", err)
	}
	if err := middleware.ValidateImagePayload(body.Image); err != nil {
		return badRequest("%v", err)
	}

	middleware.IncrementAnalyses()
	result := r.analysisSvc.AnalyzeImage(req.Context(), body.Image)
	return writeJSON(w, result)
}

// POST /v1/compare
// Body: {"before_id","after_id"} to compare stored entries, or
// {"image_before","image_after"} for inline payloads.
func (r *Router) handleCompare(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		BeforeID    string `json:"before_id"`
		AfterID     string `json:"after_id"`
		ImageBefore string `json:"image_before"`
		ImageAfter  string `json:"image_after"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("invalid request body: %v", err)
	}

	middleware.IncrementComparisons()

	if body.BeforeID != "" || body.AfterID != "" {
		if body.BeforeID == "" || body.AfterID == "" {
			return badRequest("both before_id and after_id are required")
		}
		result, err := r.timelineSvc.Compare(req.Context(),
			domtimeline.EntryID(body.BeforeID), domtimeline.EntryID(body.AfterID))
		if err != nil {
			return err
		}
		return writeJSON(w, result)
	}

	if err := middleware.ValidateImagePayload(body.ImageBefore); err != nil {
		return badRequest("image_before: %v", err)
	}
	if err := middleware.ValidateImagePayload(body.ImageAfter); err != nil {
		return badRequest("image_after: %v", err)
	}
	result := r.analysisSvc.CompareProgression(req.Context(), body.ImageBefore, body.ImageAfter)
	return writeJSON(w, result)
}

// POST /v1/timeline
func (r *Router) handleTimelineCreate(w http.ResponseWriter, req *http.Request) error {
	var cmd apptimeline.CreateEntryCommand
	if err := json.NewDecoder(req.Body).Decode(&cmd); err != nil {
		return badRequest("invalid request body: %v", err)
	}
	if err := middleware.ValidateImagePayload(cmd.Image); err != nil {
		return badRequest("%v", err)
	}
	if err := middleware.ValidateLabel(cmd.Label); err != nil {
		return badRequest("%v", err)
	}
	cmd.Label = middleware.SanitizeString(cmd.Label)

	entry, err := r.timelineSvc.Create(req.Context(), cmd)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	return json.NewEncoder(w).Encode(entry)
}

// GET /v1/timeline?limit=
func (r *Router) handleTimelineList(w http.ResponseWriter, req *http.Request) error {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	entries, err := r.timelineSvc.Latest(req.Context(), middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []*domtimeline.Entry{}
	}
	return writeJSON(w, entries)
}

// GET /v1/timeline/{id}
func (r *Router) handleTimelineGet(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	entry, err := r.timelineSvc.Get(req.Context(), domtimeline.EntryID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, entry)
}

// DELETE /v1/timeline/{id}
func (r *Router) handleTimelineDelete(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := r.timelineSvc.Delete(req.Context(), domtimeline.EntryID(id)); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

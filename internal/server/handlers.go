package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/rnwolfe/prio/internal/rank"
	"github.com/rnwolfe/prio/internal/task"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 4 << 20

// Handlers bundles the REST API handler dependencies.
type Handlers struct {
	Engine *rank.Engine
	// DefaultStrategy applies when a request names none.
	DefaultStrategy string
	// Logger receives rejected requests at debug level; nil disables that.
	Logger          *slog.Logger
	Version         string
	// Now supplies the reference date; nil means time.Now.
	Now func() time.Time
}

// RegisterRoutes registers all API routes on the given mux. Paths are served
// with and without the trailing slash.
func (h *Handlers) RegisterRoutes(mux *http.ServeMux) {
	for _, p := range []string{"/api/tasks/analyze", "/api/tasks/analyze/{$}"} {
		mux.HandleFunc("POST "+p, h.analyze)
	}
	for _, p := range []string{"/api/tasks/suggest", "/api/tasks/suggest/{$}"} {
		mux.HandleFunc("GET "+p, h.suggest)
		mux.HandleFunc("POST "+p, h.suggest)
	}
	mux.HandleFunc("GET /api/strategies", h.strategies)
}

type envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorBody struct {
	Success         bool     `json:"success"`
	Error           string   `json:"error"`
	Details         string   `json:"details,omitempty"`
	Hint            string   `json:"hint,omitempty"`
	ValidStrategies []string `json:"valid_strategies,omitempty"`
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an error envelope.
func writeError(w http.ResponseWriter, status int, body errorBody) {
	body.Success = false
	writeJSON(w, status, body)
}

// badRequest logs why a request was rejected and writes the 400 envelope.
func (h *Handlers) badRequest(w http.ResponseWriter, r *http.Request, body errorBody) {
	if h.Logger != nil {
		h.Logger.LogAttrs(r.Context(), slog.LevelDebug, "bad request",
			slog.String("path", r.URL.Path),
			slog.String("error", body.Error),
			slog.String("request_id", RequestID(r.Context())),
		)
	}
	writeError(w, http.StatusBadRequest, body)
}

func (h *Handlers) options(strategy string, completed []any) rank.Options {
	opts := rank.Options{Strategy: strategy, Completed: completed}
	if h.Now != nil {
		opts.Today = h.Now()
	}
	return opts
}

// readBatch decodes a request body into a batch. A non-nil errorBody is
// ready to send as a 400.
func (h *Handlers) readBatch(w http.ResponseWriter, r *http.Request) (*task.Batch, *errorBody) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, &errorBody{Error: "Invalid JSON format", Details: err.Error()}
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, &errorBody{Error: "Invalid JSON format", Details: err.Error()}
	}
	b, err := task.BatchFrom(v)
	var invalid *task.InvalidStrategyError
	switch {
	case errors.As(err, &invalid):
		return nil, &errorBody{Error: err.Error(), ValidStrategies: h.Engine.Strategies().Names()}
	case err != nil:
		return nil, &errorBody{Error: err.Error()}
	}
	return b, nil
}

// resolveStrategy applies the default and rejects unknown names.
func (h *Handlers) resolveStrategy(name string) (string, *errorBody) {
	if name == "" {
		name = h.DefaultStrategy
	}
	if name == "" {
		name = h.Engine.Strategies().Fallback()
	}
	if !h.Engine.Strategies().Has(name) {
		return "", &errorBody{
			Error:           "Invalid strategy: " + name,
			ValidStrategies: h.Engine.Strategies().Names(),
		}
	}
	return name, nil
}

func (h *Handlers) analyze(w http.ResponseWriter, r *http.Request) {
	b, bad := h.readBatch(w, r)
	if bad == nil && len(b.Tasks) == 0 {
		bad = &errorBody{
			Error: "No tasks provided. Please send a list of tasks.",
			Hint:  `Send {"tasks": [...]} or just [...]`,
		}
	}
	if bad != nil {
		h.badRequest(w, r, *bad)
		return
	}

	strategy, bad := h.resolveStrategy(b.Strategy)
	if bad != nil {
		h.badRequest(w, r, *bad)
		return
	}

	result := h.Engine.Analyze(b.Tasks, h.options(strategy, b.CompletedIDs))
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: result})
}

func (h *Handlers) suggest(w http.ResponseWriter, r *http.Request) {
	count, err := parseCount(r.URL.Query().Get("count"))
	if err != nil {
		h.badRequest(w, r, errorBody{Error: err.Error()})
		return
	}

	var b *task.Batch
	if r.Method == http.MethodPost {
		var bad *errorBody
		if b, bad = h.readBatch(w, r); bad != nil {
			h.badRequest(w, r, *bad)
			return
		}
	} else {
		b = batchFromQuery(r)
	}
	if len(b.Tasks) == 0 {
		h.badRequest(w, r, errorBody{
			Error: "No tasks provided.",
			Hint:  "POST your tasks to this endpoint",
		})
		return
	}

	strategy, bad := h.resolveStrategy(b.Strategy)
	if bad != nil {
		h.badRequest(w, r, *bad)
		return
	}

	result := h.Engine.Suggest(b.Tasks, count, h.options(strategy, b.CompletedIDs))
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: result})
}

// batchFromQuery reads tasks (JSON text) and strategy query parameters.
// Unreadable tasks count as none.
func batchFromQuery(r *http.Request) *task.Batch {
	q := r.URL.Query()
	b := &task.Batch{Strategy: q.Get("strategy")}
	var v any
	if err := json.Unmarshal([]byte(q.Get("tasks")), &v); err == nil {
		if list, ok := v.([]any); ok {
			if parsed, err := task.BatchFrom(list); err == nil {
				b.Tasks = parsed.Tasks
			}
		}
	}
	return b
}

// parseCount reads the suggestion count, clamped to [1, MaxSuggestions].
func parseCount(s string) (int, error) {
	if s == "" {
		return rank.DefaultSuggestions, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("Invalid count: %s", s)
	}
	return max(1, min(n, rank.MaxSuggestions)), nil
}

func (h *Handlers) strategies(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: h.Engine.Strategies().All()})
}

func (h *Handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": h.Version})
}

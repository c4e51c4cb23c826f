package incidents

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"log/slog"

	"opsalert/internal/auth"
	"opsalert/internal/events"
)

// maxEventBytes matches the Lambda asynchronous invocation payload limit.
const maxEventBytes = 256 << 10

// IngestHandler accepts one event per POST and runs it through the processor.
type IngestHandler struct {
	Processor     *Processor
	Logger        *slog.Logger
	IngestKeyHash string
}

func (h *IngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h.IngestKeyHash != "" {
		if !auth.VerifyKey(h.IngestKeyHash, r.Header.Get("X-Api-Key")) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxEventBytes)
	var e events.Event
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	res, err := h.Processor.Process(r.Context(), e)
	if err != nil {
		h.Logger.Error("process event", "err", err)
		body := map[string]string{"error": err.Error()}
		if errors.Is(err, ErrNotify) {
			body["status"] = "persisted"
		}
		writeJSON(w, http.StatusInternalServerError, body)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type ListHandler struct {
	Store  Reader
	Logger *slog.Logger
}

func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := auth.PrincipalFromContext(r.Context()); !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	q := r.URL.Query()
	filter := ListFilter{
		Severity: Severity(q.Get("severity")),
		Source:   q.Get("source"),
	}
	if filter.Severity != "" && !filter.Severity.Valid() {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if limitStr := q.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = l
		}
	}

	incs, err := h.Store.List(r.Context(), filter)
	if err != nil {
		h.Logger.Error("list incidents", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if incs == nil {
		incs = []Incident{}
	}
	writeJSON(w, http.StatusOK, incs)
}

type DetailHandler struct {
	Store  Reader
	Logger *slog.Logger
}

func (h *DetailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := auth.PrincipalFromContext(r.Context()); !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	// Path is /api/v1/incidents/{id}
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 4 || parts[3] == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	inc, err := h.Store.Get(r.Context(), parts[3])
	if errors.Is(err, ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		h.Logger.Error("get incident", "err", err, "incident_id", parts[3])
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, inc)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"domainsearch/internal/domain"
	"domainsearch/internal/service/query"
	"domainsearch/internal/session"
)

type Handler struct {
	svc      domain.SearchService
	sessions *session.Manager
	logger   *slog.Logger

	// SearchTimeout ограничивает поиск без сессии, вместе с имитацией задержки.
	SearchTimeout time.Duration
}

func NewHandler(svc domain.SearchService, sessions *session.Manager, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, sessions: sessions, logger: logger, SearchTimeout: 10 * time.Second}
}

// RegisterRoutes регистрирует маршруты на стандартном ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.HandleFunc("GET /api/v1/extensions", h.handleExtensions)
	mux.HandleFunc("GET /api/v1/search", h.handleSearch)

	mux.HandleFunc("POST /api/v1/sessions", h.handleCreateSession)
	mux.HandleFunc("GET /api/v1/sessions/{id}", h.handleGetSession)
	mux.HandleFunc("DELETE /api/v1/sessions/{id}", h.handleDeleteSession)
	mux.HandleFunc("PUT /api/v1/sessions/{id}/criteria", h.handleSetCriteria)
	mux.HandleFunc("POST /api/v1/sessions/{id}/search", h.handleSessionSearch)
	mux.HandleFunc("POST /api/v1/sessions/{id}/page/next", h.handleNextPage)
	mux.HandleFunc("POST /api/v1/sessions/{id}/page/prev", h.handlePrevPage)
	mux.HandleFunc("POST /api/v1/sessions/{id}/favorites/{domain}", h.handleToggleFavorite)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type extensionsResponse struct {
	Extensions []string `json:"extensions"`
}

func (h *Handler) handleExtensions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, extensionsResponse{Extensions: domain.Extensions})
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	c, page, err := criteriaFromQuery(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.SearchTimeout)
	defer cancel()

	res, err := h.svc.Search(ctx, c)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			h.logger.Debug("search aborted by client")
			return
		}
		h.logger.Error("search failed", "err", err)
		http.Error(w, domain.SearchFailedMessage, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, query.Paginate(res, page, domain.PageSize))
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	snap := h.sessions.Create()
	h.logger.Info("session created", "session", snap.ID)
	writeJSON(w, http.StatusCreated, snap)
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sessions.Get(r.PathValue("id"))
	h.respond(w, http.StatusOK, snap, err)
}

func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(r.PathValue("id")); err != nil {
		h.respond(w, 0, session.Snapshot{}, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSetCriteria(w http.ResponseWriter, r *http.Request) {
	c := domain.DefaultCriteria()
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if err := c.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	snap, err := h.sessions.SetCriteria(r.PathValue("id"), c)
	h.respond(w, http.StatusAccepted, snap, err)
}

func (h *Handler) handleSessionSearch(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sessions.Search(r.PathValue("id"))
	h.respond(w, http.StatusAccepted, snap, err)
}

func (h *Handler) handleNextPage(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sessions.NextPage(r.PathValue("id"))
	h.respond(w, http.StatusOK, snap, err)
}

func (h *Handler) handlePrevPage(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sessions.PrevPage(r.PathValue("id"))
	h.respond(w, http.StatusOK, snap, err)
}

func (h *Handler) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	d := r.PathValue("domain")
	if err := domain.ValidateName(d); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	snap, err := h.sessions.ToggleFavorite(r.PathValue("id"), d)
	h.respond(w, http.StatusOK, snap, err)
}

func (h *Handler) respond(w http.ResponseWriter, status int, snap session.Snapshot, err error) {
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		h.logger.Error("session request failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, status, snap)
}

// criteriaFromQuery начинает с умолчаний формы; переопределяются только
// переданные параметры.
func criteriaFromQuery(q url.Values) (domain.Criteria, int, error) {
	c := domain.DefaultCriteria()
	c.Prefix = q.Get("prefix")
	c.Extension = q.Get("extension")

	var err error
	if v := q.Get("meaningful"); v != "" {
		if c.MeaningfulOnly, err = strconv.ParseBool(v); err != nil {
			return c, 0, errors.New("meaningful must be a boolean")
		}
	}
	if v := q.Get("available"); v != "" {
		if c.AvailableOnly, err = strconv.ParseBool(v); err != nil {
			return c, 0, errors.New("available must be a boolean")
		}
	}
	if v := q.Get("max_length"); v != "" {
		if c.MaxLength, err = strconv.Atoi(v); err != nil {
			return c, 0, errors.New("max_length must be an integer")
		}
	}
	if c.SortBy, err = domain.ParseSortBy(q.Get("sort")); err != nil {
		return c, 0, err
	}
	if err := c.Validate(); err != nil {
		return c, 0, err
	}

	page := 1
	if v := q.Get("page"); v != "" {
		if page, err = strconv.Atoi(v); err != nil {
			return c, 0, errors.New("page must be an integer")
		}
	}
	return c.Normalize(), page, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

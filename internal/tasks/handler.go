package tasks

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/taskhive/taskhive/internal/shared"
)

// Handler wires HTTP endpoints for task management. Every route expects a
// subject id already bound by the auth guard.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers task routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/stats", h.handleStats)
	r.Get("/{id}", h.handleGet)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
}

type listResponse struct {
	Tasks []Task `json:"tasks"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		shared.RespondError(w, h.logger, shared.ErrTokenMissing)
		return
	}
	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	task, err := h.service.Create(r.Context(), ownerID, req)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusCreated, map[string]*Task{"task": task})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		shared.RespondError(w, h.logger, shared.ErrTokenMissing)
		return
	}
	req := parseListRequest(r)
	tasks, total, err := h.service.List(r.Context(), ownerID, req)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	if tasks == nil {
		tasks = []Task{}
	}
	page := shared.NewPagination(req.Page, req.Limit, total)
	shared.RespondJSON(w, http.StatusOK, listResponse{
		Tasks: tasks,
		Total: total,
		Page:  page.Page,
		Limit: page.PerPage,
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ownerID, id, ok := h.ownedID(w, r)
	if !ok {
		return
	}
	task, err := h.service.Get(r.Context(), ownerID, id)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]*Task{"task": task})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ownerID, id, ok := h.ownedID(w, r)
	if !ok {
		return
	}
	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	task, err := h.service.Update(r.Context(), ownerID, id, req)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]*Task{"task": task})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ownerID, id, ok := h.ownedID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), ownerID, id); err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		shared.RespondError(w, h.logger, shared.ErrTokenMissing)
		return
	}
	stats, err := h.service.Stats(r.Context(), ownerID)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, stats)
}

// ownedID resolves the bound subject id and the {id} route parameter,
// writing the error response itself when either is unusable.
func (h *Handler) ownedID(w http.ResponseWriter, r *http.Request) (ownerID, id int64, ok bool) {
	ownerID, bound := shared.UserIDFromContext(r.Context())
	if !bound {
		shared.RespondError(w, h.logger, shared.ErrTokenMissing)
		return 0, 0, false
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		// Unparseable ids behave like absent resources, same as cross-tenant ids.
		shared.RespondError(w, h.logger, shared.ErrNotFound)
		return 0, 0, false
	}
	return ownerID, id, true
}

func parseListRequest(r *http.Request) ListTasksRequest {
	q := r.URL.Query()
	req := ListTasksRequest{
		Sort:  q.Get("sort"),
		Page:  1,
		Limit: 20,
	}
	if v := q.Get("q"); v != "" {
		req.Query = &v
	}
	if v := q.Get("completed"); v != "" {
		completed := v == "true"
		req.Completed = &completed
	}
	if v := q.Get("priority"); v != "" {
		priority := Priority(v)
		req.Priority = &priority
	}
	if v := q.Get("tags"); v != "" {
		for _, tag := range strings.Split(v, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				req.Tags = append(req.Tags, tag)
			}
		}
	}
	if v := q.Get("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			req.Page = parsed
		}
	}
	if v := q.Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 100 {
			req.Limit = parsed
		}
	}
	return req
}

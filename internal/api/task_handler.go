package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/tasknest/tasknest-api/internal/api/middleware"
	"github.com/tasknest/tasknest-api/internal/api/shared"
	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/platform/logger"
	"github.com/tasknest/tasknest-api/internal/store"
)

// TaskHandler handles the task API endpoints. Every operation is scoped to
// the authenticated user from the request context; a task belonging to
// someone else is indistinguishable from a missing one.
type TaskHandler struct {
	taskStore store.TaskStore
	validator *validator.Validate
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskStore store.TaskStore) *TaskHandler {
	return &TaskHandler{
		taskStore: taskStore,
		validator: validator.New(),
	}
}

// List handles GET /api/tasks. Filtering, search and sort come from query
// parameters; unknown parameters are ignored.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Access token required")
		return
	}

	q := r.URL.Query()
	filter := store.TaskFilter{
		Search:    q.Get("search"),
		Category:  q.Get("category"),
		Priority:  q.Get("priority"),
		Completed: q.Get("completed"),
		SortBy:    q.Get("sortBy"),
	}

	tasks, err := h.taskStore.List(r.Context(), userID, filter)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// Get handles GET /api/tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Access token required")
		return
	}

	taskID, err := parseTaskID(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return
	}

	task, err := h.taskStore.GetByID(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// Create handles POST /api/tasks. The owner always comes from the token,
// never from the request body.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Access token required")
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := domain.NewTask(userID, req.Title)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task.Description = req.Description
	if req.Priority != "" {
		task.Priority = domain.Priority(req.Priority)
	}
	if req.Category != "" {
		task.Category = req.Category
	}
	if req.Tags != nil {
		task.Tags = req.Tags
	}
	task.DueDate = req.DueDate

	if err := task.Validate(); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.taskStore.Create(r.Context(), task); err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, task)
}

// Update handles PUT /api/tasks/{id}. Fields absent from the body keep
// their stored values. A JSON null is treated the same as an absent key
// for every field except dueDate, where an explicit "dueDate": null
// clears the stored due date.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Access token required")
		return
	}

	taskID, err := parseTaskID(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	var req UpdateTaskRequest
	if err := json.Unmarshal(body, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := h.taskStore.GetByID(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch task")
		return
	}

	applyTaskUpdate(task, &req, body)

	if err := task.Validate(); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.taskStore.Update(r.Context(), task); err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// Delete handles DELETE /api/tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Access token required")
		return
	}

	taskID, err := parseTaskID(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return
	}

	if err := h.taskStore.Delete(r.Context(), userID, taskID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}

	log := logger.FromContext(r.Context())
	log.Debug("task deleted", "task_id", taskID)

	shared.RespondWithJSON(w, r, http.StatusOK, AckResponse{Message: "Task deleted"})
}

// Summary handles GET /api/tasks/stats/summary.
func (h *TaskHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Access token required")
		return
	}

	summary, err := h.taskStore.Summarize(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch stats")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}

// ListCategories handles GET /api/categories.
func (h *TaskHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Access token required")
		return
	}

	categories, err := h.taskStore.ListCategories(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch categories")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, categories)
}

// ListTags handles GET /api/tags.
func (h *TaskHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Access token required")
		return
	}

	tags, err := h.taskStore.ListTags(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch tags")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tags)
}

// parseTaskID extracts and parses the {id} URL parameter. A malformed ID
// maps to not-found rather than bad-request so that probing with garbage
// IDs looks the same as probing with unknown ones.
func parseTaskID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.Join(domain.ErrInvalidID, err)
	}
	return id, nil
}

// applyTaskUpdate copies the fields present in the request onto the task.
// The raw body is consulted only to detect an explicit "dueDate": null so
// callers can clear a due date.
func applyTaskUpdate(task *domain.Task, req *UpdateTaskRequest, body []byte) {
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}
	if req.Priority != nil {
		task.Priority = domain.Priority(*req.Priority)
	}
	if req.Category != nil {
		task.Category = *req.Category
	}
	if req.Tags != nil {
		task.Tags = *req.Tags
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	} else if rawKeyIsNull(body, "dueDate") {
		task.DueDate = nil
	}
}

// rawKeyIsNull reports whether the JSON object in body contains key with a
// literal null value.
func rawKeyIsNull(body []byte, key string) bool {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return false
	}
	v, present := raw[key]
	return present && bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/smarttodo/prioritizer/internal/events"
	"github.com/smarttodo/prioritizer/internal/scoring"
	"github.com/smarttodo/prioritizer/internal/store"
)

type TodosHandler struct {
	store  store.Store
	scorer *scoring.Scorer
	events events.Client
}

func NewTodosHandler(s store.Store, sc *scoring.Scorer, e events.Client) *TodosHandler {
	return &TodosHandler{store: s, scorer: sc, events: e}
}

type createTodoRequest struct {
	Title           string     `json:"title"`
	Tags            TagList    `json:"tags"`
	DurationMinutes int        `json:"duration_minutes"`
	DueDate         *Timestamp `json:"due_date,omitempty"`
}

type updateTodoRequest struct {
	Title           string     `json:"title"`
	Completed       bool       `json:"completed"`
	Tags            TagList    `json:"tags"`
	DurationMinutes int        `json:"duration_minutes"`
	DueDate         *Timestamp `json:"due_date,omitempty"`
}

func (h *TodosHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.TodoFilter{}
	if v := r.URL.Query().Get("completed"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			filter.Completed = &b
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}

	todos, err := h.store.ListTodos(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list todos"})
		return
	}
	writeJSON(w, http.StatusOK, todos)
}

func (h *TodosHandler) Create(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, 1<<20)
	defer body.Close()

	var req createTodoRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	req.Title = strings.TrimSpace(req.Title)

	tags := storageTags(req.Tags)
	createdAt := time.Now().UTC()
	features := scoring.NewTodoFeatures(req.Title, false, &createdAt, req.DueDate.ptr(), tags)

	todo, err := h.store.CreateTodo(r.Context(), store.SaveTodoInput{
		Title:           req.Title,
		Completed:       false,
		Tags:            tags,
		DurationMinutes: clampDuration(req.DurationMinutes),
		DueDate:         req.DueDate.ptr(),
		PriorityScore:   h.scorer.Score(features),
	})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	h.publishScored(todo)
	writeJSON(w, http.StatusCreated, todo)
}

func (h *TodosHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(w, r)
	if !ok {
		return
	}
	todo, err := h.store.GetTodo(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load todo"})
		return
	}
	if todo == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "todo not found"})
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

func (h *TodosHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(w, r)
	if !ok {
		return
	}

	body := http.MaxBytesReader(w, r.Body, 1<<20)
	defer body.Close()

	var req updateTodoRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	existing, err := h.store.GetTodo(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load todo"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "todo not found"})
		return
	}

	title := strings.TrimSpace(req.Title)
	tags := storageTags(req.Tags)
	createdAt := existing.CreatedAt
	features := scoring.NewTodoFeatures(title, req.Completed, &createdAt, req.DueDate.ptr(), tags)

	todo, err := h.store.UpdateTodo(r.Context(), id, store.SaveTodoInput{
		Title:           title,
		Completed:       req.Completed,
		Tags:            tags,
		DurationMinutes: clampDuration(req.DurationMinutes),
		DueDate:         req.DueDate.ptr(),
		PriorityScore:   h.scorer.Score(features),
	})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if todo == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "todo not found"})
		return
	}

	h.publishScored(todo)
	writeJSON(w, http.StatusOK, todo)
}

func (h *TodosHandler) publishScored(todo *store.Todo) {
	if h.events == nil {
		return
	}
	id := strconv.FormatInt(todo.ID, 10)
	_ = h.events.Publish(events.SubjectTodoScored(id), events.TodoScoredEvent{
		TodoID:        todo.ID,
		Title:         todo.Title,
		PriorityScore: todo.PriorityScore,
	})
}

func (h *TodosHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(w, r)
	if !ok {
		return
	}
	deleted, err := h.store.DeleteTodo(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete"})
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "todo not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func todoID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// storageTags normalizes tags for persistence: lowercase, trimmed,
// deduplicated, capped at 32 characters. Stricter than the scoring
// normalizer, which keeps duplicates and case.
func storageTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, raw := range tags {
		tag := strings.TrimSpace(strings.ToLower(raw))
		if tag == "" {
			continue
		}
		if len(tag) > 32 {
			tag = tag[:32]
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func clampDuration(val int) int {
	if val < 0 {
		return 0
	}
	if val > 24*60 {
		return 24 * 60
	}
	return val
}

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/smarttodo/prioritizer/internal/events"
	"github.com/smarttodo/prioritizer/internal/scoring"
)

const (
	maxTitleLength = 200
	maxTagsPerTodo = 20
)

type ScoreHandler struct {
	scorer   *scoring.Scorer
	events   events.Client
	maxBatch int
}

func NewScoreHandler(s *scoring.Scorer, e events.Client, maxBatch int) *ScoreHandler {
	return &ScoreHandler{scorer: s, events: e, maxBatch: maxBatch}
}

// TodoPayload is one todo record in a scoring request.
type TodoPayload struct {
	Title     string     `json:"title"`
	Completed bool       `json:"completed"`
	CreatedAt *Timestamp `json:"created_at,omitempty"`
	DueDate   *Timestamp `json:"due_date,omitempty"`
	Tags      TagList    `json:"tags"`
}

type ScoreRequest struct {
	Todos []TodoPayload `json:"todos"`
}

type ScoreResponse struct {
	Results []scoring.ScoredTodo `json:"results"`
}

// Score handles POST /api/v1/score: validates the batch shape and hands
// it to the engine. The engine itself never fails on well-typed input;
// everything rejected here is a caller error.
func (h *ScoreHandler) Score(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, 1<<20)
	defer body.Close()

	var req ScoreRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if len(req.Todos) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "at least one todo is required"})
		return
	}
	if len(req.Todos) > h.maxBatch {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("batch exceeds maximum of %d todos", h.maxBatch),
		})
		return
	}

	todos := make([]scoring.TodoInput, 0, len(req.Todos))
	for i, p := range req.Todos {
		if p.Title == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("todo %d: title is required", i),
			})
			return
		}
		if len(p.Title) > maxTitleLength {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("todo %d: title exceeds %d characters", i, maxTitleLength),
			})
			return
		}
		if len(p.Tags) > maxTagsPerTodo {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("todo %d: more than %d tags", i, maxTagsPerTodo),
			})
			return
		}
		todos = append(todos, scoring.TodoInput{
			Title:     p.Title,
			Completed: p.Completed,
			CreatedAt: p.CreatedAt.ptr(),
			DueDate:   p.DueDate.ptr(),
			Tags:      p.Tags,
		})
	}

	results := h.scorer.ScoreBatch(todos)
	todosScoredTotal.Add(float64(len(results)))

	if h.events != nil {
		_ = h.events.Publish(events.SubjectBatchScored, events.BatchScoredEvent{
			Count:     len(results),
			Timestamp: time.Now().UTC(),
		})
	}

	writeJSON(w, http.StatusOK, ScoreResponse{Results: results})
}

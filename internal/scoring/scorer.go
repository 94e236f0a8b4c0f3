package scoring

import (
	"log/slog"
	"time"
)

// TodoInput is one raw record presented to the batch entry point.
type TodoInput struct {
	Title     string     `json:"title"`
	Completed bool       `json:"completed"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	Tags      []string   `json:"tags"`
}

// ScoredTodo echoes the input record with its computed score attached.
type ScoredTodo struct {
	TodoInput
	PriorityScore float64 `json:"priority_score"`
}

// Scorer computes normalized priority scores in [0, 1] for todo items.
// It is stateless apart from the injected clock and safe for
// concurrent use.
type Scorer struct {
	now    func() time.Time
	logger *slog.Logger
}

// NewScorer creates a Scorer reading the live wall clock.
func NewScorer(logger *slog.Logger) *Scorer {
	return &Scorer{now: time.Now, logger: logger}
}

// NewScorerWithClock creates a Scorer with an injected clock. Tests use
// this to pin the evaluation instant.
func NewScorerWithClock(now func() time.Time, logger *slog.Logger) *Scorer {
	return &Scorer{now: now, logger: logger}
}

// Score computes the priority score for a single item, sampling the
// clock once.
func (s *Scorer) Score(f TodoFeatures) float64 {
	return s.ScoreAt(f, s.now().UTC())
}

// ScoreAt computes the priority score against a fixed evaluation
// instant. The result is the base score plus the four signal bonuses,
// minus the completion penalty for completed items, rounded to three
// decimal places and then clamped into [0, 1]. It never fails; every
// well-typed input maps to a score.
func (s *Scorer) ScoreAt(f TodoFeatures, now time.Time) float64 {
	score := baseScore
	score += KeywordBonus(f.Title)
	score += TagBonus(f.Tags)
	score += AgeBonus(f.CreatedAt, now)
	score += DueDateBonus(f.DueDate, now)

	if f.Completed {
		score -= completionPenalty
	}

	return clamp(round3(score), 0.0, 1.0)
}

// ScoreBatch scores records in input order, sampling the clock once so
// every item in the batch shares the same evaluation instant. Output
// ordering matches input ordering exactly. The engine places no
// ceiling on batch size; callers enforce their own limits.
func (s *Scorer) ScoreBatch(todos []TodoInput) []ScoredTodo {
	now := s.now().UTC()
	results := make([]ScoredTodo, 0, len(todos))
	for _, todo := range todos {
		f := NewTodoFeatures(todo.Title, todo.Completed, todo.CreatedAt, todo.DueDate, todo.Tags)
		results = append(results, ScoredTodo{
			TodoInput:     todo,
			PriorityScore: s.ScoreAt(f, now),
		})
	}
	if s.logger != nil {
		s.logger.Debug("scored batch", "count", len(results))
	}
	return results
}

package events

import "time"

type BatchScoredEvent struct {
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

type TodoScoredEvent struct {
	TodoID        int64   `json:"todo_id"`
	Title         string  `json:"title"`
	PriorityScore float64 `json:"priority_score"`
}

type PipelineRunEvent struct {
	RunID           string    `json:"run_id"`
	TrainingSamples int       `json:"training_samples"`
	MAE             float64   `json:"mae,omitempty"`
	F1              float64   `json:"f1,omitempty"`
	Error           string    `json:"error,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

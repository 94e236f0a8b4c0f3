package pipeline

import (
	"math"

	"github.com/smarttodo/prioritizer/internal/store"
)

// DatasetStats summarizes one extraction of the todos table.
type DatasetStats struct {
	Total       int     `json:"total"`
	Completed   int     `json:"completed"`
	Pending     int     `json:"pending"`
	AvgDuration float64 `json:"avg_duration"`
	AvgPriority float64 `json:"avg_priority"`
}

// FeatureRow is one training sample derived from a stored todo.
type FeatureRow struct {
	TitleLength     int     `json:"title_length"`
	HasTags         bool    `json:"has_tags"`
	TagCount        int     `json:"tag_count"`
	DurationMinutes int     `json:"duration_minutes"`
	PriorityScore   float64 `json:"priority_score"`
	Completed       bool    `json:"completed"`
}

// Dataset is the prepared training dataset for one pipeline run.
type Dataset struct {
	Size       int          `json:"dataset_size"`
	Features   []FeatureRow `json:"features"`
	Statistics DatasetStats `json:"statistics"`
}

// BuildDataset turns extracted rows into features and statistics.
func BuildDataset(todos []*store.Todo) Dataset {
	total := len(todos)
	if total == 0 {
		return Dataset{Features: []FeatureRow{}}
	}

	var completed int
	var sumDuration int
	var sumPriority float64
	features := make([]FeatureRow, 0, total)
	for _, t := range todos {
		if t.Completed {
			completed++
		}
		sumDuration += t.DurationMinutes
		sumPriority += t.PriorityScore
		features = append(features, FeatureRow{
			TitleLength:     len(t.Title),
			HasTags:         len(t.Tags) > 0,
			TagCount:        len(t.Tags),
			DurationMinutes: t.DurationMinutes,
			PriorityScore:   t.PriorityScore,
			Completed:       t.Completed,
		})
	}

	return Dataset{
		Size:     total,
		Features: features,
		Statistics: DatasetStats{
			Total:       total,
			Completed:   completed,
			Pending:     total - completed,
			AvgDuration: round2(float64(sumDuration) / float64(total)),
			AvgPriority: round3(sumPriority / float64(total)),
		},
	}
}

// ModelParams are the rule weights derived from dataset statistics.
// They parameterize the published model record only; the scoring
// engine's own tables are fixed.
type ModelParams struct {
	KeywordBonus    float64 `json:"keyword_bonus"`
	TagBonus        float64 `json:"tag_bonus"`
	DurationPenalty float64 `json:"duration_penalty"`
}

// DeriveParams scales the rule weights by dataset characteristics.
// An empty dataset falls back to the stock weights.
func DeriveParams(ds Dataset) ModelParams {
	if ds.Size == 0 {
		return ModelParams{KeywordBonus: 0.35, TagBonus: 0.10, DurationPenalty: 0.08}
	}

	durationFactor := 0.5
	if ds.Statistics.AvgDuration > 0 {
		durationFactor = math.Min(ds.Statistics.AvgDuration/60.0, 1.0)
	}
	priorityFactor := ds.Statistics.AvgPriority

	return ModelParams{
		KeywordBonus:    round2(0.2 + durationFactor*0.3),
		TagBonus:        round2(0.05 + priorityFactor*0.15),
		DurationPenalty: round2(0.05 + durationFactor*0.1),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

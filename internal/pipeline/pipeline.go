package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/smarttodo/prioritizer/internal/events"
	"github.com/smarttodo/prioritizer/internal/store"
	"github.com/smarttodo/prioritizer/internal/tracking"
)

// RunResult captures the outcome of one pipeline run.
type RunResult struct {
	RunID           string      `json:"run_id"`
	TrainingSamples int         `json:"training_samples"`
	MAE             float64     `json:"mae"`
	F1              float64     `json:"f1"`
	Params          ModelParams `json:"params"`
}

// Runner periodically extracts the todos dataset, derives model
// parameters and evaluation metrics, and logs the run to the tracking
// server. It plays the role of the daily batch job.
type Runner struct {
	store      store.Store
	tracker    tracking.Client
	events     events.Client
	interval   time.Duration
	experiment string
	logger     *slog.Logger

	// The evaluation metrics are synthetic; randFloat is injectable so
	// tests can pin them.
	randFloat func() float64
	now       func() time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

func New(s store.Store, t tracking.Client, e events.Client, interval time.Duration, experiment string, logger *slog.Logger) *Runner {
	return &Runner{
		store:      s,
		tracker:    t,
		events:     e,
		interval:   interval,
		experiment: experiment,
		logger:     logger,
		randFloat:  rand.Float64,
		now:        time.Now,
	}
}

// Start launches the run loop: one run immediately, then one per
// interval until the context is cancelled or Stop is called.
func (r *Runner) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})

	go func() {
		defer close(r.done)

		if _, err := r.RunOnce(ctx); err != nil {
			r.logger.Error("pipeline run failed", "error", err)
		}

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := r.RunOnce(ctx); err != nil {
					r.logger.Error("pipeline run failed", "error", err)
				}
			}
		}
	}()
}

// Stop cancels the run loop and waits for it to exit.
func (r *Runner) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
}

// RunOnce executes a single extract/prepare/log cycle.
func (r *Runner) RunOnce(ctx context.Context) (*RunResult, error) {
	runID := uuid.New().String()
	startedAt := r.now().UTC()

	if r.events != nil {
		_ = r.events.Publish(events.SubjectPipelineRunStarted(runID), events.PipelineRunEvent{
			RunID:     runID,
			Timestamp: startedAt,
		})
	}

	todos, err := r.store.ListTodos(ctx, store.TodoFilter{})
	if err != nil {
		r.publishFailed(runID, err)
		return nil, fmt.Errorf("extract todos: %w", err)
	}

	ds := BuildDataset(todos)
	params := DeriveParams(ds)

	mae := round3(0.05 + r.randFloat()*0.20)
	f1 := round3(1 - mae)

	result := &RunResult{
		RunID:           runID,
		TrainingSamples: ds.Size,
		MAE:             mae,
		F1:              f1,
		Params:          params,
	}

	completedRatio := 0.0
	if ds.Size > 0 {
		completedRatio = float64(ds.Statistics.Completed) / float64(ds.Size)
	}

	run := &tracking.Run{
		RunID:      runID,
		Name:       "priority-model-" + startedAt.Format("20060102-150405"),
		Experiment: r.experiment,
		Params: map[string]string{
			"model_type":       "rule_based",
			"training_samples": strconv.Itoa(ds.Size),
			"keyword_bonus":    formatFloat(params.KeywordBonus),
			"tag_bonus":        formatFloat(params.TagBonus),
			"duration_penalty": formatFloat(params.DurationPenalty),
		},
		Metrics: map[string]float64{
			"mae":             mae,
			"f1":              f1,
			"dataset_size":    float64(ds.Size),
			"completed_ratio": completedRatio,
			"avg_duration":    ds.Statistics.AvgDuration,
			"avg_priority":    ds.Statistics.AvgPriority,
		},
		Tags: map[string]string{
			"pipeline":       "prioritizer",
			"execution_date": startedAt.Format(time.RFC3339),
		},
		StartedAt: startedAt,
	}

	if r.tracker != nil {
		if err := r.tracker.LogRun(ctx, run); err != nil {
			r.publishFailed(runID, err)
			return nil, fmt.Errorf("log run: %w", err)
		}
	}

	if r.events != nil {
		_ = r.events.Publish(events.SubjectPipelineRunCompleted(runID), events.PipelineRunEvent{
			RunID:           runID,
			TrainingSamples: ds.Size,
			MAE:             mae,
			F1:              f1,
			Timestamp:       startedAt,
		})
	}

	r.logger.Info("pipeline run completed",
		"run_id", runID,
		"samples", ds.Size,
		"mae", mae,
		"f1", f1,
	)
	return result, nil
}

func (r *Runner) publishFailed(runID string, cause error) {
	if r.events == nil {
		return
	}
	_ = r.events.Publish(events.SubjectPipelineRunFailed(runID), events.PipelineRunEvent{
		RunID:     runID,
		Error:     cause.Error(),
		Timestamp: r.now().UTC(),
	})
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

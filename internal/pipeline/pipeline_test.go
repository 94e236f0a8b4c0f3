package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttodo/prioritizer/internal/store"
	"github.com/smarttodo/prioritizer/internal/tracking"
)

type mockStore struct {
	todos []*store.Todo
	err   error
}

func (m *mockStore) CreateTodo(_ context.Context, _ store.SaveTodoInput) (*store.Todo, error) {
	return nil, nil
}
func (m *mockStore) GetTodo(_ context.Context, _ int64) (*store.Todo, error) { return nil, nil }
func (m *mockStore) ListTodos(_ context.Context, _ store.TodoFilter) ([]*store.Todo, error) {
	return m.todos, m.err
}
func (m *mockStore) UpdateTodo(_ context.Context, _ int64, _ store.SaveTodoInput) (*store.Todo, error) {
	return nil, nil
}
func (m *mockStore) DeleteTodo(_ context.Context, _ int64) (bool, error)  { return false, nil }
func (m *mockStore) GetStats(_ context.Context) (*store.TodoStats, error) { return nil, nil }
func (m *mockStore) Close() error                                         { return nil }

type mockTracker struct {
	mu   sync.Mutex
	runs []*tracking.Run
	err  error
}

func (m *mockTracker) LogRun(_ context.Context, run *tracking.Run) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	m.runs = append(m.runs, run)
	m.mu.Unlock()
	return nil
}

func (m *mockTracker) runCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.runs)
}

type mockEvents struct {
	subjects []string
}

func (m *mockEvents) Publish(subject string, _ interface{}) error {
	m.subjects = append(m.subjects, subject)
	return nil
}
func (m *mockEvents) Close() {}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleTodos() []*store.Todo {
	return []*store.Todo{
		{Title: "write report", Tags: []string{"work"}, DurationMinutes: 30, PriorityScore: 0.5},
		{Title: "fix login bug", Tags: []string{"bug"}, DurationMinutes: 90, PriorityScore: 0.9, Completed: true},
		{Title: "plan offsite", Tags: nil, DurationMinutes: 60, PriorityScore: 0.4},
	}
}

func newTestRunner(s store.Store, t tracking.Client, e *mockEvents) *Runner {
	r := New(s, t, e, time.Hour, "todo-priority-model", testLogger())
	r.randFloat = func() float64 { return 0.5 }
	r.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	return r
}

func TestBuildDataset(t *testing.T) {
	ds := BuildDataset(sampleTodos())

	require.Equal(t, 3, ds.Size)
	assert.Equal(t, 1, ds.Statistics.Completed)
	assert.Equal(t, 2, ds.Statistics.Pending)
	assert.InDelta(t, 60.0, ds.Statistics.AvgDuration, 0.001)
	assert.InDelta(t, 0.6, ds.Statistics.AvgPriority, 0.001)

	require.Len(t, ds.Features, 3)
	assert.Equal(t, len("write report"), ds.Features[0].TitleLength)
	assert.True(t, ds.Features[0].HasTags)
	assert.False(t, ds.Features[2].HasTags)
}

func TestBuildDatasetEmpty(t *testing.T) {
	ds := BuildDataset(nil)
	assert.Equal(t, 0, ds.Size)
	assert.Empty(t, ds.Features)
}

func TestDeriveParams(t *testing.T) {
	ds := BuildDataset(sampleTodos())
	params := DeriveParams(ds)

	// avg duration 60m -> factor 1.0; avg priority 0.6.
	assert.InDelta(t, 0.50, params.KeywordBonus, 0.001)
	assert.InDelta(t, 0.14, params.TagBonus, 0.001)
	assert.InDelta(t, 0.15, params.DurationPenalty, 0.001)
}

func TestDeriveParamsEmptyDataset(t *testing.T) {
	params := DeriveParams(Dataset{})
	assert.Equal(t, ModelParams{KeywordBonus: 0.35, TagBonus: 0.10, DurationPenalty: 0.08}, params)
}

func TestRunOnce(t *testing.T) {
	tracker := &mockTracker{}
	ev := &mockEvents{}
	r := newTestRunner(&mockStore{todos: sampleTodos()}, tracker, ev)

	result, err := r.RunOnce(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 3, result.TrainingSamples)
	assert.InDelta(t, 0.15, result.MAE, 0.001)
	assert.InDelta(t, 0.85, result.F1, 0.001)

	require.Len(t, tracker.runs, 1)
	run := tracker.runs[0]
	assert.Equal(t, result.RunID, run.RunID)
	assert.Equal(t, "todo-priority-model", run.Experiment)
	assert.Equal(t, "rule_based", run.Params["model_type"])
	assert.Equal(t, "3", run.Params["training_samples"])
	assert.InDelta(t, 0.15, run.Metrics["mae"], 0.001)
	assert.InDelta(t, 1.0/3.0, run.Metrics["completed_ratio"], 0.001)
	assert.Equal(t, "priority-model-20240601-000000", run.Name)

	require.Len(t, ev.subjects, 2)
	assert.Equal(t, "todo.pipeline."+result.RunID+".started", ev.subjects[0])
	assert.Equal(t, "todo.pipeline."+result.RunID+".completed", ev.subjects[1])
}

func TestRunOnceEmptyDataset(t *testing.T) {
	tracker := &mockTracker{}
	r := newTestRunner(&mockStore{}, tracker, &mockEvents{})

	result, err := r.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.TrainingSamples)
	assert.Equal(t, ModelParams{KeywordBonus: 0.35, TagBonus: 0.10, DurationPenalty: 0.08}, result.Params)

	require.Len(t, tracker.runs, 1)
	assert.Equal(t, 0.0, tracker.runs[0].Metrics["completed_ratio"])
}

func TestRunOnceExtractFailure(t *testing.T) {
	ev := &mockEvents{}
	r := newTestRunner(&mockStore{err: errors.New("connection refused")}, &mockTracker{}, ev)

	_, err := r.RunOnce(context.Background())
	require.Error(t, err)
	require.Len(t, ev.subjects, 2)
	assert.Contains(t, ev.subjects[1], ".failed")
}

func TestRunOnceTrackerFailure(t *testing.T) {
	r := newTestRunner(&mockStore{todos: sampleTodos()}, &mockTracker{err: errors.New("boom")}, &mockEvents{})

	_, err := r.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log run")
}

func TestStartStop(t *testing.T) {
	tracker := &mockTracker{}
	r := newTestRunner(&mockStore{todos: sampleTodos()}, tracker, &mockEvents{})

	r.Start(context.Background())
	// The initial run fires before the first tick.
	deadline := time.After(2 * time.Second)
	for tracker.runCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("initial pipeline run never happened")
		case <-time.After(10 * time.Millisecond):
		}
	}
	r.Stop()

	require.NotZero(t, tracker.runCount())
}

package events

const (
	SubjectBatchScored = "todo.score.batch"

	StreamName   = "PRIORITIZER_EVENTS"
	StreamMaxAge = "168h" // 7 days
)

func SubjectTodoScored(id string) string { return "todo.score." + id }

func SubjectPipelineRunStarted(runID string) string   { return "todo.pipeline." + runID + ".started" }
func SubjectPipelineRunCompleted(runID string) string { return "todo.pipeline." + runID + ".completed" }
func SubjectPipelineRunFailed(runID string) string    { return "todo.pipeline." + runID + ".failed" }

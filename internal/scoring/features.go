package scoring

import (
	"fmt"
	"strings"
	"time"
)

// TodoFeatures bundles all inputs needed to score a single todo item.
// It is built once per item and never mutated; every bonus calculator
// is a pure function of it plus the evaluation instant.
type TodoFeatures struct {
	Title     string
	Completed bool
	CreatedAt *time.Time
	DueDate   *time.Time
	Tags      []string
}

// NewTodoFeatures constructs a normalized feature value from one raw
// record. Timestamps are coerced to UTC and tags are cleaned.
func NewTodoFeatures(title string, completed bool, createdAt, dueDate *time.Time, tags []string) TodoFeatures {
	return TodoFeatures{
		Title:     title,
		Completed: completed,
		CreatedAt: NormalizeTime(createdAt),
		DueDate:   NormalizeTime(dueDate),
		Tags:      NormalizeTags(tags),
	}
}

// NormalizeTags trims entries and drops empty ones. Order and
// duplicates are preserved; case folding happens inside TagBonus.
// Always succeeds, worst case returning an empty slice.
func NormalizeTags(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, tag := range raw {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		out = append(out, tag)
	}
	return out
}

// NormalizeTagInput accepts the raw tags value as decoded from JSON:
// absent, a bare string, or a sequence of arbitrary scalars. A bare
// string is treated as a single-element list; nil entries are dropped.
func NormalizeTagInput(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return []string{}
	case string:
		return NormalizeTags([]string{v})
	case []string:
		return NormalizeTags(v)
	case []any:
		tags := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			tags = append(tags, fmt.Sprint(item))
		}
		return NormalizeTags(tags)
	default:
		return []string{}
	}
}

// NormalizeTime coerces an optional timestamp to UTC, the canonical
// reference zone for all duration arithmetic. nil means "field absent"
// and passes through.
func NormalizeTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

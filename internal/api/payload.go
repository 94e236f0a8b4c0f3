package api

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/smarttodo/prioritizer/internal/scoring"
)

// TagList tolerates the tag shapes clients actually send: null, a bare
// string, or an array of arbitrary scalars. Entries are trimmed and
// empties dropped during decoding.
type TagList []string

func (tl *TagList) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*tl = TagList(scoring.NormalizeTagInput(raw))
	return nil
}

func (tl TagList) MarshalJSON() ([]byte, error) {
	if tl == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(tl))
}

// Timestamp accepts RFC 3339 timestamps with or without a zone offset.
// Zoneless values are taken as UTC, the canonical reference zone.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, layout := range timestampLayouts {
		parsed, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

func (t *Timestamp) ptr() *time.Time {
	if t == nil {
		return nil
	}
	return &t.Time
}

package store

import (
	"testing"
)

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name    string
		input   SaveTodoInput
		wantErr bool
	}{
		{"valid", SaveTodoInput{Title: "write report"}, false},
		{"empty title", SaveTodoInput{}, true},
		{"title too long", SaveTodoInput{Title: string(make([]byte, 201))}, true},
		{"negative duration", SaveTodoInput{Title: "x", DurationMinutes: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateInput(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateInput() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEncodeTags(t *testing.T) {
	if got := string(encodeTags(nil)); got != "[]" {
		t.Errorf("expected empty array, got %s", got)
	}
	if got := string(encodeTags([]string{"work"})); got != `["work"]` {
		t.Errorf("expected [\"work\"], got %s", got)
	}
}

func TestTodoFilterDefaults(t *testing.T) {
	f := TodoFilter{}
	if f.Completed != nil {
		t.Error("expected nil completed filter")
	}
	if f.Limit != 0 {
		t.Errorf("expected 0 default limit, got %d", f.Limit)
	}
}

package core

import (
	"errors"
	"testing"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		from    State
		mode    Mode
		want    State
		wantErr error
	}{
		{New, DraftMode, Draft, nil},
		{New, FullMode, Published, nil},
		{Draft, DraftMode, Draft, nil},
		{Draft, FullMode, Published, nil},
		{Published, FullMode, Published, nil},
		{Published, DraftMode, Published, ErrPublishedDraft},
	}
	for _, tt := range tests {
		got, err := Transition(tt.from, tt.mode)
		if !errors.Is(err, tt.wantErr) {
			t.Fatalf("Transition(%v, %v): got error %v, want %v", tt.from, tt.mode, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("Transition(%v, %v) = %v, want %v", tt.from, tt.mode, got, tt.want)
		}
	}
}

func TestStateOf(t *testing.T) {
	if got := StateOf(nil); got != New {
		t.Fatalf("got %v", got)
	}
	if got := StateOf(&Entry{}); got != New {
		t.Fatalf("got %v", got)
	}
	if got := StateOf(&Entry{ID: 1}); got != Draft {
		t.Fatalf("got %v", got)
	}
	if got := StateOf(&Entry{ID: 1, Published: true}); got != Published {
		t.Fatalf("got %v", got)
	}
}

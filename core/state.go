package core

import "fmt"

// State is the publication state of an entry.
type State int

const (
	New State = iota
	Draft
	Published
)

func (s State) String() string {
	switch s {
	case New:
		return "new"
	case Draft:
		return "draft"
	case Published:
		return "published"
	}
	return "unknown"
}

func StateOf(e *Entry) State {
	switch {
	case e == nil || e.ID == 0:
		return New
	case e.Published:
		return Published
	default:
		return Draft
	}
}

// Mode is the kind of a submission: a full (publishing) submission or a draft save.
type Mode int

const (
	FullMode Mode = iota
	DraftMode
)

func (m Mode) String() string {
	switch m {
	case FullMode:
		return "full"
	case DraftMode:
		return "draft"
	}
	return "unknown"
}

// Transition returns the state after a submission in the given mode. There is no way back from Published.
func Transition(from State, mode Mode) (State, error) {
	switch mode {
	case FullMode:
		switch from {
		case New, Draft, Published:
			return Published, nil
		}
	case DraftMode:
		switch from {
		case New, Draft:
			return Draft, nil
		case Published:
			return from, ErrPublishedDraft
		}
	}
	return from, fmt.Errorf("invalid transition from %v in mode %v", from, mode)
}

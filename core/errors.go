package core

import "errors"

var (
	ErrCommitted           = errors.New("unit of work has already been committed")
	ErrMalformedSubmission = errors.New("malformed submission")
	ErrNoOriginalLanguage  = errors.New("no entry in the original language")
	ErrNotFound            = errors.New("entry not found")
	ErrPublishedDraft      = errors.New("can't save a draft of a published entry")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrUnknownType         = errors.New("unknown entry type")
)

package core

import (
	"strings"
)

type ValidationError struct {
	Locale  string
	Field   string // may be empty
	Message string
}

// LocaleErrors is the transport shape of the errors of one locale.
type LocaleErrors struct {
	Locale string   `json:"locale"`
	Errors []string `json:"errors"`
}

// An ErrorReport accumulates validation errors over all locale entries of a submission.
// Any error rejects the whole submission.
type ErrorReport struct {
	languages Languages
	errs      []ValidationError
}

func NewErrorReport(languages Languages) *ErrorReport {
	return &ErrorReport{
		languages: languages,
	}
}

func (r *ErrorReport) Add(locale, field, message string) {
	r.errs = append(r.errs, ValidationError{
		Locale:  locale,
		Field:   field,
		Message: message,
	})
}

func (r *ErrorReport) HasErrors() bool {
	return r != nil && len(r.errs) > 0
}

func (r *ErrorReport) ValidationErrors() []ValidationError {
	return r.errs
}

// Errors returns all messages, prefixed with the display name of their locale.
func (r *ErrorReport) Errors() []string {
	var msgs = make([]string, len(r.errs))
	for i, e := range r.errs {
		msgs[i] = r.languages.Name(e.Locale) + ": " + e.Message
	}
	return msgs
}

// ByLocale groups the prefixed messages by locale, in order of first occurrence.
func (r *ErrorReport) ByLocale() []LocaleErrors {
	var result []LocaleErrors
	var index = make(map[string]int)
	for _, e := range r.errs {
		i, ok := index[e.Locale]
		if !ok {
			i = len(result)
			index[e.Locale] = i
			result = append(result, LocaleErrors{Locale: e.Locale})
		}
		result[i].Errors = append(result[i].Errors, r.languages.Name(e.Locale)+": "+e.Message)
	}
	return result
}

// Error implements the error interface, so a report can be returned by the pipeline.
func (r *ErrorReport) Error() string {
	return "validation failed: " + strings.Join(r.Errors(), "; ")
}

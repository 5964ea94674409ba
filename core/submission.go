package core

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// top-level keys of a submission which are never language codes
const (
	keyDraftSession     = "draftSession"
	keyEntryLocales     = "entryLocales"
	keyOriginalEntry    = "originalEntry"
	keyOriginalLanguage = "original_language"
)

// A Submission is a JSON object as sent by the client. Fields which are absent from it are left unchanged by an update.
type Submission struct {
	raw gjson.Result
}

func ParseSubmission(data []byte) (*Submission, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid json", ErrMalformedSubmission)
	}
	var raw = gjson.ParseBytes(data)
	if !raw.IsObject() {
		return nil, fmt.Errorf("%w: not an object", ErrMalformedSubmission)
	}
	return &Submission{raw: raw}, nil
}

// OriginalLanguage returns the declared original language, or an empty string.
// A top-level declaration takes precedence over one in a locale entry or the original entry.
func (s *Submission) OriginalLanguage() string {
	var declared = s.raw.Get(keyOriginalLanguage).String()
	if strings.TrimSpace(declared) == "" {
		s.raw.ForEach(func(key, value gjson.Result) bool {
			if value.IsObject() {
				declared = value.Get(keyOriginalLanguage).String()
			}
			return strings.TrimSpace(declared) == ""
		})
	}
	return strings.ToLower(strings.TrimSpace(declared))
}

// DraftSession returns the draft session token, or an empty string.
func (s *Submission) DraftSession() string {
	return strings.TrimSpace(s.raw.Get(keyDraftSession).String())
}

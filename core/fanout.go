package core

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"github.com/wansing/civicpedia/util"
)

var textFields = []string{"title", "body", "description"}

// A LocaleEntry is the normalized submission for one language.
type LocaleEntry struct {
	Language         string
	OriginalLanguage string
	raw              gjson.Result
}

func (l *LocaleEntry) Get(field string) gjson.Result {
	return l.raw.Get(field)
}

func (l *LocaleEntry) IsOriginal() bool {
	return l.Language == l.OriginalLanguage
}

// IsEmpty returns true if none of title, body and description has content.
func (l *LocaleEntry) IsEmpty() bool {
	for _, field := range textFields {
		var v = l.raw.Get(field)
		switch v.Type {
		case gjson.Null:
			continue
		case gjson.String:
			if field == "body" && util.IsBlankHTML(v.Str) {
				continue
			}
			if strings.TrimSpace(v.Str) == "" {
				continue
			}
		}
		return false // non-blank string, or another type which is then reported by Text
	}
	return true
}

// Text overlays the text fields which are present in the locale entry onto base.
// Invalid fields are reported and leave the base value unchanged.
func (l *LocaleEntry) Text(base Text, report *ErrorReport) Text {
	var t = base
	for _, field := range textFields {
		var v = l.raw.Get(field)
		if !v.Exists() {
			continue
		}
		value, err := TextValue(v)
		if err != nil {
			report.Add(l.Language, field, field+": "+err.Error())
			continue
		}
		switch field {
		case "title":
			t.Title = strings.TrimSpace(value.(string))
		case "body":
			body, err := util.SanitizeHTML(value.(string))
			if err != nil {
				report.Add(l.Language, field, field+": "+err.Error())
				continue
			}
			t.Body = body
		case "description":
			t.Description = strings.TrimSpace(value.(string))
		}
	}
	return t
}

// FanOut is the result of resolving a submission into locale entries.
type FanOut struct {
	Original       *LocaleEntry
	Entries        map[string]*LocaleEntry // by language code
	ToTranslate    []string                // supported languages which are absent or empty
	NotToTranslate []string                // languages with content, written as localized texts
}

// ResolveLocales splits a submission into one locale entry per language.
//
// Top-level keys which are supported language codes hold full locale entries. If there are none, the submission itself is the entry of the original language.
// The originalEntry object is used if no full entry for the original language exists.
// Sparse entryLocales overrides (field, then language) create entries for other languages. Full entries win over them.
func ResolveLocales(sub *Submission, languages Languages, originalLanguage string) (*FanOut, error) {

	if !languages.Has(originalLanguage) {
		return nil, fmt.Errorf("%w: unsupported original language %q", ErrNoOriginalLanguage, originalLanguage)
	}

	var bodies = make(map[string]string) // language -> json object
	var full = make(map[string]bool)

	sub.raw.ForEach(func(key, value gjson.Result) bool {
		if code := key.String(); languages.Has(code) && value.IsObject() {
			bodies[code] = value.Raw
			full[code] = true
		}
		return true
	})

	if _, ok := bodies[originalLanguage]; !ok {
		if originalEntry := sub.raw.Get(keyOriginalEntry); originalEntry.IsObject() {
			bodies[originalLanguage] = originalEntry.Raw
			full[originalLanguage] = true
		} else if len(bodies) == 0 {
			bodies[originalLanguage] = sub.raw.Raw // flat submission
			full[originalLanguage] = true
		}
	}

	var entryLocales = sub.raw.Get(keyEntryLocales)
	for _, field := range textFields {
		var err error
		entryLocales.Get(field).ForEach(func(key, value gjson.Result) bool {
			var code = key.String()
			if !languages.Has(code) || code == originalLanguage || full[code] {
				return true
			}
			var body = bodies[code]
			if body == "" {
				body = "{}"
			}
			bodies[code], err = sjson.SetRaw(body, field, value.Raw)
			return err == nil
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedSubmission, err)
		}
	}

	if _, ok := bodies[originalLanguage]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoOriginalLanguage, originalLanguage)
	}

	var fanOut = &FanOut{
		Entries: make(map[string]*LocaleEntry, len(bodies)),
	}

	for code, body := range bodies {
		var err error
		if body, err = sjson.Set(body, "language", code); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedSubmission, err)
		}
		if body, err = sjson.Set(body, keyOriginalLanguage, originalLanguage); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedSubmission, err)
		}
		fanOut.Entries[code] = &LocaleEntry{
			Language:         code,
			OriginalLanguage: originalLanguage,
			raw:              gjson.Parse(body),
		}
	}

	fanOut.Original = fanOut.Entries[originalLanguage]

	for _, code := range languages.Codes() {
		if entry, ok := fanOut.Entries[code]; ok && !entry.IsEmpty() {
			fanOut.NotToTranslate = append(fanOut.NotToTranslate, code)
		} else {
			fanOut.ToTranslate = append(fanOut.ToTranslate, code)
		}
	}

	return fanOut, nil
}

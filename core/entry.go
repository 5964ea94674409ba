package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/wansing/civicpedia/util"
)

type EntryType string

const (
	Case         EntryType = "case"
	Method       EntryType = "method"
	Organization EntryType = "organization"
	Collection   EntryType = "collection"
)

var EntryTypes = []EntryType{Case, Method, Organization, Collection}

func ParseEntryType(s string) (EntryType, error) {
	for _, t := range EntryTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownType, s)
}

// Text holds the translatable fields of an entry in one language.
type Text struct {
	Title       string `json:"title"`
	Body        string `json:"body"` // html
	Description string `json:"description"`
}

func (t Text) IsEmpty() bool {
	return strings.TrimSpace(t.Title) == "" && util.IsBlankHTML(t.Body) && strings.TrimSpace(t.Description) == ""
}

// A LocalizedText is one row of the append-only text history. The current text of a language is the latest one.
type LocalizedText struct {
	EntryID   int       `json:"entry"`
	Language  string    `json:"language"`
	Timestamp time.Time `json:"timestamp"`
	Text
}

type AttributionRole string

const (
	CreatorRole AttributionRole = "creator"
	EditorRole  AttributionRole = "editor"
)

type Attribution struct {
	ID        int             `json:"id"`
	EntryID   int             `json:"entry"`
	UserID    int             `json:"user"`
	Role      AttributionRole `json:"role"`
	Timestamp time.Time       `json:"timestamp"`
	Updated   time.Time       `json:"updated"` // zero if no later edit was collapsed into this row
}

// Content holds the typed content fields of an entry, each encoded as JSON.
type Content map[string]json.RawMessage

func (c Content) Set(name string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c[name] = data
	return nil
}

// Decode decodes the named field into v. It returns false if the field is not set.
func (c Content) Decode(name string, v interface{}) (bool, error) {
	data, ok := c[name]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, v)
}

func (c Content) Equal(other Content) bool {
	if len(c) != len(other) {
		return false
	}
	for name, data := range c {
		if otherData, ok := other[name]; !ok || !bytes.Equal(data, otherData) {
			return false
		}
	}
	return true
}

func (c Content) clone() Content {
	var cloned = make(Content, len(c))
	for name, data := range c {
		cloned[name] = data
	}
	return cloned
}

// Entry is a case, method, organization or collection.
// Text is the current text of Language, which is not stored in the entry row.
type Entry struct {
	ID               int
	Type             EntryType
	OriginalLanguage string
	Published        bool
	Featured         bool
	Hidden           bool
	Verified         bool
	Completeness     string
	PostDate         time.Time
	UpdatedDate      time.Time
	ReviewedBy       int
	ReviewedAt       time.Time
	Creator          int // user id of the creator attribution
	LastUpdatedBy    int
	Content          Content

	Language string
	Text
}

// Clone returns a deep copy, as the starting point of an update.
func (e *Entry) Clone() *Entry {
	var cloned = *e
	cloned.Content = e.Content.clone()
	return &cloned
}

// Names of entry row columns, as returned by Diff.
const (
	ColOriginalLanguage = "original_language"
	ColPublished        = "published"
	ColFeatured         = "featured"
	ColHidden           = "hidden"
	ColVerified         = "verified"
	ColCompleteness     = "completeness"
	ColPostDate         = "post_date"
	ColUpdatedDate      = "updated_date"
	ColReviewedBy       = "reviewed_by"
	ColReviewedAt       = "reviewed_at"
	ColLastUpdatedBy    = "last_updated_by"
	ColContent          = "content"
)

// Diff returns the names of the entry row columns in which e differs from old.
func (e *Entry) Diff(old *Entry) []string {
	var cols []string
	var check = func(col string, changed bool) {
		if changed {
			cols = append(cols, col)
		}
	}
	check(ColOriginalLanguage, e.OriginalLanguage != old.OriginalLanguage)
	check(ColPublished, e.Published != old.Published)
	check(ColFeatured, e.Featured != old.Featured)
	check(ColHidden, e.Hidden != old.Hidden)
	check(ColVerified, e.Verified != old.Verified)
	check(ColCompleteness, e.Completeness != old.Completeness)
	check(ColPostDate, !e.PostDate.Equal(old.PostDate))
	check(ColUpdatedDate, !e.UpdatedDate.Equal(old.UpdatedDate))
	check(ColReviewedBy, e.ReviewedBy != old.ReviewedBy)
	check(ColReviewedAt, !e.ReviewedAt.Equal(old.ReviewedAt))
	check(ColLastUpdatedBy, e.LastUpdatedBy != old.LastUpdatedBy)
	check(ColContent, !e.Content.Equal(old.Content))
	return cols
}

func jsonTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

// MarshalJSON flattens content fields and metadata into one object.
func (e *Entry) MarshalJSON() ([]byte, error) {
	var m = make(map[string]interface{}, len(e.Content)+20)
	for name, data := range e.Content {
		m[name] = data
	}
	m["id"] = e.ID
	m["type"] = e.Type
	m["original_language"] = e.OriginalLanguage
	m["published"] = e.Published
	m["featured"] = e.Featured
	m["hidden"] = e.Hidden
	m["verified"] = e.Verified
	m["completeness"] = e.Completeness
	m["post_date"] = jsonTime(e.PostDate)
	m["updated_date"] = jsonTime(e.UpdatedDate)
	m["reviewed_by"] = e.ReviewedBy
	m["reviewed_at"] = jsonTime(e.ReviewedAt)
	m["creator"] = e.Creator
	m["last_updated_by"] = e.LastUpdatedBy
	m["language"] = e.Language
	m["title"] = e.Title
	m["body"] = e.Body
	m["description"] = e.Description
	return json.Marshal(m)
}

package core

import (
	"errors"
	"reflect"
	"testing"
)

var tenLanguages = Languages{
	{Code: "en", Name: "English"},
	{Code: "fr", Name: "French"},
	{Code: "es", Name: "Spanish"},
	{Code: "de", Name: "German"},
	{Code: "it", Name: "Italian"},
	{Code: "pt", Name: "Portuguese"},
	{Code: "zh", Name: "Chinese"},
	{Code: "ja", Name: "Japanese"},
	{Code: "ko", Name: "Korean"},
	{Code: "ar", Name: "Arabic"},
}

func mustParseSubmission(t *testing.T, s string) *Submission {
	t.Helper()
	sub, err := ParseSubmission([]byte(s))
	if err != nil {
		t.Fatal(err)
	}
	return sub
}

func TestParseSubmission(t *testing.T) {
	for _, in := range []string{``, `{`, `[1]`, `"x"`} {
		if _, err := ParseSubmission([]byte(in)); !errors.Is(err, ErrMalformedSubmission) {
			t.Fatalf("ParseSubmission(%q): got %v, want ErrMalformedSubmission", in, err)
		}
	}
}

func TestSubmissionOriginalLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"title":"x"}`, ""},
		{`{"original_language":" FR "}`, "fr"},
		{`{"fr":{"title":"x","original_language":"fr"}}`, "fr"},
		{`{"original_language":"de","fr":{"original_language":"fr"}}`, "de"},
	}
	for _, tt := range tests {
		if got := mustParseSubmission(t, tt.in).OriginalLanguage(); got != tt.want {
			t.Fatalf("OriginalLanguage(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolveLocalesCounts(t *testing.T) {

	var sub = mustParseSubmission(t, `{"en":{"title":"Hello"},"fr":{"title":"Bonjour"}}`)

	fanOut, err := ResolveLocales(sub, tenLanguages, "en")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(fanOut.NotToTranslate, []string{"en", "fr"}) {
		t.Fatalf("got NotToTranslate %v", fanOut.NotToTranslate)
	}
	if len(fanOut.ToTranslate) != 8 {
		t.Fatalf("got %d languages to translate, want 8", len(fanOut.ToTranslate))
	}
	if fanOut.Original.Language != "en" || !fanOut.Original.IsOriginal() {
		t.Fatalf("got original %+v", fanOut.Original)
	}
	if got := fanOut.Entries["fr"].Get("original_language").String(); got != "en" {
		t.Fatalf("got original_language %q in fr entry", got)
	}
}

func TestResolveLocalesFlat(t *testing.T) {

	var sub = mustParseSubmission(t, `{"title":"Hello","city":"Berlin"}`)

	fanOut, err := ResolveLocales(sub, tenLanguages, "en")
	if err != nil {
		t.Fatal(err)
	}
	if len(fanOut.Entries) != 1 || fanOut.Original.Get("city").String() != "Berlin" {
		t.Fatalf("got %+v", fanOut.Entries)
	}
}

func TestResolveLocalesOriginalEntry(t *testing.T) {

	var sub = mustParseSubmission(t, `{"originalEntry":{"title":"Hello"},"fr":{"title":"Bonjour"}}`)

	fanOut, err := ResolveLocales(sub, tenLanguages, "en")
	if err != nil {
		t.Fatal(err)
	}
	if fanOut.Original.Get("title").String() != "Hello" {
		t.Fatalf("got original %s", fanOut.Original.raw.Raw)
	}
}

func TestResolveLocalesEntryLocales(t *testing.T) {

	var sub = mustParseSubmission(t, `{
		"en": {"title": "Hi"},
		"fr": {"title": "Bonjour"},
		"entryLocales": {
			"title": {"de": "Hallo", "fr": "Salut", "en": "ignored", "xx": "unsupported"},
			"description": {"de": "Beschreibung"}
		}
	}`)

	fanOut, err := ResolveLocales(sub, tenLanguages, "en")
	if err != nil {
		t.Fatal(err)
	}

	var report = NewErrorReport(tenLanguages)
	if got := fanOut.Entries["en"].Text(Text{}, report).Title; got != "Hi" {
		t.Fatalf("original entry was overridden: %q", got)
	}
	if got := fanOut.Entries["fr"].Text(Text{}, report).Title; got != "Bonjour" {
		t.Fatalf("full entry lost against override: %q", got)
	}
	var de = fanOut.Entries["de"].Text(Text{}, report)
	if de.Title != "Hallo" || de.Description != "Beschreibung" {
		t.Fatalf("got de %+v", de)
	}
	if _, ok := fanOut.Entries["xx"]; ok {
		t.Fatal("unsupported language has an entry")
	}
	if !reflect.DeepEqual(fanOut.NotToTranslate, []string{"en", "fr", "de"}) {
		t.Fatalf("got NotToTranslate %v", fanOut.NotToTranslate)
	}
	if report.HasErrors() {
		t.Fatal(report)
	}
}

func TestResolveLocalesEmptyStub(t *testing.T) {

	var sub = mustParseSubmission(t, `{"en":{"title":"Hi"},"de":{"title":"  ","body":"<p></p>","description":null}}`)

	fanOut, err := ResolveLocales(sub, tenLanguages, "en")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(fanOut.NotToTranslate, []string{"en"}) {
		t.Fatalf("got NotToTranslate %v", fanOut.NotToTranslate)
	}
	if len(fanOut.ToTranslate) != 9 {
		t.Fatalf("got %d languages to translate, want 9", len(fanOut.ToTranslate))
	}
}

func TestResolveLocalesNoOriginal(t *testing.T) {
	var sub = mustParseSubmission(t, `{"fr":{"title":"Bonjour"}}`)
	if _, err := ResolveLocales(sub, tenLanguages, "en"); !errors.Is(err, ErrNoOriginalLanguage) {
		t.Fatalf("got %v, want ErrNoOriginalLanguage", err)
	}
	if _, err := ResolveLocales(sub, tenLanguages, "xx"); !errors.Is(err, ErrNoOriginalLanguage) {
		t.Fatalf("got %v, want ErrNoOriginalLanguage", err)
	}
}

func TestLocaleEntryText(t *testing.T) {

	var sub = mustParseSubmission(t, `{"en":{"title":" New ","body":"<p onclick=\"x()\">Hi</p><script>alert(1)</script>"},"fr":{"title":5}}`)
	fanOut, err := ResolveLocales(sub, tenLanguages, "en")
	if err != nil {
		t.Fatal(err)
	}

	var report = NewErrorReport(tenLanguages)
	var base = Text{Title: "Old", Description: "kept"}

	var got = fanOut.Entries["en"].Text(base, report)
	if got != (Text{Title: "New", Body: "<p>Hi</p>", Description: "kept"}) {
		t.Fatalf("got %+v", got)
	}

	got = fanOut.Entries["fr"].Text(base, report)
	if got != base {
		t.Fatalf("invalid field changed the text: %+v", got)
	}
	if !reflect.DeepEqual(report.Errors(), []string{"French: title: must be text"}) {
		t.Fatalf("got errors %v", report.Errors())
	}
}

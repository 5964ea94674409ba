package core

import (
	"reflect"
	"testing"
)

func TestErrorReport(t *testing.T) {

	var nilReport *ErrorReport
	if nilReport.HasErrors() {
		t.Fatal("nil report has errors")
	}

	var report = NewErrorReport(Languages{{Code: "en", Name: "English"}, {Code: "fr", Name: "French"}})
	if report.HasErrors() {
		t.Fatal("empty report has errors")
	}

	report.Add("fr", "title", "title: must be text")
	report.Add("en", "latitude", "latitude: must be a number")
	report.Add("fr", "", "something else")
	report.Add("xx", "", "unknown locale")

	if !report.HasErrors() {
		t.Fatal("report has no errors")
	}

	var want = []LocaleErrors{
		{Locale: "fr", Errors: []string{"French: title: must be text", "French: something else"}},
		{Locale: "en", Errors: []string{"English: latitude: must be a number"}},
		{Locale: "xx", Errors: []string{"xx: unknown locale"}},
	}
	if got := report.ByLocale(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}

	if got := len(report.Errors()); got != 4 {
		t.Fatalf("got %d errors, want 4", got)
	}
	if got := report.ValidationErrors()[1].Field; got != "latitude" {
		t.Fatalf("got field %q", got)
	}
}

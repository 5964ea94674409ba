package core

import (
	"testing"
	"time"

	"github.com/tidwall/gjson"
	"github.com/wansing/civicpedia/auth"
)

func testPolicies(t *testing.T) map[EntryType]*Policy {
	t.Helper()
	var taxonomies = Taxonomies{
		"general_issues":      NewTaxonomy([]string{"health", "education"}, nil),
		"completeness":        NewTaxonomy([]string{"stub", "complete"}, nil),
		"method.completeness": NewTaxonomy([]string{"partial"}, nil),
	}
	return NewPolicies(taxonomies, testMediaPolicy(t), tenLanguages)
}

func localeEntry(s string) *LocaleEntry {
	return &LocaleEntry{
		Language:         "en",
		OriginalLanguage: "en",
		raw:              gjson.Parse(s),
	}
}

const adminFieldsSubmission = `{
	"featured": true,
	"hidden": true,
	"verified": true,
	"completeness": "complete",
	"post_date": "2001-01-01",
	"creator": 5,
	"collections": [3],
	"city": "Berlin",
	"general_issues": ["health"],
	"published": true
}`

func TestPolicyContributor(t *testing.T) {

	var policy = testPolicies(t)[Case]
	var e = &Entry{}
	var report = NewErrorReport(tenLanguages)

	var applied = policy.Apply(e, localeEntry(adminFieldsSubmission), auth.Contributor.Capabilities(), report)

	if report.HasErrors() {
		t.Fatal(report)
	}
	if e.Featured || e.Hidden || e.Verified || e.Completeness != "" || !e.PostDate.IsZero() || e.Creator != 0 {
		t.Fatalf("admin fields have been applied: %+v", e)
	}
	if _, ok := e.Content["collections"]; ok {
		t.Fatal("collections have been applied")
	}
	if !e.Published || !applied["published"] {
		t.Fatal("published has not been applied")
	}
	var city string
	if ok, _ := e.Content.Decode("city", &city); !ok || city != "Berlin" {
		t.Fatalf("got city %q", city)
	}
	if applied["featured"] || applied["collections"] {
		t.Fatalf("got applied %v", applied)
	}
}

func TestPolicyAdmin(t *testing.T) {

	var policy = testPolicies(t)[Case]
	var e = &Entry{}
	var report = NewErrorReport(tenLanguages)

	policy.Apply(e, localeEntry(adminFieldsSubmission), auth.Admin.Capabilities(), report)

	if report.HasErrors() {
		t.Fatal(report)
	}
	if !e.Featured || !e.Hidden || !e.Verified || e.Completeness != "complete" || e.Creator != 5 {
		t.Fatalf("admin fields have not been applied: %+v", e)
	}
	if !e.PostDate.Equal(time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("got post date %v", e.PostDate)
	}
	var collections []int
	if ok, _ := e.Content.Decode("collections", &collections); !ok || len(collections) != 1 || collections[0] != 3 {
		t.Fatalf("got collections %v", collections)
	}
}

func TestPolicyTypeSpecificTaxonomy(t *testing.T) {

	var report = NewErrorReport(tenLanguages)
	var e = &Entry{}
	testPolicies(t)[Method].Apply(e, localeEntry(`{"completeness":"complete"}`), auth.Admin.Capabilities(), report)
	if !report.HasErrors() {
		t.Fatal("method completeness accepted a key of the general taxonomy")
	}

	report = NewErrorReport(tenLanguages)
	testPolicies(t)[Method].Apply(e, localeEntry(`{"completeness":"partial"}`), auth.Admin.Capabilities(), report)
	if report.HasErrors() || e.Completeness != "partial" {
		t.Fatalf("got %q, %v", e.Completeness, report)
	}
}

func TestPolicyCoercionErrors(t *testing.T) {

	var policy = testPolicies(t)[Case]
	var e = &Entry{Content: Content{}}
	if err := e.Content.Set("latitude", 52.5); err != nil {
		t.Fatal(err)
	}
	var report = NewErrorReport(tenLanguages)

	policy.Apply(e, localeEntry(`{"latitude":"north","general_issues":["war"],"photos":[{"url":"a.jpg"}]}`), auth.Contributor.Capabilities(), report)

	var fields = make(map[string]bool)
	for _, ve := range report.ValidationErrors() {
		fields[ve.Field] = true
	}
	for _, name := range []string{"latitude", "general_issues", "photos"} {
		if !fields[name] {
			t.Fatalf("no error for %s: %v", name, report.Errors())
		}
	}

	// rejected values leave the target unchanged
	var latitude float64
	if ok, _ := e.Content.Decode("latitude", &latitude); !ok || latitude != 52.5 {
		t.Fatalf("got latitude %v", latitude)
	}
}

func TestPolicyCollectionFields(t *testing.T) {
	var policy = testPolicies(t)[Collection]
	if _, ok := policy.Field("verified"); ok {
		t.Fatal("collections have no verified field")
	}
	if _, ok := policy.Field("evaluation_links"); !ok {
		t.Fatal("collections lack evaluation_links")
	}
	if f, ok := testPolicies(t)[Case].Field("featured"); !ok || f.Requires != auth.EditAdminFields {
		t.Fatalf("got %+v", f)
	}
}

package core

import (
	"reflect"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

func testMediaPolicy(t *testing.T) *MediaPolicy {
	t.Helper()
	p, err := NewMediaPolicy("https://uploads.example.org/files", []string{" Trusted.Example.com "})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestNewMediaPolicy(t *testing.T) {
	if _, err := NewMediaPolicy("/relative", nil); err == nil {
		t.Fatal("expected error for relative uploads url")
	}
}

func TestNormalizeURL(t *testing.T) {

	var p = testMediaPolicy(t)

	tests := []struct {
		in   string
		want string // empty if invalid
	}{
		{"photo.jpg", "https://uploads.example.org/files/photo.jpg"},
		{"//Uploads.Example.org/x.png", "https://uploads.example.org/x.png"},
		{"http://uploads.example.org/y.png", "https://uploads.example.org/y.png"},
		{"http://Trusted.example.com/a", "https://trusted.example.com/a"},
		{"http://other.org/a", "http://other.org/a"},
		{"ftp://other.org/a", ""},
		{"javascript:alert(1)", ""},
		{"relative/path.jpg", ""},
		{"  ", ""},
	}

	for _, tt := range tests {
		got, err := p.NormalizeURL(tt.in)
		if tt.want == "" {
			if err == nil {
				t.Fatalf("NormalizeURL(%q) = %q, want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NormalizeURL(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMediaCoercer(t *testing.T) {

	var p = testMediaPolicy(t)

	got, err := p.Media()(gjson.Parse(`[{"url":"a.jpg","title":" T "}, "http://other.org/v"]`))
	if err != nil {
		t.Fatal(err)
	}
	var want = []Media{
		{URL: "https://uploads.example.org/files/a.jpg", Title: "T"},
		{URL: "http://other.org/v"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}

	// one bad item rejects the whole field
	_, err = p.Media()(gjson.Parse(`["a.jpg", 5]`))
	if err == nil || !strings.HasPrefix(err.Error(), "item 2:") {
		t.Fatalf("got %v, want item 2 error", err)
	}

	if _, err = p.Media()(gjson.Parse(`{"url":"a.jpg"}`)); err == nil {
		t.Fatal("expected error for non-list")
	}
}

func TestSourcedMediaCoercer(t *testing.T) {

	var p = testMediaPolicy(t)

	if _, err := p.SourcedMedia()(gjson.Parse(`[{"url":"a.jpg"}]`)); err == nil {
		t.Fatal("expected error for missing source")
	}
	if _, err := p.SourcedMedia()(gjson.Parse(`[{"url":"a.jpg","source":"not a url"}]`)); err == nil {
		t.Fatal("expected error for invalid source")
	}

	got, err := p.SourcedMedia()(gjson.Parse(`[{"url":"a.jpg","source":"https://src.org/p","attribution":"CC-BY"}]`))
	if err != nil {
		t.Fatal(err)
	}
	var want = []Media{{URL: "https://uploads.example.org/files/a.jpg", Attribution: "CC-BY", Source: "https://src.org/p"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSanitizeHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"First Body", "First Body"},
		{`<p onclick="steal()">Hi</p><script>alert(1)</script>`, "<p>Hi</p>"},
		{`<a href="javascript:alert(1)" title="x">link</a>`, `<a title="x">link</a>`},
		{`<p>a &amp; b</p>`, `<p>a &amp; b</p>`},
	}
	for _, tt := range tests {
		got, err := SanitizeHTML(tt.in)
		if err != nil {
			t.Fatalf("SanitizeHTML(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("SanitizeHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
		again, _ := SanitizeHTML(got)
		if again != got {
			t.Fatalf("SanitizeHTML not stable: %q != %q", again, got)
		}
	}
}

func TestPlainText(t *testing.T) {
	got := PlainText(strings.NewReader("<h1>Title</h1>\n<p>Some   <b>bold</b> text</p><script>var x;</script>"))
	if got != "Title Some bold text" {
		t.Fatalf("PlainText = %q", got)
	}
}

func TestIsBlankHTML(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"  ", true},
		{"<p></p>", true},
		{"<p>&nbsp;</p><br>", true},
		{"<p> </p><br/>", true},
		{"<p>x</p>", false},
		{`<img src="a.jpg">`, false},
	}
	for _, tt := range tests {
		if got := IsBlankHTML(tt.in); got != tt.want {
			t.Fatalf("IsBlankHTML(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2020-03-04", time.Date(2020, 3, 4, 0, 0, 0, 0, time.UTC)},
		{"2020-03-04T10:11:12Z", time.Date(2020, 3, 4, 10, 11, 12, 0, time.UTC)},
		{"2020-03-04T10:11:12+02:00", time.Date(2020, 3, 4, 8, 11, 12, 0, time.UTC)},
		{"04.03.2020 10:11", time.Date(2020, 3, 4, 10, 11, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", tt.in, err)
		}
		if !got.Equal(tt.want) {
			t.Fatalf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseDate("yesterday"); err == nil {
		t.Fatal("expected error")
	}
}

func TestSameDay(t *testing.T) {
	var a = time.Date(2021, 5, 1, 23, 59, 0, 0, time.UTC)
	if !SameDay(a, time.Date(2021, 5, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("expected same day")
	}
	if SameDay(a, a.Add(2*time.Minute)) {
		t.Fatal("expected different days")
	}
	// 23:30 in UTC-2 is the next day in UTC
	var zone = time.FixedZone("x", -2*3600)
	if SameDay(time.Date(2021, 5, 1, 23, 30, 0, 0, zone), a) {
		t.Fatal("expected comparison in UTC")
	}
}

func TestTrunc(t *testing.T) {
	if got := Trunc("  héllo world ", 5); got != "héllo" {
		t.Fatalf("Trunc = %q", got)
	}
	if got := Trunc("héllo world", 7); got != "héllo w" {
		t.Fatalf("Trunc = %q", got)
	}
	if got := Trunc("héllo", 5); got != "héllo" {
		t.Fatalf("Trunc = %q", got)
	}
	if got := Trunc("héllo", 0); got != "" {
		t.Fatalf("Trunc = %q", got)
	}
	if got := Trunc("short", 10); got != "short" {
		t.Fatalf("Trunc = %q", got)
	}
}

func TestRandomString32(t *testing.T) {
	s, err := RandomString32()
	if err != nil || len(s) != 32 {
		t.Fatalf("RandomString32 = %q, %v", s, err)
	}
}

func TestIni(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "test.ini")
	if err := os.WriteFile(path, []byte("top = 1\n\n[b]\nz = last\na = first\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	values, order, err := Ini(path)
	if err != nil {
		t.Fatalf("Ini: %v", err)
	}
	if values[""]["top"] != "1" {
		t.Fatalf("default section = %v", values[""])
	}
	if values["b"]["a"] != "first" || strings.Join(order["b"], ",") != "z,a" {
		t.Fatalf("section b = %v %v", values["b"], order["b"])
	}
}

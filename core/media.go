package core

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

type Media struct {
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Attribution string `json:"attribution,omitempty"`
	Source      string `json:"source,omitempty"`
}

// MediaPolicy normalizes media urls. Bare file names are uploads. Trusted hosts are served via https.
type MediaPolicy struct {
	uploads *url.URL
	trusted map[string]bool
}

func NewMediaPolicy(uploadsURL string, trustedHosts []string) (*MediaPolicy, error) {
	if !strings.HasSuffix(uploadsURL, "/") {
		uploadsURL += "/"
	}
	uploads, err := url.Parse(uploadsURL)
	if err != nil {
		return nil, fmt.Errorf("parsing uploads url: %w", err)
	}
	if uploads.Scheme != "https" && uploads.Scheme != "http" || uploads.Host == "" {
		return nil, fmt.Errorf("uploads url must be absolute: %s", uploadsURL)
	}
	var p = &MediaPolicy{
		uploads: uploads,
		trusted: map[string]bool{
			strings.ToLower(uploads.Hostname()): true,
		},
	}
	for _, host := range trustedHosts {
		if host = strings.ToLower(strings.TrimSpace(host)); host != "" {
			p.trusted[host] = true
		}
	}
	return p, nil
}

// NormalizeURL resolves bare file names against the uploads url and rejects anything but absolute http(s) urls.
func (p *MediaPolicy) NormalizeURL(s string) (string, error) {

	s = strings.TrimSpace(s)
	if s == "" {
		return "", errors.New("url is required")
	}

	if strings.HasPrefix(s, "//") {
		s = "https:" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid url %q", s)
	}

	if u.Scheme == "" && u.Host == "" && !strings.Contains(u.Path, "/") {
		u = p.uploads.ResolveReference(&url.URL{Path: u.Path})
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid url %q", s)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid url %q", s)
	}

	u.Host = strings.ToLower(u.Host)
	if p.trusted[u.Hostname()] {
		u.Scheme = "https"
	}

	return u.String(), nil
}

func (p *MediaPolicy) item(v gjson.Result, sourced bool) (Media, error) {

	var m Media
	var rawURL string

	switch {
	case v.Type == gjson.String:
		rawURL = v.Str
	case v.IsObject():
		for _, f := range []string{"url", "title", "attribution", "source"} {
			if fv := v.Get(f); fv.Exists() && fv.Type != gjson.String && fv.Type != gjson.Null {
				return m, fmt.Errorf("%s must be text", f)
			}
		}
		rawURL = v.Get("url").Str
		m.Title = strings.TrimSpace(v.Get("title").Str)
		m.Attribution = strings.TrimSpace(v.Get("attribution").Str)
		m.Source = strings.TrimSpace(v.Get("source").Str)
	default:
		return m, errors.New("must be a url or an object")
	}

	var err error
	if m.URL, err = p.NormalizeURL(rawURL); err != nil {
		return m, err
	}

	if sourced {
		if m.Source == "" {
			return m, errors.New("source is required")
		}
		source, err := url.Parse(m.Source)
		if err != nil || (source.Scheme != "http" && source.Scheme != "https") || source.Host == "" {
			return m, fmt.Errorf("invalid source url %q", m.Source)
		}
	}

	return m, nil
}

func (p *MediaPolicy) list(v gjson.Result, sourced bool) (interface{}, error) {
	var items = []Media{}
	if v.Type == gjson.Null {
		return items, nil
	}
	if !v.IsArray() {
		return nil, errors.New("must be a list")
	}
	for i, raw := range v.Array() {
		m, err := p.item(raw, sourced)
		if err != nil {
			return nil, fmt.Errorf("item %d: %v", i+1, err) // one bad item rejects the whole field
		}
		items = append(items, m)
	}
	return items, nil
}

// Media returns a coercer for lists of links, videos and the like.
func (p *MediaPolicy) Media() Coercer {
	return func(v gjson.Result) (interface{}, error) {
		return p.list(v, false)
	}
}

// SourcedMedia returns a coercer for lists of photos and files, which require a source url.
func (p *MediaPolicy) SourcedMedia() Coercer {
	return func(v gjson.Result) (interface{}, error) {
		return p.list(v, true)
	}
}

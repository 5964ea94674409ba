package core

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewLanguage validates the code. An empty name is replaced by the English display name of the code.
func NewLanguage(code, name string) (Language, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	tag, err := language.Parse(code)
	if err != nil {
		return Language{}, fmt.Errorf("invalid language code %q: %w", code, err)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = display.English.Languages().Name(tag)
	}
	return Language{Code: code, Name: name}, nil
}

// Languages is the ordered set of supported languages.
type Languages []Language

func (ls Languages) Has(code string) bool {
	for _, l := range ls {
		if l.Code == code {
			return true
		}
	}
	return false
}

// Name returns the display name of the language, or the code if it is not supported.
func (ls Languages) Name(code string) string {
	for _, l := range ls {
		if l.Code == code {
			return l.Name
		}
	}
	return code
}

func (ls Languages) Codes() []string {
	var codes = make([]string, len(ls))
	for i, l := range ls {
		codes[i] = l.Code
	}
	return codes
}

// ParseLanguages builds Languages from codes and names, like from an ini section.
func ParseLanguages(codes []string, names map[string]string) (Languages, error) {
	var ls = make(Languages, 0, len(codes))
	for _, code := range codes {
		l, err := NewLanguage(code, names[code])
		if err != nil {
			return nil, err
		}
		if ls.Has(l.Code) {
			return nil, fmt.Errorf("duplicate language %s", l.Code)
		}
		ls = append(ls, l)
	}
	if len(ls) == 0 {
		return nil, fmt.Errorf("no languages given")
	}
	return ls, nil
}

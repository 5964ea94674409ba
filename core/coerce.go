package core

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/wansing/civicpedia/util"
)

// A Coercer converts a raw submitted value into its typed form. It has no side effects.
type Coercer func(v gjson.Result) (interface{}, error)

type YesNo string

const (
	Yes     YesNo = "yes"
	No      YesNo = "no"
	Unknown YesNo = "unknown"
)

func Boolean(v gjson.Result) (interface{}, error) {
	switch v.Type {
	case gjson.True:
		return true, nil
	case gjson.False:
		return false, nil
	case gjson.String:
		switch strings.ToLower(strings.TrimSpace(v.Str)) {
		case "true", "on", "1":
			return true, nil
		case "false", "off", "0", "":
			return false, nil
		}
	}
	return nil, errors.New("must be true or false")
}

// TextValue accepts strings. Null is the empty string.
func TextValue(v gjson.Result) (interface{}, error) {
	switch v.Type {
	case gjson.String:
		return v.Str, nil
	case gjson.Null:
		return "", nil
	}
	return nil, errors.New("must be text")
}

// years 1 to 9999
const (
	minDateMillis = -62135596800000
	maxDateMillis = 253402300799999
)

// Date accepts a date string or unix milliseconds. Null is the zero time. Dates are truncated to seconds.
func Date(v gjson.Result) (interface{}, error) {
	switch v.Type {
	case gjson.Null:
		return time.Time{}, nil
	case gjson.Number:
		if v.Num != math.Trunc(v.Num) || v.Num < minDateMillis || v.Num > maxDateMillis {
			return nil, errors.New("must be a date")
		}
		return time.UnixMilli(v.Int()).UTC().Truncate(time.Second), nil
	case gjson.String:
		if strings.TrimSpace(v.Str) == "" {
			return time.Time{}, nil
		}
		t, err := util.ParseDate(v.Str)
		if err != nil {
			return nil, errors.New("must be a date")
		}
		return t.Truncate(time.Second), nil
	}
	return nil, errors.New("must be a date")
}

// Float accepts numbers and numeric strings. Null and the empty string clear the value.
func Float(v gjson.Result) (interface{}, error) {
	var f float64
	switch v.Type {
	case gjson.Null:
		return nil, nil
	case gjson.Number:
		f = v.Num
	case gjson.String:
		var s = strings.TrimSpace(v.Str)
		if s == "" {
			return nil, nil
		}
		var err error
		if f, err = strconv.ParseFloat(s, 64); err != nil {
			return nil, errors.New("must be a number")
		}
	default:
		return nil, errors.New("must be a number")
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, errors.New("must be a finite number")
	}
	return f, nil
}

func idOf(v gjson.Result) (int, error) {
	switch v.Type {
	case gjson.Number:
		if v.Num == math.Trunc(v.Num) && v.Num > 0 && v.Num <= math.MaxInt32 {
			return int(v.Num), nil
		}
	case gjson.String:
		if id, err := strconv.Atoi(strings.TrimSpace(v.Str)); err == nil && id > 0 {
			return id, nil
		}
	case gjson.JSON:
		if v.IsObject() {
			return idOf(v.Get("id"))
		}
	}
	return 0, errors.New("must be a positive id")
}

// ID accepts a positive integer, a numeric string or an object with an id. Null is zero.
func ID(v gjson.Result) (interface{}, error) {
	if v.Type == gjson.Null {
		return 0, nil
	}
	return idOf(v)
}

// IDs accepts a list of ids and removes duplicates.
func IDs(v gjson.Result) (interface{}, error) {
	var ids = []int{}
	if v.Type == gjson.Null {
		return ids, nil
	}
	if !v.IsArray() {
		return nil, errors.New("must be a list")
	}
	var seen = make(map[int]bool)
	for i, item := range v.Array() {
		id, err := idOf(item)
		if err != nil {
			return nil, fmt.Errorf("item %d %v", i+1, err)
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// YesNoValue accepts yes, no, unknown, their common spellings, booleans and {key} objects.
func YesNoValue(v gjson.Result) (interface{}, error) {
	switch v.Type {
	case gjson.True:
		return Yes, nil
	case gjson.False:
		return No, nil
	case gjson.Null:
		return Unknown, nil
	case gjson.String:
		switch strings.ToLower(strings.TrimSpace(v.Str)) {
		case "yes", "true":
			return Yes, nil
		case "no", "false":
			return No, nil
		case "", "unknown", "dontknow", "dont_know":
			return Unknown, nil
		}
	case gjson.JSON:
		if v.IsObject() {
			return YesNoValue(v.Get("key"))
		}
	}
	return nil, errors.New("must be yes, no or unknown")
}

func keyOf(v gjson.Result) (string, bool) {
	switch v.Type {
	case gjson.String:
		return strings.TrimSpace(v.Str), true
	case gjson.JSON:
		if v.IsObject() {
			return keyOf(v.Get("key"))
		}
	}
	return "", false
}

// Key accepts a single key of the taxonomy, as a string or a {key, value} object. Null and the empty string clear the value.
func Key(taxonomy Taxonomy) Coercer {
	return func(v gjson.Result) (interface{}, error) {
		if v.Type == gjson.Null {
			return "", nil
		}
		key, ok := keyOf(v)
		if !ok {
			return nil, errors.New("must be a key")
		}
		if key != "" && !taxonomy.Has(key) {
			return nil, fmt.Errorf("unknown key %q", key)
		}
		return key, nil
	}
}

// Keys accepts a list of taxonomy keys and removes duplicates.
func Keys(taxonomy Taxonomy) Coercer {
	return func(v gjson.Result) (interface{}, error) {
		var keys = []string{}
		if v.Type == gjson.Null {
			return keys, nil
		}
		if !v.IsArray() {
			return nil, errors.New("must be a list")
		}
		var seen = make(map[string]bool)
		for i, item := range v.Array() {
			key, ok := keyOf(item)
			if !ok || key == "" {
				return nil, fmt.Errorf("item %d must be a key", i+1)
			}
			if !taxonomy.Has(key) {
				return nil, fmt.Errorf("unknown key %q", key)
			}
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
		return keys, nil
	}
}

// LanguageCode accepts a supported language code.
func LanguageCode(languages Languages) Coercer {
	return func(v gjson.Result) (interface{}, error) {
		if v.Type != gjson.String {
			return nil, errors.New("must be a language code")
		}
		var code = strings.ToLower(strings.TrimSpace(v.Str))
		if !languages.Has(code) {
			return nil, fmt.Errorf("unsupported language %q", code)
		}
		return code, nil
	}
}

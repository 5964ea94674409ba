package core

import (
	"strings"
)

// A Taxonomy is an enumerated table of keys and their labels.
type Taxonomy struct {
	keys   []string
	labels map[string]string
}

func NewTaxonomy(keys []string, labels map[string]string) Taxonomy {
	var t = Taxonomy{
		labels: make(map[string]string, len(keys)),
	}
	for _, key := range keys {
		if _, ok := t.labels[key]; ok {
			continue
		}
		t.keys = append(t.keys, key)
		t.labels[key] = labels[key]
	}
	return t
}

func (t Taxonomy) Has(key string) bool {
	_, ok := t.labels[key]
	return ok
}

func (t Taxonomy) Label(key string) string {
	return t.labels[key]
}

func (t Taxonomy) Keys() []string {
	return t.keys
}

// Taxonomies maps "field" or "type.field" to a taxonomy. Type-specific tables take precedence.
type Taxonomies map[string]Taxonomy

// For returns the taxonomy of a field of an entry type. If none is configured, the empty taxonomy is returned, which rejects all keys.
func (ts Taxonomies) For(t EntryType, field string) Taxonomy {
	if tax, ok := ts[string(t)+"."+field]; ok {
		return tax
	}
	return ts[field]
}

// ParseTaxonomies builds taxonomies from ini sections. The default section is ignored.
func ParseTaxonomies(sections map[string]map[string]string, order map[string][]string) Taxonomies {
	var ts = make(Taxonomies)
	for name, labels := range sections {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		ts[name] = NewTaxonomy(order[name], labels)
	}
	return ts
}

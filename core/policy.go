package core

import (
	"time"

	"github.com/wansing/civicpedia/auth"
)

// A Field describes how a submitted field is coerced, who may set it and where it is stored.
type Field struct {
	Name     string
	Coerce   Coercer
	Requires auth.Capability
	set      func(e *Entry, v interface{}) // nil means Entry.Content
}

// A Policy is the ordered field table of an entry type.
type Policy struct {
	Type   EntryType
	Fields []Field
}

func (p *Policy) Field(name string) (Field, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Apply applies all fields of source to target. It returns the names of the fields which have been set.
// Typed fields are taken from the original-language entry only, so source should be that one.
func (p *Policy) Apply(target *Entry, source *LocaleEntry, caps auth.Capabilities, report *ErrorReport) map[string]bool {
	var applied = make(map[string]bool)
	for _, f := range p.Fields {
		if applyField(target, source, report, f, caps) {
			applied[f.Name] = true
		}
	}
	return applied
}

// applyField leaves target unchanged if the field is absent, if the principal lacks the required capability (silently) or if coercion fails (reported).
func applyField(target *Entry, source *LocaleEntry, report *ErrorReport, f Field, caps auth.Capabilities) bool {

	var raw = source.Get(f.Name)
	if !raw.Exists() {
		return false
	}

	if !caps.Has(f.Requires) {
		return false
	}

	v, err := f.Coerce(raw)
	if err != nil {
		report.Add(source.Language, f.Name, f.Name+": "+err.Error())
		return false
	}

	if f.set != nil {
		f.set(target, v)
		return true
	}

	if target.Content == nil {
		target.Content = make(Content)
	}
	if err := target.Content.Set(f.Name, v); err != nil {
		report.Add(source.Language, f.Name, f.Name+": "+err.Error())
		return false
	}
	return true
}

// field table helpers

func fields(requires auth.Capability, coerce Coercer, names ...string) []Field {
	var fs = make([]Field, len(names))
	for i, name := range names {
		fs[i] = Field{
			Name:     name,
			Coerce:   coerce,
			Requires: requires,
		}
	}
	return fs
}

func keyFields(t EntryType, taxonomies Taxonomies, names ...string) []Field {
	var fs = make([]Field, len(names))
	for i, name := range names {
		fs[i] = Field{
			Name:     name,
			Coerce:   Key(taxonomies.For(t, name)),
			Requires: auth.EditContent,
		}
	}
	return fs
}

func keysFields(t EntryType, taxonomies Taxonomies, names ...string) []Field {
	var fs = make([]Field, len(names))
	for i, name := range names {
		fs[i] = Field{
			Name:     name,
			Coerce:   Keys(taxonomies.For(t, name)),
			Requires: auth.EditContent,
		}
	}
	return fs
}

func concat(groups ...[]Field) []Field {
	var all []Field
	for _, g := range groups {
		all = append(all, g...)
	}
	return all
}

func metaFields(t EntryType, taxonomies Taxonomies, languages Languages) []Field {
	var fs = []Field{
		{Name: "published", Coerce: Boolean, Requires: auth.EditContent, set: func(e *Entry, v interface{}) { e.Published = v.(bool) }},
		{Name: "featured", Coerce: Boolean, Requires: auth.EditAdminFields, set: func(e *Entry, v interface{}) { e.Featured = v.(bool) }},
		{Name: "hidden", Coerce: Boolean, Requires: auth.EditAdminFields, set: func(e *Entry, v interface{}) { e.Hidden = v.(bool) }},
		{Name: "original_language", Coerce: LanguageCode(languages), Requires: auth.EditAdminFields, set: func(e *Entry, v interface{}) { e.OriginalLanguage = v.(string) }},
		{Name: "post_date", Coerce: Date, Requires: auth.OverrideDates, set: func(e *Entry, v interface{}) { e.PostDate = v.(time.Time) }},
		{Name: "updated_date", Coerce: Date, Requires: auth.OverrideDates, set: func(e *Entry, v interface{}) { e.UpdatedDate = v.(time.Time) }},
		{Name: "creator", Coerce: ID, Requires: auth.AssignCreator, set: func(e *Entry, v interface{}) { e.Creator = v.(int) }},
	}
	if t == Collection {
		return fs
	}
	return append(fs,
		Field{Name: "verified", Coerce: Boolean, Requires: auth.EditAdminFields, set: func(e *Entry, v interface{}) { e.Verified = v.(bool) }},
		Field{Name: "completeness", Coerce: Key(taxonomies.For(t, "completeness")), Requires: auth.EditAdminFields, set: func(e *Entry, v interface{}) { e.Completeness = v.(string) }},
		Field{Name: "reviewed_by", Coerce: ID, Requires: auth.EditAdminFields, set: func(e *Entry, v interface{}) { e.ReviewedBy = v.(int) }},
		Field{Name: "reviewed_at", Coerce: Date, Requires: auth.EditAdminFields, set: func(e *Entry, v interface{}) { e.ReviewedAt = v.(time.Time) }},
	)
}

var locationFields = []string{"location_name", "address1", "address2", "city", "province", "postal_code", "country"}

// NewPolicies builds the field tables of all entry types.
func NewPolicies(taxonomies Taxonomies, media *MediaPolicy, languages Languages) map[EntryType]*Policy {

	var content = func(t EntryType) []Field {
		return concat(
			metaFields(t, taxonomies, languages),
			fields(auth.EditContent, media.Media(), "links", "videos", "audio"),
			fields(auth.EditContent, media.SourcedMedia(), "photos", "files"),
		)
	}

	return map[EntryType]*Policy{
		Case: {
			Type: Case,
			Fields: concat(
				content(Case),
				fields(auth.EditContent, YesNoValue, "ongoing", "staff", "volunteers", "facilitators", "legality"),
				fields(auth.EditContent, TextValue, append(locationFields, "funder")...),
				fields(auth.EditContent, Float, "latitude", "longitude", "number_of_participants"),
				fields(auth.EditContent, Date, "start_date", "end_date"),
				keyFields(Case, taxonomies, "scope_of_influence", "public_spectrum"),
				keysFields(Case, taxonomies, "general_issues", "specific_topics", "purposes", "approaches", "targeted_participants"),
				fields(auth.EditContent, IDs, "specific_methods_tools_techniques", "is_component_of", "has_components"),
				fields(auth.EditMembership, IDs, "collections"),
			),
		},
		Method: {
			Type: Method,
			Fields: concat(
				content(Method),
				fields(auth.EditContent, YesNoValue, "facilitators"),
				keyFields(Method, taxonomies, "facetoface_online_or_both", "public_spectrum", "open_limited", "recruitment_method", "level_polarization", "level_complexity"),
				keysFields(Method, taxonomies, "method_types", "purpose_method", "number_of_participants", "scope_of_influence", "participants_interactions", "decision_methods"),
				fields(auth.EditMembership, IDs, "collections"),
			),
		},
		Organization: {
			Type: Organization,
			Fields: concat(
				content(Organization),
				fields(auth.EditContent, YesNoValue, "facilitators"),
				fields(auth.EditContent, TextValue, locationFields...),
				fields(auth.EditContent, Float, "latitude", "longitude"),
				keyFields(Organization, taxonomies, "sector"),
				keysFields(Organization, taxonomies, "scope_of_influence", "type_method", "type_tool", "specific_topics", "general_issues"),
				fields(auth.EditContent, IDs, "specific_methods_tools_techniques"),
				fields(auth.EditMembership, IDs, "collections"),
			),
		},
		Collection: {
			Type: Collection,
			Fields: concat(
				content(Collection),
				fields(auth.EditContent, media.Media(), "evaluation_links"),
			),
		},
	}
}

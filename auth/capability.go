package auth

import "strings"

type Capability uint

const (
	EditContent Capability = 1 << iota
	EditAdminFields
	OverrideDates
	AssignCreator
	EditMembership
)

var capabilityNames = []struct {
	c    Capability
	name string
}{
	{EditContent, "edit-content"},
	{EditAdminFields, "edit-admin-fields"},
	{OverrideDates, "override-dates"},
	{AssignCreator, "assign-creator"},
	{EditMembership, "edit-membership"},
}

func (c Capability) String() string {
	for _, cn := range capabilityNames {
		if cn.c == c {
			return cn.name
		}
	}
	return "unknown"
}

// Capabilities is a set of Capability bits.
type Capabilities uint

// Has returns true if all bits of required are in the set. The zero Capability is always granted.
func (cs Capabilities) Has(required Capability) bool {
	return Capability(cs)&required == required
}

func (cs Capabilities) String() string {
	var names []string
	for _, cn := range capabilityNames {
		if cs.Has(cn.c) {
			names = append(names, cn.name)
		}
	}
	return strings.Join(names, ",")
}

package auth

import (
	"errors"
	"testing"
)

func TestRoleCapabilities(t *testing.T) {
	tests := []struct {
		principal Principal
		role      Role
		has       []Capability
		hasNot    []Capability
	}{
		{Principal{}, Anonymous, nil, []Capability{EditContent, EditAdminFields}},
		{Principal{ID: 7}, Contributor, []Capability{EditContent}, []Capability{EditAdminFields, OverrideDates, AssignCreator, EditMembership}},
		{Principal{ID: 1, IsAdmin: true}, Admin, []Capability{EditContent, EditAdminFields, OverrideDates, AssignCreator, EditMembership}, nil},
	}
	for _, tt := range tests {
		if got := tt.principal.Role(); got != tt.role {
			t.Fatalf("role of %+v = %v, want %v", tt.principal, got, tt.role)
		}
		caps := tt.principal.Capabilities()
		for _, c := range tt.has {
			if !caps.Has(c) {
				t.Fatalf("%v lacks %v", tt.role, c)
			}
		}
		for _, c := range tt.hasNot {
			if caps.Has(c) {
				t.Fatalf("%v has %v", tt.role, c)
			}
		}
	}
}

func TestZeroCapabilityAlwaysGranted(t *testing.T) {
	if !Capabilities(0).Has(0) {
		t.Fatal("zero capability should be granted to everyone")
	}
}

func TestCapabilitiesString(t *testing.T) {
	if got := Admin.Capabilities().String(); got != "edit-content,edit-admin-fields,override-dates,assign-creator,edit-membership" {
		t.Fatalf("admin capabilities = %q", got)
	}
	if got := Role(42).String(); got != "unknown" {
		t.Fatalf("String() = %q, want unknown", got)
	}
}

type fakeUser int

func (u fakeUser) ID() int      { return int(u) }
func (u fakeUser) Name() string { return "user" }

type fakeGroup bool

func (g fakeGroup) ID() int       { return 1 }
func (g fakeGroup) Name() string  { return "group" }
func (g fakeGroup) IsAdmin() bool { return bool(g) }

type fakeDB struct {
	admins map[int]bool
}

func (db fakeDB) GetUser(id int) (DBUser, error) {
	if id > 100 {
		return nil, errors.New("not found")
	}
	return fakeUser(id), nil
}
func (db fakeDB) GetUserByName(string) (DBUser, error)     { return nil, errors.New("not implemented") }
func (db fakeDB) InsertUser(string) (DBUser, error)        { return nil, errors.New("not implemented") }
func (db fakeDB) LoginUser(string, string) (DBUser, error) { return nil, errors.New("not implemented") }
func (db fakeDB) SetPassword(DBUser, string) error         { return nil }
func (db fakeDB) GetGroupByName(string) (DBGroup, error)   { return nil, errors.New("not implemented") }
func (db fakeDB) InsertGroup(string) error                 { return nil }
func (db fakeDB) Join(DBGroup, DBUser) error               { return nil }
func (db fakeDB) SetAdmin(DBGroup, bool) error             { return nil }
func (db fakeDB) GetGroupsOf(u DBUser) ([]DBGroup, error) {
	return []DBGroup{fakeGroup(false), fakeGroup(db.admins[u.ID()])}, nil
}

func TestAuthDBPrincipal(t *testing.T) {
	var db = fakeDB{admins: map[int]bool{1: true}}
	var a = &AuthDB{GroupDB: db, UserDB: db}

	p, err := a.Principal(1)
	if err != nil || !p.IsAdmin || p.ID != 1 {
		t.Fatalf("Principal(1) = %+v, %v", p, err)
	}
	p, err = a.Principal(2)
	if err != nil || p.IsAdmin {
		t.Fatalf("Principal(2) = %+v, %v", p, err)
	}
	p, err = a.Principal(0)
	if err != nil || p.Role() != Anonymous {
		t.Fatalf("Principal(0) = %+v, %v", p, err)
	}
	if _, err = a.Principal(101); err == nil {
		t.Fatal("expected error for unknown user")
	}
	if err := a.SetPassword(fakeUser(1), ""); !errors.Is(err, ErrEmptyPassword) {
		t.Fatalf("SetPassword empty = %v", err)
	}
}

package auth

import (
	"errors"
)

type AuthDB struct {
	GroupDB
	UserDB
}

var ErrEmptyPassword = errors.New("refusing to set empty password")

// shadows AuthDB.UserDB.SetPassword
func (a *AuthDB) SetPassword(u DBUser, password string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	return a.UserDB.SetPassword(u, password)
}

// Principal loads the user with the given id and resolves its role from its group memberships.
// User id zero yields the anonymous principal.
func (a *AuthDB) Principal(userID int) (Principal, error) {
	if userID == 0 {
		return Principal{}, nil
	}
	u, err := a.UserDB.GetUser(userID)
	if err != nil {
		return Principal{}, err
	}
	groups, err := a.GroupDB.GetGroupsOf(u)
	if err != nil {
		return Principal{}, err
	}
	var p = Principal{ID: u.ID()}
	for _, g := range groups {
		if g.IsAdmin() {
			p.IsAdmin = true
			break
		}
	}
	return p, nil
}

package core

import (
	"time"

	"github.com/wansing/civicpedia/util"
)

// A DraftSession correlates the draft saves of a new entry by one user.
type DraftSession struct {
	Token   string
	UserID  int
	EntryID int
	Created time.Time
}

// A UnitOfWork collects all writes of one pipeline invocation. It is committed in a single transaction, exactly once.
type UnitOfWork struct {
	Entry               *Entry
	Insert              bool     // else update
	Columns             []string // changed entry columns, on update
	Texts               []LocalizedText
	NewAttributions     []Attribution
	TouchedAttributions []Attribution // Updated is set
	Creator             int           // if not zero, the creator attribution is reassigned to this user
	DraftSession        *DraftSession // bound to the entry if not nil
	committed           bool
}

func (u *UnitOfWork) AddText(language string, text Text, ts time.Time) {
	u.Texts = append(u.Texts, LocalizedText{
		EntryID:   u.Entry.ID,
		Language:  language,
		Timestamp: ts,
		Text:      text,
	})
}

func (u *UnitOfWork) Attribute(userID int, role AttributionRole, ts time.Time) {
	u.NewAttributions = append(u.NewAttributions, Attribution{
		EntryID:   u.Entry.ID,
		UserID:    userID,
		Role:      role,
		Timestamp: ts,
	})
}

func (u *UnitOfWork) Touch(a Attribution, ts time.Time) {
	a.Updated = ts
	u.TouchedAttributions = append(u.TouchedAttributions, a)
}

// attribute records that userID edited the entry at now. An edit on the same UTC day as the user's latest attribution is collapsed into that one.
func (u *UnitOfWork) attribute(existing []Attribution, userID int, now time.Time) {
	var latest *Attribution
	for i := range existing {
		if existing[i].UserID != userID {
			continue
		}
		if latest == nil || !existing[i].Timestamp.Before(latest.Timestamp) {
			latest = &existing[i]
		}
	}
	if latest != nil && util.SameDay(latest.Timestamp, now) {
		u.Touch(*latest, now)
		return
	}
	u.Attribute(userID, EditorRole, now)
}

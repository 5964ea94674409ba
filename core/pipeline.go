package core

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wansing/civicpedia/auth"
)

const maxDraftSessionLen = 64

// prepare resolves the field policy of the entry type and the capabilities of the principal, once per invocation.
func (c *CoreDB) prepare(p auth.Principal, t EntryType) (*Policy, auth.Capabilities, error) {
	policy, ok := c.Policies[t]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", ErrUnknownType, t)
	}
	var caps = p.Capabilities()
	if !caps.Has(auth.EditContent) {
		return nil, 0, ErrUnauthorized
	}
	return policy, caps, nil
}

// localizedTexts validates the text fields of all locale entries with content and overlays them onto the current texts.
func localizedTexts(fanOut *FanOut, current map[string]LocalizedText, report *ErrorReport) map[string]Text {
	var texts = make(map[string]Text, len(fanOut.NotToTranslate))
	for _, code := range fanOut.NotToTranslate {
		texts[code] = fanOut.Entries[code].Text(current[code].Text, report)
	}
	return texts
}

// review stamps the reviewer when an entry becomes verified, unless the admin has supplied the values.
func review(e *Entry, old *Entry, p auth.Principal, applied map[string]bool, now time.Time) {
	if !e.Verified || (old != nil && old.Verified) {
		return
	}
	if !applied["reviewed_by"] || e.ReviewedBy == 0 {
		e.ReviewedBy = p.ID
	}
	if !applied["reviewed_at"] || e.ReviewedAt.IsZero() {
		e.ReviewedAt = now
	}
}

// CreateEntry creates an entry from a submission. In FullMode, the entry is published.
//
// Validation errors are returned as *ErrorReport, and nothing is written then.
func (c *CoreDB) CreateEntry(ctx context.Context, p auth.Principal, t EntryType, sub *Submission, mode Mode) (*Entry, error) {
	return c.createEntry(ctx, p, t, sub, mode, nil)
}

func (c *CoreDB) createEntry(ctx context.Context, p auth.Principal, t EntryType, sub *Submission, mode Mode, session *DraftSession) (*Entry, error) {

	policy, caps, err := c.prepare(p, t)
	if err != nil {
		return nil, err
	}

	next, err := Transition(New, mode)
	if err != nil {
		return nil, err
	}

	var originalLanguage = sub.OriginalLanguage()
	if originalLanguage == "" {
		originalLanguage = c.DefaultLanguage
	}

	fanOut, err := ResolveLocales(sub, c.Languages, originalLanguage)
	if err != nil {
		return nil, err
	}

	var report = NewErrorReport(c.Languages)
	var e = &Entry{
		Type:             t,
		OriginalLanguage: fanOut.Original.Language,
		Content:          make(Content),
	}

	var applied = policy.Apply(e, fanOut.Original, caps, report)
	var texts = localizedTexts(fanOut, nil, report)

	if strings.TrimSpace(texts[fanOut.Original.Language].Title) == "" {
		report.Add(fanOut.Original.Language, "title", "Cannot create an entry without at least a title.")
	}

	if report.HasErrors() {
		return nil, report
	}

	var now = c.now()

	e.Published = next == Published
	if !applied["post_date"] || e.PostDate.IsZero() {
		e.PostDate = now
	}
	if !applied["updated_date"] || e.UpdatedDate.IsZero() {
		e.UpdatedDate = now
	}
	review(e, nil, p, applied, now)
	e.LastUpdatedBy = p.ID
	if !applied["creator"] || e.Creator == 0 {
		e.Creator = p.ID
	}

	var uow = &UnitOfWork{
		Entry:  e,
		Insert: true,
	}
	for _, code := range fanOut.NotToTranslate {
		uow.AddText(code, texts[code], now)
	}
	uow.Attribute(e.Creator, CreatorRole, now)
	if session != nil {
		session.Created = now
		uow.DraftSession = session
	}

	id, err := c.commit(ctx, p, uow)
	if err != nil {
		return nil, err
	}

	return c.GetEntry(ctx, t, id, e.OriginalLanguage)
}

// UpdateEntry applies a submission to an existing entry. In FullMode, the entry is published. In DraftMode, a submission without changes writes nothing.
//
// Validation errors are returned as *ErrorReport, and nothing is written then.
func (c *CoreDB) UpdateEntry(ctx context.Context, p auth.Principal, t EntryType, id int, sub *Submission, mode Mode) (*Entry, error) {

	policy, caps, err := c.prepare(p, t)
	if err != nil {
		return nil, err
	}

	old, err := c.getEntry(ctx, t, id)
	if err != nil {
		return nil, err
	}

	next, err := Transition(StateOf(old), mode)
	if err != nil {
		return nil, err
	}

	// only admins may change the original language
	var originalLanguage = old.OriginalLanguage
	if declared := sub.OriginalLanguage(); declared != "" && caps.Has(auth.EditAdminFields) {
		originalLanguage = declared
	}

	fanOut, err := ResolveLocales(sub, c.Languages, originalLanguage)
	if err != nil {
		return nil, err
	}

	current, err := c.EntryDB.CurrentTexts(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting texts of entry %d: %w", id, err)
	}

	var report = NewErrorReport(c.Languages)
	var updated = old.Clone()

	var applied = policy.Apply(updated, fanOut.Original, caps, report)
	var texts = localizedTexts(fanOut, current, report)

	if text, ok := texts[fanOut.Original.Language]; ok && strings.TrimSpace(text.Title) == "" {
		report.Add(fanOut.Original.Language, "title", "title can't be empty")
	}

	if report.HasErrors() {
		return nil, report
	}

	updated.Published = next == Published

	var textsChanged = false
	for code, text := range texts {
		if cur, ok := current[code]; !ok || cur.Text != text {
			textsChanged = true
		}
	}
	var creatorChanged = applied["creator"] && updated.Creator != 0 && updated.Creator != old.Creator

	if mode == DraftMode && !textsChanged && !creatorChanged && len(updated.Diff(old)) == 0 {
		return c.GetEntry(ctx, t, id, old.OriginalLanguage)
	}

	var now = c.now()

	if !applied["updated_date"] || updated.UpdatedDate.IsZero() {
		updated.UpdatedDate = now
	}
	if updated.PostDate.IsZero() {
		updated.PostDate = old.PostDate
	}
	review(updated, old, p, applied, now)
	updated.LastUpdatedBy = p.ID

	var uow = &UnitOfWork{
		Entry:   updated,
		Columns: updated.Diff(old),
	}
	for _, code := range fanOut.NotToTranslate {
		uow.AddText(code, texts[code], now)
	}
	if creatorChanged {
		uow.Creator = updated.Creator
	} else {
		updated.Creator = old.Creator
	}

	attributions, err := c.EntryDB.Attributions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting attributions of entry %d: %w", id, err)
	}
	uow.attribute(attributions, p.ID, now)

	if _, err := c.commit(ctx, p, uow); err != nil {
		return nil, err
	}

	return c.GetEntry(ctx, t, id, updated.OriginalLanguage)
}

// SaveDraft saves a draft of an entry. If id is zero, the entry does not exist yet, and the token correlates the draft saves of the principal:
// the first save with a token creates the entry, later saves with the same token update it.
// An empty token is replaced by a new one. The token is returned.
func (c *CoreDB) SaveDraft(ctx context.Context, p auth.Principal, t EntryType, id int, token string, sub *Submission) (*Entry, string, error) {

	if id != 0 {
		e, err := c.UpdateEntry(ctx, p, t, id, sub, DraftMode)
		return e, token, err
	}

	if _, _, err := c.prepare(p, t); err != nil {
		return nil, "", err
	}

	if token == "" {
		token = uuid.NewString()
	}
	if len(token) > maxDraftSessionLen {
		return nil, "", fmt.Errorf("%w: draft session token too long", ErrMalformedSubmission)
	}

	session, err := c.EntryDB.GetDraftSession(ctx, token, p.ID)
	switch {
	case err == nil:
		e, err := c.UpdateEntry(ctx, p, t, session.EntryID, sub, DraftMode)
		return e, token, err
	case c.EntryDB.IsNotFound(err):
		e, err := c.createEntry(ctx, p, t, sub, DraftMode, &DraftSession{
			Token:  token,
			UserID: p.ID,
		})
		return e, token, err
	default:
		return nil, "", fmt.Errorf("getting draft session: %w", err)
	}
}

// commit commits the unit of work and signals the search trigger.
func (c *CoreDB) commit(ctx context.Context, p auth.Principal, uow *UnitOfWork) (int, error) {

	if uow.committed {
		return 0, ErrCommitted
	}
	uow.committed = true

	id, err := c.EntryDB.Commit(ctx, uow)
	if err != nil {
		log.Printf("error committing entry %d of user %d: %v", uow.Entry.ID, p.ID, err)
		return 0, fmt.Errorf("committing entry: %w", err)
	}

	c.SearchTrigger.Signal()
	return id, nil
}

func (c *CoreDB) getEntry(ctx context.Context, t EntryType, id int) (*Entry, error) {
	e, err := c.EntryDB.GetEntry(ctx, id)
	if err != nil {
		if c.EntryDB.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting entry %d: %w", id, err)
	}
	if e.Type != t {
		return nil, ErrNotFound
	}
	return e, nil
}

// GetEntry shadows EntryDB.GetEntry. It adds the current text of the given language, or of the original language if there is none.
func (c *CoreDB) GetEntry(ctx context.Context, t EntryType, id int, language string) (*Entry, error) {

	e, err := c.getEntry(ctx, t, id)
	if err != nil {
		return nil, err
	}

	texts, err := c.EntryDB.CurrentTexts(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting texts of entry %d: %w", id, err)
	}

	text, ok := texts[language]
	if !ok {
		text, ok = texts[e.OriginalLanguage]
	}
	if ok {
		e.Language = text.Language
		e.Text = text.Text
	}

	return e, nil
}

// TextHistory shadows EntryDB.TextHistory. It returns the texts of a language, latest first.
func (c *CoreDB) TextHistory(ctx context.Context, t EntryType, id int, language string) ([]LocalizedText, error) {
	if _, err := c.getEntry(ctx, t, id); err != nil {
		return nil, err
	}
	return c.EntryDB.TextHistory(ctx, id, language)
}

// Attributions shadows EntryDB.Attributions.
func (c *CoreDB) Attributions(ctx context.Context, t EntryType, id int) ([]Attribution, error) {
	if _, err := c.getEntry(ctx, t, id); err != nil {
		return nil, err
	}
	return c.EntryDB.Attributions(ctx, id)
}

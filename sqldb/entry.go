package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/wansing/civicpedia/core"
)

type EntryDB struct {
	*sql.DB
	attributions       *sql.Stmt
	currentTexts       *sql.Stmt
	getCreator         *sql.Stmt
	getDraftSession    *sql.Stmt
	getEntry           *sql.Stmt
	insertAttribution  *sql.Stmt
	insertDraftSession *sql.Stmt
	insertEntry        *sql.Stmt
	insertText         *sql.Stmt
	setCreator         *sql.Stmt
	textHistory        *sql.Stmt
	touchAttribution   *sql.Stmt
}

func NewEntryDB(db *sql.DB) *EntryDB {

	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS entry (
			id INTEGER PRIMARY KEY,
			type varchar(16) NOT NULL,
			original_language varchar(16) NOT NULL,
			published bool NOT NULL DEFAULT 0,
			featured bool NOT NULL DEFAULT 0,
			hidden bool NOT NULL DEFAULT 0,
			verified bool NOT NULL DEFAULT 0,
			completeness varchar(32) NOT NULL DEFAULT '',
			post_date INTEGER NOT NULL,
			updated_date INTEGER NOT NULL,
			reviewed_by int(11) NOT NULL DEFAULT 0,
			reviewed_at INTEGER NOT NULL DEFAULT 0,
			last_updated_by int(11) NOT NULL DEFAULT 0,
			content mediumtext NOT NULL
		);
		CREATE TABLE IF NOT EXISTS localized_text (
			id INTEGER PRIMARY KEY, /* insertion order, breaks ties of ts */
			entry int(11) NOT NULL,
			language varchar(16) NOT NULL,
			ts INTEGER NOT NULL,
			title varchar(512) NOT NULL,
			body mediumtext NOT NULL,
			description text NOT NULL
		);
		CREATE INDEX IF NOT EXISTS localized_text_entry ON localized_text (entry, language, ts);
		CREATE TABLE IF NOT EXISTS author_attribution (
			id INTEGER PRIMARY KEY,
			entry int(11) NOT NULL,
			usr int(11) NOT NULL,
			role varchar(8) NOT NULL,
			ts INTEGER NOT NULL,
			updated_ts INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS author_attribution_entry ON author_attribution (entry);
		CREATE TABLE IF NOT EXISTS draft_session (
			token varchar(64) NOT NULL,
			usr int(11) NOT NULL,
			entry int(11) NOT NULL,
			ts INTEGER NOT NULL,
			PRIMARY KEY (token, usr)
		);
		`)
	if err != nil {
		panic(err)
	}

	var entryDB = &EntryDB{}
	entryDB.DB = db
	entryDB.attributions = mustPrepare(db, "SELECT id, entry, usr, role, ts, updated_ts FROM author_attribution WHERE entry = ? ORDER BY ts, id")
	entryDB.currentTexts = mustPrepare(db, "SELECT entry, language, ts, title, body, description FROM localized_text WHERE entry = ? ORDER BY ts, id") // later rows overwrite earlier ones
	entryDB.getCreator = mustPrepare(db, "SELECT usr FROM author_attribution WHERE entry = ? AND role = 'creator' ORDER BY id LIMIT 1")
	entryDB.getDraftSession = mustPrepare(db, "SELECT entry, ts FROM draft_session WHERE token = ? AND usr = ? LIMIT 1")
	entryDB.getEntry = mustPrepare(db, "SELECT id, type, original_language, published, featured, hidden, verified, completeness, post_date, updated_date, reviewed_by, reviewed_at, last_updated_by, content FROM entry WHERE id = ? LIMIT 1")
	entryDB.insertAttribution = mustPrepare(db, "INSERT INTO author_attribution (entry, usr, role, ts, updated_ts) VALUES (?, ?, ?, ?, 0)")
	entryDB.insertDraftSession = mustPrepare(db, "INSERT INTO draft_session (token, usr, entry, ts) VALUES (?, ?, ?, ?)")
	entryDB.insertEntry = mustPrepare(db, "INSERT INTO entry (type, original_language, published, featured, hidden, verified, completeness, post_date, updated_date, reviewed_by, reviewed_at, last_updated_by, content) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	entryDB.insertText = mustPrepare(db, "INSERT INTO localized_text (entry, language, ts, title, body, description) VALUES (?, ?, ?, ?, ?, ?)")
	entryDB.setCreator = mustPrepare(db, "UPDATE author_attribution SET usr = ? WHERE entry = ? AND role = 'creator'")
	entryDB.textHistory = mustPrepare(db, "SELECT entry, language, ts, title, body, description FROM localized_text WHERE entry = ? AND language = ? ORDER BY ts DESC, id DESC")
	entryDB.touchAttribution = mustPrepare(db, "UPDATE author_attribution SET updated_ts = ? WHERE id = ?")
	return entryDB
}

func (db *EntryDB) IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// GetEntry may return sql.ErrNoRows.
func (db *EntryDB) GetEntry(ctx context.Context, id int) (*core.Entry, error) {

	var e = &core.Entry{}
	var entryType string
	var postDate, updatedDate, reviewedAt int64
	var content string

	err := db.getEntry.QueryRowContext(ctx, id).Scan(&e.ID, &entryType, &e.OriginalLanguage, &e.Published, &e.Featured, &e.Hidden, &e.Verified, &e.Completeness, &postDate, &updatedDate, &e.ReviewedBy, &reviewedAt, &e.LastUpdatedBy, &content)
	if err != nil {
		return nil, err
	}

	e.Type = core.EntryType(entryType)
	e.PostDate = fromUnix(postDate)
	e.UpdatedDate = fromUnix(updatedDate)
	e.ReviewedAt = fromUnix(reviewedAt)

	e.Content = make(core.Content)
	if err := json.Unmarshal([]byte(content), &e.Content); err != nil {
		return nil, fmt.Errorf("decoding content of entry %d: %w", id, err)
	}

	err = db.getCreator.QueryRowContext(ctx, id).Scan(&e.Creator)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	return e, nil
}

func scanTexts(rows *sql.Rows) ([]core.LocalizedText, error) {
	defer rows.Close()
	var texts = []core.LocalizedText{}
	for rows.Next() {
		var t core.LocalizedText
		var ts int64
		if err := rows.Scan(&t.EntryID, &t.Language, &ts, &t.Title, &t.Body, &t.Description); err != nil {
			return nil, err
		}
		t.Timestamp = fromUnix(ts)
		texts = append(texts, t)
	}
	return texts, rows.Err()
}

func (db *EntryDB) CurrentTexts(ctx context.Context, id int) (map[string]core.LocalizedText, error) {
	rows, err := db.currentTexts.QueryContext(ctx, id)
	if err != nil {
		return nil, err
	}
	texts, err := scanTexts(rows)
	if err != nil {
		return nil, err
	}
	var current = make(map[string]core.LocalizedText)
	for _, t := range texts {
		current[t.Language] = t
	}
	return current, nil
}

func (db *EntryDB) TextHistory(ctx context.Context, id int, language string) ([]core.LocalizedText, error) {
	rows, err := db.textHistory.QueryContext(ctx, id, language)
	if err != nil {
		return nil, err
	}
	return scanTexts(rows)
}

func (db *EntryDB) Attributions(ctx context.Context, id int) ([]core.Attribution, error) {

	rows, err := db.attributions.QueryContext(ctx, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attributions = []core.Attribution{}

	for rows.Next() {
		var a core.Attribution
		var role string
		var ts, updated int64
		if err := rows.Scan(&a.ID, &a.EntryID, &a.UserID, &role, &ts, &updated); err != nil {
			return nil, err
		}
		a.Role = core.AttributionRole(role)
		a.Timestamp = fromUnix(ts)
		a.Updated = fromUnix(updated)
		attributions = append(attributions, a)
	}

	return attributions, rows.Err()
}

// GetDraftSession may return sql.ErrNoRows.
func (db *EntryDB) GetDraftSession(ctx context.Context, token string, userID int) (*core.DraftSession, error) {
	var s = &core.DraftSession{
		Token:  token,
		UserID: userID,
	}
	var ts int64
	if err := db.getDraftSession.QueryRowContext(ctx, token, userID).Scan(&s.EntryID, &ts); err != nil {
		return nil, err
	}
	s.Created = fromUnix(ts)
	return s, nil
}

// entryValues maps the column names of core.Entry.Diff to values.
func entryValues(e *core.Entry) (map[string]interface{}, error) {
	var content = e.Content
	if content == nil {
		content = core.Content{}
	}
	contentJSON, err := json.Marshal(content)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		core.ColOriginalLanguage: e.OriginalLanguage,
		core.ColPublished:        e.Published,
		core.ColFeatured:         e.Featured,
		core.ColHidden:           e.Hidden,
		core.ColVerified:         e.Verified,
		core.ColCompleteness:     e.Completeness,
		core.ColPostDate:         unix(e.PostDate),
		core.ColUpdatedDate:      unix(e.UpdatedDate),
		core.ColReviewedBy:       e.ReviewedBy,
		core.ColReviewedAt:       unix(e.ReviewedAt),
		core.ColLastUpdatedBy:    e.LastUpdatedBy,
		core.ColContent:          string(contentJSON),
	}, nil
}

// Commit writes the unit of work in one transaction. On insert, it sets the id of uow.Entry.
func (db *EntryDB) Commit(ctx context.Context, uow *core.UnitOfWork) (int, error) {

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}

	if err := db.commit(ctx, tx, uow); err != nil {
		tx.Rollback()
		return 0, err
	}

	return uow.Entry.ID, tx.Commit()
}

func (db *EntryDB) commit(ctx context.Context, tx *sql.Tx, uow *core.UnitOfWork) error {

	var e = uow.Entry

	values, err := entryValues(e)
	if err != nil {
		return err
	}

	if uow.Insert {
		res, err := tx.StmtContext(ctx, db.insertEntry).ExecContext(ctx, string(e.Type), values[core.ColOriginalLanguage], values[core.ColPublished], values[core.ColFeatured], values[core.ColHidden], values[core.ColVerified], values[core.ColCompleteness], values[core.ColPostDate], values[core.ColUpdatedDate], values[core.ColReviewedBy], values[core.ColReviewedAt], values[core.ColLastUpdatedBy], values[core.ColContent])
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		e.ID = int(id)
	} else if len(uow.Columns) > 0 {
		var update = builder.Update("entry").Where(sq.Eq{"id": e.ID})
		for _, col := range uow.Columns {
			value, ok := values[col]
			if !ok {
				return fmt.Errorf("unknown entry column %s", col)
			}
			update = update.Set(col, value)
		}
		query, args, err := update.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	for _, t := range uow.Texts {
		if _, err := tx.StmtContext(ctx, db.insertText).ExecContext(ctx, e.ID, t.Language, unix(t.Timestamp), t.Title, t.Body, t.Description); err != nil {
			return err
		}
	}

	for _, a := range uow.NewAttributions {
		if _, err := tx.StmtContext(ctx, db.insertAttribution).ExecContext(ctx, e.ID, a.UserID, string(a.Role), unix(a.Timestamp)); err != nil {
			return err
		}
	}

	for _, a := range uow.TouchedAttributions {
		if _, err := tx.StmtContext(ctx, db.touchAttribution).ExecContext(ctx, unix(a.Updated), a.ID); err != nil {
			return err
		}
	}

	if uow.Creator != 0 {
		if _, err := tx.StmtContext(ctx, db.setCreator).ExecContext(ctx, uow.Creator, e.ID); err != nil {
			return err
		}
	}

	if s := uow.DraftSession; s != nil {
		if _, err := tx.StmtContext(ctx, db.insertDraftSession).ExecContext(ctx, s.Token, s.UserID, e.ID, unix(s.Created)); err != nil {
			return err
		}
		s.EntryID = e.ID
	}

	return nil
}

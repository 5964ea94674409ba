package sqldb

import (
	"context"
	"database/sql"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/wansing/civicpedia/core"
	"github.com/wansing/civicpedia/util"
)

const snippetLength = 280

// SearchDB maintains a denormalized search_index table with the plain text of the current texts of published, visible entries.
type SearchDB struct {
	*sql.DB
	clear  *sql.Stmt
	insert *sql.Stmt
}

func NewSearchDB(db *sql.DB) *SearchDB {

	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS search_index (
			entry int(11) NOT NULL,
			language varchar(16) NOT NULL,
			type varchar(16) NOT NULL,
			title varchar(512) NOT NULL,
			content mediumtext NOT NULL, /* lower-case plain text of title, description and body */
			snippet text NOT NULL,
			updated_date INTEGER NOT NULL,
			PRIMARY KEY (entry, language)
		);`)
	if err != nil {
		panic(err)
	}

	var searchDB = &SearchDB{}
	searchDB.DB = db
	searchDB.clear = mustPrepare(db, "DELETE FROM search_index")
	searchDB.insert = mustPrepare(db, "INSERT INTO search_index (entry, language, type, title, content, snippet, updated_date) VALUES (?, ?, ?, ?, ?, ?, ?)")
	return searchDB
}

type indexRow struct {
	entry       int
	language    string
	entryType   string
	updatedDate int64
	title       string
	description string
	body        string
}

// Refresh rebuilds the index in one transaction.
func (db *SearchDB) Refresh(ctx context.Context) error {

	query, args, err := builder.
		Select("e.id", "t.language", "e.type", "e.updated_date", "t.title", "t.description", "t.body").
		From("entry e").
		Join("localized_text t ON t.entry = e.id").
		Where(sq.Eq{"e.published": true, "e.hidden": false}).
		OrderBy("t.ts", "t.id").
		ToSql()
	if err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}

	type key struct {
		entry    int
		language string
	}
	var latest = make(map[key]indexRow)
	var order []key

	for rows.Next() {
		var r indexRow
		if err := rows.Scan(&r.entry, &r.language, &r.entryType, &r.updatedDate, &r.title, &r.description, &r.body); err != nil {
			rows.Close()
			return err
		}
		var k = key{r.entry, r.language}
		if _, ok := latest[k]; !ok {
			order = append(order, k)
		}
		latest[k] = r // later texts overwrite earlier ones
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.StmtContext(ctx, db.clear).ExecContext(ctx); err != nil {
		tx.Rollback()
		return err
	}

	var insert = tx.StmtContext(ctx, db.insert)
	for _, k := range order {
		var r = latest[k]
		var plainBody = util.PlainText(strings.NewReader(r.body))
		var content = strings.ToLower(strings.Join([]string{r.title, r.description, plainBody}, " "))
		var snippet = r.description
		if snippet == "" {
			snippet = plainBody
		}
		if _, err := insert.ExecContext(ctx, r.entry, r.language, r.entryType, r.title, content, util.Trunc(snippet, snippetLength), r.updatedDate); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// Search returns entries whose text in the given language contains all words of the query, most recently updated first.
func (db *SearchDB) Search(ctx context.Context, language, query string, limit int) ([]core.SearchHit, error) {

	var words = strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return []core.SearchHit{}, nil
	}

	var where = sq.And{sq.Eq{"language": language}}
	for _, word := range words {
		where = append(where, sq.Expr("content LIKE ? ESCAPE '!'", "%"+likeEscaper.Replace(word)+"%"))
	}

	q, args, err := builder.
		Select("entry", "type", "language", "title", "snippet").
		From("search_index").
		Where(where).
		OrderBy("updated_date DESC", "entry DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits = []core.SearchHit{}
	for rows.Next() {
		var h core.SearchHit
		var entryType string
		if err := rows.Scan(&h.EntryID, &entryType, &h.Language, &h.Title, &h.Snippet); err != nil {
			return nil, err
		}
		h.Type = core.EntryType(entryType)
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

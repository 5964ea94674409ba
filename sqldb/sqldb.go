// Package sqldb implements the databases of package core with database/sql. The SQL is written for SQLite and is kept close to what MySQL accepts.
package sqldb

import (
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
)

func mustPrepare(db *sql.DB, query string) *sql.Stmt {
	stmt, err := db.Prepare(query)
	if err != nil {
		panic(err)
	}
	return stmt
}

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// unix returns zero for the zero time
func unix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func fromUnix(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}

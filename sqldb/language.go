package sqldb

import (
	"database/sql"

	"github.com/wansing/civicpedia/core"
)

type LanguageDB struct {
	*sql.DB
	all    *sql.Stmt
	clear  *sql.Stmt
	insert *sql.Stmt
}

func NewLanguageDB(db *sql.DB) *LanguageDB {

	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS supported_language (
			code varchar(16) NOT NULL,
			name varchar(64) NOT NULL,
			position int(11) NOT NULL,
			PRIMARY KEY (code)
		);`)
	if err != nil {
		panic(err)
	}

	var languageDB = &LanguageDB{}
	languageDB.DB = db
	languageDB.all = mustPrepare(db, "SELECT code, name FROM supported_language ORDER BY position, code")
	languageDB.clear = mustPrepare(db, "DELETE FROM supported_language")
	languageDB.insert = mustPrepare(db, "INSERT INTO supported_language (code, name, position) VALUES (?, ?, ?)")
	return languageDB
}

// SetLanguages replaces the supported languages.
func (db *LanguageDB) SetLanguages(languages core.Languages) error {

	tx, err := db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Stmt(db.clear).Exec(); err != nil {
		tx.Rollback()
		return err
	}

	for i, l := range languages {
		if _, err := tx.Stmt(db.insert).Exec(l.Code, l.Name, i); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

func (db *LanguageDB) SupportedLanguages() (core.Languages, error) {

	rows, err := db.all.Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var languages = core.Languages{}

	for rows.Next() {
		var l core.Language
		if err := rows.Scan(&l.Code, &l.Name); err != nil {
			return nil, err
		}
		languages = append(languages, l)
	}

	return languages, rows.Err()
}

package sqldb

import (
	"database/sql"
	"errors"

	"github.com/wansing/civicpedia/auth"
)

type group struct {
	id    int
	name  string
	admin bool
}

func (g *group) ID() int {
	return g.id
}

func (g *group) Name() string {
	return g.name
}

// IsAdmin returns true if the members of the group are admins.
func (g *group) IsAdmin() bool {
	return g.admin
}

type GroupDB struct {
	*sql.DB
	getByName *sql.Stmt
	getOf     *sql.Stmt
	insert    *sql.Stmt
	join      *sql.Stmt
	setAdmin  *sql.Stmt
}

func NewGroupDB(db *sql.DB) *GroupDB {

	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS grp (
			id INTEGER PRIMARY KEY,
			name varchar(64) NOT NULL,
			admin bool NOT NULL DEFAULT 0,
			UNIQUE(name)
		);
		CREATE TABLE IF NOT EXISTS membership (
			grp int(11) NOT NULL,
			usr int(11) NOT NULL,
			PRIMARY KEY (grp, usr)
		);`)
	if err != nil {
		panic(err)
	}

	var groupDB = &GroupDB{}
	groupDB.DB = db
	groupDB.getByName = mustPrepare(db, "SELECT id, name, admin FROM grp WHERE name = ? LIMIT 1")
	groupDB.getOf = mustPrepare(db, "SELECT grp.id, grp.name, grp.admin FROM grp, membership WHERE grp.id = membership.grp AND membership.usr = ? ORDER BY grp.name")
	groupDB.insert = mustPrepare(db, "INSERT INTO grp (name) VALUES (?)")
	groupDB.join = mustPrepare(db, "INSERT INTO membership (grp, usr) VALUES (?, ?)")
	groupDB.setAdmin = mustPrepare(db, "UPDATE grp SET admin = ? WHERE id = ?")
	return groupDB
}

// GetGroupByName may return sql.ErrNoRows.
func (db *GroupDB) GetGroupByName(name string) (auth.DBGroup, error) {
	var g = &group{}
	if err := db.getByName.QueryRow(name).Scan(&g.id, &g.name, &g.admin); err != nil {
		return nil, err
	}
	return g, nil
}

func (db *GroupDB) GetGroupsOf(u auth.DBUser) ([]auth.DBGroup, error) {

	rows, err := db.getOf.Query(u.ID())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups = []auth.DBGroup{}

	for rows.Next() {
		var g = &group{}
		if err = rows.Scan(&g.id, &g.name, &g.admin); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}

	return groups, rows.Err()
}

func (db *GroupDB) InsertGroup(name string) error {
	if name == "" {
		return errors.New("group name can't be empty")
	}
	_, err := db.insert.Exec(name)
	return err
}

func (db *GroupDB) Join(g auth.DBGroup, u auth.DBUser) error {
	if u.ID() == 0 {
		return errors.New("can't add user 0")
	}
	_, err := db.join.Exec(g.ID(), u.ID())
	return err
}

func (db *GroupDB) SetAdmin(g auth.DBGroup, admin bool) error {
	_, err := db.setAdmin.Exec(admin, g.ID())
	if err == nil {
		if g, ok := g.(*group); ok {
			g.admin = admin
		}
	}
	return err
}

package main

import (
	"bytes"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	"github.com/wansing/civicpedia/auth"
	"github.com/wansing/civicpedia/backend"
	"github.com/wansing/civicpedia/core"
	"github.com/wansing/civicpedia/sqldb"
	"github.com/wansing/civicpedia/sqldb/mysql"
	"github.com/wansing/civicpedia/sqldb/sqlite3"
	"github.com/wansing/civicpedia/util"
	"github.com/xo/dburl"
	"golang.org/x/crypto/ssh/terminal"
)

func init() {
	log.SetFlags(0) // no log prefixes, on most systems systemd-journald adds them
}

type initCommand struct {
	insert    bool
	join      bool
	makeAdmin bool
	group     string
	user      string
}

func (ic *initCommand) register(fs *flag.FlagSet) {
	fs.BoolVar(&ic.insert, "insert", false, "creates the given group or user")
	fs.BoolVar(&ic.join, "join", false, "joins the given user to the given group")
	fs.BoolVar(&ic.makeAdmin, "make-admin", false, "gives admin permissions to the given group")
	fs.StringVar(&ic.group, "group", "", "specifies a group `name`")
	fs.StringVar(&ic.user, "user", "", "specifies a user `name`")
}

func main() {

	var args = os.Args[1:]
	var fs = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var ic *initCommand

	if len(args) > 0 && args[0] == "init" {
		fs = flag.NewFlagSet("init", flag.ExitOnError)
		ic = &initCommand{}
		ic.register(fs)
		args = args[1:]
	}

	cfg, err := ParseConfig(fs, args)
	if err != nil {
		log.Println(err)
		return
	}

	// database

	dbURL, err := dburl.Parse(cfg.DB)
	if err != nil {
		log.Printf("could not parse database url: %v", err)
		return
	}

	sqlDB, err := sql.Open(dbURL.Driver, dbURL.DSN)
	if err != nil {
		log.Printf("could not open sql database: %v", err)
		return
	}

	defer func() {
		log.Println("closing database")
		sqlDB.Close()
	}()

	if err = sqlDB.Ping(); err != nil {
		log.Printf("could not ping sql database: %v", err)
		return
	}

	log.Printf("using database %s", dbURL.Redacted())

	// assemble stuff

	var sessionStore scs.Store
	switch dbURL.Driver {
	case "mysql":
		sessionStore, err = mysql.NewSessionStore(sqlDB)
	case "sqlite3":
		sessionStore, err = sqlite3.NewSessionStore(sqlDB)
	default:
		err = fmt.Errorf("unknown database backend: %s", dbURL.Driver)
	}
	if err != nil {
		log.Printf("could not create session store: %v", err)
		return
	}

	db := &core.CoreDB{}
	db.AuthDB = auth.AuthDB{
		GroupDB: sqldb.NewGroupDB(sqlDB),
		UserDB:  sqldb.NewUserDB(sqlDB),
	}
	db.EntryDB = sqldb.NewEntryDB(sqlDB)
	db.LanguageDB = sqldb.NewLanguageDB(sqlDB)
	db.SearchDB = sqldb.NewSearchDB(sqlDB)

	// init

	if ic != nil {
		ic.run(db)
		return
	}

	coreCfg, err := cfg.CoreConfig()
	if err != nil {
		log.Println(err)
		return
	}

	if err := db.Init(sessionStore, cfg.Base, coreCfg); err != nil {
		log.Println(err) // log.Fatalln would not run deferred functions
		return
	}
	defer db.Close()

	// initial index, entries might have been changed by another instance
	db.SearchTrigger.Signal()

	listen(db, cfg.Listen, cfg.Base)
}

func (ic *initCommand) run(db *core.CoreDB) {
	switch {
	case ic.insert:
		if ic.group != "" {
			insertGroup(db, ic.group)
		}
		if ic.user != "" {
			insertUser(db, ic.user)
		}
	case ic.join:
		if ic.group != "" && ic.user != "" {
			join(db, ic.group, ic.user)
		}
	case ic.makeAdmin:
		if ic.group != "" {
			makeAdmin(db, ic.group)
		}
	}
}

func insertGroup(db *core.CoreDB, name string) {
	if err := db.InsertGroup(name); err != nil {
		log.Printf(`error creating group "%s": %v`, name, err)
	}
}

func insertUser(db *core.CoreDB, name string) {

	fmt.Printf("password for user %s: ", name)
	pass1, err := terminal.ReadPassword(0)
	fmt.Println()
	if err != nil {
		log.Printf("error reading password: %v", err)
		return
	}

	fmt.Printf("repeat password: ")
	pass2, err := terminal.ReadPassword(0)
	fmt.Println()
	if err != nil {
		log.Printf("error reading password: %v", err)
		return
	}

	if !bytes.Equal(pass1, pass2) {
		log.Printf("passwords don't match")
		return
	}

	user, err := db.InsertUser(name)
	if err != nil {
		log.Printf("error creating user %s: %v", name, err)
		return
	}

	if err := db.SetPassword(user, string(pass1)); err != nil {
		log.Printf("error setting password: %v", err)
		return
	}
}

func join(db *core.CoreDB, groupname string, username string) {

	group, err := db.GetGroupByName(groupname)
	if err != nil {
		log.Printf("error getting group %s: %v", groupname, err)
		return
	}

	user, err := db.GetUserByName(username)
	if err != nil {
		log.Printf("error getting user %s: %v", username, err)
		return
	}

	if err := db.Join(group, user); err != nil {
		log.Printf("error joining: %v", err)
		return
	}
}

func makeAdmin(db *core.CoreDB, groupname string) {

	group, err := db.GetGroupByName(groupname)
	if err != nil {
		log.Printf("error getting group %s: %v", groupname, err)
		return
	}

	if err := db.SetAdmin(group, true); err != nil {
		log.Printf("error giving admin permission to group: %v", err)
		return
	}
}

func listen(db *core.CoreDB, addr string, base string) {

	// golang mux recovers from panics, so the program won't crash
	var mux = http.NewServeMux()
	util.HandlePrefix(mux, base, backend.NewBackendRouter(db))

	// listener and listen

	sigintChannel := make(chan os.Signal, 1)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Println(err)
		return
	}

	log.Printf("listening to %s", addr)

	httpSrv := &http.Server{
		Handler:      db.SessionManager.LoadAndSave(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := httpSrv.Serve(listener); err != nil {

			// don't panic, we want a graceful shutdown
			if err != http.ErrServerClosed {
				log.Printf("error listening: %v", err)
			}

			// ensure graceful shutdown
			sigintChannel <- os.Interrupt
		}
	}()

	// graceful shutdown

	signal.Notify(sigintChannel, os.Interrupt, syscall.SIGTERM) // SIGINT (Interrupt) or SIGTERM
	<-sigintChannel

	log.Println("shutting down")
	httpSrv.Close()
}

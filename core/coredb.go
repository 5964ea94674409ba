package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/wansing/civicpedia/auth"
)

type EntryDB interface {
	GetEntry(ctx context.Context, id int) (*Entry, error)
	CurrentTexts(ctx context.Context, id int) (map[string]LocalizedText, error) // language -> latest text
	TextHistory(ctx context.Context, id int, language string) ([]LocalizedText, error)
	Attributions(ctx context.Context, id int) ([]Attribution, error)
	GetDraftSession(ctx context.Context, token string, userID int) (*DraftSession, error)
	Commit(ctx context.Context, uow *UnitOfWork) (int, error) // returns the entry id
	IsNotFound(err error) bool
}

type LanguageDB interface {
	SetLanguages(ls Languages) error
	SupportedLanguages() (Languages, error)
}

type CoreDB struct {
	auth.AuthDB
	EntryDB
	LanguageDB
	SearchDB
	SessionManager *scs.SessionManager

	DefaultLanguage string // original language of new entries which don't declare one
	Languages       Languages
	Policies        map[EntryType]*Policy
	SearchTrigger   *SearchTrigger
	Now             func() time.Time // exported so tests can set it
}

// Config is what Init needs besides the databases.
type Config struct {
	DefaultLanguage      string
	Languages            Languages // replaces the languages in the LanguageDB, if not empty
	Taxonomies           Taxonomies
	UploadsURL           string
	TrustedMediaHosts    []string
	SearchRefreshTimeout time.Duration
}

// Init seeds the supported languages, builds the field policies and starts the search trigger.
// The databases must be set before.
func (c *CoreDB) Init(sessionStore scs.Store, cookiePath string, cfg Config) error {

	if sessionStore != nil {
		c.SessionManager = scs.New()
		c.SessionManager.Store = sessionStore
		c.SessionManager.Cookie.Path = cookiePath + "/"
		c.SessionManager.Cookie.Persist = false
		c.SessionManager.Cookie.SameSite = http.SameSiteLaxMode
		c.SessionManager.Cookie.Secure = false // else running on localhost or behind a http proxy fails
		c.SessionManager.IdleTimeout = 12 * time.Hour
		c.SessionManager.Lifetime = 720 * time.Hour
	}

	if len(cfg.Languages) > 0 {
		if err := c.LanguageDB.SetLanguages(cfg.Languages); err != nil {
			return fmt.Errorf("setting languages: %w", err)
		}
	}

	var err error
	c.Languages, err = c.LanguageDB.SupportedLanguages()
	if err != nil {
		return fmt.Errorf("loading languages: %w", err)
	}
	if len(c.Languages) == 0 {
		return errors.New("no supported languages")
	}

	c.DefaultLanguage = cfg.DefaultLanguage
	if !c.Languages.Has(c.DefaultLanguage) {
		return fmt.Errorf("default language %q is not supported", c.DefaultLanguage)
	}

	media, err := NewMediaPolicy(cfg.UploadsURL, cfg.TrustedMediaHosts)
	if err != nil {
		return err
	}
	c.Policies = NewPolicies(cfg.Taxonomies, media, c.Languages)

	if cfg.SearchRefreshTimeout <= 0 {
		cfg.SearchRefreshTimeout = 30 * time.Second
	}
	if c.SearchDB != nil {
		c.SearchTrigger = NewSearchTrigger(c.SearchDB, cfg.SearchRefreshTimeout)
	}

	if c.Now == nil {
		c.Now = time.Now
	}

	return nil
}

// Close stops the search trigger.
func (c *CoreDB) Close() {
	if c.SearchTrigger != nil {
		c.SearchTrigger.Close()
	}
}

// now returns the transaction time, truncated to the precision of the database.
func (c *CoreDB) now() time.Time {
	return c.Now().UTC().Truncate(time.Second)
}

package main

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/wansing/civicpedia/core"
	"github.com/wansing/civicpedia/util"
)

// Config holds the command configuration. Environment variables are the defaults of the flags.
type Config struct {
	Base                 string        `env:"CIVICPEDIA_BASE"`
	DB                   string        `env:"CIVICPEDIA_DB" envDefault:"sqlite3:civicpedia.sqlite3?_busy_timeout=10000&_journal=WAL&_sync=NORMAL&cache=shared"`
	Listen               string        `env:"CIVICPEDIA_LISTEN" envDefault:"127.0.0.1:8080"`
	DefaultLanguage      string        `env:"CIVICPEDIA_DEFAULT_LANGUAGE" envDefault:"en"`
	LanguagesFile        string        `env:"CIVICPEDIA_LANGUAGES" envDefault:"config/languages.ini"`
	TaxonomyFile         string        `env:"CIVICPEDIA_TAXONOMY" envDefault:"config/taxonomy.ini"`
	UploadsURL           string        `env:"CIVICPEDIA_UPLOADS_URL" envDefault:"https://s3.amazonaws.com/uploads.participedia.xyz/"`
	TrustedMediaHosts    []string      `env:"CIVICPEDIA_TRUSTED_MEDIA_HOSTS" envSeparator:","`
	SearchRefreshTimeout time.Duration `env:"CIVICPEDIA_SEARCH_REFRESH_TIMEOUT" envDefault:"30s"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ParseConfig parses environment variables and then flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	var trustedHosts = strings.Join(cfg.TrustedMediaHosts, ",")

	// Your reverse proxy must not strip the prefix. So if you're using nginx, the "proxy_pass" value should not end with a slash.
	fs.StringVar(&cfg.Base, "base", cfg.Base, "strip off this `prefix` from every HTTP request (default: CIVICPEDIA_BASE)")
	// MySQL: collation should be utf8mb4_unicode_ci, and multiStatements=true is required
	fs.StringVar(&cfg.DB, "db", cfg.DB, "sql database url, see github.com/xo/dburl (default: CIVICPEDIA_DB)")
	fs.StringVar(&cfg.Listen, "listen", cfg.Listen, "serve HTTP content at this `ip:port` (default: CIVICPEDIA_LISTEN)")
	fs.StringVar(&cfg.DefaultLanguage, "default-language", cfg.DefaultLanguage, "original language of entries which don't declare one")
	fs.StringVar(&cfg.LanguagesFile, "languages", cfg.LanguagesFile, "ini `file` with the supported languages")
	fs.StringVar(&cfg.TaxonomyFile, "taxonomy", cfg.TaxonomyFile, "ini `file` with the taxonomies")
	fs.StringVar(&cfg.UploadsURL, "uploads-url", cfg.UploadsURL, "base url of uploaded files")
	fs.StringVar(&trustedHosts, "trusted-media-hosts", trustedHosts, "comma-separated hosts which are always linked via https")
	fs.DurationVar(&cfg.SearchRefreshTimeout, "search-refresh-timeout", cfg.SearchRefreshTimeout, "timeout of a search index refresh")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.TrustedMediaHosts = nil
	for _, host := range strings.Split(trustedHosts, ",") {
		if host = strings.TrimSpace(host); host != "" {
			cfg.TrustedMediaHosts = append(cfg.TrustedMediaHosts, host)
		}
	}

	cfg.Base = strings.Trim(cfg.Base, "/")
	if cfg.Base != "" {
		cfg.Base = "/" + cfg.Base
	}

	return cfg, nil
}

// loadLanguages reads "code = name" lines from the default section of an ini file.
func loadLanguages(filename string) (core.Languages, error) {
	values, order, err := util.Ini(filename)
	if err != nil {
		return nil, fmt.Errorf("loading languages: %w", err)
	}
	return core.ParseLanguages(order[""], values[""])
}

// loadTaxonomies reads one section per field, like [general_issues] or [case.completeness], with "key = label" lines.
func loadTaxonomies(filename string) (core.Taxonomies, error) {
	values, order, err := util.Ini(filename)
	if err != nil {
		return nil, fmt.Errorf("loading taxonomies: %w", err)
	}
	return core.ParseTaxonomies(values, order), nil
}

// CoreConfig returns the configuration of core.CoreDB.Init.
func (cfg Config) CoreConfig() (core.Config, error) {

	languages, err := loadLanguages(cfg.LanguagesFile)
	if err != nil {
		return core.Config{}, err
	}

	taxonomies, err := loadTaxonomies(cfg.TaxonomyFile)
	if err != nil {
		return core.Config{}, err
	}

	return core.Config{
		DefaultLanguage:      cfg.DefaultLanguage,
		Languages:            languages,
		Taxonomies:           taxonomies,
		UploadsURL:           cfg.UploadsURL,
		TrustedMediaHosts:    cfg.TrustedMediaHosts,
		SearchRefreshTimeout: cfg.SearchRefreshTimeout,
	}, nil
}

// Package backend exposes the entry pipeline as JSON endpoints.
package backend

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/civicpedia/auth"
	"github.com/wansing/civicpedia/core"
)

const maxSubmissionSize = 4 << 20

var ErrAuth = errors.New("unauthorized")

// we need the CoreDB in the backend
type context struct {
	Principal auth.Principal
	db        *core.CoreDB
	writer    http.ResponseWriter
	request   *http.Request
}

func (ctx *context) LoggedIn() bool {
	return ctx.Principal.ID != 0
}

// Language returns the "lang" query parameter, or the default language.
func (ctx *context) Language() string {
	if lang := ctx.request.URL.Query().Get("lang"); ctx.db.Languages.Has(lang) {
		return lang
	}
	return ctx.db.DefaultLanguage
}

// Submission reads the request body.
func (ctx *context) Submission() (*core.Submission, error) {
	data, err := io.ReadAll(http.MaxBytesReader(ctx.writer, ctx.request.Body, maxSubmissionSize))
	if err != nil {
		return nil, core.ErrMalformedSubmission
	}
	return core.ParseSubmission(data)
}

func (ctx *context) JSON(status int, v interface{}) error {
	ctx.writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	ctx.writer.WriteHeader(status)
	return json.NewEncoder(ctx.writer).Encode(v)
}

func (ctx *context) OK(fields map[string]interface{}) error {
	var body = map[string]interface{}{"OK": true}
	for k, v := range fields {
		body[k] = v
	}
	return ctx.JSON(http.StatusOK, body)
}

type failure struct {
	OK     bool                `json:"OK"`
	Errors []core.LocaleErrors `json:"errors,omitempty"`
}

// Fail maps an error to a response. Internals of storage errors are not exposed.
func (ctx *context) Fail(err error) {
	var report *core.ErrorReport
	switch {
	case errors.As(err, &report):
		ctx.JSON(http.StatusBadRequest, failure{Errors: report.ByLocale()})
	case errors.Is(err, core.ErrNotFound), errors.Is(err, core.ErrUnknownType):
		ctx.JSON(http.StatusNotFound, nil)
	case errors.Is(err, ErrAuth), errors.Is(err, core.ErrUnauthorized):
		ctx.JSON(http.StatusUnauthorized, failure{})
	case errors.Is(err, core.ErrPublishedDraft):
		ctx.JSON(http.StatusConflict, failure{})
	case errors.Is(err, core.ErrMalformedSubmission), errors.Is(err, core.ErrNoOriginalLanguage):
		ctx.JSON(http.StatusBadRequest, failure{Errors: []core.LocaleErrors{{Errors: []string{err.Error()}}}})
	default:
		log.Printf("error serving %s %s for user %d: %v", ctx.request.Method, ctx.request.URL.Path, ctx.Principal.ID, err)
		ctx.JSON(http.StatusInternalServerError, failure{})
	}
}

func entryParams(params httprouter.Params) (core.EntryType, int, error) {
	t, err := core.ParseEntryType(params.ByName("type"))
	if err != nil {
		return "", 0, err
	}
	var id = 0
	if s := params.ByName("id"); s != "" {
		id, err = strconv.Atoi(s)
		if err != nil || id <= 0 {
			return "", 0, core.ErrNotFound
		}
	}
	return t, id, nil
}

func middleware(db *core.CoreDB, requireLoggedIn bool, f func(http.ResponseWriter, *http.Request, *context, httprouter.Params) error) func(http.ResponseWriter, *http.Request, httprouter.Params) {
	return func(w http.ResponseWriter, req *http.Request, params httprouter.Params) {

		var ctx = &context{
			db:      db,
			writer:  w,
			request: req,
		}

		if uid := db.SessionManager.GetInt(req.Context(), "uid"); uid != 0 {
			p, err := db.Principal(uid)
			if err == nil {
				ctx.Principal = p
			}
			// ignore errors, the user stays anonymous
		}

		if requireLoggedIn && !ctx.LoggedIn() {
			ctx.Fail(ErrAuth)
			return
		}

		if err := f(w, req, ctx, params); err != nil {
			ctx.Fail(err)
		}
	}
}

// NewBackendRouter returns the router. It must be wrapped by db.SessionManager.LoadAndSave.
func NewBackendRouter(db *core.CoreDB) http.Handler {

	var router = httprouter.New()

	// public
	router.POST("/login", middleware(db, false, login))
	router.GET("/entries/:type/:id", middleware(db, false, getEntry))
	router.GET("/entries/:type/:id/authors", middleware(db, false, authors))
	router.GET("/entries/:type/:id/versions/:lang", middleware(db, false, versions))
	router.GET("/languages", middleware(db, false, languages))
	router.GET("/search", middleware(db, false, search))

	// private
	router.POST("/logout", middleware(db, true, logout))
	router.POST("/entries/:type", middleware(db, true, createEntry))
	router.POST("/entries/:type/:id", middleware(db, true, updateEntry))
	router.POST("/drafts/:type", middleware(db, true, newDraft))
	router.POST("/drafts/:type/:id", middleware(db, true, saveDraft))
	router.POST("/drafts/:type/:id/preview", middleware(db, true, previewDraft))

	return router
}

package backend

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/civicpedia/core"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

func search(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	var limit = defaultSearchLimit
	if l, err := strconv.Atoi(req.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	if ctx.db.SearchDB == nil {
		return ctx.OK(map[string]interface{}{"results": []core.SearchHit{}})
	}

	hits, err := ctx.db.Search(req.Context(), ctx.Language(), req.URL.Query().Get("q"), limit)
	if err != nil {
		return err
	}
	return ctx.OK(map[string]interface{}{"results": hits})
}

func languages(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {
	return ctx.OK(map[string]interface{}{"languages": ctx.db.Languages})
}

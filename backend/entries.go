package backend

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/civicpedia/core"
)

func getEntry(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {
	t, id, err := entryParams(params)
	if err != nil {
		return err
	}
	e, err := visibleEntry(req, ctx, t, id, ctx.Language())
	if err != nil {
		return err
	}
	return ctx.OK(map[string]interface{}{"article": e})
}

// visibleEntry returns the entry if the user may read it. Drafts are visible to contributors only.
func visibleEntry(req *http.Request, ctx *context, t core.EntryType, id int, language string) (*core.Entry, error) {
	e, err := ctx.db.GetEntry(req.Context(), t, id, language)
	if err != nil {
		return nil, err
	}
	if !e.Published && !ctx.LoggedIn() {
		return nil, core.ErrNotFound
	}
	return e, nil
}

func versions(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {
	t, id, err := entryParams(params)
	if err != nil {
		return err
	}
	if _, err := visibleEntry(req, ctx, t, id, ""); err != nil {
		return err
	}
	history, err := ctx.db.TextHistory(req.Context(), t, id, params.ByName("lang"))
	if err != nil {
		return err
	}
	return ctx.OK(map[string]interface{}{"versions": history})
}

func authors(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {
	t, id, err := entryParams(params)
	if err != nil {
		return err
	}
	if _, err := visibleEntry(req, ctx, t, id, ""); err != nil {
		return err
	}
	attributions, err := ctx.db.Attributions(req.Context(), t, id)
	if err != nil {
		return err
	}
	return ctx.OK(map[string]interface{}{"authors": attributions})
}

func createEntry(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {
	t, _, err := entryParams(params)
	if err != nil {
		return err
	}
	sub, err := ctx.Submission()
	if err != nil {
		return err
	}
	e, err := ctx.db.CreateEntry(req.Context(), ctx.Principal, t, sub, core.FullMode)
	if err != nil {
		return err
	}
	return ctx.OK(map[string]interface{}{"article": e})
}

func updateEntry(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {
	t, id, err := entryParams(params)
	if err != nil {
		return err
	}
	sub, err := ctx.Submission()
	if err != nil {
		return err
	}
	e, err := ctx.db.UpdateEntry(req.Context(), ctx.Principal, t, id, sub, core.FullMode)
	if err != nil {
		return err
	}
	return ctx.OK(map[string]interface{}{"article": e})
}

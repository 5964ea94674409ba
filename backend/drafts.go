package backend

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/civicpedia/core"
)

// newDraft saves a draft of a new entry. The draftSession of the response must be sent with the next save.
func newDraft(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {
	t, _, err := entryParams(params)
	if err != nil {
		return err
	}
	sub, err := ctx.Submission()
	if err != nil {
		return err
	}
	e, token, err := ctx.db.SaveDraft(req.Context(), ctx.Principal, t, 0, sub.DraftSession(), sub)
	if err != nil {
		return err
	}
	return ctx.OK(map[string]interface{}{
		"isPreview":    false,
		"draftSession": token,
		"id":           e.ID,
	})
}

func saveExistingDraft(req *http.Request, ctx *context, params httprouter.Params) (*core.Entry, error) {
	t, id, err := entryParams(params)
	if err != nil {
		return nil, err
	}
	sub, err := ctx.Submission()
	if err != nil {
		return nil, err
	}
	e, _, err := ctx.db.SaveDraft(req.Context(), ctx.Principal, t, id, "", sub)
	return e, err
}

// saveDraft saves a draft of an existing entry.
func saveDraft(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {
	if _, err := saveExistingDraft(req, ctx, params); err != nil {
		return err
	}
	return ctx.OK(map[string]interface{}{"isPreview": false})
}

// previewDraft saves a draft of an existing entry and returns it.
func previewDraft(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {
	e, err := saveExistingDraft(req, ctx, params)
	if err != nil {
		return err
	}
	return ctx.OK(map[string]interface{}{
		"isPreview": true,
		"article":   e,
	})
}

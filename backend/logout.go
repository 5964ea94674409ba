package backend

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func logout(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {
	if err := ctx.db.SessionManager.Destroy(req.Context()); err != nil {
		return err
	}
	return ctx.OK(nil)
}

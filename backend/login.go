package backend

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// login expects the form values "email" and "password". On success, the user id is stored in the session.
func login(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if ctx.LoggedIn() {
		return ctx.OK(map[string]interface{}{"user": ctx.Principal.ID})
	}

	u, err := ctx.db.LoginUser(req.PostFormValue("email"), req.PostFormValue("password"))
	if err != nil {
		return ErrAuth // don't tell whether the user exists
	}

	// new token against session fixation
	if err := ctx.db.SessionManager.RenewToken(req.Context()); err != nil {
		return err
	}
	ctx.db.SessionManager.Put(req.Context(), "uid", u.ID())

	return ctx.OK(map[string]interface{}{"user": u.ID()})
}

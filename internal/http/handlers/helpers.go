package handlers

import (
	"bytes"
	"encoding/json"

	"github.com/valyala/fasthttp"

	dbpkg "github.com/Sourak135/todolist-oct/internal/db"
	httpctx "github.com/Sourak135/todolist-oct/internal/http/ctx"
)

type envelope struct {
	Code int `json:"code"`
	Data any `json:"data"`
}

// writeJSON sends the standard {code, data} envelope with the given status.
func writeJSON(ctx *fasthttp.RequestCtx, status int, data any) {
	body, _ := json.Marshal(envelope{Code: status, Data: data})
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}

// writeError sends the envelope with a plain string message. Raw storage
// errors never go through here; callers log them and pass a sanitized
// message instead.
func writeError(ctx *fasthttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, msg)
}

// MustUser returns the principal attached by the auth chain, or sends
// 403 and returns (nil, false). Handlers behind the chain should never
// hit the failure path; the guard exists so a miswired route can not
// dereference a missing principal.
func MustUser(ctx *fasthttp.RequestCtx) (*dbpkg.User, bool) {
	user, ok := httpctx.UserFromCtx(ctx)
	if !ok || user == nil {
		writeError(ctx, fasthttp.StatusForbidden, "Invalid api token")
		return nil, false
	}
	return user, true
}

// formValue reads a named field from the request body, accepting both
// JSON and URL-encoded form payloads. Missing fields come back as ""
// and are passed to storage untouched; there is no validation layer.
func formValue(ctx *fasthttp.RequestCtx, name string) string {
	if bytes.Contains(ctx.Request.Header.ContentType(), []byte("application/json")) {
		var body map[string]any
		if err := json.Unmarshal(ctx.PostBody(), &body); err == nil {
			if s, ok := body[name].(string); ok {
				return s
			}
		}
	}
	return string(ctx.PostArgs().Peek(name))
}

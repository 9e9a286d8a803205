package ctx

import (
	"github.com/valyala/fasthttp"

	dbpkg "github.com/Sourak135/todolist-oct/internal/db"
)

const (
	UserKey      = "user"
	UserTokenKey = "userToken"
)

func SetUserToken(ctx *fasthttp.RequestCtx, token string) {
	ctx.SetUserValue(UserTokenKey, token)
}

func UserTokenFromCtx(ctx *fasthttp.RequestCtx) (string, bool) {
	v := ctx.UserValue(UserTokenKey)
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// SetUser attaches the authenticated principal to the request.
func SetUser(ctx *fasthttp.RequestCtx, user *dbpkg.User) {
	ctx.SetUserValue(UserKey, user)
}

func UserFromCtx(ctx *fasthttp.RequestCtx) (*dbpkg.User, bool) {
	v := ctx.UserValue(UserKey)
	if v == nil {
		return nil, false
	}
	u, ok := v.(*dbpkg.User)
	return u, ok
}

package middleware

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	dbpkg "github.com/Sourak135/todolist-oct/internal/db"
	httpctx "github.com/Sourak135/todolist-oct/internal/http/ctx"
)

// RequireAPIKey is the presence gate of the auth chain: it rejects any
// request that carries no credential in the Authorization header. The
// header value is treated as an opaque token, no Bearer prefix parsing.
func RequireAPIKey() func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			auth := ctx.Request.Header.Peek("Authorization")
			if len(auth) == 0 {
				reject(ctx, fasthttp.StatusForbidden, "No api token")
				return
			}
			next(ctx)
		}
	}
}

// APIKeyAuth validates the supplied token against the users table and
// attaches the matching user to the request. Validation and principal
// attachment share a single lookup, so a key deleted mid-request can
// never yield a half-authenticated state.
func APIKeyAuth(db *gorm.DB) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			token := strings.TrimSpace(string(ctx.Request.Header.Peek("Authorization")))
			if token == "" {
				reject(ctx, fasthttp.StatusForbidden, "No api token")
				return
			}

			var user dbpkg.User
			if err := db.Where("api_key = ?", token).First(&user).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					reject(ctx, fasthttp.StatusForbidden, "Invalid api token")
					return
				}
				log.Error().Err(err).Msg("api key lookup failed")
				reject(ctx, fasthttp.StatusInternalServerError, "Internal server error")
				return
			}

			httpctx.SetUserToken(ctx, token)
			httpctx.SetUser(ctx, &user)
			next(ctx)
		}
	}
}

// reject writes the standard {code, data} error envelope.
func reject(ctx *fasthttp.RequestCtx, status int, msg string) {
	body, _ := json.Marshal(map[string]any{"code": status, "data": msg})
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}

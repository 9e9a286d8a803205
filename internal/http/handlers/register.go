package handlers

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	dbpkg "github.com/Sourak135/todolist-oct/internal/db"
)

// Register creates a user row with a server-generated API key and
// returns it. This is the only place the key is ever disclosed.
func Register(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		username := formValue(ctx, "username")

		key, err := uuid.NewUUID()
		if err != nil {
			log.Error().Err(err).Msg("api key generation failed")
			writeError(ctx, fasthttp.StatusInternalServerError, "Internal server error")
			return
		}

		user := &dbpkg.User{
			Username: username,
			APIKey:   key.String(),
		}

		// Username uniqueness is enforced by the index; a duplicate
		// surfaces here as a storage error.
		if err := db.Create(user).Error; err != nil {
			log.Error().Err(err).Str("username", username).Msg("create user failed")
			writeError(ctx, fasthttp.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(ctx, fasthttp.StatusOK, user)
	}
}

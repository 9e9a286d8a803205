package handlers

import (
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	dbpkg "github.com/Sourak135/todolist-oct/internal/db"
)

// CreateTodo inserts a task owned by the calling principal. Done starts
// out false via the column default.
func CreateTodo(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}

		todo := &dbpkg.Todo{
			OwnerID: user.ID,
			Task:    formValue(ctx, "task"),
		}

		if err := db.Create(todo).Error; err != nil {
			log.Error().Err(err).Uint("owner_id", user.ID).Msg("create todo failed")
			writeError(ctx, fasthttp.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(ctx, fasthttp.StatusOK, todo)
	}
}

// ListTodos returns every todo owned by the caller, in storage order.
func ListTodos(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}

		todos := make([]dbpkg.Todo, 0)
		if err := db.Where("owner_id = ?", user.ID).Find(&todos).Error; err != nil {
			log.Error().Err(err).Uint("owner_id", user.ID).Msg("list todos failed")
			writeError(ctx, fasthttp.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(ctx, fasthttp.StatusOK, todos)
	}
}

// SetDone flips the done flag on the todo matching both the path id and
// the caller's owner_id. A wrong id or another user's todo matches zero
// rows; the response is still 200 and the affected-row count in data is
// what distinguishes a no-op from an update.
func SetDone(db *gorm.DB, done bool) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		id, _ := ctx.UserValue("id").(string)

		res := db.Model(&dbpkg.Todo{}).
			Where("id = ? AND owner_id = ?", id, user.ID).
			Update("done", done)
		if res.Error != nil {
			log.Error().Err(res.Error).Str("id", id).Uint("owner_id", user.ID).Msg("update todo failed")
			writeError(ctx, fasthttp.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(ctx, fasthttp.StatusOK, res.RowsAffected)
	}
}

// DeleteTodo removes the todo matching the path id and the caller's
// owner_id. Same zero-count no-op contract as SetDone.
func DeleteTodo(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		id, _ := ctx.UserValue("id").(string)

		res := db.Where("id = ? AND owner_id = ?", id, user.ID).Delete(&dbpkg.Todo{})
		if res.Error != nil {
			log.Error().Err(res.Error).Str("id", id).Uint("owner_id", user.ID).Msg("delete todo failed")
			writeError(ctx, fasthttp.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(ctx, fasthttp.StatusOK, res.RowsAffected)
	}
}

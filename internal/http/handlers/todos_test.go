package handlers_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	dbpkg "github.com/Sourak135/todolist-oct/internal/db"
	"github.com/Sourak135/todolist-oct/internal/http/handlers"
	"github.com/Sourak135/todolist-oct/internal/http/middleware"
)

// authed runs a handler behind the same auth chain main wires up.
func authed(db *gorm.DB, h fasthttp.RequestHandler) fasthttp.RequestHandler {
	return middleware.RequireAPIKey()(middleware.APIKeyAuth(db)(h))
}

func newRequest(method, uri, apiKey string) *fasthttp.RequestCtx {
	ctx := new(fasthttp.RequestCtx)
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	if apiKey != "" {
		ctx.Request.Header.Set("Authorization", apiKey)
	}
	return ctx
}

func createTodo(t *testing.T, db *gorm.DB, apiKey, task string) dbpkg.Todo {
	t.Helper()

	ctx := newRequest(fasthttp.MethodPost, "/create", apiKey)
	ctx.Request.Header.SetContentType("application/json")
	body, err := json.Marshal(map[string]string{"task": task})
	require.NoError(t, err)
	ctx.Request.SetBody(body)

	authed(db, handlers.CreateTodo(db))(ctx)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var todo dbpkg.Todo
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, ctx).Data, &todo))
	return todo
}

func listTodos(t *testing.T, db *gorm.DB, apiKey string) []dbpkg.Todo {
	t.Helper()

	ctx := newRequest(fasthttp.MethodGet, "/list", apiKey)
	authed(db, handlers.ListTodos(db))(ctx)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var todos []dbpkg.Todo
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, ctx).Data, &todos))
	return todos
}

// hitWithID calls an id-scoped handler (done/undone/delete) and returns
// the affected-row count from the response envelope.
func hitWithID(t *testing.T, db *gorm.DB, apiKey, path string, h fasthttp.RequestHandler, id uint) int64 {
	t.Helper()

	ctx := newRequest(fasthttp.MethodPost, fmt.Sprintf("%s/%d", path, id), apiKey)
	ctx.SetUserValue("id", fmt.Sprintf("%d", id))
	authed(db, h)(ctx)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var count int64
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, ctx).Data, &count))
	return count
}

func TestCreateListRoundTrip(t *testing.T) {
	db := newTestDB(t)
	user := register(t, db, "alice")

	todo := createTodo(t, db, user.APIKey, "buy milk")
	require.Equal(t, user.ID, todo.OwnerID)
	require.Equal(t, "buy milk", todo.Task)
	require.False(t, todo.Done)

	todos := listTodos(t, db, user.APIKey)
	require.Len(t, todos, 1)
	require.Equal(t, todo.ID, todos[0].ID)
	require.False(t, todos[0].Done)

	count := hitWithID(t, db, user.APIKey, "/done", handlers.SetDone(db, true), todo.ID)
	require.Equal(t, int64(1), count)

	todos = listTodos(t, db, user.APIKey)
	require.Len(t, todos, 1)
	require.True(t, todos[0].Done)

	count = hitWithID(t, db, user.APIKey, "/undone", handlers.SetDone(db, false), todo.ID)
	require.Equal(t, int64(1), count)

	todos = listTodos(t, db, user.APIKey)
	require.Len(t, todos, 1)
	require.False(t, todos[0].Done)
}

func TestListEmptyReturnsArray(t *testing.T) {
	db := newTestDB(t)
	user := register(t, db, "alice")

	ctx := newRequest(fasthttp.MethodGet, "/list", user.APIKey)
	authed(db, handlers.ListTodos(db))(ctx)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	require.JSONEq(t, `[]`, string(decodeEnvelope(t, ctx).Data))
}

func TestOwnershipIsolation(t *testing.T) {
	db := newTestDB(t)
	alice := register(t, db, "alice")
	bob := register(t, db, "bob")

	todo := createTodo(t, db, alice.APIKey, "alice's task")

	// Bob never sees Alice's rows.
	require.Empty(t, listTodos(t, db, bob.APIKey))

	// Bob's writes against Alice's id are zero-count no-ops, not errors.
	require.Zero(t, hitWithID(t, db, bob.APIKey, "/done", handlers.SetDone(db, true), todo.ID))
	require.Zero(t, hitWithID(t, db, bob.APIKey, "/delete", handlers.DeleteTodo(db), todo.ID))

	// Alice's row is untouched.
	todos := listTodos(t, db, alice.APIKey)
	require.Len(t, todos, 1)
	require.False(t, todos[0].Done)
	require.Equal(t, alice.ID, todos[0].OwnerID)
}

func TestDeleteRemovesRow(t *testing.T) {
	db := newTestDB(t)
	user := register(t, db, "alice")

	todo := createTodo(t, db, user.APIKey, "to be deleted")
	keep := createTodo(t, db, user.APIKey, "to keep")

	count := hitWithID(t, db, user.APIKey, "/delete", handlers.DeleteTodo(db), todo.ID)
	require.Equal(t, int64(1), count)

	todos := listTodos(t, db, user.APIKey)
	require.Len(t, todos, 1)
	require.Equal(t, keep.ID, todos[0].ID)

	// Second delete of the same id is a no-op.
	count = hitWithID(t, db, user.APIKey, "/delete", handlers.DeleteTodo(db), todo.ID)
	require.Zero(t, count)
}

func TestDoneUnknownIDIsNoOp(t *testing.T) {
	db := newTestDB(t)
	user := register(t, db, "alice")

	count := hitWithID(t, db, user.APIKey, "/done", handlers.SetDone(db, true), 9999)
	require.Zero(t, count)
}

func TestListScopedPerOwner(t *testing.T) {
	db := newTestDB(t)

	users := []dbpkg.User{
		register(t, db, "alice"),
		register(t, db, "bob"),
		register(t, db, "carol"),
	}
	for i, u := range users {
		for j := 0; j <= i; j++ {
			createTodo(t, db, u.APIKey, fmt.Sprintf("task %d/%d", i, j))
		}
	}

	for i, u := range users {
		todos := listTodos(t, db, u.APIKey)
		require.Len(t, todos, i+1)
		for _, row := range todos {
			require.Equal(t, u.ID, row.OwnerID)
		}
	}
}

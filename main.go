package main

import (
	"github.com/fasthttp/router"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"

	"github.com/Sourak135/todolist-oct/internal/config"
	"github.com/Sourak135/todolist-oct/internal/db"
	"github.com/Sourak135/todolist-oct/internal/http/handlers"
	appmw "github.com/Sourak135/todolist-oct/internal/http/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	sqlDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	handlers.InitPrometheusMetrics()

	r := router.New()
	r.SaveMatchedRoutePath = true

	r.GET("/healthz", func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("ok")
	})
	r.GET("/metrics", handlers.MetricsHandler())

	r.POST("/register", handlers.Register(sqlDB))

	// Every todo route runs the full auth chain: presence gate first,
	// then key validation with principal attachment.
	auth := func(h fasthttp.RequestHandler) fasthttp.RequestHandler {
		return appmw.RequireAPIKey()(appmw.APIKeyAuth(sqlDB)(h))
	}

	r.POST("/create", auth(handlers.CreateTodo(sqlDB)))
	r.GET("/list", auth(handlers.ListTodos(sqlDB)))
	r.POST("/done/{id}", auth(handlers.SetDone(sqlDB, true)))
	r.POST("/undone/{id}", auth(handlers.SetDone(sqlDB, false)))
	r.POST("/delete/{id}", auth(handlers.DeleteTodo(sqlDB)))

	handler := handlers.RequestLogger(r.Handler)

	log.Info().Str("addr", cfg.ListenAddr).Msg("todolist api listening")
	if err := fasthttp.ListenAndServe(cfg.ListenAddr, handler); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

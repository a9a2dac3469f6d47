package main

import (
	"time"

	"masterblog/config"
	"masterblog/routes"
	"masterblog/store"
	"masterblog/utils"
)

func main() {
	cfg := config.Load()

	logger, err := utils.NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	posts, err := store.NewPostStore(cfg.StorePath, sugar)
	if err != nil {
		sugar.Fatalf("failed to open post store: %v", err)
	}
	users := store.NewUserStore()

	rdb := utils.NewRedisClient(cfg)
	tokens := utils.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.TokenTTLMinutes)*time.Minute, rdb)
	cache := utils.NewCache(rdb, sugar)

	r := routes.SetupRouter(cfg, routes.Deps{
		Posts:  posts,
		Users:  users,
		Tokens: tokens,
		Cache:  cache,
	})

	sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r, sugar); err != nil {
		sugar.Fatalf("server stopped with error: %v", err)
	}
}

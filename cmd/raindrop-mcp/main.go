package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/raindrop-contrib/raindrop-mcp/internal/config"
	"github.com/raindrop-contrib/raindrop-mcp/internal/cursor"
	"github.com/raindrop-contrib/raindrop-mcp/internal/logger"
	"github.com/raindrop-contrib/raindrop-mcp/internal/mcp"
	"github.com/raindrop-contrib/raindrop-mcp/internal/raindrop"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.PrettyLog)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	presets, err := raindrop.LoadPresets(cfg.PresetsFile)
	if err != nil {
		log.Fatalf("load presets: %v", err)
	}

	var store cursor.Store = cursor.NewMemoryStore()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() { _ = rdb.Close() }()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("redis ping: %v", err)
		}
		store = cursor.NewRedisStore(rdb)
		log.Info("watch cursors stored in redis", logger.String("addr", cfg.RedisAddr))
	}

	client := raindrop.NewClient(cfg, log)
	watcher := raindrop.NewWatcher(client, store)
	server := mcp.NewServer(cfg, client, watcher, presets, log)

	var errRun error
	switch cfg.Transport {
	case "http", "streamable-http":
		log.Info("starting MCP HTTP transport",
			logger.String("addr", cfg.HTTPAddr),
			logger.String("path", cfg.HTTPPath))
		errRun = server.RunHTTP(ctx)
	default:
		log.Info("starting MCP stdio transport")
		errRun = server.Run(ctx)
	}
	if errRun != nil {
		log.Fatalf("server stopped with error: %v", errRun)
	}
}

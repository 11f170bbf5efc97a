package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/kanon0111/sdlg-edu/internal/cache"
	"github.com/kanon0111/sdlg-edu/internal/config"
	"github.com/kanon0111/sdlg-edu/internal/generator"
	"github.com/kanon0111/sdlg-edu/internal/handler"
	"github.com/kanon0111/sdlg-edu/internal/limiter"
	"github.com/kanon0111/sdlg-edu/internal/logger"
	"github.com/kanon0111/sdlg-edu/internal/metrics"
	"github.com/kanon0111/sdlg-edu/internal/pools"
	"github.com/kanon0111/sdlg-edu/internal/storage"
)

func main() {
	// Load .env file if exists
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	settings, err := config.LoadSettings(cfg.SettingsPath)
	if err != nil {
		log.Fatal("Failed to load settings", "error", err)
	}
	lexicon, poolsDigest, err := pools.LoadWithDigest(cfg.PoolsPath)
	if err != nil {
		log.Fatal("Failed to load pools", "error", err)
	}
	driver, err := generator.NewDriver(settings, lexicon,
		generator.WithLogger(log),
		generator.WithObserver(metrics.GenerationObserver{}),
	)
	if err != nil {
		log.Fatal("Failed to build driver", "error", err)
	}

	// Redis is optional: without it there is no dataset cache and no rate
	// limiting.
	var datasetCache handler.DatasetCache
	var rateLimiter *limiter.Limiter
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			log.Warn("Failed to connect to Redis cache", "error", err)
		} else {
			defer redisCache.Close()
			datasetCache = redisCache
		}

		redisStorage, err := storage.NewRedisStorage(cfg.RedisURL)
		if err != nil {
			log.Warn("Failed to connect to Redis storage", "error", err)
		} else {
			defer redisStorage.Close()
			rateLimiter = limiter.NewLimiter(redisStorage, map[string]limiter.ActionConfig{
				handler.ActionGenerate: {Limit: cfg.GenerateRateLimit, Window: cfg.GenerateWindow},
				handler.ActionQuality:  {Limit: cfg.GenerateRateLimit * 3, Window: cfg.GenerateWindow},
			})
		}
	}

	if cfg.LogMode == "prod" || cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := handler.NewRouter(handler.Handlers{
		Generate: handler.NewGenerateHandler(driver, settings.String()+" pools="+poolsDigest, datasetCache, handler.GenerateLimits{
			MaxItemsPerTopic: cfg.MaxItemsPerTopic,
			MaxRecipeLines:   cfg.MaxRecipeLines,
			CacheTTL:         cfg.CacheTTL,
		}, log),
		Quality: handler.NewQualityHandler(cfg.MaxQualityBytes),
		Limits:  handler.NewLimitHandler(rateLimiter, log),
	})

	log.Info("Grammar dataset server starting", "port", cfg.Port, "redis", cfg.RedisURL != "")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server", "error", err)
	}
}

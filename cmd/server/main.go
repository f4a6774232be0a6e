package main

import (
	"context"
	"log"
	"os"
	"time"

	"codereviewgo/internal/api"
	"codereviewgo/internal/config"
	"codereviewgo/internal/redis"
	"codereviewgo/internal/service/analysis"
	"codereviewgo/internal/service/review"
	"codereviewgo/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	cfgPath := os.Getenv("CODEREVIEWGO_CONFIG")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	dbType := os.Getenv("CODEREVIEWGO_DB")
	if dbType == "" {
		dbType = "sqlite3"
	}
	log.Printf("dbType: %s\n", dbType)
	db, err := storage.Open(dbType, cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := storage.Migrate(db, dbType); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	provider := cfg.BasicConfig.Provider
	if provider == "" {
		provider = "gemini"
	}
	analyzer, err := analysis.NewService(cfg, provider, cfg.BasicConfig.Model)
	if err != nil {
		log.Fatalf("init analysis service: %v", err)
	}
	reviews := review.NewService(db, analyzer)

	// The report cache is best-effort; a missing redis only disables it.
	cache, err := redis.NewClient(cfg)
	if err != nil {
		log.Printf("redis unavailable, report cache disabled: %v", err)
		cache = nil
	}
	defer cache.Close()

	uploadDir := cfg.BasicConfig.UploadDir
	if uploadDir == "" {
		uploadDir = "./data/uploads"
	}
	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	defer sweepCancel()
	review.StartUploadSweeper(sweepCtx,
		uploadDir,
		time.Duration(cfg.BasicConfig.UploadTTL)*time.Minute,
		time.Duration(cfg.BasicConfig.UploadSweepMinutes)*time.Minute,
	)

	cacheTTL := time.Duration(cfg.BasicConfig.CacheTTLSeconds) * time.Second
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	handlers := api.NewHandler(reviews, cache, uploadDir, cacheTTL)

	router := gin.Default()
	handlers.RegisterRoutes(router)

	addr := cfg.BasicConfig.ServerAddress
	if addr == "" {
		addr = ":8090"
	}

	if err := router.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/barbierimoderni/booking-api/internal/config"
	dbpkg "github.com/barbierimoderni/booking-api/internal/db"
	"github.com/barbierimoderni/booking-api/internal/kvstore"
	"github.com/barbierimoderni/booking-api/internal/logger"
	"github.com/barbierimoderni/booking-api/internal/routes"
)

func main() {

	cfg := config.Load()

	log := logger.New(cfg.Env)
	defer log.Sync()

	db := dbpkg.NewDB(cfg)
	kv := kvstore.NewRedisStore(cfg.RedisAddr)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, log, kv)

	log.Info("server starting", zap.String("addr", cfg.Addr()))
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalog-service/controllers"
	"catalog-service/database"
	"catalog-service/middleware"
	"catalog-service/repository"
	"catalog-service/routes"
	"catalog-service/services"
	"catalog-service/uploads"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Initialize structured logger
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	// Load .env file (optional, falls back to system env)
	_ = godotenv.Load()

	cfg, err := LoadConfig()
	if err != nil {
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	// --- 1. External collaborators ---

	mongoClient, err := database.Connect(cfg.MongoURI)
	if err != nil {
		zap.L().Fatal("Failed to connect to database", zap.Error(err))
	}
	db := mongoClient.Database(cfg.DBName)

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			zap.L().Warn("Failed to parse REDIS_URL, response caching disabled", zap.Error(err))
		} else {
			rdb = redis.NewClient(redisOpts)
		}
	}

	uploadStore, err := uploads.NewStore(cfg.UploadDir, "/uploads")
	if err != nil {
		zap.L().Fatal("Failed to prepare upload directory", zap.Error(err))
	}

	// --- 2. Dependency injection (wiring the layers together) ---

	productRepo := repository.NewMongoProductRepository(db)
	productService := services.NewProductService(productRepo, uploadStore)
	productController := controllers.NewProductController(productService, rdb)

	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	if cfg.SweepInterval > 0 {
		services.StartOrphanSweeper(sweeperCtx, productRepo, uploadStore.Dir(), cfg.SweepInterval)
	}

	// --- 3. HTTP server & middleware ---

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))

	// Per-request timeout
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), controllers.DefaultContextTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// --- 4. Route registration ---

	routes.RegisterRoutes(r, productController)

	// Uploaded images are served read-only under the same prefix stored on
	// the product's image field.
	r.Static("/uploads", uploadStore.Dir())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	// --- 5. Graceful shutdown ---

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		zap.L().Info("Catalog service starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down catalog service...")
	stopSweeper()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Fatal("Server forced to shutdown", zap.Error(err))
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			zap.L().Error("Failed to close Redis", zap.Error(err))
		}
	}
	if err := database.Close(mongoClient); err != nil {
		zap.L().Error("Failed to close MongoDB", zap.Error(err))
	}

	zap.L().Info("Catalog service stopped gracefully")
}

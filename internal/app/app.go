package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yukikurage/project-task-api/internal/config"
	"github.com/yukikurage/project-task-api/internal/database"
	"github.com/yukikurage/project-task-api/internal/mail"
	"github.com/yukikurage/project-task-api/internal/middleware"
	"github.com/yukikurage/project-task-api/internal/resettoken"
	"gorm.io/gorm"
)

type App struct {
	cfg    *config.Config
	db     *gorm.DB
	redis  *redis.Client
	router *gin.Engine
}

// New connects to the database (and Redis when configured), migrates the
// schema and builds the router.
func New(cfg *config.Config) (*App, error) {
	a := &App{cfg: cfg}

	db, err := database.Open(cfg.DB)
	if err != nil {
		return nil, err
	}
	a.db = db
	log.Printf("database pool: %v", database.Stats(db))

	if err := database.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, err
	}

	if cfg.Redis.Addr != "" {
		rdb, err := newRedis(cfg.Redis)
		if err != nil {
			_ = database.Close(db)
			return nil, err
		}
		a.redis = rdb
	}

	a.router = newRouter(cfg, Deps{
		DB:     a.db,
		Redis:  a.redis,
		Store:  resetStore(a.redis),
		Mailer: mail.New(cfg.Mail),
	})
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

// Close releases Redis and the database pool. It stops waiting once ctx is
// done; the close keeps running in the background.
func (a *App) Close(ctx context.Context) error {
	done := make(chan error, 1)
	go func() {
		var errs []error
		if a.redis != nil {
			errs = append(errs, a.redis.Close())
		}
		errs = append(errs, database.Close(a.db))
		done <- errors.Join(errs...)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("close: %w", ctx.Err())
	}
}

func resetStore(rdb *redis.Client) resettoken.Store {
	if rdb == nil {
		log.Printf("REDIS_ADDR not set, keeping reset tokens in memory")
		return resettoken.NewMemoryStore()
	}
	return resettoken.NewRedisStore(rdb)
}

func newRedis(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

func newRouter(cfg *config.Config, deps Deps) *gin.Engine {
	gin.SetMode(cfg.HTTP.GinMode)

	r := gin.New()
	if cfg.HTTP.GinMode == gin.DebugMode {
		r.Use(gin.Logger())
	}
	r.Use(middleware.RecoveryWithLog())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORS.Origins(),
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	}))

	Setup(r, cfg, deps)
	return r
}

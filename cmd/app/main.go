package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	dbadapter "yatube/internal/adapters/database"
	"yatube/internal/adapters/httpapi"
	redisadapter "yatube/internal/adapters/redis"
	"yatube/internal/config"
	commentapp "yatube/internal/core/comment/service"
	feedapp "yatube/internal/core/feed/service"
	followapp "yatube/internal/core/follow/service"
	groupapp "yatube/internal/core/group/service"
	postapp "yatube/internal/core/post/service"
	userapp "yatube/internal/core/user/service"
	"yatube/internal/workers"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("App stopped with error", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.OpenDB(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := config.CloseDB(db); err != nil {
			logger.Error("Error closing database connection", zap.Error(err))
		}
	}()

	if err := dbadapter.Migrate(db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	logger.Info("Database migrations completed")

	userRepo := dbadapter.NewUserRepositoryDatabase(db)
	groupRepo := dbadapter.NewGroupRepositoryDatabase(db)
	postRepo := dbadapter.NewPostRepositoryDatabase(db)
	commentRepo := dbadapter.NewCommentRepositoryDatabase(db)
	followRepo := dbadapter.NewFollowRepositoryDatabase(db)

	feedSvc := feedapp.NewFeedService(postRepo, groupRepo, userRepo, followRepo, commentRepo, cfg.PostsPerPage, logger)
	if client := openCache(ctx, cfg, logger); client != nil {
		defer func() {
			if err := client.Close(); err != nil {
				logger.Error("Error closing Redis connection", zap.Error(err))
			}
		}()
		feedSvc.WithIndexCache(redisadapter.NewFeedCacheRedis(client, logger), cfg.IndexCacheTTL)

		if cfg.WarmerEnabled() {
			go workers.NewIndexWarmer(feedSvc, cfg.IndexWarmPages, cfg.IndexWarmInterval, logger).Run(ctx)
		}
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := httpapi.SetupRoutes(cfg, logger, httpapi.UseCases{
		Users:    userapp.NewUserService(userRepo, []byte(cfg.JWTSecret), cfg.JWTTTL, logger),
		Groups:   groupapp.NewGroupService(groupRepo, logger),
		Posts:    postapp.NewPostService(postRepo, groupRepo, logger),
		Comments: commentapp.NewCommentService(commentRepo, postRepo, logger),
		Follows:  followapp.NewFollowService(followRepo, userRepo, logger),
		Feeds:    feedSvc,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("App is running", zap.String("addr", srv.Addr))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openCache returns nil when the index cache is off or Redis is unreachable.
// The site works without it.
func openCache(ctx context.Context, cfg config.Config, logger *zap.Logger) *redis.Client {
	if !cfg.CacheEnabled() {
		logger.Info("Index cache disabled")
		return nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	client, err := config.OpenRedis(pingCtx, cfg, logger)
	if err != nil {
		logger.Warn("Running without index cache", zap.Error(err))
		return nil
	}
	return client
}

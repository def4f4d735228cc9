// Package app wires configuration, storage and services for the two binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"warbler/internal/core/config"
	"warbler/internal/core/database"
	"warbler/internal/core/logger"
	"warbler/internal/core/session"
	"warbler/internal/domain"
	"warbler/internal/repo"
	"warbler/internal/service"
	"warbler/internal/transport/http/router"
)

type App struct {
	Cfg      *config.Config
	Log      *zap.Logger
	DB       *gorm.DB
	Services router.Services

	rdb     *redis.Client
	closers []func()
}

// NewLogger builds the process logger from cfg.Log, rotating to a file when one is set.
func NewLogger(cfg config.Log) (*zap.Logger, func()) {
	if cfg.File == "" {
		return logger.New(cfg.Level, cfg.JSON)
	}
	return logger.NewWithRotate(cfg.Level, cfg.JSON, cfg.File, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays, cfg.Compress)
}

// New opens the database (migrating it when configured), selects the session store
// and builds the services.
func New(ctx context.Context, cfg *config.Config, l *zap.Logger) (*App, error) {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             l,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	a := &App{Cfg: cfg, Log: l, DB: db}
	a.closers = append(a.closers, func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := repo.Migrate(db); err != nil {
			a.Close()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		l.Info("automigrate done")
	}

	sessions, err := a.sessionStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	store := repo.NewStore(db)
	users := service.NewUserService(store, l)
	a.Services = router.Services{
		Users:    users,
		Follows:  service.NewFollowService(store, l),
		Messages: service.NewMessageService(store, l),
		Likes:    service.NewLikeService(store, l),
		Gate:     service.NewSessionGate(users, sessions, []byte(cfg.Session.Secret), cfg.Session.TTL(), l),
	}
	return a, nil
}

func (a *App) sessionStore(ctx context.Context) (domain.SessionStore, error) {
	switch a.Cfg.Session.Store {
	case "", "db":
		sr := repo.NewSessionRepo(a.DB)
		if n, err := sr.DeleteExpired(ctx); err != nil {
			a.Log.Warn("purge expired sessions", zap.Error(err))
		} else if n > 0 {
			a.Log.Info("purged expired sessions", zap.Int64("count", n))
		}
		return sr, nil
	case "redis":
		rc := a.Cfg.Redis
		a.rdb = session.NewRedisClient(rc.Addr, rc.Password, rc.DB)
		a.closers = append(a.closers, func() { _ = a.rdb.Close() })
		if err := a.rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping %s: %w", rc.Addr, err)
		}
		a.Log.Info("redis session store", zap.String("addr", rc.Addr))
		return session.NewRedisStore(a.rdb), nil
	}
	return nil, fmt.Errorf("unknown session store %q", a.Cfg.Session.Store)
}

// Close releases connections in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Serve runs srv until SIGINT/SIGTERM, then shuts it down within grace.
func Serve(srv *http.Server, l *zap.Logger, name string, grace time.Duration) error {
	errc := make(chan error, 1)
	go func() {
		l.Info(name+" starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errc:
		if ok {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	case sig := <-quit:
		l.Info(name+" shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("%s shutdown: %w", name, err)
	}
	l.Info(name + " stopped gracefully")
	return nil
}

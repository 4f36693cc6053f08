package config

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"task-manager/configs"
	"task-manager/internal/repository"
	"task-manager/internal/service"
	taskws "task-manager/internal/websocket"
	"task-manager/pkg/database"
	"task-manager/pkg/logger"
	"task-manager/pkg/token"
)

const connectTimeout = 10 * time.Second

// Dependencies holds everything main wires into the HTTP app.
type Dependencies struct {
	Tokens *token.Manager
	Auth   *service.AuthService
	Tasks  *service.TaskService
	Hub    *taskws.Hub

	closers []func(context.Context) error
}

// NewDependencies connects the store selected by cfg.StoreDriver, the optional
// Redis cache, and builds the services on top of them.
func NewDependencies(ctx context.Context, cfg configs.Config) (*Dependencies, error) {
	deps := &Dependencies{Hub: taskws.NewHub()}

	users, tasks, err := deps.openStore(ctx, cfg)
	if err != nil {
		deps.Close(ctx)
		return nil, err
	}

	taskOpts := []service.TaskOption{service.WithNotifier(deps.Hub)}
	if cfg.RedisHost != "" {
		connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		client, err := database.ConnectRedis(connectCtx, cfg.RedisAddr(), cfg.RedisPassword)
		cancel()
		if err != nil {
			deps.Close(ctx)
			return nil, err
		}
		deps.closers = append(deps.closers, func(context.Context) error { return client.Close() })
		taskOpts = append(taskOpts, service.WithCache(repository.NewRedisTaskCache(client, cfg.CacheTTL)))
		logger.SystemLogger.Info("Redis Connected", zap.String("addr", cfg.RedisAddr()))
	}

	deps.Tokens = token.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	deps.Auth = service.NewAuthService(users, deps.Tokens, cfg.BcryptCost)
	deps.Tasks = service.NewTaskService(tasks, taskOpts...)
	return deps, nil
}

func (d *Dependencies) openStore(ctx context.Context, cfg configs.Config) (repository.UserRepository, repository.TaskRepository, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	switch cfg.StoreDriver {
	case configs.DriverPostgres:
		db, err := database.ConnectDB(connectCtx, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, err
		}
		d.closers = append(d.closers, func(context.Context) error { return db.Close() })
		if err := repository.CreateTableIfNotExists(connectCtx, db); err != nil {
			return nil, nil, err
		}
		logger.SystemLogger.Info("Database Connected", zap.String("driver", cfg.StoreDriver))
		return repository.NewPostgresUserRepository(db), repository.NewPostgresTaskRepository(db), nil

	case configs.DriverMongo:
		client, err := database.ConnectMongo(connectCtx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		d.closers = append(d.closers, client.Disconnect)
		db := client.Database(cfg.MongoDB)
		if err := repository.EnsureMongoIndexes(connectCtx, db); err != nil {
			return nil, nil, err
		}
		logger.SystemLogger.Info("Database Connected", zap.String("driver", cfg.StoreDriver))
		return repository.NewMongoUserRepository(db), repository.NewMongoTaskRepository(db), nil

	case configs.DriverMemory:
		store := repository.NewMemoryStore()
		logger.SystemLogger.Warn("Using in-memory store, data is lost on restart")
		return store.Users(), store.Tasks(), nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// Close releases connections in reverse order of opening.
func (d *Dependencies) Close(ctx context.Context) {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](ctx); err != nil {
			logger.ErrorLogger.Error("Error closing dependency", zap.Error(err))
		}
	}
	d.closers = nil
}

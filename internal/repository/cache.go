package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"task-manager/internal/models"
	"task-manager/pkg/logger"
)

// RedisTaskCache stores tasks as JSON under "task:<id>". Redis failures are
// logged and treated as misses.
type RedisTaskCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisTaskCache(client *redis.Client, ttl time.Duration) *RedisTaskCache {
	return &RedisTaskCache{client: client, ttl: ttl}
}

func cacheKey(id string) string {
	return fmt.Sprintf("task:%s", id)
}

func (c *RedisTaskCache) Get(ctx context.Context, id string) (*models.Task, bool) {
	cached, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.ErrorLogger.Error("Error reading task cache", zap.String("task_id", id), zap.Error(err))
		}
		return nil, false
	}
	var t models.Task
	if err := json.Unmarshal(cached, &t); err != nil {
		logger.ErrorLogger.Error("Error decoding cached task", zap.String("task_id", id), zap.Error(err))
		return nil, false
	}
	return &t, true
}

func (c *RedisTaskCache) Set(ctx context.Context, t *models.Task) {
	data, err := json.Marshal(t)
	if err != nil {
		logger.ErrorLogger.Error("Error encoding task to JSON", zap.String("task_id", t.ID), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, cacheKey(t.ID), data, c.ttl).Err(); err != nil {
		logger.ErrorLogger.Error("Error caching task", zap.String("task_id", t.ID), zap.Error(err))
	}
}

func (c *RedisTaskCache) Delete(ctx context.Context, id string) {
	if err := c.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		logger.ErrorLogger.Error("Error evicting cached task", zap.String("task_id", id), zap.Error(err))
	}
}

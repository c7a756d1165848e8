// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MKhiriev/go-care-sync/internal/logger"
	"github.com/MKhiriev/go-care-sync/models"
)

const replayKeyPrefix = "care-sync:op:"

// NewRedisClient parses redisURL and pings the server.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err = client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("error pinging redis: %w", err)
	}

	return client, nil
}

// redisReplayCache keeps the result of recently applied pushes so a retried
// operation is answered without opening a database transaction. The
// applied_operations table stays the source of truth.
type redisReplayCache struct {
	client redis.Cmdable
}

// NewRedisReplayCache returns a [ReplayCache] over client.
func NewRedisReplayCache(client redis.Cmdable) ReplayCache {
	return &redisReplayCache{client: client}
}

func (c *redisReplayCache) GetResult(ctx context.Context, operationID string) (models.Entity, error) {
	data, err := c.client.Get(ctx, replayKeyPrefix+operationID).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Entity{}, ErrCacheMiss
	}
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).
			Str("func", "redisReplayCache.GetResult").
			Str("operation_id", operationID).
			Msg("replay cache read failed")
		return models.Entity{}, fmt.Errorf("failed to get replay result: %w", err)
	}

	var entity models.Entity
	if err = json.Unmarshal(data, &entity); err != nil {
		return models.Entity{}, fmt.Errorf("failed to unmarshal replay result: %w", err)
	}
	return entity, nil
}

func (c *redisReplayCache) PutResult(ctx context.Context, operationID string, entity models.Entity, ttl time.Duration) error {
	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal replay result: %w", err)
	}
	if err = c.client.Set(ctx, replayKeyPrefix+operationID, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set replay result: %w", err)
	}
	return nil
}

// nopReplayCache is used when no Redis URL is configured.
type nopReplayCache struct{}

// NewNopReplayCache returns a [ReplayCache] that never hits.
func NewNopReplayCache() ReplayCache {
	return nopReplayCache{}
}

func (nopReplayCache) GetResult(context.Context, string) (models.Entity, error) {
	return models.Entity{}, ErrCacheMiss
}

func (nopReplayCache) PutResult(context.Context, string, models.Entity, time.Duration) error {
	return nil
}

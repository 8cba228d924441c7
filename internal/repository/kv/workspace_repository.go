// Package kv stores workspaces in Redis so several instances can serve the
// same browser session.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"td-generator-be/internal/repository/contract"
	"td-generator-be/pkg/store"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "tdgen:workspace:"

type WorkspaceRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ contract.WorkspaceRepository = &WorkspaceRepository{}

func NewWorkspaceRepository(rdb *redis.Client, ttl time.Duration) *WorkspaceRepository {
	return &WorkspaceRepository{rdb: rdb, ttl: ttl}
}

func (r *WorkspaceRepository) Save(ctx context.Context, ws *store.Workspace) error {
	data, err := json.Marshal(ws)
	if err != nil {
		return fmt.Errorf("marshal workspace: %w", err)
	}
	if err := r.rdb.Set(ctx, keyPrefix+ws.ID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set workspace: %w", err)
	}
	return nil
}

func (r *WorkspaceRepository) Get(ctx context.Context, id string) (*store.Workspace, error) {
	data, err := r.rdb.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, contract.ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("redis get workspace: %w", err)
	}
	var ws store.Workspace
	if err := json.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("unmarshal workspace: %w", err)
	}
	if r.ttl > 0 {
		r.rdb.Expire(ctx, keyPrefix+id, r.ttl)
	}
	return &ws, nil
}

func (r *WorkspaceRepository) Delete(ctx context.Context, id string) error {
	n, err := r.rdb.Del(ctx, keyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("redis del workspace: %w", err)
	}
	if n == 0 {
		return contract.ErrWorkspaceNotFound
	}
	return nil
}

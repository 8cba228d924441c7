package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"td-generator-be/internal/repository/contract"
	"td-generator-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// WorkspaceRepository keeps serialized workspaces in process memory. Values
// are stored as JSON so callers never share state with the cache. Every Get
// or Save restarts the expiry.
type WorkspaceRepository struct {
	cache *cache.Cache
}

var _ contract.WorkspaceRepository = &WorkspaceRepository{}

func NewWorkspaceRepository(ttl time.Duration) *WorkspaceRepository {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &WorkspaceRepository{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (r *WorkspaceRepository) Save(ctx context.Context, ws *store.Workspace) error {
	data, err := json.Marshal(ws)
	if err != nil {
		return fmt.Errorf("marshal workspace: %w", err)
	}
	r.cache.Set(ws.ID, data, cache.DefaultExpiration)
	return nil
}

func (r *WorkspaceRepository) Get(ctx context.Context, id string) (*store.Workspace, error) {
	x, found := r.cache.Get(id)
	if !found {
		return nil, contract.ErrWorkspaceNotFound
	}
	var ws store.Workspace
	if err := json.Unmarshal(x.([]byte), &ws); err != nil {
		return nil, fmt.Errorf("unmarshal workspace: %w", err)
	}
	r.cache.Set(id, x, cache.DefaultExpiration)
	return &ws, nil
}

func (r *WorkspaceRepository) Delete(ctx context.Context, id string) error {
	if _, found := r.cache.Get(id); !found {
		return contract.ErrWorkspaceNotFound
	}
	r.cache.Delete(id)
	return nil
}

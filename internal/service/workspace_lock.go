package service

import (
	"context"
	"errors"
	"sync"

	"td-generator-be/internal/pkg/apperror"
	"td-generator-be/internal/repository/contract"
	"td-generator-be/pkg/selection"
	"td-generator-be/pkg/store"
)

// WorkspaceAccess serializes the read-modify-write cycle of each workspace.
// Services that change the same workspaces must share one instance.
type WorkspaceAccess struct {
	repo  contract.WorkspaceRepository
	locks sync.Map
}

func NewWorkspaceAccess(repo contract.WorkspaceRepository) *WorkspaceAccess {
	return &WorkspaceAccess{repo: repo}
}

func (a *WorkspaceAccess) lock(id string) func() {
	v, _ := a.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (a *WorkspaceAccess) forget(id string) {
	a.locks.Delete(id)
}

func (a *WorkspaceAccess) load(ctx context.Context, id string) (*store.Workspace, error) {
	ws, err := a.repo.Get(ctx, id)
	if errors.Is(err, contract.ErrWorkspaceNotFound) {
		return nil, apperror.NotFound("workspace not found")
	}
	if err != nil {
		return nil, err
	}
	if ws.Board == nil {
		ws.Board = selection.NewBoard(ws.ForcedChips)
	}
	return ws, nil
}

// mutate runs fn on a private copy and stores it only when fn succeeds, so a
// failed step leaves the stored workspace as it was.
func (a *WorkspaceAccess) mutate(ctx context.Context, id string, fn func(ws *store.Workspace) error) (*store.Workspace, error) {
	unlock := a.lock(id)
	defer unlock()

	ws, err := a.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(ws); err != nil {
		return nil, err
	}
	ws.Touch()
	if err := a.repo.Save(ctx, ws); err != nil {
		return nil, err
	}
	return ws, nil
}

package contract

import (
	"context"
	"errors"

	"td-generator-be/pkg/store"
)

var ErrWorkspaceNotFound = errors.New("workspace not found")

// WorkspaceRepository keeps workspace state between requests. Get always
// returns a private copy; changes are only visible after Save.
type WorkspaceRepository interface {
	Save(ctx context.Context, ws *store.Workspace) error
	Get(ctx context.Context, id string) (*store.Workspace, error)
	Delete(ctx context.Context, id string) error
}

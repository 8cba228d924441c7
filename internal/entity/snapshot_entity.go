package entity

import (
	"time"

	"td-generator-be/pkg/selection"

	"github.com/google/uuid"
)

// Snapshot is a named copy of a workspace's saved selections.
type Snapshot struct {
	Id          uuid.UUID
	Name        string
	WorkspaceId string
	Selections  []selection.Selection
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}

package dto

import (
	"time"

	"td-generator-be/pkg/selection"

	"github.com/google/uuid"
)

type CreateSnapshotRequest struct {
	WorkspaceId string `json:"workspace_id" validate:"required,uuid"`
	Name        string `json:"name" validate:"required,max=255"`
}

type RestoreSnapshotRequest struct {
	WorkspaceId string `json:"workspace_id" validate:"required,uuid"`
}

type SnapshotListQuery struct {
	WorkspaceId string `query:"workspace_id"`
	Q           string `query:"q"`
	Limit       int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset      int    `query:"offset" validate:"omitempty,min=0"`
}

type SnapshotListResponse struct {
	Items []*SnapshotResponse `json:"items"`
	Total int64               `json:"total"`
}

type SnapshotResponse struct {
	Id             uuid.UUID             `json:"id"`
	Name           string                `json:"name"`
	WorkspaceId    string                `json:"workspace_id"`
	SelectionCount int                   `json:"selection_count"`
	Selections     []selection.Selection `json:"selections,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      *time.Time            `json:"updated_at"`
}

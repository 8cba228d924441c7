package contract

import (
	"context"

	"td-generator-be/internal/entity"
	"td-generator-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SnapshotRepository interface {
	Create(ctx context.Context, snapshot *entity.Snapshot) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Snapshot, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Snapshot, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

package unitofwork

import (
	"context"

	"td-generator-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	SnapshotRepository() contract.SnapshotRepository
}

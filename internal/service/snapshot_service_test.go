package service

import (
	"context"
	"testing"

	"td-generator-be/internal/dto"
	"td-generator-be/internal/entity"
	"td-generator-be/internal/pkg/apperror"
	"td-generator-be/internal/pkg/logger"
	"td-generator-be/internal/repository/contract"
	"td-generator-be/internal/repository/specification"
	"td-generator-be/internal/repository/unitofwork"
	"td-generator-be/pkg/selection"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySnapshots struct {
	items []*entity.Snapshot
}

func (m *memorySnapshots) matches(s *entity.Snapshot, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch v := spec.(type) {
		case specification.ByID:
			if s.Id != v.ID {
				return false
			}
		case specification.ByWorkspace:
			if s.WorkspaceId != v.WorkspaceID {
				return false
			}
		}
	}
	return true
}

func (m *memorySnapshots) Create(ctx context.Context, snapshot *entity.Snapshot) error {
	cp := *snapshot
	m.items = append(m.items, &cp)
	return nil
}

func (m *memorySnapshots) Delete(ctx context.Context, id uuid.UUID) error {
	for i, s := range m.items {
		if s.Id == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memorySnapshots) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Snapshot, error) {
	for _, s := range m.items {
		if m.matches(s, specs) {
			return s, nil
		}
	}
	return nil, nil
}

func (m *memorySnapshots) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Snapshot, error) {
	var out []*entity.Snapshot
	for _, s := range m.items {
		if m.matches(s, specs) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memorySnapshots) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := m.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

type memoryUnitOfWork struct {
	repo *memorySnapshots

	begun, committed, rolledBack int
}

func (u *memoryUnitOfWork) Begin(ctx context.Context) error { u.begun++; return nil }
func (u *memoryUnitOfWork) Commit() error                   { u.committed++; return nil }
func (u *memoryUnitOfWork) Rollback() error                 { u.rolledBack++; return nil }
func (u *memoryUnitOfWork) SnapshotRepository() contract.SnapshotRepository {
	return u.repo
}

type memoryFactory struct {
	repo *memorySnapshots
	last *memoryUnitOfWork
}

func (f *memoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	f.last = &memoryUnitOfWork{repo: f.repo}
	return f.last
}

func TestSnapshotSaveListRestoreDelete(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	factory := &memoryFactory{repo: &memorySnapshots{}}
	svc := NewSnapshotService(factory, h.access, logger.NewNopLogger())

	id := h.create(t)
	h.draft(t, id, "n1", "blind", "properties", []string{"a"}, 0, 1, selection.LocationSet{Location: "room1", NumFiles: 1})
	h.draft(t, id, "n2", "lamp", "properties", []string{"on"}, 1, 1, selection.LocationSet{Location: "hall", NumFiles: 3})

	snap, err := svc.Save(ctx, &dto.CreateSnapshotRequest{WorkspaceId: id, Name: "two rows"})
	require.NoError(t, err)
	assert.Equal(t, 2, snap.SelectionCount)

	list, err := svc.List(ctx, &dto.SnapshotListQuery{WorkspaceId: id})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.EqualValues(t, 1, list.Total)
	assert.Equal(t, "two rows", list.Items[0].Name)
	assert.Empty(t, list.Items[0].Selections)

	shown, err := svc.Show(ctx, snap.Id)
	require.NoError(t, err)
	assert.Len(t, shown.Selections, 2)

	_, err = h.workbench.DeleteGroup(ctx, id, selection.GroupKey{Node: "n1", Scheme: "blind"})
	require.NoError(t, err)

	other := h.create(t)
	ws, err := svc.Restore(ctx, snap.Id, &dto.RestoreSnapshotRequest{WorkspaceId: other})
	require.NoError(t, err)
	assert.Len(t, ws.Selections, 2)
	assert.Len(t, ws.Groups, 2)

	require.NoError(t, svc.Delete(ctx, snap.Id))
	assert.Equal(t, 1, factory.last.committed)

	err = svc.Delete(ctx, snap.Id)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	assert.Equal(t, 1, factory.last.rolledBack)
	assert.Zero(t, factory.last.committed)
}

func TestSnapshotsDisabledWithoutDatabase(t *testing.T) {
	h := newHarness(t)
	svc := NewSnapshotService(nil, h.access, logger.NewNopLogger())

	_, err := svc.List(context.Background(), &dto.SnapshotListQuery{})
	assert.Equal(t, apperror.KindUnavailable, apperror.KindOf(err))

	_, err = svc.Restore(context.Background(), uuid.New(), &dto.RestoreSnapshotRequest{WorkspaceId: h.create(t)})
	assert.Equal(t, apperror.KindUnavailable, apperror.KindOf(err))
}

package service

import (
	"context"
	"time"

	"td-generator-be/internal/dto"
	"td-generator-be/internal/entity"
	"td-generator-be/internal/pkg/apperror"
	"td-generator-be/internal/pkg/logger"
	"td-generator-be/internal/repository/specification"
	"td-generator-be/internal/repository/unitofwork"
	"td-generator-be/pkg/selection"
	"td-generator-be/pkg/store"

	"github.com/google/uuid"
)

type ISnapshotService interface {
	Save(ctx context.Context, req *dto.CreateSnapshotRequest) (*dto.SnapshotResponse, error)
	List(ctx context.Context, query *dto.SnapshotListQuery) (*dto.SnapshotListResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.SnapshotResponse, error)
	Restore(ctx context.Context, id uuid.UUID, req *dto.RestoreSnapshotRequest) (*dto.WorkspaceResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type snapshotService struct {
	uowFactory unitofwork.RepositoryFactory
	access     *WorkspaceAccess
	logger     logger.ILogger
}

// NewSnapshotService returns a service that answers Unavailable to every call
// when uowFactory is nil (no database configured).
func NewSnapshotService(uowFactory unitofwork.RepositoryFactory, access *WorkspaceAccess, logger logger.ILogger) ISnapshotService {
	return &snapshotService{
		uowFactory: uowFactory,
		access:     access,
		logger:     logger,
	}
}

func (s *snapshotService) enabled() error {
	if s.uowFactory == nil {
		return apperror.Unavailable("snapshots are disabled: no database configured")
	}
	return nil
}

func (s *snapshotService) Save(ctx context.Context, req *dto.CreateSnapshotRequest) (*dto.SnapshotResponse, error) {
	if err := s.enabled(); err != nil {
		return nil, err
	}

	ws, err := s.access.load(ctx, req.WorkspaceId)
	if err != nil {
		return nil, err
	}

	snapshot := entity.Snapshot{
		Id:          uuid.New(),
		Name:        req.Name,
		WorkspaceId: ws.ID,
		Selections:  ws.Selections.List(),
		CreatedAt:   time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.SnapshotRepository().Create(ctx, &snapshot); err != nil {
		s.logger.Error("SnapshotService", "Failed to create snapshot", map[string]interface{}{"workspace_id": ws.ID, "error": err})
		return nil, err
	}

	s.logger.Info("SnapshotService", "Snapshot saved", map[string]interface{}{"snapshot_id": snapshot.Id, "workspace_id": ws.ID, "selections": len(snapshot.Selections)})
	return toSnapshotResponse(&snapshot, false), nil
}

func (s *snapshotService) List(ctx context.Context, query *dto.SnapshotListQuery) (*dto.SnapshotListResponse, error) {
	if err := s.enabled(); err != nil {
		return nil, err
	}

	filters := []specification.Specification{
		specification.NameLike{Query: query.Q},
	}
	if query.WorkspaceId != "" {
		filters = append(filters, specification.ByWorkspace{WorkspaceID: query.WorkspaceId})
	}

	specs := append([]specification.Specification{}, filters...)
	specs = append(specs, specification.OrderBy{Field: "created_at", Desc: true})
	if query.Limit > 0 {
		specs = append(specs, specification.Pagination{Limit: query.Limit, Offset: query.Offset})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	total, err := uow.SnapshotRepository().Count(ctx, filters...)
	if err != nil {
		return nil, err
	}
	snapshots, err := uow.SnapshotRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.SnapshotResponse, 0, len(snapshots))
	for _, snap := range snapshots {
		items = append(items, toSnapshotResponse(snap, false))
	}
	return &dto.SnapshotListResponse{Items: items, Total: total}, nil
}

func (s *snapshotService) Show(ctx context.Context, id uuid.UUID) (*dto.SnapshotResponse, error) {
	snapshot, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSnapshotResponse(snapshot, true), nil
}

// Restore replaces the saved selections of the workspace with the snapshot's.
// Entries that no longer validate are skipped.
func (s *snapshotService) Restore(ctx context.Context, id uuid.UUID, req *dto.RestoreSnapshotRequest) (*dto.WorkspaceResponse, error) {
	snapshot, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	ws, err := s.access.mutate(ctx, req.WorkspaceId, func(ws *store.Workspace) error {
		var restored selection.Store
		for _, sel := range snapshot.Selections {
			if _, err := restored.Save(sel); err != nil {
				s.logger.Warn("SnapshotService", "Skipping invalid selection in snapshot", map[string]interface{}{"snapshot_id": id, "error": err})
			}
		}
		ws.Selections = restored
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("SnapshotService", "Snapshot restored", map[string]interface{}{"snapshot_id": id, "workspace_id": ws.ID})
	return toWorkspaceResponse(ws), nil
}

func (s *snapshotService) Delete(ctx context.Context, id uuid.UUID) (err error) {
	if err := s.enabled(); err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		if err != nil {
			uow.Rollback()
		}
	}()

	snapshot, err := uow.SnapshotRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if snapshot == nil {
		return apperror.NotFound("snapshot not found")
	}
	if err = uow.SnapshotRepository().Delete(ctx, id); err != nil {
		return err
	}
	if err = uow.Commit(); err != nil {
		return err
	}

	s.logger.Info("SnapshotService", "Snapshot deleted", map[string]interface{}{"snapshot_id": id})
	return nil
}

func (s *snapshotService) find(ctx context.Context, id uuid.UUID) (*entity.Snapshot, error) {
	if err := s.enabled(); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	snapshot, err := uow.SnapshotRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, apperror.NotFound("snapshot not found")
	}
	return snapshot, nil
}

func toSnapshotResponse(snapshot *entity.Snapshot, withSelections bool) *dto.SnapshotResponse {
	res := &dto.SnapshotResponse{
		Id:             snapshot.Id,
		Name:           snapshot.Name,
		WorkspaceId:    snapshot.WorkspaceId,
		SelectionCount: len(snapshot.Selections),
		CreatedAt:      snapshot.CreatedAt,
		UpdatedAt:      snapshot.UpdatedAt,
	}
	if withSelections {
		res.Selections = snapshot.Selections
	}
	return res
}

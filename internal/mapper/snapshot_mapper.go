package mapper

import (
	"time"

	"td-generator-be/internal/entity"
	"td-generator-be/internal/model"
	"td-generator-be/pkg/selection"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SnapshotMapper struct{}

func NewSnapshotMapper() *SnapshotMapper {
	return &SnapshotMapper{}
}

func (m *SnapshotMapper) ToEntity(s *model.Snapshot) *entity.Snapshot {
	if s == nil {
		return nil
	}

	var deletedAt *time.Time
	if s.DeletedAt.Valid {
		t := s.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	selections := s.Selections.Data()
	if selections == nil {
		selections = []selection.Selection{}
	}

	return &entity.Snapshot{
		Id:          s.Id,
		Name:        s.Name,
		WorkspaceId: s.WorkspaceId,
		Selections:  selections,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
		IsDeleted:   s.DeletedAt.Valid,
	}
}

func (m *SnapshotMapper) ToModel(s *entity.Snapshot) *model.Snapshot {
	if s == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if s.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
	} else if s.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	selections := s.Selections
	if selections == nil {
		selections = []selection.Selection{}
	}

	return &model.Snapshot{
		Id:          s.Id,
		Name:        s.Name,
		WorkspaceId: s.WorkspaceId,
		Selections:  datatypes.NewJSONType(selections),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
	}
}

func (m *SnapshotMapper) ToEntities(snapshots []*model.Snapshot) []*entity.Snapshot {
	entities := make([]*entity.Snapshot, len(snapshots))
	for i, s := range snapshots {
		entities[i] = m.ToEntity(s)
	}
	return entities
}

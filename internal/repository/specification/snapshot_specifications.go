package specification

import "gorm.io/gorm"

// ByWorkspace filters snapshots taken from one workspace.
type ByWorkspace struct {
	WorkspaceID string
}

func (s ByWorkspace) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("workspace_id = ?", s.WorkspaceID)
}

// NameLike matches snapshot names case-insensitively.
type NameLike struct {
	Query string
}

func (s NameLike) Apply(db *gorm.DB) *gorm.DB {
	if s.Query == "" {
		return db
	}
	return db.Where("name ILIKE ?", "%"+s.Query+"%")
}

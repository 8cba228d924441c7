package model

import (
	"time"

	"td-generator-be/pkg/selection"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Snapshot struct {
	Id          uuid.UUID                                  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string                                     `gorm:"type:varchar(255);not null"`
	WorkspaceId string                                     `gorm:"type:varchar(64);index"`
	Selections  datatypes.JSONType[[]selection.Selection] `gorm:"type:jsonb;not null"`
	CreatedAt   time.Time                                  `gorm:"autoCreateTime"`
	UpdatedAt   time.Time                                  `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt                             `gorm:"index"`
}

func (Snapshot) TableName() string {
	return "selection_snapshots"
}

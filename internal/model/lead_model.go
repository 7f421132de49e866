package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Lead struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Email     string         `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name      *string        `gorm:"type:varchar(255)"`
	Services  datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (Lead) TableName() string {
	return "leads"
}

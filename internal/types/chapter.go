package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Chapter struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ModuleID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"module_id"`
	SessionID    uuid.UUID      `gorm:"type:uuid;index" json:"session_id"`
	InstituteID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"institute_id"`
	Name         string         `gorm:"column:name;not null" json:"name"`
	Description  string         `gorm:"column:description" json:"description"`
	ChapterOrder int            `gorm:"column:chapter_order;not null" json:"chapter_order"`
	Status       Status         `gorm:"column:status;not null;default:DRAFT" json:"status"`
	// OrderVersion increases monotonically with every applied reorder.
	// Reorder submissions carrying a stale version are rejected.
	OrderVersion int64          `gorm:"column:order_version;not null;default:0" json:"order_version"`
	Slides       []*Slide       `gorm:"foreignKey:ChapterID;references:ID" json:"slides,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Chapter) TableName() string { return "chapter" }

package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EntityType discriminates the polymorphic community content returned by
// filtered search.
type EntityType string

const (
	EntityQuestion      EntityType = "QUESTION"
	EntityQuestionPaper EntityType = "QUESTION_PAPER"
)

type Entity struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	InstituteID uuid.UUID      `gorm:"type:uuid;not null;index" json:"institute_id"`
	EntityType  EntityType     `gorm:"column:entity_type;not null;index" json:"entityType"`
	Name        string         `gorm:"column:name;not null" json:"name"`
	EntityData  datatypes.JSON `gorm:"column:entity_data;type:jsonb" json:"entityData"`
	Tags        []*EntityTag   `gorm:"foreignKey:EntityID;references:ID" json:"tags,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Entity) TableName() string { return "entity" }

type EntityTag struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EntityID  uuid.UUID `gorm:"type:uuid;not null;index" json:"entity_id"`
	TagID     string    `gorm:"column:tag_id;not null;index" json:"tagId"`
	TagSource TagSource `gorm:"column:tag_source;not null" json:"tagSource"`
}

func (EntityTag) TableName() string { return "entity_tag" }

// PageResponse is the paginated envelope for filtered search results.
type PageResponse struct {
	Content       []*Entity `json:"content"`
	PageNo        int       `json:"page_no"`
	PageSize      int       `json:"page_size"`
	TotalElements int64     `json:"total_elements"`
	TotalPages    int       `json:"total_pages"`
	Last          bool      `json:"last"`
}

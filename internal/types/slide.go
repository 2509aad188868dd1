package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SourceType discriminates the four slide kinds. Exactly one of the
// payload columns is populated, consistent with this value.
type SourceType string

const (
	SourceDocument   SourceType = "DOCUMENT"
	SourceVideo      SourceType = "VIDEO"
	SourceQuestion   SourceType = "QUESTION"
	SourceAssignment SourceType = "ASSIGNMENT"
)

// Status is the publish-lifecycle state of a slide. DELETED is terminal.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusUnsync    Status = "UNSYNC"
	StatusPublished Status = "PUBLISHED"
	StatusDeleted   Status = "DELETED"
)

type Slide struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ChapterID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"chapter_id"`
	Chapter     *Chapter       `gorm:"constraint:OnDelete:CASCADE;foreignKey:ChapterID;references:ID" json:"chapter,omitempty"`
	InstituteID uuid.UUID      `gorm:"type:uuid;not null;index" json:"institute_id"`
	SourceType  SourceType     `gorm:"column:source_type;not null" json:"source_type"`
	Status      Status         `gorm:"column:status;not null;default:DRAFT" json:"status"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Description string         `gorm:"column:description" json:"description"`
	SlideOrder  int            `gorm:"column:slide_order;not null" json:"slide_order"`
	Document    datatypes.JSON `gorm:"column:document_data;type:jsonb" json:"document_slide,omitempty"`
	Video       datatypes.JSON `gorm:"column:video_data;type:jsonb" json:"video_slide,omitempty"`
	Question    datatypes.JSON `gorm:"column:question_data;type:jsonb" json:"question_slide,omitempty"`
	Assignment  datatypes.JSON `gorm:"column:assignment_data;type:jsonb" json:"assignment_slide,omitempty"`
	IsNew       bool           `gorm:"-" json:"is_new,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Slide) TableName() string { return "slide" }

// SlideOrderEntry is one element of the full "set order" payload. The
// client always submits the complete ordering for a chapter, 1-based.
type SlideOrderEntry struct {
	SlideID    uuid.UUID `json:"slide_id"`
	SlideOrder int       `json:"slide_order"`
}

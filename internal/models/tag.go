package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Tag struct {
	ID          string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	QuestionCount int64 `gorm:"-" json:"question_count"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// QuestionTag links questions and tags; the composite key keeps each pair unique
type QuestionTag struct {
	QuestionID string    `gorm:"type:varchar(64);primaryKey" json:"question_id"`
	TagID      string    `gorm:"type:varchar(64);primaryKey;index" json:"tag_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type TagCreate struct {
	Name        string `json:"name" binding:"required,min=1,max=50"`
	Description string `json:"description"`
}

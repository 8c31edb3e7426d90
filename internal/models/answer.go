package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Answer struct {
	ID         string `gorm:"type:varchar(64);primaryKey" json:"id"`
	Body       string `gorm:"type:text;not null" json:"body"`
	UserID     string `gorm:"type:varchar(64);not null;index" json:"user_id"`
	QuestionID string `gorm:"type:varchar(64);not null;index" json:"question_id"`
	IsAccepted bool   `gorm:"not null;default:false" json:"is_accepted"`
	VoteScore  int    `gorm:"not null;default:0" json:"votes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Author *UserSummary `gorm:"-" json:"author,omitempty"`
}

func (a *Answer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

type AnswerCreate struct {
	Body       string `json:"body" binding:"required,min=1"`
	QuestionID string `json:"question_id" binding:"required"`
}

type AnswerUpdate struct {
	Body *string `json:"body" binding:"omitempty,min=1"`
}

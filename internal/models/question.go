package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxTagsPerQuestion caps how many tags a question may carry
const MaxTagsPerQuestion = 5

type Question struct {
	ID               string  `gorm:"type:varchar(64);primaryKey" json:"id"`
	Title            string  `gorm:"type:varchar(300);not null" json:"title"`
	Body             string  `gorm:"type:text;not null" json:"body"`
	UserID           string  `gorm:"type:varchar(64);not null;index" json:"user_id"`
	Views            int     `gorm:"not null;default:0" json:"views"`
	VoteScore        int     `gorm:"not null;default:0" json:"votes"`
	IsSolved         bool    `gorm:"not null;default:false;index" json:"is_solved"`
	AcceptedAnswerID *string `gorm:"type:varchar(64)" json:"accepted_answer_id"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Populated by the service layer, never persisted
	Author      *UserSummary `gorm:"-" json:"author,omitempty"`
	Tags        []Tag        `gorm:"-" json:"tags"`
	AnswerCount int64        `gorm:"-" json:"answer_count"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

// QuestionWithAnswers is returned when a single question is viewed
type QuestionWithAnswers struct {
	Question
	Answers []Answer `json:"answers"`
}

type QuestionCreate struct {
	Title string   `json:"title" binding:"required,min=5,max=300"`
	Body  string   `json:"body" binding:"required,min=10"`
	Tags  []string `json:"tags" binding:"max=5"`
}

// QuestionUpdate is a partial patch; nil fields are left untouched
type QuestionUpdate struct {
	Title *string   `json:"title" binding:"omitempty,min=5,max=300"`
	Body  *string   `json:"body" binding:"omitempty,min=10"`
	Tags  *[]string `json:"tags"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	Upvote   = 1
	Downvote = -1
)

// Vote model - one live vote per user per question or answer
type Vote struct {
	ID         string  `gorm:"type:varchar(64);primaryKey" json:"id"`
	UserID     string  `gorm:"type:varchar(64);not null;uniqueIndex:idx_votes_user_question;uniqueIndex:idx_votes_user_answer" json:"user_id"`
	QuestionID *string `gorm:"type:varchar(64);uniqueIndex:idx_votes_user_question" json:"question_id,omitempty"` // set for question votes
	AnswerID   *string `gorm:"type:varchar(64);uniqueIndex:idx_votes_user_answer" json:"answer_id,omitempty"`     // set for answer votes
	VoteType   int     `gorm:"not null" json:"vote_type"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

type VoteCreate struct {
	QuestionID *string `json:"question_id"`
	AnswerID   *string `json:"answer_id"`
	VoteType   int     `json:"vote_type" binding:"required,oneof=-1 1"`
}

type VoteResponse struct {
	Message   string `json:"message"`
	VoteState string `json:"vote_state"`
	Score     int    `json:"score"`
}

type VoteSummary struct {
	TargetID   string `json:"target_id"`
	TargetType string `json:"target_type"`
	Upvotes    int64  `json:"upvotes"`
	Downvotes  int64  `json:"downvotes"`
	Score      int64  `json:"score"`
}

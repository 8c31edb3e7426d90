package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID         string `gorm:"type:varchar(64);primaryKey" json:"id"`
	Username   string `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email      string `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Bio        string `json:"bio"`
	Reputation int    `gorm:"not null;default:0" json:"reputation"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID unless the caller chose an ID (e.g. the seeded placeholder user)
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// UserSummary is the author block embedded in question and answer responses
type UserSummary struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Reputation int    `json:"reputation"`
}

func (u User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Username: u.Username, Reputation: u.Reputation}
}

type UserCreate struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email,max=100"`
	Bio      string `json:"bio"`
}

type UserUpdate struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=50"`
	Email    *string `json:"email" binding:"omitempty,email,max=100"`
	Bio      *string `json:"bio"`
}

type UserStats struct {
	QuestionCount int64 `json:"question_count"`
	AnswerCount   int64 `json:"answer_count"`
	Reputation    int   `json:"reputation"`
}

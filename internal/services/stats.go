package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/emilythestrangee/stackit/backend/internal/models"
)

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// Platform counts every entity type; nothing is cached
func (s *StatsService) Platform(ctx context.Context) (*models.PlatformStats, error) {
	db := s.db.WithContext(ctx)

	var stats models.PlatformStats
	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.User{}, &stats.TotalUsers},
		{&models.Question{}, &stats.TotalQuestions},
		{&models.Answer{}, &stats.TotalAnswers},
		{&models.Vote{}, &stats.TotalVotes},
		{&models.Tag{}, &stats.TotalTags},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, storeErr("count rows", err)
		}
	}

	if err := db.Model(&models.Question{}).Where("is_solved = ?", true).Count(&stats.SolvedQuestions).Error; err != nil {
		return nil, storeErr("count solved questions", err)
	}
	return &stats, nil
}

package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/emilythestrangee/stackit/backend/internal/database"
	"github.com/emilythestrangee/stackit/backend/internal/models"
)

type UserService struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

func NewUserService(db *gorm.DB, log logrus.FieldLogger) *UserService {
	return &UserService{db: db, log: log}
}

// Create registers a new user; duplicate usernames or emails yield ErrConflict
func (s *UserService) Create(ctx context.Context, in models.UserCreate) (*models.User, error) {
	user := models.User{
		Username: in.Username,
		Email:    in.Email,
		Bio:      in.Bio,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, storeErr("create user", err)
	}
	return &user, nil
}

// EnsureUser creates the user with the given ID if it does not exist yet
func (s *UserService) EnsureUser(ctx context.Context, id, username, email string) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	user = &models.User{ID: id, Username: username, Email: email}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, storeErr("seed user", err)
	}
	s.log.WithField("user_id", id).Info("Seeded placeholder user")
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, storeErr("get user", err)
	}
	return &user, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, storeErr("get user by username", err)
	}
	return &user, nil
}

func (s *UserService) List(ctx context.Context, skip, limit int) ([]models.User, error) {
	users := []models.User{}
	err := s.db.WithContext(ctx).
		Order("created_at asc").
		Offset(skip).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, storeErr("list users", err)
	}
	return users, nil
}

// Update applies a partial patch. Users may only edit themselves.
func (s *UserService) Update(ctx context.Context, id string, in models.UserUpdate, callerID string) (*models.User, error) {
	var user models.User
	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			return storeErr("get user", err)
		}
		if user.ID != callerID {
			return ErrUnauthorized
		}

		updates := map[string]interface{}{}
		if in.Username != nil {
			updates["username"] = *in.Username
		}
		if in.Email != nil {
			updates["email"] = *in.Email
		}
		if in.Bio != nil {
			updates["bio"] = *in.Bio
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			return storeErr("update user", err)
		}
		return storeErr("reload user", tx.First(&user, "id = ?", id).Error)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes the caller's own account
func (s *UserService) Delete(ctx context.Context, id, callerID string) error {
	return database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			return storeErr("get user", err)
		}
		if user.ID != callerID {
			return ErrUnauthorized
		}

		// The user's votes go with them; their content stays
		var votes []models.Vote
		if err := tx.Where("user_id = ?", id).Find(&votes).Error; err != nil {
			return storeErr("load user votes", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return storeErr("delete user votes", err)
		}
		for _, target := range votedTargets(votes) {
			if _, err := recomputeScore(tx, target); err != nil {
				return err
			}
		}
		if err := tx.Delete(&user).Error; err != nil {
			return storeErr("delete user", err)
		}
		return nil
	})
}

func (s *UserService) Stats(ctx context.Context, id string) (*models.UserStats, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	stats := models.UserStats{Reputation: user.Reputation}
	db := s.db.WithContext(ctx)
	if err := db.Model(&models.Question{}).Where("user_id = ?", id).Count(&stats.QuestionCount).Error; err != nil {
		return nil, storeErr("count user questions", err)
	}
	if err := db.Model(&models.Answer{}).Where("user_id = ?", id).Count(&stats.AnswerCount).Error; err != nil {
		return nil, storeErr("count user answers", err)
	}
	return &stats, nil
}

// AdjustReputation adds points (possibly negative) to a user's reputation.
// It runs on tx so vote transitions and reputation commit together.
func AdjustReputation(tx *gorm.DB, userID string, points int) error {
	if points == 0 {
		return nil
	}
	res := tx.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("reputation", gorm.Expr("reputation + ?", points))
	if res.Error != nil {
		return storeErr("adjust reputation", res.Error)
	}
	return nil
}

// userSummaries loads author blocks for the given user IDs
func userSummaries(tx *gorm.DB, ids []string) (map[string]*models.UserSummary, error) {
	out := make(map[string]*models.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var users []models.User
	if err := tx.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, storeErr("load authors", err)
	}
	for _, u := range users {
		out[u.ID] = u.Summary()
	}
	return out, nil
}

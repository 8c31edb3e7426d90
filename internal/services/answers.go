package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/emilythestrangee/stackit/backend/internal/database"
	"github.com/emilythestrangee/stackit/backend/internal/models"
)

type AnswerService struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

func NewAnswerService(db *gorm.DB, log logrus.FieldLogger) *AnswerService {
	return &AnswerService{db: db, log: log}
}

func (s *AnswerService) Create(ctx context.Context, in models.AnswerCreate, ownerID string) (*models.Answer, error) {
	answer := models.Answer{
		Body:       in.Body,
		QuestionID: in.QuestionID,
		UserID:     ownerID,
	}

	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := ensureUserExists(tx, ownerID); err != nil {
			return err
		}

		var question models.Question
		if err := tx.First(&question, "id = ?", in.QuestionID).Error; err != nil {
			return storeErr("get question", err)
		}

		if err := tx.Create(&answer).Error; err != nil {
			return storeErr("create answer", err)
		}
		return decorateAnswers(tx, []*models.Answer{&answer})
	})
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

func (s *AnswerService) Get(ctx context.Context, id string) (*models.Answer, error) {
	db := s.db.WithContext(ctx)

	var answer models.Answer
	if err := db.First(&answer, "id = ?", id).Error; err != nil {
		return nil, storeErr("get answer", err)
	}
	if err := decorateAnswers(db, []*models.Answer{&answer}); err != nil {
		return nil, err
	}
	return &answer, nil
}

// Update edits the answer body when callerID wrote the answer
func (s *AnswerService) Update(ctx context.Context, id string, in models.AnswerUpdate, callerID string) (*models.Answer, error) {
	var answer models.Answer
	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := loadOwnedAnswer(tx, &answer, id, callerID); err != nil {
			return err
		}

		if in.Body != nil {
			if err := tx.Model(&answer).Update("body", *in.Body).Error; err != nil {
				return storeErr("update answer", err)
			}
		}

		if err := tx.First(&answer, "id = ?", id).Error; err != nil {
			return storeErr("reload answer", err)
		}
		return decorateAnswers(tx, []*models.Answer{&answer})
	})
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

// Delete removes the answer and its votes. If it was the accepted answer the
// question's accepted reference is cleared.
func (s *AnswerService) Delete(ctx context.Context, id, callerID string) error {
	return database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		var answer models.Answer
		if err := loadOwnedAnswer(tx, &answer, id, callerID); err != nil {
			return err
		}

		err := tx.Model(&models.Question{}).
			Where("id = ? AND accepted_answer_id = ?", answer.QuestionID, id).
			Update("accepted_answer_id", nil).Error
		if err != nil {
			return storeErr("clear accepted answer", err)
		}
		if err := tx.Where("answer_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return storeErr("delete answer votes", err)
		}
		if err := tx.Delete(&answer).Error; err != nil {
			return storeErr("delete answer", err)
		}
		return nil
	})
}

// ListByQuestion returns the question's answers, accepted first
func (s *AnswerService) ListByQuestion(ctx context.Context, questionID string) ([]models.Answer, error) {
	return answersForQuestion(s.db.WithContext(ctx), questionID)
}

func (s *AnswerService) ListByUser(ctx context.Context, userID string, skip, limit int) ([]models.Answer, error) {
	db := s.db.WithContext(ctx)

	answers := []models.Answer{}
	err := db.Where("user_id = ?", userID).
		Order("created_at desc").
		Offset(skip).
		Limit(limit).
		Find(&answers).Error
	if err != nil {
		return nil, storeErr("list user answers", err)
	}
	if err := decorateAnswerSlice(db, answers); err != nil {
		return nil, err
	}
	return answers, nil
}

// Accept marks the answer as the accepted one for its question. Only the
// question owner may accept; any previously accepted answer is cleared.
func (s *AnswerService) Accept(ctx context.Context, answerID, callerID string) error {
	return database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		var answer models.Answer
		if err := tx.First(&answer, "id = ?", answerID).Error; err != nil {
			return storeErr("get answer", err)
		}

		var question models.Question
		if err := loadOwned(tx, &question, answer.QuestionID, callerID); err != nil {
			return err
		}

		err := tx.Model(&models.Answer{}).
			Where("question_id = ? AND id <> ? AND is_accepted = ?", question.ID, answerID, true).
			Update("is_accepted", false).Error
		if err != nil {
			return storeErr("clear accepted answers", err)
		}
		if err := tx.Model(&answer).Update("is_accepted", true).Error; err != nil {
			return storeErr("accept answer", err)
		}

		err = tx.Model(&question).Updates(map[string]interface{}{
			"accepted_answer_id": answerID,
			"is_solved":          true,
		}).Error
		if err != nil {
			return storeErr("set accepted answer", err)
		}

		s.log.WithFields(logrus.Fields{
			"question_id": question.ID,
			"answer_id":   answerID,
		}).Info("Answer accepted")
		return nil
	})
}

func loadOwnedAnswer(tx *gorm.DB, answer *models.Answer, id, callerID string) error {
	if err := tx.First(answer, "id = ?", id).Error; err != nil {
		return storeErr("get answer", err)
	}
	if answer.UserID != callerID {
		return ErrUnauthorized
	}
	return nil
}

func answersForQuestion(tx *gorm.DB, questionID string) ([]models.Answer, error) {
	answers := []models.Answer{}
	err := tx.Where("question_id = ?", questionID).
		Order("is_accepted desc, vote_score desc, created_at asc").
		Find(&answers).Error
	if err != nil {
		return nil, storeErr("list answers", err)
	}
	if err := decorateAnswerSlice(tx, answers); err != nil {
		return nil, err
	}
	return answers, nil
}

func decorateAnswerSlice(tx *gorm.DB, answers []models.Answer) error {
	ptrs := make([]*models.Answer, len(answers))
	for i := range answers {
		ptrs[i] = &answers[i]
	}
	return decorateAnswers(tx, ptrs)
}

func decorateAnswers(tx *gorm.DB, answers []*models.Answer) error {
	userIDs := make([]string, 0, len(answers))
	for _, a := range answers {
		userIDs = append(userIDs, a.UserID)
	}
	authors, err := userSummaries(tx, userIDs)
	if err != nil {
		return err
	}
	for _, a := range answers {
		a.Author = authors[a.UserID]
	}
	return nil
}

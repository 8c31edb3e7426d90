package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/emilythestrangee/stackit/backend/internal/database"
	"github.com/emilythestrangee/stackit/backend/internal/models"
)

type QuestionService struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

func NewQuestionService(db *gorm.DB, log logrus.FieldLogger) *QuestionService {
	return &QuestionService{db: db, log: log}
}

// Create stores a question owned by ownerID together with its tags
func (s *QuestionService) Create(ctx context.Context, in models.QuestionCreate, ownerID string) (*models.Question, error) {
	question := models.Question{
		Title:  in.Title,
		Body:   in.Body,
		UserID: ownerID,
	}

	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := ensureUserExists(tx, ownerID); err != nil {
			return err
		}
		if err := tx.Create(&question).Error; err != nil {
			return storeErr("create question", err)
		}
		if err := setQuestionTags(tx, question.ID, in.Tags); err != nil {
			return err
		}
		return decorateQuestion(tx, &question)
	})
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// Get returns a question without touching its view counter
func (s *QuestionService) Get(ctx context.Context, id string) (*models.Question, error) {
	db := s.db.WithContext(ctx)

	var question models.Question
	if err := db.First(&question, "id = ?", id).Error; err != nil {
		return nil, storeErr("get question", err)
	}
	if err := decorateQuestion(db, &question); err != nil {
		return nil, err
	}
	return &question, nil
}

// View counts one view and returns the question with its answers.
// Every successful call increments the counter.
func (s *QuestionService) View(ctx context.Context, id string) (*models.QuestionWithAnswers, error) {
	var out models.QuestionWithAnswers
	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		res := tx.Model(&models.Question{}).
			Where("id = ?", id).
			UpdateColumn("views", gorm.Expr("views + ?", 1))
		if res.Error != nil {
			return storeErr("increment views", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		if err := tx.First(&out.Question, "id = ?", id).Error; err != nil {
			return storeErr("get question", err)
		}
		if err := decorateQuestion(tx, &out.Question); err != nil {
			return err
		}

		answers, err := answersForQuestion(tx, id)
		if err != nil {
			return err
		}
		out.Answers = answers
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Update applies a partial patch when callerID owns the question
func (s *QuestionService) Update(ctx context.Context, id string, in models.QuestionUpdate, callerID string) (*models.Question, error) {
	var question models.Question
	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := loadOwned(tx, &question, id, callerID); err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if in.Title != nil {
			updates["title"] = *in.Title
		}
		if in.Body != nil {
			updates["body"] = *in.Body
		}
		if len(updates) > 0 {
			if err := tx.Model(&question).Updates(updates).Error; err != nil {
				return storeErr("update question", err)
			}
		}
		if in.Tags != nil {
			if err := setQuestionTags(tx, id, *in.Tags); err != nil {
				return err
			}
		}

		if err := tx.First(&question, "id = ?", id).Error; err != nil {
			return storeErr("reload question", err)
		}
		return decorateQuestion(tx, &question)
	})
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// Delete removes the question with its answers, votes and tag links
func (s *QuestionService) Delete(ctx context.Context, id, callerID string) error {
	return database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		var question models.Question
		if err := loadOwned(tx, &question, id, callerID); err != nil {
			return err
		}

		answerIDs := tx.Model(&models.Answer{}).Select("id").Where("question_id = ?", id)
		if err := tx.Where("question_id = ? OR answer_id IN (?)", id, answerIDs).Delete(&models.Vote{}).Error; err != nil {
			return storeErr("delete question votes", err)
		}
		if err := tx.Where("question_id = ?", id).Delete(&models.Answer{}).Error; err != nil {
			return storeErr("delete question answers", err)
		}
		if err := tx.Where("question_id = ?", id).Delete(&models.QuestionTag{}).Error; err != nil {
			return storeErr("delete question tags", err)
		}
		if err := tx.Delete(&question).Error; err != nil {
			return storeErr("delete question", err)
		}
		return nil
	})
}

// ListRecent returns questions newest first
func (s *QuestionService) ListRecent(ctx context.Context, skip, limit int) ([]models.Question, error) {
	return s.list(ctx, s.db.WithContext(ctx), skip, limit)
}

// ListByUser returns questions owned by userID, newest first
func (s *QuestionService) ListByUser(ctx context.Context, userID string, skip, limit int) ([]models.Question, error) {
	return s.list(ctx, s.db.WithContext(ctx).Where("user_id = ?", userID), skip, limit)
}

func (s *QuestionService) list(ctx context.Context, scope *gorm.DB, skip, limit int) ([]models.Question, error) {
	questions := []models.Question{}
	if err := scope.Order("created_at desc").Offset(skip).Limit(limit).Find(&questions).Error; err != nil {
		return nil, storeErr("list questions", err)
	}
	if err := decorateQuestions(s.db.WithContext(ctx), questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// MarkSolved flags the question as solved. Only the owner may do this and
// only once an answer exists; solved questions never revert.
func (s *QuestionService) MarkSolved(ctx context.Context, id, callerID string) error {
	return database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		var question models.Question
		if err := loadOwned(tx, &question, id, callerID); err != nil {
			return err
		}
		if question.IsSolved {
			return nil
		}

		var answers int64
		if err := tx.Model(&models.Answer{}).Where("question_id = ?", id).Count(&answers).Error; err != nil {
			return storeErr("count answers", err)
		}
		if answers == 0 {
			return invalid("Question has no answers yet")
		}

		if err := tx.Model(&question).Update("is_solved", true).Error; err != nil {
			return storeErr("mark solved", err)
		}
		s.log.WithField("question_id", id).Info("Question marked as solved")
		return nil
	})
}

// loadOwned fetches the question and checks the ownership gate
func loadOwned(tx *gorm.DB, question *models.Question, id, callerID string) error {
	if err := tx.First(question, "id = ?", id).Error; err != nil {
		return storeErr("get question", err)
	}
	if question.UserID != callerID {
		return ErrUnauthorized
	}
	return nil
}

func ensureUserExists(tx *gorm.DB, userID string) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return storeErr("check user", err)
	}
	if count == 0 {
		return invalid("User %s does not exist", userID)
	}
	return nil
}

func decorateQuestion(tx *gorm.DB, question *models.Question) error {
	qs := []models.Question{*question}
	if err := decorateQuestions(tx, qs); err != nil {
		return err
	}
	*question = qs[0]
	return nil
}

type answerCount struct {
	QuestionID string
	Total      int64
}

// decorateQuestions fills tags, authors and answer counts in place
func decorateQuestions(tx *gorm.DB, questions []models.Question) error {
	if len(questions) == 0 {
		return nil
	}

	ids := make([]string, 0, len(questions))
	userIDs := make([]string, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
		userIDs = append(userIDs, q.UserID)
	}

	tags, err := questionTags(tx, ids)
	if err != nil {
		return err
	}
	authors, err := userSummaries(tx, userIDs)
	if err != nil {
		return err
	}

	var counts []answerCount
	err = tx.Model(&models.Answer{}).
		Select("question_id, COUNT(*) AS total").
		Where("question_id IN ?", ids).
		Group("question_id").
		Scan(&counts).Error
	if err != nil {
		return storeErr("count answers", err)
	}
	answerCounts := make(map[string]int64, len(counts))
	for _, c := range counts {
		answerCounts[c.QuestionID] = c.Total
	}

	for i := range questions {
		q := &questions[i]
		q.Tags = tags[q.ID]
		if q.Tags == nil {
			q.Tags = []models.Tag{}
		}
		q.Author = authors[q.UserID]
		q.AnswerCount = answerCounts[q.ID]
	}
	return nil
}

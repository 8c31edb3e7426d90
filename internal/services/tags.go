package services

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/emilythestrangee/stackit/backend/internal/models"
)

type TagService struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

func NewTagService(db *gorm.DB, log logrus.FieldLogger) *TagService {
	return &TagService{db: db, log: log}
}

// List returns every tag with the number of questions using it, most used first
func (s *TagService) List(ctx context.Context) ([]models.Tag, error) {
	var rows []tagRow
	err := s.db.WithContext(ctx).
		Model(&models.Tag{}).
		Select("tags.id, tags.name, tags.description, tags.created_at, COUNT(question_tags.question_id) AS question_count").
		Joins("LEFT JOIN question_tags ON question_tags.tag_id = tags.id").
		Group("tags.id, tags.name, tags.description, tags.created_at").
		Order("question_count desc, tags.name asc").
		Scan(&rows).Error
	if err != nil {
		return nil, storeErr("list tags", err)
	}

	tags := make([]models.Tag, 0, len(rows))
	for _, r := range rows {
		tags = append(tags, r.tag())
	}
	return tags, nil
}

func (s *TagService) Create(ctx context.Context, in models.TagCreate) (*models.Tag, error) {
	name := normalizeTag(in.Name)
	if name == "" {
		return nil, invalid("Tag name cannot be empty")
	}

	tag := models.Tag{Name: name, Description: in.Description}
	if err := s.db.WithContext(ctx).Create(&tag).Error; err != nil {
		return nil, storeErr("create tag", err)
	}
	return &tag, nil
}

func (s *TagService) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	db := s.db.WithContext(ctx)
	if err := db.Where("name = ?", normalizeTag(name)).First(&tag).Error; err != nil {
		return nil, storeErr("get tag", err)
	}
	if err := db.Model(&models.QuestionTag{}).Where("tag_id = ?", tag.ID).Count(&tag.QuestionCount).Error; err != nil {
		return nil, storeErr("count tag questions", err)
	}
	return &tag, nil
}

// Questions lists the questions carrying the named tag, newest first
func (s *TagService) Questions(ctx context.Context, name string, skip, limit int) ([]models.Question, error) {
	tag, err := s.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	questions := []models.Question{}
	err = db.
		Where("id IN (?)", db.Model(&models.QuestionTag{}).Select("question_id").Where("tag_id = ?", tag.ID)).
		Order("created_at desc").
		Offset(skip).
		Limit(limit).
		Find(&questions).Error
	if err != nil {
		return nil, storeErr("list tag questions", err)
	}
	if err := decorateQuestions(db, questions); err != nil {
		return nil, err
	}
	return questions, nil
}

type tagRow struct {
	QuestionID    string
	ID            string
	Name          string
	Description   string
	CreatedAt     time.Time
	QuestionCount int64
}

func (r tagRow) tag() models.Tag {
	return models.Tag{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		CreatedAt:     r.CreatedAt,
		QuestionCount: r.QuestionCount,
	}
}

func normalizeTag(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// normalizeTags lowercases, trims and de-duplicates tag names, keeping order
func normalizeTags(names []string) ([]string, error) {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = normalizeTag(n)
		if n == "" || seen[n] {
			continue
		}
		if len(n) > 50 {
			return nil, invalid("Tag %q is longer than 50 characters", n)
		}
		seen[n] = true
		out = append(out, n)
	}
	if len(out) > models.MaxTagsPerQuestion {
		return nil, invalid("A question can have at most %d tags", models.MaxTagsPerQuestion)
	}
	return out, nil
}

// setQuestionTags replaces the question's tag set, creating missing tags
func setQuestionTags(tx *gorm.DB, questionID string, names []string) error {
	names, err := normalizeTags(names)
	if err != nil {
		return err
	}

	if err := tx.Where("question_id = ?", questionID).Delete(&models.QuestionTag{}).Error; err != nil {
		return storeErr("clear question tags", err)
	}

	for _, name := range names {
		var tag models.Tag
		if err := tx.Where(models.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
			return storeErr("resolve tag", err)
		}
		link := models.QuestionTag{QuestionID: questionID, TagID: tag.ID}
		if err := tx.Create(&link).Error; err != nil {
			return storeErr("link tag", err)
		}
	}
	return nil
}

// questionTags loads tags for each question ID
func questionTags(tx *gorm.DB, questionIDs []string) (map[string][]models.Tag, error) {
	out := make(map[string][]models.Tag, len(questionIDs))
	if len(questionIDs) == 0 {
		return out, nil
	}

	var rows []tagRow
	err := tx.Model(&models.QuestionTag{}).
		Select("question_tags.question_id, tags.id, tags.name, tags.description, tags.created_at").
		Joins("JOIN tags ON tags.id = question_tags.tag_id").
		Where("question_tags.question_id IN ?", questionIDs).
		Order("tags.name asc").
		Scan(&rows).Error
	if err != nil {
		return nil, storeErr("load question tags", err)
	}
	for _, r := range rows {
		out[r.QuestionID] = append(out[r.QuestionID], r.tag())
	}
	return out, nil
}

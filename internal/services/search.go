package services

import (
	"context"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/emilythestrangee/stackit/backend/internal/models"
)

const (
	SortRelevance = "relevance"
	SortRecent    = "recent"
)

// SearchQuery holds the parsed search parameters
type SearchQuery struct {
	Q     string
	Tag   string
	Sort  string
	Skip  int
	Limit int
}

// DefaultSearchCandidates bounds how many of the newest matches are ranked
// by relevance in memory
const DefaultSearchCandidates = 500

type SearchService struct {
	db         *gorm.DB
	candidates int
}

func NewSearchService(db *gorm.DB) *SearchService {
	return &SearchService{db: db, candidates: DefaultSearchCandidates}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// likePattern matches term as a literal substring
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// Search matches any term case-insensitively against question titles, bodies
// and tag names. Results are ranked by relevance unless Sort is "recent" or
// there are no terms. Ranking considers at most the newest
// DefaultSearchCandidates matches.
func (s *SearchService) Search(ctx context.Context, query SearchQuery) ([]models.SearchResult, error) {
	db := s.db.WithContext(ctx)
	terms := strings.Fields(strings.ToLower(query.Q))

	scope := db.Model(&models.Question{})
	if len(terms) > 0 {
		cond := db.Where("1 = 0")
		for _, term := range terms {
			like := likePattern(term)
			tagged := db.Model(&models.QuestionTag{}).
				Select("question_tags.question_id").
				Joins("JOIN tags ON tags.id = question_tags.tag_id").
				Where(`tags.name LIKE ? ESCAPE '\'`, like)
			cond = cond.
				Or(`LOWER(title) LIKE ? ESCAPE '\'`, like).
				Or(`LOWER(body) LIKE ? ESCAPE '\'`, like).
				Or("id IN (?)", tagged)
		}
		scope = scope.Where(cond)
	}
	if tag := normalizeTag(query.Tag); tag != "" {
		tagged := db.Model(&models.QuestionTag{}).
			Select("question_tags.question_id").
			Joins("JOIN tags ON tags.id = question_tags.tag_id").
			Where("tags.name = ?", tag)
		scope = scope.Where("id IN (?)", tagged)
	}

	ranked := query.Sort != SortRecent && len(terms) > 0
	scope = scope.Order("created_at desc")
	if ranked {
		scope = scope.Limit(s.candidates)
	} else {
		scope = scope.Offset(query.Skip)
		if query.Limit > 0 {
			scope = scope.Limit(query.Limit)
		}
	}

	var questions []models.Question
	if err := scope.Find(&questions).Error; err != nil {
		return nil, storeErr("search questions", err)
	}
	if err := decorateQuestions(db, questions); err != nil {
		return nil, err
	}

	results := make([]models.SearchResult, 0, len(questions))
	for _, q := range questions {
		results = append(results, models.SearchResult{Question: q, Relevance: relevance(q, terms)})
	}
	if !ranked {
		return results, nil
	}

	// Stable keeps the recency order among equal scores
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})
	return paginate(results, query.Skip, query.Limit), nil
}

// relevance weighs title hits 3, body hits 1 and exact tag matches 2
func relevance(q models.Question, terms []string) int {
	title := strings.ToLower(q.Title)
	body := strings.ToLower(q.Body)

	score := 0
	for _, term := range terms {
		score += 3 * strings.Count(title, term)
		score += strings.Count(body, term)
		for _, tag := range q.Tags {
			if tag.Name == term {
				score += 2
			}
		}
	}
	return score
}

func paginate[T any](items []T, skip, limit int) []T {
	if skip >= len(items) {
		return []T{}
	}
	items = items[skip:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

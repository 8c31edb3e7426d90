package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/emilythestrangee/stackit/backend/internal/models"
	"github.com/emilythestrangee/stackit/backend/internal/testutil"
)

func seedSearchCorpus(t *testing.T, db *gorm.DB) map[string]string {
	t.Helper()
	testutil.CreateUser(t, db, "alice", "alice")

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	seeds := []struct {
		key   string
		title string
		body  string
		tags  []string
	}{
		{"body-only", "Channels question", "When should a goroutine exit?", nil},
		{"title", "Goroutine leak in worker pool", "Workers never stop.", nil},
		{"tagged", "Scheduler internals", "How are threads parked?", []string{"goroutine"}},
		{"unrelated", "Postgres indexes", "Which index type fits?", []string{"sql"}},
	}

	ids := make(map[string]string, len(seeds))
	for i, s := range seeds {
		q := models.Question{
			Title:     s.title,
			Body:      s.body,
			UserID:    "alice",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&q).Error)
		require.NoError(t, setQuestionTags(db, q.ID, s.tags))
		ids[s.key] = q.ID
	}
	return ids
}

func resultIDs(results []models.SearchResult) []string {
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestSearchRanksByRelevance(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ids := seedSearchCorpus(t, db)
	svc := NewSearchService(db)

	results, err := svc.Search(context.Background(), SearchQuery{Q: "GOROUTINE", Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, []string{ids["title"], ids["tagged"], ids["body-only"]}, resultIDs(results))
	assert.Equal(t, 3, results[0].Relevance)
	assert.Equal(t, 2, results[1].Relevance)
	assert.Equal(t, 1, results[2].Relevance)
}

func TestSearchRecentSortAndTagFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ids := seedSearchCorpus(t, db)
	svc := NewSearchService(db)
	ctx := context.Background()

	recent, err := svc.Search(ctx, SearchQuery{Q: "goroutine", Sort: SortRecent, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{ids["tagged"], ids["title"], ids["body-only"]}, resultIDs(recent))

	tagged, err := svc.Search(ctx, SearchQuery{Tag: "SQL", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{ids["unrelated"]}, resultIDs(tagged))

	none, err := svc.Search(ctx, SearchQuery{Q: "goroutine", Tag: "sql", Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSearchWithoutTermsListsEverythingPaged(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ids := seedSearchCorpus(t, db)
	svc := NewSearchService(db)

	page, err := svc.Search(context.Background(), SearchQuery{Skip: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{ids["tagged"], ids["title"]}, resultIDs(page))
	for _, r := range page {
		assert.Zero(t, r.Relevance)
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{2, 3}, paginate(items, 1, 2))
	assert.Equal(t, []int{5}, paginate(items, 4, 10))
	assert.Equal(t, []int{}, paginate(items, 5, 10))
}

func TestSearchTreatsWildcardsLiterally(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CreateUser(t, db, "alice", "alice")
	percent := testutil.CreateQuestion(t, db, "alice", "Reaching 100% coverage")
	testutil.CreateQuestion(t, db, "alice", "Reaching 1000 coverage")
	underscore := testutil.CreateQuestion(t, db, "alice", "snake_case json fields")
	testutil.CreateQuestion(t, db, "alice", "snakeXcase json fields")
	svc := NewSearchService(db)

	tests := []struct {
		q    string
		want []string
	}{
		{"0%", []string{percent.ID}},
		{"e_c", []string{underscore.ID}},
		{`\`, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.q, func(t *testing.T) {
			results, err := svc.Search(context.Background(), SearchQuery{Q: tt.q, Limit: 10})
			require.NoError(t, err)
			assert.Equal(t, tt.want, resultIDs(results))
		})
	}
}

func TestSearchRanksOnlyNewestCandidates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ids := seedSearchCorpus(t, db)
	svc := NewSearchService(db)
	svc.candidates = 2

	results, err := svc.Search(context.Background(), SearchQuery{Q: "goroutine", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{ids["title"], ids["tagged"]}, resultIDs(results))
}

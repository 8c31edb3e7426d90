//go:build integration
// +build integration

package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/emilythestrangee/stackit/backend/internal/config"
	"github.com/emilythestrangee/stackit/backend/internal/database"
	"github.com/emilythestrangee/stackit/backend/internal/models"
	"github.com/emilythestrangee/stackit/backend/internal/services"
	"github.com/emilythestrangee/stackit/backend/internal/testutil"
)

// setupPostgres starts a PostgreSQL container and returns a config pointing at it
func setupPostgres(t *testing.T) *config.Config {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("stackit"),
		postgres.WithUsername("stackit"),
		postgres.WithPassword("stackit"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return &config.Config{
		DBHost:     host,
		DBPort:     port.Port(),
		DBUser:     "stackit",
		DBPassword: "stackit",
		DBName:     "stackit",
		DBSSLMode:  "disable",
	}
}

func TestPostgresDrivers(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	base := setupPostgres(t)

	for _, driver := range []string{"pgx", "postgres"} {
		t.Run(driver, func(t *testing.T) {
			cfg := *base
			cfg.DBDriver = driver

			svc, err := database.New(&cfg, testutil.Logger())
			require.NoError(t, err)
			defer svc.Close()

			require.NoError(t, database.Migrate(svc.GetDB()))
			assert.Equal(t, "up", svc.Health()["status"])

			db := svc.GetDB()
			require.NoError(t, db.Exec("TRUNCATE users, questions, answers, votes, tags, question_tags").Error)

			users := services.NewUserService(db, testutil.Logger())
			_, err = users.Create(context.Background(), models.UserCreate{Username: "gopher", Email: "gopher@example.com"})
			require.NoError(t, err)

			// Both drivers must surface unique violations as conflicts
			_, err = users.Create(context.Background(), models.UserCreate{Username: "gopher", Email: "other@example.com"})
			assert.ErrorIs(t, err, services.ErrConflict)
		})
	}
}

func TestPostgresVoteFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	cfg := setupPostgres(t)
	cfg.DBDriver = "pgx"

	svc, err := database.New(cfg, testutil.Logger())
	require.NoError(t, err)
	defer svc.Close()
	require.NoError(t, database.Migrate(svc.GetDB()))

	db := svc.GetDB()
	ctx := context.Background()
	testutil.CreateUser(t, db, "alice", "alice")
	testutil.CreateUser(t, db, "bob", "bob")

	questions := services.NewQuestionService(db, testutil.Logger())
	q, err := questions.Create(ctx, models.QuestionCreate{
		Title: "Postgres backed question",
		Body:  "Does the vote flow work on postgres?",
		Tags:  []string{"postgres"},
	}, "alice")
	require.NoError(t, err)

	votes := services.NewVoteService(db, testutil.Logger())
	resp, err := votes.Vote(ctx, models.VoteCreate{QuestionID: &q.ID, VoteType: models.Upvote}, "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Score)

	resp, err = votes.Vote(ctx, models.VoteCreate{QuestionID: &q.ID, VoteType: models.Downvote}, "bob")
	require.NoError(t, err)
	assert.Equal(t, -1, resp.Score)

	results, err := services.NewSearchService(db).Search(ctx, services.SearchQuery{Q: "POSTGRES", Limit: 10})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 6, results[0].Relevance)
}

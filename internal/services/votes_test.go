package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/emilythestrangee/stackit/backend/internal/models"
	"github.com/emilythestrangee/stackit/backend/internal/testutil"
)

func reputationOf(t *testing.T, db *gorm.DB, id string) int {
	t.Helper()
	var u models.User
	require.NoError(t, db.First(&u, "id = ?", id).Error)
	return u.Reputation
}

func TestVoteStateMachine(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CreateUser(t, db, "alice", "alice")
	testutil.CreateUser(t, db, "bob", "bob")
	svc := NewVoteService(db, testutil.Logger())
	ctx := context.Background()

	q := testutil.CreateQuestion(t, db, "alice", "Vote on me")
	up := models.VoteCreate{QuestionID: &q.ID, VoteType: models.Upvote}
	down := models.VoteCreate{QuestionID: &q.ID, VoteType: models.Downvote}

	steps := []struct {
		name       string
		in         models.VoteCreate
		message    string
		state      string
		score      int
		reputation int
	}{
		{"first upvote", up, "Vote recorded", StateUp, 1, 10},
		{"switch to down", down, "Vote updated", StateDown, -1, -2},
		{"down again toggles off", down, "Vote removed", StateNone, 0, 0},
		{"fresh downvote", down, "Vote recorded", StateDown, -1, -2},
		{"switch to up", up, "Vote updated", StateUp, 1, 10},
		{"up again toggles off", up, "Vote removed", StateNone, 0, 0},
	}

	for _, step := range steps {
		resp, err := svc.Vote(ctx, step.in, "bob")
		require.NoError(t, err, step.name)
		assert.Equal(t, step.message, resp.Message, step.name)
		assert.Equal(t, step.state, resp.VoteState, step.name)
		assert.Equal(t, step.score, resp.Score, step.name)
		assert.Equal(t, step.reputation, reputationOf(t, db, "alice"), step.name)

		var stored models.Question
		require.NoError(t, db.First(&stored, "id = ?", q.ID).Error)
		assert.Equal(t, step.score, stored.VoteScore, step.name)
	}

	// The voter never holds more than one row per target
	var rows int64
	require.NoError(t, db.Model(&models.Vote{}).Where("user_id = ?", "bob").Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestVoteSwitchMovesScoreByTwo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CreateUser(t, db, "alice", "alice")
	testutil.CreateUser(t, db, "bob", "bob")
	testutil.CreateUser(t, db, "carol", "carol")
	svc := NewVoteService(db, testutil.Logger())
	ctx := context.Background()

	q := testutil.CreateQuestion(t, db, "alice", "Answer target")
	a := testutil.CreateAnswer(t, db, "bob", q.ID)

	before, err := svc.Vote(ctx, models.VoteCreate{AnswerID: &a.ID, VoteType: models.Upvote}, "carol")
	require.NoError(t, err)
	after, err := svc.Vote(ctx, models.VoteCreate{AnswerID: &a.ID, VoteType: models.Downvote}, "carol")
	require.NoError(t, err)

	assert.Equal(t, 2, before.Score-after.Score)
	assert.Equal(t, -2, reputationOf(t, db, "bob"))

	summary, err := svc.Summary(ctx, TargetAnswer, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.Upvotes)
	assert.Equal(t, int64(1), summary.Downvotes)
	assert.Equal(t, int64(-1), summary.Score)
}

func TestVoteScoreAggregatesVoters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CreateUser(t, db, "alice", "alice")
	testutil.CreateUser(t, db, "bob", "bob")
	testutil.CreateUser(t, db, "carol", "carol")
	testutil.CreateUser(t, db, "dave", "dave")
	svc := NewVoteService(db, testutil.Logger())
	ctx := context.Background()

	q := testutil.CreateQuestion(t, db, "alice", "Crowd favourite")
	for _, voter := range []string{"bob", "carol"} {
		_, err := svc.Vote(ctx, models.VoteCreate{QuestionID: &q.ID, VoteType: models.Upvote}, voter)
		require.NoError(t, err)
	}
	resp, err := svc.Vote(ctx, models.VoteCreate{QuestionID: &q.ID, VoteType: models.Downvote}, "dave")
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Score)
	assert.Equal(t, 18, reputationOf(t, db, "alice"))

	summary, err := svc.Summary(ctx, TargetQuestion, q.ID)
	require.NoError(t, err)
	assert.Equal(t, &models.VoteSummary{
		TargetID: q.ID, TargetType: TargetQuestion, Upvotes: 2, Downvotes: 1, Score: 1,
	}, summary)
}

func TestVoteRejections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CreateUser(t, db, "alice", "alice")
	svc := NewVoteService(db, testutil.Logger())
	ctx := context.Background()

	q := testutil.CreateQuestion(t, db, "alice", "Mine")
	a := testutil.CreateAnswer(t, db, "alice", q.ID)
	missing := "missing"

	tests := []struct {
		name string
		in   models.VoteCreate
	}{
		{"own question", models.VoteCreate{QuestionID: &q.ID, VoteType: models.Upvote}},
		{"own answer", models.VoteCreate{AnswerID: &a.ID, VoteType: models.Downvote}},
		{"no target", models.VoteCreate{VoteType: models.Upvote}},
		{"two targets", models.VoteCreate{QuestionID: &q.ID, AnswerID: &a.ID, VoteType: models.Upvote}},
		{"unknown question", models.VoteCreate{QuestionID: &missing, VoteType: models.Upvote}},
		{"unknown answer", models.VoteCreate{AnswerID: &missing, VoteType: models.Upvote}},
		{"bad direction", models.VoteCreate{QuestionID: &q.ID, VoteType: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Vote(ctx, tt.in, "alice")
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}

	var rows int64
	require.NoError(t, db.Model(&models.Vote{}).Count(&rows).Error)
	assert.Zero(t, rows)

	_, err := svc.Summary(ctx, TargetQuestion, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/stackit/backend/internal/models"
	"github.com/emilythestrangee/stackit/backend/internal/testutil"
)

func TestAnswerCRUD(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CreateUser(t, db, "alice", "alice")
	testutil.CreateUser(t, db, "bob", "bob")
	svc := NewAnswerService(db, testutil.Logger())
	ctx := context.Background()

	q := testutil.CreateQuestion(t, db, "alice", "What is a channel?")

	_, err := svc.Create(ctx, models.AnswerCreate{Body: "orphan", QuestionID: "missing"}, "bob")
	assert.ErrorIs(t, err, ErrNotFound)

	created, err := svc.Create(ctx, models.AnswerCreate{Body: "A typed conduit.", QuestionID: q.ID}, "bob")
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "A typed conduit.", got.Body)
	assert.Equal(t, q.ID, got.QuestionID)
	assert.Equal(t, "bob", got.UserID)
	assert.False(t, got.IsAccepted)
	require.NotNil(t, got.Author)
	assert.Equal(t, "bob", got.Author.Username)

	// Non-owner edits and deletes are refused and change nothing
	_, err = svc.Update(ctx, created.ID, models.AnswerUpdate{Body: strPtr("vandalized")}, "alice")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.ErrorIs(t, svc.Delete(ctx, created.ID, "alice"), ErrUnauthorized)

	got, err = svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "A typed conduit.", got.Body)

	updated, err := svc.Update(ctx, created.ID, models.AnswerUpdate{Body: strPtr("A typed, synchronized conduit.")}, "bob")
	require.NoError(t, err)
	assert.Equal(t, "A typed, synchronized conduit.", updated.Body)

	require.NoError(t, svc.Delete(ctx, created.ID, "bob"))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAcceptAnswerKeepsSingleAccepted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CreateUser(t, db, "alice", "alice")
	testutil.CreateUser(t, db, "bob", "bob")
	testutil.CreateUser(t, db, "carol", "carol")
	svc := NewAnswerService(db, testutil.Logger())
	ctx := context.Background()

	q := testutil.CreateQuestion(t, db, "alice", "Which answer wins?")
	a := testutil.CreateAnswer(t, db, "bob", q.ID)
	b := testutil.CreateAnswer(t, db, "carol", q.ID)

	// Only the question owner may accept
	assert.ErrorIs(t, svc.Accept(ctx, a.ID, "bob"), ErrUnauthorized)
	assert.ErrorIs(t, svc.Accept(ctx, "missing", "alice"), ErrNotFound)

	require.NoError(t, svc.Accept(ctx, a.ID, "alice"))
	require.NoError(t, svc.Accept(ctx, b.ID, "alice"))

	answers, err := svc.ListByQuestion(ctx, q.ID)
	require.NoError(t, err)
	require.Len(t, answers, 2)

	accepted := 0
	for _, ans := range answers {
		if ans.IsAccepted {
			accepted++
			assert.Equal(t, b.ID, ans.ID)
		}
	}
	assert.Equal(t, 1, accepted)
	// Accepted answer sorts first
	assert.Equal(t, b.ID, answers[0].ID)

	var question models.Question
	require.NoError(t, db.First(&question, "id = ?", q.ID).Error)
	require.NotNil(t, question.AcceptedAnswerID)
	assert.Equal(t, b.ID, *question.AcceptedAnswerID)
	assert.True(t, question.IsSolved)
}

func TestDeleteAcceptedAnswerClearsReference(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CreateUser(t, db, "alice", "alice")
	testutil.CreateUser(t, db, "bob", "bob")
	svc := NewAnswerService(db, testutil.Logger())
	ctx := context.Background()

	q := testutil.CreateQuestion(t, db, "alice", "Short lived answer")
	a := testutil.CreateAnswer(t, db, "bob", q.ID)
	require.NoError(t, svc.Accept(ctx, a.ID, "alice"))

	require.NoError(t, svc.Delete(ctx, a.ID, "bob"))

	var question models.Question
	require.NoError(t, db.First(&question, "id = ?", q.ID).Error)
	assert.Nil(t, question.AcceptedAnswerID)
}

func TestListAnswersByUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CreateUser(t, db, "alice", "alice")
	testutil.CreateUser(t, db, "bob", "bob")
	svc := NewAnswerService(db, testutil.Logger())

	q := testutil.CreateQuestion(t, db, "alice", "Many answers")
	for i := 0; i < 3; i++ {
		testutil.CreateAnswer(t, db, "bob", q.ID)
	}
	testutil.CreateAnswer(t, db, "alice", q.ID)

	answers, err := svc.ListByUser(context.Background(), "bob", 1, 10)
	require.NoError(t, err)
	assert.Len(t, answers, 2)
	for _, a := range answers {
		assert.Equal(t, "bob", a.UserID)
	}
}

package testutil

import (
	"fmt"
	"io"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/emilythestrangee/stackit/backend/internal/database"
	"github.com/emilythestrangee/stackit/backend/internal/models"
)

// Logger returns a logrus logger that discards output
func Logger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// SetupTestService opens a fresh in-memory database with the full schema
// behind the database.Service interface
func SetupTestService(t *testing.T) database.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	svc, err := database.Open(sqlite.Open(dsn), Logger())
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := svc.GetDB().DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	// A single connection keeps the in-memory database alive and serializes writes
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(svc.GetDB()); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		svc.Close()
	})

	return svc
}

// SetupTestDB is SetupTestService for code that only needs the gorm handle
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return SetupTestService(t).GetDB()
}

// CreateUser inserts a user with a predictable username
func CreateUser(t *testing.T, db *gorm.DB, id, username string) models.User {
	t.Helper()

	user := models.User{ID: id, Username: username, Email: username + "@example.com"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// CreateQuestion inserts a question owned by userID
func CreateQuestion(t *testing.T, db *gorm.DB, userID, title string) models.Question {
	t.Helper()

	question := models.Question{Title: title, Body: "Body of " + title, UserID: userID}
	if err := db.Create(&question).Error; err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}
	return question
}

// CreateAnswer inserts an answer on questionID owned by userID
func CreateAnswer(t *testing.T, db *gorm.DB, userID, questionID string) models.Answer {
	t.Helper()

	answer := models.Answer{Body: "An answer", UserID: userID, QuestionID: questionID}
	if err := db.Create(&answer).Error; err != nil {
		t.Fatalf("Failed to create test answer: %v", err)
	}
	return answer
}

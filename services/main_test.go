package services

import (
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Cyberod/Taskify-Backend/constants"
	"github.com/Cyberod/Taskify-Backend/models"
)

var testDBSeq atomic.Int64

// openTestDB opens a fresh in-memory sqlite store. cache=shared keeps the
// database alive across the pool's connections; the unique name isolates
// tests from each other.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:taskify_test_%d?mode=memory&cache=shared&_busy_timeout=5000", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	// A single connection sidesteps sqlite table-lock errors under
	// concurrent writes; contending goroutines queue at the pool instead.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("access sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.EmailCode{},
		&models.Project{},
		&models.ProjectMember{},
		&models.ProjectInvite{},
		&models.Task{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type sentMail struct {
	To    string
	Token string
}

// stubNotifier records sends; Fail makes every send report failure.
type stubNotifier struct {
	Invites       []sentMail
	Verifications []sentMail
	Resets        []sentMail
	Fail          bool
}

func (n *stubNotifier) SendInvite(email, token string) bool {
	n.Invites = append(n.Invites, sentMail{To: email, Token: token})
	return !n.Fail
}

func (n *stubNotifier) SendVerification(email, otp string) bool {
	n.Verifications = append(n.Verifications, sentMail{To: email, Token: otp})
	return !n.Fail
}

func (n *stubNotifier) SendPasswordReset(email, otp string) bool {
	n.Resets = append(n.Resets, sentMail{To: email, Token: otp})
	return !n.Fail
}

func seedUser(t *testing.T, db *gorm.DB, email string, role constants.UserRole) *models.User {
	t.Helper()
	user := models.User{
		Email:               email,
		Password:            "x",
		Role:                role,
		IsActive:            true,
		IsVerified:          true,
		OnboardingCompleted: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return &user
}

func seedProject(t *testing.T, db *gorm.DB, name string, ownerID uint) *models.Project {
	t.Helper()
	project := models.Project{
		Name:    name,
		Status:  constants.ProjectStatusActive,
		OwnerID: ownerID,
	}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("seed project %s: %v", name, err)
	}
	return &project
}

func seedMember(t *testing.T, db *gorm.DB, projectID, userID uint, role constants.ProjectRole) {
	t.Helper()
	member := models.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
		JoinedAt:  time.Now().UTC(),
	}
	if err := db.Create(&member).Error; err != nil {
		t.Fatalf("seed member: %v", err)
	}
}

func kindOf(t *testing.T, err error) ErrorKind {
	t.Helper()
	if err == nil {
		t.Fatalf("expected a domain error, got nil")
	}
	domainErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *services.Error, got %T: %v", err, err)
	}
	return domainErr.Kind
}

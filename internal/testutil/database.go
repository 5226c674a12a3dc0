package testutil

import (
	"Folio/database"
	"Folio/internal/models"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDatabase opens a sqlite database in a temp directory with the schema
// applied. A file is used instead of ":memory:" so every pooled connection
// sees the same data. It is closed when the test completes.
func NewTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "folio.db")
	db, err := gorm.Open(sqlite.Open(database.SqliteDSN(path)), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err = database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	t.Cleanup(func() {
		database.CloseDatabase(db)
	})
	return db
}

// CreateUser inserts a user with a cheap bcrypt hash of password.
func CreateUser(t *testing.T, db *gorm.DB, username, password string, role models.Role) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{Username: username, PasswordHash: string(hash), FullName: username, Role: role}
	if err = db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

package database

import (
	"Folio/internal/config"
	"Folio/internal/models"
	"errors"
	"fmt"
	"log"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func SetupDatabase(cfg *config.Configuration) (*gorm.DB, error) {
	dialector, err := openDialector(cfg.Database)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	if err = Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func openDialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "sqlite":
		return sqlite.Open(SqliteDSN(cfg.SqlitePath)), nil
	case "mysql":
		if err := requireEnv("DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME"); err != nil {
			return nil, err
		}
		dsn := os.ExpandEnv("${DB_USER}:${DB_PASSWORD}@tcp(${DB_HOST}:${DB_PORT})/${DB_NAME}?charset=utf8mb4&parseTime=True&loc=UTC")
		return mysql.Open(dsn), nil
	default:
		if err := requireEnv("DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_TZ"); err != nil {
			return nil, err
		}
		if os.Getenv("DB_SSLMODE") == "" {
			if err := os.Setenv("DB_SSLMODE", "disable"); err != nil {
				return nil, err
			}
		}
		dsn := os.ExpandEnv("host=${DB_HOST} user=${DB_USER} password=${DB_PASSWORD} dbname=${DB_NAME} port=${DB_PORT} sslmode=${DB_SSLMODE} TimeZone=${DB_TZ}")
		return postgres.Open(dsn), nil
	}
}

// SqliteDSN enables foreign keys, which sqlite leaves off by default; the
// cascade from a folder to its children depends on them. Transactions begin
// IMMEDIATE so that concurrent tree writes queue up instead of reading a
// parent that another transaction is about to rewrite.
func SqliteDSN(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate", path)
}

func requireEnv(names ...string) error {
	for _, name := range names {
		if os.Getenv(name) == "" {
			return errors.New(fmt.Sprintf("%s environment variable not set", name))
		}
	}
	return nil
}

// Migrate creates the schema. The folder uniqueness index is partial, which
// mysql cannot express; there the transactional check in the tree service is
// the only guard.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(&models.User{}, &models.Session{}, &models.Node{}, &models.OrphanBlob{})
	if err != nil {
		return err
	}
	if err = backfillSearchText(db); err != nil {
		return err
	}
	switch db.Dialector.Name() {
	case "postgres", "sqlite":
		return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_nodes_unique_folder
			ON nodes (COALESCE(parent_id, ''), name) WHERE type = 'folder'`).Error
	}
	return nil
}

// backfillSearchText fills search_text for files stored before the column
// existed.
func backfillSearchText(db *gorm.DB) error {
	var files []models.Node
	return db.Model(&models.Node{}).
		Select("id", "type", "name", "title", "author").
		Where("type = ? AND search_text IS NULL", models.NodeTypeFile).
		FindInBatches(&files, 200, func(_ *gorm.DB, _ int) error {
			for i := range files {
				files[i].RefreshSearchText()
				err := db.Model(&models.Node{}).
					Where("id = ?", files[i].ID).
					UpdateColumn("search_text", files[i].SearchText).Error
				if err != nil {
					return err
				}
			}
			return nil
		}).Error
}

func CloseDatabase(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Could not get DB instance: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
}

// OpenDatabase is SetupDatabase with a cleanup that closes the pool.
func OpenDatabase(cfg *config.Configuration) (*gorm.DB, func(), error) {
	db, err := SetupDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}
	return db, func() { CloseDatabase(db) }, nil
}

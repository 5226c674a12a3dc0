package repository

import (
	"Folio/internal/models"
	"context"

	"gorm.io/gorm"
)

type OrphanBlobRepository interface {
	GenericRepository[models.OrphanBlob]
	Record(ctx context.Context, blobKey string, cause error) error
	FindBatch(ctx context.Context, limit int) ([]models.OrphanBlob, error)
	MarkFailed(ctx context.Context, orphan *models.OrphanBlob, cause error) error
}

type OrphanBlobRepositoryImpl[T models.OrphanBlob] struct {
	GenericRepository[models.OrphanBlob]
	db *gorm.DB
}

func NewOrphanBlobRepository(db *gorm.DB) OrphanBlobRepository {
	return &OrphanBlobRepositoryImpl[models.OrphanBlob]{
		GenericRepository: NewGenericRepository[models.OrphanBlob](db),
		db:                db,
	}
}

func (r *OrphanBlobRepositoryImpl[T]) Record(ctx context.Context, blobKey string, cause error) error {
	orphan := &models.OrphanBlob{BlobKey: blobKey, Attempts: 1}
	if cause != nil {
		orphan.LastError = cause.Error()
	}
	return r.db.WithContext(ctx).Create(orphan).Error
}

// FindBatch returns the orphans with the fewest attempts first.
func (r *OrphanBlobRepositoryImpl[T]) FindBatch(ctx context.Context, limit int) ([]models.OrphanBlob, error) {
	var orphans []models.OrphanBlob
	err := r.db.WithContext(ctx).Order("attempts ASC").Order("id ASC").Limit(limit).Find(&orphans).Error
	return orphans, err
}

func (r *OrphanBlobRepositoryImpl[T]) MarkFailed(ctx context.Context, orphan *models.OrphanBlob, cause error) error {
	orphan.Attempts++
	if cause != nil {
		orphan.LastError = cause.Error()
	}
	return r.db.WithContext(ctx).Model(orphan).Updates(map[string]interface{}{
		"attempts":   orphan.Attempts,
		"last_error": orphan.LastError,
	}).Error
}

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sangkips/invoicing-api/internal/domain/entity"
	domainRepo "github.com/sangkips/invoicing-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type idempotencyRepository struct {
	db *gorm.DB
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(db *gorm.DB) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{db: db}
}

func (r *idempotencyRepository) GetByKey(ctx context.Context, key, endpoint string) (*entity.IdempotencyKey, error) {
	var ikey entity.IdempotencyKey
	err := conn(ctx, r.db).
		Where(&entity.IdempotencyKey{Key: key, Endpoint: endpoint}).
		First(&ikey).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ikey, nil
}

// Create stores the key; a concurrent insert of the same key wins and this one is dropped
func (r *idempotencyRepository) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	return conn(ctx, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(ikey).Error
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := conn(ctx, r.db).
		Where("expires_at < ?", now).
		Delete(&entity.IdempotencyKey{})
	return result.RowsAffected, result.Error
}

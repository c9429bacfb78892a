package postgres

import (
	"context"

	"restaurant/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// GormOrderNumberSequence keeps one counter row per order kind. The increment and
// the read happen in a single statement, and the row stays locked until the
// surrounding transaction ends, so concurrent creators of the same kind queue up
// and a rolled back creation hands its value to the next one.
type GormOrderNumberSequence struct {
	db *gorm.DB
}

func NewGormOrderNumberSequence(db *gorm.DB) *GormOrderNumberSequence {
	return &GormOrderNumberSequence{db: db}
}

func (s *GormOrderNumberSequence) Next(ctx context.Context, kind order.Kind) (int64, error) {
	if err := kind.Validate(); err != nil {
		return 0, err
	}

	var value int64
	err := s.db.WithContext(ctx).Raw(`
		INSERT INTO order_number_sequences (kind, value)
		VALUES (?, 1)
		ON CONFLICT (kind) DO UPDATE
			SET value = order_number_sequences.value + 1
		RETURNING value
	`, int(kind)).Scan(&value).Error
	if err != nil {
		return 0, err
	}

	return value, nil
}

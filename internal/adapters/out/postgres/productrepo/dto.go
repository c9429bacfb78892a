// Package productrepo persists the product catalog.
package productrepo

import (
	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/product"

	"github.com/google/uuid"
)

// ProductDTO represents the database structure for persisting catalog products.
// An empty code is stored as NULL so that the partial unique index ignores it.
type ProductDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code        *string   `gorm:"type:varchar(32)"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Category    int       `gorm:"type:smallint;not null"`
	PriceCents  int64     `gorm:"not null"`
	Description string    `gorm:"not null"`
	Available   bool      `gorm:"not null"`
}

func (ProductDTO) TableName() string {
	return "products"
}

func fromDomain(p *product.Product) ProductDTO {
	var code *string
	if c := p.Code(); c != "" {
		code = &c
	}

	return ProductDTO{
		ID:          p.ID().Bytes(),
		Code:        code,
		Name:        p.Name(),
		Category:    int(p.Category()),
		PriceCents:  p.Price().Cents(),
		Description: p.Description(),
		Available:   p.IsAvailable(),
	}
}

func toDomain(dto ProductDTO) (*product.Product, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var code string
	if dto.Code != nil {
		code = *dto.Code
	}

	return product.RestoreProduct(
		id,
		code,
		dto.Name,
		product.Category(dto.Category),
		kernel.Cents(dto.PriceCents),
		dto.Description,
		dto.Available,
	)
}

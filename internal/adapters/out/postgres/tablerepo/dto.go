// Package tablerepo persists dining tables in the "dining_tables" relation.
package tablerepo

import (
	"time"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/table"

	"github.com/google/uuid"
)

// TableDTO represents the database structure for persisting table aggregates.
type TableDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Number         int        `gorm:"not null;uniqueIndex:dining_tables_number_key"`
	Capacity       int        `gorm:"not null"`
	Status         int        `gorm:"type:smallint;not null"`
	CurrentOrderID *uuid.UUID `gorm:"type:uuid"`
	AssignedStaff  string     `gorm:"type:varchar(255);not null"`
	Notes          string     `gorm:"not null"`
	CreatedAt      time.Time  `gorm:"not null"`
	UpdatedAt      time.Time  `gorm:"not null"`
}

func (TableDTO) TableName() string {
	return "dining_tables"
}

func fromDomain(t *table.Table) TableDTO {
	var currentOrder *uuid.UUID
	if id, ok := t.CurrentOrder(); ok {
		raw := id.Bytes()
		currentOrder = &raw
	}

	return TableDTO{
		ID:             t.ID().Bytes(),
		Number:         t.Number(),
		Capacity:       t.Capacity(),
		Status:         int(t.Status()),
		CurrentOrderID: currentOrder,
		AssignedStaff:  t.AssignedStaff(),
		Notes:          t.Notes(),
		CreatedAt:      t.CreatedAt(),
		UpdatedAt:      t.UpdatedAt(),
	}
}

func toDomain(dto TableDTO) (*table.Table, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var currentOrder *kernel.UUID
	if dto.CurrentOrderID != nil {
		orderID, orderErr := kernel.UUIDFromBytes(dto.CurrentOrderID[:])
		if orderErr != nil {
			return nil, orderErr
		}
		currentOrder = &orderID
	}

	return table.RestoreTable(
		id,
		dto.Number,
		dto.Capacity,
		table.Status(dto.Status),
		currentOrder,
		dto.AssignedStaff,
		dto.Notes,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}

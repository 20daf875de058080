package catalog

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rentalworks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ItemStatus represents the rental status of a physical piece.
// "Maintanance" keeps the spelling used by existing stored records.
type ItemStatus string

const (
	ItemStatusAvailable   ItemStatus = "Available"
	ItemStatusRented      ItemStatus = "Rented"
	ItemStatusDamaged     ItemStatus = "Damaged"
	ItemStatusMaintenance ItemStatus = "Maintanance"
)

// IsValid checks if the item status is valid
func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusAvailable, ItemStatusRented, ItemStatusDamaged, ItemStatusMaintenance:
		return true
	default:
		return false
	}
}

// String returns the string representation
func (s ItemStatus) String() string {
	return string(s)
}

// SubItem represents one physical rentable piece under a master item.
// Its code is derived from the master's code plus a per-master sequence.
type SubItem struct {
	shared.BaseAggregateRoot
	MasterItemID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Code         string          `gorm:"type:varchar(60);not null;uniqueIndex"`
	Name         string          `gorm:"type:varchar(200);not null"`
	RentRate     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Description  string          `gorm:"type:text"`
	ImageURL     string          `gorm:"type:text"`
	Status       ItemStatus      `gorm:"type:varchar(20);not null;default:'Available';index"`
}

// TableName returns the table name for GORM
func (SubItem) TableName() string {
	return "sub_items"
}

// SubItemCode derives a sub-item code from the master code and a sequence number
func SubItemCode(masterCode string, seq int) string {
	return fmt.Sprintf("%s-%03d", masterCode, seq)
}

// NewSubItem creates a new sub-item under a master item.
// The sequence number determines the derived code.
func NewSubItem(master *MasterItem, seq int, name string, rentRate decimal.Decimal) (*SubItem, error) {
	if master == nil {
		return nil, shared.NewDomainError("INVALID_MASTER", "Master item is required")
	}
	if seq < 1 {
		return nil, shared.NewDomainError("INVALID_SEQUENCE", "Sequence number must be positive")
	}
	if err := validateItemName(name); err != nil {
		return nil, err
	}
	if rentRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RENT_RATE", "Rent rate cannot be negative")
	}

	return &SubItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		MasterItemID:      master.ID,
		Code:              SubItemCode(master.Code, seq),
		Name:              name,
		RentRate:          rentRate,
		Status:            ItemStatusAvailable,
	}, nil
}

// Update updates the sub-item's details
func (s *SubItem) Update(name, description string, rentRate decimal.Decimal) error {
	if err := validateItemName(name); err != nil {
		return err
	}
	if rentRate.IsNegative() {
		return shared.NewDomainError("INVALID_RENT_RATE", "Rent rate cannot be negative")
	}

	s.Name = name
	s.Description = description
	s.RentRate = rentRate
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetStatus moves the piece to a new status
func (s *SubItem) SetStatus(status ItemStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid item status: "+string(status))
	}

	s.Status = status
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetImage sets the image URL
func (s *SubItem) SetImage(url string) {
	s.ImageURL = url
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// IsAvailable returns true if the piece can be rented out
func (s *SubItem) IsAvailable() bool {
	return s.Status == ItemStatusAvailable
}

// IsRented returns true if the piece is currently out on rent
func (s *SubItem) IsRented() bool {
	return s.Status == ItemStatusRented
}

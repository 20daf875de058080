package catalog

import (
	"strings"
	"time"

	"github.com/rentalworks/backend/internal/domain/shared"
)

// MasterItem represents a rentable product line, e.g. a sherwani model.
// Individual physical pieces are tracked as SubItems under it.
type MasterItem struct {
	shared.BaseAggregateRoot
	Code     string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name     string `gorm:"type:varchar(200);not null"`
	Category string `gorm:"type:varchar(100);index"`
	ImageURL string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (MasterItem) TableName() string {
	return "master_items"
}

// NewMasterItem creates a new master item
func NewMasterItem(code, name string) (*MasterItem, error) {
	if err := validateItemCode(code); err != nil {
		return nil, err
	}
	if err := validateItemName(name); err != nil {
		return nil, err
	}

	return &MasterItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
	}, nil
}

// Update updates the master item's basic information
func (m *MasterItem) Update(name, category string) error {
	if err := validateItemName(name); err != nil {
		return err
	}
	if category != "" && len(category) > 100 {
		return shared.NewDomainError("INVALID_CATEGORY", "Category cannot exceed 100 characters")
	}

	m.Name = name
	m.Category = category
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	return nil
}

// SetImage sets the image URL
func (m *MasterItem) SetImage(url string) {
	m.ImageURL = url
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
}

func validateItemCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Item code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Item code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Item code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateItemName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Item name cannot exceed 200 characters")
	}
	return nil
}

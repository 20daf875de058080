package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentalworks/backend/internal/domain/shared"
)

// MasterItemRepository defines the interface for master item persistence
type MasterItemRepository interface {
	// FindByID finds a master item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*MasterItem, error)

	// FindByCode finds a master item by its code
	FindByCode(ctx context.Context, code string) (*MasterItem, error)

	// FindAll finds all master items matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]MasterItem, error)

	// Save creates or updates a master item
	Save(ctx context.Context, item *MasterItem) error

	// Delete deletes a master item
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts master items matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByCode checks if a master item with the given code exists
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

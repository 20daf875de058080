package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentalworks/backend/internal/domain/shared"
)

// SubItemRepository defines the interface for sub-item persistence
type SubItemRepository interface {
	// FindByID finds a sub-item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*SubItem, error)

	// FindByCode finds a sub-item by its code
	FindByCode(ctx context.Context, code string) (*SubItem, error)

	// FindByIDs finds multiple sub-items by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]SubItem, error)

	// FindByMasterItem finds all sub-items under a master item
	FindByMasterItem(ctx context.Context, masterItemID uuid.UUID, filter shared.Filter) ([]SubItem, error)

	// FindAll finds all sub-items matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]SubItem, error)

	// NextSequence returns the next per-master sequence number for code derivation
	NextSequence(ctx context.Context, masterItemID uuid.UUID) (int, error)

	// Save creates or updates a sub-item
	Save(ctx context.Context, item *SubItem) error

	// Delete deletes a sub-item
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts sub-items matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByMasterItem counts sub-items under a master item
	CountByMasterItem(ctx context.Context, masterItemID uuid.UUID) (int64, error)

	// UpdateStatusBulk updates the status of all sub-items with the given IDs
	// in a single statement
	UpdateStatusBulk(ctx context.Context, ids []uuid.UUID, status ItemStatus) error
}

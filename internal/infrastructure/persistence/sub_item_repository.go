package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentalworks/backend/internal/domain/catalog"
	"github.com/rentalworks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSubItemRepository implements SubItemRepository using GORM
type GormSubItemRepository struct {
	db *gorm.DB
}

// NewGormSubItemRepository creates a new GormSubItemRepository
func NewGormSubItemRepository(db *gorm.DB) *GormSubItemRepository {
	return &GormSubItemRepository{db: db}
}

// FindByID finds a sub-item by its ID
func (r *GormSubItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.SubItem, error) {
	var item catalog.SubItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByCode finds a sub-item by its code
func (r *GormSubItemRepository) FindByCode(ctx context.Context, code string) (*catalog.SubItem, error) {
	var item catalog.SubItem
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByIDs finds multiple sub-items by their IDs
func (r *GormSubItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.SubItem, error) {
	if len(ids) == 0 {
		return []catalog.SubItem{}, nil
	}

	var items []catalog.SubItem
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindByMasterItem finds all sub-items under a master item
func (r *GormSubItemRepository) FindByMasterItem(ctx context.Context, masterItemID uuid.UUID, filter shared.Filter) ([]catalog.SubItem, error) {
	var items []catalog.SubItem
	query := applyCatalogFilter(
		r.db.WithContext(ctx).Model(&catalog.SubItem{}).
			Where("master_item_id = ?", masterItemID),
		filter,
	)

	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindAll finds all sub-items matching the filter
func (r *GormSubItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.SubItem, error) {
	var items []catalog.SubItem
	query := applyCatalogFilter(r.db.WithContext(ctx).Model(&catalog.SubItem{}), filter)

	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// NextSequence returns the next per-master sequence number for code derivation.
// It parses the numeric suffix of the highest existing code under the master.
func (r *GormSubItemRepository) NextSequence(ctx context.Context, masterItemID uuid.UUID) (int, error) {
	var last catalog.SubItem
	err := r.db.WithContext(ctx).
		Model(&catalog.SubItem{}).
		Where("master_item_id = ?", masterItemID).
		Order("code DESC").
		First(&last).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 1, nil
		}
		return 0, err
	}

	idx := strings.LastIndex(last.Code, "-")
	if idx < 0 {
		return 1, nil
	}
	var seq int
	if _, parseErr := fmt.Sscanf(last.Code[idx+1:], "%d", &seq); parseErr != nil {
		return 1, nil
	}
	return seq + 1, nil
}

// Save creates or updates a sub-item
func (r *GormSubItemRepository) Save(ctx context.Context, item *catalog.SubItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete deletes a sub-item
func (r *GormSubItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.SubItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts sub-items matching the filter
func (r *GormSubItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyCatalogSearch(r.db.WithContext(ctx).Model(&catalog.SubItem{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByMasterItem counts sub-items under a master item
func (r *GormSubItemRepository) CountByMasterItem(ctx context.Context, masterItemID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.SubItem{}).
		Where("master_item_id = ?", masterItemID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateStatusBulk updates the status of all sub-items with the given IDs
// in a single statement
func (r *GormSubItemRepository) UpdateStatusBulk(ctx context.Context, ids []uuid.UUID, status catalog.ItemStatus) error {
	if len(ids) == 0 {
		return nil
	}
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid item status: "+string(status))
	}

	return r.db.WithContext(ctx).
		Model(&catalog.SubItem{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

// Ensure GormSubItemRepository implements SubItemRepository
var _ catalog.SubItemRepository = (*GormSubItemRepository)(nil)

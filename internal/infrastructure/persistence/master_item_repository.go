package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rentalworks/backend/internal/domain/catalog"
	"github.com/rentalworks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormMasterItemRepository implements MasterItemRepository using GORM
type GormMasterItemRepository struct {
	db *gorm.DB
}

// NewGormMasterItemRepository creates a new GormMasterItemRepository
func NewGormMasterItemRepository(db *gorm.DB) *GormMasterItemRepository {
	return &GormMasterItemRepository{db: db}
}

// FindByID finds a master item by its ID
func (r *GormMasterItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.MasterItem, error) {
	var item catalog.MasterItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByCode finds a master item by its code
func (r *GormMasterItemRepository) FindByCode(ctx context.Context, code string) (*catalog.MasterItem, error) {
	var item catalog.MasterItem
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

// FindAll finds all master items matching the filter
func (r *GormMasterItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.MasterItem, error) {
	var items []catalog.MasterItem
	query := applyCatalogFilter(r.db.WithContext(ctx).Model(&catalog.MasterItem{}), filter)

	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Save creates or updates a master item
func (r *GormMasterItemRepository) Save(ctx context.Context, item *catalog.MasterItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete deletes a master item
func (r *GormMasterItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.MasterItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts master items matching the filter
func (r *GormMasterItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyCatalogSearch(r.db.WithContext(ctx).Model(&catalog.MasterItem{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if a master item with the given code exists
func (r *GormMasterItemRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.MasterItem{}).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyCatalogFilter applies search, filters, ordering and pagination
// shared by the catalog repositories
func applyCatalogFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applyCatalogSearch(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("code ASC")
	}

	return query
}

func applyCatalogSearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR code LIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "category":
			query = query.Where("category = ?", value)
		}
	}

	return query
}

// Ensure GormMasterItemRepository implements MasterItemRepository
var _ catalog.MasterItemRepository = (*GormMasterItemRepository)(nil)

package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rentalworks/backend/internal/domain/accounting"
	"github.com/rentalworks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormFinancialRecordRepository implements FinancialRecordRepository using GORM
type GormFinancialRecordRepository struct {
	db *gorm.DB
}

// NewGormFinancialRecordRepository creates a new GormFinancialRecordRepository
func NewGormFinancialRecordRepository(db *gorm.DB) *GormFinancialRecordRepository {
	return &GormFinancialRecordRepository{db: db}
}

// FindByID finds a record by its ID
func (r *GormFinancialRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.FinancialRecord, error) {
	var record accounting.FinancialRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindBySerialNumber finds a record by its serial number
func (r *GormFinancialRecordRepository) FindBySerialNumber(ctx context.Context, serial string) (*accounting.FinancialRecord, error) {
	var record accounting.FinancialRecord
	if err := r.db.WithContext(ctx).
		Where("serial_number = ?", strings.ToUpper(serial)).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindAll finds all records matching the filter
func (r *GormFinancialRecordRepository) FindAll(ctx context.Context, filter shared.Filter) ([]accounting.FinancialRecord, error) {
	var records []accounting.FinancialRecord
	query := r.applyFilter(r.db.WithContext(ctx).Model(&accounting.FinancialRecord{}), filter)

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByKind finds records of one kind matching the filter
func (r *GormFinancialRecordRepository) FindByKind(ctx context.Context, kind accounting.RecordKind, filter shared.Filter) ([]accounting.FinancialRecord, error) {
	var records []accounting.FinancialRecord
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&accounting.FinancialRecord{}).
			Where("kind = ?", kind),
		filter,
	)

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByEntity finds records referencing a customer or account
func (r *GormFinancialRecordRepository) FindByEntity(ctx context.Context, ref accounting.EntityRef, filter shared.Filter) ([]accounting.FinancialRecord, error) {
	var records []accounting.FinancialRecord
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&accounting.FinancialRecord{}).
			Where("entity_type = ? AND entity_id = ?", ref.EntityType, ref.EntityID),
		filter,
	)

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByInvoice finds records related to an invoice
func (r *GormFinancialRecordRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]accounting.FinancialRecord, error) {
	var records []accounting.FinancialRecord
	if err := r.db.WithContext(ctx).
		Where("related_invoice_id = ?", invoiceID).
		Order("serial_number ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Save creates or updates a record
func (r *GormFinancialRecordRepository) Save(ctx context.Context, record *accounting.FinancialRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// Delete deletes a record
func (r *GormFinancialRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&accounting.FinancialRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteBatch deletes multiple records by ID. Returns the number deleted.
func (r *GormFinancialRecordRepository) DeleteBatch(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Delete(&accounting.FinancialRecord{}, "id IN ?", ids)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Count counts records matching the filter
func (r *GormFinancialRecordRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&accounting.FinancialRecord{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateSerialNumber returns the next free serial for the kind. It
// parses the highest existing serial of that kind and increments it.
// A racing creation that took the same serial surfaces as a duplicate
// error; there is no retry.
func (r *GormFinancialRecordRepository) GenerateSerialNumber(ctx context.Context, kind accounting.RecordKind) (string, error) {
	if !kind.IsValid() {
		return "", shared.NewDomainError("INVALID_KIND", "Invalid record kind: "+string(kind))
	}

	var last accounting.FinancialRecord
	err := r.db.WithContext(ctx).
		Model(&accounting.FinancialRecord{}).
		Where("kind = ?", kind).
		Order("serial_number DESC").
		First(&last).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	next := 1
	if err == nil {
		seq, parseErr := accounting.ParseSerialNumber(kind, last.SerialNumber)
		if parseErr == nil {
			next = seq + 1
		}
	}

	serial := accounting.FormatSerialNumber(kind, next)

	exists, err := r.ExistsBySerialNumber(ctx, serial)
	if err != nil {
		return "", err
	}
	if exists {
		return "", shared.NewDomainError("DUPLICATE_SERIAL", "Serial number "+serial+" already exists")
	}
	return serial, nil
}

// ExistsBySerialNumber checks if a record with the serial exists
func (r *GormFinancialRecordRepository) ExistsBySerialNumber(ctx context.Context, serial string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&accounting.FinancialRecord{}).
		Where("serial_number = ?", strings.ToUpper(serial)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormFinancialRecordRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)

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
		query = query.Order("date DESC, serial_number DESC")
	}

	return query
}

func (r *GormFinancialRecordRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("serial_number LIKE ? OR note LIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "kind":
			query = query.Where("kind = ?", value)
		case "method":
			query = query.Where("method = ?", value)
		case "entity_type":
			query = query.Where("entity_type = ?", value)
		case "entity_id":
			query = query.Where("entity_id = ?", value)
		case "related_invoice_id":
			query = query.Where("related_invoice_id = ?", value)
		}
	}

	return query
}

// Ensure GormFinancialRecordRepository implements FinancialRecordRepository
var _ accounting.FinancialRecordRepository = (*GormFinancialRecordRepository)(nil)

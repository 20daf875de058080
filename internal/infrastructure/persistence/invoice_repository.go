package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentalworks/backend/internal/domain/catalog"
	"github.com/rentalworks/backend/internal/domain/rental"
	"github.com/rentalworks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice (with items) by its ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*rental.Invoice, error) {
	var invoice rental.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&invoice, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByNumber finds an invoice (with items) by its invoice number
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, number string) (*rental.Invoice, error) {
	var invoice rental.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("invoice_number = ?", strings.ToUpper(number)).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindLatest finds the invoice with the highest invoice number
func (r *GormInvoiceRepository) FindLatest(ctx context.Context) (*rental.Invoice, error) {
	var invoice rental.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Order("invoice_number DESC").
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindAll finds all invoices matching the filter
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]rental.Invoice, error) {
	var invoices []rental.Invoice
	query := r.applyFilter(r.db.WithContext(ctx).Model(&rental.Invoice{}).Preload("Items"), filter)

	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindByCustomer finds all invoices for a customer
func (r *GormInvoiceRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]rental.Invoice, error) {
	var invoices []rental.Invoice
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&rental.Invoice{}).Preload("Items").
			Where("customer_id = ?", customerID),
		filter,
	)

	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Save creates or updates an invoice together with its items. Removed
// items are deleted so the stored set matches the aggregate exactly.
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *rental.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		keepIDs := make([]uuid.UUID, 0, len(invoice.Items))
		for _, item := range invoice.Items {
			keepIDs = append(keepIDs, item.ID)
		}

		stale := tx.Where("invoice_id = ?", invoice.ID)
		if len(keepIDs) > 0 {
			stale = stale.Where("id NOT IN ?", keepIDs)
		}
		if err := stale.Delete(&rental.InvoiceItem{}).Error; err != nil {
			return err
		}

		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(invoice).Error
	})
}

// Delete deletes an invoice and its items
func (r *GormInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&rental.InvoiceItem{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&rental.Invoice{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts invoices matching the filter
func (r *GormInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&rental.Invoice{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateInvoiceNumber returns the next free invoice number. It parses
// the highest existing number and increments it. If a concurrent creation
// grabbed the same number first, the duplicate is reported as an error;
// there is no retry.
func (r *GormInvoiceRepository) GenerateInvoiceNumber(ctx context.Context) (string, error) {
	var last rental.Invoice
	err := r.db.WithContext(ctx).
		Model(&rental.Invoice{}).
		Order("invoice_number DESC").
		First(&last).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	next := 1
	if err == nil {
		seq, parseErr := rental.ParseInvoiceNumber(last.InvoiceNumber)
		if parseErr == nil {
			next = seq + 1
		}
	}

	number := rental.FormatInvoiceNumber(next)

	exists, err := r.ExistsByNumber(ctx, number)
	if err != nil {
		return "", err
	}
	if exists {
		return "", shared.NewDomainError("DUPLICATE_INVOICE_NUMBER", "Invoice number "+number+" already exists")
	}
	return number, nil
}

// ExistsByNumber checks if an invoice with the given number exists
func (r *GormInvoiceRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&rental.Invoice{}).
		Where("invoice_number = ?", strings.ToUpper(number)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateEmbeddedItemStatus updates the denormalized status on every
// invoice line item referencing one of the given sub-items
func (r *GormInvoiceRepository) UpdateEmbeddedItemStatus(ctx context.Context, subItemIDs []uuid.UUID, status catalog.ItemStatus) error {
	if len(subItemIDs) == 0 {
		return nil
	}
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid item status: "+string(status))
	}

	return r.db.WithContext(ctx).
		Model(&rental.InvoiceItem{}).
		Where("sub_item_id IN ?", subItemIDs).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

// UpdateEmbeddedDeliveryStatus updates the delivery status on every
// invoice line item referencing one of the given sub-items
func (r *GormInvoiceRepository) UpdateEmbeddedDeliveryStatus(ctx context.Context, subItemIDs []uuid.UUID, status rental.DeliveryStatus) error {
	if len(subItemIDs) == 0 {
		return nil
	}
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid delivery status: "+string(status))
	}

	return r.db.WithContext(ctx).
		Model(&rental.InvoiceItem{}).
		Where("sub_item_id IN ?", subItemIDs).
		Updates(map[string]interface{}{
			"delivery_status": status,
			"updated_at":      time.Now(),
		}).Error
}

func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		query = query.Order("invoice_number DESC")
	}

	return query
}

func (r *GormInvoiceRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("invoice_number LIKE ? OR customer_name LIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "payment_status":
			query = query.Where("payment_status = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		}
	}

	return query
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ rental.InvoiceRepository = (*GormInvoiceRepository)(nil)

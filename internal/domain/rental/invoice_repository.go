package rental

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentalworks/backend/internal/domain/catalog"
	"github.com/rentalworks/backend/internal/domain/shared"
)

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByID finds an invoice (with items) by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByNumber finds an invoice (with items) by its invoice number
	FindByNumber(ctx context.Context, number string) (*Invoice, error)

	// FindLatest finds the invoice with the highest invoice number
	FindLatest(ctx context.Context) (*Invoice, error)

	// FindAll finds all invoices matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Invoice, error)

	// FindByCustomer finds all invoices for a customer
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]Invoice, error)

	// Save creates or updates an invoice together with its items
	Save(ctx context.Context, invoice *Invoice) error

	// Delete deletes an invoice and its items
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts invoices matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// GenerateInvoiceNumber returns the next free invoice number
	GenerateInvoiceNumber(ctx context.Context) (string, error)

	// ExistsByNumber checks if an invoice with the given number exists
	ExistsByNumber(ctx context.Context, number string) (bool, error)

	// UpdateEmbeddedItemStatus updates the denormalized status on every
	// invoice line item referencing one of the given sub-items
	UpdateEmbeddedItemStatus(ctx context.Context, subItemIDs []uuid.UUID, status catalog.ItemStatus) error

	// UpdateEmbeddedDeliveryStatus updates the delivery status on every
	// invoice line item referencing one of the given sub-items
	UpdateEmbeddedDeliveryStatus(ctx context.Context, subItemIDs []uuid.UUID, status DeliveryStatus) error
}

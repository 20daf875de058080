package accounting

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentalworks/backend/internal/domain/shared"
)

// FinancialRecordRepository defines the interface for financial record persistence
type FinancialRecordRepository interface {
	// FindByID finds a record by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*FinancialRecord, error)

	// FindBySerialNumber finds a record by its serial number
	FindBySerialNumber(ctx context.Context, serial string) (*FinancialRecord, error)

	// FindAll finds all records matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]FinancialRecord, error)

	// FindByKind finds records of one kind matching the filter
	FindByKind(ctx context.Context, kind RecordKind, filter shared.Filter) ([]FinancialRecord, error)

	// FindByEntity finds records referencing a customer or account
	FindByEntity(ctx context.Context, ref EntityRef, filter shared.Filter) ([]FinancialRecord, error)

	// FindByInvoice finds records related to an invoice
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]FinancialRecord, error)

	// Save creates or updates a record
	Save(ctx context.Context, record *FinancialRecord) error

	// Delete deletes a record
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteBatch deletes multiple records by ID. Returns the number deleted.
	DeleteBatch(ctx context.Context, ids []uuid.UUID) (int64, error)

	// Count counts records matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// GenerateSerialNumber returns the next free serial for the kind
	GenerateSerialNumber(ctx context.Context, kind RecordKind) (string, error)

	// ExistsBySerialNumber checks if a record with the serial exists
	ExistsBySerialNumber(ctx context.Context, serial string) (bool, error)
}

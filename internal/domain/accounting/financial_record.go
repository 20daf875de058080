package accounting

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentalworks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RecordKind discriminates receipts (money in), payments (money out)
// and generic ledger transactions. All three share one schema.
type RecordKind string

const (
	RecordKindReceipt     RecordKind = "receipt"
	RecordKindPayment     RecordKind = "payment"
	RecordKindTransaction RecordKind = "transaction"
)

// IsValid checks if the record kind is valid
func (k RecordKind) IsValid() bool {
	switch k {
	case RecordKindReceipt, RecordKindPayment, RecordKindTransaction:
		return true
	}
	return false
}

// SerialPrefix returns the serial number prefix for the kind
func (k RecordKind) SerialPrefix() string {
	switch k {
	case RecordKindReceipt:
		return "R"
	case RecordKindPayment:
		return "P"
	case RecordKindTransaction:
		return "T"
	}
	return ""
}

// PaymentMethod represents how money changed hands
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodUPI          PaymentMethod = "upi"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodUPI, PaymentMethodCard, PaymentMethodBankTransfer:
		return true
	}
	return false
}

// String returns the string representation
func (m PaymentMethod) String() string {
	return string(m)
}

// FinancialRecord represents one money movement: a receipt, payment or
// transaction. Records are immutable once created; they are only ever
// deleted, either explicitly or while rolling back a failed invoice save.
type FinancialRecord struct {
	shared.BaseAggregateRoot
	Kind             RecordKind `gorm:"type:varchar(20);not null;index"`
	EntityRef        `gorm:"embedded"`
	RelatedInvoiceID *uuid.UUID      `gorm:"type:uuid;index"`
	TransactionType  string          `gorm:"type:varchar(50)"`
	SerialNumber     string          `gorm:"type:varchar(20);not null;uniqueIndex"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Method           PaymentMethod   `gorm:"type:varchar(20);not null"`
	Date             time.Time       `gorm:"not null;index"`
	Note             string          `gorm:"type:text"`
	SourcePage       string          `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (FinancialRecord) TableName() string {
	return "financial_records"
}

// NewFinancialRecord creates a new financial record
func NewFinancialRecord(kind RecordKind, serialNumber string, ref EntityRef, amount decimal.Decimal, method PaymentMethod, date time.Time) (*FinancialRecord, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Record kind must be receipt, payment, or transaction")
	}
	if err := ValidateSerialNumber(kind, serialNumber); err != nil {
		return nil, err
	}
	if !ref.EntityType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTITY_TYPE", "Entity type must be 'customer' or 'account'")
	}
	if ref.EntityID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ENTITY", "Entity ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Method must be cash, upi, card, or bank_transfer")
	}
	if date.IsZero() {
		date = time.Now()
	}

	return &FinancialRecord{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Kind:              kind,
		EntityRef:         ref,
		SerialNumber:      serialNumber,
		Amount:            amount,
		Method:            method,
		Date:              date,
	}, nil
}

// RelateInvoice links the record to an invoice
func (r *FinancialRecord) RelateInvoice(invoiceID uuid.UUID) error {
	if invoiceID == uuid.Nil {
		return shared.NewDomainError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}
	r.RelatedInvoiceID = &invoiceID
	r.UpdatedAt = time.Now()
	return nil
}

// SetNote sets the free-text note
func (r *FinancialRecord) SetNote(note string) {
	r.Note = note
	r.UpdatedAt = time.Now()
}

// SetSource records the page or flow that created the record
func (r *FinancialRecord) SetSource(sourcePage string) {
	r.SourcePage = sourcePage
	r.UpdatedAt = time.Now()
}

// SetTransactionType sets the caller-defined transaction type label
func (r *FinancialRecord) SetTransactionType(transactionType string) {
	r.TransactionType = transactionType
	r.UpdatedAt = time.Now()
}

// Serial number helpers. Serials look like R001 or P042: the kind's
// prefix with a zero-padded sequence.

// FormatSerialNumber renders a sequence number as a serial for the kind
func FormatSerialNumber(kind RecordKind, seq int) string {
	return fmt.Sprintf("%s%03d", kind.SerialPrefix(), seq)
}

// ParseSerialNumber extracts the sequence number from a serial of the kind
func ParseSerialNumber(kind RecordKind, serial string) (int, error) {
	prefix := kind.SerialPrefix()
	if prefix == "" || !strings.HasPrefix(serial, prefix) {
		return 0, shared.NewDomainError("INVALID_SERIAL", "Serial number must start with "+prefix)
	}
	seq, err := strconv.Atoi(strings.TrimPrefix(serial, prefix))
	if err != nil {
		return 0, shared.NewDomainError("INVALID_SERIAL", "Serial number has no numeric suffix")
	}
	return seq, nil
}

// ValidateSerialNumber checks the prefix and numeric suffix for the kind
func ValidateSerialNumber(kind RecordKind, serial string) error {
	if serial == "" {
		return shared.NewDomainError("INVALID_SERIAL", "Serial number cannot be empty")
	}
	if len(serial) > 20 {
		return shared.NewDomainError("INVALID_SERIAL", "Serial number cannot exceed 20 characters")
	}
	_, err := ParseSerialNumber(kind, serial)
	return err
}

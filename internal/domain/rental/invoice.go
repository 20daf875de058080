package rental

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentalworks/backend/internal/domain/catalog"
	"github.com/rentalworks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the lifecycle status of an invoice.
// It is independent of PaymentStatus; both are set by callers.
type InvoiceStatus string

const (
	InvoiceStatusActive    InvoiceStatus = "active"
	InvoiceStatusReturned  InvoiceStatus = "returned"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusActive, InvoiceStatusReturned, InvoiceStatusCancelled:
		return true
	}
	return false
}

// PaymentStatus represents how much of the invoice total has been paid
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPartial   PaymentStatus = "partial"
	PaymentStatusCompleted PaymentStatus = "completed"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPartial, PaymentStatusCompleted:
		return true
	}
	return false
}

// ComputePaymentStatus derives the payment status from the paid and total amounts.
// completed if paid covers the total, partial if something was paid, pending otherwise.
func ComputePaymentStatus(paid, total decimal.Decimal) PaymentStatus {
	if paid.GreaterThanOrEqual(total) && total.GreaterThan(decimal.Zero) {
		return PaymentStatusCompleted
	}
	if paid.GreaterThan(decimal.Zero) {
		return PaymentStatusPartial
	}
	if total.IsZero() {
		return PaymentStatusCompleted
	}
	return PaymentStatusPending
}

// DeliveryStatus tracks delivery of a rented piece at the invoice-item level
type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "Pending"
	DeliveryStatusDelivered DeliveryStatus = "Delivered"
	DeliveryStatusOverdue   DeliveryStatus = "Overdue"
)

// IsValid checks if the status is a valid DeliveryStatus
func (s DeliveryStatus) IsValid() bool {
	switch s {
	case DeliveryStatusPending, DeliveryStatusDelivered, DeliveryStatusOverdue:
		return true
	}
	return false
}

// Measurement is a single tailoring measurement snapshot, e.g. chest 40.
type Measurement struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// InvoiceItem is a line item on an invoice. It holds a snapshot of the
// sub-item at rental time (rate, name, measurements), so later catalog
// edits do not change historical invoices. Status and DeliveryStatus are
// the exception: the synchronizer mutates them on this copy.
type InvoiceItem struct {
	ID             uuid.UUID          `gorm:"type:uuid;primaryKey"`
	InvoiceID      uuid.UUID          `gorm:"type:uuid;not null;index"`
	SubItemID      uuid.UUID          `gorm:"type:uuid;not null;index"`
	Name           string             `gorm:"type:varchar(200);not null"`
	Category       string             `gorm:"type:varchar(100)"`
	RentRate       decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
	Measurements   []Measurement      `gorm:"serializer:json;type:text"`
	Status         catalog.ItemStatus `gorm:"type:varchar(20);not null;default:'Rented'"`
	DeliveryStatus DeliveryStatus     `gorm:"type:varchar(20);not null;default:'Pending'"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName returns the table name for GORM
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// NewInvoiceItem creates a line item snapshot for a sub-item
func NewInvoiceItem(invoiceID uuid.UUID, subItem *catalog.SubItem, category string, measurements []Measurement) (*InvoiceItem, error) {
	if subItem == nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Sub-item is required")
	}

	now := time.Now()
	return &InvoiceItem{
		ID:             uuid.New(),
		InvoiceID:      invoiceID,
		SubItemID:      subItem.ID,
		Name:           subItem.Name,
		Category:       category,
		RentRate:       subItem.RentRate,
		Measurements:   measurements,
		Status:         catalog.ItemStatusRented,
		DeliveryStatus: DeliveryStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// UUIDList is a JSON-serialized list of identifiers stored in one column
type UUIDList []uuid.UUID

// Invoice represents one rental transaction aggregate root
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerName  string          `gorm:"type:varchar(200);not null"`
	Items         []InvoiceItem   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	AdvanceAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	BalanceAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DeliveryDate  *time.Time
	WeddingDate   *time.Time
	Status        InvoiceStatus `gorm:"type:varchar(20);not null;default:'active'"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	ReceiptIDs    UUIDList      `gorm:"serializer:json;type:text"`
	Notes         string        `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a new invoice for a customer
func NewInvoice(invoiceNumber string, customerID uuid.UUID, customerName string) (*Invoice, error) {
	if err := ValidateInvoiceNumber(invoiceNumber); err != nil {
		return nil, err
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}

	return &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		CustomerID:        customerID,
		CustomerName:      customerName,
		Items:             make([]InvoiceItem, 0),
		TotalAmount:       decimal.Zero,
		AdvanceAmount:     decimal.Zero,
		BalanceAmount:     decimal.Zero,
		Status:            InvoiceStatusActive,
		PaymentStatus:     PaymentStatusPending,
		ReceiptIDs:        make(UUIDList, 0),
	}, nil
}

// AddItem snapshots a sub-item onto the invoice and recalculates totals
func (inv *Invoice) AddItem(subItem *catalog.SubItem, category string, measurements []Measurement) (*InvoiceItem, error) {
	for _, item := range inv.Items {
		if item.SubItemID == subItem.GetID() {
			return nil, shared.NewDomainError("DUPLICATE_ITEM", "Item is already on this invoice")
		}
	}

	item, err := NewInvoiceItem(inv.ID, subItem, category, measurements)
	if err != nil {
		return nil, err
	}

	inv.Items = append(inv.Items, *item)
	inv.recalculateTotals()
	inv.UpdatedAt = time.Now()

	return item, nil
}

// ReplaceItems swaps the invoice's item list, keeping totals consistent.
// Used by the edit path after diffing old vs new item sets.
func (inv *Invoice) ReplaceItems(items []InvoiceItem) {
	for i := range items {
		items[i].InvoiceID = inv.ID
	}
	inv.Items = items
	inv.recalculateTotals()
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
}

// RemoveItem removes a line item by sub-item ID and recalculates totals
func (inv *Invoice) RemoveItem(subItemID uuid.UUID) error {
	for i, item := range inv.Items {
		if item.SubItemID == subItemID {
			inv.Items = append(inv.Items[:i], inv.Items[i+1:]...)
			inv.recalculateTotals()
			inv.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Item not found on this invoice")
}

// SubItemIDs returns the sub-item IDs referenced by the invoice's line items
func (inv *Invoice) SubItemIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(inv.Items))
	for _, item := range inv.Items {
		ids = append(ids, item.SubItemID)
	}
	return ids
}

// ApplyPayment records the total paid amount and derives payment status
// and balance. The invariant BalanceAmount = TotalAmount - AdvanceAmount
// always holds after this call.
func (inv *Invoice) ApplyPayment(paid decimal.Decimal) error {
	if paid.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Paid amount cannot be negative")
	}

	inv.AdvanceAmount = paid
	inv.BalanceAmount = inv.TotalAmount.Sub(paid)
	inv.PaymentStatus = ComputePaymentStatus(paid, inv.TotalAmount)
	inv.UpdatedAt = time.Now()

	return nil
}

// AttachReceipts records the financial records backing the advance amount
func (inv *Invoice) AttachReceipts(receiptIDs []uuid.UUID) {
	inv.ReceiptIDs = receiptIDs
	inv.UpdatedAt = time.Now()
}

// SetDates sets the delivery and wedding dates
func (inv *Invoice) SetDates(deliveryDate, weddingDate *time.Time) {
	inv.DeliveryDate = deliveryDate
	inv.WeddingDate = weddingDate
	inv.UpdatedAt = time.Now()
}

// SetStatus sets the lifecycle status
func (inv *Invoice) SetStatus(status InvoiceStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid invoice status: "+string(status))
	}
	inv.Status = status
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
	return nil
}

func (inv *Invoice) recalculateTotals() {
	total := decimal.Zero
	for _, item := range inv.Items {
		total = total.Add(item.RentRate)
	}
	inv.TotalAmount = total
	inv.BalanceAmount = total.Sub(inv.AdvanceAmount)
	inv.PaymentStatus = ComputePaymentStatus(inv.AdvanceAmount, total)
}

// Invoice number helpers. Numbers look like INV004: a fixed prefix with a
// zero-padded sequence.

const invoiceNumberPrefix = "INV"

// FormatInvoiceNumber renders a sequence number as an invoice number
func FormatInvoiceNumber(seq int) string {
	return fmt.Sprintf("%s%03d", invoiceNumberPrefix, seq)
}

// ParseInvoiceNumber extracts the sequence number from an invoice number
func ParseInvoiceNumber(number string) (int, error) {
	if !strings.HasPrefix(number, invoiceNumberPrefix) {
		return 0, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number must start with "+invoiceNumberPrefix)
	}
	seq, err := strconv.Atoi(strings.TrimPrefix(number, invoiceNumberPrefix))
	if err != nil {
		return 0, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number has no numeric suffix")
	}
	return seq, nil
}

// ValidateInvoiceNumber checks the INV prefix and numeric suffix
func ValidateInvoiceNumber(number string) error {
	if number == "" {
		return shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if len(number) > 50 {
		return shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot exceed 50 characters")
	}
	_, err := ParseInvoiceNumber(number)
	return err
}

// NeighborInvoiceNumber computes the previous or next invoice number.
// Refuses to navigate below invoice 1.
func NeighborInvoiceNumber(number string, delta int) (string, error) {
	seq, err := ParseInvoiceNumber(number)
	if err != nil {
		return "", err
	}
	next := seq + delta
	if next < 1 {
		return "", shared.NewDomainError("INVALID_INVOICE_NUMBER", "No invoice before "+FormatInvoiceNumber(1))
	}
	return FormatInvoiceNumber(next), nil
}

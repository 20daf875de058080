package rental

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentalworks/backend/internal/domain/rental"
	"github.com/shopspring/decimal"
)

// MeasurementRequest is one tailoring measurement on a line item
type MeasurementRequest struct {
	Label string `json:"label" binding:"required,max=100"`
	Value string `json:"value" binding:"required,max=100"`
}

// InvoiceItemRequest selects a sub-item for an invoice
type InvoiceItemRequest struct {
	SubItemID    uuid.UUID            `json:"sub_item_id" binding:"required"`
	Measurements []MeasurementRequest `json:"measurements" binding:"omitempty,dive"`
}

// ReceiptRequest describes an advance payment collected with the invoice
type ReceiptRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Method string          `json:"method" binding:"required,oneof=cash upi card bank_transfer"`
	Date   *time.Time      `json:"date"`
	Note   string          `json:"note"`
}

// CreateInvoiceRequest represents a request to create an invoice.
// The invoice number is generated server-side when omitted.
type CreateInvoiceRequest struct {
	InvoiceNumber string               `json:"invoice_number" binding:"omitempty,max=50"`
	CustomerID    uuid.UUID            `json:"customer_id" binding:"required"`
	Items         []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
	Receipts      []ReceiptRequest     `json:"receipts" binding:"omitempty,dive"`
	DeliveryDate  *time.Time           `json:"delivery_date"`
	WeddingDate   *time.Time           `json:"wedding_date"`
	Notes         string               `json:"notes"`
}

// UpdateInvoiceRequest represents a request to edit an invoice. Items, when
// present, replace the current item set; receipts are appended to the ones
// already attached.
type UpdateInvoiceRequest struct {
	Items        []InvoiceItemRequest `json:"items" binding:"omitempty,dive"`
	Receipts     []ReceiptRequest     `json:"receipts" binding:"omitempty,dive"`
	DeliveryDate *time.Time           `json:"delivery_date"`
	WeddingDate  *time.Time           `json:"wedding_date"`
	Notes        *string              `json:"notes"`
	Status       *string              `json:"status" binding:"omitempty,oneof=active returned cancelled"`
}

// ItemStatusSyncRequest updates the rental status of sub-items and the
// denormalized copies on invoice line items together
type ItemStatusSyncRequest struct {
	SubItemIDs []uuid.UUID `json:"sub_item_ids" binding:"required,min=1"`
	Status     string      `json:"status" binding:"required"`
}

// DeliveryStatusSyncRequest updates the delivery status on invoice line items
type DeliveryStatusSyncRequest struct {
	SubItemIDs []uuid.UUID `json:"sub_item_ids" binding:"required,min=1"`
	Status     string      `json:"status" binding:"required,oneof=Pending Delivered Overdue"`
}

// InvoiceListFilter represents filter options for invoice lists
type InvoiceListFilter struct {
	Search        string     `form:"search"`
	Status        string     `form:"status" binding:"omitempty,oneof=active returned cancelled"`
	PaymentStatus string     `form:"payment_status" binding:"omitempty,oneof=pending partial completed"`
	CustomerID    *uuid.UUID `form:"customer_id"`
	Page          int        `form:"page" binding:"omitempty,min=1"`
	PageSize      int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy       string     `form:"order_by"`
	OrderDir      string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// MeasurementResponse is one measurement in API responses
type MeasurementResponse struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// InvoiceItemResponse represents an invoice line item in API responses
type InvoiceItemResponse struct {
	ID             uuid.UUID             `json:"id"`
	SubItemID      uuid.UUID             `json:"sub_item_id"`
	Name           string                `json:"name"`
	Category       string                `json:"category,omitempty"`
	RentRate       decimal.Decimal       `json:"rent_rate"`
	Measurements   []MeasurementResponse `json:"measurements"`
	Status         string                `json:"status"`
	DeliveryStatus string                `json:"delivery_status"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID            uuid.UUID             `json:"id"`
	InvoiceNumber string                `json:"invoice_number"`
	CustomerID    uuid.UUID             `json:"customer_id"`
	CustomerName  string                `json:"customer_name"`
	Items         []InvoiceItemResponse `json:"items"`
	TotalAmount   decimal.Decimal       `json:"total_amount"`
	AdvanceAmount decimal.Decimal       `json:"advance_amount"`
	BalanceAmount decimal.Decimal       `json:"balance_amount"`
	DeliveryDate  *time.Time            `json:"delivery_date,omitempty"`
	WeddingDate   *time.Time            `json:"wedding_date,omitempty"`
	Status        string                `json:"status"`
	PaymentStatus string                `json:"payment_status"`
	ReceiptIDs    []uuid.UUID           `json:"receipt_ids"`
	Notes         string                `json:"notes,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// ToInvoiceItemResponse converts a domain line item to a response DTO
func ToInvoiceItemResponse(item *rental.InvoiceItem) InvoiceItemResponse {
	measurements := make([]MeasurementResponse, len(item.Measurements))
	for i, m := range item.Measurements {
		measurements[i] = MeasurementResponse{Label: m.Label, Value: m.Value}
	}
	return InvoiceItemResponse{
		ID:             item.ID,
		SubItemID:      item.SubItemID,
		Name:           item.Name,
		Category:       item.Category,
		RentRate:       item.RentRate,
		Measurements:   measurements,
		Status:         string(item.Status),
		DeliveryStatus: string(item.DeliveryStatus),
	}
}

// ToInvoiceResponse converts a domain invoice to a response DTO
func ToInvoiceResponse(inv *rental.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, len(inv.Items))
	for i := range inv.Items {
		items[i] = ToInvoiceItemResponse(&inv.Items[i])
	}
	return InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		CustomerID:    inv.CustomerID,
		CustomerName:  inv.CustomerName,
		Items:         items,
		TotalAmount:   inv.TotalAmount,
		AdvanceAmount: inv.AdvanceAmount,
		BalanceAmount: inv.BalanceAmount,
		DeliveryDate:  inv.DeliveryDate,
		WeddingDate:   inv.WeddingDate,
		Status:        string(inv.Status),
		PaymentStatus: string(inv.PaymentStatus),
		ReceiptIDs:    inv.ReceiptIDs,
		Notes:         inv.Notes,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}

// ToInvoiceResponses converts a slice of domain invoices to response DTOs
func ToInvoiceResponses(invoices []rental.Invoice) []InvoiceResponse {
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	return responses
}

func toMeasurements(reqs []MeasurementRequest) []rental.Measurement {
	measurements := make([]rental.Measurement, len(reqs))
	for i, m := range reqs {
		measurements[i] = rental.Measurement{Label: m.Label, Value: m.Value}
	}
	return measurements
}

package accounting

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentalworks/backend/internal/domain/accounting"
	"github.com/shopspring/decimal"
)

// CreateRecordRequest represents a request to create one financial record.
// The serial number is always generated server-side.
type CreateRecordRequest struct {
	Kind             string          `json:"kind" binding:"required,oneof=receipt payment transaction"`
	EntityType       string          `json:"entity_type" binding:"required,oneof=customer account"`
	EntityID         uuid.UUID       `json:"entity_id" binding:"required"`
	RelatedInvoiceID *uuid.UUID      `json:"related_invoice_id"`
	TransactionType  string          `json:"transaction_type" binding:"omitempty,max=50"`
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	Method           string          `json:"method" binding:"required,oneof=cash upi card bank_transfer"`
	Date             *time.Time      `json:"date"`
	Note             string          `json:"note"`
	SourcePage       string          `json:"source_page" binding:"omitempty,max=100"`
}

// CreateRecordBatchRequest creates several records in one call
type CreateRecordBatchRequest struct {
	Records []CreateRecordRequest `json:"records" binding:"required,min=1,dive"`
}

// DeleteRecordBatchRequest deletes several records in one call
type DeleteRecordBatchRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required,min=1"`
}

// RecordListFilter represents filter options for record lists
type RecordListFilter struct {
	Kind       string     `form:"kind" binding:"omitempty,oneof=receipt payment transaction"`
	EntityType string     `form:"entity_type" binding:"omitempty,oneof=customer account"`
	EntityID   *uuid.UUID `form:"entity_id"`
	InvoiceID  *uuid.UUID `form:"invoice_id"`
	Method     string     `form:"method" binding:"omitempty,oneof=cash upi card bank_transfer"`
	Search     string     `form:"search"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// RecordResponse represents a financial record in API responses
type RecordResponse struct {
	ID               uuid.UUID       `json:"id"`
	Kind             string          `json:"kind"`
	EntityType       string          `json:"entity_type"`
	EntityID         uuid.UUID       `json:"entity_id"`
	RelatedInvoiceID *uuid.UUID      `json:"related_invoice_id,omitempty"`
	TransactionType  string          `json:"transaction_type,omitempty"`
	SerialNumber     string          `json:"serial_number"`
	Amount           decimal.Decimal `json:"amount"`
	Method           string          `json:"method"`
	Date             time.Time       `json:"date"`
	Note             string          `json:"note,omitempty"`
	SourcePage       string          `json:"source_page,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// BatchItemError describes why one entry of a batch failed
type BatchItemError struct {
	Index   int    `json:"index"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RecordBatchResult is the outcome of a batch create: the records that
// made it plus an error per entry that did not
type RecordBatchResult struct {
	Created []RecordResponse `json:"created"`
	Errors  []BatchItemError `json:"errors"`
}

// AllFailed returns true if not a single entry succeeded
func (r RecordBatchResult) AllFailed() bool {
	return len(r.Created) == 0 && len(r.Errors) > 0
}

// Partial returns true if some entries succeeded and some failed
func (r RecordBatchResult) Partial() bool {
	return len(r.Created) > 0 && len(r.Errors) > 0
}

// CreateAccountRequest represents a request to create a ledger account
type CreateAccountRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=200"`
	Type     string `json:"type" binding:"required,oneof=income expense asset liability"`
	Category string `json:"category" binding:"omitempty,max=100"`
}

// UpdateAccountRequest represents a request to update a ledger account
type UpdateAccountRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=200"`
	Type     *string `json:"type" binding:"omitempty,oneof=income expense asset liability"`
	Category *string `json:"category" binding:"omitempty,max=100"`
}

// AccountListFilter represents filter options for account lists
type AccountListFilter struct {
	Type     string `form:"type" binding:"omitempty,oneof=income expense asset liability"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// AccountResponse represents a ledger account in API responses
type AccountResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
	Category  string          `json:"category,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ToRecordResponse converts a domain record to a response DTO
func ToRecordResponse(r *accounting.FinancialRecord) RecordResponse {
	return RecordResponse{
		ID:               r.ID,
		Kind:             string(r.Kind),
		EntityType:       string(r.EntityType),
		EntityID:         r.EntityID,
		RelatedInvoiceID: r.RelatedInvoiceID,
		TransactionType:  r.TransactionType,
		SerialNumber:     r.SerialNumber,
		Amount:           r.Amount,
		Method:           string(r.Method),
		Date:             r.Date,
		Note:             r.Note,
		SourcePage:       r.SourcePage,
		CreatedAt:        r.CreatedAt,
	}
}

// ToRecordResponses converts a slice of domain records to response DTOs
func ToRecordResponses(records []accounting.FinancialRecord) []RecordResponse {
	responses := make([]RecordResponse, len(records))
	for i := range records {
		responses[i] = ToRecordResponse(&records[i])
	}
	return responses
}

// ToAccountResponse converts a domain account to a response DTO
func ToAccountResponse(a *accounting.Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Type:      string(a.Type),
		Balance:   a.Balance.Amount(),
		Category:  a.Category,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// ToAccountResponses converts a slice of domain accounts to response DTOs
func ToAccountResponses(accounts []accounting.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}

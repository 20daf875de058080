package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentalworks/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateMasterItemRequest represents a request to create a master item
type CreateMasterItemRequest struct {
	Code     string `json:"code" binding:"required,min=1,max=50"`
	Name     string `json:"name" binding:"required,min=1,max=200"`
	Category string `json:"category" binding:"omitempty,max=100"`
	ImageURL string `json:"image_url" binding:"omitempty,max=2000"`
}

// UpdateMasterItemRequest represents a request to update a master item
type UpdateMasterItemRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=200"`
	Category *string `json:"category" binding:"omitempty,max=100"`
	ImageURL *string `json:"image_url" binding:"omitempty,max=2000"`
}

// CreateSubItemRequest represents a request to create a sub-item.
// The code is derived server-side from the master item's code.
type CreateSubItemRequest struct {
	MasterItemID uuid.UUID       `json:"master_item_id" binding:"required"`
	Name         string          `json:"name" binding:"required,min=1,max=200"`
	RentRate     decimal.Decimal `json:"rent_rate"`
	Description  string          `json:"description"`
	ImageURL     string          `json:"image_url" binding:"omitempty,max=2000"`
}

// UpdateSubItemRequest represents a request to update a sub-item
type UpdateSubItemRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	RentRate    *decimal.Decimal `json:"rent_rate"`
	Description *string          `json:"description"`
	ImageURL    *string          `json:"image_url" binding:"omitempty,max=2000"`
	Status      *string          `json:"status" binding:"omitempty"`
}

// UpdateItemStatusRequest updates the status of one or more sub-items
type UpdateItemStatusRequest struct {
	SubItemIDs []uuid.UUID `json:"sub_item_ids" binding:"required,min=1"`
	Status     string      `json:"status" binding:"required"`
}

// ItemListFilter represents filter options for item lists
type ItemListFilter struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Status   string `form:"status"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// MasterItemResponse represents a master item in API responses
type MasterItemResponse struct {
	ID           uuid.UUID `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Category     string    `json:"category,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	SubItemCount int64     `json:"sub_item_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SubItemResponse represents a sub-item in API responses
type SubItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	MasterItemID uuid.UUID       `json:"master_item_id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	RentRate     decimal.Decimal `json:"rent_rate"`
	Description  string          `json:"description,omitempty"`
	ImageURL     string          `json:"image_url,omitempty"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToMasterItemResponse converts a domain master item to a response DTO
func ToMasterItemResponse(m *catalog.MasterItem, subItemCount int64) MasterItemResponse {
	return MasterItemResponse{
		ID:           m.ID,
		Code:         m.Code,
		Name:         m.Name,
		Category:     m.Category,
		ImageURL:     m.ImageURL,
		SubItemCount: subItemCount,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// ToSubItemResponse converts a domain sub-item to a response DTO
func ToSubItemResponse(s *catalog.SubItem) SubItemResponse {
	return SubItemResponse{
		ID:           s.ID,
		MasterItemID: s.MasterItemID,
		Code:         s.Code,
		Name:         s.Name,
		RentRate:     s.RentRate,
		Description:  s.Description,
		ImageURL:     s.ImageURL,
		Status:       string(s.Status),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// ToSubItemResponses converts a slice of domain sub-items to response DTOs
func ToSubItemResponses(items []catalog.SubItem) []SubItemResponse {
	responses := make([]SubItemResponse, len(items))
	for i := range items {
		responses[i] = ToSubItemResponse(&items[i])
	}
	return responses
}

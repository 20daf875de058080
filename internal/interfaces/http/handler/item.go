package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/rentalworks/backend/internal/application/catalog"
)

// ItemHandler handles master item and sub-item API endpoints
type ItemHandler struct {
	BaseHandler
	itemService *catalogapp.ItemService
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(itemService *catalogapp.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// CreateMaster handles POST /catalog/items
func (h *ItemHandler) CreateMaster(c *gin.Context) {
	var req catalogapp.CreateMasterItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.itemService.CreateMaster(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetMasterByID handles GET /catalog/items/:id
func (h *ItemHandler) GetMasterByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	resp, err := h.itemService.GetMasterByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListMasters handles GET /catalog/items
func (h *ItemHandler) ListMasters(c *gin.Context) {
	var filter catalogapp.ItemListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	items, total, err := h.itemService.ListMasters(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, pageOf(filter.Page), pageSizeOf(filter.PageSize))
}

// UpdateMaster handles PUT /catalog/items/:id
func (h *ItemHandler) UpdateMaster(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	var req catalogapp.UpdateMasterItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.itemService.UpdateMaster(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteMaster handles DELETE /catalog/items/:id
func (h *ItemHandler) DeleteMaster(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	if err := h.itemService.DeleteMaster(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListSubsByMaster handles GET /catalog/items/:id/sub-items
func (h *ItemHandler) ListSubsByMaster(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	var filter catalogapp.ItemListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	items, err := h.itemService.ListSubsByMaster(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// CreateSub handles POST /catalog/sub-items
func (h *ItemHandler) CreateSub(c *gin.Context) {
	var req catalogapp.CreateSubItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.itemService.CreateSub(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetSubByID handles GET /catalog/sub-items/:id
func (h *ItemHandler) GetSubByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid sub-item ID")
		return
	}

	resp, err := h.itemService.GetSubByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListSubs handles GET /catalog/sub-items
func (h *ItemHandler) ListSubs(c *gin.Context) {
	var filter catalogapp.ItemListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	items, total, err := h.itemService.ListSubs(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, pageOf(filter.Page), pageSizeOf(filter.PageSize))
}

// UpdateSub handles PUT /catalog/sub-items/:id
func (h *ItemHandler) UpdateSub(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid sub-item ID")
		return
	}

	var req catalogapp.UpdateSubItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.itemService.UpdateSub(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteSub handles DELETE /catalog/sub-items/:id
func (h *ItemHandler) DeleteSub(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid sub-item ID")
		return
	}

	if err := h.itemService.DeleteSub(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UpdateStatus handles PUT /catalog/sub-items/status
func (h *ItemHandler) UpdateStatus(c *gin.Context) {
	var req catalogapp.UpdateItemStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.itemService.UpdateStatus(c.Request.Context(), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"updated": len(req.SubItemIDs)})
}

func pageOf(page int) int {
	if page == 0 {
		return 1
	}
	return page
}

func pageSizeOf(pageSize int) int {
	if pageSize == 0 {
		return 20
	}
	return pageSize
}

package handler

import (
	"github.com/gin-gonic/gin"
	rentalapp "github.com/rentalworks/backend/internal/application/rental"
)

// InvoiceHandler handles invoice API endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *rentalapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *rentalapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Create handles POST /rental/invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req rentalapp.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.invoiceService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID handles GET /rental/invoices/:id
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	resp, err := h.invoiceService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByNumber handles GET /rental/invoices/number/:number
func (h *InvoiceHandler) GetByNumber(c *gin.Context) {
	resp, err := h.invoiceService.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetLatest handles GET /rental/invoices/latest
func (h *InvoiceHandler) GetLatest(c *gin.Context) {
	resp, err := h.invoiceService.GetLatest(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetPrevious handles GET /rental/invoices/number/:number/previous
func (h *InvoiceHandler) GetPrevious(c *gin.Context) {
	resp, err := h.invoiceService.GetNeighbor(c.Request.Context(), c.Param("number"), -1)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetNext handles GET /rental/invoices/number/:number/next
func (h *InvoiceHandler) GetNext(c *gin.Context) {
	resp, err := h.invoiceService.GetNeighbor(c.Request.Context(), c.Param("number"), 1)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /rental/invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	var filter rentalapp.InvoiceListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoices, total, err := h.invoiceService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, invoices, total, pageOf(filter.Page), pageSizeOf(filter.PageSize))
}

// Update handles PUT /rental/invoices/:id
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req rentalapp.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.invoiceService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /rental/invoices/:id
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UpdateItemStatus handles PUT /rental/items/status
func (h *InvoiceHandler) UpdateItemStatus(c *gin.Context) {
	var req rentalapp.ItemStatusSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.invoiceService.UpdateItemStatus(c.Request.Context(), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"updated": len(req.SubItemIDs)})
}

// UpdateDeliveryStatus handles PUT /rental/items/delivery-status
func (h *InvoiceHandler) UpdateDeliveryStatus(c *gin.Context) {
	var req rentalapp.DeliveryStatusSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.invoiceService.UpdateDeliveryStatus(c.Request.Context(), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"updated": len(req.SubItemIDs)})
}

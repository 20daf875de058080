package handler

import (
	"github.com/gin-gonic/gin"
	accountingapp "github.com/rentalworks/backend/internal/application/accounting"
)

// RecordHandler handles financial record API endpoints
type RecordHandler struct {
	BaseHandler
	recordService *accountingapp.RecordService
}

// NewRecordHandler creates a new RecordHandler
func NewRecordHandler(recordService *accountingapp.RecordService) *RecordHandler {
	return &RecordHandler{recordService: recordService}
}

// Create handles POST /accounting/records
func (h *RecordHandler) Create(c *gin.Context) {
	var req accountingapp.CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.recordService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// CreateBatch handles POST /accounting/records/batch. A fully successful
// batch returns 201; any batch with failed entries returns 207 with a
// per-entry error list so the caller can retry just those.
func (h *RecordHandler) CreateBatch(c *gin.Context) {
	var req accountingapp.CreateRecordBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.recordService.CreateBatch(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if result.Partial() || result.AllFailed() {
		h.MultiStatus(c, result)
		return
	}
	h.Created(c, result)
}

// GetByID handles GET /accounting/records/:id
func (h *RecordHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid record ID")
		return
	}

	resp, err := h.recordService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetBySerialNumber handles GET /accounting/records/serial/:serial
func (h *RecordHandler) GetBySerialNumber(c *gin.Context) {
	resp, err := h.recordService.GetBySerialNumber(c.Request.Context(), c.Param("serial"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /accounting/records
func (h *RecordHandler) List(c *gin.Context) {
	var filter accountingapp.RecordListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	records, total, err := h.recordService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, records, total, pageOf(filter.Page), pageSizeOf(filter.PageSize))
}

// ListByInvoice handles GET /accounting/records/invoice/:id
func (h *RecordHandler) ListByInvoice(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	records, err := h.recordService.ListByInvoice(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, records)
}

// Delete handles DELETE /accounting/records/:id
func (h *RecordHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid record ID")
		return
	}

	if err := h.recordService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// DeleteBatch handles POST /accounting/records/batch-delete
func (h *RecordHandler) DeleteBatch(c *gin.Context) {
	var req accountingapp.DeleteRecordBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	deleted, err := h.recordService.DeleteBatch(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"deleted": deleted})
}

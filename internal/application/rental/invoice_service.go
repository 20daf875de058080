package rental

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rentalworks/backend/internal/domain/accounting"
	"github.com/rentalworks/backend/internal/domain/catalog"
	"github.com/rentalworks/backend/internal/domain/partner"
	"github.com/rentalworks/backend/internal/domain/rental"
	"github.com/rentalworks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InvoicePolicy holds behavior toggles for invoice creation
type InvoicePolicy struct {
	// RejectDoubleBooking refuses invoices that reference sub-items which
	// are not currently Available. Off by default: the shop resolves
	// double bookings manually.
	RejectDoubleBooking bool
}

// InvoiceService handles the invoice lifecycle: creation with advance
// receipts, item status synchronization, edits, and navigation.
type InvoiceService struct {
	invoiceRepo  rental.InvoiceRepository
	customerRepo partner.CustomerRepository
	masterRepo   catalog.MasterItemRepository
	subRepo      catalog.SubItemRepository
	recordRepo   accounting.FinancialRecordRepository
	policy       InvoicePolicy
	logger       *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo rental.InvoiceRepository,
	customerRepo partner.CustomerRepository,
	masterRepo catalog.MasterItemRepository,
	subRepo catalog.SubItemRepository,
	recordRepo accounting.FinancialRecordRepository,
	policy InvoicePolicy,
	logger *zap.Logger,
) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		masterRepo:   masterRepo,
		subRepo:      subRepo,
		recordRepo:   recordRepo,
		policy:       policy,
		logger:       logger.Named("invoice-service"),
	}
}

// Create creates an invoice together with its advance receipts and marks the
// rented pieces. Receipts are persisted before the invoice; if the invoice
// save fails they are rolled back. If marking the pieces fails the invoice is
// rolled back but the receipts are left in place.
func (s *InvoiceService) Create(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	number := req.InvoiceNumber
	if number == "" {
		number, err = s.invoiceRepo.GenerateInvoiceNumber(ctx)
		if err != nil {
			return nil, err
		}
	} else {
		exists, err := s.invoiceRepo.ExistsByNumber(ctx, number)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("DUPLICATE_INVOICE_NUMBER", "Invoice number "+number+" already exists")
		}
	}

	subItems, err := s.loadSubItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	if err := s.checkAvailability(subItems); err != nil {
		return nil, err
	}

	invoice, err := rental.NewInvoice(number, customer.ID, customer.Name)
	if err != nil {
		return nil, err
	}
	invoice.SetDates(req.DeliveryDate, req.WeddingDate)
	invoice.Notes = req.Notes

	categories, err := s.loadCategories(ctx, subItems)
	if err != nil {
		return nil, err
	}
	for _, itemReq := range req.Items {
		sub := subItems[itemReq.SubItemID]
		if _, err := invoice.AddItem(sub, categories[sub.MasterItemID], toMeasurements(itemReq.Measurements)); err != nil {
			return nil, err
		}
	}

	receiptIDs, paid, err := s.createReceipts(ctx, customer.ID, invoice.ID, req.Receipts)
	if err != nil {
		return nil, err
	}

	if err := invoice.ApplyPayment(paid); err != nil {
		if rollbackErr := s.rollbackReceipts(ctx, receiptIDs, number); rollbackErr != nil {
			return nil, rollbackErr
		}
		return nil, err
	}
	invoice.AttachReceipts(receiptIDs)

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		if rollbackErr := s.rollbackReceipts(ctx, receiptIDs, number); rollbackErr != nil {
			return nil, rollbackErr
		}
		return nil, err
	}

	// Receipts are not rolled back on this path.
	if err := s.syncItemStatus(ctx, invoice.SubItemIDs(), catalog.ItemStatusRented); err != nil {
		if deleteErr := s.invoiceRepo.Delete(ctx, invoice.ID); deleteErr != nil {
			s.logger.Error("failed to roll back invoice after status sync failure",
				zap.String("invoice_number", number),
				zap.Error(deleteErr))
			return nil, shared.NewCompensationError(
				fmt.Sprintf("invoice %s could not be removed after item status update failed", number))
		}
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByID retrieves an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByNumber retrieves an invoice by its invoice number
func (s *InvoiceService) GetByNumber(ctx context.Context, number string) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetLatest retrieves the invoice with the highest invoice number
func (s *InvoiceService) GetLatest(ctx context.Context) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindLatest(ctx)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetNeighbor retrieves the invoice delta positions away in number order.
// delta is typically -1 (previous) or +1 (next).
func (s *InvoiceService) GetNeighbor(ctx context.Context, number string, delta int) (*InvoiceResponse, error) {
	neighbor, err := rental.NeighborInvoiceNumber(number, delta)
	if err != nil {
		return nil, err
	}
	invoice, err := s.invoiceRepo.FindByNumber(ctx, neighbor)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// List retrieves invoices with filtering and pagination
func (s *InvoiceService) List(ctx context.Context, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	domainFilter := shared.NewFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.PaymentStatus != "" {
		domainFilter.Filters["payment_status"] = filter.PaymentStatus
	}
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}

	invoices, err := s.invoiceRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.invoiceRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToInvoiceResponses(invoices), total, nil
}

// Update edits an invoice. When the request carries items they replace the
// current set: pieces dropped from the invoice go back to Available, newly
// added pieces go to Rented. New receipts are appended to the advance.
func (s *InvoiceService) Update(ctx context.Context, id uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var freed, added []uuid.UUID
	if req.Items != nil {
		oldIDs := invoice.SubItemIDs()

		subItems, err := s.loadSubItems(ctx, req.Items)
		if err != nil {
			return nil, err
		}
		categories, err := s.loadCategories(ctx, subItems)
		if err != nil {
			return nil, err
		}

		newItems := make([]rental.InvoiceItem, 0, len(req.Items))
		for _, itemReq := range req.Items {
			sub := subItems[itemReq.SubItemID]
			item, err := rental.NewInvoiceItem(invoice.ID, sub, categories[sub.MasterItemID], toMeasurements(itemReq.Measurements))
			if err != nil {
				return nil, err
			}
			newItems = append(newItems, *item)
		}
		invoice.ReplaceItems(newItems)

		freed, added = diffIDs(oldIDs, invoice.SubItemIDs())
	}

	if req.DeliveryDate != nil || req.WeddingDate != nil {
		deliveryDate := invoice.DeliveryDate
		weddingDate := invoice.WeddingDate
		if req.DeliveryDate != nil {
			deliveryDate = req.DeliveryDate
		}
		if req.WeddingDate != nil {
			weddingDate = req.WeddingDate
		}
		invoice.SetDates(deliveryDate, weddingDate)
	}
	if req.Notes != nil {
		invoice.Notes = *req.Notes
	}
	if req.Status != nil {
		if err := invoice.SetStatus(rental.InvoiceStatus(*req.Status)); err != nil {
			return nil, err
		}
	}

	receiptIDs, newlyPaid, err := s.createReceipts(ctx, invoice.CustomerID, invoice.ID, req.Receipts)
	if err != nil {
		return nil, err
	}
	if len(receiptIDs) > 0 {
		if err := invoice.ApplyPayment(invoice.AdvanceAmount.Add(newlyPaid)); err != nil {
			if rollbackErr := s.rollbackReceipts(ctx, receiptIDs, invoice.InvoiceNumber); rollbackErr != nil {
				return nil, rollbackErr
			}
			return nil, err
		}
		invoice.AttachReceipts(append(invoice.ReceiptIDs, receiptIDs...))
	} else if req.Items != nil {
		// ReplaceItems changed the total; rederive balance and payment status.
		if err := invoice.ApplyPayment(invoice.AdvanceAmount); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		if rollbackErr := s.rollbackReceipts(ctx, receiptIDs, invoice.InvoiceNumber); rollbackErr != nil {
			return nil, rollbackErr
		}
		return nil, err
	}

	if err := s.syncItemStatus(ctx, freed, catalog.ItemStatusAvailable); err != nil {
		return nil, err
	}
	if err := s.syncItemStatus(ctx, added, catalog.ItemStatusRented); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Delete deletes an invoice, returns its pieces to Available, and removes
// the financial records attached to it.
func (s *InvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.invoiceRepo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.syncItemStatus(ctx, invoice.SubItemIDs(), catalog.ItemStatusAvailable); err != nil {
		return err
	}

	records, err := s.recordRepo.FindByInvoice(ctx, id)
	if err != nil {
		return err
	}
	if len(records) > 0 {
		ids := make([]uuid.UUID, len(records))
		for i := range records {
			ids[i] = records[i].ID
		}
		if _, err := s.recordRepo.DeleteBatch(ctx, ids); err != nil {
			return err
		}
	}

	return nil
}

// UpdateItemStatus sets the rental status on the given sub-items and on
// every invoice line item that references them, keeping the two in step.
func (s *InvoiceService) UpdateItemStatus(ctx context.Context, req ItemStatusSyncRequest) error {
	status := catalog.ItemStatus(req.Status)
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid item status: "+req.Status)
	}

	return s.syncItemStatus(ctx, req.SubItemIDs, status)
}

// UpdateDeliveryStatus sets the delivery status on every invoice line item
// referencing the given sub-items
func (s *InvoiceService) UpdateDeliveryStatus(ctx context.Context, req DeliveryStatusSyncRequest) error {
	status := rental.DeliveryStatus(req.Status)
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid delivery status: "+req.Status)
	}
	return s.invoiceRepo.UpdateEmbeddedDeliveryStatus(ctx, req.SubItemIDs, status)
}

// syncItemStatus flips the rental status on the sub-item rows and on every
// invoice line item referencing them. The two updates are independent paths
// over denormalized copies of the same field; with double booking allowed,
// other invoices can reference the same sub-items and their embedded copies
// must follow.
func (s *InvoiceService) syncItemStatus(ctx context.Context, subItemIDs []uuid.UUID, status catalog.ItemStatus) error {
	if len(subItemIDs) == 0 {
		return nil
	}
	if err := s.subRepo.UpdateStatusBulk(ctx, subItemIDs, status); err != nil {
		return err
	}
	return s.invoiceRepo.UpdateEmbeddedItemStatus(ctx, subItemIDs, status)
}

// loadSubItems loads and indexes the sub-items referenced by the request,
// failing if any is missing
func (s *InvoiceService) loadSubItems(ctx context.Context, items []InvoiceItemRequest) (map[uuid.UUID]*catalog.SubItem, error) {
	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.SubItemID
	}

	found, err := s.subRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*catalog.SubItem, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, shared.NewDomainError("ITEM_NOT_FOUND", "Sub-item "+id.String()+" does not exist")
		}
	}
	return byID, nil
}

// loadCategories resolves the master item category for each sub-item
func (s *InvoiceService) loadCategories(ctx context.Context, subItems map[uuid.UUID]*catalog.SubItem) (map[uuid.UUID]string, error) {
	categories := make(map[uuid.UUID]string)
	for _, sub := range subItems {
		if _, ok := categories[sub.MasterItemID]; ok {
			continue
		}
		master, err := s.masterRepo.FindByID(ctx, sub.MasterItemID)
		if err != nil {
			return nil, err
		}
		categories[sub.MasterItemID] = master.Category
	}
	return categories, nil
}

// checkAvailability enforces the double-booking policy
func (s *InvoiceService) checkAvailability(subItems map[uuid.UUID]*catalog.SubItem) error {
	if !s.policy.RejectDoubleBooking {
		return nil
	}
	for _, sub := range subItems {
		if !sub.IsAvailable() {
			return shared.NewDomainError("ITEM_NOT_AVAILABLE",
				fmt.Sprintf("Item %s is %s and cannot be rented", sub.Code, sub.Status))
		}
	}
	return nil
}

// createReceipts persists one financial record per receipt request. On a
// mid-batch failure the records already created are deleted again.
func (s *InvoiceService) createReceipts(ctx context.Context, customerID, invoiceID uuid.UUID, receipts []ReceiptRequest) ([]uuid.UUID, decimal.Decimal, error) {
	ids := make([]uuid.UUID, 0, len(receipts))
	paid := decimal.Zero
	if len(receipts) == 0 {
		return ids, paid, nil
	}

	ref, err := accounting.NewCustomerRef(customerID)
	if err != nil {
		return nil, decimal.Zero, err
	}

	for _, receiptReq := range receipts {
		serial, err := s.recordRepo.GenerateSerialNumber(ctx, accounting.RecordKindReceipt)
		if err != nil {
			if rollbackErr := s.rollbackReceipts(ctx, ids, invoiceID.String()); rollbackErr != nil {
				return nil, decimal.Zero, rollbackErr
			}
			return nil, decimal.Zero, err
		}

		date := time.Time{}
		if receiptReq.Date != nil {
			date = *receiptReq.Date
		}
		record, err := accounting.NewFinancialRecord(
			accounting.RecordKindReceipt,
			serial,
			ref,
			receiptReq.Amount,
			accounting.PaymentMethod(receiptReq.Method),
			date,
		)
		if err != nil {
			if rollbackErr := s.rollbackReceipts(ctx, ids, invoiceID.String()); rollbackErr != nil {
				return nil, decimal.Zero, rollbackErr
			}
			return nil, decimal.Zero, err
		}
		if err := record.RelateInvoice(invoiceID); err != nil {
			return nil, decimal.Zero, err
		}
		record.SetNote(receiptReq.Note)
		record.SetSource("invoice")

		if err := s.recordRepo.Save(ctx, record); err != nil {
			if rollbackErr := s.rollbackReceipts(ctx, ids, invoiceID.String()); rollbackErr != nil {
				return nil, decimal.Zero, rollbackErr
			}
			return nil, decimal.Zero, err
		}

		ids = append(ids, record.ID)
		paid = paid.Add(record.Amount)
	}

	return ids, paid, nil
}

// rollbackReceipts deletes receipts created for an invoice that could not be
// saved. A failed rollback leaves orphaned receipts behind and is reported
// as a compensation error.
func (s *InvoiceService) rollbackReceipts(ctx context.Context, receiptIDs []uuid.UUID, ref string) error {
	if len(receiptIDs) == 0 {
		return nil
	}
	if _, err := s.recordRepo.DeleteBatch(ctx, receiptIDs); err != nil {
		s.logger.Error("failed to roll back receipts",
			zap.String("invoice", ref),
			zap.Int("receipt_count", len(receiptIDs)),
			zap.Error(err))
		return shared.NewCompensationError(
			fmt.Sprintf("%d receipt(s) for invoice %s could not be removed", len(receiptIDs), ref))
	}
	return nil
}

// diffIDs splits old vs new ID sets into removed and added
func diffIDs(oldIDs, newIDs []uuid.UUID) (removed, added []uuid.UUID) {
	oldSet := make(map[uuid.UUID]struct{}, len(oldIDs))
	for _, id := range oldIDs {
		oldSet[id] = struct{}{}
	}
	newSet := make(map[uuid.UUID]struct{}, len(newIDs))
	for _, id := range newIDs {
		newSet[id] = struct{}{}
	}
	for _, id := range oldIDs {
		if _, ok := newSet[id]; !ok {
			removed = append(removed, id)
		}
	}
	for _, id := range newIDs {
		if _, ok := oldSet[id]; !ok {
			added = append(added, id)
		}
	}
	return removed, added
}

package accounting

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rentalworks/backend/internal/domain/accounting"
	"github.com/rentalworks/backend/internal/domain/shared"
)

// RecordService handles receipts, payments and transactions
type RecordService struct {
	recordRepo  accounting.FinancialRecordRepository
	accountRepo accounting.AccountRepository
}

// NewRecordService creates a new RecordService
func NewRecordService(recordRepo accounting.FinancialRecordRepository, accountRepo accounting.AccountRepository) *RecordService {
	return &RecordService{
		recordRepo:  recordRepo,
		accountRepo: accountRepo,
	}
}

// Create creates one financial record with a freshly generated serial.
// Records against a ledger account also move the account balance:
// receipts credit it, payments debit it.
func (s *RecordService) Create(ctx context.Context, req CreateRecordRequest) (*RecordResponse, error) {
	kind := accounting.RecordKind(req.Kind)

	serial, err := s.recordRepo.GenerateSerialNumber(ctx, kind)
	if err != nil {
		return nil, err
	}

	ref, err := accounting.NewEntityRef(accounting.EntityType(req.EntityType), req.EntityID)
	if err != nil {
		return nil, err
	}

	date := time.Time{}
	if req.Date != nil {
		date = *req.Date
	}
	record, err := accounting.NewFinancialRecord(kind, serial, ref, req.Amount, accounting.PaymentMethod(req.Method), date)
	if err != nil {
		return nil, err
	}
	if req.RelatedInvoiceID != nil {
		if err := record.RelateInvoice(*req.RelatedInvoiceID); err != nil {
			return nil, err
		}
	}
	if req.TransactionType != "" {
		record.SetTransactionType(req.TransactionType)
	}
	if req.Note != "" {
		record.SetNote(req.Note)
	}
	if req.SourcePage != "" {
		record.SetSource(req.SourcePage)
	}

	if err := s.recordRepo.Save(ctx, record); err != nil {
		return nil, err
	}

	if ref.IsAccount() {
		if err := s.applyToAccount(ctx, record); err != nil {
			return nil, err
		}
	}

	response := ToRecordResponse(record)
	return &response, nil
}

// CreateBatch creates records one by one and reports per-entry outcomes.
// A failure does not stop the batch; entries after it are still attempted.
func (s *RecordService) CreateBatch(ctx context.Context, req CreateRecordBatchRequest) (RecordBatchResult, error) {
	result := RecordBatchResult{
		Created: make([]RecordResponse, 0, len(req.Records)),
		Errors:  make([]BatchItemError, 0),
	}

	for i, recordReq := range req.Records {
		resp, err := s.Create(ctx, recordReq)
		if err != nil {
			result.Errors = append(result.Errors, toBatchItemError(i, err))
			continue
		}
		result.Created = append(result.Created, *resp)
	}

	return result, nil
}

// GetByID retrieves a record by ID
func (s *RecordService) GetByID(ctx context.Context, id uuid.UUID) (*RecordResponse, error) {
	record, err := s.recordRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToRecordResponse(record)
	return &response, nil
}

// GetBySerialNumber retrieves a record by serial number
func (s *RecordService) GetBySerialNumber(ctx context.Context, serial string) (*RecordResponse, error) {
	record, err := s.recordRepo.FindBySerialNumber(ctx, serial)
	if err != nil {
		return nil, err
	}
	response := ToRecordResponse(record)
	return &response, nil
}

// List retrieves records with filtering and pagination
func (s *RecordService) List(ctx context.Context, filter RecordListFilter) ([]RecordResponse, int64, error) {
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
	if filter.Kind != "" {
		domainFilter.Filters["kind"] = filter.Kind
	}
	if filter.Method != "" {
		domainFilter.Filters["method"] = filter.Method
	}
	if filter.EntityType != "" {
		domainFilter.Filters["entity_type"] = filter.EntityType
	}
	if filter.EntityID != nil {
		domainFilter.Filters["entity_id"] = *filter.EntityID
	}
	if filter.InvoiceID != nil {
		domainFilter.Filters["related_invoice_id"] = *filter.InvoiceID
	}

	records, err := s.recordRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.recordRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToRecordResponses(records), total, nil
}

// ListByInvoice retrieves all records attached to an invoice
func (s *RecordService) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]RecordResponse, error) {
	records, err := s.recordRepo.FindByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return ToRecordResponses(records), nil
}

// Delete deletes one record, reversing its effect on a ledger account
func (s *RecordService) Delete(ctx context.Context, id uuid.UUID) error {
	record, err := s.recordRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.recordRepo.Delete(ctx, id); err != nil {
		return err
	}

	if record.IsAccount() {
		return s.reverseOnAccount(ctx, record)
	}
	return nil
}

// DeleteBatch deletes multiple records by ID. Returns the number deleted;
// IDs that do not exist are skipped, not reported as errors.
func (s *RecordService) DeleteBatch(ctx context.Context, req DeleteRecordBatchRequest) (int64, error) {
	return s.recordRepo.DeleteBatch(ctx, req.IDs)
}

// applyToAccount moves the account balance for a new record
func (s *RecordService) applyToAccount(ctx context.Context, record *accounting.FinancialRecord) error {
	account, err := s.accountRepo.FindByID(ctx, record.EntityID)
	if err != nil {
		return err
	}

	switch record.Kind {
	case accounting.RecordKindReceipt:
		err = account.Credit(record.Amount)
	case accounting.RecordKindPayment:
		err = account.Debit(record.Amount)
	default:
		return nil
	}
	if err != nil {
		return err
	}

	return s.accountRepo.Save(ctx, account)
}

// reverseOnAccount undoes the balance movement of a deleted record
func (s *RecordService) reverseOnAccount(ctx context.Context, record *accounting.FinancialRecord) error {
	account, err := s.accountRepo.FindByID(ctx, record.EntityID)
	if err != nil {
		return err
	}

	switch record.Kind {
	case accounting.RecordKindReceipt:
		err = account.Debit(record.Amount)
	case accounting.RecordKindPayment:
		err = account.Credit(record.Amount)
	default:
		return nil
	}
	if err != nil {
		return err
	}

	return s.accountRepo.Save(ctx, account)
}

func toBatchItemError(index int, err error) BatchItemError {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return BatchItemError{Index: index, Code: domainErr.Code, Message: domainErr.Message}
	}
	return BatchItemError{Index: index, Code: "INTERNAL_ERROR", Message: err.Error()}
}

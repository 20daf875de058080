package rental

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rentalworks/backend/internal/domain/accounting"
	"github.com/rentalworks/backend/internal/domain/catalog"
	"github.com/rentalworks/backend/internal/domain/partner"
	"github.com/rentalworks/backend/internal/domain/rental"
	"github.com/rentalworks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockInvoiceRepository is a mock implementation of InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*rental.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByNumber(ctx context.Context, number string) (*rental.Invoice, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindLatest(ctx context.Context) (*rental.Invoice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]rental.Invoice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]rental.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]rental.Invoice, error) {
	args := m.Called(ctx, customerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]rental.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *rental.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) GenerateInvoiceNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockInvoiceRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	args := m.Called(ctx, number)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvoiceRepository) UpdateEmbeddedItemStatus(ctx context.Context, subItemIDs []uuid.UUID, status catalog.ItemStatus) error {
	args := m.Called(ctx, subItemIDs, status)
	return args.Error(0)
}

func (m *MockInvoiceRepository) UpdateEmbeddedDeliveryStatus(ctx context.Context, subItemIDs []uuid.UUID, status rental.DeliveryStatus) error {
	args := m.Called(ctx, subItemIDs, status)
	return args.Error(0)
}

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByCode(ctx context.Context, code string) (*partner.Customer, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByMobile(ctx context.Context, mobile string) (*partner.Customer, error) {
	args := m.Called(ctx, mobile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]partner.Customer, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

// MockMasterItemRepository is a mock implementation of catalog.MasterItemRepository
type MockMasterItemRepository struct {
	mock.Mock
}

func (m *MockMasterItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.MasterItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.MasterItem), args.Error(1)
}

func (m *MockMasterItemRepository) FindByCode(ctx context.Context, code string) (*catalog.MasterItem, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.MasterItem), args.Error(1)
}

func (m *MockMasterItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.MasterItem, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.MasterItem), args.Error(1)
}

func (m *MockMasterItemRepository) Save(ctx context.Context, item *catalog.MasterItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockMasterItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMasterItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMasterItemRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

// MockSubItemRepository is a mock implementation of catalog.SubItemRepository
type MockSubItemRepository struct {
	mock.Mock
}

func (m *MockSubItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.SubItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.SubItem), args.Error(1)
}

func (m *MockSubItemRepository) FindByCode(ctx context.Context, code string) (*catalog.SubItem, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.SubItem), args.Error(1)
}

func (m *MockSubItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.SubItem, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.SubItem), args.Error(1)
}

func (m *MockSubItemRepository) FindByMasterItem(ctx context.Context, masterItemID uuid.UUID, filter shared.Filter) ([]catalog.SubItem, error) {
	args := m.Called(ctx, masterItemID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.SubItem), args.Error(1)
}

func (m *MockSubItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.SubItem, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.SubItem), args.Error(1)
}

func (m *MockSubItemRepository) NextSequence(ctx context.Context, masterItemID uuid.UUID) (int, error) {
	args := m.Called(ctx, masterItemID)
	return args.Int(0), args.Error(1)
}

func (m *MockSubItemRepository) Save(ctx context.Context, item *catalog.SubItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockSubItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSubItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubItemRepository) CountByMasterItem(ctx context.Context, masterItemID uuid.UUID) (int64, error) {
	args := m.Called(ctx, masterItemID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubItemRepository) UpdateStatusBulk(ctx context.Context, ids []uuid.UUID, status catalog.ItemStatus) error {
	args := m.Called(ctx, ids, status)
	return args.Error(0)
}

// MockFinancialRecordRepository is a mock implementation of accounting.FinancialRecordRepository
type MockFinancialRecordRepository struct {
	mock.Mock
}

func (m *MockFinancialRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.FinancialRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.FinancialRecord), args.Error(1)
}

func (m *MockFinancialRecordRepository) FindBySerialNumber(ctx context.Context, serial string) (*accounting.FinancialRecord, error) {
	args := m.Called(ctx, serial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.FinancialRecord), args.Error(1)
}

func (m *MockFinancialRecordRepository) FindAll(ctx context.Context, filter shared.Filter) ([]accounting.FinancialRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]accounting.FinancialRecord), args.Error(1)
}

func (m *MockFinancialRecordRepository) FindByKind(ctx context.Context, kind accounting.RecordKind, filter shared.Filter) ([]accounting.FinancialRecord, error) {
	args := m.Called(ctx, kind, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]accounting.FinancialRecord), args.Error(1)
}

func (m *MockFinancialRecordRepository) FindByEntity(ctx context.Context, ref accounting.EntityRef, filter shared.Filter) ([]accounting.FinancialRecord, error) {
	args := m.Called(ctx, ref, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]accounting.FinancialRecord), args.Error(1)
}

func (m *MockFinancialRecordRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]accounting.FinancialRecord, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]accounting.FinancialRecord), args.Error(1)
}

func (m *MockFinancialRecordRepository) Save(ctx context.Context, record *accounting.FinancialRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockFinancialRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFinancialRecordRepository) DeleteBatch(ctx context.Context, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFinancialRecordRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFinancialRecordRepository) GenerateSerialNumber(ctx context.Context, kind accounting.RecordKind) (string, error) {
	args := m.Called(ctx, kind)
	return args.String(0), args.Error(1)
}

func (m *MockFinancialRecordRepository) ExistsBySerialNumber(ctx context.Context, serial string) (bool, error) {
	args := m.Called(ctx, serial)
	return args.Bool(0), args.Error(1)
}

type invoiceServiceMocks struct {
	invoiceRepo  *MockInvoiceRepository
	customerRepo *MockCustomerRepository
	masterRepo   *MockMasterItemRepository
	subRepo      *MockSubItemRepository
	recordRepo   *MockFinancialRecordRepository
}

func newInvoiceService(policy InvoicePolicy) (*InvoiceService, *invoiceServiceMocks) {
	mocks := &invoiceServiceMocks{
		invoiceRepo:  new(MockInvoiceRepository),
		customerRepo: new(MockCustomerRepository),
		masterRepo:   new(MockMasterItemRepository),
		subRepo:      new(MockSubItemRepository),
		recordRepo:   new(MockFinancialRecordRepository),
	}
	service := NewInvoiceService(
		mocks.invoiceRepo,
		mocks.customerRepo,
		mocks.masterRepo,
		mocks.subRepo,
		mocks.recordRepo,
		policy,
		nil,
	)
	return service, mocks
}

func newTestCatalog(t *testing.T, rentRate int64) (*catalog.MasterItem, *catalog.SubItem) {
	t.Helper()
	master, err := catalog.NewMasterItem("SHW01", "Golden Sherwani")
	require.NoError(t, err)
	sub, err := catalog.NewSubItem(master, 1, "Golden Sherwani 42", decimal.NewFromInt(rentRate))
	require.NoError(t, err)
	return master, sub
}

func TestInvoiceService_Create(t *testing.T) {
	service, mocks := newInvoiceService(InvoicePolicy{})
	ctx := context.Background()

	customer, err := partner.NewCustomer("CUST001", "Anita Sharma")
	require.NoError(t, err)
	master, sub := newTestCatalog(t, 1500)

	mocks.customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	mocks.invoiceRepo.On("GenerateInvoiceNumber", ctx).Return("INV004", nil)
	mocks.subRepo.On("FindByIDs", ctx, []uuid.UUID{sub.ID}).Return([]catalog.SubItem{*sub}, nil)
	mocks.masterRepo.On("FindByID", ctx, master.ID).Return(master, nil)
	mocks.recordRepo.On("GenerateSerialNumber", ctx, accounting.RecordKindReceipt).Return("R001", nil)
	mocks.recordRepo.On("Save", ctx, mock.AnythingOfType("*accounting.FinancialRecord")).Return(nil)
	mocks.invoiceRepo.On("Save", ctx, mock.AnythingOfType("*rental.Invoice")).Return(nil)
	mocks.subRepo.On("UpdateStatusBulk", ctx, []uuid.UUID{sub.ID}, catalog.ItemStatusRented).Return(nil)
	mocks.invoiceRepo.On("UpdateEmbeddedItemStatus", ctx, []uuid.UUID{sub.ID}, catalog.ItemStatusRented).Return(nil)

	resp, err := service.Create(ctx, CreateInvoiceRequest{
		CustomerID: customer.ID,
		Items: []InvoiceItemRequest{{
			SubItemID:    sub.ID,
			Measurements: []MeasurementRequest{{Label: "chest", Value: "40"}},
		}},
		Receipts: []ReceiptRequest{{
			Amount: decimal.NewFromInt(500),
			Method: "cash",
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, "INV004", resp.InvoiceNumber)
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(1500)))
	assert.True(t, resp.AdvanceAmount.Equal(decimal.NewFromInt(500)))
	assert.True(t, resp.BalanceAmount.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, "partial", resp.PaymentStatus)
	assert.Len(t, resp.ReceiptIDs, 1)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Rented", resp.Items[0].Status)
	assert.Equal(t, "Pending", resp.Items[0].DeliveryStatus)

	mocks.invoiceRepo.AssertExpectations(t)
	mocks.subRepo.AssertExpectations(t)
	mocks.recordRepo.AssertExpectations(t)
}

func TestInvoiceService_Create_FullPayment(t *testing.T) {
	service, mocks := newInvoiceService(InvoicePolicy{})
	ctx := context.Background()

	customer, err := partner.NewCustomer("CUST001", "Anita Sharma")
	require.NoError(t, err)
	master, sub := newTestCatalog(t, 1500)

	mocks.customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	mocks.invoiceRepo.On("GenerateInvoiceNumber", ctx).Return("INV001", nil)
	mocks.subRepo.On("FindByIDs", ctx, mock.Anything).Return([]catalog.SubItem{*sub}, nil)
	mocks.masterRepo.On("FindByID", ctx, master.ID).Return(master, nil)
	mocks.recordRepo.On("GenerateSerialNumber", ctx, accounting.RecordKindReceipt).Return("R001", nil)
	mocks.recordRepo.On("Save", ctx, mock.Anything).Return(nil)
	mocks.invoiceRepo.On("Save", ctx, mock.Anything).Return(nil)
	mocks.subRepo.On("UpdateStatusBulk", ctx, mock.Anything, catalog.ItemStatusRented).Return(nil)
	mocks.invoiceRepo.On("UpdateEmbeddedItemStatus", ctx, mock.Anything, catalog.ItemStatusRented).Return(nil)

	resp, err := service.Create(ctx, CreateInvoiceRequest{
		CustomerID: customer.ID,
		Items:      []InvoiceItemRequest{{SubItemID: sub.ID}},
		Receipts:   []ReceiptRequest{{Amount: decimal.NewFromInt(1500), Method: "upi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.PaymentStatus)
	assert.True(t, resp.BalanceAmount.IsZero())
}

func TestInvoiceService_Create_InvoiceSaveFails_ReceiptsRolledBack(t *testing.T) {
	service, mocks := newInvoiceService(InvoicePolicy{})
	ctx := context.Background()

	customer, err := partner.NewCustomer("CUST001", "Anita Sharma")
	require.NoError(t, err)
	master, sub := newTestCatalog(t, 1500)

	mocks.customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	mocks.invoiceRepo.On("GenerateInvoiceNumber", ctx).Return("INV001", nil)
	mocks.subRepo.On("FindByIDs", ctx, mock.Anything).Return([]catalog.SubItem{*sub}, nil)
	mocks.masterRepo.On("FindByID", ctx, master.ID).Return(master, nil)
	mocks.recordRepo.On("GenerateSerialNumber", ctx, accounting.RecordKindReceipt).Return("R001", nil)
	mocks.recordRepo.On("Save", ctx, mock.Anything).Return(nil)
	mocks.invoiceRepo.On("Save", ctx, mock.Anything).Return(errors.New("write failed"))
	mocks.recordRepo.On("DeleteBatch", ctx, mock.AnythingOfType("[]uuid.UUID")).Return(int64(1), nil)

	_, err = service.Create(ctx, CreateInvoiceRequest{
		CustomerID: customer.ID,
		Items:      []InvoiceItemRequest{{SubItemID: sub.ID}},
		Receipts:   []ReceiptRequest{{Amount: decimal.NewFromInt(500), Method: "cash"}},
	})
	require.Error(t, err)
	assert.EqualError(t, err, "write failed")

	mocks.recordRepo.AssertCalled(t, "DeleteBatch", ctx, mock.AnythingOfType("[]uuid.UUID"))
	mocks.subRepo.AssertNotCalled(t, "UpdateStatusBulk", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceService_Create_RollbackFails_CompensationError(t *testing.T) {
	service, mocks := newInvoiceService(InvoicePolicy{})
	ctx := context.Background()

	customer, err := partner.NewCustomer("CUST001", "Anita Sharma")
	require.NoError(t, err)
	master, sub := newTestCatalog(t, 1500)

	mocks.customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	mocks.invoiceRepo.On("GenerateInvoiceNumber", ctx).Return("INV001", nil)
	mocks.subRepo.On("FindByIDs", ctx, mock.Anything).Return([]catalog.SubItem{*sub}, nil)
	mocks.masterRepo.On("FindByID", ctx, master.ID).Return(master, nil)
	mocks.recordRepo.On("GenerateSerialNumber", ctx, accounting.RecordKindReceipt).Return("R001", nil)
	mocks.recordRepo.On("Save", ctx, mock.Anything).Return(nil)
	mocks.invoiceRepo.On("Save", ctx, mock.Anything).Return(errors.New("write failed"))
	mocks.recordRepo.On("DeleteBatch", ctx, mock.Anything).Return(int64(0), errors.New("db down"))

	_, err = service.Create(ctx, CreateInvoiceRequest{
		CustomerID: customer.ID,
		Items:      []InvoiceItemRequest{{SubItemID: sub.ID}},
		Receipts:   []ReceiptRequest{{Amount: decimal.NewFromInt(500), Method: "cash"}},
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "COMPENSATION_FAILED", domainErr.Code)
	assert.Contains(t, domainErr.Message, "Critical:")
	assert.Contains(t, domainErr.Message, "manual cleanup required")
}

func TestInvoiceService_Create_StatusSyncFails_InvoiceRolledBack(t *testing.T) {
	service, mocks := newInvoiceService(InvoicePolicy{})
	ctx := context.Background()

	customer, err := partner.NewCustomer("CUST001", "Anita Sharma")
	require.NoError(t, err)
	master, sub := newTestCatalog(t, 1500)

	mocks.customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	mocks.invoiceRepo.On("GenerateInvoiceNumber", ctx).Return("INV001", nil)
	mocks.subRepo.On("FindByIDs", ctx, mock.Anything).Return([]catalog.SubItem{*sub}, nil)
	mocks.masterRepo.On("FindByID", ctx, master.ID).Return(master, nil)
	mocks.recordRepo.On("GenerateSerialNumber", ctx, accounting.RecordKindReceipt).Return("R001", nil)
	mocks.recordRepo.On("Save", ctx, mock.Anything).Return(nil)
	mocks.invoiceRepo.On("Save", ctx, mock.Anything).Return(nil)
	mocks.subRepo.On("UpdateStatusBulk", ctx, mock.Anything, catalog.ItemStatusRented).Return(errors.New("sync failed"))
	mocks.invoiceRepo.On("Delete", ctx, mock.AnythingOfType("uuid.UUID")).Return(nil)

	_, err = service.Create(ctx, CreateInvoiceRequest{
		CustomerID: customer.ID,
		Items:      []InvoiceItemRequest{{SubItemID: sub.ID}},
		Receipts:   []ReceiptRequest{{Amount: decimal.NewFromInt(500), Method: "cash"}},
	})
	require.Error(t, err)
	assert.EqualError(t, err, "sync failed")

	// The invoice is rolled back but the receipts stay behind.
	mocks.invoiceRepo.AssertCalled(t, "Delete", ctx, mock.AnythingOfType("uuid.UUID"))
	mocks.recordRepo.AssertNotCalled(t, "DeleteBatch", mock.Anything, mock.Anything)
}

func TestInvoiceService_Create_EmbeddedSyncFails_InvoiceRolledBack(t *testing.T) {
	service, mocks := newInvoiceService(InvoicePolicy{})
	ctx := context.Background()

	customer, err := partner.NewCustomer("CUST001", "Anita Sharma")
	require.NoError(t, err)
	master, sub := newTestCatalog(t, 1500)

	mocks.customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	mocks.invoiceRepo.On("GenerateInvoiceNumber", ctx).Return("INV001", nil)
	mocks.subRepo.On("FindByIDs", ctx, mock.Anything).Return([]catalog.SubItem{*sub}, nil)
	mocks.masterRepo.On("FindByID", ctx, master.ID).Return(master, nil)
	mocks.invoiceRepo.On("Save", ctx, mock.Anything).Return(nil)
	mocks.subRepo.On("UpdateStatusBulk", ctx, mock.Anything, catalog.ItemStatusRented).Return(nil)
	mocks.invoiceRepo.On("UpdateEmbeddedItemStatus", ctx, mock.Anything, catalog.ItemStatusRented).Return(errors.New("embedded sync failed"))
	mocks.invoiceRepo.On("Delete", ctx, mock.AnythingOfType("uuid.UUID")).Return(nil)

	_, err = service.Create(ctx, CreateInvoiceRequest{
		CustomerID: customer.ID,
		Items:      []InvoiceItemRequest{{SubItemID: sub.ID}},
	})
	require.Error(t, err)
	assert.EqualError(t, err, "embedded sync failed")

	// A failure on the embedded copy rolls the invoice back like a failure
	// on the sub-item rows does.
	mocks.invoiceRepo.AssertCalled(t, "Delete", ctx, mock.AnythingOfType("uuid.UUID"))
}

func TestInvoiceService_Create_RejectDoubleBooking(t *testing.T) {
	service, mocks := newInvoiceService(InvoicePolicy{RejectDoubleBooking: true})
	ctx := context.Background()

	customer, err := partner.NewCustomer("CUST001", "Anita Sharma")
	require.NoError(t, err)
	_, sub := newTestCatalog(t, 1500)
	require.NoError(t, sub.SetStatus(catalog.ItemStatusRented))

	mocks.customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	mocks.invoiceRepo.On("GenerateInvoiceNumber", ctx).Return("INV001", nil)
	mocks.subRepo.On("FindByIDs", ctx, mock.Anything).Return([]catalog.SubItem{*sub}, nil)

	_, err = service.Create(ctx, CreateInvoiceRequest{
		CustomerID: customer.ID,
		Items:      []InvoiceItemRequest{{SubItemID: sub.ID}},
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ITEM_NOT_AVAILABLE", domainErr.Code)
}

func TestInvoiceService_Update_ItemDiff(t *testing.T) {
	service, mocks := newInvoiceService(InvoicePolicy{})
	ctx := context.Background()

	customer, err := partner.NewCustomer("CUST001", "Anita Sharma")
	require.NoError(t, err)
	master, err := catalog.NewMasterItem("SHW01", "Golden Sherwani")
	require.NoError(t, err)
	subA, err := catalog.NewSubItem(master, 1, "Piece A", decimal.NewFromInt(1000))
	require.NoError(t, err)
	subB, err := catalog.NewSubItem(master, 2, "Piece B", decimal.NewFromInt(1200))
	require.NoError(t, err)
	subC, err := catalog.NewSubItem(master, 3, "Piece C", decimal.NewFromInt(800))
	require.NoError(t, err)

	invoice, err := rental.NewInvoice("INV001", customer.ID, customer.Name)
	require.NoError(t, err)
	_, err = invoice.AddItem(subA, "", nil)
	require.NoError(t, err)
	_, err = invoice.AddItem(subB, "", nil)
	require.NoError(t, err)

	mocks.invoiceRepo.On("FindByID", ctx, invoice.ID).Return(invoice, nil)
	mocks.subRepo.On("FindByIDs", ctx, []uuid.UUID{subB.ID, subC.ID}).Return([]catalog.SubItem{*subB, *subC}, nil)
	mocks.masterRepo.On("FindByID", ctx, master.ID).Return(master, nil)
	mocks.invoiceRepo.On("Save", ctx, invoice).Return(nil)
	mocks.subRepo.On("UpdateStatusBulk", ctx, []uuid.UUID{subA.ID}, catalog.ItemStatusAvailable).Return(nil)
	mocks.subRepo.On("UpdateStatusBulk", ctx, []uuid.UUID{subC.ID}, catalog.ItemStatusRented).Return(nil)
	mocks.invoiceRepo.On("UpdateEmbeddedItemStatus", ctx, []uuid.UUID{subA.ID}, catalog.ItemStatusAvailable).Return(nil)
	mocks.invoiceRepo.On("UpdateEmbeddedItemStatus", ctx, []uuid.UUID{subC.ID}, catalog.ItemStatusRented).Return(nil)

	resp, err := service.Update(ctx, invoice.ID, UpdateInvoiceRequest{
		Items: []InvoiceItemRequest{
			{SubItemID: subB.ID},
			{SubItemID: subC.ID},
		},
	})
	require.NoError(t, err)

	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(2000)))
	require.Len(t, resp.Items, 2)

	mocks.subRepo.AssertExpectations(t)
	mocks.invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_Update_ReceiptRollbackFails_CompensationError(t *testing.T) {
	service, mocks := newInvoiceService(InvoicePolicy{})
	ctx := context.Background()

	customer, err := partner.NewCustomer("CUST001", "Anita Sharma")
	require.NoError(t, err)
	invoice, err := rental.NewInvoice("INV001", customer.ID, customer.Name)
	require.NoError(t, err)
	// A corrupted advance makes the payment recalculation reject the new
	// receipt after it has been persisted.
	invoice.AdvanceAmount = decimal.NewFromInt(-1000)

	mocks.invoiceRepo.On("FindByID", ctx, invoice.ID).Return(invoice, nil)
	mocks.recordRepo.On("GenerateSerialNumber", ctx, accounting.RecordKindReceipt).Return("R001", nil)
	mocks.recordRepo.On("Save", ctx, mock.Anything).Return(nil)
	mocks.recordRepo.On("DeleteBatch", ctx, mock.Anything).Return(int64(0), errors.New("db down"))

	_, err = service.Update(ctx, invoice.ID, UpdateInvoiceRequest{
		Receipts: []ReceiptRequest{{Amount: decimal.NewFromInt(500), Method: "cash"}},
	})
	require.Error(t, err)

	// The rollback failure outranks the payment error.
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "COMPENSATION_FAILED", domainErr.Code)

	mocks.invoiceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestInvoiceService_GetNeighbor_BelowFirst(t *testing.T) {
	service, _ := newInvoiceService(InvoicePolicy{})

	_, err := service.GetNeighbor(context.Background(), "INV001", -1)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_INVOICE_NUMBER", domainErr.Code)
}

func TestInvoiceService_GetNeighbor(t *testing.T) {
	service, mocks := newInvoiceService(InvoicePolicy{})
	ctx := context.Background()

	customer, err := partner.NewCustomer("CUST001", "Anita Sharma")
	require.NoError(t, err)
	invoice, err := rental.NewInvoice("INV005", customer.ID, customer.Name)
	require.NoError(t, err)

	mocks.invoiceRepo.On("FindByNumber", ctx, "INV005").Return(invoice, nil)

	resp, err := service.GetNeighbor(ctx, "INV004", 1)
	require.NoError(t, err)
	assert.Equal(t, "INV005", resp.InvoiceNumber)
}

func TestInvoiceService_UpdateItemStatus_SyncsBothTables(t *testing.T) {
	service, mocks := newInvoiceService(InvoicePolicy{})
	ctx := context.Background()

	ids := []uuid.UUID{uuid.New()}
	mocks.subRepo.On("UpdateStatusBulk", ctx, ids, catalog.ItemStatusDamaged).Return(nil)
	mocks.invoiceRepo.On("UpdateEmbeddedItemStatus", ctx, ids, catalog.ItemStatusDamaged).Return(nil)

	err := service.UpdateItemStatus(ctx, ItemStatusSyncRequest{SubItemIDs: ids, Status: "Damaged"})
	require.NoError(t, err)

	mocks.subRepo.AssertExpectations(t)
	mocks.invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_UpdateDeliveryStatus(t *testing.T) {
	service, mocks := newInvoiceService(InvoicePolicy{})
	ctx := context.Background()

	ids := []uuid.UUID{uuid.New()}
	mocks.invoiceRepo.On("UpdateEmbeddedDeliveryStatus", ctx, ids, rental.DeliveryStatusDelivered).Return(nil)

	err := service.UpdateDeliveryStatus(ctx, DeliveryStatusSyncRequest{SubItemIDs: ids, Status: "Delivered"})
	require.NoError(t, err)

	mocks.invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_Delete(t *testing.T) {
	service, mocks := newInvoiceService(InvoicePolicy{})
	ctx := context.Background()

	customer, err := partner.NewCustomer("CUST001", "Anita Sharma")
	require.NoError(t, err)
	_, sub := newTestCatalog(t, 1500)

	invoice, err := rental.NewInvoice("INV001", customer.ID, customer.Name)
	require.NoError(t, err)
	_, err = invoice.AddItem(sub, "", nil)
	require.NoError(t, err)

	ref, err := accounting.NewCustomerRef(customer.ID)
	require.NoError(t, err)
	record, err := accounting.NewFinancialRecord(accounting.RecordKindReceipt, "R001", ref, decimal.NewFromInt(500), accounting.PaymentMethodCash, invoice.CreatedAt)
	require.NoError(t, err)

	mocks.invoiceRepo.On("FindByID", ctx, invoice.ID).Return(invoice, nil)
	mocks.invoiceRepo.On("Delete", ctx, invoice.ID).Return(nil)
	mocks.subRepo.On("UpdateStatusBulk", ctx, []uuid.UUID{sub.ID}, catalog.ItemStatusAvailable).Return(nil)
	mocks.invoiceRepo.On("UpdateEmbeddedItemStatus", ctx, []uuid.UUID{sub.ID}, catalog.ItemStatusAvailable).Return(nil)
	mocks.recordRepo.On("FindByInvoice", ctx, invoice.ID).Return([]accounting.FinancialRecord{*record}, nil)
	mocks.recordRepo.On("DeleteBatch", ctx, []uuid.UUID{record.ID}).Return(int64(1), nil)

	err = service.Delete(ctx, invoice.ID)
	require.NoError(t, err)

	mocks.invoiceRepo.AssertExpectations(t)
	mocks.recordRepo.AssertExpectations(t)
}

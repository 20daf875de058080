package partner

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rentalworks/backend/internal/domain/partner"
	"github.com/rentalworks/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCustomerRepository is a mock implementation of CustomerRepository
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

func TestCustomerService_Create(t *testing.T) {
	repo := new(MockCustomerRepository)
	service := NewCustomerService(repo)
	ctx := context.Background()

	repo.On("ExistsByCode", ctx, "CUST001").Return(false, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*partner.Customer")).Return(nil)

	resp, err := service.Create(ctx, CreateCustomerRequest{
		Code:   "CUST001",
		Name:   "Anita Sharma",
		Mobile: "9876543210",
	})
	require.NoError(t, err)
	assert.Equal(t, "CUST001", resp.Code)
	assert.Equal(t, "active", resp.Status)

	repo.AssertExpectations(t)
}

func TestCustomerService_Create_DuplicateCode(t *testing.T) {
	repo := new(MockCustomerRepository)
	service := NewCustomerService(repo)
	ctx := context.Background()

	repo.On("ExistsByCode", ctx, "CUST001").Return(true, nil)

	_, err := service.Create(ctx, CreateCustomerRequest{Code: "CUST001", Name: "Name"})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DUPLICATE_CODE", domainErr.Code)

	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCustomerService_Update(t *testing.T) {
	repo := new(MockCustomerRepository)
	service := NewCustomerService(repo)
	ctx := context.Background()

	customer, err := partner.NewCustomer("CUST001", "Old Name")
	require.NoError(t, err)

	repo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	repo.On("Save", ctx, customer).Return(nil)

	newName := "New Name"
	resp, err := service.Update(ctx, customer.ID, UpdateCustomerRequest{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "New Name", resp.Name)

	repo.AssertExpectations(t)
}

func TestCustomerService_GetByID_NotFound(t *testing.T) {
	repo := new(MockCustomerRepository)
	service := NewCustomerService(repo)
	ctx := context.Background()

	id := uuid.New()
	repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

	_, err := service.GetByID(ctx, id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCustomerService_List(t *testing.T) {
	repo := new(MockCustomerRepository)
	service := NewCustomerService(repo)
	ctx := context.Background()

	customer, err := partner.NewCustomer("CUST001", "Name")
	require.NoError(t, err)

	repo.On("FindAll", ctx, mock.AnythingOfType("shared.Filter")).Return([]partner.Customer{*customer}, nil)
	repo.On("Count", ctx, mock.AnythingOfType("shared.Filter")).Return(int64(1), nil)

	results, total, err := service.List(ctx, CustomerListFilter{Search: "CUST"})
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, int64(1), total)
}

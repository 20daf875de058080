package accounting

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rentalworks/backend/internal/domain/accounting"
	"github.com/rentalworks/backend/internal/domain/shared"
)

// AccountService handles ledger account operations
type AccountService struct {
	accountRepo accounting.AccountRepository
	recordRepo  accounting.FinancialRecordRepository
}

// NewAccountService creates a new AccountService
func NewAccountService(accountRepo accounting.AccountRepository, recordRepo accounting.FinancialRecordRepository) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		recordRepo:  recordRepo,
	}
}

// Create creates a new ledger account
func (s *AccountService) Create(ctx context.Context, req CreateAccountRequest) (*AccountResponse, error) {
	existing, err := s.accountRepo.FindByName(ctx, req.Name)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_NAME", "An account with this name already exists")
	}

	account, err := accounting.NewAccount(req.Name, accounting.AccountType(req.Type), req.Category)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}

	response := ToAccountResponse(account)
	return &response, nil
}

// GetByID retrieves an account by ID
func (s *AccountService) GetByID(ctx context.Context, id uuid.UUID) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToAccountResponse(account)
	return &response, nil
}

// List retrieves accounts with filtering and pagination
func (s *AccountService) List(ctx context.Context, filter AccountListFilter) ([]AccountResponse, int64, error) {
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
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}

	accounts, err := s.accountRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.accountRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToAccountResponses(accounts), total, nil
}

// Update updates an account's details. The balance is never set directly;
// it only moves through records.
func (s *AccountService) Update(ctx context.Context, id uuid.UUID, req UpdateAccountRequest) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := account.Name
	accountType := account.Type
	category := account.Category
	if req.Name != nil {
		name = *req.Name
	}
	if req.Type != nil {
		accountType = accounting.AccountType(*req.Type)
	}
	if req.Category != nil {
		category = *req.Category
	}
	if err := account.Update(name, accountType, category); err != nil {
		return nil, err
	}

	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}

	response := ToAccountResponse(account)
	return &response, nil
}

// Delete deletes an account. Accounts that still have records referencing
// them cannot be deleted.
func (s *AccountService) Delete(ctx context.Context, id uuid.UUID) error {
	ref, err := accounting.NewAccountRef(id)
	if err != nil {
		return err
	}

	filter := shared.NewFilter()
	filter.PageSize = 1
	records, err := s.recordRepo.FindByEntity(ctx, ref, filter)
	if err != nil {
		return err
	}
	if len(records) > 0 {
		return shared.NewDomainError("ACCOUNT_IN_USE", "Account still has financial records; delete them first")
	}

	return s.accountRepo.Delete(ctx, id)
}

package accounting

import (
	"time"

	"github.com/rentalworks/backend/internal/domain/shared"
	"github.com/rentalworks/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// AccountType classifies a ledger account
type AccountType string

const (
	AccountTypeIncome    AccountType = "income"
	AccountTypeExpense   AccountType = "expense"
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
)

// IsValid checks if the account type is valid
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeIncome, AccountTypeExpense, AccountTypeAsset, AccountTypeLiability:
		return true
	}
	return false
}

// String returns the string representation
func (t AccountType) String() string {
	return string(t)
}

// Account represents a ledger account that financial records can
// reference as their counterparty
type Account struct {
	shared.BaseAggregateRoot
	Name     string            `gorm:"type:varchar(200);not null"`
	Type     AccountType       `gorm:"type:varchar(20);not null;index"`
	Balance  valueobject.Money `gorm:"type:decimal(18,2);not null;default:0"`
	Category string            `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (Account) TableName() string {
	return "accounts"
}

// NewAccount creates a new ledger account
func NewAccount(name string, accountType AccountType, category string) (*Account, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Account name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Account name cannot exceed 200 characters")
	}
	if !accountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Account type must be income, expense, asset, or liability")
	}

	return &Account{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Type:              accountType,
		Balance:           valueobject.ZeroINR(),
		Category:          category,
	}, nil
}

// Update updates the account's details
func (a *Account) Update(name string, accountType AccountType, category string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Account name cannot be empty")
	}
	if !accountType.IsValid() {
		return shared.NewDomainError("INVALID_TYPE", "Invalid account type")
	}

	a.Name = name
	a.Type = accountType
	a.Category = category
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// Credit adds to the account balance
func (a *Account) Credit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}

	a.Balance = a.Balance.MustAdd(valueobject.NewMoneyINR(amount))
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// Debit subtracts from the account balance. Balances may go negative;
// overdraft control is not a concern of this ledger.
func (a *Account) Debit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}

	a.Balance = a.Balance.MustSubtract(valueobject.NewMoneyINR(amount))
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

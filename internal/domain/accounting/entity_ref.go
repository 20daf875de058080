package accounting

import (
	"github.com/google/uuid"
	"github.com/rentalworks/backend/internal/domain/shared"
)

// EntityType names the kind of counterparty a financial record points at
type EntityType string

const (
	EntityTypeCustomer EntityType = "customer"
	EntityTypeAccount  EntityType = "account"
)

// IsValid checks if the entity type is valid
func (t EntityType) IsValid() bool {
	return t == EntityTypeCustomer || t == EntityTypeAccount
}

// EntityRef is a tagged reference to either a customer or an account.
// The type discriminates which collection the ID resolves against.
type EntityRef struct {
	EntityType EntityType `gorm:"type:varchar(20);not null;index:idx_entity_ref"`
	EntityID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_entity_ref"`
}

// NewCustomerRef creates a reference to a customer
func NewCustomerRef(customerID uuid.UUID) (EntityRef, error) {
	if customerID == uuid.Nil {
		return EntityRef{}, shared.NewDomainError("INVALID_ENTITY", "Customer ID cannot be empty")
	}
	return EntityRef{EntityType: EntityTypeCustomer, EntityID: customerID}, nil
}

// NewAccountRef creates a reference to a ledger account
func NewAccountRef(accountID uuid.UUID) (EntityRef, error) {
	if accountID == uuid.Nil {
		return EntityRef{}, shared.NewDomainError("INVALID_ENTITY", "Account ID cannot be empty")
	}
	return EntityRef{EntityType: EntityTypeAccount, EntityID: accountID}, nil
}

// NewEntityRef creates a reference from raw type and ID values
func NewEntityRef(entityType EntityType, entityID uuid.UUID) (EntityRef, error) {
	switch entityType {
	case EntityTypeCustomer:
		return NewCustomerRef(entityID)
	case EntityTypeAccount:
		return NewAccountRef(entityID)
	default:
		return EntityRef{}, shared.NewDomainError("INVALID_ENTITY_TYPE", "Entity type must be 'customer' or 'account'")
	}
}

// IsCustomer returns true if the reference points at a customer
func (r EntityRef) IsCustomer() bool {
	return r.EntityType == EntityTypeCustomer
}

// IsAccount returns true if the reference points at an account
func (r EntityRef) IsAccount() bool {
	return r.EntityType == EntityTypeAccount
}

package accounting

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func customerRef(t *testing.T) EntityRef {
	t.Helper()
	ref, err := NewCustomerRef(uuid.New())
	require.NoError(t, err)
	return ref
}

func TestNewFinancialRecord(t *testing.T) {
	ref := customerRef(t)

	record, err := NewFinancialRecord(RecordKindReceipt, "R001", ref, decimal.NewFromInt(500), PaymentMethodCash, time.Now())
	require.NoError(t, err)

	assert.Equal(t, RecordKindReceipt, record.Kind)
	assert.Equal(t, "R001", record.SerialNumber)
	assert.True(t, record.IsCustomer())
	assert.Nil(t, record.RelatedInvoiceID)
}

func TestNewFinancialRecord_Validation(t *testing.T) {
	ref := customerRef(t)
	now := time.Now()

	tests := []struct {
		name   string
		kind   RecordKind
		serial string
		ref    EntityRef
		amount decimal.Decimal
		method PaymentMethod
	}{
		{"invalid kind", "refund", "R001", ref, decimal.NewFromInt(1), PaymentMethodCash},
		{"wrong serial prefix", RecordKindReceipt, "P001", ref, decimal.NewFromInt(1), PaymentMethodCash},
		{"empty serial", RecordKindReceipt, "", ref, decimal.NewFromInt(1), PaymentMethodCash},
		{"zero amount", RecordKindReceipt, "R001", ref, decimal.Zero, PaymentMethodCash},
		{"negative amount", RecordKindReceipt, "R001", ref, decimal.NewFromInt(-5), PaymentMethodCash},
		{"invalid method", RecordKindReceipt, "R001", ref, decimal.NewFromInt(1), "cheque"},
		{"nil entity", RecordKindReceipt, "R001", EntityRef{EntityType: EntityTypeCustomer}, decimal.NewFromInt(1), PaymentMethodCash},
		{"invalid entity type", RecordKindReceipt, "R001", EntityRef{EntityType: "vendor", EntityID: uuid.New()}, decimal.NewFromInt(1), PaymentMethodCash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFinancialRecord(tt.kind, tt.serial, tt.ref, tt.amount, tt.method, now)
			assert.Error(t, err)
		})
	}
}

func TestFinancialRecord_RelateInvoice(t *testing.T) {
	record, err := NewFinancialRecord(RecordKindPayment, "P007", customerRef(t), decimal.NewFromInt(250), PaymentMethodUPI, time.Now())
	require.NoError(t, err)

	invoiceID := uuid.New()
	require.NoError(t, record.RelateInvoice(invoiceID))
	assert.Equal(t, invoiceID, *record.RelatedInvoiceID)

	assert.Error(t, record.RelateInvoice(uuid.Nil))
}

func TestSerialNumberHelpers(t *testing.T) {
	assert.Equal(t, "R001", FormatSerialNumber(RecordKindReceipt, 1))
	assert.Equal(t, "P042", FormatSerialNumber(RecordKindPayment, 42))
	assert.Equal(t, "T100", FormatSerialNumber(RecordKindTransaction, 100))

	seq, err := ParseSerialNumber(RecordKindReceipt, "R009")
	require.NoError(t, err)
	assert.Equal(t, 9, seq)

	_, err = ParseSerialNumber(RecordKindReceipt, "P009")
	assert.Error(t, err)

	_, err = ParseSerialNumber(RecordKindPayment, "Pxyz")
	assert.Error(t, err)
}

func TestEntityRef(t *testing.T) {
	ref, err := NewEntityRef(EntityTypeAccount, uuid.New())
	require.NoError(t, err)
	assert.True(t, ref.IsAccount())
	assert.False(t, ref.IsCustomer())

	_, err = NewEntityRef("vendor", uuid.New())
	assert.Error(t, err)

	_, err = NewEntityRef(EntityTypeCustomer, uuid.Nil)
	assert.Error(t, err)
}

func TestAccount_CreditDebit(t *testing.T) {
	account, err := NewAccount("Rent Income", AccountTypeIncome, "Operations")
	require.NoError(t, err)

	require.NoError(t, account.Credit(decimal.NewFromInt(500)))
	assert.True(t, account.Balance.Amount().Equal(decimal.NewFromInt(500)))

	require.NoError(t, account.Debit(decimal.NewFromInt(200)))
	assert.True(t, account.Balance.Amount().Equal(decimal.NewFromInt(300)))

	assert.Error(t, account.Credit(decimal.Zero))
	assert.Error(t, account.Debit(decimal.NewFromInt(-1)))
}

func TestNewAccount_Validation(t *testing.T) {
	_, err := NewAccount("", AccountTypeIncome, "")
	assert.Error(t, err)

	_, err = NewAccount("Name", "equity", "")
	assert.Error(t, err)
}

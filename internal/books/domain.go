package books

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// AmountTolerance is the maximum drift allowed between debit and credit
// totals before a voucher is considered corrupt.
const AmountTolerance = 0.01

// LedgerType enumerates the fixed chart-of-accounts vocabulary.
type LedgerType string

const (
	LedgerTypeCash            LedgerType = "Cash"
	LedgerTypeBank            LedgerType = "Bank"
	LedgerTypeAsset           LedgerType = "Asset"
	LedgerTypeFixedAssets     LedgerType = "Fixed Assets"
	LedgerTypeMovableAssets   LedgerType = "Movable Assets"
	LedgerTypeImmovableAssets LedgerType = "Immovable Assets"
	LedgerTypeOtherAssets     LedgerType = "Other Assets"
	LedgerTypeLiability       LedgerType = "Liability"
	LedgerTypeIncome          LedgerType = "Income"
	LedgerTypeExpense         LedgerType = "Expense"
	LedgerTypeCapital         LedgerType = "Capital"
	LedgerTypeSundryDebtors   LedgerType = "Sundry Debtors"
	LedgerTypeSundryCreditors LedgerType = "Sundry Creditors"
	LedgerTypePurchases       LedgerType = "Purchases A/c"
	LedgerTypeSales           LedgerType = "Sales A/c"
	LedgerTypeTradeExpenses   LedgerType = "Trade Expenses"
	LedgerTypeEstablishment   LedgerType = "Establishment Charges"
	LedgerTypeMiscExpenses    LedgerType = "Misc. Expenses"
	LedgerTypeOtherReceivable LedgerType = "Other Receivable"
	LedgerTypeOtherPayable    LedgerType = "Other Payable"
	LedgerTypeCustomer        LedgerType = "Customer"
	LedgerTypeSupplier        LedgerType = "Supplier"
	LedgerTypeParty           LedgerType = "Party"
	LedgerTypeDutiesAndTaxes  LedgerType = "Duties & Taxes"
)

// LedgerStatus enumerates ledger lifecycle states.
type LedgerStatus string

const (
	LedgerStatusActive   LedgerStatus = "Active"
	LedgerStatusInactive LedgerStatus = "Inactive"
)

// VoucherType enumerates supported voucher kinds.
type VoucherType string

const (
	VoucherTypeReceipt VoucherType = "Receipt"
	VoucherTypePayment VoucherType = "Payment"
	VoucherTypeJournal VoucherType = "Journal"
)

// Ledger models an account in the chart of accounts. The opening balance is
// the stored baseline set once at creation; this package never mutates it.
type Ledger struct {
	ID             int64
	Name           string
	Type           LedgerType
	OpeningBalance float64
	Status         LedgerStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Voucher is a balanced double-entry record composed of ordered entries.
// Vouchers are append-only; update and delete paths never reach this package.
type Voucher struct {
	ID          int64
	Type        VoucherType
	Number      int64
	Date        time.Time
	Narration   string
	SourceID    uuid.UUID
	Entries     []VoucherEntry
	TotalDebit  float64
	TotalCredit float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// VoucherEntry debits or credits a single ledger. Exactly one side is
// nonzero per entry.
type VoucherEntry struct {
	ID         int64
	VoucherID  int64
	LedgerID   int64
	LedgerName string
	LedgerType LedgerType
	Debit      float64
	Credit     float64
	Narration  string
}

// EntryRow is a voucher entry flattened for balance folding, carrying the
// voucher ordering fields alongside the amounts.
type EntryRow struct {
	VoucherID     int64
	VoucherNumber int64
	VoucherType   VoucherType
	Date          time.Time
	Debit         float64
	Credit        float64
	Narration     string
	Particulars   string
}

// NetChange is the signed movement of the entry before nature is applied.
func (r EntryRow) NetChange() float64 {
	return r.Debit - r.Credit
}

var (
	// ErrLedgerNotFound indicates a required ledger is missing.
	ErrLedgerNotFound = errors.New("books: ledger not found")
	// ErrVoucherNotFound indicates the voucher does not exist.
	ErrVoucherNotFound = errors.New("books: voucher not found")
	// ErrVoucherIntegrity indicates a voucher whose debit and credit totals
	// diverge beyond tolerance reached the read path.
	ErrVoucherIntegrity = errors.New("books: voucher debit and credit totals diverge")
	// ErrEntryBothSides indicates an entry carrying both a debit and a credit.
	ErrEntryBothSides = errors.New("books: entry cannot carry both debit and credit")
)

// Validate checks the balance invariant before the voucher participates in
// any report. Totals and the entry sum must agree within AmountTolerance and
// each entry must use exactly one side.
func (v Voucher) Validate() error {
	var debit, credit float64
	for idx, entry := range v.Entries {
		if entry.Debit < 0 || entry.Credit < 0 {
			return fmt.Errorf("books: voucher %d entry %d negative amount: %w", v.Number, idx, ErrVoucherIntegrity)
		}
		if entry.Debit > 0 && entry.Credit > 0 {
			return fmt.Errorf("books: voucher %d entry %d: %w", v.Number, idx, ErrEntryBothSides)
		}
		debit += entry.Debit
		credit += entry.Credit
	}
	if math.Abs(debit-credit) > AmountTolerance {
		return fmt.Errorf("books: voucher %d debit %.2f credit %.2f: %w", v.Number, debit, credit, ErrVoucherIntegrity)
	}
	if math.Abs(v.TotalDebit-debit) > AmountTolerance || math.Abs(v.TotalCredit-credit) > AmountTolerance {
		return fmt.Errorf("books: voucher %d stored totals drift from entries: %w", v.Number, ErrVoucherIntegrity)
	}
	return nil
}

// EntryFor returns the first entry touching the given ledger, if any.
func (v Voucher) EntryFor(ledgerID int64) (VoucherEntry, bool) {
	for _, entry := range v.Entries {
		if entry.LedgerID == ledgerID {
			return entry, true
		}
	}
	return VoucherEntry{}, false
}

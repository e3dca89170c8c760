package inventory

import (
	"errors"
	"time"
)

// TransactionType mirrors the voucher debit/credit split for quantities.
type TransactionType string

const (
	TransactionStockIn  TransactionType = "Stock In"
	TransactionStockOut TransactionType = "Stock Out"
)

// TransactionCategory classifies a movement for the stock register columns.
type TransactionCategory string

const (
	CategoryPurchase       TransactionCategory = "Purchase"
	CategorySales          TransactionCategory = "Sales"
	CategoryPurchaseReturn TransactionCategory = "Purchase Return"
	CategorySalesReturn    TransactionCategory = "Sales Return"
)

// Item is the quantity analogue of a ledger: OpeningBalance is the stored
// baseline, CurrentBalance is maintained by the write side.
type Item struct {
	ID             int64
	Name           string
	Unit           string
	OpeningBalance float64
	CurrentBalance float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// StockTransaction is a single dated quantity movement against an item.
type StockTransaction struct {
	ID            int64
	ItemID        int64
	Type          TransactionType
	Category      TransactionCategory
	Date          time.Time
	Quantity      float64
	VoucherNumber int64
	Narration     string
}

// In reports whether the movement adds quantity.
func (t StockTransaction) In() bool {
	return t.Type == TransactionStockIn
}

// ErrItemNotFound indicates the requested item does not exist.
var ErrItemNotFound = errors.New("inventory: item not found")

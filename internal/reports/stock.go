package reports

import (
	"errors"
	"fmt"
	"time"

	"github.com/bahikhata-erp/bahikhata/internal/inventory"
)

// StockMode selects the stock register grouping granularity.
type StockMode string

const (
	StockModeDay   StockMode = "day"
	StockModeMonth StockMode = "month"
	StockModeRange StockMode = "range"
)

// ErrInvalidStockMode indicates an unknown stock register mode.
var ErrInvalidStockMode = errors.New("reports: invalid stock register mode")

// StockRegisterRow is one period bucket of the register. Total and Closing
// follow the quantity fold: total = opening + purchase + salesReturn,
// closing = total - sales - purchaseReturn.
type StockRegisterRow struct {
	Period         string  `json:"period"`
	Opening        float64 `json:"opening"`
	Purchase       float64 `json:"purchase"`
	SalesReturn    float64 `json:"salesReturn"`
	Total          float64 `json:"total"`
	Sales          float64 `json:"sales"`
	PurchaseReturn float64 `json:"purchaseReturn"`
	Closing        float64 `json:"closing"`
}

// StockRegisterTotals sums every numeric column across rows.
type StockRegisterTotals struct {
	Opening        float64 `json:"opening"`
	Purchase       float64 `json:"purchase"`
	SalesReturn    float64 `json:"salesReturn"`
	Total          float64 `json:"total"`
	Sales          float64 `json:"sales"`
	PurchaseReturn float64 `json:"purchaseReturn"`
	Closing        float64 `json:"closing"`
}

// StockRegister is the quantity register for one item.
type StockRegister struct {
	ItemID         int64               `json:"itemId"`
	ItemName       string              `json:"itemName"`
	Unit           string              `json:"unit,omitempty"`
	Mode           StockMode           `json:"mode"`
	Range          DateRange           `json:"range"`
	OpeningBalance float64             `json:"openingBalance"`
	Rows           []StockRegisterRow  `json:"rows"`
	Totals         StockRegisterTotals `json:"summary"`
	ClosingBalance float64             `json:"closingBalance"`
}

// OpeningQuantity replays movements dated before the window against the
// item's stored baseline, the quantity analogue of the opening balance
// calculator.
func OpeningQuantity(item inventory.Item, before []inventory.StockTransaction) float64 {
	qty := item.OpeningBalance
	for _, txn := range before {
		if txn.In() {
			qty += txn.Quantity
		} else {
			qty -= txn.Quantity
		}
	}
	return qty
}

func stockPeriodKey(mode StockMode, rng DateRange, t time.Time) string {
	switch mode {
	case StockModeDay:
		return t.Format("2006-01-02")
	case StockModeMonth:
		return t.Format("2006-01")
	default:
		return rng.Label()
	}
}

// BuildStockRegister folds the period movements into mode-sized buckets,
// carrying each bucket's closing forward as the next opening. Transactions
// must arrive in date order.
func BuildStockRegister(item inventory.Item, mode StockMode, rng DateRange, opening float64, txns []inventory.StockTransaction) (StockRegister, error) {
	switch mode {
	case StockModeDay, StockModeMonth, StockModeRange:
	default:
		return StockRegister{}, fmt.Errorf("%w: %q", ErrInvalidStockMode, mode)
	}

	out := StockRegister{
		ItemID:         item.ID,
		ItemName:       item.Name,
		Unit:           item.Unit,
		Mode:           mode,
		Range:          rng,
		OpeningBalance: opening,
	}

	var current *StockRegisterRow
	carried := opening
	flush := func() {
		if current == nil {
			return
		}
		current.Total = current.Opening + current.Purchase + current.SalesReturn
		current.Closing = current.Total - current.Sales - current.PurchaseReturn
		carried = current.Closing
		out.Rows = append(out.Rows, *current)
		current = nil
	}

	for _, txn := range txns {
		key := stockPeriodKey(mode, rng, txn.Date)
		if current == nil || current.Period != key {
			flush()
			current = &StockRegisterRow{Period: key, Opening: carried}
		}
		switch txn.Category {
		case inventory.CategoryPurchase:
			current.Purchase += txn.Quantity
		case inventory.CategorySalesReturn:
			current.SalesReturn += txn.Quantity
		case inventory.CategorySales:
			current.Sales += txn.Quantity
		case inventory.CategoryPurchaseReturn:
			current.PurchaseReturn += txn.Quantity
		}
	}
	flush()

	for _, row := range out.Rows {
		out.Totals.Opening += row.Opening
		out.Totals.Purchase += row.Purchase
		out.Totals.SalesReturn += row.SalesReturn
		out.Totals.Total += row.Total
		out.Totals.Sales += row.Sales
		out.Totals.PurchaseReturn += row.PurchaseReturn
		out.Totals.Closing += row.Closing
	}
	out.ClosingBalance = carried
	return out, nil
}

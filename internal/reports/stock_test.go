package reports

import (
	"errors"
	"testing"
	"time"

	"github.com/bahikhata-erp/bahikhata/internal/inventory"
)

func testItem() inventory.Item {
	return inventory.Item{ID: 1, Name: "Cement Bags", Unit: "bag", OpeningBalance: 10}
}

func TestOpeningQuantity(t *testing.T) {
	before := []inventory.StockTransaction{
		{Type: inventory.TransactionStockIn, Quantity: 20},
		{Type: inventory.TransactionStockOut, Quantity: 5},
	}
	if got := OpeningQuantity(testItem(), before); got != 25 {
		t.Fatalf("opening quantity = %.2f, want 25", got)
	}
	if got := OpeningQuantity(testItem(), nil); got != 10 {
		t.Fatalf("baseline quantity = %.2f, want 10", got)
	}
}

func TestBuildStockRegisterDayMode(t *testing.T) {
	txns := []inventory.StockTransaction{
		{Date: date(2024, time.April, 3), Type: inventory.TransactionStockIn, Category: inventory.CategoryPurchase, Quantity: 15},
		{Date: date(2024, time.April, 3), Type: inventory.TransactionStockOut, Category: inventory.CategorySales, Quantity: 12},
		{Date: date(2024, time.April, 8), Type: inventory.TransactionStockOut, Category: inventory.CategorySales, Quantity: 4},
	}
	reg, err := BuildStockRegister(testItem(), StockModeDay, aprilRange(), 10, txns)
	if err != nil {
		t.Fatalf("build register: %v", err)
	}
	if len(reg.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(reg.Rows))
	}
	first := reg.Rows[0]
	if first.Period != "2024-04-03" || first.Opening != 10 {
		t.Fatalf("first row = %+v", first)
	}
	if first.Total != 25 || first.Closing != 13 {
		t.Fatalf("first row total/closing = %.2f/%.2f, want 25/13", first.Total, first.Closing)
	}
	// Closing carries into the next bucket as its opening.
	second := reg.Rows[1]
	if second.Opening != 13 || second.Closing != 9 {
		t.Fatalf("second row opening/closing = %.2f/%.2f, want 13/9", second.Opening, second.Closing)
	}
	if reg.ClosingBalance != 9 {
		t.Fatalf("register closing = %.2f, want 9", reg.ClosingBalance)
	}
}

func TestBuildStockRegisterMonthMode(t *testing.T) {
	txns := []inventory.StockTransaction{
		{Date: date(2024, time.April, 3), Type: inventory.TransactionStockIn, Category: inventory.CategoryPurchase, Quantity: 30},
		{Date: date(2024, time.April, 20), Type: inventory.TransactionStockOut, Category: inventory.CategoryPurchaseReturn, Quantity: 2},
		{Date: date(2024, time.May, 5), Type: inventory.TransactionStockOut, Category: inventory.CategorySales, Quantity: 18},
		{Date: date(2024, time.May, 9), Type: inventory.TransactionStockIn, Category: inventory.CategorySalesReturn, Quantity: 3},
	}
	rng := DateRange{Start: date(2024, time.April, 1), End: date(2024, time.May, 31)}
	reg, err := BuildStockRegister(testItem(), StockModeMonth, rng, 0, txns)
	if err != nil {
		t.Fatalf("build register: %v", err)
	}
	if len(reg.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(reg.Rows))
	}
	april, may := reg.Rows[0], reg.Rows[1]
	if april.Period != "2024-04" || april.Closing != 28 {
		t.Fatalf("april = %+v", april)
	}
	if may.Opening != 28 || may.SalesReturn != 3 || may.Closing != 13 {
		t.Fatalf("may = %+v", may)
	}
	if reg.Totals.Purchase != 30 || reg.Totals.Sales != 18 {
		t.Fatalf("totals = %+v", reg.Totals)
	}
}

func TestBuildStockRegisterRangeMode(t *testing.T) {
	txns := []inventory.StockTransaction{
		{Date: date(2024, time.April, 3), Type: inventory.TransactionStockIn, Category: inventory.CategoryPurchase, Quantity: 5},
		{Date: date(2024, time.April, 25), Type: inventory.TransactionStockOut, Category: inventory.CategorySales, Quantity: 2},
	}
	reg, err := BuildStockRegister(testItem(), StockModeRange, aprilRange(), 10, txns)
	if err != nil {
		t.Fatalf("build register: %v", err)
	}
	if len(reg.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(reg.Rows))
	}
	if reg.Rows[0].Closing != 13 {
		t.Fatalf("closing = %.2f, want 13", reg.Rows[0].Closing)
	}
}

func TestBuildStockRegisterRejectsUnknownMode(t *testing.T) {
	_, err := BuildStockRegister(testItem(), StockMode("weekly"), aprilRange(), 0, nil)
	if !errors.Is(err, ErrInvalidStockMode) {
		t.Fatalf("err = %v, want ErrInvalidStockMode", err)
	}
}

func TestBuildStockRegisterEmptyPeriod(t *testing.T) {
	reg, err := BuildStockRegister(testItem(), StockModeDay, aprilRange(), 7, nil)
	if err != nil {
		t.Fatalf("build register: %v", err)
	}
	if len(reg.Rows) != 0 {
		t.Fatalf("rows = %d, want 0", len(reg.Rows))
	}
	if reg.OpeningBalance != 7 || reg.ClosingBalance != 7 {
		t.Fatalf("balances = %.2f/%.2f, want 7/7", reg.OpeningBalance, reg.ClosingBalance)
	}
}

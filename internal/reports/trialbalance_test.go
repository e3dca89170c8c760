package reports

import (
	"math"
	"testing"

	"github.com/bahikhata-erp/bahikhata/internal/books"
)

func periodBalances() []LedgerBalance {
	// A balanced posting set: 5000 capital introduced into cash, 1200 rent
	// paid, 3000 sales collected.
	return []LedgerBalance{
		{LedgerID: 1, Name: "Cash", Type: books.LedgerTypeCash, Opening: 0, Debit: 8000, Credit: 1200},
		{LedgerID: 2, Name: "Owner Capital", Type: books.LedgerTypeCapital, Opening: 0, Debit: 0, Credit: 5000},
		{LedgerID: 3, Name: "Sales A/c", Type: books.LedgerTypeSales, Opening: 0, Debit: 0, Credit: 3000},
		{LedgerID: 4, Name: "Rent Expense", Type: books.LedgerTypeExpense, Opening: 0, Debit: 1200, Credit: 0},
	}
}

func TestBuildTrialBalanceBalances(t *testing.T) {
	tb := BuildTrialBalance(books.Classifier{}, aprilRange(), periodBalances())
	if tb.TotalDebit != tb.TotalCredit {
		t.Fatalf("period totals diverge: %.2f vs %.2f", tb.TotalDebit, tb.TotalCredit)
	}
	if math.Abs(tb.Difference) > books.AmountTolerance {
		t.Fatalf("difference = %.2f, want 0", tb.Difference)
	}
	if tb.TotalClosingDebit != tb.TotalClosingCredit {
		t.Fatalf("closing columns diverge: %.2f vs %.2f", tb.TotalClosingDebit, tb.TotalClosingCredit)
	}
}

func TestBuildTrialBalanceOmitsDormantLedgers(t *testing.T) {
	balances := append(periodBalances(), LedgerBalance{
		LedgerID: 9, Name: "Old Loan", Type: books.LedgerTypeLiability, Opening: 2500,
	})
	tb := BuildTrialBalance(books.Classifier{}, aprilRange(), balances)
	for _, section := range tb.Sections {
		for _, row := range section.Rows {
			if row.LedgerID == 9 {
				t.Fatalf("dormant ledger appeared in trial balance")
			}
		}
	}

	// The abstract keeps the same ledger with its carried balance.
	abs := BuildLedgerAbstract(books.Classifier{}, aprilRange(), balances)
	found := false
	for _, section := range abs.Sections {
		for _, row := range section.Rows {
			if row.LedgerID == 9 {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("dormant ledger missing from ledger abstract")
	}
}

func TestBuildTrialBalanceClosingColumns(t *testing.T) {
	tb := BuildTrialBalance(books.Classifier{}, aprilRange(), periodBalances())
	byName := map[string]TrialBalanceRow{}
	for _, section := range tb.Sections {
		for _, row := range section.Rows {
			byName[row.Name] = row
		}
	}
	cash := byName["Cash"]
	if cash.ClosingDebit != 6800 || cash.ClosingCredit != 0 {
		t.Fatalf("cash closing = %.2f Dr / %.2f Cr", cash.ClosingDebit, cash.ClosingCredit)
	}
	capital := byName["Owner Capital"]
	if capital.ClosingCredit != 5000 {
		t.Fatalf("capital closing credit = %.2f", capital.ClosingCredit)
	}
	rent := byName["Rent Expense"]
	if rent.ClosingDebit != 1200 {
		t.Fatalf("rent closing debit = %.2f", rent.ClosingDebit)
	}
}

func TestBuildTrialBalanceConfiguredNatureDefault(t *testing.T) {
	balances := []LedgerBalance{
		{LedgerID: 30, Name: "Suspense", Type: books.LedgerType("Suspense"), Opening: 400, Debit: 100, Credit: 0},
	}

	findRow := func(tb TrialBalance) TrialBalanceRow {
		for _, section := range tb.Sections {
			for _, row := range section.Rows {
				if row.LedgerID == 30 {
					return row
				}
			}
		}
		t.Fatalf("suspense row missing")
		return TrialBalanceRow{}
	}

	// Stock classifier treats the unknown type as credit-natured: the 400
	// opening less the 100 debit closes 300 on the credit side.
	row := findRow(BuildTrialBalance(books.Classifier{}, aprilRange(), balances))
	if row.ClosingCredit != 300 || row.ClosingDebit != 0 {
		t.Fatalf("credit default closing = %.2f Dr / %.2f Cr, want 0/300", row.ClosingDebit, row.ClosingCredit)
	}

	// With the debit default the same aggregates close 500 on the debit side,
	// and the opening label follows the configured nature too.
	row = findRow(BuildTrialBalance(books.Classifier{DebitDefault: true}, aprilRange(), balances))
	if row.ClosingDebit != 500 || row.ClosingCredit != 0 {
		t.Fatalf("debit default closing = %.2f Dr / %.2f Cr, want 500/0", row.ClosingDebit, row.ClosingCredit)
	}
	if row.OpeningLabel != books.LabelDebit {
		t.Fatalf("debit default opening label = %s, want Dr", row.OpeningLabel)
	}
}

func TestBuildTrialBalanceSectionOrder(t *testing.T) {
	tb := BuildTrialBalance(books.Classifier{}, aprilRange(), periodBalances())
	order := map[books.BalanceCategory]int{}
	for idx, cat := range books.Categories() {
		order[cat] = idx
	}
	last := -1
	for _, section := range tb.Sections {
		pos, ok := order[section.Category]
		if !ok {
			t.Fatalf("unknown section category %q", section.Category)
		}
		if pos <= last {
			t.Fatalf("sections out of category order")
		}
		last = pos
	}
}

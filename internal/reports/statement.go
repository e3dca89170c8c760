package reports

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/bahikhata-erp/bahikhata/internal/books"
)

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders a monetary value with digit grouping for summary
// headings. Payload numbers stay raw floats.
func FormatAmount(v float64) string {
	return amountPrinter.Sprintf("%.2f", v)
}

// StatementSummary carries the period totals and derived closing balance of
// a running statement.
type StatementSummary struct {
	TotalDebit       float64 `json:"totalDebit"`
	TotalCredit      float64 `json:"totalCredit"`
	ClosingBalance   float64 `json:"closingBalance"`
	ClosingLabel     string  `json:"closingLabel"`
	ClosingFormatted string  `json:"closingFormatted"`
}

// LedgerStatement is the general ledger payload for one ledger: opening
// balance, one row per period entry with running balance, and the summary.
type LedgerStatement struct {
	LedgerID       int64                 `json:"ledgerId"`
	LedgerName     string                `json:"ledgerName"`
	LedgerType     books.LedgerType      `json:"ledgerType"`
	Range          DateRange             `json:"range"`
	OpeningBalance float64               `json:"openingBalance"`
	OpeningLabel   string                `json:"openingLabel"`
	Transactions   []books.StatementRow  `json:"transactions"`
	Summary        StatementSummary      `json:"summary"`
}

// BuildLedgerStatement folds the ordered period entries on top of the
// signed opening balance, resolving the ledger's nature through the given
// classifier. The derived closing is cross-checked against the fold's final
// value; drift between the two paths marks corrupt input.
func BuildLedgerStatement(c books.Classifier, ledger books.Ledger, rng DateRange, opening float64, rows []books.EntryRow) (LedgerStatement, error) {
	nature := c.IsDebitNature(ledger.Type)
	transactions, folded := books.FoldRunning(opening, nature, rows)
	debit, credit := books.PeriodTotals(rows)
	closing := books.ClosingBalance(opening, debit, credit, nature)
	if math.Abs(closing-folded) > books.AmountTolerance {
		return LedgerStatement{}, fmt.Errorf("reports: ledger %d closing %.2f diverges from running fold %.2f: %w",
			ledger.ID, closing, folded, books.ErrVoucherIntegrity)
	}
	return LedgerStatement{
		LedgerID:       ledger.ID,
		LedgerName:     ledger.Name,
		LedgerType:     ledger.Type,
		Range:          rng,
		OpeningBalance: math.Abs(opening),
		OpeningLabel:   books.BalanceLabel(opening, nature),
		Transactions:   transactions,
		Summary: StatementSummary{
			TotalDebit:       debit,
			TotalCredit:      credit,
			ClosingBalance:   math.Abs(closing),
			ClosingLabel:     books.BalanceLabel(closing, nature),
			ClosingFormatted: FormatAmount(math.Abs(closing)),
		},
	}, nil
}

// CashBookRow is one cash movement; debits arrive as receipts and credits
// leave as payments.
type CashBookRow struct {
	Date          string            `json:"date"`
	VoucherNumber int64             `json:"voucherNumber"`
	VoucherType   books.VoucherType `json:"voucherType"`
	Particulars   string            `json:"particulars"`
	Narration     string            `json:"narration,omitempty"`
	Receipt       float64           `json:"receipt"`
	Payment       float64           `json:"payment"`
	Balance       float64           `json:"balance"`
	BalanceType   string            `json:"balanceType"`
}

// CashBookSummary totals the cash book columns.
type CashBookSummary struct {
	TotalReceipts    float64 `json:"totalReceipts"`
	TotalPayments    float64 `json:"totalPayments"`
	ClosingBalance   float64 `json:"closingBalance"`
	ClosingLabel     string  `json:"closingLabel"`
	ClosingFormatted string  `json:"closingFormatted"`
}

// CashBook is the chronological cash ledger with running balance.
type CashBook struct {
	LedgerName     string          `json:"ledgerName"`
	Range          DateRange       `json:"range"`
	OpeningBalance float64         `json:"openingBalance"`
	OpeningLabel   string          `json:"openingLabel"`
	Rows           []CashBookRow   `json:"rows"`
	Summary        CashBookSummary `json:"summary"`
}

// BuildCashBook renders the cash ledger statement in receipt/payment
// columns.
func BuildCashBook(c books.Classifier, ledger books.Ledger, rng DateRange, opening float64, rows []books.EntryRow) (CashBook, error) {
	stmt, err := BuildLedgerStatement(c, ledger, rng, opening, rows)
	if err != nil {
		return CashBook{}, err
	}
	out := CashBook{
		LedgerName:     ledger.Name,
		Range:          rng,
		OpeningBalance: stmt.OpeningBalance,
		OpeningLabel:   stmt.OpeningLabel,
		Rows:           make([]CashBookRow, 0, len(stmt.Transactions)),
	}
	for _, row := range stmt.Transactions {
		out.Rows = append(out.Rows, CashBookRow{
			Date:          row.Date,
			VoucherNumber: row.VoucherNumber,
			VoucherType:   row.VoucherType,
			Particulars:   row.Particulars,
			Narration:     row.Narration,
			Receipt:       row.Debit,
			Payment:       row.Credit,
			Balance:       row.Balance,
			BalanceType:   row.BalanceType,
		})
	}
	out.Summary = CashBookSummary{
		TotalReceipts:    stmt.Summary.TotalDebit,
		TotalPayments:    stmt.Summary.TotalCredit,
		ClosingBalance:   stmt.Summary.ClosingBalance,
		ClosingLabel:     stmt.Summary.ClosingLabel,
		ClosingFormatted: stmt.Summary.ClosingFormatted,
	}
	return out, nil
}

package books

import (
	"math"
	"sort"
)

// Balance label values carried on statement rows.
const (
	LabelDebit  = "Dr"
	LabelCredit = "Cr"
)

// BalanceLabel derives the Dr/Cr label for a signed balance. A balance of
// exactly zero is labelled Dr for both natures; downstream layouts rely on
// that convention.
func BalanceLabel(balance float64, debitNature bool) string {
	if (debitNature && balance >= 0) || (!debitNature && balance < 0) {
		return LabelDebit
	}
	return LabelCredit
}

// OpeningBalance replays every entry dated before the report window against
// the ledger's stored baseline. Ordering of rows is irrelevant here, only
// the signed sum matters.
func OpeningBalance(baseline float64, debitNature bool, rows []EntryRow) float64 {
	balance := baseline
	for _, row := range rows {
		if debitNature {
			balance += row.NetChange()
		} else {
			balance -= row.NetChange()
		}
	}
	return balance
}

// StatementRow is one reportable step of a running-balance fold.
type StatementRow struct {
	Date          string      `json:"date"`
	VoucherID     int64       `json:"voucherId"`
	VoucherNumber int64       `json:"voucherNumber"`
	VoucherType   VoucherType `json:"voucherType"`
	Particulars   string      `json:"particulars"`
	Narration     string      `json:"narration,omitempty"`
	Debit         float64     `json:"debit"`
	Credit        float64     `json:"credit"`
	Balance       float64     `json:"balance"`
	BalanceType   string      `json:"balanceType"`
}

// SortEntries orders rows by voucher date then voucher number. The sort is
// stable: rows sharing both keys keep their retrieval order, which is the
// documented contract for intermediate balances.
func SortEntries(rows []EntryRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return rows[i].VoucherNumber < rows[j].VoucherNumber
	})
}

// FoldRunning walks the ordered period entries and yields one row per step
// with the absolute balance and its Dr/Cr label. The final signed balance is
// returned alongside the rows so callers can cross-check it against
// ClosingBalance.
func FoldRunning(opening float64, debitNature bool, rows []EntryRow) ([]StatementRow, float64) {
	balance := opening
	out := make([]StatementRow, 0, len(rows))
	for _, row := range rows {
		if debitNature {
			balance += row.NetChange()
		} else {
			balance -= row.NetChange()
		}
		out = append(out, StatementRow{
			Date:          row.Date.Format("2006-01-02"),
			VoucherID:     row.VoucherID,
			VoucherNumber: row.VoucherNumber,
			VoucherType:   row.VoucherType,
			Particulars:   row.Particulars,
			Narration:     row.Narration,
			Debit:         row.Debit,
			Credit:        row.Credit,
			Balance:       math.Abs(balance),
			BalanceType:   BalanceLabel(balance, debitNature),
		})
	}
	return out, balance
}

// PeriodTotals sums the debit and credit columns of the period entries.
func PeriodTotals(rows []EntryRow) (debit, credit float64) {
	for _, row := range rows {
		debit += row.Debit
		credit += row.Credit
	}
	return debit, credit
}

// ClosingBalance combines the opening balance with period totals. For any
// entry set this must agree with the last value produced by FoldRunning over
// the same rows; the two paths are deliberately redundant and tested against
// each other.
func ClosingBalance(opening, periodDebit, periodCredit float64, debitNature bool) float64 {
	if debitNature {
		return opening + (periodDebit - periodCredit)
	}
	return opening - (periodDebit - periodCredit)
}

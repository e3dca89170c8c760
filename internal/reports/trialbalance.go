package reports

import (
	"math"

	"github.com/bahikhata-erp/bahikhata/internal/books"
)

// TrialBalanceRow is one active ledger with its closing split into debit and
// credit columns.
type TrialBalanceRow struct {
	LedgerID      int64            `json:"ledgerId"`
	Name          string           `json:"name"`
	Type          books.LedgerType `json:"type"`
	Opening       float64          `json:"openingBalance"`
	OpeningLabel  string           `json:"openingLabel"`
	Debit         float64          `json:"debit"`
	Credit        float64          `json:"credit"`
	ClosingDebit  float64          `json:"closingDebit"`
	ClosingCredit float64          `json:"closingCredit"`
}

// TrialBalanceSection groups rows under one balance category with subtotals.
type TrialBalanceSection struct {
	Category      books.BalanceCategory `json:"category"`
	Rows          []TrialBalanceRow     `json:"rows"`
	Debit         float64               `json:"debitTotal"`
	Credit        float64               `json:"creditTotal"`
	ClosingDebit  float64               `json:"closingDebitTotal"`
	ClosingCredit float64               `json:"closingCreditTotal"`
}

// TrialBalance lists ledgers with period activity, sectioned by category.
// Its closing debit and credit totals must agree whenever the underlying
// voucher set balances; Difference exposes any residue.
type TrialBalance struct {
	Range              DateRange             `json:"range"`
	Sections           []TrialBalanceSection `json:"sections"`
	TotalDebit         float64               `json:"totalDebit"`
	TotalCredit        float64               `json:"totalCredit"`
	TotalClosingDebit  float64               `json:"totalClosingDebit"`
	TotalClosingCredit float64               `json:"totalClosingCredit"`
	Difference         float64               `json:"difference"`
}

// BuildTrialBalance assembles the trial balance from per-ledger aggregates.
// Ledgers with zero debit and zero credit activity inside the period are
// omitted entirely, even when their opening or closing balance is nonzero;
// that filter is part of the report's definition.
func BuildTrialBalance(c books.Classifier, rng DateRange, balances []LedgerBalance) TrialBalance {
	sections := make(map[books.BalanceCategory]*TrialBalanceSection)
	for _, bal := range balances {
		if bal.Debit == 0 && bal.Credit == 0 {
			continue
		}
		cat := books.Category(bal.Type)
		section, ok := sections[cat]
		if !ok {
			section = &TrialBalanceSection{Category: cat}
			sections[cat] = section
		}
		nature := c.IsDebitNature(bal.Type)
		closing := bal.Closing(c)
		row := TrialBalanceRow{
			LedgerID:     bal.LedgerID,
			Name:         bal.Name,
			Type:         bal.Type,
			Opening:      math.Abs(bal.Opening),
			OpeningLabel: books.BalanceLabel(bal.Opening, nature),
			Debit:        bal.Debit,
			Credit:       bal.Credit,
		}
		if books.BalanceLabel(closing, nature) == books.LabelDebit {
			row.ClosingDebit = math.Abs(closing)
		} else {
			row.ClosingCredit = math.Abs(closing)
		}
		section.Rows = append(section.Rows, row)
		section.Debit += row.Debit
		section.Credit += row.Credit
		section.ClosingDebit += row.ClosingDebit
		section.ClosingCredit += row.ClosingCredit
	}

	result := TrialBalance{Range: rng}
	for _, cat := range books.Categories() {
		section, ok := sections[cat]
		if !ok {
			continue
		}
		result.Sections = append(result.Sections, *section)
		result.TotalDebit += section.Debit
		result.TotalCredit += section.Credit
		result.TotalClosingDebit += section.ClosingDebit
		result.TotalClosingCredit += section.ClosingCredit
	}
	result.Difference = result.TotalClosingDebit - result.TotalClosingCredit
	return result
}

package reports

import (
	"math"

	"github.com/bahikhata-erp/bahikhata/internal/books"
)

// LedgerBalance aggregates one ledger with its signed opening balance and
// period totals. It is the input shape shared by the grouped reports.
type LedgerBalance struct {
	LedgerID int64
	Name     string
	Type     books.LedgerType
	Opening  float64
	Debit    float64
	Credit   float64
}

// Closing computes the signed closing balance for the ledger's nature as
// resolved by the classifier.
func (b LedgerBalance) Closing(c books.Classifier) float64 {
	return books.ClosingBalance(b.Opening, b.Debit, b.Credit, c.IsDebitNature(b.Type))
}

// AbstractRow is one ledger inside a ledger abstract section.
type AbstractRow struct {
	LedgerID     int64            `json:"ledgerId"`
	Name         string           `json:"name"`
	Type         books.LedgerType `json:"type"`
	Opening      float64          `json:"openingBalance"`
	OpeningLabel string           `json:"openingLabel"`
	Debit        float64          `json:"debit"`
	Credit       float64          `json:"credit"`
	Closing      float64          `json:"closingBalance"`
	ClosingLabel string           `json:"closingLabel"`
}

// AbstractSection groups abstract rows under one balance category.
type AbstractSection struct {
	Category books.BalanceCategory `json:"category"`
	Rows     []AbstractRow         `json:"rows"`
	Opening  float64               `json:"openingTotal"`
	Debit    float64               `json:"debitTotal"`
	Credit   float64               `json:"creditTotal"`
	Closing  float64               `json:"closingTotal"`
}

// LedgerAbstract lists every ledger grouped by category. Unlike the trial
// balance it has no period-activity exclusion, so dormant ledgers still
// appear with their carried balances.
type LedgerAbstract struct {
	Range        DateRange         `json:"range"`
	Sections     []AbstractSection `json:"sections"`
	TotalOpening float64           `json:"totalOpening"`
	TotalDebit   float64           `json:"totalDebit"`
	TotalCredit  float64           `json:"totalCredit"`
	TotalClosing float64           `json:"totalClosing"`
}

// BuildLedgerAbstract groups ledger balances into the fixed category
// sections with subtotals rolled into a grand total. Input order inside a
// section is preserved.
func BuildLedgerAbstract(c books.Classifier, rng DateRange, balances []LedgerBalance) LedgerAbstract {
	sections := make(map[books.BalanceCategory]*AbstractSection)
	for _, bal := range balances {
		cat := books.Category(bal.Type)
		section, ok := sections[cat]
		if !ok {
			section = &AbstractSection{Category: cat}
			sections[cat] = section
		}
		nature := c.IsDebitNature(bal.Type)
		closing := bal.Closing(c)
		section.Rows = append(section.Rows, AbstractRow{
			LedgerID:     bal.LedgerID,
			Name:         bal.Name,
			Type:         bal.Type,
			Opening:      math.Abs(bal.Opening),
			OpeningLabel: books.BalanceLabel(bal.Opening, nature),
			Debit:        bal.Debit,
			Credit:       bal.Credit,
			Closing:      math.Abs(closing),
			ClosingLabel: books.BalanceLabel(closing, nature),
		})
		section.Opening += bal.Opening
		section.Debit += bal.Debit
		section.Credit += bal.Credit
		section.Closing += closing
	}

	result := LedgerAbstract{Range: rng}
	for _, cat := range books.Categories() {
		section, ok := sections[cat]
		if !ok {
			continue
		}
		result.Sections = append(result.Sections, *section)
		result.TotalOpening += section.Opening
		result.TotalDebit += section.Debit
		result.TotalCredit += section.Credit
		result.TotalClosing += section.Closing
	}
	return result
}

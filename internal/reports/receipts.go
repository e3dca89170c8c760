package reports

import (
	"sort"
	"time"

	"github.com/bahikhata-erp/bahikhata/internal/books"
)

// RDEntry is one classified movement against a counter-ledger of a Receipt
// or Payment voucher: credits to the head are receipts, debits are payments.
type RDEntry struct {
	Date          time.Time
	VoucherNumber int64
	LedgerID      int64
	LedgerName    string
	LedgerType    books.LedgerType
	Receipt       float64
	Payment       float64
}

// RDPair totals the two columns of the receipts & disbursements set.
type RDPair struct {
	Receipts float64 `json:"receipts"`
	Payments float64 `json:"payments"`
}

func (p *RDPair) add(e RDEntry) {
	p.Receipts += e.Receipt
	p.Payments += e.Payment
}

// Add folds another pair into this one.
func (p RDPair) Add(o RDPair) RDPair {
	return RDPair{Receipts: p.Receipts + o.Receipts, Payments: p.Payments + o.Payments}
}

// --- layout (a): single-column chronological ---

// RDSingleRow is one movement with a single amount column and its side.
type RDSingleRow struct {
	Date          string  `json:"date"`
	VoucherNumber int64   `json:"voucherNumber"`
	LedgerName    string  `json:"ledgerName"`
	Side          string  `json:"side"`
	Amount        float64 `json:"amount"`
}

// RDSingle is the chronological single-column layout.
type RDSingle struct {
	Range  DateRange     `json:"range"`
	Rows   []RDSingleRow `json:"rows"`
	Totals RDPair        `json:"summary"`
}

// BuildReceiptsSingle renders the chronological single-column layout.
// Entries arrive in (date, number) order and keep it.
func BuildReceiptsSingle(rng DateRange, entries []RDEntry) RDSingle {
	out := RDSingle{Range: rng, Rows: make([]RDSingleRow, 0, len(entries))}
	for _, e := range entries {
		side, amount := "receipt", e.Receipt
		if e.Payment > 0 {
			side, amount = "payment", e.Payment
		}
		out.Rows = append(out.Rows, RDSingleRow{
			Date:          e.Date.Format("2006-01-02"),
			VoucherNumber: e.VoucherNumber,
			LedgerName:    e.LedgerName,
			Side:          side,
			Amount:        amount,
		})
		out.Totals.add(e)
	}
	return out
}

// --- layout (b): three-column daily buckets with running balance ---

// RDDailyRow buckets one day's receipts and payments with the running fund
// balance after that day.
type RDDailyRow struct {
	Date     string  `json:"date"`
	Receipts float64 `json:"receipts"`
	Payments float64 `json:"payments"`
	Balance  float64 `json:"balance"`
}

// RDDaily is the daily three-column layout.
type RDDaily struct {
	Range          DateRange    `json:"range"`
	OpeningBalance float64      `json:"openingBalance"`
	Rows           []RDDailyRow `json:"rows"`
	Totals         RDPair       `json:"summary"`
	ClosingBalance float64      `json:"closingBalance"`
}

// BuildReceiptsDaily buckets entries per day and runs the fund balance
// forward from the opening cash and bank position.
func BuildReceiptsDaily(rng DateRange, opening float64, entries []RDEntry) RDDaily {
	byDay := make(map[string]*RDPair)
	order := make([]string, 0)
	for _, e := range entries {
		key := e.Date.Format("2006-01-02")
		pair, ok := byDay[key]
		if !ok {
			pair = &RDPair{}
			byDay[key] = pair
			order = append(order, key)
		}
		pair.add(e)
	}
	sort.Strings(order)

	out := RDDaily{Range: rng, OpeningBalance: opening, Rows: make([]RDDailyRow, 0, len(order))}
	balance := opening
	for _, key := range order {
		pair := byDay[key]
		balance += pair.Receipts - pair.Payments
		out.Rows = append(out.Rows, RDDailyRow{
			Date:     key,
			Receipts: pair.Receipts,
			Payments: pair.Payments,
			Balance:  balance,
		})
		out.Totals = out.Totals.Add(*pair)
	}
	out.ClosingBalance = balance
	return out
}

// --- layout (c): classified by ledger head ---

// RDHeadEntry is one movement inside a classified head.
type RDHeadEntry struct {
	Date          string  `json:"date"`
	VoucherNumber int64   `json:"voucherNumber"`
	Receipt       float64 `json:"receipt"`
	Payment       float64 `json:"payment"`
}

// RDHead groups movements for one ledger head with its subtotal.
type RDHead struct {
	LedgerID   int64         `json:"ledgerId"`
	LedgerName string        `json:"ledgerName"`
	Entries    []RDHeadEntry `json:"entries"`
	Totals     RDPair        `json:"subtotal"`
}

// RDClassified is the classified-by-head layout.
type RDClassified struct {
	Range  DateRange `json:"range"`
	Heads  []RDHead  `json:"heads"`
	Totals RDPair    `json:"summary"`
}

// BuildReceiptsClassified groups entries under their ledger head, heads
// ordered by name.
func BuildReceiptsClassified(rng DateRange, entries []RDEntry) RDClassified {
	heads := make(map[int64]*RDHead)
	for _, e := range entries {
		head, ok := heads[e.LedgerID]
		if !ok {
			head = &RDHead{LedgerID: e.LedgerID, LedgerName: e.LedgerName}
			heads[e.LedgerID] = head
		}
		head.Entries = append(head.Entries, RDHeadEntry{
			Date:          e.Date.Format("2006-01-02"),
			VoucherNumber: e.VoucherNumber,
			Receipt:       e.Receipt,
			Payment:       e.Payment,
		})
		head.Totals.add(e)
	}

	out := RDClassified{Range: rng, Heads: make([]RDHead, 0, len(heads))}
	for _, head := range heads {
		out.Heads = append(out.Heads, *head)
		out.Totals = out.Totals.Add(head.Totals)
	}
	sort.Slice(out.Heads, func(i, j int) bool {
		return out.Heads[i].LedgerName < out.Heads[j].LedgerName
	})
	return out
}

// --- layout (d): ledger-wise triads ---

// RDTriadRow carries the upto-period, during-period and end-of-period
// receipt/payment totals for one ledger.
type RDTriadRow struct {
	LedgerID int64            `json:"ledgerId"`
	Name     string           `json:"name"`
	Type     books.LedgerType `json:"type"`
	Upto     RDPair           `json:"uptoPeriod"`
	During   RDPair           `json:"duringPeriod"`
	End      RDPair           `json:"endOfPeriod"`
}

// RDTriadSection groups triad rows under a balance category.
type RDTriadSection struct {
	Category books.BalanceCategory `json:"category"`
	Rows     []RDTriadRow          `json:"rows"`
	Upto     RDPair                `json:"uptoTotal"`
	During   RDPair                `json:"duringTotal"`
	End      RDPair                `json:"endTotal"`
}

// RDLedgerWise is the ledger-wise triad layout with category sections.
type RDLedgerWise struct {
	Range    DateRange        `json:"range"`
	Sections []RDTriadSection `json:"sections"`
	Upto     RDPair           `json:"uptoGrandTotal"`
	During   RDPair           `json:"duringGrandTotal"`
	End      RDPair           `json:"endGrandTotal"`
}

// BuildReceiptsLedgerWise sections the per-ledger triads by category and
// rolls subtotals into grand totals. End equals Upto plus During for every
// row by construction.
func BuildReceiptsLedgerWise(rng DateRange, rows []RDTriadRow) RDLedgerWise {
	sections := make(map[books.BalanceCategory]*RDTriadSection)
	for _, row := range rows {
		row.End = row.Upto.Add(row.During)
		cat := books.Category(row.Type)
		section, ok := sections[cat]
		if !ok {
			section = &RDTriadSection{Category: cat}
			sections[cat] = section
		}
		section.Rows = append(section.Rows, row)
		section.Upto = section.Upto.Add(row.Upto)
		section.During = section.During.Add(row.During)
		section.End = section.End.Add(row.End)
	}

	out := RDLedgerWise{Range: rng}
	for _, cat := range books.Categories() {
		section, ok := sections[cat]
		if !ok {
			continue
		}
		out.Sections = append(out.Sections, *section)
		out.Upto = out.Upto.Add(section.Upto)
		out.During = out.During.Add(section.During)
		out.End = out.End.Add(section.End)
	}
	return out
}

// --- layout (e): monthly single-column ---

// Monthly layout section names. Bank heads split out of assets; remaining
// categories fold into the nearest of the four fixed sections.
const (
	rdSectionLiability = "Liability"
	rdSectionAsset     = "Asset"
	rdSectionBank      = "Bank"
	rdSectionExpense   = "Expense"
)

// RDMonthlyRow is one ledger's net during-period movement for the month.
type RDMonthlyRow struct {
	LedgerName string  `json:"ledgerName"`
	Amount     float64 `json:"amount"`
}

// RDMonthlySection is one of the four fixed sections of a month bucket.
type RDMonthlySection struct {
	Name  string         `json:"name"`
	Rows  []RDMonthlyRow `json:"rows"`
	Total float64        `json:"total"`
}

// RDMonthBucket holds one month's sections and total.
type RDMonthBucket struct {
	Month    string             `json:"month"`
	Sections []RDMonthlySection `json:"sections"`
	Total    float64            `json:"total"`
}

// RDMonthly is the monthly single-column layout, during-period amounts only.
type RDMonthly struct {
	Range  DateRange       `json:"range"`
	Months []RDMonthBucket `json:"months"`
	Total  float64         `json:"total"`
}

func rdMonthlySectionFor(t books.LedgerType) string {
	if t == books.LedgerTypeBank {
		return rdSectionBank
	}
	switch books.Category(t) {
	case books.CategoryLiabilities, books.CategoryCapital, books.CategoryIncome:
		return rdSectionLiability
	case books.CategoryExpenses:
		return rdSectionExpense
	default:
		return rdSectionAsset
	}
}

// BuildReceiptsMonthly buckets net during-period movements per month, each
// month sectioned by Liability/Asset/Bank/Expense. Entries dated outside
// the window are ignored so no stray month bucket can appear.
func BuildReceiptsMonthly(rng DateRange, entries []RDEntry) RDMonthly {
	months := make(map[string]map[string]map[string]float64)
	monthOrder := make([]string, 0)
	for _, e := range entries {
		if !rng.Contains(e.Date) {
			continue
		}
		month := e.Date.Format("2006-01")
		bucket, ok := months[month]
		if !ok {
			bucket = make(map[string]map[string]float64)
			months[month] = bucket
			monthOrder = append(monthOrder, month)
		}
		sectionName := rdMonthlySectionFor(e.LedgerType)
		section, ok := bucket[sectionName]
		if !ok {
			section = make(map[string]float64)
			bucket[sectionName] = section
		}
		section[e.LedgerName] += e.Receipt - e.Payment
	}
	sort.Strings(monthOrder)

	out := RDMonthly{Range: rng}
	sectionOrder := []string{rdSectionLiability, rdSectionAsset, rdSectionBank, rdSectionExpense}
	for _, month := range monthOrder {
		label, _ := time.Parse("2006-01", month)
		bucket := RDMonthBucket{Month: label.Format("Jan 2006")}
		for _, name := range sectionOrder {
			ledgers, ok := months[month][name]
			if !ok {
				continue
			}
			section := RDMonthlySection{Name: name}
			keys := make([]string, 0, len(ledgers))
			for ledger := range ledgers {
				keys = append(keys, ledger)
			}
			sort.Strings(keys)
			for _, ledger := range keys {
				section.Rows = append(section.Rows, RDMonthlyRow{LedgerName: ledger, Amount: ledgers[ledger]})
				section.Total += ledgers[ledger]
			}
			bucket.Sections = append(bucket.Sections, section)
			bucket.Total += section.Total
		}
		out.Months = append(out.Months, bucket)
		out.Total += bucket.Total
	}
	return out
}

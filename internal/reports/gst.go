package reports

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bahikhata-erp/bahikhata/internal/books"
)

// GSTEntry is one tax-bearing voucher with its taxable value and the tax
// split across the three statutory heads.
type GSTEntry struct {
	Date          time.Time
	VoucherNumber int64
	TaxableValue  float64
	CGST          float64
	SGST          float64
	IGST          float64
}

// GSTBreakup totals a GST section. Amounts are computed with decimal
// arithmetic and rounded to two places at the boundary.
type GSTBreakup struct {
	TaxableValue float64 `json:"taxableValue"`
	CGST         float64 `json:"cgst"`
	SGST         float64 `json:"sgst"`
	IGST         float64 `json:"igst"`
	TotalTax     float64 `json:"totalTax"`
}

// GSTSummary is the period GST return: outward supplies, inward supplies
// eligible for input credit, and the net liability.
type GSTSummary struct {
	Range        DateRange  `json:"range"`
	Outward      GSTBreakup `json:"outward"`
	Inward       GSTBreakup `json:"inward"`
	NetLiability GSTBreakup `json:"netLiability"`
}

type gstAccumulator struct {
	taxable decimal.Decimal
	cgst    decimal.Decimal
	sgst    decimal.Decimal
	igst    decimal.Decimal
}

func (a *gstAccumulator) add(e GSTEntry) {
	a.taxable = a.taxable.Add(decimal.NewFromFloat(e.TaxableValue))
	a.cgst = a.cgst.Add(decimal.NewFromFloat(e.CGST))
	a.sgst = a.sgst.Add(decimal.NewFromFloat(e.SGST))
	a.igst = a.igst.Add(decimal.NewFromFloat(e.IGST))
}

func (a gstAccumulator) breakup() GSTBreakup {
	total := a.cgst.Add(a.sgst).Add(a.igst)
	return GSTBreakup{
		TaxableValue: a.taxable.Round(2).InexactFloat64(),
		CGST:         a.cgst.Round(2).InexactFloat64(),
		SGST:         a.sgst.Round(2).InexactFloat64(),
		IGST:         a.igst.Round(2).InexactFloat64(),
		TotalTax:     total.Round(2).InexactFloat64(),
	}
}

func (a gstAccumulator) sub(b gstAccumulator) gstAccumulator {
	return gstAccumulator{
		taxable: a.taxable.Sub(b.taxable),
		cgst:    a.cgst.Sub(b.cgst),
		sgst:    a.sgst.Sub(b.sgst),
		igst:    a.igst.Sub(b.igst),
	}
}

// ClassifyGST scans vouchers for entries against Duties & Taxes ledgers and
// splits them into outward (output tax credited) and inward (input tax
// debited) entries. The taxable value is the voucher's income credit or
// expense debit alongside the tax lines.
func ClassifyGST(vouchers []books.Voucher) (outward, inward []GSTEntry) {
	for _, v := range vouchers {
		var out, in GSTEntry
		var hasOut, hasIn bool
		for _, entry := range v.Entries {
			if entry.LedgerType == books.LedgerTypeDutiesAndTaxes {
				if entry.Credit > 0 {
					hasOut = true
					applyTaxHead(&out, entry.LedgerName, entry.Credit)
				}
				if entry.Debit > 0 {
					hasIn = true
					applyTaxHead(&in, entry.LedgerName, entry.Debit)
				}
				continue
			}
			switch books.Category(entry.LedgerType) {
			case books.CategoryIncome:
				out.TaxableValue += entry.Credit
			case books.CategoryExpenses:
				in.TaxableValue += entry.Debit
			}
		}
		if hasOut {
			out.Date = v.Date
			out.VoucherNumber = v.Number
			outward = append(outward, out)
		}
		if hasIn {
			in.Date = v.Date
			in.VoucherNumber = v.Number
			inward = append(inward, in)
		}
	}
	return outward, inward
}

func applyTaxHead(e *GSTEntry, ledgerName string, amount float64) {
	name := strings.ToUpper(ledgerName)
	switch {
	case strings.Contains(name, "IGST"):
		e.IGST += amount
	case strings.Contains(name, "SGST"), strings.Contains(name, "UTGST"):
		e.SGST += amount
	default:
		e.CGST += amount
	}
}

// BuildGSTSummary totals the classified entries into the period return.
// Net liability may go negative when input credit exceeds output tax.
func BuildGSTSummary(rng DateRange, outward, inward []GSTEntry) GSTSummary {
	var out, in gstAccumulator
	for _, e := range outward {
		out.add(e)
	}
	for _, e := range inward {
		in.add(e)
	}
	return GSTSummary{
		Range:        rng,
		Outward:      out.breakup(),
		Inward:       in.breakup(),
		NetLiability: out.sub(in).breakup(),
	}
}

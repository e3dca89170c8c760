package reports

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/bahikhata-erp/bahikhata/internal/books"
	"github.com/bahikhata-erp/bahikhata/internal/inventory"
)

// LedgerStore abstracts ledger reads for report assembly.
type LedgerStore interface {
	FindLedger(ctx context.Context, id int64) (books.Ledger, error)
	Ledgers(ctx context.Context, filter books.LedgerFilter) ([]books.Ledger, error)
}

// VoucherStore abstracts voucher reads. EntriesBefore and EntriesBetween
// return rows pre-grouped by ledger id so batch reports issue one query for
// the whole ledger set instead of one per ledger.
type VoucherStore interface {
	Vouchers(ctx context.Context, filter books.VoucherFilter) ([]books.Voucher, error)
	EntriesBefore(ctx context.Context, ledgerIDs []int64, before time.Time) (map[int64][]books.EntryRow, error)
	EntriesBetween(ctx context.Context, ledgerIDs []int64, from, to time.Time) (map[int64][]books.EntryRow, error)
}

// InventoryStore abstracts item and stock movement reads.
type InventoryStore interface {
	FindItem(ctx context.Context, id int64) (inventory.Item, error)
	Items(ctx context.Context) ([]inventory.Item, error)
	TransactionsBefore(ctx context.Context, itemID int64, before time.Time) ([]inventory.StockTransaction, error)
	TransactionsBetween(ctx context.Context, itemID int64, from, to time.Time) ([]inventory.StockTransaction, error)
}

// batchWorkers bounds the per-ledger fold fan-out in batch reports.
const batchWorkers = 8

// Service computes report payloads. It holds no mutable state between
// requests; every payload is recomputed (or served verbatim from cache) per
// call, so identical inputs over unchanged books yield byte-identical JSON.
type Service struct {
	ledgers    LedgerStore
	vouchers   VoucherStore
	stock      InventoryStore
	cache      *Cache
	logger     *slog.Logger
	classifier books.Classifier
	group      singleflight.Group
	now        func() time.Time
}

// NewService constructs the report service.
func NewService(ledgers LedgerStore, vouchers VoucherStore, stock InventoryStore, cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		ledgers:  ledgers,
		vouchers: vouchers,
		stock:    stock,
		cache:    cache,
		logger:   logger,
		now:      time.Now,
	}
}

// WithNow overrides the clock for testing.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// WithClassifier swaps the balance classifier, typically to change how
// unrecognised ledger types are treated.
func (s *Service) WithClassifier(c books.Classifier) {
	s.classifier = c
}

// Resolve maps the requested preset onto a concrete date range.
func (s *Service) Resolve(preset Preset, customStart, customEnd string) (DateRange, error) {
	return ResolveRange(preset, customStart, customEnd, s.now())
}

func rangeKey(rng DateRange) string {
	return rng.Start.Format("20060102") + "-" + rng.End.Format("20060102")
}

// cached serves dest from the versioned cache, collapsing concurrent
// identical builds through singleflight. Cache failures degrade to a direct
// build so reporting never depends on Redis availability.
func (s *Service) cached(ctx context.Context, dest interface{}, parts []string, loader func(context.Context) (interface{}, error)) error {
	key, err := s.cache.BuildKey(ctx, parts...)
	if err != nil {
		s.logger.Warn("report cache key", slog.Any("error", err))
		value, err := loader(ctx)
		if err != nil {
			return err
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return err
		}
		return json.Unmarshal(raw, dest)
	}
	raw, err, _ := s.group.Do(key, func() (interface{}, error) {
		var payload json.RawMessage
		if err := s.cache.FetchJSON(ctx, key, &payload, loader); err != nil {
			return nil, err
		}
		return payload, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(raw.(json.RawMessage), dest)
}

// openingBalance replays entries dated before the cutoff against the stored
// baseline. A zero cutoff yields 0 with a log line instead of an error so
// batch loops stay total.
func (s *Service) openingBalance(ctx context.Context, ledger books.Ledger, cutoff time.Time) (float64, error) {
	if cutoff.IsZero() {
		s.logger.Warn("opening balance requested without cutoff",
			slog.Int64("ledger_id", ledger.ID))
		return 0, nil
	}
	grouped, err := s.vouchers.EntriesBefore(ctx, []int64{ledger.ID}, cutoff)
	if err != nil {
		return 0, err
	}
	nature := s.classifier.IsDebitNature(ledger.Type)
	return books.OpeningBalance(ledger.OpeningBalance, nature, grouped[ledger.ID]), nil
}

// statementRows loads the ledger's period entries from full vouchers so the
// contra particulars can be resolved, and validates voucher integrity on
// the way. Row narration prefers the entry's own note over the voucher
// narration.
func (s *Service) statementRows(ctx context.Context, ledger books.Ledger, rng DateRange) ([]books.EntryRow, error) {
	vouchers, err := s.vouchers.Vouchers(ctx, books.VoucherFilter{From: rng.Start, To: rng.End, LedgerID: ledger.ID})
	if err != nil {
		return nil, err
	}
	rows := make([]books.EntryRow, 0, len(vouchers))
	for _, v := range vouchers {
		if err := v.Validate(); err != nil {
			return nil, err
		}
		entry, ok := v.EntryFor(ledger.ID)
		if !ok {
			continue
		}
		narration := entry.Narration
		if narration == "" {
			narration = v.Narration
		}
		rows = append(rows, books.EntryRow{
			VoucherID:     v.ID,
			VoucherNumber: v.Number,
			VoucherType:   v.Type,
			Date:          v.Date,
			Debit:         entry.Debit,
			Credit:        entry.Credit,
			Narration:     narration,
			Particulars:   books.Particulars(v.Entries, ledger.ID),
		})
	}
	books.SortEntries(rows)
	return rows, nil
}

// CashBook builds the cash book for the range. A missing Cash ledger is a
// terminal failure for this report.
func (s *Service) CashBook(ctx context.Context, rng DateRange) (CashBook, error) {
	var out CashBook
	err := s.cached(ctx, &out, []string{"reports", "cashbook", rangeKey(rng)}, func(ctx context.Context) (interface{}, error) {
		return s.buildCashBook(ctx, rng)
	})
	return out, err
}

func (s *Service) buildCashBook(ctx context.Context, rng DateRange) (CashBook, error) {
	cashType := books.LedgerTypeCash
	ledgers, err := s.ledgers.Ledgers(ctx, books.LedgerFilter{Type: &cashType})
	if err != nil {
		return CashBook{}, err
	}
	if len(ledgers) == 0 {
		return CashBook{}, books.ErrLedgerNotFound
	}
	ledger := ledgers[0]
	opening, err := s.openingBalance(ctx, ledger, rng.Start)
	if err != nil {
		return CashBook{}, err
	}
	rows, err := s.statementRows(ctx, ledger, rng)
	if err != nil {
		return CashBook{}, err
	}
	return BuildCashBook(s.classifier, ledger, rng, opening, rows)
}

// LedgerStatement builds the general ledger statement for one ledger.
func (s *Service) LedgerStatement(ctx context.Context, ledgerID int64, rng DateRange) (LedgerStatement, error) {
	var out LedgerStatement
	err := s.cached(ctx, &out, []string{"reports", "ledger", formatID(ledgerID), rangeKey(rng)}, func(ctx context.Context) (interface{}, error) {
		ledger, err := s.ledgers.FindLedger(ctx, ledgerID)
		if err != nil {
			return nil, err
		}
		opening, err := s.openingBalance(ctx, ledger, rng.Start)
		if err != nil {
			return nil, err
		}
		rows, err := s.statementRows(ctx, ledger, rng)
		if err != nil {
			return nil, err
		}
		return BuildLedgerStatement(s.classifier, ledger, rng, opening, rows)
	})
	return out, err
}

// PartyStatement builds the statement for a debtor or creditor ledger.
func (s *Service) PartyStatement(ctx context.Context, ledgerID int64, rng DateRange) (PartyStatement, error) {
	var out PartyStatement
	err := s.cached(ctx, &out, []string{"reports", "party", formatID(ledgerID), rangeKey(rng)}, func(ctx context.Context) (interface{}, error) {
		ledger, err := s.ledgers.FindLedger(ctx, ledgerID)
		if err != nil {
			return nil, err
		}
		if !IsPartyLedger(ledger.Type) {
			return nil, ErrNotPartyLedger
		}
		opening, err := s.openingBalance(ctx, ledger, rng.Start)
		if err != nil {
			return nil, err
		}
		rows, err := s.statementRows(ctx, ledger, rng)
		if err != nil {
			return nil, err
		}
		return BuildPartyStatement(s.classifier, ledger, rng, opening, rows)
	})
	return out, err
}

// batchBalances aggregates every ledger's opening and period totals using
// the two grouped queries, folding ledgers concurrently. Each fold touches
// only its own slot so the fan-out cannot change the result.
func (s *Service) batchBalances(ctx context.Context, ledgers []books.Ledger, rng DateRange) ([]LedgerBalance, error) {
	ids := make([]int64, len(ledgers))
	for i, l := range ledgers {
		ids[i] = l.ID
	}
	before, err := s.vouchers.EntriesBefore(ctx, ids, rng.Start)
	if err != nil {
		return nil, err
	}
	during, err := s.vouchers.EntriesBetween(ctx, ids, rng.Start, rng.End)
	if err != nil {
		return nil, err
	}

	balances := make([]LedgerBalance, len(ledgers))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(batchWorkers)
	for i, ledger := range ledgers {
		i, ledger := i, ledger
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			nature := s.classifier.IsDebitNature(ledger.Type)
			opening := books.OpeningBalance(ledger.OpeningBalance, nature, before[ledger.ID])
			debit, credit := books.PeriodTotals(during[ledger.ID])
			balances[i] = LedgerBalance{
				LedgerID: ledger.ID,
				Name:     ledger.Name,
				Type:     ledger.Type,
				Opening:  opening,
				Debit:    debit,
				Credit:   credit,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return balances, nil
}

// TrialBalance builds the sectioned trial balance for the range.
func (s *Service) TrialBalance(ctx context.Context, rng DateRange) (TrialBalance, error) {
	var out TrialBalance
	err := s.cached(ctx, &out, []string{"reports", "trialbalance", rangeKey(rng)}, func(ctx context.Context) (interface{}, error) {
		ledgers, err := s.ledgers.Ledgers(ctx, books.LedgerFilter{})
		if err != nil {
			return nil, err
		}
		balances, err := s.batchBalances(ctx, ledgers, rng)
		if err != nil {
			return nil, err
		}
		return BuildTrialBalance(s.classifier, rng, balances), nil
	})
	return out, err
}

// LedgerAbstract builds the category-grouped abstract for the range.
func (s *Service) LedgerAbstract(ctx context.Context, rng DateRange) (LedgerAbstract, error) {
	var out LedgerAbstract
	err := s.cached(ctx, &out, []string{"reports", "abstract", rangeKey(rng)}, func(ctx context.Context) (interface{}, error) {
		ledgers, err := s.ledgers.Ledgers(ctx, books.LedgerFilter{})
		if err != nil {
			return nil, err
		}
		balances, err := s.batchBalances(ctx, ledgers, rng)
		if err != nil {
			return nil, err
		}
		return BuildLedgerAbstract(s.classifier, rng, balances), nil
	})
	return out, err
}

func isFundLedger(t books.LedgerType) bool {
	return t == books.LedgerTypeCash || t == books.LedgerTypeBank
}

// rdEntries derives the classified receipt/payment set: counter-ledger
// entries of Receipt and Payment vouchers, credits as receipts and debits
// as payments.
func (s *Service) rdEntries(ctx context.Context, rng DateRange) ([]RDEntry, error) {
	vouchers, err := s.vouchers.Vouchers(ctx, books.VoucherFilter{From: rng.Start, To: rng.End})
	if err != nil {
		return nil, err
	}
	var entries []RDEntry
	for _, v := range vouchers {
		if v.Type != books.VoucherTypeReceipt && v.Type != books.VoucherTypePayment {
			continue
		}
		if err := v.Validate(); err != nil {
			return nil, err
		}
		for _, entry := range v.Entries {
			if isFundLedger(entry.LedgerType) {
				continue
			}
			entries = append(entries, RDEntry{
				Date:          v.Date,
				VoucherNumber: v.Number,
				LedgerID:      entry.LedgerID,
				LedgerName:    entry.LedgerName,
				LedgerType:    entry.LedgerType,
				Receipt:       entry.Credit,
				Payment:       entry.Debit,
			})
		}
	}
	return entries, nil
}

// fundOpening totals the opening balance of every cash and bank ledger.
// Ledgers that disappear mid-iteration contribute zero instead of failing
// the whole report.
func (s *Service) fundOpening(ctx context.Context, rng DateRange) (float64, error) {
	var total float64
	for _, fundType := range []books.LedgerType{books.LedgerTypeCash, books.LedgerTypeBank} {
		t := fundType
		ledgers, err := s.ledgers.Ledgers(ctx, books.LedgerFilter{Type: &t})
		if err != nil {
			return 0, err
		}
		for _, ledger := range ledgers {
			opening, err := s.openingBalance(ctx, ledger, rng.Start)
			if err != nil {
				s.logger.Warn("fund opening degraded to zero",
					slog.Int64("ledger_id", ledger.ID), slog.Any("error", err))
				continue
			}
			total += opening
		}
	}
	return total, nil
}

// ReceiptsSingle builds the chronological single-column layout.
func (s *Service) ReceiptsSingle(ctx context.Context, rng DateRange) (RDSingle, error) {
	var out RDSingle
	err := s.cached(ctx, &out, []string{"reports", "rd", "single", rangeKey(rng)}, func(ctx context.Context) (interface{}, error) {
		entries, err := s.rdEntries(ctx, rng)
		if err != nil {
			return nil, err
		}
		return BuildReceiptsSingle(rng, entries), nil
	})
	return out, err
}

// ReceiptsDaily builds the three-column daily layout with running balance.
func (s *Service) ReceiptsDaily(ctx context.Context, rng DateRange) (RDDaily, error) {
	var out RDDaily
	err := s.cached(ctx, &out, []string{"reports", "rd", "daily", rangeKey(rng)}, func(ctx context.Context) (interface{}, error) {
		entries, err := s.rdEntries(ctx, rng)
		if err != nil {
			return nil, err
		}
		opening, err := s.fundOpening(ctx, rng)
		if err != nil {
			return nil, err
		}
		return BuildReceiptsDaily(rng, opening, entries), nil
	})
	return out, err
}

// ReceiptsClassified builds the classified-by-head layout.
func (s *Service) ReceiptsClassified(ctx context.Context, rng DateRange) (RDClassified, error) {
	var out RDClassified
	err := s.cached(ctx, &out, []string{"reports", "rd", "classified", rangeKey(rng)}, func(ctx context.Context) (interface{}, error) {
		entries, err := s.rdEntries(ctx, rng)
		if err != nil {
			return nil, err
		}
		return BuildReceiptsClassified(rng, entries), nil
	})
	return out, err
}

// ReceiptsLedgerWise builds the upto/during/end triad layout per ledger.
func (s *Service) ReceiptsLedgerWise(ctx context.Context, rng DateRange) (RDLedgerWise, error) {
	var out RDLedgerWise
	err := s.cached(ctx, &out, []string{"reports", "rd", "ledgerwise", rangeKey(rng)}, func(ctx context.Context) (interface{}, error) {
		return s.buildReceiptsLedgerWise(ctx, rng)
	})
	return out, err
}

func rdPairOf(rows []books.EntryRow) RDPair {
	var pair RDPair
	for _, row := range rows {
		if row.VoucherType != books.VoucherTypeReceipt && row.VoucherType != books.VoucherTypePayment {
			continue
		}
		pair.Receipts += row.Credit
		pair.Payments += row.Debit
	}
	return pair
}

func (s *Service) buildReceiptsLedgerWise(ctx context.Context, rng DateRange) (RDLedgerWise, error) {
	ledgers, err := s.ledgers.Ledgers(ctx, books.LedgerFilter{})
	if err != nil {
		return RDLedgerWise{}, err
	}
	ids := make([]int64, 0, len(ledgers))
	heads := make([]books.Ledger, 0, len(ledgers))
	for _, ledger := range ledgers {
		if isFundLedger(ledger.Type) {
			continue
		}
		ids = append(ids, ledger.ID)
		heads = append(heads, ledger)
	}
	before, err := s.vouchers.EntriesBefore(ctx, ids, rng.Start)
	if err != nil {
		return RDLedgerWise{}, err
	}
	during, err := s.vouchers.EntriesBetween(ctx, ids, rng.Start, rng.End)
	if err != nil {
		return RDLedgerWise{}, err
	}
	rows := make([]RDTriadRow, 0, len(heads))
	for _, ledger := range heads {
		upto := rdPairOf(before[ledger.ID])
		period := rdPairOf(during[ledger.ID])
		if upto == (RDPair{}) && period == (RDPair{}) {
			continue
		}
		rows = append(rows, RDTriadRow{
			LedgerID: ledger.ID,
			Name:     ledger.Name,
			Type:     ledger.Type,
			Upto:     upto,
			During:   period,
		})
	}
	return BuildReceiptsLedgerWise(rng, rows), nil
}

// ReceiptsMonthly builds the monthly single-column layout.
func (s *Service) ReceiptsMonthly(ctx context.Context, rng DateRange) (RDMonthly, error) {
	var out RDMonthly
	err := s.cached(ctx, &out, []string{"reports", "rd", "monthly", rangeKey(rng)}, func(ctx context.Context) (interface{}, error) {
		entries, err := s.rdEntries(ctx, rng)
		if err != nil {
			return nil, err
		}
		return BuildReceiptsMonthly(rng, entries), nil
	})
	return out, err
}

// StockRegister builds the quantity register for one item.
func (s *Service) StockRegister(ctx context.Context, itemID int64, mode StockMode, rng DateRange) (StockRegister, error) {
	var out StockRegister
	err := s.cached(ctx, &out, []string{"reports", "stock", formatID(itemID), string(mode), rangeKey(rng)}, func(ctx context.Context) (interface{}, error) {
		item, err := s.stock.FindItem(ctx, itemID)
		if err != nil {
			return nil, err
		}
		before, err := s.stock.TransactionsBefore(ctx, itemID, rng.Start)
		if err != nil {
			return nil, err
		}
		opening := OpeningQuantity(item, before)
		txns, err := s.stock.TransactionsBetween(ctx, itemID, rng.Start, rng.End)
		if err != nil {
			return nil, err
		}
		return BuildStockRegister(item, mode, rng, opening, txns)
	})
	return out, err
}

// GSTSummary builds the period GST return.
func (s *Service) GSTSummary(ctx context.Context, rng DateRange) (GSTSummary, error) {
	var out GSTSummary
	err := s.cached(ctx, &out, []string{"reports", "gst", rangeKey(rng)}, func(ctx context.Context) (interface{}, error) {
		vouchers, err := s.vouchers.Vouchers(ctx, books.VoucherFilter{From: rng.Start, To: rng.End})
		if err != nil {
			return nil, err
		}
		for _, v := range vouchers {
			if err := v.Validate(); err != nil {
				return nil, err
			}
		}
		outward, inward := ClassifyGST(vouchers)
		return BuildGSTSummary(rng, outward, inward), nil
	})
	return out, err
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

package reports

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bahikhata-erp/bahikhata/internal/books"
	"github.com/bahikhata-erp/bahikhata/internal/inventory"
)

type mockLedgerStore struct {
	ledgers   []books.Ledger
	findCalls int
	listCalls int
}

func (m *mockLedgerStore) FindLedger(ctx context.Context, id int64) (books.Ledger, error) {
	m.findCalls++
	for _, l := range m.ledgers {
		if l.ID == id {
			return l, nil
		}
	}
	return books.Ledger{}, books.ErrLedgerNotFound
}

func (m *mockLedgerStore) Ledgers(ctx context.Context, filter books.LedgerFilter) ([]books.Ledger, error) {
	m.listCalls++
	var out []books.Ledger
	for _, l := range m.ledgers {
		if filter.Type != nil && l.Type != *filter.Type {
			continue
		}
		if filter.Status != nil && l.Status != *filter.Status {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

type mockVoucherStore struct {
	vouchers     []books.Voucher
	before       map[int64][]books.EntryRow
	during       map[int64][]books.EntryRow
	voucherCalls int
}

func (m *mockVoucherStore) Vouchers(ctx context.Context, filter books.VoucherFilter) ([]books.Voucher, error) {
	m.voucherCalls++
	var out []books.Voucher
	for _, v := range m.vouchers {
		if v.Date.Before(filter.From) || v.Date.After(filter.To) {
			continue
		}
		if filter.LedgerID != 0 {
			if _, ok := v.EntryFor(filter.LedgerID); !ok {
				continue
			}
		}
		out = append(out, v)
	}
	return out, nil
}

func pickGrouped(src map[int64][]books.EntryRow, ids []int64) map[int64][]books.EntryRow {
	out := make(map[int64][]books.EntryRow, len(ids))
	for _, id := range ids {
		if rows, ok := src[id]; ok {
			out[id] = rows
		}
	}
	return out
}

func (m *mockVoucherStore) EntriesBefore(ctx context.Context, ids []int64, before time.Time) (map[int64][]books.EntryRow, error) {
	return pickGrouped(m.before, ids), nil
}

func (m *mockVoucherStore) EntriesBetween(ctx context.Context, ids []int64, from, to time.Time) (map[int64][]books.EntryRow, error) {
	return pickGrouped(m.during, ids), nil
}

type mockInventoryStore struct {
	items  []inventory.Item
	before []inventory.StockTransaction
	during []inventory.StockTransaction
}

func (m *mockInventoryStore) FindItem(ctx context.Context, id int64) (inventory.Item, error) {
	for _, item := range m.items {
		if item.ID == id {
			return item, nil
		}
	}
	return inventory.Item{}, inventory.ErrItemNotFound
}

func (m *mockInventoryStore) Items(ctx context.Context) ([]inventory.Item, error) {
	return m.items, nil
}

func (m *mockInventoryStore) TransactionsBefore(ctx context.Context, itemID int64, before time.Time) ([]inventory.StockTransaction, error) {
	return m.before, nil
}

func (m *mockInventoryStore) TransactionsBetween(ctx context.Context, itemID int64, from, to time.Time) ([]inventory.StockTransaction, error) {
	return m.during, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func cashLedger() books.Ledger {
	return books.Ledger{ID: 1, Name: "Cash", Type: books.LedgerTypeCash, OpeningBalance: 700, Status: books.LedgerStatusActive}
}

func aprilVouchers() []books.Voucher {
	return []books.Voucher{
		{
			ID: 10, Type: books.VoucherTypeReceipt, Number: 1, Date: date(2024, time.April, 2),
			TotalDebit: 500, TotalCredit: 500,
			Entries: []books.VoucherEntry{
				{LedgerID: 1, LedgerName: "Cash", LedgerType: books.LedgerTypeCash, Debit: 500},
				{LedgerID: 3, LedgerName: "Sales A/c", LedgerType: books.LedgerTypeSales, Credit: 500},
			},
		},
		{
			ID: 11, Type: books.VoucherTypePayment, Number: 2, Date: date(2024, time.April, 10),
			TotalDebit: 200, TotalCredit: 200,
			Entries: []books.VoucherEntry{
				{LedgerID: 4, LedgerName: "Rent Expense", LedgerType: books.LedgerTypeExpense, Debit: 200},
				{LedgerID: 1, LedgerName: "Cash", LedgerType: books.LedgerTypeCash, Credit: 200},
			},
		},
	}
}

func newBooksService(t *testing.T, ledgers *mockLedgerStore, vouchers *mockVoucherStore) *Service {
	t.Helper()
	return NewService(ledgers, vouchers, &mockInventoryStore{}, newTestCache(t), discardLogger())
}

func TestServiceCashBook(t *testing.T) {
	ledgers := &mockLedgerStore{ledgers: []books.Ledger{cashLedger()}}
	vouchers := &mockVoucherStore{
		vouchers: aprilVouchers(),
		before: map[int64][]books.EntryRow{
			1: {{VoucherNumber: 9, Date: date(2024, time.March, 20), Debit: 300}},
		},
	}
	svc := newBooksService(t, ledgers, vouchers)

	book, err := svc.CashBook(context.Background(), aprilRange())
	require.NoError(t, err)

	assert.Equal(t, 1000.0, book.OpeningBalance)
	require.Len(t, book.Rows, 2)
	assert.Equal(t, "Sales A/c", book.Rows[0].Particulars)
	assert.Equal(t, "Rent Expense", book.Rows[1].Particulars)
	assert.Equal(t, 1300.0, book.Summary.ClosingBalance)
	assert.Equal(t, books.LabelDebit, book.Summary.ClosingLabel)
}

func TestServiceCashBookServedFromCache(t *testing.T) {
	ledgers := &mockLedgerStore{ledgers: []books.Ledger{cashLedger()}}
	vouchers := &mockVoucherStore{vouchers: aprilVouchers()}
	svc := newBooksService(t, ledgers, vouchers)

	first, err := svc.CashBook(context.Background(), aprilRange())
	require.NoError(t, err)
	second, err := svc.CashBook(context.Background(), aprilRange())
	require.NoError(t, err)

	assert.Equal(t, 1, vouchers.voucherCalls, "second call must not touch the store")
	assert.Equal(t, first, second)
}

func TestServiceCashBookMissingCashLedger(t *testing.T) {
	svc := newBooksService(t, &mockLedgerStore{}, &mockVoucherStore{})
	_, err := svc.CashBook(context.Background(), aprilRange())
	assert.ErrorIs(t, err, books.ErrLedgerNotFound)
}

func TestServiceLedgerStatementIntegrityFailure(t *testing.T) {
	corrupt := books.Voucher{
		ID: 20, Type: books.VoucherTypeJournal, Number: 7, Date: date(2024, time.April, 5),
		TotalDebit: 100, TotalCredit: 100,
		Entries: []books.VoucherEntry{
			{LedgerID: 1, LedgerName: "Cash", LedgerType: books.LedgerTypeCash, Debit: 100},
			{LedgerID: 3, LedgerName: "Sales A/c", LedgerType: books.LedgerTypeSales, Credit: 60},
		},
	}
	ledgers := &mockLedgerStore{ledgers: []books.Ledger{cashLedger()}}
	vouchers := &mockVoucherStore{vouchers: []books.Voucher{corrupt}}
	svc := newBooksService(t, ledgers, vouchers)

	_, err := svc.LedgerStatement(context.Background(), 1, aprilRange())
	assert.ErrorIs(t, err, books.ErrVoucherIntegrity)
}

func TestServiceLedgerStatementConfiguredNature(t *testing.T) {
	suspense := books.Ledger{ID: 7, Name: "Suspense", Type: books.LedgerType("Suspense")}
	ledgers := &mockLedgerStore{ledgers: []books.Ledger{suspense}}
	vouchers := &mockVoucherStore{
		before: map[int64][]books.EntryRow{
			7: {{VoucherNumber: 3, Date: date(2024, time.March, 15), Debit: 100}},
		},
	}
	svc := newBooksService(t, ledgers, vouchers)
	svc.WithClassifier(books.Classifier{DebitDefault: true})

	stmt, err := svc.LedgerStatement(context.Background(), 7, aprilRange())
	require.NoError(t, err)

	// Opening accumulation and labelling must resolve the custom type
	// through the same configured classifier: a debit carried forward under
	// the debit default is 100 Dr, opening through closing.
	assert.Equal(t, 100.0, stmt.OpeningBalance)
	assert.Equal(t, books.LabelDebit, stmt.OpeningLabel)
	assert.Equal(t, 100.0, stmt.Summary.ClosingBalance)
	assert.Equal(t, books.LabelDebit, stmt.Summary.ClosingLabel)
}

func TestServiceLedgerStatementEntryNarration(t *testing.T) {
	voucher := books.Voucher{
		ID: 30, Type: books.VoucherTypeReceipt, Number: 5, Date: date(2024, time.April, 8),
		Narration:  "Daily takings",
		TotalDebit: 300, TotalCredit: 300,
		Entries: []books.VoucherEntry{
			{LedgerID: 1, LedgerName: "Cash", LedgerType: books.LedgerTypeCash, Debit: 300, Narration: "Counter cash"},
			{LedgerID: 3, LedgerName: "Sales A/c", LedgerType: books.LedgerTypeSales, Credit: 300},
		},
	}
	ledgers := &mockLedgerStore{ledgers: []books.Ledger{cashLedger(), {ID: 3, Name: "Sales A/c", Type: books.LedgerTypeSales}}}
	vouchers := &mockVoucherStore{vouchers: []books.Voucher{voucher}}
	svc := newBooksService(t, ledgers, vouchers)

	// The cash entry carries its own note and wins over the voucher line.
	stmt, err := svc.LedgerStatement(context.Background(), 1, aprilRange())
	require.NoError(t, err)
	require.Len(t, stmt.Transactions, 1)
	assert.Equal(t, "Counter cash", stmt.Transactions[0].Narration)

	// The sales entry has none, so the voucher narration fills in.
	stmt, err = svc.LedgerStatement(context.Background(), 3, aprilRange())
	require.NoError(t, err)
	require.Len(t, stmt.Transactions, 1)
	assert.Equal(t, "Daily takings", stmt.Transactions[0].Narration)
}

func TestServiceTrialBalance(t *testing.T) {
	ledgers := &mockLedgerStore{ledgers: []books.Ledger{
		{ID: 1, Name: "Cash", Type: books.LedgerTypeCash},
		{ID: 3, Name: "Sales A/c", Type: books.LedgerTypeSales},
		{ID: 4, Name: "Rent Expense", Type: books.LedgerTypeExpense},
		{ID: 9, Name: "Old Loan", Type: books.LedgerTypeLiability, OpeningBalance: 2500},
	}}
	vouchers := &mockVoucherStore{
		during: map[int64][]books.EntryRow{
			1: {{Debit: 500}, {Credit: 200}},
			3: {{Credit: 500}},
			4: {{Debit: 200}},
		},
	}
	svc := newBooksService(t, ledgers, vouchers)

	tb, err := svc.TrialBalance(context.Background(), aprilRange())
	require.NoError(t, err)

	assert.Equal(t, tb.TotalClosingDebit, tb.TotalClosingCredit)
	assert.Zero(t, tb.Difference)
	for _, section := range tb.Sections {
		for _, row := range section.Rows {
			assert.NotEqual(t, int64(9), row.LedgerID, "dormant ledger must not appear")
		}
	}
}

func TestServiceLedgerAbstractKeepsDormantLedgers(t *testing.T) {
	ledgers := &mockLedgerStore{ledgers: []books.Ledger{
		cashLedger(),
		{ID: 9, Name: "Old Loan", Type: books.LedgerTypeLiability, OpeningBalance: 2500},
	}}
	svc := newBooksService(t, ledgers, &mockVoucherStore{})

	abs, err := svc.LedgerAbstract(context.Background(), aprilRange())
	require.NoError(t, err)

	var ids []int64
	for _, section := range abs.Sections {
		for _, row := range section.Rows {
			ids = append(ids, row.LedgerID)
		}
	}
	assert.ElementsMatch(t, []int64{1, 9}, ids)
}

func TestServicePartyStatementRejectsNonParty(t *testing.T) {
	ledgers := &mockLedgerStore{ledgers: []books.Ledger{cashLedger()}}
	svc := newBooksService(t, ledgers, &mockVoucherStore{})

	_, err := svc.PartyStatement(context.Background(), 1, aprilRange())
	assert.ErrorIs(t, err, ErrNotPartyLedger)
}

func TestServiceReceiptsDaily(t *testing.T) {
	ledgers := &mockLedgerStore{ledgers: []books.Ledger{cashLedger()}}
	vouchers := &mockVoucherStore{
		vouchers: aprilVouchers(),
		before: map[int64][]books.EntryRow{
			1: {{VoucherNumber: 9, Date: date(2024, time.March, 20), Debit: 300}},
		},
	}
	svc := newBooksService(t, ledgers, vouchers)

	daily, err := svc.ReceiptsDaily(context.Background(), aprilRange())
	require.NoError(t, err)

	assert.Equal(t, 1000.0, daily.OpeningBalance)
	require.Len(t, daily.Rows, 2)
	assert.Equal(t, 1500.0, daily.Rows[0].Balance)
	assert.Equal(t, 1300.0, daily.ClosingBalance, "fund closing must agree with the cash book")
}

func TestServiceReceiptsSingleSkipsFundSide(t *testing.T) {
	ledgers := &mockLedgerStore{ledgers: []books.Ledger{cashLedger()}}
	vouchers := &mockVoucherStore{vouchers: aprilVouchers()}
	svc := newBooksService(t, ledgers, vouchers)

	single, err := svc.ReceiptsSingle(context.Background(), aprilRange())
	require.NoError(t, err)

	require.Len(t, single.Rows, 2)
	assert.Equal(t, "Sales A/c", single.Rows[0].LedgerName)
	assert.Equal(t, "receipt", single.Rows[0].Side)
	assert.Equal(t, "Rent Expense", single.Rows[1].LedgerName)
	assert.Equal(t, "payment", single.Rows[1].Side)
}

func TestServiceReceiptsLedgerWise(t *testing.T) {
	ledgers := &mockLedgerStore{ledgers: []books.Ledger{
		cashLedger(),
		{ID: 3, Name: "Sales A/c", Type: books.LedgerTypeSales},
		{ID: 4, Name: "Rent Expense", Type: books.LedgerTypeExpense},
	}}
	vouchers := &mockVoucherStore{
		before: map[int64][]books.EntryRow{
			3: {{VoucherType: books.VoucherTypeReceipt, Credit: 100}},
		},
		during: map[int64][]books.EntryRow{
			3: {
				{VoucherType: books.VoucherTypeReceipt, Credit: 500},
				{VoucherType: books.VoucherTypeJournal, Credit: 250}, // journals stay out
			},
			4: {{VoucherType: books.VoucherTypePayment, Debit: 200}},
		},
	}
	svc := newBooksService(t, ledgers, vouchers)

	out, err := svc.ReceiptsLedgerWise(context.Background(), aprilRange())
	require.NoError(t, err)

	assert.Equal(t, 100.0, out.Upto.Receipts)
	assert.Equal(t, 500.0, out.During.Receipts)
	assert.Equal(t, 600.0, out.End.Receipts)
	assert.Equal(t, 200.0, out.End.Payments)
	for _, section := range out.Sections {
		for _, row := range section.Rows {
			assert.NotEqual(t, int64(1), row.LedgerID, "fund ledgers stay out of the triads")
		}
	}
}

func TestServiceStockRegister(t *testing.T) {
	stock := &mockInventoryStore{
		items: []inventory.Item{{ID: 1, Name: "Cement Bags", Unit: "bag", OpeningBalance: 10}},
		during: []inventory.StockTransaction{
			{Date: date(2024, time.April, 3), Type: inventory.TransactionStockIn, Category: inventory.CategoryPurchase, Quantity: 15},
			{Date: date(2024, time.April, 3), Type: inventory.TransactionStockOut, Category: inventory.CategorySales, Quantity: 12},
		},
	}
	svc := NewService(&mockLedgerStore{}, &mockVoucherStore{}, stock, newTestCache(t), discardLogger())

	reg, err := svc.StockRegister(context.Background(), 1, StockModeDay, aprilRange())
	require.NoError(t, err)
	assert.Equal(t, 10.0, reg.OpeningBalance)
	assert.Equal(t, 13.0, reg.ClosingBalance)

	_, err = svc.StockRegister(context.Background(), 99, StockModeDay, aprilRange())
	assert.ErrorIs(t, err, inventory.ErrItemNotFound)
}

func TestServiceGSTSummary(t *testing.T) {
	vouchers := &mockVoucherStore{vouchers: []books.Voucher{salesInvoiceVoucher(), purchaseInvoiceVoucher()}}
	svc := newBooksService(t, &mockLedgerStore{}, vouchers)

	summary, err := svc.GSTSummary(context.Background(), aprilRange())
	require.NoError(t, err)
	assert.Equal(t, 1800.0, summary.Outward.TotalTax)
	assert.Equal(t, 900.0, summary.Inward.TotalTax)
	assert.Equal(t, 900.0, summary.NetLiability.TotalTax)
}

func TestServiceResolvePresets(t *testing.T) {
	svc := newBooksService(t, &mockLedgerStore{}, &mockVoucherStore{})
	svc.WithNow(func() time.Time { return date(2024, time.April, 15) })

	rng, err := svc.Resolve(PresetFinancialYear, "", "")
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.April, 1), rng.Start)

	_, err = svc.Resolve(Preset("fortnight"), "", "")
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

package books

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LedgerFilter narrows ledger listings.
type LedgerFilter struct {
	Type   *LedgerType
	Status *LedgerStatus
}

// VoucherFilter selects vouchers inside a closed date window, optionally
// restricted to vouchers touching one ledger.
type VoucherFilter struct {
	From     time.Time
	To       time.Time
	LedgerID int64
}

// Store provides read access to ledgers and vouchers. Reports never write,
// so every method is a plain pool query without transaction discipline.
type Store struct {
	db *pgxpool.Pool
}

// NewStore constructs the books store.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// FindLedger fetches a single ledger by id.
func (s *Store) FindLedger(ctx context.Context, id int64) (Ledger, error) {
	var l Ledger
	err := s.db.QueryRow(ctx, `SELECT id, name, type, opening_balance, status, created_at, updated_at
FROM ledgers WHERE id=$1`, id).
		Scan(&l.ID, &l.Name, &l.Type, &l.OpeningBalance, &l.Status, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Ledger{}, ErrLedgerNotFound
		}
		return Ledger{}, err
	}
	return l, nil
}

// Ledgers lists ledgers matching the filter, ordered by name.
func (s *Store) Ledgers(ctx context.Context, filter LedgerFilter) ([]Ledger, error) {
	query := `SELECT id, name, type, opening_balance, status, created_at, updated_at FROM ledgers`
	args := make([]any, 0, 2)
	where := ""
	if filter.Type != nil {
		args = append(args, *filter.Type)
		where = fmt.Sprintf(" WHERE type=$%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		if where == "" {
			where = fmt.Sprintf(" WHERE status=$%d", len(args))
		} else {
			where += fmt.Sprintf(" AND status=$%d", len(args))
		}
	}
	rows, err := s.db.Query(ctx, query+where+` ORDER BY name ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ledgers []Ledger
	for rows.Next() {
		var l Ledger
		if err := rows.Scan(&l.ID, &l.Name, &l.Type, &l.OpeningBalance, &l.Status, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		ledgers = append(ledgers, l)
	}
	return ledgers, rows.Err()
}

// Vouchers lists vouchers dated inside the window ordered by (date, number),
// with entries attached in stored order.
func (s *Store) Vouchers(ctx context.Context, filter VoucherFilter) ([]Voucher, error) {
	query := `SELECT id, type, number, date, narration, source_id, total_debit, total_credit, created_at, updated_at
FROM vouchers WHERE date >= $1 AND date <= $2`
	args := []any{filter.From, filter.To}
	if filter.LedgerID != 0 {
		args = append(args, filter.LedgerID)
		query += fmt.Sprintf(` AND EXISTS (SELECT 1 FROM voucher_entries ve WHERE ve.voucher_id = vouchers.id AND ve.ledger_id = $%d)`, len(args))
	}
	query += ` ORDER BY date ASC, number ASC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var vouchers []Voucher
	ids := make([]int64, 0)
	for rows.Next() {
		var v Voucher
		if err := rows.Scan(&v.ID, &v.Type, &v.Number, &v.Date, &v.Narration, &v.SourceID, &v.TotalDebit, &v.TotalCredit, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		vouchers = append(vouchers, v)
		ids = append(ids, v.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(vouchers) == 0 {
		return vouchers, nil
	}

	entryRows, err := s.db.Query(ctx, `SELECT ve.id, ve.voucher_id, ve.ledger_id, l.name, l.type, ve.debit, ve.credit, ve.narration
FROM voucher_entries ve
JOIN ledgers l ON l.id = ve.ledger_id
WHERE ve.voucher_id = ANY($1)
ORDER BY ve.voucher_id ASC, ve.id ASC`, ids)
	if err != nil {
		return nil, err
	}
	defer entryRows.Close()
	byVoucher := make(map[int64][]VoucherEntry, len(vouchers))
	for entryRows.Next() {
		var e VoucherEntry
		if err := entryRows.Scan(&e.ID, &e.VoucherID, &e.LedgerID, &e.LedgerName, &e.LedgerType, &e.Debit, &e.Credit, &e.Narration); err != nil {
			return nil, err
		}
		byVoucher[e.VoucherID] = append(byVoucher[e.VoucherID], e)
	}
	if err := entryRows.Err(); err != nil {
		return nil, err
	}
	for i := range vouchers {
		vouchers[i].Entries = byVoucher[vouchers[i].ID]
	}
	return vouchers, nil
}

// EntriesBefore returns entries dated strictly before the cutoff, grouped by
// ledger id, for the whole ledger set in one round trip. Only sums are taken
// from these rows so no ordering is requested.
func (s *Store) EntriesBefore(ctx context.Context, ledgerIDs []int64, before time.Time) (map[int64][]EntryRow, error) {
	if len(ledgerIDs) == 0 {
		return map[int64][]EntryRow{}, nil
	}
	rows, err := s.db.Query(ctx, `SELECT ve.ledger_id, v.id, v.number, v.type, v.date, ve.debit, ve.credit, ve.narration
FROM voucher_entries ve
JOIN vouchers v ON v.id = ve.voucher_id
WHERE ve.ledger_id = ANY($1) AND v.date < $2`, ledgerIDs, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGroupedEntries(rows)
}

// EntriesBetween returns period entries grouped by ledger id, ordered by
// (date, number) per the running-balance contract.
func (s *Store) EntriesBetween(ctx context.Context, ledgerIDs []int64, from, to time.Time) (map[int64][]EntryRow, error) {
	if len(ledgerIDs) == 0 {
		return map[int64][]EntryRow{}, nil
	}
	rows, err := s.db.Query(ctx, `SELECT ve.ledger_id, v.id, v.number, v.type, v.date, ve.debit, ve.credit, ve.narration
FROM voucher_entries ve
JOIN vouchers v ON v.id = ve.voucher_id
WHERE ve.ledger_id = ANY($1) AND v.date >= $2 AND v.date <= $3
ORDER BY v.date ASC, v.number ASC, ve.id ASC`, ledgerIDs, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGroupedEntries(rows)
}

func scanGroupedEntries(rows pgx.Rows) (map[int64][]EntryRow, error) {
	grouped := make(map[int64][]EntryRow)
	for rows.Next() {
		var ledgerID int64
		var row EntryRow
		if err := rows.Scan(&ledgerID, &row.VoucherID, &row.VoucherNumber, &row.VoucherType, &row.Date, &row.Debit, &row.Credit, &row.Narration); err != nil {
			return nil, err
		}
		grouped[ledgerID] = append(grouped[ledgerID], row)
	}
	return grouped, rows.Err()
}

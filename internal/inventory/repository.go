package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides read access to items and stock transactions.
type Store struct {
	db *pgxpool.Pool
}

// NewStore constructs the inventory store.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// FindItem fetches a single item by id.
func (s *Store) FindItem(ctx context.Context, id int64) (Item, error) {
	var item Item
	err := s.db.QueryRow(ctx, `SELECT id, name, unit, opening_balance, current_balance, created_at, updated_at
FROM items WHERE id=$1`, id).
		Scan(&item.ID, &item.Name, &item.Unit, &item.OpeningBalance, &item.CurrentBalance, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, ErrItemNotFound
		}
		return Item{}, err
	}
	return item, nil
}

// Items lists every item ordered by name.
func (s *Store) Items(ctx context.Context) ([]Item, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name, unit, opening_balance, current_balance, created_at, updated_at
FROM items ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Unit, &item.OpeningBalance, &item.CurrentBalance, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// TransactionsBefore returns movements dated strictly before the cutoff for
// the item, in any order; only sums are taken from them.
func (s *Store) TransactionsBefore(ctx context.Context, itemID int64, before time.Time) ([]StockTransaction, error) {
	return s.queryTransactions(ctx, `SELECT id, item_id, type, category, date, quantity, voucher_number, narration
FROM stock_transactions WHERE item_id=$1 AND date < $2`, itemID, before)
}

// TransactionsBetween returns period movements ordered by date for the item.
func (s *Store) TransactionsBetween(ctx context.Context, itemID int64, from, to time.Time) ([]StockTransaction, error) {
	return s.queryTransactions(ctx, `SELECT id, item_id, type, category, date, quantity, voucher_number, narration
FROM stock_transactions WHERE item_id=$1 AND date >= $2 AND date <= $3
ORDER BY date ASC, voucher_number ASC, id ASC`, itemID, from, to)
}

func (s *Store) queryTransactions(ctx context.Context, query string, args ...any) ([]StockTransaction, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var txns []StockTransaction
	for rows.Next() {
		var t StockTransaction
		if err := rows.Scan(&t.ID, &t.ItemID, &t.Type, &t.Category, &t.Date, &t.Quantity, &t.VoucherNumber, &t.Narration); err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/angiedazun/Sri-Lanka-Ports-Authority-Inventory-Management-System.-sub000/internal/domain"
	"github.com/angiedazun/Sri-Lanka-Ports-Authority-Inventory-Management-System.-sub000/internal/store"
	"github.com/angiedazun/Sri-Lanka-Ports-Authority-Inventory-Management-System.-sub000/internal/xid"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the schema if it does not exist. Safe to run on every boot.
func (s *Store) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			compatibility TEXT NOT NULL DEFAULT '',
			color TEXT NOT NULL DEFAULT '',
			reorder_level INT NOT NULL DEFAULT 0 CHECK (reorder_level >= 0),
			stock_jct INT NOT NULL DEFAULT 0 CHECK (stock_jct >= 0),
			stock_uct INT NOT NULL DEFAULT 0 CHECK (stock_uct >= 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS receiving_entries (
			id TEXT PRIMARY KEY,
			item_id TEXT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
			lot TEXT NOT NULL DEFAULT '',
			jct_qty INT NOT NULL DEFAULT 0 CHECK (jct_qty >= 0),
			uct_qty INT NOT NULL DEFAULT 0 CHECK (uct_qty >= 0),
			supplier_name TEXT NOT NULL DEFAULT '',
			pr_number TEXT NOT NULL DEFAULT '',
			tender_number TEXT NOT NULL DEFAULT '',
			invoice_number TEXT NOT NULL DEFAULT '',
			unit_price_cents BIGINT NOT NULL DEFAULT 0,
			received_date DATE NOT NULL,
			remarks TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS issuing_entries (
			id TEXT PRIMARY KEY,
			item_id TEXT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
			code TEXT NOT NULL DEFAULT '',
			lot TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL CHECK (location IN ('JCT','UCT')),
			quantity INT NOT NULL CHECK (quantity > 0),
			division TEXT NOT NULL DEFAULT '',
			section TEXT NOT NULL DEFAULT '',
			requested_by TEXT NOT NULL DEFAULT '',
			received_by TEXT NOT NULL DEFAULT '',
			issued_date DATE NOT NULL,
			remarks TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS return_entries (
			id TEXT PRIMARY KEY,
			item_id TEXT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
			code TEXT NOT NULL DEFAULT '',
			lot TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			supplier_name TEXT NOT NULL DEFAULT '',
			returned_by TEXT NOT NULL,
			quantity INT NOT NULL CHECK (quantity > 0),
			reason TEXT NOT NULL,
			returned_date DATE NOT NULL,
			remarks TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS return_entries_code_item_uq
			ON return_entries (code, item_id) WHERE code <> ''`,
		`CREATE INDEX IF NOT EXISTS receiving_entries_item_idx ON receiving_entries (item_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS issuing_entries_item_idx ON issuing_entries (item_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS issuing_entries_code_idx ON issuing_entries (code) WHERE code <> ''`,
		`CREATE TABLE IF NOT EXISTS audit_logs (
			id TEXT PRIMARY KEY,
			actor_username TEXT NOT NULL DEFAULT '',
			actor_role TEXT NOT NULL DEFAULT '',
			action TEXT NOT NULL,
			entity_type TEXT NOT NULL DEFAULT '',
			entity_id TEXT NOT NULL DEFAULT '',
			detail TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS user_accounts (
			username TEXT PRIMARY KEY,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL,
			active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (s *Store) CreateItem(ctx context.Context, item domain.Item) (*domain.Item, error) {
	if item.Name == "" || item.Category == "" {
		return nil, store.ErrInvalidEntry
	}
	if item.ReorderLevel < 0 || item.StockJCT < 0 || item.StockUCT < 0 {
		return nil, store.ErrInvalidEntry
	}
	if item.ID == "" {
		item.ID = xid.New("item")
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO items (id, name, category, compatibility, color, reorder_level, stock_jct, stock_uct, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,now())
	`, item.ID, item.Name, item.Category, item.Compatibility, item.Color, item.ReorderLevel, item.StockJCT, item.StockUCT, item.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrInvalidEntry
		}
		return nil, err
	}

	created := item
	return &created, nil
}

func (s *Store) GetItemByID(ctx context.Context, id string) (*domain.Item, error) {
	var item domain.Item
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, category, compatibility, color, reorder_level, stock_jct, stock_uct, created_at
		FROM items
		WHERE id = $1
	`, id).Scan(&item.ID, &item.Name, &item.Category, &item.Compatibility, &item.Color, &item.ReorderLevel, &item.StockJCT, &item.StockUCT, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	item.CreatedAt = item.CreatedAt.UTC()
	return &item, nil
}

func (s *Store) ListItems(ctx context.Context, category string) ([]domain.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, compatibility, color, reorder_level, stock_jct, stock_uct, created_at
		FROM items
		WHERE ($1 = '' OR category = $1)
		ORDER BY category, name
	`, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Item, 0, 128)
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.Compatibility, &item.Color, &item.ReorderLevel, &item.StockJCT, &item.StockUCT, &item.CreatedAt); err != nil {
			return nil, err
		}
		item.CreatedAt = item.CreatedAt.UTC()
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (s *Store) UpdateItem(ctx context.Context, item domain.Item) (*domain.Item, error) {
	if item.Name == "" {
		return nil, store.ErrInvalidEntry
	}
	if item.ReorderLevel < 0 || item.StockJCT < 0 || item.StockUCT < 0 {
		return nil, store.ErrInvalidEntry
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE items
		SET name = $2, compatibility = $3, color = $4, reorder_level = $5, stock_jct = $6, stock_uct = $7, updated_at = now()
		WHERE id = $1
	`, item.ID, item.Name, item.Compatibility, item.Color, item.ReorderLevel, item.StockJCT, item.StockUCT)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	updated := item
	return &updated, nil
}

func (s *Store) DeleteItem(ctx context.Context, id string, cascade bool) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if cascade {
		for _, table := range []string{"receiving_entries", "issuing_entries", "return_entries"} {
			if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE item_id = $1`, table), id); err != nil {
				return err
			}
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}

	return tx.Commit()
}

func (s *Store) GetStock(ctx context.Context, itemID string) (*domain.StockSnapshot, error) {
	item, err := s.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return &domain.StockSnapshot{
		ItemID:   item.ID,
		StockJCT: item.StockJCT,
		StockUCT: item.StockUCT,
		Status:   item.StockStatus(),
	}, nil
}

func (s *Store) CreateReceiving(ctx context.Context, entry domain.ReceivingEntry) (*domain.ReceivingEntry, error) {
	if entry.JCTQty < 0 || entry.UCTQty < 0 || entry.JCTQty+entry.UCTQty < 1 {
		return nil, store.ErrInvalidEntry
	}
	if entry.ID == "" {
		entry.ID = xid.New("rcv")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE items
		SET stock_jct = stock_jct + $2, stock_uct = stock_uct + $3, updated_at = now()
		WHERE id = $1
	`, entry.ItemID, entry.JCTQty, entry.UCTQty)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO receiving_entries (
			id, item_id, lot, jct_qty, uct_qty, supplier_name, pr_number, tender_number,
			invoice_number, unit_price_cents, received_date, remarks, created_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`, entry.ID, entry.ItemID, entry.Lot, entry.JCTQty, entry.UCTQty, entry.SupplierName, entry.PRNumber, entry.TenderNumber, entry.InvoiceNumber, entry.UnitPriceCents, dateOnly(entry.ReceivedDate), entry.Remarks, entry.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	created := entry
	return &created, nil
}

func (s *Store) GetReceivingByID(ctx context.Context, id string) (*domain.ReceivingEntry, error) {
	entry, err := scanReceiving(s.db.QueryRowContext(ctx, receivingSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return entry, nil
}

func (s *Store) ListReceivings(ctx context.Context, itemID string, limit int) ([]domain.ReceivingEntry, error) {
	if limit < 1 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, receivingSelect+`
		WHERE ($1 = '' OR item_id = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, itemID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.ReceivingEntry, 0, limit)
	for rows.Next() {
		entry, err := scanReceiving(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// UpdateReceiving reverses the original quantities and applies the new ones
// in one conditional write, so stock can never be observed mid-edit and can
// never go negative.
func (s *Store) UpdateReceiving(ctx context.Context, entry domain.ReceivingEntry) (*domain.ReceivingEntry, error) {
	if entry.JCTQty < 0 || entry.UCTQty < 0 || entry.JCTQty+entry.UCTQty < 1 {
		return nil, store.ErrInvalidEntry
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var original domain.ReceivingEntry
	err = tx.QueryRowContext(ctx, `
		SELECT item_id, jct_qty, uct_qty, created_at
		FROM receiving_entries
		WHERE id = $1
		FOR UPDATE
	`, entry.ID).Scan(&original.ItemID, &original.JCTQty, &original.UCTQty, &original.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE items
		SET stock_jct = stock_jct - $2 + $3, stock_uct = stock_uct - $4 + $5, updated_at = now()
		WHERE id = $1 AND stock_jct - $2 + $3 >= 0 AND stock_uct - $4 + $5 >= 0
	`, original.ItemID, original.JCTQty, entry.JCTQty, original.UCTQty, entry.UCTQty)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		if err := itemExists(ctx, tx, original.ItemID); err != nil {
			return nil, err
		}
		return nil, store.ErrInsufficientStock
	}

	entry.ItemID = original.ItemID
	entry.CreatedAt = original.CreatedAt.UTC()
	_, err = tx.ExecContext(ctx, `
		UPDATE receiving_entries
		SET lot = $2, jct_qty = $3, uct_qty = $4, supplier_name = $5, pr_number = $6,
			tender_number = $7, invoice_number = $8, unit_price_cents = $9, received_date = $10, remarks = $11
		WHERE id = $1
	`, entry.ID, entry.Lot, entry.JCTQty, entry.UCTQty, entry.SupplierName, entry.PRNumber, entry.TenderNumber, entry.InvoiceNumber, entry.UnitPriceCents, dateOnly(entry.ReceivedDate), entry.Remarks)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	updated := entry
	return &updated, nil
}

func (s *Store) DeleteReceiving(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var itemID string
	var jctQty, uctQty int
	err = tx.QueryRowContext(ctx, `
		SELECT item_id, jct_qty, uct_qty
		FROM receiving_entries
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(&itemID, &jctQty, &uctQty)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrNotFound
		}
		return err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE items
		SET stock_jct = stock_jct - $2, stock_uct = stock_uct - $3, updated_at = now()
		WHERE id = $1 AND stock_jct >= $2 AND stock_uct >= $3
	`, itemID, jctQty, uctQty)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		if err := itemExists(ctx, tx, itemID); errors.Is(err, store.ErrNotFound) {
			// Orphaned entry: the item is gone, nothing to reverse.
		} else if err != nil {
			return err
		} else {
			return store.ErrInsufficientStock
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM receiving_entries WHERE id = $1`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) CreateIssuing(ctx context.Context, entry domain.IssuingEntry) (*domain.IssuingEntry, error) {
	if entry.Quantity < 1 {
		return nil, store.ErrInvalidEntry
	}
	column, err := stockColumn(entry.Location)
	if err != nil {
		return nil, err
	}
	if entry.ID == "" {
		entry.ID = xid.New("iss")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	// Conditional write keeps the check and the decrement in one statement.
	res, err := tx.ExecContext(ctx, fmt.Sprintf(`
		UPDATE items
		SET %s = %s - $2, updated_at = now()
		WHERE id = $1 AND %s >= $2
	`, column, column, column), entry.ItemID, entry.Quantity)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		if err := itemExists(ctx, tx, entry.ItemID); err != nil {
			return nil, err
		}
		return nil, store.ErrInsufficientStock
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO issuing_entries (
			id, item_id, code, lot, location, quantity, division, section,
			requested_by, received_by, issued_date, remarks, created_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`, entry.ID, entry.ItemID, entry.Code, entry.Lot, entry.Location, entry.Quantity, entry.Division, entry.Section, entry.RequestedBy, entry.ReceivedBy, dateOnly(entry.IssuedDate), entry.Remarks, entry.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	created := entry
	return &created, nil
}

func (s *Store) GetIssuingByID(ctx context.Context, id string) (*domain.IssuingEntry, error) {
	entry, err := scanIssuing(s.db.QueryRowContext(ctx, issuingSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return entry, nil
}

func (s *Store) ListIssuings(ctx context.Context, itemID string, limit int) ([]domain.IssuingEntry, error) {
	if limit < 1 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, issuingSelect+`
		WHERE ($1 = '' OR item_id = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, itemID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.IssuingEntry, 0, limit)
	for rows.Next() {
		entry, err := scanIssuing(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// UpdateIssuing restores the quantity the original entry drew, then draws the
// new quantity against the restored baseline. A single UPDATE covers the
// same-location case; a cross-location move restores one column and
// conditionally draws from the other.
func (s *Store) UpdateIssuing(ctx context.Context, entry domain.IssuingEntry) (*domain.IssuingEntry, error) {
	if entry.Quantity < 1 {
		return nil, store.ErrInvalidEntry
	}
	newColumn, err := stockColumn(entry.Location)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var original domain.IssuingEntry
	err = tx.QueryRowContext(ctx, `
		SELECT item_id, location, quantity, created_at
		FROM issuing_entries
		WHERE id = $1
		FOR UPDATE
	`, entry.ID).Scan(&original.ItemID, &original.Location, &original.Quantity, &original.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	oldColumn, err := stockColumn(original.Location)
	if err != nil {
		return nil, err
	}

	var res sql.Result
	if oldColumn == newColumn {
		res, err = tx.ExecContext(ctx, fmt.Sprintf(`
			UPDATE items
			SET %s = %s + $2 - $3, updated_at = now()
			WHERE id = $1 AND %s + $2 >= $3
		`, newColumn, newColumn, newColumn), original.ItemID, original.Quantity, entry.Quantity)
	} else {
		res, err = tx.ExecContext(ctx, fmt.Sprintf(`
			UPDATE items
			SET %s = %s + $2, %s = %s - $3, updated_at = now()
			WHERE id = $1 AND %s >= $3
		`, oldColumn, oldColumn, newColumn, newColumn, newColumn), original.ItemID, original.Quantity, entry.Quantity)
	}
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		if err := itemExists(ctx, tx, original.ItemID); err != nil {
			return nil, err
		}
		return nil, store.ErrInsufficientStock
	}

	entry.ItemID = original.ItemID
	entry.CreatedAt = original.CreatedAt.UTC()
	_, err = tx.ExecContext(ctx, `
		UPDATE issuing_entries
		SET code = $2, lot = $3, location = $4, quantity = $5, division = $6, section = $7,
			requested_by = $8, received_by = $9, issued_date = $10, remarks = $11
		WHERE id = $1
	`, entry.ID, entry.Code, entry.Lot, entry.Location, entry.Quantity, entry.Division, entry.Section, entry.RequestedBy, entry.ReceivedBy, dateOnly(entry.IssuedDate), entry.Remarks)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	updated := entry
	return &updated, nil
}

func (s *Store) DeleteIssuing(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var itemID, location string
	var quantity int
	err = tx.QueryRowContext(ctx, `
		SELECT item_id, location, quantity
		FROM issuing_entries
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(&itemID, &location, &quantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrNotFound
		}
		return err
	}
	column, err := stockColumn(location)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, fmt.Sprintf(`
		UPDATE items
		SET %s = %s + $2, updated_at = now()
		WHERE id = $1
	`, column, column), itemID, quantity)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM issuing_entries WHERE id = $1`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) FindIssuingByCode(ctx context.Context, code string, itemID string) (*domain.IssuingEntry, error) {
	entry, err := scanIssuing(s.db.QueryRowContext(ctx, issuingSelect+`
		WHERE code = $1 AND ($2 = '' OR item_id = $2)
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, code, itemID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return entry, nil
}

func (s *Store) CreateReturn(ctx context.Context, entry domain.ReturnEntry) (*domain.ReturnEntry, error) {
	if entry.Quantity < 1 || entry.Reason == "" || entry.ReturnedBy == "" {
		return nil, store.ErrInvalidEntry
	}
	if entry.ID == "" {
		entry.ID = xid.New("ret")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO return_entries (
			id, item_id, code, lot, location, supplier_name, returned_by,
			quantity, reason, returned_date, remarks, created_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`, entry.ID, entry.ItemID, entry.Code, entry.Lot, entry.Location, entry.SupplierName, entry.ReturnedBy, entry.Quantity, entry.Reason, dateOnly(entry.ReturnedDate), entry.Remarks, entry.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrDuplicateReturn
		}
		if isForeignKeyViolation(err) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	created := entry
	return &created, nil
}

func (s *Store) GetReturnByID(ctx context.Context, id string) (*domain.ReturnEntry, error) {
	entry, err := scanReturn(s.db.QueryRowContext(ctx, returnSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return entry, nil
}

func (s *Store) ListReturns(ctx context.Context, itemID string, limit int) ([]domain.ReturnEntry, error) {
	if limit < 1 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, returnSelect+`
		WHERE ($1 = '' OR item_id = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, itemID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.ReturnEntry, 0, limit)
	for rows.Next() {
		entry, err := scanReturn(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Store) UpdateReturn(ctx context.Context, entry domain.ReturnEntry) (*domain.ReturnEntry, error) {
	if entry.Quantity < 1 || entry.Reason == "" || entry.ReturnedBy == "" {
		return nil, store.ErrInvalidEntry
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var original domain.ReturnEntry
	err = tx.QueryRowContext(ctx, `
		SELECT item_id, created_at
		FROM return_entries
		WHERE id = $1
		FOR UPDATE
	`, entry.ID).Scan(&original.ItemID, &original.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	entry.ItemID = original.ItemID
	entry.CreatedAt = original.CreatedAt.UTC()
	_, err = tx.ExecContext(ctx, `
		UPDATE return_entries
		SET code = $2, lot = $3, location = $4, supplier_name = $5, returned_by = $6,
			quantity = $7, reason = $8, returned_date = $9, remarks = $10
		WHERE id = $1
	`, entry.ID, entry.Code, entry.Lot, entry.Location, entry.SupplierName, entry.ReturnedBy, entry.Quantity, entry.Reason, dateOnly(entry.ReturnedDate), entry.Remarks)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrDuplicateReturn
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	updated := entry
	return &updated, nil
}

func (s *Store) DeleteReturn(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM return_entries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) FindReturnByCode(ctx context.Context, code string, itemID string) (*domain.ReturnEntry, error) {
	entry, err := scanReturn(s.db.QueryRowContext(ctx, returnSelect+`
		WHERE code = $1 AND item_id = $2
		LIMIT 1
	`, code, itemID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return entry, nil
}

func (s *Store) FindLotForItem(ctx context.Context, itemID string) (string, error) {
	var lot string
	err := s.db.QueryRowContext(ctx, `
		SELECT lot
		FROM receiving_entries
		WHERE item_id = $1 AND lot <> ''
		ORDER BY created_at ASC, id ASC
		LIMIT 1
	`, itemID).Scan(&lot)
	if err == nil {
		return lot, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT lot
		FROM issuing_entries
		WHERE item_id = $1 AND lot <> ''
		ORDER BY created_at ASC, id ASC
		LIMIT 1
	`, itemID).Scan(&lot)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", store.ErrNotFound
		}
		return "", err
	}
	return lot, nil
}

func (s *Store) GetStockStatusReport(ctx context.Context, category string, at time.Time) (domain.StockStatusReport, error) {
	report := domain.StockStatusReport{
		GeneratedAt: at.UTC().Format(time.RFC3339),
		Rows:        make([]domain.StockStatusRow, 0, 128),
	}

	items, err := s.ListItems(ctx, category)
	if err != nil {
		return report, err
	}
	for _, item := range items {
		report.Rows = append(report.Rows, domain.StockStatusRow{
			ItemID:       item.ID,
			Name:         item.Name,
			Category:     item.Category,
			StockJCT:     item.StockJCT,
			StockUCT:     item.StockUCT,
			TotalStock:   item.StockJCT + item.StockUCT,
			ReorderLevel: item.ReorderLevel,
			Status:       item.StockStatus(),
		})
	}
	return report, nil
}

func (s *Store) CreateAuditLog(ctx context.Context, entry domain.AuditLog) error {
	if entry.ID == "" {
		entry.ID = xid.New("audit")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, actor_username, actor_role, action, entity_type, entity_id, detail, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, entry.ID, entry.ActorUsername, entry.ActorRole, entry.Action, entry.EntityType, entry.EntityID, entry.Detail, entry.CreatedAt)
	return err
}

func (s *Store) ListAuditLogs(ctx context.Context, from time.Time, to time.Time, limit int) ([]domain.AuditLog, error) {
	if limit < 1 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, actor_username, actor_role, action, entity_type, entity_id, detail, created_at
		FROM audit_logs
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.AuditLog, 0, limit)
	for rows.Next() {
		var entry domain.AuditLog
		if err := rows.Scan(&entry.ID, &entry.ActorUsername, &entry.ActorRole, &entry.Action, &entry.EntityType, &entry.EntityID, &entry.Detail, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entry.CreatedAt = entry.CreatedAt.UTC()
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Store) CreateUser(ctx context.Context, user domain.UserAccount) error {
	username := strings.ToLower(strings.TrimSpace(user.Username))
	if username == "" || strings.TrimSpace(user.Password) == "" {
		return store.ErrInvalidEntry
	}
	if user.Role == "" {
		user.Role = domain.RoleClerk
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_accounts (username, password_hash, role, active, created_at)
		VALUES ($1,$2,$3,true,$4)
	`, username, user.Password, user.Role, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrInvalidEntry
		}
		return err
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, password_hash, role, active, created_at
		FROM user_accounts
		ORDER BY username
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.UserAccount, 0, 16)
	for rows.Next() {
		var user domain.UserAccount
		if err := rows.Scan(&user.Username, &user.Password, &user.Role, &user.Active, &user.CreatedAt); err != nil {
			return nil, err
		}
		user.CreatedAt = user.CreatedAt.UTC()
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, username string, password string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || strings.TrimSpace(password) == "" {
		return store.ErrInvalidEntry
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE user_accounts
		SET password_hash = $2
		WHERE username = $1
	`, username, password)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

const receivingSelect = `
	SELECT id, item_id, lot, jct_qty, uct_qty, supplier_name, pr_number, tender_number,
		invoice_number, unit_price_cents, received_date, remarks, created_at
	FROM receiving_entries
`

const issuingSelect = `
	SELECT id, item_id, code, lot, location, quantity, division, section,
		requested_by, received_by, issued_date, remarks, created_at
	FROM issuing_entries
`

const returnSelect = `
	SELECT id, item_id, code, lot, location, supplier_name, returned_by,
		quantity, reason, returned_date, remarks, created_at
	FROM return_entries
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReceiving(row rowScanner) (*domain.ReceivingEntry, error) {
	var entry domain.ReceivingEntry
	if err := row.Scan(&entry.ID, &entry.ItemID, &entry.Lot, &entry.JCTQty, &entry.UCTQty, &entry.SupplierName, &entry.PRNumber, &entry.TenderNumber, &entry.InvoiceNumber, &entry.UnitPriceCents, &entry.ReceivedDate, &entry.Remarks, &entry.CreatedAt); err != nil {
		return nil, err
	}
	entry.ReceivedDate = entry.ReceivedDate.UTC()
	entry.CreatedAt = entry.CreatedAt.UTC()
	return &entry, nil
}

func scanIssuing(row rowScanner) (*domain.IssuingEntry, error) {
	var entry domain.IssuingEntry
	if err := row.Scan(&entry.ID, &entry.ItemID, &entry.Code, &entry.Lot, &entry.Location, &entry.Quantity, &entry.Division, &entry.Section, &entry.RequestedBy, &entry.ReceivedBy, &entry.IssuedDate, &entry.Remarks, &entry.CreatedAt); err != nil {
		return nil, err
	}
	entry.IssuedDate = entry.IssuedDate.UTC()
	entry.CreatedAt = entry.CreatedAt.UTC()
	return &entry, nil
}

func scanReturn(row rowScanner) (*domain.ReturnEntry, error) {
	var entry domain.ReturnEntry
	if err := row.Scan(&entry.ID, &entry.ItemID, &entry.Code, &entry.Lot, &entry.Location, &entry.SupplierName, &entry.ReturnedBy, &entry.Quantity, &entry.Reason, &entry.ReturnedDate, &entry.Remarks, &entry.CreatedAt); err != nil {
		return nil, err
	}
	entry.ReturnedDate = entry.ReturnedDate.UTC()
	entry.CreatedAt = entry.CreatedAt.UTC()
	return &entry, nil
}

type execer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func itemExists(ctx context.Context, tx execer, itemID string) error {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM items WHERE id = $1 FOR UPDATE`, itemID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// stockColumn maps a location to its counter column. The result is only ever
// one of two fixed identifiers, never caller text.
func stockColumn(location string) (string, error) {
	switch location {
	case domain.LocationJCT:
		return "stock_jct", nil
	case domain.LocationUCT:
		return "stock_uct", nil
	default:
		return "", store.ErrInvalidEntry
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}

func dateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

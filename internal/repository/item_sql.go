package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jaekwang-park/todo-bot/internal/model"
)

const itemColumns = "id, user_id, title, description, due_at, created_at, completed"

// Limits are the column widths of the item table.
type Limits struct {
	Title       int
	Description int
}

type SQLItemRepository struct {
	db      *sql.DB
	dialect Dialect
	limits  Limits
	now     func() time.Time
}

func NewSQLItemRepository(db *sql.DB, dialect Dialect, limits Limits) *SQLItemRepository {
	return &SQLItemRepository{db: db, dialect: dialect, limits: limits, now: time.Now}
}

func (r *SQLItemRepository) createTable() string {
	if r.dialect == DialectPostgres {
		return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS items (
			id          BIGSERIAL PRIMARY KEY,
			user_id     VARCHAR(64) NOT NULL,
			title       VARCHAR(%d) NOT NULL,
			description VARCHAR(%d) NOT NULL DEFAULT '',
			due_at      TIMESTAMPTZ,
			created_at  TIMESTAMPTZ NOT NULL,
			completed   BOOLEAN NOT NULL DEFAULT FALSE
		)`, r.limits.Title, r.limits.Description)
	}
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS items (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id     VARCHAR(64) NOT NULL,
			title       VARCHAR(%d) NOT NULL,
			description VARCHAR(%d) NOT NULL DEFAULT '',
			due_at      DATETIME,
			created_at  DATETIME NOT NULL,
			completed   BOOLEAN NOT NULL DEFAULT 0
		)`, r.limits.Title, r.limits.Description)
}

func (r *SQLItemRepository) schemaStatements() []statement {
	return []statement{
		{op: "create item table", query: r.createTable()},
		{op: "create item index", query: `CREATE INDEX IF NOT EXISTS idx_items_user_id ON items (user_id)`},
	}
}

func (r *SQLItemRepository) SchemaExists(ctx context.Context) (bool, error) {
	query := `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'items'`
	if r.dialect == DialectPostgres {
		query = `
		SELECT COUNT(*) FROM information_schema.tables
		WHERE table_schema = current_schema() AND table_name = 'items'`
	}

	var n int
	if err := r.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return false, classify("check schema", err)
	}
	return n > 0, nil
}

func (r *SQLItemRepository) CreateSchema(ctx context.Context) error {
	return execAll(ctx, r.db, r.schemaStatements()...)
}

func (r *SQLItemRepository) ResetSchema(ctx context.Context) error {
	stmts := append([]statement{{op: "drop item table", query: `DROP TABLE IF EXISTS items`}}, r.schemaStatements()...)
	return execAll(ctx, r.db, stmts...)
}

func (r *SQLItemRepository) ListByOwner(ctx context.Context, userID string) ([]model.Record, error) {
	query := r.dialect.Rebind(`SELECT ` + itemColumns + ` FROM items WHERE user_id = ? ORDER BY id`)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, classify("list items", err)
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, classify("scan item", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate items", err)
	}
	return records, nil
}

func (r *SQLItemRepository) GetByID(ctx context.Context, id int64) (model.Record, error) {
	query := r.dialect.Rebind(`SELECT ` + itemColumns + ` FROM items WHERE id = ?`)

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return model.Record{}, classify("get item", err)
	}
	return rec, nil
}

func (r *SQLItemRepository) Create(ctx context.Context, item model.NewItem) (model.Record, error) {
	query := r.dialect.Rebind(`
		INSERT INTO items (user_id, title, description, due_at, created_at, completed)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING ` + itemColumns)

	var dueAt any
	if item.DueAt != nil {
		dueAt = item.DueAt.UTC()
	}

	row := r.db.QueryRowContext(ctx, query,
		item.UserID, item.Title, item.Description, dueAt, r.now().UTC(), false,
	)
	rec, err := scanRecord(row)
	if err != nil {
		return model.Record{}, classify("insert item", err)
	}
	return rec, nil
}

func (r *SQLItemRepository) Delete(ctx context.Context, id int64) error {
	query := r.dialect.Rebind(`DELETE FROM items WHERE id = ?`)

	n, err := r.exec(ctx, "delete item", query, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return classify("delete item", sql.ErrNoRows)
	}
	return nil
}

func (r *SQLItemRepository) DeleteByOwner(ctx context.Context, userID string) (int64, error) {
	query := r.dialect.Rebind(`DELETE FROM items WHERE user_id = ?`)
	return r.exec(ctx, "delete items", query, userID)
}

func (r *SQLItemRepository) SetCompleted(ctx context.Context, id int64, completed bool) error {
	query := r.dialect.Rebind(`UPDATE items SET completed = ? WHERE id = ?`)

	n, err := r.exec(ctx, "set completed", query, completed, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return classify("set completed", sql.ErrNoRows)
	}
	return nil
}

func (r *SQLItemRepository) SetCompletedByOwner(ctx context.Context, userID string, completed bool) (int64, error) {
	query := r.dialect.Rebind(`UPDATE items SET completed = ? WHERE user_id = ?`)
	return r.exec(ctx, "set completed for owner", query, completed, userID)
}

func (r *SQLItemRepository) exec(ctx context.Context, op, query string, args ...any) (int64, error) {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, classify(op, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, classify(op, err)
	}
	return n, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRecord(row scannable) (model.Record, error) {
	var (
		rec       model.Record
		dueAt     timeValue
		createdAt timeValue
	)
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.Title, &rec.Description,
		&dueAt, &createdAt, &rec.Completed,
	)
	if err != nil {
		return model.Record{}, err
	}
	if dueAt.Valid {
		t := dueAt.Time
		rec.DueAt = &t
	}
	rec.CreatedAt = createdAt.Time
	return rec, nil
}

// ensure compile-time interface compliance
var _ ItemRepository = (*SQLItemRepository)(nil)

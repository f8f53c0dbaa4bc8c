package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/jaekwang-park/todo-bot/internal/model"
)

const userColumns = "id, cognito_sub, email, created_at, updated_at"

type SQLUserRepository struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

func NewSQLUserRepository(db *sql.DB, dialect Dialect) *SQLUserRepository {
	return &SQLUserRepository{db: db, dialect: dialect, now: time.Now}
}

func (r *SQLUserRepository) EnsureSchema(ctx context.Context) error {
	tsType := "DATETIME"
	if r.dialect == DialectPostgres {
		tsType = "TIMESTAMPTZ"
	}
	return execAll(ctx, r.db, statement{
		op: "create user table",
		query: `
		CREATE TABLE IF NOT EXISTS users (
			id          VARCHAR(36) PRIMARY KEY,
			cognito_sub VARCHAR(128) NOT NULL UNIQUE,
			email       VARCHAR(320) NOT NULL,
			created_at  ` + tsType + ` NOT NULL,
			updated_at  ` + tsType + ` NOT NULL
		)`,
	})
}

func (r *SQLUserRepository) GetOrCreate(ctx context.Context, cognitoSub, email string) (model.User, error) {
	query := r.dialect.Rebind(`
		INSERT INTO users (id, cognito_sub, email, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (cognito_sub) DO UPDATE SET email = excluded.email, updated_at = excluded.updated_at
		RETURNING ` + userColumns)

	now := r.now().UTC()
	row := r.db.QueryRowContext(ctx, query, uuid.NewString(), cognitoSub, email, now, now)
	user, err := scanUser(row)
	if err != nil {
		return model.User{}, classify("upsert user", err)
	}
	return user, nil
}

func (r *SQLUserRepository) GetByCognitoSub(ctx context.Context, cognitoSub string) (model.User, error) {
	query := r.dialect.Rebind(`SELECT ` + userColumns + ` FROM users WHERE cognito_sub = ?`)

	user, err := scanUser(r.db.QueryRowContext(ctx, query, cognitoSub))
	if err != nil {
		return model.User{}, classify("get user", err)
	}
	return user, nil
}

func scanUser(row scannable) (model.User, error) {
	var (
		u                    model.User
		createdAt, updatedAt timeValue
	)
	if err := row.Scan(&u.ID, &u.CognitoSub, &u.Email, &createdAt, &updatedAt); err != nil {
		return model.User{}, err
	}
	u.CreatedAt = createdAt.Time
	u.UpdatedAt = updatedAt.Time
	return u, nil
}

var _ UserRepository = (*SQLUserRepository)(nil)

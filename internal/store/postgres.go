package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/NixoNetwork/main/internal/db"
)

// Postgres is the production Store backed by database/sql + lib/pq.
type Postgres struct {
	db *db.DB
}

func NewPostgres(db *db.DB) *Postgres {
	return &Postgres{db: db}
}

// isUniqueViolation reports whether err is the postgres unique_violation
// error class. The resolver relies on this to turn a racing create into
// a retry-as-update.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

const accountColumns = `
	id, email, display_name, login_method, provider_subject_id,
	password_hash, wallet_address, reward_points, created_at, updated_at`

func scanAccount(row *sql.Row) (*Account, error) {
	var a Account
	err := row.Scan(
		&a.ID, &a.Email, &a.DisplayName, &a.LoginMethod, &a.ProviderSubjectID,
		&a.PasswordHash, &a.WalletAddress, &a.RewardPoints, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Postgres) CreateAccount(ctx context.Context, a *Account) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO accounts (email, display_name, login_method, provider_subject_id, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`,
		NormalizeEmail(a.Email), a.DisplayName, a.LoginMethod, a.ProviderSubjectID, a.PasswordHash,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)

	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (s *Postgres) GetAccountByEmail(ctx context.Context, email string) (*Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT`+accountColumns+`
		FROM accounts
		WHERE LOWER(email) = LOWER($1)
	`, email)
	return scanAccount(row)
}

func (s *Postgres) GetAccountByID(ctx context.Context, id string) (*Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT`+accountColumns+`
		FROM accounts
		WHERE id = $1
	`, id)
	return scanAccount(row)
}

func (s *Postgres) UpdateAccount(ctx context.Context, a *Account) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE accounts
		SET email = $2,
		    display_name = $3,
		    login_method = $4,
		    provider_subject_id = $5,
		    password_hash = $6,
		    wallet_address = $7,
		    reward_points = $8,
		    updated_at = NOW()
		WHERE id = $1
	`,
		a.ID, NormalizeEmail(a.Email), a.DisplayName, a.LoginMethod,
		a.ProviderSubjectID, a.PasswordHash, a.WalletAddress, a.RewardPoints,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}

func (s *Postgres) ListAddresses(ctx context.Context, accountID string) ([]Address, error) {
	return s.listAddresses(ctx, s.db.DB, accountID)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *Postgres) listAddresses(ctx context.Context, q querier, accountID string) ([]Address, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, type, street, city, state, zip_code, country, is_default, created_at
		FROM addresses
		WHERE account_id = $1
		ORDER BY created_at, id
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	addrs := []Address{}
	for rows.Next() {
		var a Address
		if err := rows.Scan(
			&a.ID, &a.Type, &a.Street, &a.City, &a.State,
			&a.ZipCode, &a.Country, &a.IsDefault, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		addrs = append(addrs, a)
	}
	return addrs, rows.Err()
}

func (s *Postgres) AddAddress(ctx context.Context, accountID string, a Address) ([]Address, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM addresses WHERE account_id = $1
	`, accountID).Scan(&count); err != nil {
		return nil, err
	}

	// First address is always the default.
	makeDefault := a.IsDefault || count == 0
	if makeDefault {
		if _, err := tx.ExecContext(ctx, `
			UPDATE addresses SET is_default = false WHERE account_id = $1
		`, accountID); err != nil {
			return nil, err
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO addresses (account_id, type, street, city, state, zip_code, country, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, accountID, a.Type, a.Street, a.City, a.State, a.ZipCode, a.Country, makeDefault); err != nil {
		return nil, err
	}

	addrs, err := s.listAddresses(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}
	return addrs, tx.Commit()
}

func (s *Postgres) UpdateAddress(ctx context.Context, accountID, addressID string, p AddressPatch) ([]Address, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if p.IsDefault {
		if _, err := tx.ExecContext(ctx, `
			UPDATE addresses SET is_default = false WHERE account_id = $1
		`, accountID); err != nil {
			return nil, err
		}
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE addresses
		SET type     = COALESCE($3, type),
		    street   = COALESCE($4, street),
		    city     = COALESCE($5, city),
		    state    = COALESCE($6, state),
		    zip_code = COALESCE($7, zip_code),
		    country  = COALESCE($8, country),
		    is_default = $9
		WHERE account_id = $1 AND id = $2
	`, accountID, addressID, p.Type, p.Street, p.City, p.State, p.ZipCode, p.Country, p.IsDefault)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}

	addrs, err := s.listAddresses(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}
	return addrs, tx.Commit()
}

func (s *Postgres) DeleteAddress(ctx context.Context, accountID, addressID string) ([]Address, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var wasDefault bool
	err = tx.QueryRowContext(ctx, `
		DELETE FROM addresses
		WHERE account_id = $1 AND id = $2
		RETURNING is_default
	`, accountID, addressID).Scan(&wasDefault)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	// Deleting the default promotes the oldest remaining address.
	if wasDefault {
		if _, err := tx.ExecContext(ctx, `
			UPDATE addresses SET is_default = true
			WHERE id = (
				SELECT id FROM addresses
				WHERE account_id = $1
				ORDER BY created_at, id
				LIMIT 1
			)
		`, accountID); err != nil {
			return nil, err
		}
	}

	addrs, err := s.listAddresses(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}
	return addrs, tx.Commit()
}

func (s *Postgres) AddReward(ctx context.Context, accountID string, points int, activity string, metadata map[string]any) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var balance int
	err = tx.QueryRowContext(ctx, `
		UPDATE accounts
		SET reward_points = reward_points + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING reward_points
	`, accountID, points).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}

	var meta []byte
	if metadata != nil {
		meta, err = json.Marshal(metadata)
		if err != nil {
			return 0, fmt.Errorf("store: marshal reward metadata: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO reward_logs (account_id, points, activity, metadata)
		VALUES ($1, $2, $3, $4)
	`, accountID, points, activity, meta); err != nil {
		return 0, err
	}

	return balance, tx.Commit()
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/worldtravels/internal/platform/apperr"
	"github.com/taibuivan/worldtravels/internal/platform/database/schema"
	"github.com/taibuivan/worldtravels/internal/platform/dberr"
	"github.com/taibuivan/worldtravels/internal/platform/postgres"
	"github.com/taibuivan/worldtravels/internal/platform/sec"
)

// # Account Repository

// PostgresAccountRepository implements [AccountRepository] using pgx.
//
// Storage-specific errors (like pgx.ErrNoRows or SQLSTATE 23505) are mapped
// to [apperr.AppError] types through dberr.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL implementation of the AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

var accountColumns = strings.Join(schema.UserAccount.Columns(), ", ")

/*
Create persists a new account and its profile.

Description: Both inserts share one transaction; the unique indexes on email,
tax id and document are the final arbiter for concurrent registrations.

Parameters:
  - context: context.Context
  - account: *Account (Entity to persist)
  - profile: Profile (Variant matching account.Role)

Returns:
  - error: DuplicateEmail / DuplicateKey or TransactionFailure
*/
func (repository *PostgresAccountRepository) Create(context context.Context, account *Account, profile Profile) error {
	now := time.Now().UTC()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	err := postgres.WithTx(context, repository.pool, func(transaction pgx.Tx) error {
		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
			schema.UserAccount.Table, accountColumns, placeholders(len(schema.UserAccount.Columns())))

		if _, err := transaction.Exec(context, query,
			account.ID,
			account.Name,
			account.Email,
			account.PasswordHash,
			account.Role,
			account.IsBlocked,
			account.TaxID,
			account.Address,
			account.City,
			account.CreatedAt,
			account.UpdatedAt,
		); err != nil {
			return fmt.Errorf("insert_account: %w", err)
		}

		return insertProfile(context, transaction, account, profile)
	})

	return classifyWrite(err, "postgres_account_repo_create_failed")
}

func insertProfile(context context.Context, transaction pgx.Tx, account *Account, profile Profile) error {
	var (
		query string
		args  []any
	)

	switch typed := profile.(type) {
	case *TouristProfile:
		table := schema.UserTouristProfile
		if typed.RegisteredAt.IsZero() {
			typed.RegisteredAt = account.CreatedAt
		}
		query = fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
			table.Table, strings.Join(table.Columns(), ", "), placeholders(len(table.Columns())))
		args = []any{account.ID, typed.Name, typed.Surname, typed.Email, typed.PasswordHash,
			typed.Phone, typed.Nationality, typed.RegisteredAt, typed.IsBlocked, typed.VerificationCode}

	case *CompanyProfile:
		table := schema.UserCompanyProfile
		query = fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
			table.Table, strings.Join(table.Columns(), ", "), placeholders(len(table.Columns())))
		args = []any{account.ID, typed.Name, typed.TaxID, typed.Address, typed.City, typed.Email, typed.PasswordHash}

	case *AdminProfile:
		table := schema.UserAdminProfile
		query = fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
			table.Table, strings.Join(table.Columns(), ", "), placeholders(len(table.Columns())))
		args = []any{account.ID, typed.Name, typed.Surname, typed.Phone, typed.Document, typed.Email, typed.PasswordHash}

	default:
		return fmt.Errorf("insert_profile: unsupported profile %T", profile)
	}

	if _, err := transaction.Exec(context, query, args...); err != nil {
		return fmt.Errorf("insert_profile: %w", err)
	}
	return nil
}

/*
FindByEmail retrieves an account by its normalized email address.

Returns:
  - *Account: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAccountRepository) FindByEmail(context context.Context, email string) (*Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		accountColumns, schema.UserAccount.Table, schema.UserAccount.Email)

	account, err := scanAccount(repository.pool.QueryRow(context, query, email))
	if err != nil {
		return nil, dberr.Wrap(err, "Account", "postgres_account_repo_find_by_email_failed")
	}
	return account, nil
}

// FindByID retrieves an account by primary key.
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		accountColumns, schema.UserAccount.Table, schema.UserAccount.ID)

	account, err := scanAccount(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Account", "postgres_account_repo_find_by_id_failed")
	}
	return account, nil
}

/*
FindProfile loads the profile variant selected by account.Role.

Returns:
  - Profile: *TouristProfile, *CompanyProfile or *AdminProfile
  - error: apperr.NotFound when the profile row is missing
*/
func (repository *PostgresAccountRepository) FindProfile(context context.Context, account *Account) (Profile, error) {
	return findProfile(context, repository.pool, account, "")
}

// rowQuerier is satisfied by both the pool and an open transaction.
type rowQuerier interface {
	QueryRow(context context.Context, sql string, args ...any) pgx.Row
}

// findProfile reads the profile row; suffix is appended to the query (e.g. FOR UPDATE).
func findProfile(context context.Context, querier rowQuerier, account *Account, suffix string) (Profile, error) {
	var err error
	var profile Profile

	switch account.Role {
	case sec.RoleTourist:
		table := schema.UserTouristProfile
		tourist := &TouristProfile{}
		query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 %s`,
			strings.Join(table.Columns(), ", "), table.Table, table.AccountID, suffix)
		err = querier.QueryRow(context, query, account.ID).Scan(
			&tourist.AccountID, &tourist.Name, &tourist.Surname, &tourist.Email, &tourist.PasswordHash,
			&tourist.Phone, &tourist.Nationality, &tourist.RegisteredAt, &tourist.IsBlocked, &tourist.VerificationCode,
		)
		profile = tourist

	case sec.RoleCompany:
		table := schema.UserCompanyProfile
		company := &CompanyProfile{}
		query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 %s`,
			strings.Join(table.Columns(), ", "), table.Table, table.AccountID, suffix)
		err = querier.QueryRow(context, query, account.ID).Scan(
			&company.AccountID, &company.Name, &company.TaxID, &company.Address, &company.City,
			&company.Email, &company.PasswordHash,
		)
		profile = company

	case sec.RoleAdmin:
		table := schema.UserAdminProfile
		admin := &AdminProfile{}
		query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 %s`,
			strings.Join(table.Columns(), ", "), table.Table, table.AccountID, suffix)
		err = querier.QueryRow(context, query, account.ID).Scan(
			&admin.AccountID, &admin.Name, &admin.Surname, &admin.Phone, &admin.Document,
			&admin.Email, &admin.PasswordHash,
		)
		profile = admin

	default:
		return nil, apperr.Internal(fmt.Errorf("postgres_account_repo_unknown_role: %q", account.Role))
	}

	if err != nil {
		return nil, dberr.Wrap(err, "Profile", "postgres_account_repo_find_profile_failed")
	}
	return profile, nil
}

/*
Update applies mutate to both records of an account in one transaction.

Description: The account row is locked with SELECT ... FOR UPDATE before the
profile is read, so a concurrent ToggleBlocked, Delete or Update waits for
this transaction. The blocked columns are left out of the SET lists.
*/
func (repository *PostgresAccountRepository) Update(context context.Context, id string, mutate AccountMutation) (*AccountView, error) {
	var view *AccountView

	err := postgres.WithTx(context, repository.pool, func(transaction pgx.Tx) error {
		columns := schema.UserAccount
		lockQuery := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`,
			accountColumns, columns.Table, columns.ID)

		account, err := scanAccount(transaction.QueryRow(context, lockQuery, id))
		if err != nil {
			return dberr.Wrap(err, "Account", "lock_account")
		}

		profile, err := findProfile(context, transaction, account, "FOR UPDATE")
		if err != nil {
			return err
		}

		if err := mutate(account, profile); err != nil {
			return err
		}
		Mirror(account, profile)
		account.UpdatedAt = time.Now().UTC()

		query := fmt.Sprintf(`
			UPDATE %s
			SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8
			WHERE %s = $1`,
			columns.Table,
			columns.Name, columns.Email, columns.PasswordHash,
			columns.TaxID, columns.Address, columns.City, columns.UpdatedAt,
			columns.ID,
		)

		if _, err := transaction.Exec(context, query,
			account.ID, account.Name, account.Email, account.PasswordHash,
			account.TaxID, account.Address, account.City, account.UpdatedAt,
		); err != nil {
			return fmt.Errorf("update_account: %w", err)
		}

		if err := updateProfile(context, transaction, account.ID, profile); err != nil {
			return err
		}

		view = &AccountView{Account: account, Profile: profile}
		return nil
	})

	if err != nil {
		return nil, classifyWrite(err, "postgres_account_repo_update_failed")
	}
	return view, nil
}

func updateProfile(context context.Context, transaction pgx.Tx, accountID string, profile Profile) error {
	var (
		query string
		args  []any
	)

	switch typed := profile.(type) {
	case *TouristProfile:
		table := schema.UserTouristProfile
		query = fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7 WHERE %s = $1`,
			table.Table, table.Name, table.Surname, table.Email, table.PasswordHash,
			table.Phone, table.Nationality, table.AccountID)
		args = []any{accountID, typed.Name, typed.Surname, typed.Email, typed.PasswordHash,
			typed.Phone, typed.Nationality}

	case *CompanyProfile:
		table := schema.UserCompanyProfile
		query = fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7 WHERE %s = $1`,
			table.Table, table.Name, table.TaxID, table.Address, table.City,
			table.Email, table.PasswordHash, table.AccountID)
		args = []any{accountID, typed.Name, typed.TaxID, typed.Address, typed.City, typed.Email, typed.PasswordHash}

	case *AdminProfile:
		table := schema.UserAdminProfile
		query = fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7 WHERE %s = $1`,
			table.Table, table.Name, table.Surname, table.Phone, table.Document,
			table.Email, table.PasswordHash, table.AccountID)
		args = []any{accountID, typed.Name, typed.Surname, typed.Phone, typed.Document, typed.Email, typed.PasswordHash}

	default:
		return fmt.Errorf("update_profile: unsupported profile %T", profile)
	}

	tag, err := transaction.Exec(context, query, args...)
	if err != nil {
		return fmt.Errorf("update_profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Profile")
	}
	return nil
}

/*
ToggleBlocked flips the blocked flag and returns the new state.

Description: The tourist profile carries its own copy of the flag, which is
updated inside the same transaction.
*/
func (repository *PostgresAccountRepository) ToggleBlocked(context context.Context, id string) (bool, error) {
	var blocked bool

	err := postgres.WithTx(context, repository.pool, func(transaction pgx.Tx) error {
		columns := schema.UserAccount
		query := fmt.Sprintf(`
			UPDATE %s SET %s = NOT %s, %s = NOW()
			WHERE %s = $1
			RETURNING %s, %s`,
			columns.Table, columns.IsBlocked, columns.IsBlocked, columns.UpdatedAt,
			columns.ID,
			columns.IsBlocked, columns.Role,
		)

		var role sec.Role
		if err := transaction.QueryRow(context, query, id).Scan(&blocked, &role); err != nil {
			return dberr.Wrap(err, "Account", "toggle_account")
		}

		if role != sec.RoleTourist {
			return nil
		}

		tourist := schema.UserTouristProfile
		profileQuery := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
			tourist.Table, tourist.IsBlocked, tourist.AccountID)
		if _, err := transaction.Exec(context, profileQuery, id, blocked); err != nil {
			return fmt.Errorf("toggle_tourist_profile: %w", err)
		}
		return nil
	})

	if err != nil {
		return false, classifyWrite(err, "postgres_account_repo_toggle_blocked_failed")
	}
	return blocked, nil
}

// Delete removes the profile row and then the account row in one transaction.
func (repository *PostgresAccountRepository) Delete(context context.Context, id string) error {
	err := postgres.WithTx(context, repository.pool, func(transaction pgx.Tx) error {
		columns := schema.UserAccount
		lockQuery := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`,
			columns.Role, columns.Table, columns.ID)

		var role sec.Role
		if err := transaction.QueryRow(context, lockQuery, id).Scan(&role); err != nil {
			return dberr.Wrap(err, "Account", "lock_account")
		}

		profileTable, profileKey := profileTableFor(role)
		if profileTable != "" {
			profileQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, profileTable, profileKey)
			if _, err := transaction.Exec(context, profileQuery, id); err != nil {
				return fmt.Errorf("delete_profile: %w", err)
			}
		}

		accountQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, columns.Table, columns.ID)
		if _, err := transaction.Exec(context, accountQuery, id); err != nil {
			return fmt.Errorf("delete_account: %w", err)
		}
		return nil
	})

	return classifyWrite(err, "postgres_account_repo_delete_failed")
}

// EmailTaken reports whether email is bound to an account other than excludeID.
func (repository *PostgresAccountRepository) EmailTaken(context context.Context, email, excludeID string) (bool, error) {
	columns := schema.UserAccount
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s
			WHERE %s = $1 AND ($2::uuid IS NULL OR %s <> $2::uuid)
		)`,
		columns.Table, columns.Email, columns.ID,
	)

	var exclude *string
	if excludeID != "" {
		exclude = &excludeID
	}

	var taken bool
	if err := repository.pool.QueryRow(context, query, email, exclude).Scan(&taken); err != nil {
		return false, dberr.Wrap(err, "Account", "postgres_account_repo_email_taken_failed")
	}
	return taken, nil
}

// List returns one page of accounts, newest first, plus the total count.
func (repository *PostgresAccountRepository) List(context context.Context, filter ListFilter) ([]*Account, int, error) {
	columns := schema.UserAccount
	where := fmt.Sprintf(`WHERE ($1 = '' OR %s = $1)`, columns.Role)

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, columns.Table, where)
	if err := repository.pool.QueryRow(context, countQuery, string(filter.Role)).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "Account", "postgres_account_repo_count_failed")
	}

	query := fmt.Sprintf(`SELECT %s FROM %s %s ORDER BY %s DESC, %s DESC LIMIT $2 OFFSET $3`,
		accountColumns, columns.Table, where, columns.CreatedAt, columns.ID)

	rows, err := repository.pool.Query(context, query, string(filter.Role), filter.Page.Limit, filter.Page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Account", "postgres_account_repo_list_failed")
	}
	defer rows.Close()

	accounts := make([]*Account, 0, filter.Page.Limit)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "Account", "postgres_account_repo_scan_failed")
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "Account", "postgres_account_repo_rows_failed")
	}

	return accounts, total, nil
}

// SetVerificationCode stores or clears the outstanding code on the tourist profile.
func (repository *PostgresAccountRepository) SetVerificationCode(context context.Context, accountID string, code *string) error {
	table := schema.UserTouristProfile
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		table.Table, table.VerificationCode, table.AccountID)

	tag, err := repository.pool.Exec(context, query, accountID, code)
	if err != nil {
		return dberr.Wrap(err, "Profile", "postgres_account_repo_set_verification_code_failed")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Tourist profile")
	}
	return nil
}

// # Helpers

func scanAccount(row pgx.Row) (*Account, error) {
	account := &Account{}
	err := row.Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.PasswordHash,
		&account.Role,
		&account.IsBlocked,
		&account.TaxID,
		&account.Address,
		&account.City,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return account, nil
}

func profileTableFor(role sec.Role) (table, key string) {
	switch role {
	case sec.RoleTourist:
		return schema.UserTouristProfile.Table, schema.UserTouristProfile.AccountID
	case sec.RoleCompany:
		return schema.UserCompanyProfile.Table, schema.UserCompanyProfile.AccountID
	case sec.RoleAdmin:
		return schema.UserAdminProfile.Table, schema.UserAdminProfile.AccountID
	default:
		return "", ""
	}
}

func placeholders(count int) string {
	parts := make([]string, count)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(parts, ", ")
}

// classifyWrite maps a failed transactional write onto the client-facing
// error: unique collisions and NotFound pass through, everything else is a
// rolled-back pair.
func classifyWrite(err error, action string) error {
	if err == nil {
		return nil
	}

	wrapped := dberr.Wrap(err, "Account", action)
	if apperr.HasCode(wrapped, apperr.CodeInternal) {
		return apperr.TransactionFailure(fmt.Errorf("%s: %w", action, err))
	}
	return wrapped
}

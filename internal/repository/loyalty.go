package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rookgm/pointsclub/internal/models"
	"github.com/rookgm/pointsclub/internal/repository/postgres"
)

const pgErrUniqueViolationCode = "23505"

const (
	insertAccountQuery = `
						INSERT INTO loyalty_accounts (phone_number, customer_name, points_accumulated, cycle_started_at, last_purchase_at)
						VALUES ($1, $2, $3, $4, $5)
						RETURNING phone_number, customer_name, points_accumulated, cycle_started_at, last_purchase_at
`
	selectAccountByPhoneQuery = `
						SELECT phone_number, customer_name, points_accumulated, cycle_started_at, last_purchase_at FROM loyalty_accounts
						WHERE phone_number = $1
`
	selectAccountForUpdateQuery = selectAccountByPhoneQuery + `FOR UPDATE`

	incrementAccountPointsQuery = `
						UPDATE loyalty_accounts
						SET points_accumulated = points_accumulated + $2,
						    customer_name = COALESCE(NULLIF($3, ''), customer_name),
						    last_purchase_at = $4
						WHERE phone_number = $1
						RETURNING phone_number, customer_name, points_accumulated, cycle_started_at, last_purchase_at
`
	deleteAccountQuery = `
						DELETE FROM loyalty_accounts
						WHERE phone_number = $1
`
	selectAccountsQuery = `
						SELECT phone_number, customer_name, points_accumulated, cycle_started_at, last_purchase_at FROM loyalty_accounts
						ORDER BY last_purchase_at DESC
`
	insertClosureQuery = `
						INSERT INTO account_closures (id, phone_number, customer_name, reason, points_at_close, cycle_started_at, closed_at)
						VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	selectClosuresQuery = `
						SELECT id, phone_number, customer_name, reason, points_at_close, cycle_started_at, closed_at FROM account_closures
						ORDER BY closed_at DESC
`
)

// LoyaltyRepository implements LoyaltyRepository interface
type LoyaltyRepository struct {
	db *postgres.DB
}

// NewLoyaltyRepository creates new LoyaltyRepository instance
func NewLoyaltyRepository(db *postgres.DB) *LoyaltyRepository {
	return &LoyaltyRepository{db: db}
}

// FindAccountByPhone returns account by normalized phone number
func (lr *LoyaltyRepository) FindAccountByPhone(ctx context.Context, phone string) (*models.LoyaltyAccount, error) {
	acc, err := scanAccount(lr.db.QueryRow(ctx, selectAccountByPhoneQuery, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return acc, nil
}

// CreateAccount inserts new account, returns ErrConflictData if the phone already has one
func (lr *LoyaltyRepository) CreateAccount(ctx context.Context, acc *models.LoyaltyAccount) (*models.LoyaltyAccount, error) {
	created, err := scanAccount(lr.db.QueryRow(ctx, insertAccountQuery,
		acc.PhoneNumber, acc.CustomerName, acc.PointsAccumulated, acc.CycleStartedAt, acc.LastPurchaseAt))
	if err != nil {
		if errCode := lr.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	return created, nil
}

// IncrementAccountPoints atomically adds delta points and stamps the purchase time
func (lr *LoyaltyRepository) IncrementAccountPoints(ctx context.Context, phone, name string, delta int, at time.Time) (*models.LoyaltyAccount, error) {
	acc, err := scanAccount(lr.db.QueryRow(ctx, incrementAccountPointsQuery, phone, delta, name, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return acc, nil
}

// CloseAccount deletes the account if it may be closed for closure.Reason at now
// and records the closure in the same transaction.
func (lr *LoyaltyRepository) CloseAccount(ctx context.Context, closure *models.AccountClosure, now time.Time) (*models.AccountClosure, error) {
	tx, err := lr.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	acc, err := scanAccount(tx.QueryRow(ctx, selectAccountForUpdateQuery, closure.PhoneNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	if err := acc.CheckClose(closure.Reason, now); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, deleteAccountQuery, acc.PhoneNumber); err != nil {
		return nil, err
	}

	closure.CustomerName = acc.CustomerName
	closure.PointsAtClose = acc.PointsAccumulated
	closure.CycleStartedAt = acc.CycleStartedAt
	closure.ClosedAt = now

	_, err = tx.Exec(ctx, insertClosureQuery, closure.ID, closure.PhoneNumber, closure.CustomerName,
		closure.Reason, closure.PointsAtClose, closure.CycleStartedAt, closure.ClosedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return closure, nil
}

// ListAccounts returns all accounts, most recent purchase first
func (lr *LoyaltyRepository) ListAccounts(ctx context.Context) ([]models.LoyaltyAccount, error) {
	rows, err := lr.db.Query(ctx, selectAccountsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []models.LoyaltyAccount{}

	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *acc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return accounts, nil
}

// ListClosures returns closure history, most recent first
func (lr *LoyaltyRepository) ListClosures(ctx context.Context) ([]models.AccountClosure, error) {
	rows, err := lr.db.Query(ctx, selectClosuresQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	closures := []models.AccountClosure{}

	for rows.Next() {
		c := models.AccountClosure{}
		err = rows.Scan(&c.ID, &c.PhoneNumber, &c.CustomerName, &c.Reason, &c.PointsAtClose, &c.CycleStartedAt, &c.ClosedAt)
		if err != nil {
			return nil, err
		}
		closures = append(closures, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return closures, nil
}

func scanAccount(row pgx.Row) (*models.LoyaltyAccount, error) {
	acc := models.LoyaltyAccount{}
	err := row.Scan(&acc.PhoneNumber, &acc.CustomerName, &acc.PointsAccumulated, &acc.CycleStartedAt, &acc.LastPurchaseAt)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rookgm/pointsclub/internal/logger"
	"github.com/rookgm/pointsclub/internal/models"
	"go.uber.org/zap"
)

// accumulation retries when an account is created or closed under our feet
const maxAccumulateAttempts = 3

var errAccountContended = errors.New("account changed concurrently")

// LoyaltyRepository is interface for interacting with loyalty-related data
type LoyaltyRepository interface {
	// FindAccountByPhone returns account by phone number
	FindAccountByPhone(ctx context.Context, phone string) (*models.LoyaltyAccount, error)
	// CreateAccount inserts new account
	CreateAccount(ctx context.Context, acc *models.LoyaltyAccount) (*models.LoyaltyAccount, error)
	// IncrementAccountPoints atomically adds delta points
	IncrementAccountPoints(ctx context.Context, phone, name string, delta int, at time.Time) (*models.LoyaltyAccount, error)
	// CloseAccount deletes eligible account and records the closure
	CloseAccount(ctx context.Context, closure *models.AccountClosure, now time.Time) (*models.AccountClosure, error)
	// ListAccounts returns accounts, most recent purchase first
	ListAccounts(ctx context.Context) ([]models.LoyaltyAccount, error)
	// ListClosures returns closures, most recent first
	ListClosures(ctx context.Context) ([]models.AccountClosure, error)
}

// LoyaltyService implements LoyaltyService interface
type LoyaltyService struct {
	repo LoyaltyRepository
	now  func() time.Time
}

// NewLoyaltyService creates new LoyaltyService instance. If now is nil, time.Now is used.
func NewLoyaltyService(repo LoyaltyRepository, now func() time.Time) *LoyaltyService {
	if now == nil {
		now = time.Now
	}
	return &LoyaltyService{
		repo: repo,
		now:  now,
	}
}

// Accumulate adds quantity points to the account of phone, creating the account
// and starting a new cycle if there is none.
// Expired cycles keep accumulating until staff resets them.
func (ls *LoyaltyService) Accumulate(ctx context.Context, phone, name string, quantity int) (*models.LoyaltyAccount, error) {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, models.ErrInvalidQuantity
	}

	now := ls.now()

	for attempt := 0; attempt < maxAccumulateAttempts; attempt++ {
		_, err := ls.repo.FindAccountByPhone(ctx, normalized)
		switch {
		case err == nil:
			acc, err := ls.repo.IncrementAccountPoints(ctx, normalized, name, quantity, now)
			if err == nil {
				logger.Log.Debug("loyalty points added",
					zap.String("phone", normalized),
					zap.Int("quantity", quantity),
					zap.Int("points", acc.PointsAccumulated))
				return acc, nil
			}
			if !errors.Is(err, models.ErrDataNotFound) {
				return nil, models.NewPersistenceError("increment account points", err)
			}
			// closed since the lookup, start a new cycle
		case errors.Is(err, models.ErrDataNotFound):
			acc, err := ls.repo.CreateAccount(ctx, &models.LoyaltyAccount{
				PhoneNumber:       normalized,
				CustomerName:      name,
				PointsAccumulated: quantity,
				CycleStartedAt:    now,
				LastPurchaseAt:    now,
			})
			if err == nil {
				logger.Log.Debug("loyalty account created",
					zap.String("phone", normalized),
					zap.Int("points", acc.PointsAccumulated))
				return acc, nil
			}
			if !errors.Is(err, models.ErrConflictData) {
				return nil, models.NewPersistenceError("create account", err)
			}
			// created since the lookup, increment it
		default:
			return nil, models.NewPersistenceError("find account", err)
		}
	}

	return nil, models.NewPersistenceError("accumulate", errAccountContended)
}

// Lookup returns account status of phone
func (ls *LoyaltyService) Lookup(ctx context.Context, phone string) (*models.AccountStatus, error) {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}

	acc, err := ls.repo.FindAccountByPhone(ctx, normalized)
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			return nil, models.ErrAccountNotFound
		}
		return nil, models.NewPersistenceError("find account", err)
	}

	return &models.AccountStatus{
		Account:    *acc,
		Expiration: acc.Expiration(ls.now()),
	}, nil
}

// Redeem closes the account of phone granting its reward
func (ls *LoyaltyService) Redeem(ctx context.Context, phone string, confirmed bool) (*models.AccountClosure, error) {
	return ls.close(ctx, phone, models.ClosureRewardRedeemed, confirmed)
}

// Reset closes the expired account of phone without a reward
func (ls *LoyaltyService) Reset(ctx context.Context, phone string, confirmed bool) (*models.AccountClosure, error) {
	return ls.close(ctx, phone, models.ClosureCycleExpired, confirmed)
}

func (ls *LoyaltyService) close(ctx context.Context, phone, reason string, confirmed bool) (*models.AccountClosure, error) {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}
	if !confirmed {
		return nil, models.ErrNotConfirmed
	}

	closure, err := ls.repo.CloseAccount(ctx, &models.AccountClosure{
		ID:          uuid.New(),
		PhoneNumber: normalized,
		Reason:      reason,
	}, ls.now())
	if err != nil {
		switch {
		case errors.Is(err, models.ErrDataNotFound):
			return nil, models.ErrAccountNotFound
		case errors.Is(err, models.ErrNotEligible):
			return nil, err
		default:
			return nil, models.NewPersistenceError("close account", err)
		}
	}

	logger.Log.Info("loyalty account closed",
		zap.String("phone", closure.PhoneNumber),
		zap.String("reason", closure.Reason),
		zap.Int("points", closure.PointsAtClose))

	return closure, nil
}

// ListAccounts returns all accounts with their cycle state
func (ls *LoyaltyService) ListAccounts(ctx context.Context) ([]models.AccountStatus, error) {
	accounts, err := ls.repo.ListAccounts(ctx)
	if err != nil {
		return nil, models.NewPersistenceError("list accounts", err)
	}

	now := ls.now()
	statuses := make([]models.AccountStatus, 0, len(accounts))
	for _, acc := range accounts {
		statuses = append(statuses, models.AccountStatus{
			Account:    acc,
			Expiration: acc.Expiration(now),
		})
	}

	return statuses, nil
}

// ExpiredAccounts returns accounts whose cycle is over and waits for a reset
func (ls *LoyaltyService) ExpiredAccounts(ctx context.Context) ([]models.AccountStatus, error) {
	statuses, err := ls.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	expired := []models.AccountStatus{}
	for _, st := range statuses {
		if st.Expiration.IsExpired {
			expired = append(expired, st)
		}
	}

	return expired, nil
}

// ListClosures returns closed cycles history
func (ls *LoyaltyService) ListClosures(ctx context.Context) ([]models.AccountClosure, error) {
	closures, err := ls.repo.ListClosures(ctx)
	if err != nil {
		return nil, models.NewPersistenceError("list closures", err)
	}
	return closures, nil
}

package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rookgm/pointsclub/internal/models"
	"github.com/rookgm/pointsclub/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPhone = "(71) 99978-4507"

var day0 = time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)

// fakeClock is a settable clock for the loyalty service
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) SetDay(d int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = day0.AddDate(0, 0, d)
}

func newTestLoyalty(t *testing.T) (*LoyaltyService, *memory.Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: day0}
	store := memory.New()
	return NewLoyaltyService(store, clock.Now), store, clock
}

// failingRepo fails every storage call
type failingRepo struct {
	*memory.Store
	err error
}

func (f *failingRepo) FindAccountByPhone(context.Context, string) (*models.LoyaltyAccount, error) {
	return nil, f.err
}

func (f *failingRepo) CloseAccount(context.Context, *models.AccountClosure, time.Time) (*models.AccountClosure, error) {
	return nil, f.err
}

func (f *failingRepo) ListAccounts(context.Context) ([]models.LoyaltyAccount, error) {
	return nil, f.err
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		want    string
		wantErr error
	}{
		{name: "formatted", phone: "(71) 99978-4507", want: "71999784507"},
		{name: "international", phone: "+55 71 9997-8450", want: "557199978450"},
		{name: "eight_digits", phone: "9997-8450", want: "99978450"},
		{name: "fifteen_digits", phone: "+55 (71) 99978-4507-12", want: "557199978450712"},
		{name: "sixteen_digits", phone: "+55 (71) 99978-4507-123", wantErr: models.ErrInvalidPhone},
		{name: "pasted_twice", phone: "(71) 99978-4507 (71) 99978-4507", wantErr: models.ErrInvalidPhone},
		{name: "too_short", phone: "123", wantErr: models.ErrInvalidPhone},
		{name: "seven_digits", phone: "999-7845", wantErr: models.ErrInvalidPhone},
		{name: "letters_only", phone: "whatsapp", wantErr: models.ErrInvalidPhone},
		{name: "empty", phone: "", wantErr: models.ErrInvalidPhone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.phone)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoyaltyService_Accumulate(t *testing.T) {
	ctx := context.Background()
	svc, store, clock := newTestLoyalty(t)

	acc, err := svc.Accumulate(ctx, testPhone, "Maria", 5)
	require.NoError(t, err)
	assert.Equal(t, "71999784507", acc.PhoneNumber)
	assert.Equal(t, 5, acc.PointsAccumulated)
	assert.Equal(t, day0, acc.CycleStartedAt)
	assert.Equal(t, day0, acc.LastPurchaseAt)

	clock.SetDay(10)
	acc, err = svc.Accumulate(ctx, "71999784507", "Maria Souza", 16)
	require.NoError(t, err)
	assert.Equal(t, 21, acc.PointsAccumulated)
	assert.Equal(t, day0, acc.CycleStartedAt)
	assert.Equal(t, day0.AddDate(0, 0, 10), acc.LastPurchaseAt)
	assert.Equal(t, "Maria Souza", acc.CustomerName)

	st, err := svc.Lookup(ctx, testPhone)
	require.NoError(t, err)
	assert.Equal(t, 21, st.Account.PointsAccumulated)
	assert.True(t, st.Expiration.HasReward)
	assert.False(t, st.Expiration.IsExpired)
	assert.Equal(t, 20, st.Expiration.DaysRemaining)

	// name is kept when the order has none
	acc, err = svc.Accumulate(ctx, testPhone, "", 0)
	require.NoError(t, err)
	assert.Equal(t, "Maria Souza", acc.CustomerName)
	assert.Equal(t, 21, acc.PointsAccumulated)

	accounts, err := store.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestLoyaltyService_AccumulateExpiredCycle(t *testing.T) {
	ctx := context.Background()
	svc, _, clock := newTestLoyalty(t)

	_, err := svc.Accumulate(ctx, testPhone, "Maria", 3)
	require.NoError(t, err)

	clock.SetDay(40)
	acc, err := svc.Accumulate(ctx, testPhone, "Maria", 20)
	require.NoError(t, err)
	assert.Equal(t, 23, acc.PointsAccumulated)
	assert.Equal(t, day0, acc.CycleStartedAt)

	st, err := svc.Lookup(ctx, testPhone)
	require.NoError(t, err)
	assert.True(t, st.Expiration.IsExpired)
	assert.False(t, st.Expiration.HasReward)
}

func TestLoyaltyService_AccumulateInvalid(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestLoyalty(t)

	_, err := svc.Accumulate(ctx, "123", "Maria", 2)
	assert.ErrorIs(t, err, models.ErrInvalidPhone)

	_, err = svc.Accumulate(ctx, testPhone, "Maria", -1)
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)

	accounts, err := store.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestLoyaltyService_AccumulateConcurrent(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestLoyalty(t)

	const workers = 50
	var wg sync.WaitGroup
	want := 0
	for i := 0; i < workers; i++ {
		q := i % 4
		want += q
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Accumulate(ctx, testPhone, "Maria", q)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	st, err := svc.Lookup(ctx, testPhone)
	require.NoError(t, err)
	assert.Equal(t, want, st.Account.PointsAccumulated)
}

func TestLoyaltyService_AccumulatePersistenceError(t *testing.T) {
	cause := errors.New("connection reset")
	svc := NewLoyaltyService(&failingRepo{Store: memory.New(), err: cause}, nil)

	_, err := svc.Accumulate(context.Background(), testPhone, "Maria", 2)
	assert.ErrorIs(t, err, models.ErrPersistence)
	assert.ErrorIs(t, err, cause)

	_, err = svc.Lookup(context.Background(), testPhone)
	assert.ErrorIs(t, err, models.ErrPersistence)

	_, err = svc.Redeem(context.Background(), testPhone, true)
	assert.ErrorIs(t, err, models.ErrPersistence)

	_, err = svc.ListAccounts(context.Background())
	assert.ErrorIs(t, err, models.ErrPersistence)
}

func TestLoyaltyService_Lookup(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestLoyalty(t)

	_, err := svc.Lookup(ctx, "12")
	assert.ErrorIs(t, err, models.ErrInvalidPhone)

	_, err = svc.Lookup(ctx, testPhone)
	assert.ErrorIs(t, err, models.ErrAccountNotFound)
}

func TestLoyaltyService_Redeem(t *testing.T) {
	ctx := context.Background()
	svc, _, clock := newTestLoyalty(t)

	_, err := svc.Accumulate(ctx, testPhone, "Maria", 12)
	require.NoError(t, err)

	_, err = svc.Redeem(ctx, testPhone, true)
	assert.ErrorIs(t, err, models.ErrNotEligible)

	st, err := svc.Lookup(ctx, testPhone)
	require.NoError(t, err)
	assert.Equal(t, 12, st.Account.PointsAccumulated)

	clock.SetDay(5)
	_, err = svc.Accumulate(ctx, testPhone, "Maria", 8)
	require.NoError(t, err)

	_, err = svc.Redeem(ctx, testPhone, false)
	assert.ErrorIs(t, err, models.ErrNotConfirmed)

	closure, err := svc.Redeem(ctx, testPhone, true)
	require.NoError(t, err)
	assert.Equal(t, models.ClosureRewardRedeemed, closure.Reason)
	assert.Equal(t, 20, closure.PointsAtClose)
	assert.Equal(t, "71999784507", closure.PhoneNumber)
	assert.Equal(t, day0, closure.CycleStartedAt)
	assert.Equal(t, clock.Now(), closure.ClosedAt)

	_, err = svc.Lookup(ctx, testPhone)
	assert.ErrorIs(t, err, models.ErrAccountNotFound)

	_, err = svc.Redeem(ctx, testPhone, true)
	assert.ErrorIs(t, err, models.ErrAccountNotFound)

	closures, err := svc.ListClosures(ctx)
	require.NoError(t, err)
	require.Len(t, closures, 1)
	assert.Equal(t, closure.ID, closures[0].ID)
}

func TestLoyaltyService_RedeemExpired(t *testing.T) {
	ctx := context.Background()
	svc, _, clock := newTestLoyalty(t)

	_, err := svc.Accumulate(ctx, testPhone, "Maria", 25)
	require.NoError(t, err)

	clock.SetDay(31)
	_, err = svc.Redeem(ctx, testPhone, true)
	assert.ErrorIs(t, err, models.ErrNotEligible)
}

func TestLoyaltyService_Reset(t *testing.T) {
	ctx := context.Background()
	svc, _, clock := newTestLoyalty(t)

	_, err := svc.Accumulate(ctx, testPhone, "Maria", 3)
	require.NoError(t, err)

	clock.SetDay(10)
	_, err = svc.Reset(ctx, testPhone, true)
	assert.ErrorIs(t, err, models.ErrNotEligible)

	clock.SetDay(31)
	st, err := svc.Lookup(ctx, testPhone)
	require.NoError(t, err)
	assert.True(t, st.Expiration.IsExpired)
	assert.False(t, st.Expiration.HasReward)
	assert.Equal(t, 0, st.Expiration.DaysRemaining)

	expired, err := svc.ExpiredAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, expired, 1)

	closure, err := svc.Reset(ctx, testPhone, true)
	require.NoError(t, err)
	assert.Equal(t, models.ClosureCycleExpired, closure.Reason)
	assert.Equal(t, 3, closure.PointsAtClose)

	resetAt := clock.Now()
	acc, err := svc.Accumulate(ctx, testPhone, "Maria", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, acc.PointsAccumulated)
	assert.Equal(t, resetAt, acc.CycleStartedAt)

	expired, err = svc.ExpiredAccounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, expired)
}

func TestLoyaltyService_ListAccounts(t *testing.T) {
	ctx := context.Background()
	svc, _, clock := newTestLoyalty(t)

	_, err := svc.Accumulate(ctx, "71 9999-0001", "Ana", 1)
	require.NoError(t, err)
	clock.SetDay(2)
	_, err = svc.Accumulate(ctx, "71 9999-0002", "Bia", 22)
	require.NoError(t, err)

	statuses, err := svc.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.Equal(t, "Bia", statuses[0].Account.CustomerName)
	assert.True(t, statuses[0].Expiration.HasReward)
	assert.Equal(t, "Ana", statuses[1].Account.CustomerName)
	assert.Equal(t, 28, statuses[1].Expiration.DaysRemaining)
}

package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rookgm/pointsclub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)

func TestStore_Accounts(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.FindAccountByPhone(ctx, "71999784507")
	assert.ErrorIs(t, err, models.ErrDataNotFound)

	_, err = s.IncrementAccountPoints(ctx, "71999784507", "Maria", 1, start)
	assert.ErrorIs(t, err, models.ErrDataNotFound)

	acc := &models.LoyaltyAccount{
		PhoneNumber:       "71999784507",
		CustomerName:      "Maria",
		PointsAccumulated: 2,
		CycleStartedAt:    start,
		LastPurchaseAt:    start,
	}
	_, err = s.CreateAccount(ctx, acc)
	require.NoError(t, err)

	_, err = s.CreateAccount(ctx, acc)
	assert.ErrorIs(t, err, models.ErrConflictData)

	got, err := s.IncrementAccountPoints(ctx, "71999784507", "", 3, start.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 5, got.PointsAccumulated)
	assert.Equal(t, "Maria", got.CustomerName)
	assert.Equal(t, start, got.CycleStartedAt)
	assert.Equal(t, start.Add(time.Hour), got.LastPurchaseAt)

	// returned account is a copy
	got.PointsAccumulated = 100
	stored, err := s.FindAccountByPhone(ctx, "71999784507")
	require.NoError(t, err)
	assert.Equal(t, 5, stored.PointsAccumulated)
}

func TestStore_CloseAccount(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.CreateAccount(ctx, &models.LoyaltyAccount{
		PhoneNumber:       "71999784507",
		CustomerName:      "Maria",
		PointsAccumulated: 4,
		CycleStartedAt:    start,
		LastPurchaseAt:    start,
	})
	require.NoError(t, err)

	closure := &models.AccountClosure{ID: uuid.New(), PhoneNumber: "71999784507", Reason: models.ClosureRewardRedeemed}
	_, err = s.CloseAccount(ctx, closure, start.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, models.ErrNotEligible)

	closedAt := start.AddDate(0, 0, 31)
	closure = &models.AccountClosure{ID: uuid.New(), PhoneNumber: "71999784507", Reason: models.ClosureCycleExpired}
	got, err := s.CloseAccount(ctx, closure, closedAt)
	require.NoError(t, err)
	assert.Equal(t, 4, got.PointsAtClose)
	assert.Equal(t, "Maria", got.CustomerName)
	assert.Equal(t, start, got.CycleStartedAt)
	assert.Equal(t, closedAt, got.ClosedAt)

	_, err = s.FindAccountByPhone(ctx, "71999784507")
	assert.ErrorIs(t, err, models.ErrDataNotFound)

	_, err = s.CloseAccount(ctx, closure, closedAt)
	assert.ErrorIs(t, err, models.ErrDataNotFound)

	closures, err := s.ListClosures(ctx)
	require.NoError(t, err)
	require.Len(t, closures, 1)
	assert.Equal(t, closure.ID, closures[0].ID)
}

func TestStore_Orders(t *testing.T) {
	ctx := context.Background()
	s := New()

	order := &models.Order{
		ID:     uuid.New(),
		Status: models.OrderStatusPending,
		Items: []models.OrderItem{
			{ProductID: "brownie", Quantity: 2},
			{ProductID: "brigadeiro", Quantity: 1},
		},
	}
	created, err := s.CreateOrder(ctx, order)
	require.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero())
	require.Len(t, created.Items, 2)
	assert.Equal(t, uint64(1), created.Items[0].ID)
	assert.Equal(t, uint64(2), created.Items[1].ID)
	assert.Equal(t, order.ID, created.Items[1].OrderID)

	_, err = s.CreateOrder(ctx, order)
	assert.ErrorIs(t, err, models.ErrConflictData)

	err = s.UpdateOrderStatus(ctx, order.ID, models.OrderStatusApproved, models.OrderStatusRejected)
	assert.ErrorIs(t, err, models.ErrDataNotFound)

	// only approved orders can be claimed
	assert.ErrorIs(t, s.ClaimLoyalty(ctx, order.ID), models.ErrDataNotFound)

	require.NoError(t, s.UpdateOrderStatus(ctx, order.ID, models.OrderStatusPending, models.OrderStatusApproved))
	require.NoError(t, s.ClaimLoyalty(ctx, order.ID))
	assert.ErrorIs(t, s.ClaimLoyalty(ctx, order.ID), models.ErrDataNotFound)

	require.NoError(t, s.ReleaseLoyalty(ctx, order.ID))
	assert.ErrorIs(t, s.ReleaseLoyalty(ctx, order.ID), models.ErrDataNotFound)
	require.NoError(t, s.ClaimLoyalty(ctx, order.ID))

	got, err := s.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusApproved, got.Status)
	assert.True(t, got.LoyaltyRecorded)

	pending, err := s.ListOrders(ctx, models.OrderStatusPending)
	require.NoError(t, err)
	assert.Empty(t, pending)

	all, err := s.ListOrders(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, s.DeleteOrder(ctx, order.ID))
	assert.ErrorIs(t, s.DeleteOrder(ctx, order.ID), models.ErrDataNotFound)
	_, err = s.GetOrderByID(ctx, order.ID)
	assert.ErrorIs(t, err, models.ErrDataNotFound)
}

// Package memory provides a thread-safe in-memory store for loyalty accounts
// and orders. It is used when no database DSN is configured and in tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rookgm/pointsclub/internal/models"
)

// Store holds accounts, closures and orders in memory
type Store struct {
	mu       sync.RWMutex
	accounts map[string]models.LoyaltyAccount
	closures []models.AccountClosure
	orders   map[uuid.UUID]models.Order
	itemID   uint64
}

// New creates empty Store
func New() *Store {
	return &Store{
		accounts: make(map[string]models.LoyaltyAccount),
		orders:   make(map[uuid.UUID]models.Order),
	}
}

// FindAccountByPhone returns account by phone number
func (s *Store) FindAccountByPhone(_ context.Context, phone string) (*models.LoyaltyAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[phone]
	if !ok {
		return nil, models.ErrDataNotFound
	}
	return &acc, nil
}

// CreateAccount inserts account, returns ErrConflictData if the phone already has one
func (s *Store) CreateAccount(_ context.Context, acc *models.LoyaltyAccount) (*models.LoyaltyAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[acc.PhoneNumber]; exists {
		return nil, models.ErrConflictData
	}
	s.accounts[acc.PhoneNumber] = *acc

	created := *acc
	return &created, nil
}

// IncrementAccountPoints adds delta points to account
func (s *Store) IncrementAccountPoints(_ context.Context, phone, name string, delta int, at time.Time) (*models.LoyaltyAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[phone]
	if !ok {
		return nil, models.ErrDataNotFound
	}

	acc.PointsAccumulated += delta
	acc.LastPurchaseAt = at
	if name != "" {
		acc.CustomerName = name
	}
	s.accounts[phone] = acc

	return &acc, nil
}

// CloseAccount removes account if it may be closed for closure.Reason and records the closure
func (s *Store) CloseAccount(_ context.Context, closure *models.AccountClosure, now time.Time) (*models.AccountClosure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[closure.PhoneNumber]
	if !ok {
		return nil, models.ErrDataNotFound
	}

	if err := acc.CheckClose(closure.Reason, now); err != nil {
		return nil, err
	}

	delete(s.accounts, acc.PhoneNumber)

	closure.CustomerName = acc.CustomerName
	closure.PointsAtClose = acc.PointsAccumulated
	closure.CycleStartedAt = acc.CycleStartedAt
	closure.ClosedAt = now
	s.closures = append(s.closures, *closure)

	return closure, nil
}

// ListAccounts returns accounts, most recent purchase first
func (s *Store) ListAccounts(_ context.Context) ([]models.LoyaltyAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]models.LoyaltyAccount, 0, len(s.accounts))
	for _, acc := range s.accounts {
		accounts = append(accounts, acc)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].LastPurchaseAt.After(accounts[j].LastPurchaseAt)
	})

	return accounts, nil
}

// ListClosures returns closures, most recent first
func (s *Store) ListClosures(_ context.Context) ([]models.AccountClosure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	closures := make([]models.AccountClosure, len(s.closures))
	for i, c := range s.closures {
		closures[len(s.closures)-1-i] = c
	}

	return closures, nil
}

// CreateOrder stores order with items
func (s *Store) CreateOrder(_ context.Context, order *models.Order) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.ID]; exists {
		return nil, models.ErrConflictData
	}

	order.CreatedAt = time.Now()
	items := make([]models.OrderItem, len(order.Items))
	for i, item := range order.Items {
		s.itemID++
		item.ID = s.itemID
		item.OrderID = order.ID
		items[i] = item
	}
	order.Items = items

	stored := *order
	stored.Items = append([]models.OrderItem(nil), items...)
	s.orders[order.ID] = stored

	return order, nil
}

// GetOrderByID returns order by id
func (s *Store) GetOrderByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, models.ErrDataNotFound
	}
	order.Items = append([]models.OrderItem(nil), order.Items...)

	return &order, nil
}

// ListOrders returns orders with status, or every order if status is empty, newest first
func (s *Store) ListOrders(_ context.Context, status string) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := []models.Order{}
	for _, o := range s.orders {
		if status != "" && o.Status != status {
			continue
		}
		o.Items = append([]models.OrderItem(nil), o.Items...)
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	return orders, nil
}

// UpdateOrderStatus moves order from status to status
func (s *Store) UpdateOrderStatus(_ context.Context, id uuid.UUID, from, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok || order.Status != from {
		return models.ErrDataNotFound
	}
	order.Status = to
	s.orders[id] = order

	return nil
}

// ClaimLoyalty marks loyalty points of an approved order as recorded.
// Returns ErrDataNotFound unless the order is approved and not marked yet.
func (s *Store) ClaimLoyalty(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok || order.Status != models.OrderStatusApproved || order.LoyaltyRecorded {
		return models.ErrDataNotFound
	}
	order.LoyaltyRecorded = true
	s.orders[id] = order

	return nil
}

// ReleaseLoyalty clears the loyalty mark of order
func (s *Store) ReleaseLoyalty(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok || !order.LoyaltyRecorded {
		return models.ErrDataNotFound
	}
	order.LoyaltyRecorded = false
	s.orders[id] = order

	return nil
}

// DeleteOrder deletes order
func (s *Store) DeleteOrder(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[id]; !ok {
		return models.ErrDataNotFound
	}
	delete(s.orders, id)

	return nil
}

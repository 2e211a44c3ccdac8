package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rookgm/pointsclub/internal/logger"
	"github.com/rookgm/pointsclub/internal/models"
	"go.uber.org/zap"
)

// OrderRepository is interface for interacting with order-related data
type OrderRepository interface {
	// CreateOrder inserts new order with items
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	// GetOrderByID returns order by id
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	// ListOrders returns orders with status, every order if status is empty
	ListOrders(ctx context.Context, status string) ([]models.Order, error)
	// UpdateOrderStatus moves order from status to status
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to string) error
	// ClaimLoyalty marks loyalty points of an approved order as recorded,
	// returns ErrDataNotFound if the order is missing, not approved or already marked
	ClaimLoyalty(ctx context.Context, id uuid.UUID) error
	// ReleaseLoyalty clears the mark set by ClaimLoyalty
	ReleaseLoyalty(ctx context.Context, id uuid.UUID) error
	// DeleteOrder deletes order
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}

// LoyaltyAccumulator records loyalty points of approved orders
type LoyaltyAccumulator interface {
	Accumulate(ctx context.Context, phone, name string, quantity int) (*models.LoyaltyAccount, error)
}

// ProductCatalog resolves checkout lines to products
type ProductCatalog interface {
	Product(id string) (models.Product, bool)
}

// CheckoutOptions configure checkout pricing and hand-over
type CheckoutOptions struct {
	WhatsAppNumber string
	DeliveryFee    float64
}

// OrderService implements OrderService interface
type OrderService struct {
	repo    OrderRepository
	loyalty LoyaltyAccumulator
	catalog ProductCatalog
	opts    CheckoutOptions
}

// NewOrderService creates new OrderService instance
func NewOrderService(repo OrderRepository, loyalty LoyaltyAccumulator, catalog ProductCatalog, opts CheckoutOptions) *OrderService {
	return &OrderService{
		repo:    repo,
		loyalty: loyalty,
		catalog: catalog,
		opts:    opts,
	}
}

// Checkout prices cart lines, stores a pending order and builds its WhatsApp link
func (s *OrderService) Checkout(ctx context.Context, req *models.CheckoutRequest) (*models.Checkout, error) {
	name := strings.TrimSpace(req.CustomerName)
	if name == "" || strings.TrimSpace(req.CustomerPhone) == "" {
		return nil, models.ErrMissingCustomer
	}
	if _, err := NormalizePhone(req.CustomerPhone); err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:             uuid.New(),
		SessionID:      req.SessionID,
		CustomerName:   name,
		CustomerPhone:  strings.TrimSpace(req.CustomerPhone),
		DeliveryOption: req.DeliveryOption,
		Notes:          strings.TrimSpace(req.Notes),
		Status:         models.OrderStatusPending,
	}

	switch req.DeliveryOption {
	case models.DeliveryPickup:
	case models.DeliveryDelivery:
		order.DeliveryAddress = strings.TrimSpace(req.DeliveryAddress)
		order.DeliveryCEP = strings.TrimSpace(req.DeliveryCEP)
		order.DeliveryNeighborhood = strings.TrimSpace(req.DeliveryNeighborhood)
		if order.DeliveryAddress == "" || order.DeliveryCEP == "" || order.DeliveryNeighborhood == "" {
			return nil, models.ErrMissingDelivery
		}
		order.DeliveryFee = s.opts.DeliveryFee
	default:
		return nil, models.ErrInvalidDeliveryOption
	}

	if len(req.Lines) == 0 {
		return nil, models.ErrEmptyCart
	}

	for _, line := range req.Lines {
		if line.Quantity <= 0 {
			return nil, models.ErrInvalidQuantity
		}
		p, ok := s.catalog.Product(line.ProductID)
		if !ok || !p.Active {
			return nil, models.ErrUnknownProduct
		}
		item := models.OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    line.Quantity,
			UnitPrice:   p.Price,
			TotalPrice:  p.Price * float64(line.Quantity),
		}
		order.Subtotal += item.TotalPrice
		order.Items = append(order.Items, item)
	}
	order.Total = order.Subtotal + order.DeliveryFee

	order, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		return nil, models.NewPersistenceError("create order", err)
	}

	logger.Log.Info("order created",
		zap.String("id", order.ID.String()),
		zap.String("session", order.SessionID),
		zap.Float64("total", order.Total))

	return &models.Checkout{
		Order:       order,
		WhatsAppURL: WhatsAppURL(s.opts.WhatsAppNumber, WhatsAppMessage(order)),
	}, nil
}

// ListOrders returns orders with status, every order if status is empty or "all"
func (s *OrderService) ListOrders(ctx context.Context, status string) ([]models.Order, error) {
	if status == "all" {
		status = ""
	}

	orders, err := s.repo.ListOrders(ctx, status)
	if err != nil {
		return nil, models.NewPersistenceError("list orders", err)
	}

	return orders, nil
}

// Approve approves pending order and adds its items to the customer loyalty account.
// If the points can't be recorded the order stays approved and ErrLoyaltyNotRecorded is returned.
func (s *OrderService) Approve(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Status != models.OrderStatusPending {
		return nil, models.ErrOrderNotPending
	}

	// a phone we can't credit must not be approved
	if _, err := NormalizePhone(order.CustomerPhone); err != nil {
		return nil, err
	}

	if err := s.moveStatus(ctx, id, models.OrderStatusPending, models.OrderStatusApproved); err != nil {
		return nil, err
	}
	order.Status = models.OrderStatusApproved

	logger.Log.Info("order approved", zap.String("id", id.String()))

	err = s.recordLoyalty(ctx, order)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrLoyaltyAlreadyRecorded):
		// a concurrent retry claimed the order first
		order.LoyaltyRecorded = true
	default:
		return order, err
	}

	return order, nil
}

// RecordLoyalty retries crediting loyalty points of approved order
func (s *OrderService) RecordLoyalty(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Status != models.OrderStatusApproved {
		return nil, models.ErrOrderNotApproved
	}
	if order.LoyaltyRecorded {
		return nil, models.ErrLoyaltyAlreadyRecorded
	}

	if err := s.recordLoyalty(ctx, order); err != nil {
		if errors.Is(err, models.ErrLoyaltyNotRecorded) {
			return order, err
		}
		return nil, err
	}

	return order, nil
}

// Reject rejects pending order
func (s *OrderService) Reject(ctx context.Context, id uuid.UUID) error {
	return s.moveStatus(ctx, id, models.OrderStatusPending, models.OrderStatusRejected)
}

// Delete deletes order
func (s *OrderService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteOrder(ctx, id); err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			return models.ErrOrderNotFound
		}
		return models.NewPersistenceError("delete order", err)
	}
	return nil
}

// recordLoyalty claims the order before crediting it, so its points are added at most once.
// The claim is released when crediting fails.
func (s *OrderService) recordLoyalty(ctx context.Context, order *models.Order) error {
	if err := s.claimLoyalty(ctx, order.ID); err != nil {
		return err
	}

	_, err := s.loyalty.Accumulate(ctx, order.CustomerPhone, order.CustomerName, order.TotalQuantity())
	if err != nil {
		logger.Log.Error("loyalty points not recorded",
			zap.String("order", order.ID.String()),
			zap.Error(err))

		if relErr := s.repo.ReleaseLoyalty(ctx, order.ID); relErr != nil {
			// order stays marked without points, a retry reports it as recorded
			logger.Log.Error("loyalty claim not released, points must be added by hand",
				zap.String("order", order.ID.String()),
				zap.Int("points", order.TotalQuantity()),
				zap.Error(relErr))
			return errors.Join(models.ErrLoyaltyNotRecorded, err, models.NewPersistenceError("release loyalty claim", relErr))
		}
		return errors.Join(models.ErrLoyaltyNotRecorded, err)
	}
	order.LoyaltyRecorded = true

	return nil
}

// claimLoyalty tells apart why an order can't be claimed
func (s *OrderService) claimLoyalty(ctx context.Context, id uuid.UUID) error {
	err := s.repo.ClaimLoyalty(ctx, id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, models.ErrDataNotFound) {
		return errors.Join(models.ErrLoyaltyNotRecorded, models.NewPersistenceError("claim loyalty", err))
	}

	order, err := s.getOrder(ctx, id)
	if err != nil {
		return err
	}
	if order.Status != models.OrderStatusApproved {
		return models.ErrOrderNotApproved
	}
	return models.ErrLoyaltyAlreadyRecorded
}

func (s *OrderService) getOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			return nil, models.ErrOrderNotFound
		}
		return nil, models.NewPersistenceError("get order", err)
	}
	return order, nil
}

// moveStatus changes status atomically; tells a missing order from one in another status
func (s *OrderService) moveStatus(ctx context.Context, id uuid.UUID, from, to string) error {
	err := s.repo.UpdateOrderStatus(ctx, id, from, to)
	if err == nil {
		return nil
	}
	if !errors.Is(err, models.ErrDataNotFound) {
		return models.NewPersistenceError("update order status", err)
	}

	if _, err := s.getOrder(ctx, id); err != nil {
		return err
	}
	return models.ErrOrderNotPending
}

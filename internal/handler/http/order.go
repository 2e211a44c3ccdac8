package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rookgm/pointsclub/internal/models"
)

// sessionHeader carries the anonymous storefront session
const sessionHeader = "X-Session-ID"

//go:generate mockgen -source=order.go -destination=mocks/order.go -package=mocks
type OrderService interface {
	Checkout(ctx context.Context, req *models.CheckoutRequest) (*models.Checkout, error)
	ListOrders(ctx context.Context, status string) ([]models.Order, error)
	Approve(ctx context.Context, id uuid.UUID) (*models.Order, error)
	RecordLoyalty(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Reject(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderHandler represents HTTP handler for order-related requests
type OrderHandler struct {
	svc OrderService
}

// NewOrderHandler creates new OrderHandler instance
func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type cartLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type checkoutRequest struct {
	CustomerName         string            `json:"customer_name"`
	CustomerPhone        string            `json:"customer_phone"`
	DeliveryOption       string            `json:"delivery_option"`
	DeliveryAddress      string            `json:"delivery_address"`
	DeliveryCEP          string            `json:"delivery_cep"`
	DeliveryNeighborhood string            `json:"delivery_neighborhood"`
	Notes                string            `json:"notes"`
	Items                []cartLineRequest `json:"items"`
}

type checkoutResponse struct {
	OrderID     string  `json:"order_id"`
	SessionID   string  `json:"session_id"`
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"delivery_fee"`
	Total       float64 `json:"total"`
	WhatsAppURL string  `json:"whatsapp_url"`
}

// Checkout creates pending order and returns WhatsApp link to send it
// 201 — заказ создан;
// 400 — неверный формат запроса;
// 422 — неверные данные заказа;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req checkoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		sessionID := r.Header.Get(sessionHeader)
		if sessionID == "" {
			sessionID = uuid.New().String()
		}

		creq := models.CheckoutRequest{
			SessionID:            sessionID,
			CustomerName:         req.CustomerName,
			CustomerPhone:        req.CustomerPhone,
			DeliveryOption:       req.DeliveryOption,
			DeliveryAddress:      req.DeliveryAddress,
			DeliveryCEP:          req.DeliveryCEP,
			DeliveryNeighborhood: req.DeliveryNeighborhood,
			Notes:                req.Notes,
		}
		for _, item := range req.Items {
			creq.Lines = append(creq.Lines, models.CartLine{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}

		checkout, err := oh.svc.Checkout(r.Context(), &creq)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrMissingCustomer),
				errors.Is(err, models.ErrInvalidPhone),
				errors.Is(err, models.ErrMissingDelivery),
				errors.Is(err, models.ErrInvalidDeliveryOption),
				errors.Is(err, models.ErrEmptyCart),
				errors.Is(err, models.ErrInvalidQuantity),
				errors.Is(err, models.ErrUnknownProduct):
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set(sessionHeader, sessionID)
		writeJSON(w, http.StatusCreated, checkoutResponse{
			OrderID:     checkout.Order.ID.String(),
			SessionID:   sessionID,
			Subtotal:    checkout.Order.Subtotal,
			DeliveryFee: checkout.Order.DeliveryFee,
			Total:       checkout.Order.Total,
			WhatsAppURL: checkout.WhatsAppURL,
		})
	}
}

type orderItemResponse struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
}

// ListOrdersResp is an order as shown on the staff dashboard
type ListOrdersResp struct {
	ID              string              `json:"id"`
	CustomerName    string              `json:"customer_name"`
	CustomerPhone   string              `json:"customer_phone"`
	DeliveryOption  string              `json:"delivery_option"`
	Total           float64             `json:"total"`
	Status          string              `json:"status"`
	LoyaltyRecorded bool                `json:"loyalty_recorded"`
	TotalQuantity   int                 `json:"total_quantity"`
	CreatedAt       string              `json:"created_at"`
	Items           []orderItemResponse `json:"items"`
}

func newOrderResponse(o models.Order) ListOrdersResp {
	resp := ListOrdersResp{
		ID:              o.ID.String(),
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		DeliveryOption:  o.DeliveryOption,
		Total:           o.Total,
		Status:          o.Status,
		LoyaltyRecorded: o.LoyaltyRecorded,
		TotalQuantity:   o.TotalQuantity(),
		CreatedAt:       o.CreatedAt.Format(time.RFC3339),
		Items:           []orderItemResponse{},
	}
	for _, item := range o.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}
	return resp
}

// ListOrders returns orders filtered by ?status=
// 200 — успешная обработка запроса;
// 204 — нет данных для ответа;
// 401 — пользователь не авторизован;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireAdmin(w, r); !ok {
			return
		}

		orders, err := oh.svc.ListOrders(r.Context(), r.URL.Query().Get("status"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if len(orders) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		resp := make([]ListOrdersResp, 0, len(orders))
		for _, o := range orders {
			resp = append(resp, newOrderResponse(o))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// ApproveOrder approves order and credits loyalty points
// 200 — заказ подтверждён, баллы начислены;
// 400 — неверный идентификатор заказа;
// 401 — пользователь не авторизован;
// 404 — заказ не найден;
// 409 — заказ уже обработан;
// 422 — неверный номер телефона клиента;
// 500 — внутренняя ошибка сервера, в том числе заказ подтверждён, но баллы не начислены.
func (oh *OrderHandler) ApproveOrder() http.HandlerFunc {
	return oh.creditOrder(oh.svc.Approve)
}

// RecordOrderLoyalty retries crediting points of an approved order
// 200 — баллы начислены;
// 409 — заказ не подтверждён или баллы уже начислены;
// other codes as ApproveOrder.
func (oh *OrderHandler) RecordOrderLoyalty() http.HandlerFunc {
	return oh.creditOrder(oh.svc.RecordLoyalty)
}

func (oh *OrderHandler) creditOrder(creditFn func(ctx context.Context, id uuid.UUID) (*models.Order, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireAdmin(w, r); !ok {
			return
		}

		id, ok := orderID(w, r)
		if !ok {
			return
		}

		order, err := creditFn(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrOrderNotFound):
				http.Error(w, "order not found", http.StatusNotFound)
			case errors.Is(err, models.ErrOrderNotPending),
				errors.Is(err, models.ErrOrderNotApproved),
				errors.Is(err, models.ErrLoyaltyAlreadyRecorded):
				http.Error(w, err.Error(), http.StatusConflict)
			case errors.Is(err, models.ErrInvalidPhone):
				http.Error(w, "invalid customer phone number", http.StatusUnprocessableEntity)
			case errors.Is(err, models.ErrLoyaltyNotRecorded):
				http.Error(w, models.ErrLoyaltyNotRecorded.Error(), http.StatusInternalServerError)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, newOrderResponse(*order))
	}
}

// RejectOrder rejects pending order
// 200 — заказ отклонён;
// 400 — неверный идентификатор заказа;
// 401 — пользователь не авторизован;
// 404 — заказ не найден;
// 409 — заказ уже обработан;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) RejectOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireAdmin(w, r); !ok {
			return
		}

		id, ok := orderID(w, r)
		if !ok {
			return
		}

		if err := oh.svc.Reject(r.Context(), id); err != nil {
			switch {
			case errors.Is(err, models.ErrOrderNotFound):
				http.Error(w, "order not found", http.StatusNotFound)
			case errors.Is(err, models.ErrOrderNotPending):
				http.Error(w, "order is not pending", http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}

// DeleteOrder deletes order
// 200 — заказ удалён;
// 400 — неверный идентификатор заказа;
// 401 — пользователь не авторизован;
// 404 — заказ не найден;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) DeleteOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireAdmin(w, r); !ok {
			return
		}

		id, ok := orderID(w, r)
		if !ok {
			return
		}

		if err := oh.svc.Delete(r.Context(), id); err != nil {
			if errors.Is(err, models.ErrOrderNotFound) {
				http.Error(w, "order not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}

// orderID parses {id} url param, writes 400 on failure
func orderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

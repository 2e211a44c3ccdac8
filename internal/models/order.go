package models

import (
	"time"

	"github.com/google/uuid"
)

//pending — заказ отправлен через WhatsApp и ждёт подтверждения;
//approved — заказ подтверждён, за него начисляются баллы;
//rejected — заказ отклонён.

// order status
const (
	OrderStatusPending  = "pending"
	OrderStatusApproved = "approved"
	OrderStatusRejected = "rejected"
)

// delivery options
const (
	DeliveryPickup   = "pickup"
	DeliveryDelivery = "delivery"
)

// Order is order entity
type Order struct {
	ID                   uuid.UUID
	SessionID            string
	CustomerName         string
	CustomerPhone        string
	DeliveryOption       string
	DeliveryAddress      string
	DeliveryCEP          string
	DeliveryNeighborhood string
	Notes                string
	Subtotal             float64
	DeliveryFee          float64
	Total                float64
	Status               string
	LoyaltyRecorded      bool
	CreatedAt            time.Time
	Items                []OrderItem
}

// OrderItem is a priced order line
type OrderItem struct {
	ID          uint64
	OrderID     uuid.UUID
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   float64
	TotalPrice  float64
}

// TotalQuantity returns the number of loyalty points the order is worth.
// Lines without a usable quantity count as one item, and so does an empty order.
func (o Order) TotalQuantity() int {
	total := 0
	for _, item := range o.Items {
		if item.Quantity > 0 {
			total += item.Quantity
		} else {
			total++
		}
	}
	if total == 0 {
		return 1
	}
	return total
}

// CartLine is a product requested at checkout
type CartLine struct {
	ProductID string
	Quantity  int
}

// CheckoutRequest carries everything the storefront sends on checkout
type CheckoutRequest struct {
	SessionID            string
	CustomerName         string
	CustomerPhone        string
	DeliveryOption       string
	DeliveryAddress      string
	DeliveryCEP          string
	DeliveryNeighborhood string
	Notes                string
	Lines                []CartLine
}

// Checkout is a created order and the WhatsApp link that hands it over
type Checkout struct {
	Order       *Order
	WhatsAppURL string
}

// Product is catalog entry
type Product struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Price       float64 `yaml:"price"`
	Category    string  `yaml:"category"`
	ImageURL    string  `yaml:"image_url"`
	Active      bool    `yaml:"active"`
}

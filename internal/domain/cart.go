package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem snapshots the product at the moment it was added. Later product
// edits never reach an existing cart line.
type CartItem struct {
	ProductID   string          `json:"product"`
	Quantity    int             `json:"quantity"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Images      []Image         `json:"images"`
	Price       decimal.Decimal `json:"price"`
}

type Cart struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Items     []CartItem `json:"items"`
	ExpiresAt time.Time  `json:"expiresAt"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (c *Cart) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && c.ExpiresAt.Before(now)
}

// Item returns the index of the line for productID, or -1.
func (c *Cart) Item(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// OrderItem keeps price and purchasedPrice as separate fields; checkout sets
// both from the cart snapshot.
type OrderItem struct {
	ProductID      string          `json:"product"`
	Quantity       int             `json:"quantity"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Images         []Image         `json:"images"`
	Price          decimal.Decimal `json:"price"`
	PurchasedPrice decimal.Decimal `json:"purchasedPrice"`
}

type Order struct {
	ID               string          `json:"id"`
	UserID           string          `json:"userId"`
	Items            []OrderItem     `json:"items"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	Status           OrderStatus     `json:"status"`
	DeliveryLocation string          `json:"deliveryLocation"`
	PhoneNumber      string          `json:"phoneNumber"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// OrderFilter narrows the admin order listing. Empty fields match everything.
type OrderFilter struct {
	Status OrderStatus
	Search string
}

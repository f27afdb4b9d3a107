package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"samtech/internal/domain"
	"samtech/internal/validate"
)

type CheckoutInput struct {
	UserID           string
	CartID           string
	DeliveryLocation string
	PhoneNumber      string
}

type OrderService struct {
	Carts  CartStore
	Orders OrderStore
	Now    func() time.Time
}

func NewOrderService(carts CartStore, orders OrderStore) *OrderService {
	return &OrderService{Carts: carts, Orders: orders}
}

// Checkout turns the user's cart into a pending order and deletes the cart.
func (s *OrderService) Checkout(ctx context.Context, in CheckoutInput) (domain.Order, error) {
	phone, ok := validate.Phone(in.PhoneNumber)
	if !ok {
		return domain.Order{}, domain.Invalid("phone number is required")
	}
	location, ok := validate.MapLink(in.DeliveryLocation)
	if !ok {
		return domain.Order{}, domain.Invalid("delivery location must be a Google Maps link")
	}
	if in.UserID == "" || in.CartID == "" {
		return domain.Order{}, domain.Invalid("userId and cartId are required")
	}

	now := clock(s.Now)
	cart, err := s.Carts.GetByUser(ctx, in.UserID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("cart: %w", err)
	}
	if cart.ID != in.CartID || cart.Expired(now) {
		return domain.Order{}, fmt.Errorf("cart %s: %w", in.CartID, domain.ErrNotFound)
	}
	if len(cart.Items) == 0 {
		return domain.Order{}, domain.ErrEmptyCart
	}

	order := domain.Order{
		ID:               uuid.NewString(),
		UserID:           in.UserID,
		Items:            make([]domain.OrderItem, 0, len(cart.Items)),
		TotalAmount:      decimal.Zero,
		Status:           domain.StatusPending,
		DeliveryLocation: location,
		PhoneNumber:      phone,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	for _, it := range cart.Items {
		order.TotalAmount = order.TotalAmount.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:      it.ProductID,
			Quantity:       it.Quantity,
			Title:          it.Title,
			Description:    it.Description,
			Images:         it.Images,
			Price:          it.Price,
			PurchasedPrice: it.Price,
		})
	}
	if err := s.Orders.PlaceFromCart(ctx, &order, cart.ID); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func (s *OrderService) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.Orders.ListByUser(ctx, userID)
}

func (s *OrderService) Get(ctx context.Context, id string) (domain.Order, error) {
	return s.Orders.Get(ctx, id)
}

// List is the admin listing; an unknown status filter is a validation error.
func (s *OrderService) List(ctx context.Context, status, search string) ([]domain.Order, error) {
	f := domain.OrderFilter{Search: strings.TrimSpace(search)}
	if status != "" {
		st := domain.OrderStatus(strings.ToLower(strings.TrimSpace(status)))
		if !st.Valid() {
			return nil, domain.Invalid("unknown status %q", status)
		}
		f.Status = st
	}
	return s.Orders.List(ctx, f)
}

// UpdateStatus sets any status from the fixed set; items and totals never change.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) (domain.Order, error) {
	st := domain.OrderStatus(strings.ToLower(strings.TrimSpace(status)))
	if !st.Valid() {
		return domain.Order{}, domain.Invalid("unknown status %q", status)
	}
	return s.Orders.UpdateStatus(ctx, orderID, st)
}

func (s *OrderService) Delete(ctx context.Context, orderID string) error {
	return s.Orders.Delete(ctx, orderID)
}

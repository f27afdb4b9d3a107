package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"samtech/internal/domain"
	applog "samtech/internal/log"
)

const DefaultCartTTL = 30 * 24 * time.Hour

// CartService mutates per-user carts. Each mutation is a read-modify-write of
// the whole cart document; concurrent adds for one user are last-write-wins.
type CartService struct {
	Carts    CartStore
	Products ProductStore
	TTL      time.Duration
	Now      func() time.Time
}

func NewCartService(carts CartStore, products ProductStore, ttl time.Duration) *CartService {
	if ttl <= 0 {
		ttl = DefaultCartTTL
	}
	return &CartService{Carts: carts, Products: products, TTL: ttl}
}

// load returns the user's live cart. An expired cart the sweeper has not
// reached yet is removed and reported as absent.
func (s *CartService) load(ctx context.Context, userID string) (domain.Cart, error) {
	cart, err := s.Carts.GetByUser(ctx, userID)
	if err != nil {
		return domain.Cart{}, err
	}
	if cart.Expired(clock(s.Now)) {
		if err := s.Carts.Delete(ctx, cart.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			applog.Error(nil, "cart.expired.delete.fail", err, map[string]any{"cart_id": cart.ID})
		}
		return domain.Cart{}, domain.ErrNotFound
	}
	return cart, nil
}

func (s *CartService) touch(c *domain.Cart) {
	now := clock(s.Now)
	c.UpdatedAt = now
	c.ExpiresAt = now.Add(s.TTL)
}

func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (domain.Cart, error) {
	if userID == "" || productID == "" {
		return domain.Cart{}, domain.Invalid("userId and productId are required")
	}
	if quantity < 1 {
		return domain.Cart{}, domain.Invalid("quantity must be at least 1")
	}
	product, err := s.Products.Get(ctx, productID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("product %s: %w", productID, err)
	}

	cart, err := s.load(ctx, userID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		cart = domain.Cart{ID: uuid.NewString(), UserID: userID, Items: []domain.CartItem{}, CreatedAt: clock(s.Now)}
	case err != nil:
		return domain.Cart{}, err
	}

	if i := cart.Item(productID); i >= 0 {
		cart.Items[i].Quantity += quantity
	} else {
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID:   product.ID,
			Quantity:    quantity,
			Title:       product.Title,
			Description: product.Description,
			Images:      append([]domain.Image(nil), product.Images...),
			Price:       product.Price,
		})
	}
	s.touch(&cart)
	if err := s.Carts.Save(ctx, &cart); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

// GetCart never reports a missing cart; it returns an empty one instead.
func (s *CartService) GetCart(ctx context.Context, userID string) (domain.Cart, error) {
	cart, err := s.load(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Cart{UserID: userID, Items: []domain.CartItem{}}, nil
	}
	return cart, err
}

// RemoveItem is idempotent for products not in the cart; only a missing cart
// is an error.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (domain.Cart, error) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("cart: %w", err)
	}
	i := cart.Item(productID)
	if i < 0 {
		return cart, nil
	}
	cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
	s.touch(&cart)
	if err := s.Carts.Save(ctx, &cart); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

func (s *CartService) SetQuantity(ctx context.Context, userID, productID string, quantity int) (domain.Cart, error) {
	if quantity < 1 {
		return domain.Cart{}, domain.Invalid("quantity must be at least 1")
	}
	cart, err := s.load(ctx, userID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("cart: %w", err)
	}
	i := cart.Item(productID)
	if i < 0 {
		return domain.Cart{}, fmt.Errorf("cart item %s: %w", productID, domain.ErrNotFound)
	}
	cart.Items[i].Quantity = quantity
	s.touch(&cart)
	if err := s.Carts.Save(ctx, &cart); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

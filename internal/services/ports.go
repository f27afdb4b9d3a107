package services

import (
	"context"
	"time"

	"samtech/internal/domain"
)

// Store ports. SQLite (internal/repos) and MongoDB (internal/repos/mongostore)
// both satisfy them; lookups of unknown ids return domain.ErrNotFound.

type ProductStore interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (domain.Product, error)
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
}

type CartStore interface {
	GetByUser(ctx context.Context, userID string) (domain.Cart, error)
	Save(ctx context.Context, c *domain.Cart) error
	Delete(ctx context.Context, id string) error
	RemoveProduct(ctx context.Context, productID string) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type OrderStore interface {
	PlaceFromCart(ctx context.Context, o *domain.Order, cartID string) error
	Get(ctx context.Context, id string) (domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	List(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error)
	Delete(ctx context.Context, id string) error
}

type EventStore interface {
	List(ctx context.Context) ([]domain.Event, error)
	Get(ctx context.Context, id string) (domain.Event, error)
	Create(ctx context.Context, e *domain.Event) error
	Update(ctx context.Context, e *domain.Event) error
	Delete(ctx context.Context, id string) error
}

type BlogStore interface {
	List(ctx context.Context) ([]domain.Blog, error)
	Get(ctx context.Context, id string) (domain.Blog, error)
	Create(ctx context.Context, b *domain.Blog) error
	Update(ctx context.Context, b *domain.Blog) error
	Delete(ctx context.Context, id string) error
}

type CareerStore interface {
	List(ctx context.Context) ([]domain.Career, error)
	Get(ctx context.Context, id string) (domain.Career, error)
	Create(ctx context.Context, c *domain.Career) error
	Update(ctx context.Context, c *domain.Career) error
	Delete(ctx context.Context, id string) error
}

type MessageStore interface {
	List(ctx context.Context, search string) ([]domain.Message, error)
	Get(ctx context.Context, id string) (domain.Message, error)
	Create(ctx context.Context, m *domain.Message) error
	MarkRead(ctx context.Context, id string) (domain.Message, error)
	Delete(ctx context.Context, id string) error
}

type CustomerStore interface {
	Create(ctx context.Context, c *domain.Customer) error
	Get(ctx context.Context, id string) (domain.Customer, error)
	ByEmail(ctx context.Context, email string) (domain.Customer, error)
	Update(ctx context.Context, c *domain.Customer) error
	SetPassword(ctx context.Context, id, hash string) error
}

type AdminStore interface {
	Create(ctx context.Context, a *domain.Admin) error
	Get(ctx context.Context, id string) (domain.Admin, error)
	ByUsername(ctx context.Context, username string) (domain.Admin, error)
	SetPassword(ctx context.Context, id, hash string) error
}

// Stores bundles one backend's implementations for wiring.
type Stores struct {
	Products  ProductStore
	Carts     CartStore
	Orders    OrderStore
	Events    EventStore
	Blogs     BlogStore
	Careers   CareerStore
	Messages  MessageStore
	Customers CustomerStore
	Admins    AdminStore
}

func clock(now func() time.Time) time.Time {
	if now != nil {
		return now()
	}
	return time.Now()
}

package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samtech/internal/domain"
	"samtech/internal/services"
)

const mapsLink = "https://maps.app.goo.gl/abc123"

func checkoutFixture(t *testing.T) (services.Stores, *services.CartService, *services.OrderService, domain.Cart) {
	t.Helper()
	st := newStores(t)
	a := seedProduct(t, st, "a", "10.00")
	b := seedProduct(t, st, "b", "5.50")
	carts := services.NewCartService(st.Carts, st.Products, 0)
	orders := services.NewOrderService(st.Carts, st.Orders)
	ctx := context.Background()

	_, err := carts.AddItem(ctx, "u1", a.ID, 2)
	require.NoError(t, err)
	cart, err := carts.AddItem(ctx, "u1", b.ID, 1)
	require.NoError(t, err)
	return st, carts, orders, cart
}

func TestCheckoutTotalsAndDeletesCart(t *testing.T) {
	st, carts, orders, cart := checkoutFixture(t)
	ctx := context.Background()

	order, err := orders.Checkout(ctx, services.CheckoutInput{
		UserID: "u1", CartID: cart.ID, DeliveryLocation: mapsLink, PhoneNumber: "+15550100",
	})
	require.NoError(t, err)

	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("25.50")), order.TotalAmount.String())
	assert.Equal(t, domain.StatusPending, order.Status)
	require.Len(t, order.Items, 2)
	for _, it := range order.Items {
		assert.True(t, it.Price.Equal(it.PurchasedPrice))
	}

	_, err = st.Carts.GetByUser(ctx, "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound, "cart must be gone after checkout")

	empty, err := carts.GetCart(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, empty.Items)

	mine, err := orders.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, order.ID, mine[0].ID)
	assert.True(t, mine[0].TotalAmount.Equal(order.TotalAmount))
}

func TestCheckoutRejectsBadInput(t *testing.T) {
	st, _, orders, cart := checkoutFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   services.CheckoutInput
	}{
		{"not a maps link", services.CheckoutInput{UserID: "u1", CartID: cart.ID, DeliveryLocation: "https://example.com/x", PhoneNumber: "1"}},
		{"missing phone", services.CheckoutInput{UserID: "u1", CartID: cart.ID, DeliveryLocation: mapsLink}},
		{"missing cart id", services.CheckoutInput{UserID: "u1", DeliveryLocation: mapsLink, PhoneNumber: "1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := orders.Checkout(ctx, tc.in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	_, err := orders.Checkout(ctx, services.CheckoutInput{UserID: "u1", CartID: "other", DeliveryLocation: mapsLink, PhoneNumber: "1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = st.Carts.GetByUser(ctx, "u1")
	assert.NoError(t, err, "failed checkout keeps the cart")
}

func TestCheckoutEmptyCart(t *testing.T) {
	st := newStores(t)
	ctx := context.Background()
	cart := domain.Cart{ID: "c1", UserID: "u1", Items: []domain.CartItem{}}
	require.NoError(t, st.Carts.Save(ctx, &cart))

	orders := services.NewOrderService(st.Carts, st.Orders)
	_, err := orders.Checkout(ctx, services.CheckoutInput{UserID: "u1", CartID: "c1", DeliveryLocation: mapsLink, PhoneNumber: "1"})
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateStatus(t *testing.T) {
	_, _, orders, cart := checkoutFixture(t)
	ctx := context.Background()
	order, err := orders.Checkout(ctx, services.CheckoutInput{UserID: "u1", CartID: cart.ID, DeliveryLocation: mapsLink, PhoneNumber: "1"})
	require.NoError(t, err)

	_, err = orders.UpdateStatus(ctx, order.ID, "teleported")
	assert.ErrorIs(t, err, domain.ErrValidation)
	got, err := orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)

	updated, err := orders.UpdateStatus(ctx, order.ID, "Shipped")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, updated.Status)
	assert.True(t, updated.TotalAmount.Equal(order.TotalAmount))
	assert.Len(t, updated.Items, 2)

	_, err = orders.UpdateStatus(ctx, "missing", "shipped")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := orders.List(ctx, "shipped", "")
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = orders.List(ctx, "pending", "")
	require.NoError(t, err)
	assert.Empty(t, list)
	_, err = orders.List(ctx, "bogus", "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, orders.Delete(ctx, order.ID))
	assert.ErrorIs(t, orders.Delete(ctx, order.ID), domain.ErrNotFound)
}

package apitest_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Limpan89/storefront/internal/api"
	"github.com/Limpan89/storefront/internal/apitest"
)

// Two carts can each reserve within stock, but checkout re-validates: the
// slower buyer is declined with a business outcome, not an error.
func TestCheckoutRevalidatesStock(t *testing.T) {
	backend := apitest.New()
	backend.SeedProduct(1, "Notebook", "", "4.00", 5)
	ann := backend.SeedUser("ann", "ann@example.com")
	bob := backend.SeedUser("bob", "bob@example.com")

	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)
	c := api.New(srv.URL, 5*time.Second, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, c.AddToCart(ctx, ann.ID, api.AddToCartRequest{ProductID: 1, Quantity: 5}))
	require.NoError(t, c.AddToCart(ctx, bob.ID, api.AddToCartRequest{ProductID: 1, Quantity: 5}))

	first, err := c.Checkout(ctx, ann.ID)
	require.NoError(t, err)
	assert.True(t, first.Success)
	assert.Equal(t, 0, backend.Stock(1))

	second, err := c.Checkout(ctx, bob.ID)
	require.NoError(t, err)
	assert.False(t, second.Success)
	assert.Equal(t, "Some items out of stock", second.Message)

	// Bob's cart is left untouched by the declined checkout.
	items, err := c.GetCart(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCheckoutOnEmptyCartIsDeclined(t *testing.T) {
	backend := apitest.New()
	ann := backend.SeedUser("ann", "ann@example.com")
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)
	c := api.New(srv.URL, 5*time.Second, zerolog.Nop())

	res, err := c.Checkout(context.Background(), ann.ID)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Cart is empty", res.Message)
}

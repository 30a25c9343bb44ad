package ui

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Limpan89/storefront/internal/api"
)

func stockedProduct(stock int) api.Product {
	return api.Product{ID: 1, Name: "Notebook", Price: decimal.RequireFromString("4.25"), Stock: stock}
}

// loadedProductPage returns a detail page in the loaded state for a signed-in
// user with the quantity field blanked.
func loadedProductPage(t *testing.T, backend *fakeBackend, stock int) productPage {
	t.Helper()
	backend.GetProductFn = func(id int64) (api.Product, error) { return stockedProduct(stock), nil }
	p := newProductPage(identifiedEnv(t, backend, 7), 1)
	m, _ := p.Update(p.Init()())
	p = m.(productPage)
	require.Equal(t, productLoaded, p.phase)
	p.qtyInput = ""
	return p
}

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"   ", 1},
		{"abc", 1},
		{"3", 3},
		{" 4 ", 4},
		{"2.9", 2},   // truncates toward zero
		{"-1.5", -1}, // truncates toward zero, then fails the >0 guard
		{"0", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, parseQuantity(tc.raw), "raw %q", tc.raw)
	}
}

func TestQuantityEqualToStockIsAccepted(t *testing.T) {
	backend := newFakeBackend()
	var got api.AddToCartRequest
	backend.AddToCartFn = func(userID int64, req api.AddToCartRequest) error {
		got = req
		return nil
	}
	p := loadedProductPage(t, backend, 5)
	p = typeString(p, "5").(productPage)

	m, cmd := p.Update(enterKey)
	p = m.(productPage)
	require.NotNil(t, cmd)
	assert.Empty(t, p.banner)

	m, _ = p.Update(cmd())
	p = m.(productPage)
	assert.Equal(t, 1, backend.calls["AddToCart"])
	assert.Equal(t, api.AddToCartRequest{ProductID: 1, Quantity: 5}, got)
	assert.Equal(t, "Added to cart", p.banner)
	assert.False(t, p.bannerErr)
}

func TestQuantityOverStockFailsBeforeNetwork(t *testing.T) {
	backend := newFakeBackend()
	p := loadedProductPage(t, backend, 5)
	p = typeString(p, "6").(productPage)

	m, cmd := p.Update(enterKey)
	p = m.(productPage)
	assert.Nil(t, cmd)
	assert.Equal(t, "Only 5 items available in stock", p.banner)
	assert.True(t, p.bannerErr)
	assert.Zero(t, backend.calls["AddToCart"])
}

func TestQuantityZeroFailsBeforeNetwork(t *testing.T) {
	backend := newFakeBackend()
	p := loadedProductPage(t, backend, 5)
	p = typeString(p, "0").(productPage)

	m, cmd := p.Update(enterKey)
	p = m.(productPage)
	assert.Nil(t, cmd)
	assert.Equal(t, "Quantity must be greater than 0", p.banner)
	assert.Zero(t, backend.calls["AddToCart"])
}

func TestNonNumericQuantityNormalizesToOne(t *testing.T) {
	backend := newFakeBackend()
	var got api.AddToCartRequest
	backend.AddToCartFn = func(userID int64, req api.AddToCartRequest) error {
		got = req
		return nil
	}
	p := loadedProductPage(t, backend, 5)
	p = typeString(p, "abc").(productPage)

	m, cmd := p.Update(enterKey)
	p = m.(productPage)
	require.NotNil(t, cmd)
	assert.Equal(t, "1", p.qtyInput, "input self-corrects silently")

	_, _ = p.Update(cmd())
	assert.Equal(t, 1, got.Quantity)
}

func TestAddToCartServerErrorShownVerbatim(t *testing.T) {
	backend := newFakeBackend()
	backend.AddToCartFn = func(userID int64, req api.AddToCartRequest) error {
		return &api.APIError{Kind: api.KindHTTP, Status: 409, Message: "Insufficient stock"}
	}
	p := loadedProductPage(t, backend, 5)
	p = typeString(p, "2").(productPage)

	m, cmd := p.Update(enterKey)
	p = m.(productPage)
	require.NotNil(t, cmd)

	m, _ = p.Update(cmd())
	p = m.(productPage)
	assert.Equal(t, "Insufficient stock", p.banner)
	assert.True(t, p.bannerErr)
}

func TestNewAttemptClearsPreviousBanner(t *testing.T) {
	backend := newFakeBackend()
	backend.AddToCartFn = func(userID int64, req api.AddToCartRequest) error { return nil }
	p := loadedProductPage(t, backend, 5)

	// First attempt fails a guard and leaves an error banner.
	p = typeString(p, "9").(productPage)
	m, _ := p.Update(enterKey)
	p = m.(productPage)
	require.NotEmpty(t, p.banner)

	// The next attempt clears it before its own result arrives.
	p.qtyInput = "2"
	m, cmd := p.Update(enterKey)
	p = m.(productPage)
	require.NotNil(t, cmd)
	assert.Empty(t, p.banner)
}

func TestSuccessBannerAutoClears(t *testing.T) {
	backend := newFakeBackend()
	backend.AddToCartFn = func(userID int64, req api.AddToCartRequest) error { return nil }
	p := loadedProductPage(t, backend, 5)
	p = typeString(p, "1").(productPage)

	m, cmd := p.Update(enterKey)
	p = m.(productPage)
	m, _ = p.Update(cmd())
	p = m.(productPage)
	require.Equal(t, "Added to cart", p.banner)

	// A stale clear tick from an earlier banner does nothing.
	m, _ = p.Update(bannerClearMsg{seq: p.bannerSeq - 1})
	p = m.(productPage)
	assert.Equal(t, "Added to cart", p.banner)

	m, _ = p.Update(bannerClearMsg{seq: p.bannerSeq})
	p = m.(productPage)
	assert.Empty(t, p.banner)
}

func TestDetailFetchErrorRoutesBack(t *testing.T) {
	backend := newFakeBackend()
	backend.GetProductFn = func(id int64) (api.Product, error) {
		return api.Product{}, &api.APIError{Kind: api.KindHTTP, Status: 404, Message: "product not found"}
	}
	p := newProductPage(identifiedEnv(t, backend, 7), 1)
	m, _ := p.Update(p.Init()())
	p = m.(productPage)
	assert.Equal(t, productFailed, p.phase)
	assert.Equal(t, "product not found", p.errMsg)

	// No retry on the detail page; esc is the only way out.
	_, cmd := p.Update(escKey)
	require.NotNil(t, cmd)
	assert.Equal(t, navMsg{to: routeProducts}, cmd())
}

func TestAnonymousSubmitGoesToRegister(t *testing.T) {
	backend := newFakeBackend()
	backend.GetProductFn = func(id int64) (api.Product, error) { return stockedProduct(5), nil }
	p := newProductPage(anonymousEnv(t, backend), 1)
	m, _ := p.Update(p.Init()())
	p = m.(productPage)

	_, cmd := p.Update(enterKey)
	require.NotNil(t, cmd)
	assert.Equal(t, navMsg{to: routeRegister}, cmd())
	assert.Zero(t, backend.calls["AddToCart"])
}

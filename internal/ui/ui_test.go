package ui

import (
	"context"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Limpan89/storefront/internal/api"
	"github.com/Limpan89/storefront/internal/session"
)

// fakeBackend stubs the API client per call, counting invocations.
type fakeBackend struct {
	ListProductsFn   func() ([]api.Product, error)
	GetProductFn     func(id int64) (api.Product, error)
	CreateUserFn     func(req api.CreateUserRequest) (api.User, error)
	GetCartFn        func(userID int64) ([]api.CartItem, error)
	AddToCartFn      func(userID int64, req api.AddToCartRequest) error
	RemoveFromCartFn func(userID, productID int64) error
	CheckoutFn       func(userID int64) (api.CheckoutResult, error)

	calls map[string]int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{calls: map[string]int{}}
}

func (f *fakeBackend) ListProducts(context.Context) ([]api.Product, error) {
	f.calls["ListProducts"]++
	return f.ListProductsFn()
}

func (f *fakeBackend) GetProduct(_ context.Context, id int64) (api.Product, error) {
	f.calls["GetProduct"]++
	return f.GetProductFn(id)
}

func (f *fakeBackend) CreateUser(_ context.Context, req api.CreateUserRequest) (api.User, error) {
	f.calls["CreateUser"]++
	return f.CreateUserFn(req)
}

func (f *fakeBackend) GetCart(_ context.Context, userID int64) ([]api.CartItem, error) {
	f.calls["GetCart"]++
	return f.GetCartFn(userID)
}

func (f *fakeBackend) AddToCart(_ context.Context, userID int64, req api.AddToCartRequest) error {
	f.calls["AddToCart"]++
	return f.AddToCartFn(userID, req)
}

func (f *fakeBackend) RemoveFromCart(_ context.Context, userID, productID int64) error {
	f.calls["RemoveFromCart"]++
	return f.RemoveFromCartFn(userID, productID)
}

func (f *fakeBackend) Checkout(_ context.Context, userID int64) (api.CheckoutResult, error) {
	f.calls["Checkout"]++
	return f.CheckoutFn(userID)
}

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	db, err := session.Open(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	s, err := session.New(context.Background(), session.NewStore(db))
	require.NoError(t, err)
	return s
}

func anonymousEnv(t *testing.T, backend Backend) Env {
	t.Helper()
	return Env{Backend: backend, Session: newTestSession(t), Log: zerolog.Nop()}
}

func identifiedEnv(t *testing.T, backend Backend, userID int64) Env {
	t.Helper()
	env := anonymousEnv(t, backend)
	require.NoError(t, env.Session.SetUserID(context.Background(), userID))
	return env
}

// emptyErr is an error whose message is empty, to exercise the per-call-site
// fallback strings.
type emptyErr struct{}

func (emptyErr) Error() string { return "" }

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
	downKey  = tea.KeyMsg{Type: tea.KeyDown}
)

// typeString feeds a string rune by rune through Update.
func typeString(m tea.Model, s string) tea.Model {
	for _, r := range s {
		m, _ = m.Update(key(r))
	}
	return m
}

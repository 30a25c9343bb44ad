// Package ui holds the storefront pages. Each page is a bubbletea model; its
// Update function is the page's state machine and is tested without any
// rendering. The App model routes between pages and owns nothing else.
package ui

import (
	"context"

	"github.com/rs/zerolog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Limpan89/storefront/internal/api"
	"github.com/Limpan89/storefront/internal/session"
)

// Backend is the slice of the API client the pages use.
type Backend interface {
	ListProducts(ctx context.Context) ([]api.Product, error)
	GetProduct(ctx context.Context, id int64) (api.Product, error)
	CreateUser(ctx context.Context, req api.CreateUserRequest) (api.User, error)
	GetCart(ctx context.Context, userID int64) ([]api.CartItem, error)
	AddToCart(ctx context.Context, userID int64, req api.AddToCartRequest) error
	RemoveFromCart(ctx context.Context, userID, productID int64) error
	Checkout(ctx context.Context, userID int64) (api.CheckoutResult, error)
}

// Env is what every page needs: the backend, the session identity and a
// logger.
type Env struct {
	Backend Backend
	Session *session.Session
	Log     zerolog.Logger
}

type route int

const (
	routeProducts route = iota
	routeProduct
	routeCart
	routeRegister
)

// navMsg asks the App to switch pages.
type navMsg struct {
	to        route
	productID int64
}

func navigate(to route) tea.Cmd {
	return func() tea.Msg { return navMsg{to: to} }
}

func navigateProduct(id int64) tea.Cmd {
	return func() tea.Msg { return navMsg{to: routeProduct, productID: id} }
}

// App routes between pages. Results of in-flight commands that belong to a
// page no longer shown land in a page that does not recognize them and are
// dropped; nothing is cancelled.
type App struct {
	env  Env
	page tea.Model
}

func NewApp(env Env) App {
	return App{env: env, page: newProductsPage(env)}
}

func (a App) Init() tea.Cmd {
	return a.page.Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
	case navMsg:
		switch msg.to {
		case routeProducts:
			a.page = newProductsPage(a.env)
		case routeProduct:
			a.page = newProductPage(a.env, msg.productID)
		case routeCart:
			// An anonymous visitor heading for the cart goes straight to
			// registration; no cart fetch is ever issued.
			if _, ok := a.env.Session.UserID(); !ok {
				a.page = newRegisterPage(a.env)
			} else {
				a.page = newCartPage(a.env)
			}
		case routeRegister:
			a.page = newRegisterPage(a.env)
		}
		return a, a.page.Init()
	}
	page, cmd := a.page.Update(msg)
	a.page = page
	return a, cmd
}

func (a App) View() string {
	header := "storefront"
	if id, ok := a.env.Session.UserID(); ok {
		header += "  ·  signed in as user #" + itoa(id)
	} else {
		header += "  ·  browsing anonymously"
	}
	return header + "\n\n" + a.page.View()
}

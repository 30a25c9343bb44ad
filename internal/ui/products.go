package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Limpan89/storefront/internal/api"
)

type productsPhase int

const (
	productsLoading productsPhase = iota
	productsLoaded
	productsEmpty
	productsFailed
)

// productsPage is the catalog listing, the app's home page. It is the only
// page with a manual retry.
type productsPage struct {
	env      Env
	phase    productsPhase
	products []api.Product
	errMsg   string
	cursor   int
}

type productsFetchedMsg struct {
	products []api.Product
	err      error
}

func newProductsPage(env Env) productsPage {
	return productsPage{env: env, phase: productsLoading}
}

func (p productsPage) Init() tea.Cmd {
	return p.fetchCmd()
}

func (p productsPage) fetchCmd() tea.Cmd {
	backend := p.env.Backend
	return func() tea.Msg {
		products, err := backend.ListProducts(context.Background())
		return productsFetchedMsg{products: products, err: err}
	}
}

func (p productsPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case productsFetchedMsg:
		if msg.err != nil {
			p.phase = productsFailed
			p.errMsg = errorMessage(msg.err, "Failed to load products")
			p.env.Log.Warn().Str("error", p.errMsg).Msg("product list fetch failed")
			return p, nil
		}
		if len(msg.products) == 0 {
			p.phase = productsEmpty
			return p, nil
		}
		p.phase = productsLoaded
		p.products = msg.products
		if p.cursor >= len(p.products) {
			p.cursor = len(p.products) - 1
		}
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			return p, tea.Quit
		case "r":
			if p.phase == productsFailed {
				p.phase = productsLoading
				p.errMsg = ""
				return p, p.fetchCmd()
			}
		case "up":
			if p.phase == productsLoaded && p.cursor > 0 {
				p.cursor--
			}
		case "down":
			if p.phase == productsLoaded && p.cursor < len(p.products)-1 {
				p.cursor++
			}
		case "enter":
			if p.phase == productsLoaded {
				return p, navigateProduct(p.products[p.cursor].ID)
			}
		case "c":
			return p, navigate(routeCart)
		case "s":
			if _, ok := p.env.Session.UserID(); !ok {
				return p, navigate(routeRegister)
			}
		case "l":
			if _, ok := p.env.Session.UserID(); ok {
				if err := p.env.Session.Clear(context.Background()); err != nil {
					p.env.Log.Error().Err(err).Msg("logout failed")
				}
			}
		}
	}
	return p, nil
}

func (p productsPage) View() string {
	b := &strings.Builder{}
	fmt.Fprintln(b, "Products")
	fmt.Fprintln(b, "")
	switch p.phase {
	case productsLoading:
		fmt.Fprintln(b, "Loading products...")
	case productsFailed:
		fmt.Fprintf(b, "Error: %s\n\nPress r to retry\n", p.errMsg)
	case productsEmpty:
		fmt.Fprintln(b, "No products available yet. Check back soon!")
	case productsLoaded:
		for i, prod := range p.products {
			marker := " "
			if i == p.cursor {
				marker = ">"
			}
			fmt.Fprintf(b, " %s %s  %s  (%d in stock)\n", marker, prod.Name, money(prod.Price), prod.Stock)
		}
	}
	fmt.Fprintln(b, "")
	_, signedIn := p.env.Session.UserID()
	if signedIn {
		fmt.Fprintln(b, "enter view item · c cart · l log out · q quit")
	} else {
		fmt.Fprintln(b, "enter view item · s sign up to shop · q quit")
	}
	return b.String()
}

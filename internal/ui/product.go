package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Limpan89/storefront/internal/api"
)

type productPhase int

const (
	productLoading productPhase = iota
	productLoaded
	productFailed
)

// productPage is the product detail view with the quantity input and the
// add-to-cart action. Quantity guards run before any request is issued; the
// server still re-validates.
type productPage struct {
	env       Env
	productID int64
	phase     productPhase
	product   api.Product
	errMsg    string

	qtyInput string

	banner    string
	bannerErr bool
	bannerSeq int
}

type productFetchedMsg struct {
	product api.Product
	err     error
}

type addToCartDoneMsg struct {
	err error
}

type bannerClearMsg struct {
	seq int
}

func newProductPage(env Env, productID int64) productPage {
	return productPage{env: env, productID: productID, phase: productLoading, qtyInput: "1"}
}

func (p productPage) Init() tea.Cmd {
	backend := p.env.Backend
	id := p.productID
	return func() tea.Msg {
		product, err := backend.GetProduct(context.Background(), id)
		return productFetchedMsg{product: product, err: err}
	}
}

// parseQuantity normalizes raw input: empty or non-numeric becomes 1, and
// decimals truncate toward zero. Guards run on the normalized value.
func parseQuantity(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 1
	}
	return int(f)
}

func (p productPage) addCmd(qty int) tea.Cmd {
	backend := p.env.Backend
	userID, _ := p.env.Session.UserID()
	productID := p.productID
	return func() tea.Msg {
		err := backend.AddToCart(context.Background(), userID, api.AddToCartRequest{
			ProductID: productID,
			Quantity:  qty,
		})
		return addToCartDoneMsg{err: err}
	}
}

func (p productPage) clearBannerCmd() tea.Cmd {
	seq := p.bannerSeq
	return tea.Tick(bannerTTL, func(time.Time) tea.Msg {
		return bannerClearMsg{seq: seq}
	})
}

func (p productPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case productFetchedMsg:
		if msg.err != nil {
			p.phase = productFailed
			p.errMsg = errorMessage(msg.err, "Failed to load product")
			return p, nil
		}
		p.phase = productLoaded
		p.product = msg.product
		return p, nil

	case addToCartDoneMsg:
		if msg.err != nil {
			p.banner = errorMessage(msg.err, "Failed to add to cart")
			p.bannerErr = true
			return p, nil
		}
		p.banner = "Added to cart"
		p.bannerErr = false
		p.bannerSeq++
		return p, p.clearBannerCmd()

	case bannerClearMsg:
		// Only the newest success banner owns its clear tick.
		if msg.seq == p.bannerSeq && !p.bannerErr {
			p.banner = ""
		}
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return p, navigate(routeProducts)
		case "enter":
			return p.submit()
		case "backspace":
			if p.phase == productLoaded && len(p.qtyInput) > 0 {
				p.qtyInput = p.qtyInput[:len(p.qtyInput)-1]
			}
		default:
			if p.phase == productLoaded && len(msg.Runes) == 1 && len(p.qtyInput) < 8 {
				p.qtyInput += string(msg.Runes)
			}
		}
	}
	return p, nil
}

// submit runs the guards and, if they pass, fires the add-to-cart request.
// Every attempt clears the previous banner first so stale text never lingers
// next to a new outcome.
func (p productPage) submit() (tea.Model, tea.Cmd) {
	if p.phase != productLoaded {
		return p, nil
	}
	if _, ok := p.env.Session.UserID(); !ok {
		return p, navigate(routeRegister)
	}

	p.banner = ""
	p.bannerErr = false

	qty := parseQuantity(p.qtyInput)
	p.qtyInput = strconv.Itoa(qty)
	if qty <= 0 {
		p.banner = "Quantity must be greater than 0"
		p.bannerErr = true
		return p, nil
	}
	if qty > p.product.Stock {
		p.banner = fmt.Sprintf("Only %d items available in stock", p.product.Stock)
		p.bannerErr = true
		return p, nil
	}
	return p, p.addCmd(qty)
}

func (p productPage) View() string {
	b := &strings.Builder{}
	switch p.phase {
	case productLoading:
		fmt.Fprintln(b, "Loading product...")
	case productFailed:
		fmt.Fprintf(b, "Error: %s\n\nPress esc to go back\n", p.errMsg)
	case productLoaded:
		fmt.Fprintln(b, p.product.Name)
		if p.product.Description != "" {
			fmt.Fprintln(b, p.product.Description)
		}
		fmt.Fprintf(b, "\nPrice: %s\nIn stock: %d\n", money(p.product.Price), p.product.Stock)
		if _, ok := p.env.Session.UserID(); ok {
			fmt.Fprintf(b, "\nQuantity: %s_\n", p.qtyInput)
			fmt.Fprintln(b, "\nenter add to cart · esc back")
		} else {
			fmt.Fprintln(b, "\nSign up to add items to your cart (press enter)")
			fmt.Fprintln(b, "esc back")
		}
		if p.banner != "" {
			if p.bannerErr {
				fmt.Fprintf(b, "\n! %s\n", p.banner)
			} else {
				fmt.Fprintf(b, "\n✓ %s\n", p.banner)
			}
		}
	}
	return b.String()
}

package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Limpan89/storefront/internal/api"
)

type cartPhase int

const (
	cartLoading cartPhase = iota
	cartEmpty
	cartLoaded
	cartFailed
	cartCheckedOut
)

// cartPage shows the live cart and runs remove/checkout actions. Reaching it
// requires an identity; the router redirects anonymous visitors before this
// page exists. cartCheckedOut is terminal: it replaces item rendering and its
// only exit is back to product browsing.
type cartPage struct {
	env    Env
	userID int64
	phase  cartPhase
	items  []api.CartItem
	cursor int
	errMsg string

	banner    string
	bannerErr bool
	bannerSeq int

	result api.CheckoutResult
}

type cartFetchedMsg struct {
	items []api.CartItem
	err   error
}

type removeDoneMsg struct {
	err error
}

type checkoutDoneMsg struct {
	result api.CheckoutResult
	err    error
}

func newCartPage(env Env) cartPage {
	userID, _ := env.Session.UserID()
	return cartPage{env: env, userID: userID, phase: cartLoading}
}

func (c cartPage) Init() tea.Cmd {
	return c.fetchCmd()
}

func (c cartPage) fetchCmd() tea.Cmd {
	backend := c.env.Backend
	userID := c.userID
	return func() tea.Msg {
		items, err := backend.GetCart(context.Background(), userID)
		return cartFetchedMsg{items: items, err: err}
	}
}

func (c cartPage) removeCmd(productID int64) tea.Cmd {
	backend := c.env.Backend
	userID := c.userID
	return func() tea.Msg {
		return removeDoneMsg{err: backend.RemoveFromCart(context.Background(), userID, productID)}
	}
}

func (c cartPage) checkoutCmd() tea.Cmd {
	backend := c.env.Backend
	userID := c.userID
	return func() tea.Msg {
		result, err := backend.Checkout(context.Background(), userID)
		return checkoutDoneMsg{result: result, err: err}
	}
}

func (c cartPage) clearBannerCmd() tea.Cmd {
	seq := c.bannerSeq
	return tea.Tick(bannerTTL, func(time.Time) tea.Msg {
		return bannerClearMsg{seq: seq}
	})
}

func (c cartPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case cartFetchedMsg:
		if c.phase == cartCheckedOut {
			// A refetch resolving after checkout must not resurrect the
			// item view.
			return c, nil
		}
		if msg.err != nil {
			c.phase = cartFailed
			c.errMsg = errorMessage(msg.err, "Failed to load cart")
			return c, nil
		}
		if len(msg.items) == 0 {
			c.phase = cartEmpty
			c.items = nil
			return c, nil
		}
		c.phase = cartLoaded
		c.items = msg.items
		if c.cursor >= len(c.items) {
			c.cursor = len(c.items) - 1
		}
		return c, nil

	case removeDoneMsg:
		if msg.err != nil {
			c.banner = errorMessage(msg.err, "Failed to remove item")
			c.bannerErr = true
			return c, nil
		}
		c.banner = "Item removed"
		c.bannerErr = false
		c.bannerSeq++
		return c, tea.Batch(c.fetchCmd(), c.clearBannerCmd())

	case checkoutDoneMsg:
		if msg.err != nil {
			// Transport/HTTP problems are banners; the cart view stays.
			c.banner = errorMessage(msg.err, "Checkout failed")
			c.bannerErr = true
			return c, nil
		}
		// Business outcome, success or declined, replaces the item view.
		c.phase = cartCheckedOut
		c.result = msg.result
		c.banner = ""
		if msg.result.Success {
			// The server already emptied the cart; drop our copy too.
			c.items = nil
		}
		return c, nil

	case bannerClearMsg:
		if msg.seq == c.bannerSeq && !c.bannerErr {
			c.banner = ""
		}
		return c, nil

	case tea.KeyMsg:
		return c.handleKey(msg)
	}
	return c, nil
}

func (c cartPage) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if c.phase == cartCheckedOut {
		switch msg.String() {
		case "enter", "esc", "c":
			return c, navigate(routeProducts)
		case "q":
			return c, tea.Quit
		}
		return c, nil
	}
	switch msg.String() {
	case "q":
		return c, tea.Quit
	case "esc":
		// Failed and empty carts route back; there is no retry here.
		return c, navigate(routeProducts)
	case "up":
		if c.phase == cartLoaded && c.cursor > 0 {
			c.cursor--
		}
	case "down":
		if c.phase == cartLoaded && c.cursor < len(c.items)-1 {
			c.cursor++
		}
	case "x":
		if c.phase == cartLoaded {
			c.banner = ""
			c.bannerErr = false
			return c, c.removeCmd(c.items[c.cursor].ProductID)
		}
	case "enter":
		if c.phase == cartLoaded {
			c.banner = ""
			c.bannerErr = false
			return c, c.checkoutCmd()
		}
	}
	return c, nil
}

func (c cartPage) View() string {
	b := &strings.Builder{}
	fmt.Fprintln(b, "Your cart")
	fmt.Fprintln(b, "")
	switch c.phase {
	case cartLoading:
		fmt.Fprintln(b, "Loading cart...")
	case cartFailed:
		fmt.Fprintf(b, "Error: %s\n\nPress esc to go back\n", c.errMsg)
	case cartEmpty:
		fmt.Fprintln(b, "Your cart is empty. Press esc to keep browsing!")
	case cartLoaded:
		for i, it := range c.items {
			marker := " "
			if i == c.cursor {
				marker = ">"
			}
			fmt.Fprintf(b, " %s %s  ×%d  %s  = %s\n", marker, it.ProductName, it.Quantity, money(it.Price), money(it.Subtotal))
		}
		fmt.Fprintln(b, "\nenter checkout · x remove item · esc back")
	case cartCheckedOut:
		if c.result.Success {
			fmt.Fprintln(b, "Order placed!")
			if c.result.Total != nil {
				fmt.Fprintf(b, "Total: %s\n", money(*c.result.Total))
			}
			for _, it := range c.result.Items {
				fmt.Fprintf(b, "   %s ×%d  %s\n", it.ProductName, it.Quantity, money(it.Subtotal))
			}
		} else {
			fmt.Fprintf(b, "Checkout failed: %s\n", c.result.Message)
		}
		fmt.Fprintln(b, "\nenter continue shopping")
	}
	if c.banner != "" {
		if c.bannerErr {
			fmt.Fprintf(b, "\n! %s\n", c.banner)
		} else {
			fmt.Fprintf(b, "\n✓ %s\n", c.banner)
		}
	}
	return b.String()
}

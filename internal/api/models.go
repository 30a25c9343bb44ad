package api

import "github.com/shopspring/decimal"

// Product is a catalog entry. The client never mutates products; stock is
// whatever the server reported at fetch time.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// CartItem is one line of a cart. Subtotal is computed server-side and
// trusted as given.
type CartItem struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// CheckoutResult is a business outcome, not an error: a declined checkout
// arrives as Success=false on a successful response.
type CheckoutResult struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Total   *decimal.Decimal `json:"total,omitempty"`
	Items   []CartItem       `json:"items,omitempty"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type UpdateUserRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

type AddToCartRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

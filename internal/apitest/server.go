// Package apitest is an in-memory stand-in for the storefront backend. It
// speaks the same REST contract the real service does, so client and page
// tests (and cmd/devserver for manual sessions) can run against it without
// any external process.
package apitest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/Limpan89/storefront/internal/api"
)

type Server struct {
	mu       sync.Mutex
	products []*api.Product
	users    []*api.User
	carts    map[int64][]api.CartItem
	nextUser int64
	nextLine int64

	// declineMessage, when set, forces checkout to resolve with
	// Success=false carrying this message.
	declineMessage string

	router *mux.Router
}

func New() *Server {
	s := &Server{
		carts:    map[int64][]api.CartItem{},
		nextUser: 1,
		nextLine: 1,
	}
	r := mux.NewRouter()
	r.HandleFunc("/api/products", s.listProducts).Methods(http.MethodGet)
	r.HandleFunc("/api/products/{id}", s.getProduct).Methods(http.MethodGet)
	r.HandleFunc("/api/users", s.createUser).Methods(http.MethodPost)
	r.HandleFunc("/api/users", s.listUsers).Methods(http.MethodGet)
	r.HandleFunc("/api/users/{id}", s.getUser).Methods(http.MethodGet)
	r.HandleFunc("/api/users/{id}", s.updateUser).Methods(http.MethodPut)
	r.HandleFunc("/api/users/{id}", s.deleteUser).Methods(http.MethodDelete)
	r.HandleFunc("/api/cart", s.getCart).Methods(http.MethodGet)
	r.HandleFunc("/api/cart/add", s.addToCart).Methods(http.MethodPost)
	r.HandleFunc("/api/cart/remove/{productId}", s.removeFromCart).Methods(http.MethodDelete)
	r.HandleFunc("/api/cart/checkout", s.checkout).Methods(http.MethodPost)
	s.router = r
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// SeedProduct adds a catalog entry and returns it.
func (s *Server) SeedProduct(id int64, name, description string, price string, stock int) api.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &api.Product{
		ID:          id,
		Name:        name,
		Description: description,
		Price:       decimal.RequireFromString(price),
		Stock:       stock,
	}
	s.products = append(s.products, p)
	return *p
}

// SeedUser registers a user directly, bypassing validation.
func (s *Server) SeedUser(username, email string) api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &api.User{ID: s.nextUser, Username: username, Email: email}
	s.nextUser++
	s.users = append(s.users, u)
	return *u
}

// DeclineCheckout forces subsequent checkouts to resolve with Success=false
// and the given message. An empty message restores normal behavior.
func (s *Server) DeclineCheckout(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.declineMessage = message
}

// Stock reports the current stock for a product, for test assertions.
func (s *Server) Stock(productID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p := s.findProduct(productID); p != nil {
		return p.Stock
	}
	return 0
}

func (s *Server) findProduct(id int64) *api.Product {
	for _, p := range s.products {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Server) findUser(id int64) *api.User {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"message": msg})
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	return id, err == nil
}

func queryUserID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.URL.Query().Get("userId"), 10, 64)
	return id, err == nil
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, *p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.findProduct(id)
	if p == nil {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	writeJSON(w, http.StatusOK, *p)
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req api.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Username) == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == req.Email {
			writeError(w, http.StatusConflict, "user already registered")
			return
		}
	}
	u := &api.User{ID: s.nextUser, Username: req.Username, Email: req.Email}
	s.nextUser++
	s.users = append(s.users, u)
	writeJSON(w, http.StatusCreated, *u)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.findUser(id)
	if u == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, *u)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	var req api.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.findUser(id)
	if u == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if req.Username != "" {
		u.Username = req.Username
	}
	if req.Email != "" {
		u.Email = req.Email
	}
	writeJSON(w, http.StatusOK, *u)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, u := range s.users {
		if u.ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			delete(s.carts, id)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "user not found")
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUserID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.carts[userID]
	out := make([]api.CartItem, 0, len(items))
	out = append(out, items...)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) addToCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUserID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	var req api.AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findUser(userID) == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	p := s.findProduct(req.ProductID)
	if p == nil {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	if req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "quantity must be greater than 0")
		return
	}
	items := s.carts[userID]
	inCart := 0
	for _, it := range items {
		if it.ProductID == req.ProductID {
			inCart = it.Quantity
		}
	}
	if inCart+req.Quantity > p.Stock {
		writeError(w, http.StatusConflict, "Insufficient stock")
		return
	}
	for i, it := range items {
		if it.ProductID == req.ProductID {
			items[i].Quantity += req.Quantity
			items[i].Subtotal = p.Price.Mul(decimal.NewFromInt(int64(items[i].Quantity)))
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	line := api.CartItem{
		ID:          s.nextLine,
		ProductID:   p.ID,
		ProductName: p.Name,
		Price:       p.Price,
		Quantity:    req.Quantity,
		Subtotal:    p.Price.Mul(decimal.NewFromInt(int64(req.Quantity))),
	}
	s.nextLine++
	s.carts[userID] = append(items, line)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) removeFromCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUserID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	productID, ok := pathID(r, "productId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.carts[userID]
	for i, it := range items {
		if it.ProductID == productID {
			s.carts[userID] = append(items[:i], items[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "item not in cart")
}

func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUserID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findUser(userID) == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	items := s.carts[userID]
	if len(items) == 0 {
		writeJSON(w, http.StatusOK, api.CheckoutResult{Success: false, Message: "Cart is empty"})
		return
	}
	if s.declineMessage != "" {
		writeJSON(w, http.StatusOK, api.CheckoutResult{Success: false, Message: s.declineMessage})
		return
	}
	// Stock is re-validated at checkout time; the client's guards are only
	// advisory.
	for _, it := range items {
		p := s.findProduct(it.ProductID)
		if p == nil || it.Quantity > p.Stock {
			writeJSON(w, http.StatusOK, api.CheckoutResult{Success: false, Message: "Some items out of stock"})
			return
		}
	}
	total := decimal.Zero
	snapshot := make([]api.CartItem, 0, len(items))
	for _, it := range items {
		total = total.Add(it.Subtotal)
		snapshot = append(snapshot, it)
		s.findProduct(it.ProductID).Stock -= it.Quantity
	}
	delete(s.carts, userID)
	writeJSON(w, http.StatusOK, api.CheckoutResult{
		Success: true,
		Message: "Order placed",
		Total:   &total,
		Items:   snapshot,
	})
}

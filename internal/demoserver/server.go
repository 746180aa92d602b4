package demoserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ecom-labs/storefront/internal/model"
)

// Server is an in-memory stand-in for the real backend, implementing
// the same HTTP contract. It exists for local development and
// integration tests; nothing survives a restart.
type Server struct {
	router *mux.Router
	logger *zap.Logger

	mu       sync.Mutex
	users    map[string]*userRecord // keyed by email
	tokens   map[string]string      // bearer token -> user id
	orders   map[string]*model.Order
	products []model.Product
}

type userRecord struct {
	user         model.User
	passwordHash []byte
}

func New(logger *zap.Logger) *Server {
	s := &Server{
		logger: logger,
		users:  make(map[string]*userRecord),
		tokens: make(map[string]string),
		orders: make(map[string]*model.Order),
	}
	s.seed()

	r := mux.NewRouter()
	r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/orders", s.requireAuth(s.handleListOrders)).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id}", s.requireAuth(s.handleGetOrder)).Methods(http.MethodGet)
	r.HandleFunc("/products", s.handleListProducts).Methods(http.MethodGet)
	s.router = r

	return s
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) seed() {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	s.users["demo@example.com"] = &userRecord{
		user: model.User{
			ID:    uuid.NewString(),
			Email: "demo@example.com",
			Name:  "Demo Customer",
			Role:  "customer",
		},
		passwordHash: hash,
	}

	created := time.Now().AddDate(0, 0, -3)
	orderID := uuid.NewString()
	s.orders[orderID] = &model.Order{
		ID:          orderID,
		OrderNumber: "SF-1001",
		Status:      model.StatusShipped,
		Total:       49.90,
		Items: []model.OrderItem{
			{ProductID: "p1", Name: "Mug", Quantity: 2, Price: 9.95},
			{ProductID: "p2", Name: "Shirt", Quantity: 1, Price: 30.00},
		},
		StatusHistory: []model.StatusRecord{
			{Status: model.StatusPending, CreatedAt: created},
			{Status: model.StatusProcessing, CreatedAt: created.AddDate(0, 0, 1)},
			{Status: model.StatusShipped, CreatedAt: created.AddDate(0, 0, 2), Location: "Regional hub"},
		},
		Tracking: &model.TrackingInfo{
			Carrier:        "DemoPost",
			TrackingNumber: "DP123456789",
			Location:       "Regional hub",
		},
		CreatedAt: created,
		UpdatedAt: created.AddDate(0, 0, 2),
	}

	s.products = []model.Product{
		{ID: "p1", Name: "Mug", Price: 9.95, Stock: 120},
		{ID: "p2", Name: "Shirt", Price: 30.00, Stock: 4},
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.users[creds.Email]
	if !ok || bcrypt.CompareHashAndPassword(record.passwordHash, []byte(creds.Password)) != nil {
		s.logger.Debug("rejected login", zap.String("email", creds.Email))
		writeMessage(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token := uuid.NewString()
	s.tokens[token] = record.user.ID

	writeJSON(w, http.StatusOK, model.AuthResponse{User: &record.user, Token: token})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var reg model.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if reg.Email == "" || reg.Password == "" {
		writeMessage(w, http.StatusBadRequest, "email and password are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[reg.Email]; exists {
		writeMessage(w, http.StatusConflict, "email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	record := &userRecord{
		user: model.User{
			ID:    uuid.NewString(),
			Email: reg.Email,
			Name:  reg.Name,
			Role:  "customer",
		},
		passwordHash: hash,
	}
	s.users[reg.Email] = record

	token := uuid.NewString()
	s.tokens[token] = record.user.ID

	writeJSON(w, http.StatusCreated, model.AuthResponse{User: &record.user, Token: token})
}

func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeMessage(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		s.mu.Lock()
		_, valid := s.tokens[token]
		s.mu.Unlock()
		if !valid {
			writeMessage(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		next(w, r)
	}
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	orders := make([]model.Order, 0, len(s.orders))
	for _, order := range s.orders {
		orders = append(orders, *order)
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	order, ok := s.orders[id]
	var copied model.Order
	if ok {
		copied = *order
	}
	s.mu.Unlock()

	if !ok {
		writeMessage(w, http.StatusNotFound, "order not found")
		return
	}
	writeJSON(w, http.StatusOK, copied)
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.products)
}

// RevokeToken invalidates a previously issued token so expired-session
// paths can be exercised in tests.
func (s *Server) RevokeToken(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

// OrderIDs lists the seeded order ids, oldest first.
func (s *Server) OrderIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.orders))
	for id := range s.orders {
		ids = append(ids, id)
	}
	return ids
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

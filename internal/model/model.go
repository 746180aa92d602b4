package model

import "time"

// Status is the closed set of order states the backend may report.
// Keep the constants in sync with statusOrder in the timeline package.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are expected.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

type Order struct {
	ID            string         `json:"id"`
	OrderNumber   string         `json:"orderNumber"`
	UserID        string         `json:"userId"`
	Status        Status         `json:"status"`
	Items         []OrderItem    `json:"items,omitempty"`
	Total         float64        `json:"total"`
	StatusHistory []StatusRecord `json:"statusHistory"`
	Tracking      *TrackingInfo  `json:"tracking,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// StatusRecord is one entry of an order's append-only status log.
// Entries are ordered by CreatedAt, non-decreasing.
type StatusRecord struct {
	Status    Status    `json:"status"`
	Location  string    `json:"location,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type TrackingInfo struct {
	Carrier        string `json:"carrier"`
	TrackingNumber string `json:"trackingNumber"`
	Location       string `json:"currentLocation,omitempty"`
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type Product struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// AuthResponse is the payload of a successful login or register call.
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

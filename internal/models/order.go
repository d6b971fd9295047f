package models

import (
	"time"

	"github.com/google/uuid"
)

// Order status lifecycle. Orders start out pending; cancellation is only
// possible before the kitchen marks the order ready.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusReady     = "ready"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

var orderStatusTransitions = map[string][]string{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusCompleted},
}

// ValidOrderStatus reports whether s is a known status value.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusReady,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionOrderStatus reports whether an order may move from one status
// to another.
func CanTransitionOrderStatus(from, to string) bool {
	for _, next := range orderStatusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Order is an immutable record of a submitted purchase. UserID is nullable
// because guest checkout is allowed. TotalAmount is an exact decimal string.
type Order struct {
	BaseModel
	OrderNumber   string      `gorm:"uniqueIndex" json:"order_number"`
	UserID        *uuid.UUID  `gorm:"type:uuid;index" json:"user_id,omitempty"`
	User          *User       `json:"user,omitempty"`
	CustomerName  string      `json:"customer_name"`
	CustomerPhone string      `json:"customer_phone"`
	CustomerEmail string      `json:"customer_email,omitempty"`
	PickupTime    time.Time   `json:"pickup_time"`
	TotalAmount   string      `json:"total_amount"`
	SpecialNotes  string      `json:"special_notes,omitempty"`
	Status        string      `json:"status"`
	Items         []OrderItem `json:"items,omitempty"`
}

// OrderItem snapshots name and price at order time so later catalog edits or
// deletions never alter historical orders. MenuItemID is nulled when the
// referenced menu item is deleted.
type OrderItem struct {
	BaseModel
	OrderID    uuid.UUID  `gorm:"type:uuid;index" json:"order_id"`
	MenuItemID *uuid.UUID `gorm:"type:uuid;index" json:"menu_item_id,omitempty"`
	ItemName   string     `json:"item_name"`
	ItemPrice  string     `json:"item_price"`
	Quantity   int        `json:"quantity"`
	Subtotal   string     `json:"subtotal"`
}

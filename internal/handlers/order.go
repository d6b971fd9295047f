package handlers

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/example/jojopasta/internal/middleware"
	"github.com/example/jojopasta/internal/models"
	"github.com/example/jojopasta/internal/utils"
)

var phonePattern = regexp.MustCompile(`^09\d{8}$`)
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Bounded retries for the probabilistic order number.
const orderNumberAttempts = 5

// OrderHandler manages order assembly and lookup.
type OrderHandler struct {
	db *gorm.DB
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB) *OrderHandler {
	return &OrderHandler{db: db}
}

type orderItemRequest struct {
	MenuItemID string `json:"menu_item_id"`
	ItemName   string `json:"item_name"`
	ItemPrice  string `json:"item_price"`
	Quantity   int    `json:"quantity"`
	Subtotal   string `json:"subtotal"`
}

type createOrderRequest struct {
	CustomerName  string             `json:"customer_name"`
	CustomerPhone string             `json:"customer_phone"`
	CustomerEmail string             `json:"customer_email"`
	PickupTime    time.Time          `json:"pickup_time"`
	TotalAmount   string             `json:"total_amount"`
	SpecialNotes  string             `json:"special_notes"`
	Items         []orderItemRequest `json:"items"`
}

// CreateOrder converts a finalized cart plus contact details into a durable
// order with snapshotted line items. Guest checkout is allowed; when the
// request carries a valid session the order is linked to the user.
//
// Totals are verified server-side: each subtotal must equal price x quantity
// and the order total must equal the sum of subtotals.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	details := make(map[string]string)

	name := strings.TrimSpace(req.CustomerName)
	if len([]rune(name)) < 2 || len([]rune(name)) > 50 {
		details["customer_name"] = "name must be between 2 and 50 characters"
	}
	if !phonePattern.MatchString(req.CustomerPhone) {
		details["customer_phone"] = "phone must match 09xxxxxxxx"
	}
	if req.CustomerEmail != "" && !emailPattern.MatchString(req.CustomerEmail) {
		details["customer_email"] = "invalid email address"
	}
	if req.PickupTime.IsZero() {
		details["pickup_time"] = "pickup time is required"
	} else if req.PickupTime.Before(time.Now()) {
		details["pickup_time"] = "pickup time must be in the future"
	}
	if len([]rune(req.SpecialNotes)) > 200 {
		details["special_notes"] = "special notes must not exceed 200 characters"
	}

	items, itemsSum := h.validateItems(req.Items, details)

	total, err := utils.ParseAmount(req.TotalAmount)
	if err != nil {
		details["total_amount"] = "total amount must be a decimal with at most two fraction digits"
	} else if len(details) == 0 && !total.Equal(itemsSum) {
		details["total_amount"] = "total amount does not match the sum of item subtotals"
	}

	if len(details) > 0 {
		return validationError(c, details)
	}

	order := models.Order{
		CustomerName:  name,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		PickupTime:    req.PickupTime,
		TotalAmount:   req.TotalAmount,
		SpecialNotes:  req.SpecialNotes,
		Status:        models.OrderStatusPending,
	}
	if userID, ok := middleware.CurrentUserID(c); ok {
		order.UserID = &userID
	}

	created, err := h.insertWithFreshNumber(order, items)
	if err != nil {
		logrus.WithError(err).Error("failed to create order")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create order")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": created})
}

// validateItems checks each line and returns the snapshot rows plus the
// decimal sum of their subtotals.
func (h *OrderHandler) validateItems(reqItems []orderItemRequest, details map[string]string) ([]models.OrderItem, decimal.Decimal) {
	items := make([]models.OrderItem, 0, len(reqItems))
	sum := decimal.Zero

	for _, line := range reqItems {
		if strings.TrimSpace(line.ItemName) == "" {
			details["items"] = "every item needs a name"
			continue
		}
		if line.Quantity < 1 {
			details["items"] = "item quantity must be at least 1"
			continue
		}

		price, err := utils.ParsePrice(line.ItemPrice)
		if err != nil {
			details["items"] = "item price must be a positive decimal"
			continue
		}
		subtotal, err := utils.ParseAmount(line.Subtotal)
		if err != nil || !subtotal.Equal(utils.LineSubtotal(price, line.Quantity)) {
			details["items"] = "item subtotal must equal price times quantity"
			continue
		}

		item := models.OrderItem{
			ItemName:  strings.TrimSpace(line.ItemName),
			ItemPrice: line.ItemPrice,
			Quantity:  line.Quantity,
			Subtotal:  line.Subtotal,
		}
		if line.MenuItemID != "" {
			if id, err := uuid.Parse(line.MenuItemID); err == nil {
				item.MenuItemID = &id
			}
		}

		sum = sum.Add(subtotal)
		items = append(items, item)
	}

	return items, sum
}

// insertWithFreshNumber inserts the order and its items in one transaction.
// Order numbers are only probabilistically unique, so a duplicate-key failure
// triggers a bounded regenerate-and-retry.
func (h *OrderHandler) insertWithFreshNumber(base models.Order, items []models.OrderItem) (*models.Order, error) {
	var lastErr error

	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order := base
		order.OrderNumber = utils.GenerateOrderNumber()
		order.Items = make([]models.OrderItem, len(items))
		copy(order.Items, items)

		err := h.db.Create(&order).Error
		if err == nil {
			return &order, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}

		lastErr = err
		logrus.WithField("order_number", order.OrderNumber).
			WithField("attempt", attempt+1).
			Warn("order number collision, regenerating")
	}

	return nil, lastErr
}

// GetOrderByNumber returns an order with its items by the human-facing
// number.
func (h *OrderHandler) GetOrderByNumber(c *fiber.Ctx) error {
	number := c.Params("orderNumber")

	var order models.Order
	if err := h.db.Preload("Items").
		First(&order, "order_number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

// ListMyOrders returns the authenticated user's orders, most recent first.
func (h *OrderHandler) ListMyOrders(c *fiber.Ctx) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var orders []models.Order
	if err := h.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": orders})
}

// AdminListOrders returns all orders with pagination and optional status
// filter.
func (h *OrderHandler) AdminListOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").Preload("User").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus moves an order along the status lifecycle. Only the
// transitions in the lifecycle map are allowed; line items are never touched.
func (h *OrderHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if !models.ValidOrderStatus(req.Status) {
		return validationError(c, map[string]string{"status": "unknown status value"})
	}

	var order models.Order
	if err := h.db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	if !models.CanTransitionOrderStatus(order.Status, req.Status) {
		return fiber.NewError(fiber.StatusConflict,
			"cannot transition order from "+order.Status+" to "+req.Status)
	}

	if err := h.db.Model(&order).
		Updates(map[string]interface{}{"status": req.Status, "updated_at": time.Now()}).Error; err != nil {
		logrus.WithError(err).WithField("order_id", id).Error("failed to update order status")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update order status")
	}
	order.Status = req.Status

	return c.JSON(fiber.Map{"success": true, "data": order})
}

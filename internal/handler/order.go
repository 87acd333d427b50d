package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ekoseller/eko-seller-api/internal/model"
	"github.com/ekoseller/eko-seller-api/internal/repository"
)

// OrderHandler serves the order workflow. Line items snapshot the
// product price at placement time; the order total is derived from the
// snapshots, never taken from the client.
type OrderHandler struct {
	Orders   OrderStore
	Products ProductStore
}

func NewOrderHandler(orders OrderStore, products ProductStore) *OrderHandler {
	return &OrderHandler{Orders: orders, Products: products}
}

type orderItemReq struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

type orderReq struct {
	OrderItems       []orderItemReq `json:"orderItems"`
	ShippingAddress1 string         `json:"shippingAddress1"`
	ShippingAddress2 string         `json:"shippingAddress2"`
	State            string         `json:"state"`
	Zip              string         `json:"zip"`
	Country          string         `json:"country"`
	Phone            string         `json:"phone"`
	Status           string         `json:"status"`
}

// Create handles POST /orders. Each line resolves its product and is
// written with the current price; if any line fails, items inserted so
// far are deleted before the error is returned so no orphans remain.
func (h *OrderHandler) Create(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "Authentication required"})
	}
	userID, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "Authentication required"})
	}
	var req orderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	if len(req.OrderItems) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "orderItems must not be empty"})
	}
	if req.ShippingAddress1 == "" || req.State == "" || req.Country == "" || req.Phone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "shippingAddress1, state, country and phone are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var (
		itemIDs []primitive.ObjectID
		total   float64
	)
	// undo removes already-inserted line items after a mid-flight
	// failure so the collection holds no items without an order.
	undo := func() {
		if len(itemIDs) == 0 {
			return
		}
		if err := h.Orders.DeleteItems(ctx, itemIDs); err != nil {
			log.Printf("order create: failed to clean up %d orphaned items: %v", len(itemIDs), err)
		}
	}

	for _, line := range req.OrderItems {
		productID, err := primitive.ObjectIDFromHex(line.Product)
		if err != nil {
			undo()
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid product ID in order"})
		}
		product, err := h.Products.FindByID(ctx, productID)
		if err != nil {
			undo()
			if err == repository.ErrNotFound {
				return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Product not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "The order cannot be created"})
		}
		qty := line.Quantity
		if qty < 1 {
			qty = 1
		}
		item := &model.OrderItem{
			Quantity:    qty,
			Product:     product.ID,
			Price:       product.Price,
			DateCreated: time.Now().UTC(),
		}
		if err := h.Orders.InsertItem(ctx, item); err != nil {
			undo()
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "The order cannot be created"})
		}
		itemIDs = append(itemIDs, item.ID)
		total += item.LineTotal()
	}

	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = model.StatusPending
	}
	order := &model.Order{
		OrderItems:       itemIDs,
		ShippingAddress1: req.ShippingAddress1,
		ShippingAddress2: req.ShippingAddress2,
		State:            req.State,
		Zip:              req.Zip,
		Country:          req.Country,
		Phone:            req.Phone,
		Status:           status,
		TotalPrice:       total,
		User:             userID,
		DateOrdered:      time.Now().UTC(),
	}
	if err := h.Orders.InsertOrder(ctx, order); err != nil {
		undo()
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "The order cannot be created"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Order placed successfully",
		"order":   order,
	})
}

// List handles GET /orders (admin only), newest first with user names
// and line items populated.
func (h *OrderHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	orders, err := h.Orders.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Error retrieving orders"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "orders": orders})
}

// Get handles GET /orders/:id.
func (h *OrderHandler) Get(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid order ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	order, err := h.Orders.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Error retrieving order"})
	}
	return c.JSON(http.StatusOK, order)
}

type statusReq struct {
	Status string `json:"status"`
}

// UpdateStatus handles PUT /orders/:id.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid order ID"})
	}
	var req statusReq
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "status is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	order, err := h.Orders.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Error updating order"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Order status updated",
		"order":   order,
	})
}

// Delete handles DELETE /orders/:id, removing the order and its line
// items.
func (h *OrderHandler) Delete(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid order ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Orders.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Error deleting order"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Order deleted successfully"})
}

// TotalSales handles GET /orders/get/totalsales (admin only).
func (h *OrderHandler) TotalSales(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	total, err := h.Orders.TotalSales(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "The order sales cannot be generated"})
	}
	return c.JSON(http.StatusOK, echo.Map{"totalSales": total})
}

// Count handles GET /orders/get/count (admin only).
func (h *OrderHandler) Count(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	count, err := h.Orders.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Error counting orders"})
	}
	return c.JSON(http.StatusOK, echo.Map{"orderCount": count})
}

// UserOrders handles GET /orders/get/userorders/:userId, the order
// history of one user, newest first.
func (h *OrderHandler) UserOrders(c echo.Context) error {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid user ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	orders, err := h.Orders.ByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Error retrieving orders"})
	}
	if len(orders) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "No orders found for this user"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "orders": orders})
}

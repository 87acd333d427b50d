package handler

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ekoseller/eko-seller-api/internal/repository"
)

// publicSellerLimit caps the unauthenticated sellers directory.
const publicSellerLimit = 10

// UserHandler serves the admin user surface and the public sellers
// directory. All reads go through the redacted projection.
type UserHandler struct {
	Users UserStore
}

func NewUserHandler(users UserStore) *UserHandler {
	return &UserHandler{Users: users}
}

// List handles GET /users (admin only) with role/state/country/
// isVerified filters and page/limit pagination.
func (h *UserHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	f := repository.UserFilter{
		Role:    c.QueryParam("role"),
		State:   c.QueryParam("state"),
		Country: c.QueryParam("country"),
	}
	if v := c.QueryParam("isVerified"); v != "" {
		b := v == "true"
		f.IsVerified = &b
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, total, err := h.Users.List(ctx, f, page, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "An error occurred while fetching users"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"totalPages":  int(math.Ceil(float64(total) / float64(limit))),
		"currentPage": page,
		"users":       users,
	})
}

// Get handles GET /users/:id (admin only).
func (h *UserHandler) Get(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid user ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.Users.FindPublicByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "An error occurred while fetching the user"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": user})
}

// Delete handles DELETE /users/:id (admin only).
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid user ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "An error occurred while deleting the user"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "User deleted successfully"})
}

// Sellers handles GET /users/sellers, the public field-redacted
// directory capped at ten entries.
func (h *UserHandler) Sellers(c echo.Context) error {
	f := repository.SellerFilter{
		State:               c.QueryParam("state"),
		LocalGovernmentArea: c.QueryParam("localGovernmentArea"),
		MarketLocation:      c.QueryParam("marketLocation"),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sellers, err := h.Users.ListSellers(ctx, f, publicSellerLimit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "An error occurred while fetching sellers"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "sellers": sellers})
}

package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ekoseller/eko-seller-api/internal/model"
	"github.com/ekoseller/eko-seller-api/internal/repository"
)

// CategoryHandler serves the category tree.
type CategoryHandler struct {
	Categories CategoryStore
}

func NewCategoryHandler(categories CategoryStore) *CategoryHandler {
	return &CategoryHandler{Categories: categories}
}

type categoryReq struct {
	Name           string `json:"name"`
	Icon           string `json:"icon"`
	Color          string `json:"color"`
	ParentCategory string `json:"parentCategory"`
}

// List handles GET /categories with parent names populated.
func (h *CategoryHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cats, err := h.Categories.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "An error occurred while fetching categories"})
	}
	return c.JSON(http.StatusOK, cats)
}

// Get handles GET /categories/:id.
func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid category ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cat, err := h.Categories.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Category with given ID not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "An error occurred while fetching the category"})
	}
	populated, err := h.Categories.PopulateParent(ctx, cat)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "An error occurred while fetching the category"})
	}
	return c.JSON(http.StatusOK, populated)
}

// Create handles POST /categories. A parentCategory value that does
// not resolve to an existing record auto-vivifies a parent: a new
// category whose name is the supplied value, with default icon and
// color, created before the child links to it.
func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "name is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var parentID *primitive.ObjectID
	if req.ParentCategory != "" {
		resolved, err := h.resolveParent(ctx, req.ParentCategory)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"message": "Parent category not found and unable to create new parent category",
			})
		}
		parentID = resolved
	}

	cat := &model.Category{
		Name:           req.Name,
		Icon:           req.Icon,
		Color:          req.Color,
		ParentCategory: parentID,
	}
	if err := h.Categories.Create(ctx, cat); err != nil {
		if err == repository.ErrDuplicate {
			return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": "Category already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Category cannot be created"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success":  true,
		"message":  "Category created successfully",
		"category": cat,
	})
}

// resolveParent returns the id of the referenced parent, creating one
// named after the unresolved reference when necessary.
func (h *CategoryHandler) resolveParent(ctx context.Context, ref string) (*primitive.ObjectID, error) {
	if id, err := primitive.ObjectIDFromHex(ref); err == nil {
		if parent, err := h.Categories.FindByID(ctx, id); err == nil {
			return &parent.ID, nil
		} else if err != repository.ErrNotFound {
			return nil, err
		}
	}
	parent := &model.Category{
		Name:  ref,
		Icon:  model.DefaultCategoryIcon,
		Color: model.DefaultCategoryColor,
	}
	if err := h.Categories.Create(ctx, parent); err != nil {
		return nil, err
	}
	return &parent.ID, nil
}

// Update handles PUT /categories/:id.
func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid category ID"})
	}
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" && strings.TrimSpace(req.Icon) == "" && strings.TrimSpace(req.Color) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "nothing to update"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cat, err := h.Categories.Update(ctx, id, req.Name, req.Icon, req.Color)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "An error occurred while updating the category"})
	}
	return c.JSON(http.StatusOK, cat)
}

// Delete handles DELETE /categories/:id.
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid category ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Categories.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Category not found!"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "An error occurred while deleting the category"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Category deleted"})
}

package handler

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ekoseller/eko-seller-api/internal/model"
	"github.com/ekoseller/eko-seller-api/internal/repository"
	"github.com/ekoseller/eko-seller-api/internal/upload"
)

// ProductHandler serves the product catalog. Writes are gated to
// sellers and admins by route middleware; images arrive as multipart
// form files and are stored through the upload.Store.
type ProductHandler struct {
	Products   ProductStore
	Categories CategoryStore
	Uploads    *upload.Store
}

func NewProductHandler(products ProductStore, categories CategoryStore, uploads *upload.Store) *ProductHandler {
	return &ProductHandler{Products: products, Categories: categories, Uploads: uploads}
}

// parseSize reads a form value into the size union: numeric when it
// parses as a number, textual otherwise.
func parseSize(s string) model.Size {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return model.NumericSize(f)
	}
	return model.LabelSize(s)
}

// List handles GET /products with category/brand/colour/price filters,
// field:asc|desc sorting and page/limit pagination.
func (h *ProductHandler) List(c echo.Context) error {
	f := repository.ProductFilter{
		Brand:  c.QueryParam("brand"),
		Colour: c.QueryParam("colour"),
	}
	if raw := c.QueryParam("categories"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := primitive.ObjectIDFromHex(strings.TrimSpace(part))
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid category ID in filter"})
			}
			f.Categories = append(f.Categories, id)
		}
	}
	if v := c.QueryParam("minPrice"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid minPrice"})
		}
		f.MinPrice = &p
	}
	if v := c.QueryParam("maxPrice"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid maxPrice"})
		}
		f.MaxPrice = &p
	}
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	sort := repository.ParseSort(c.QueryParam("sort"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	products, total, err := h.Products.List(ctx, f, sort, page, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Error retrieving products"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"products":      products,
		"totalPages":    int(math.Ceil(float64(total) / float64(limit))),
		"currentPage":   page,
		"totalProducts": total,
	})
}

// Get handles GET /products/:id.
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid product ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	product, err := h.Products.FindPopulatedByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Error retrieving product"})
	}
	return c.JSON(http.StatusOK, product)
}

// Create handles POST /products: multipart form with a required
// `image` file, optional `images` gallery files and the product
// fields. The referenced category must already exist.
func (h *ProductHandler) Create(c echo.Context) error {
	categoryID, err := primitive.ObjectIDFromHex(c.FormValue("category"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid category"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if _, err := h.Categories.FindByID(ctx, categoryID); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid category"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Error retrieving category"})
	}

	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil || price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "price must be a number >= 0"})
	}
	stock, err := strconv.Atoi(c.FormValue("countInStock"))
	if err != nil || stock < 0 || stock > model.MaxCountInStock {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "countInStock must be between 0 and 1000"})
	}
	name := strings.TrimSpace(c.FormValue("name"))
	description := strings.TrimSpace(c.FormValue("description"))
	colour := strings.TrimSpace(c.FormValue("colour"))
	size := parseSize(c.FormValue("size"))
	if name == "" || description == "" || colour == "" || size.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "name, description, colour and size are required"})
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "No image provided"})
	}
	stored, err := h.Uploads.Save(file)
	if err != nil {
		if err == upload.ErrInvalidType {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid image type"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Product cannot be created"})
	}

	var gallery []string
	if form, err := c.MultipartForm(); err == nil {
		for _, fh := range form.File["images"] {
			n, err := h.Uploads.Save(fh)
			if err != nil {
				if err == upload.ErrInvalidType {
					return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid image type"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Product cannot be created"})
			}
			gallery = append(gallery, h.Uploads.URL(c, n))
		}
	}

	product := &model.Product{
		Name:         name,
		Description:  description,
		Image:        h.Uploads.URL(c, stored),
		Images:       gallery,
		Brand:        strings.TrimSpace(c.FormValue("brand")),
		Price:        price,
		Colour:       colour,
		Size:         size,
		Category:     categoryID,
		CountInStock: stock,
		DateCreated:  time.Now().UTC(),
	}
	if err := h.Products.Create(ctx, product); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Product cannot be created"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Product created successfully",
		"product": product,
	})
}

// Update handles PUT /products/:id: same form fields as Create, all
// optional; a new image file replaces the stored one when supplied.
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid product ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	set := bson.M{}
	if v := strings.TrimSpace(c.FormValue("name")); v != "" {
		set["name"] = v
	}
	if v := strings.TrimSpace(c.FormValue("description")); v != "" {
		set["description"] = v
	}
	if v := strings.TrimSpace(c.FormValue("brand")); v != "" {
		set["brand"] = v
	}
	if v := strings.TrimSpace(c.FormValue("colour")); v != "" {
		set["colour"] = v
	}
	if v := c.FormValue("size"); strings.TrimSpace(v) != "" {
		set["size"] = parseSize(v)
	}
	if v := c.FormValue("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil || price < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "price must be a number >= 0"})
		}
		set["price"] = price
	}
	if v := c.FormValue("countInStock"); v != "" {
		stock, err := strconv.Atoi(v)
		if err != nil || stock < 0 || stock > model.MaxCountInStock {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "countInStock must be between 0 and 1000"})
		}
		set["countInStock"] = stock
	}
	if v := c.FormValue("category"); v != "" {
		categoryID, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid category"})
		}
		if _, err := h.Categories.FindByID(ctx, categoryID); err != nil {
			if err == repository.ErrNotFound {
				return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid category"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Error retrieving category"})
		}
		set["category"] = categoryID
	}
	if file, err := c.FormFile("image"); err == nil {
		stored, err := h.Uploads.Save(file)
		if err != nil {
			if err == upload.ErrInvalidType {
				return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid image type"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Product cannot be updated"})
		}
		set["image"] = h.Uploads.URL(c, stored)
	}
	if len(set) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "nothing to update"})
	}

	product, err := h.Products.Update(ctx, id, set)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Product cannot be updated"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Product updated successfully",
		"product": product,
	})
}

// Delete handles DELETE /products/:id.
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid product ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Products.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "An error occurred while deleting the product"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Product deleted successfully"})
}

// Count handles GET /products/get/count.
func (h *ProductHandler) Count(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	count, err := h.Products.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Error counting products"})
	}
	return c.JSON(http.StatusOK, echo.Map{"productCount": count})
}

// ByCategory handles GET /products/category/:categoryId.
func (h *ProductHandler) ByCategory(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("categoryId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid category ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	products, err := h.Products.ByCategory(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Error retrieving products"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "products": products})
}

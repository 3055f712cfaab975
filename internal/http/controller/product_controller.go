package controller

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/iyhunko/product-catalog/internal/repository"
	"github.com/iyhunko/product-catalog/internal/service"
)

const jsonContentType = "application/json"

// ProductController handles HTTP requests for product operations.
type ProductController struct {
	productService *service.ProductService
}

// NewProductController creates a new ProductController with the given product service.
func NewProductController(productService *service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

// CreateProduct handles the HTTP POST request for creating a new product.
func (pc *ProductController) CreateProduct(c *gin.Context) {
	slog.Info("Request to Create a Product...")
	if contentType := c.GetHeader("Content-Type"); contentType != jsonContentType {
		slog.Error("Invalid Content-Type", slog.String("content_type", contentType))
		c.String(http.StatusUnsupportedMediaType, "Content-Type must be "+jsonContentType)
		return
	}

	data, err := service.DecodeObject(c.Request.Body)
	if err != nil {
		writeError(c, err)
		return
	}
	slog.Debug("Processing product", slog.Any("data", data))

	product, err := pc.productService.CreateProduct(c.Request.Context(), data)
	if err != nil {
		writeError(c, err)
		return
	}
	slog.Info("Product saved", slog.Int64("product_id", product.ID))

	c.Header("Location", productURL(c, product.ID))
	c.JSON(http.StatusCreated, product.Serialize())
}

// ListProducts handles the HTTP GET request for listing products, optionally filtered.
func (pc *ProductController) ListProducts(c *gin.Context) {
	products, err := pc.productService.ListProducts(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		writeError(c, err)
		return
	}

	response := make([]map[string]any, 0, len(products))
	for _, product := range products {
		response = append(response, product.Serialize())
	}
	c.JSON(http.StatusOK, response)
}

// GetProduct handles the HTTP GET request for a single product.
func (pc *ProductController) GetProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	product, err := pc.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product.Serialize())
}

// UpdateProduct handles the HTTP PUT request applying a partial update to a product.
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	product, err := pc.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	updates, err := service.DecodeFieldUpdates(c.Request.Body)
	if err != nil {
		writeError(c, err)
		return
	}

	updated, err := pc.productService.UpdateProduct(c.Request.Context(), product, updates)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated.Serialize())
}

// DeleteProduct handles the HTTP DELETE request for deleting a product by ID.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	if err := pc.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// productID reads the id path parameter. Ids that are not integers cannot
// name a product, so they are answered with 404.
func productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, repository.ErrNotFound)
		return 0, false
	}
	return id, true
}

func productURL(c *gin.Context, id int64) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	switch proto := strings.ToLower(c.GetHeader("X-Forwarded-Proto")); proto {
	case "http", "https":
		scheme = proto
	}
	return fmt.Sprintf("%s://%s/products/%d", scheme, c.Request.Host, id)
}

// writeError converts err into a plain text response.
func writeError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	var dataErr *model.DataValidationError

	switch {
	case errors.As(err, &validationErr):
		status := http.StatusBadRequest
		if validationErr.Kind == service.InvalidContent {
			status = http.StatusUnprocessableEntity
		}
		slog.Info("Rejected request", slog.Int("status", status), slog.String("reason", validationErr.Msg))
		c.String(status, validationErr.Msg)
	case errors.As(err, &dataErr):
		slog.Info("Rejected product data", slog.String("reason", dataErr.Msg))
		c.String(http.StatusBadRequest, dataErr.Msg)
	case errors.Is(err, repository.ErrNotFound):
		c.String(http.StatusNotFound, repository.ErrNotFound.Error())
	default:
		slog.Error("Request failed", slog.Any("err", err))
		c.String(http.StatusInternalServerError, "Internal Server Error")
	}
}

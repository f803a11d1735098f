package handlers

import (
	"mfi-backoffice/internal/adapters/http/middleware"
	"mfi-backoffice/internal/core/domain"
	"mfi-backoffice/internal/core/services"
	"mfi-backoffice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles loan product endpoints
type ProductHandler struct {
	productService *services.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List lists loan products
// @Summary List loan products
// @Description List loan products. Without a session only active products are returned and the status filter is ignored.
// @Tags Products
// @Produce json
// @Param status query string false "Active or Inactive"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	status := c.Query("status")
	if middleware.CurrentSession(c) == nil {
		status = string(domain.ProductActive)
	}

	products, err := h.productService.List(c.Context(), status)
	if err != nil {
		return response.FromError(c, err, "Product not found", "Failed to fetch products")
	}

	return response.Success(c, "Products retrieved successfully", fiber.Map{
		"products": products,
		"total":    len(products),
	})
}

// Create creates a loan product
// @Summary Create loan product
// @Description Create a loan product
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateProductInput true "Product data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var input services.CreateProductInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	product, err := h.productService.Create(c.Context(), &input)
	if err != nil {
		return response.FromError(c, err, "Product not found", "Failed to create product")
	}

	return response.Created(c, "Product created successfully", fiber.Map{
		"product": product,
	})
}

// GetByID gets a loan product
// @Summary Get loan product
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid product ID")
	}

	product, err := h.productService.GetByID(c.Context(), id)
	if err != nil {
		return response.FromError(c, err, "Product not found", "Failed to fetch product")
	}
	if product.Status != domain.ProductActive && middleware.CurrentSession(c) == nil {
		return response.NotFound(c, "Product not found")
	}

	return response.Success(c, "Product retrieved successfully", fiber.Map{
		"product": product,
	})
}

// Update updates a loan product
// @Summary Update loan product
// @Description Partially update a loan product
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param body body services.UpdateProductInput true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid product ID")
	}

	var input services.UpdateProductInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	product, err := h.productService.Update(c.Context(), id, &input)
	if err != nil {
		return response.FromError(c, err, "Product not found", "Failed to update product")
	}

	return response.Success(c, "Product updated successfully", fiber.Map{
		"product": product,
	})
}

// Delete deletes a loan product
// @Summary Delete loan product
// @Tags Products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid product ID")
	}

	if err := h.productService.Delete(c.Context(), id); err != nil {
		return response.FromError(c, err, "Product not found", "Failed to delete product")
	}

	return response.Success(c, "Product deleted successfully", nil)
}

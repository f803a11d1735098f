package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"mfi-backoffice/internal/adapters/persistence/models"
	"mfi-backoffice/internal/adapters/persistence/repositories"
	"mfi-backoffice/internal/core/domain"
	"mfi-backoffice/internal/pkg/validate"
)

// ProductService manages the loan product catalog
type ProductService struct {
	productRepo repositories.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repositories.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// CreateProductInput represents create product input
type CreateProductInput struct {
	Name          string               `json:"name" validate:"required,max=120"`
	Description   string               `json:"description"`
	MinAmount     *float64             `json:"minAmount" validate:"required"`
	MaxAmount     *float64             `json:"maxAmount" validate:"required"`
	MinTenure     *int                 `json:"minTenure" validate:"required"`
	MaxTenure     *int                 `json:"maxTenure" validate:"required"`
	MinInterest   *float64             `json:"minInterest" validate:"required"`
	MaxInterest   *float64             `json:"maxInterest" validate:"required"`
	ProcessingFee *float64             `json:"processingFee" validate:"omitempty,gte=0"`
	Status        domain.ProductStatus `json:"status" validate:"omitempty,productstatus"`
}

// UpdateProductInput represents a partial product update
type UpdateProductInput struct {
	Name          *string               `json:"name" validate:"omitempty,min=1,max=120"`
	Description   *string               `json:"description"`
	MinAmount     *float64              `json:"minAmount"`
	MaxAmount     *float64              `json:"maxAmount"`
	MinTenure     *int                  `json:"minTenure"`
	MaxTenure     *int                  `json:"maxTenure"`
	MinInterest   *float64              `json:"minInterest"`
	MaxInterest   *float64              `json:"maxInterest"`
	ProcessingFee *float64              `json:"processingFee" validate:"omitempty,gte=0"`
	Status        *domain.ProductStatus `json:"status" validate:"omitempty,productstatus"`
}

// Create creates a new loan product, Active unless a status is given
func (s *ProductService) Create(ctx context.Context, input *CreateProductInput) (*models.LoanProduct, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	product := &models.LoanProduct{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		MinAmount:   *input.MinAmount,
		MaxAmount:   *input.MaxAmount,
		MinTenure:   *input.MinTenure,
		MaxTenure:   *input.MaxTenure,
		MinInterest: *input.MinInterest,
		MaxInterest: *input.MaxInterest,
		Status:      domain.ProductActive,
	}
	if input.ProcessingFee != nil {
		product.ProcessingFee = *input.ProcessingFee
	}
	if input.Status != "" {
		product.Status = input.Status
	}

	if err := checkProductRanges(product); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, product.Name, 0); err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, productWriteErr(err, product.Name, "create product")
	}
	return product, nil
}

// List lists products, optionally filtered by status
func (s *ProductService) List(ctx context.Context, status string) ([]*models.LoanProduct, error) {
	filter := domain.ProductStatus(status)
	if status != "" && !filter.Valid() {
		return nil, domain.NewValidationError("Invalid status", "status must be one of: Active, Inactive")
	}

	products, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, domain.StorageError("fetch products", err)
	}
	return products, nil
}

// GetByID gets a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uint) (*models.LoanProduct, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, ErrProductNotFound, "fetch product")
	}
	return product, nil
}

// Update applies a partial update; the resulting product must still have
// consistent ranges.
func (s *ProductService) Update(ctx context.Context, id uint, input *UpdateProductInput) (*models.LoanProduct, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	product, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.MinAmount != nil {
		product.MinAmount = *input.MinAmount
	}
	if input.MaxAmount != nil {
		product.MaxAmount = *input.MaxAmount
	}
	if input.MinTenure != nil {
		product.MinTenure = *input.MinTenure
	}
	if input.MaxTenure != nil {
		product.MaxTenure = *input.MaxTenure
	}
	if input.MinInterest != nil {
		product.MinInterest = *input.MinInterest
	}
	if input.MaxInterest != nil {
		product.MaxInterest = *input.MaxInterest
	}
	if input.ProcessingFee != nil {
		product.ProcessingFee = *input.ProcessingFee
	}
	if input.Status != nil {
		product.Status = *input.Status
	}

	if err := checkProductRanges(product); err != nil {
		return nil, err
	}
	if input.Name != nil {
		if err := s.ensureUniqueName(ctx, product.Name, product.ID); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, productWriteErr(err, product.Name, "update product")
	}
	return product, nil
}

// Delete removes a product. Applications that reference it keep their
// name snapshot.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return lookupErr(err, ErrProductNotFound, "delete product")
	}
	return nil
}

func (s *ProductService) ensureUniqueName(ctx context.Context, name string, excludeID uint) error {
	exists, err := s.productRepo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return domain.StorageError("check product name", err)
	}
	if exists {
		return domain.NewValidationError("Product name already exists", name)
	}
	return nil
}

// productWriteErr reports a unique index hit from a concurrent writer the same
// way as the up-front name check
func productWriteErr(err error, name, op string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.NewValidationError("Product name already exists", name)
	}
	return domain.StorageError(op, err)
}

// checkProductRanges enforces min <= max for every range and sane lower bounds
func checkProductRanges(p *models.LoanProduct) error {
	var fields []domain.FieldError
	add := func(field, msg string) {
		fields = append(fields, domain.FieldError{Field: field, Message: msg})
	}

	if p.Name == "" {
		add("name", "name is required")
	}
	if p.MinAmount < 0 {
		add("minAmount", "minAmount must not be negative")
	}
	if p.MinAmount > p.MaxAmount {
		add("maxAmount", "maxAmount must not be less than minAmount")
	}
	if p.MinTenure < 1 {
		add("minTenure", "minTenure must be at least 1 month")
	}
	if p.MinTenure > p.MaxTenure {
		add("maxTenure", "maxTenure must not be less than minTenure")
	}
	if p.MinInterest < 0 {
		add("minInterest", "minInterest must not be negative")
	}
	if p.MinInterest > p.MaxInterest {
		add("maxInterest", "maxInterest must not be less than minInterest")
	}
	if !p.Status.Valid() {
		add("status", "status must be one of: Active, Inactive")
	}

	if len(fields) == 0 {
		return nil
	}
	ve := domain.NewValidationError("Invalid product ranges", fields[0].Message)
	ve.Fields = fields
	return ve
}

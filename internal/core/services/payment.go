package services

import (
	"context"
	"errors"
	"fmt"

	"mfi-backoffice/internal/core/domain"
	"mfi-backoffice/internal/pkg/money"
	"mfi-backoffice/internal/pkg/validate"

	"gorm.io/gorm"
)

// PaymentQuote is an amortization rounded for display, with the
// full-precision figures alongside.
type PaymentQuote struct {
	Principal      float64              `json:"principal"`
	AnnualRate     float64              `json:"annualRate"`
	Months         int                  `json:"months"`
	MonthlyRate    float64              `json:"monthlyRate"`
	MonthlyPayment float64              `json:"monthlyPayment"`
	TotalPayment   float64              `json:"totalPayment"`
	TotalInterest  float64              `json:"totalInterest"`
	Raw            *domain.Amortization `json:"raw"`
}

func newPaymentQuote(a *domain.Amortization) *PaymentQuote {
	return &PaymentQuote{
		Principal:      a.Principal,
		AnnualRate:     a.AnnualRate,
		Months:         a.Months,
		MonthlyRate:    money.Round(a.MonthlyRate, 6),
		MonthlyPayment: money.Round(a.MonthlyPayment, 0),
		TotalPayment:   money.Round(a.TotalPayment, 0),
		TotalInterest:  money.Round(a.TotalInterest, 0),
		Raw:            a,
	}
}

// PaymentSummary is the repayment plan of one application
type PaymentSummary struct {
	ApplicationID uint          `json:"applicationId"`
	LoanType      string        `json:"loanType"`
	RateSource    string        `json:"rateSource"` // "product" or "override"
	ProcessingFee *float64      `json:"processingFee,omitempty"`
	Quote         *PaymentQuote `json:"quote"`
}

// CalculatorInput represents an ad hoc amortization request
type CalculatorInput struct {
	Principal  *float64 `json:"principal" validate:"required,gte=0"`
	AnnualRate *float64 `json:"annualRate" validate:"required,gte=0"`
	Months     *int     `json:"months" validate:"required,gte=1"`
}

// Calculate amortizes arbitrary inputs
func (s *ApplicationService) Calculate(input *CalculatorInput) (*PaymentQuote, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	a, err := domain.Amortize(*input.Principal, *input.AnnualRate, *input.Months)
	if err != nil {
		return nil, err
	}
	return newPaymentQuote(a), nil
}

// PaymentSummary amortizes an application at rate, or at its product's
// minimum interest when rate is nil.
func (s *ApplicationService) PaymentSummary(ctx context.Context, id uint, rate *float64) (*PaymentSummary, error) {
	app, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	summary := &PaymentSummary{
		ApplicationID: app.ID,
		LoanType:      app.Product.ProductName,
		RateSource:    "override",
	}

	product, err := s.productRepo.GetByID(ctx, app.Product.ProductID)
	switch {
	case err == nil:
		fee := money.Round(app.LoanAmount*product.ProcessingFee/100, 0)
		summary.ProcessingFee = &fee
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, domain.StorageError("fetch product", err)
	}

	annualRate := 0.0
	switch {
	case rate != nil:
		annualRate = *rate
	case product != nil:
		annualRate = product.MinInterest
		summary.RateSource = "product"
	default:
		return nil, domain.NewValidationError("Interest rate required",
			fmt.Sprintf("loan product %d no longer exists; pass rate explicitly", app.Product.ProductID))
	}

	a, err := domain.Amortize(app.LoanAmount, annualRate, app.Tenure)
	if err != nil {
		return nil, err
	}
	summary.Quote = newPaymentQuote(a)
	return summary, nil
}

package domain

import "math"

// Amortization holds the equal-installment repayment figures of a loan.
// Values are kept at full precision; rounding happens only when presented.
type Amortization struct {
	Principal      float64 `json:"principal"`
	AnnualRate     float64 `json:"annualRate"`
	Months         int     `json:"months"`
	MonthlyRate    float64 `json:"monthlyRate"`
	MonthlyPayment float64 `json:"monthlyPayment"`
	TotalPayment   float64 `json:"totalPayment"`
	TotalInterest  float64 `json:"totalInterest"`
}

// Amortize computes the monthly installment for principal repaid over months
// at annualRatePercent (10 means 10% a year).
func Amortize(principal, annualRatePercent float64, months int) (*Amortization, error) {
	if months <= 0 {
		return nil, NewValidationError("Invalid tenure", "months must be greater than 0")
	}
	if principal < 0 || math.IsNaN(principal) || math.IsInf(principal, 0) {
		return nil, NewValidationError("Invalid principal", "principal must be a non-negative number")
	}
	if annualRatePercent < 0 || math.IsNaN(annualRatePercent) || math.IsInf(annualRatePercent, 0) {
		return nil, NewValidationError("Invalid interest rate", "rate must be a non-negative number")
	}

	monthlyRate := annualRatePercent / 100 / 12
	n := float64(months)

	var payment float64
	if monthlyRate == 0 {
		payment = principal / n
	} else {
		growth := math.Pow(1+monthlyRate, n)
		payment = principal * (monthlyRate * growth) / (growth - 1)
	}

	total := payment * n
	return &Amortization{
		Principal:      principal,
		AnnualRate:     annualRatePercent,
		Months:         months,
		MonthlyRate:    monthlyRate,
		MonthlyPayment: payment,
		TotalPayment:   total,
		TotalInterest:  total - principal,
	}, nil
}

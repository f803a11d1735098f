package services

import (
	"math"
	"time"

	"mfi-backoffice/internal/adapters/persistence/models"
	"mfi-backoffice/internal/core/domain"
	"mfi-backoffice/internal/pkg/money"
)

const (
	trendMonths       = 12
	monthLabelLayout  = "Jan 2006"
	projectedInterest = 0.10
)

// MonthlyTrend counts the applications created in one calendar month
type MonthlyTrend struct {
	Month       string `json:"month"`
	Total       int    `json:"total"`
	Pending     int    `json:"pending"`
	UnderReview int    `json:"underReview"`
	Approved    int    `json:"approved"`
	Rejected    int    `json:"rejected"`
}

// TypeApproval is the approval rate of one loan type
type TypeApproval struct {
	Total    int     `json:"total"`
	Approved int     `json:"approved"`
	Rate     float64 `json:"rate"`
}

// ApprovalFunnel restates the status breakdown as funnel stages
type ApprovalFunnel struct {
	Submitted   int `json:"submitted"`
	UnderReview int `json:"underReview"`
	Approved    int `json:"approved"`
	Rejected    int `json:"rejected"`
	Pending     int `json:"pending"`
}

// ApplicationReport summarizes applications in a date range
type ApplicationReport struct {
	TotalApplications  int                                  `json:"totalApplications"`
	StatusBreakdown    map[domain.ApplicationStatus]int     `json:"statusBreakdown"`
	ApprovalRate       float64                              `json:"approvalRate"`
	RejectionRate      float64                              `json:"rejectionRate"`
	MonthlyTrends      []MonthlyTrend                       `json:"monthlyTrends"`
	LoanTypeBreakdown  map[string]int                       `json:"loanTypeBreakdown"`
	ApprovalRateByType map[string]TypeApproval              `json:"approvalRateByType"`
	AvgLoanByStatus    map[domain.ApplicationStatus]float64 `json:"avgLoanByStatus"`
	AvgProcessingTime  float64                              `json:"avgProcessingTime"`
	ApprovalFunnel     ApprovalFunnel                       `json:"approvalFunnel"`
}

// MonthlyDisbursement is the approved volume of one calendar month
type MonthlyDisbursement struct {
	Month     string  `json:"month"`
	Amount    float64 `json:"amount"`
	Count     int     `json:"count"`
	AvgAmount float64 `json:"avgAmount"`
}

// TypeDisbursement is the approved volume of one loan type
type TypeDisbursement struct {
	Amount    float64 `json:"amount"`
	Count     int     `json:"count"`
	AvgAmount float64 `json:"avgAmount"`
}

// PortfolioStats describes the approved loans
type PortfolioStats struct {
	TotalLoans   int     `json:"totalLoans"`
	TotalValue   float64 `json:"totalValue"`
	AvgLoanSize  float64 `json:"avgLoanSize"`
	LargestLoan  float64 `json:"largestLoan"`
	SmallestLoan float64 `json:"smallestLoan"`
}

// SizeRange is one loan-size bucket [Min, Max); Max is nil for the last bucket
type SizeRange struct {
	Label  string   `json:"label"`
	Min    float64  `json:"min"`
	Max    *float64 `json:"max"`
	Count  int      `json:"count"`
	Amount float64  `json:"amount"`
}

// PerformanceMetrics relates approved volume to requested volume
type PerformanceMetrics struct {
	ApprovedCount     int     `json:"approvedCount"`
	TotalCount        int     `json:"totalCount"`
	DisbursementRate  float64 `json:"disbursementRate"`
	DisbursementRatio float64 `json:"disbursementRatio"`
}

// FinancialReport summarizes disbursements in a date range
type FinancialReport struct {
	TotalDisbursed      float64                     `json:"totalDisbursed"`
	TotalRequested      float64                     `json:"totalRequested"`
	ProjectedRevenue    float64                     `json:"projectedRevenue"`
	MonthlyDisbursement []MonthlyDisbursement       `json:"monthlyDisbursement"`
	DisbursementByType  map[string]TypeDisbursement `json:"disbursementByType"`
	PortfolioStats      PortfolioStats              `json:"portfolioStats"`
	SizeRanges          []SizeRange                 `json:"sizeRanges"`
	PerformanceMetrics  PerformanceMetrics          `json:"performanceMetrics"`
}

type monthWindow struct {
	label      string
	start, end time.Time
}

// trailingMonths returns the 12 calendar months ending with now's month, oldest first
func trailingMonths(now time.Time) []monthWindow {
	windows := make([]monthWindow, 0, trendMonths)
	for i := trendMonths - 1; i >= 0; i-- {
		start := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, now.Location())
		windows = append(windows, monthWindow{
			label: start.Format(monthLabelLayout),
			start: start,
			end:   start.AddDate(0, 1, 0),
		})
	}
	return windows
}

func (w monthWindow) contains(t time.Time) bool {
	return !t.Before(w.start) && t.Before(w.end)
}

// BuildApplicationReport aggregates apps relative to now
func BuildApplicationReport(apps []*models.LoanApplication, now time.Time) *ApplicationReport {
	report := &ApplicationReport{
		TotalApplications:  len(apps),
		StatusBreakdown:    make(map[domain.ApplicationStatus]int, len(domain.ApplicationStatuses)),
		LoanTypeBreakdown:  map[string]int{},
		ApprovalRateByType: map[string]TypeApproval{},
		AvgLoanByStatus:    make(map[domain.ApplicationStatus]float64, len(domain.ApplicationStatuses)),
	}

	amountByStatus := map[domain.ApplicationStatus]float64{}
	for _, status := range domain.ApplicationStatuses {
		report.StatusBreakdown[status] = 0
	}

	var processingDays float64
	var decided int

	for _, app := range apps {
		if _, known := report.StatusBreakdown[app.Status]; known {
			report.StatusBreakdown[app.Status]++
			amountByStatus[app.Status] += app.LoanAmount
		}

		loanType := app.Product.ProductName
		report.LoanTypeBreakdown[loanType]++
		byType := report.ApprovalRateByType[loanType]
		byType.Total++
		if app.Status == domain.StatusApproved {
			byType.Approved++
		}
		report.ApprovalRateByType[loanType] = byType

		if app.Status.IsDecision() {
			days := app.UpdatedAt.Sub(app.CreatedAt).Hours() / 24
			processingDays += math.Ceil(days)
			decided++
		}
	}

	for loanType, byType := range report.ApprovalRateByType {
		byType.Rate = money.Percent(float64(byType.Approved), float64(byType.Total))
		report.ApprovalRateByType[loanType] = byType
	}
	for _, status := range domain.ApplicationStatuses {
		avg := money.Average(amountByStatus[status], report.StatusBreakdown[status])
		report.AvgLoanByStatus[status] = money.Round(avg, 0)
	}

	total := float64(report.TotalApplications)
	approved := report.StatusBreakdown[domain.StatusApproved]
	rejected := report.StatusBreakdown[domain.StatusRejected]
	report.ApprovalRate = money.Percent(float64(approved), total)
	report.RejectionRate = money.Percent(float64(rejected), total)
	report.AvgProcessingTime = money.Round(money.Average(processingDays, decided), 1)

	report.ApprovalFunnel = ApprovalFunnel{
		Submitted:   report.TotalApplications,
		UnderReview: report.StatusBreakdown[domain.StatusUnderReview],
		Approved:    approved,
		Rejected:    rejected,
		Pending:     report.StatusBreakdown[domain.StatusPending],
	}

	for _, w := range trailingMonths(now) {
		trend := MonthlyTrend{Month: w.label}
		for _, app := range apps {
			if !w.contains(app.CreatedAt) {
				continue
			}
			trend.Total++
			switch app.Status {
			case domain.StatusPending:
				trend.Pending++
			case domain.StatusUnderReview:
				trend.UnderReview++
			case domain.StatusApproved:
				trend.Approved++
			case domain.StatusRejected:
				trend.Rejected++
			}
		}
		report.MonthlyTrends = append(report.MonthlyTrends, trend)
	}

	return report
}

func sizeRanges() []SizeRange {
	bound := func(v float64) *float64 { return &v }
	return []SizeRange{
		{Label: "0-5M", Min: 0, Max: bound(5_000_000)},
		{Label: "5M-10M", Min: 5_000_000, Max: bound(10_000_000)},
		{Label: "10M-20M", Min: 10_000_000, Max: bound(20_000_000)},
		{Label: "20M+", Min: 20_000_000},
	}
}

// BuildFinancialReport aggregates disbursement figures relative to now
func BuildFinancialReport(apps []*models.LoanApplication, now time.Time) *FinancialReport {
	report := &FinancialReport{
		DisbursementByType: map[string]TypeDisbursement{},
		SizeRanges:         sizeRanges(),
	}

	var approved []*models.LoanApplication
	for _, app := range apps {
		report.TotalRequested += app.LoanAmount
		if app.Status == domain.StatusApproved {
			approved = append(approved, app)
		}
	}

	stats := &report.PortfolioStats
	for i, app := range approved {
		amount := app.LoanAmount
		report.TotalDisbursed += amount

		byType := report.DisbursementByType[app.Product.ProductName]
		byType.Amount += amount
		byType.Count++
		report.DisbursementByType[app.Product.ProductName] = byType

		if i == 0 || amount > stats.LargestLoan {
			stats.LargestLoan = amount
		}
		if i == 0 || amount < stats.SmallestLoan {
			stats.SmallestLoan = amount
		}

		for j := range report.SizeRanges {
			r := &report.SizeRanges[j]
			if amount >= r.Min && (r.Max == nil || amount < *r.Max) {
				r.Count++
				r.Amount += amount
				break
			}
		}
	}

	for loanType, byType := range report.DisbursementByType {
		byType.AvgAmount = money.Round(money.Average(byType.Amount, byType.Count), 0)
		report.DisbursementByType[loanType] = byType
	}

	stats.TotalLoans = len(approved)
	stats.TotalValue = report.TotalDisbursed
	stats.AvgLoanSize = money.Round(money.Average(report.TotalDisbursed, len(approved)), 0)

	report.ProjectedRevenue = report.TotalDisbursed * projectedInterest
	report.PerformanceMetrics = PerformanceMetrics{
		ApprovedCount:     len(approved),
		TotalCount:        len(apps),
		DisbursementRate:  money.Percent(float64(len(approved)), float64(len(apps))),
		DisbursementRatio: money.Percent(report.TotalDisbursed, report.TotalRequested),
	}

	for _, w := range trailingMonths(now) {
		month := MonthlyDisbursement{Month: w.label}
		for _, app := range approved {
			if w.contains(app.CreatedAt) {
				month.Amount += app.LoanAmount
				month.Count++
			}
		}
		month.AvgAmount = money.Round(money.Average(month.Amount, month.Count), 0)
		report.MonthlyDisbursement = append(report.MonthlyDisbursement, month)
	}

	return report
}

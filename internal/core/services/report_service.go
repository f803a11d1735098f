package services

import (
	"context"
	"strings"
	"time"

	"mfi-backoffice/internal/adapters/persistence/repositories"
	"mfi-backoffice/internal/core/domain"
	"mfi-backoffice/internal/pkg/money"
)

// ReportService computes reports over loan applications
type ReportService struct {
	appRepo repositories.ApplicationRepository
	now     func() time.Time
}

// NewReportService creates a new report service
func NewReportService(appRepo repositories.ApplicationRepository) *ReportService {
	return &ReportService{
		appRepo: appRepo,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// DateRange bounds a report on createdAt; nil ends are open
type DateRange struct {
	From *time.Time `json:"startDate,omitempty"`
	To   *time.Time `json:"endDate,omitempty"`
}

// Stats is the current snapshot shown on the dashboard
type Stats struct {
	TotalApplications int64   `json:"totalApplications"`
	Pending           int64   `json:"pending"`
	UnderReview       int64   `json:"underReview"`
	Approved          int64   `json:"approved"`
	Rejected          int64   `json:"rejected"`
	TotalDisbursed    float64 `json:"totalDisbursed"`
	AverageLoan       float64 `json:"averageLoan"`
	ApprovalRate      float64 `json:"approvalRate"`
}

// ParseDateRange parses optional startDate/endDate query values. Both accept
// YYYY-MM-DD or RFC 3339; a bare endDate covers that whole day.
func ParseDateRange(startDate, endDate string) (DateRange, error) {
	var r DateRange

	if s := strings.TrimSpace(startDate); s != "" {
		from, err := parseDate("startDate", s)
		if err != nil {
			return r, err
		}
		r.From = &from
	}

	if s := strings.TrimSpace(endDate); s != "" {
		to, err := parseDate("endDate", s)
		if err != nil {
			return r, err
		}
		if _, bare := time.Parse(dateLayout, s); bare == nil {
			to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		r.To = &to
	}

	if r.From != nil && r.To != nil && r.From.After(*r.To) {
		return r, domain.NewValidationError("Invalid date range", "startDate must not be after endDate")
	}
	return r, nil
}

// ApplicationReport builds the application report for r
func (s *ReportService) ApplicationReport(ctx context.Context, r DateRange) (*ApplicationReport, error) {
	apps, err := s.appRepo.ListCreatedBetween(ctx, r.From, r.To)
	if err != nil {
		return nil, domain.StorageError("generate application report", err)
	}
	return BuildApplicationReport(apps, s.now()), nil
}

// FinancialReport builds the financial report for r
func (s *ReportService) FinancialReport(ctx context.Context, r DateRange) (*FinancialReport, error) {
	apps, err := s.appRepo.ListCreatedBetween(ctx, r.From, r.To)
	if err != nil {
		return nil, domain.StorageError("generate financial report", err)
	}
	return BuildFinancialReport(apps, s.now()), nil
}

// Stats computes the dashboard counters with database aggregation
func (s *ReportService) Stats(ctx context.Context) (*Stats, error) {
	counts, err := s.appRepo.CountByStatus(ctx)
	if err != nil {
		return nil, domain.StorageError("fetch stats", err)
	}

	stats := &Stats{}
	for _, c := range counts {
		stats.TotalApplications += c.Count
		switch c.Status {
		case domain.StatusPending:
			stats.Pending = c.Count
		case domain.StatusUnderReview:
			stats.UnderReview = c.Count
		case domain.StatusApproved:
			stats.Approved = c.Count
		case domain.StatusRejected:
			stats.Rejected = c.Count
		}
	}

	if stats.TotalDisbursed, err = s.appRepo.SumAmount(ctx, domain.StatusApproved); err != nil {
		return nil, domain.StorageError("fetch stats", err)
	}
	avg, err := s.appRepo.AverageAmount(ctx)
	if err != nil {
		return nil, domain.StorageError("fetch stats", err)
	}
	stats.AverageLoan = money.Round(avg, 0)
	stats.ApprovalRate = money.Percent(float64(stats.Approved), float64(stats.TotalApplications))

	return stats, nil
}

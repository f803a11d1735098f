package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"mfi-backoffice/internal/adapters/persistence/models"
	"mfi-backoffice/internal/adapters/persistence/repositories"
	"mfi-backoffice/internal/core/domain"
	"mfi-backoffice/internal/pkg/money"
	"mfi-backoffice/internal/pkg/validate"

	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// DecisionNotifier is told about applications that reached a decision
type DecisionNotifier interface {
	NotifyDecision(ctx context.Context, app *models.LoanApplication) error
}

// ApplicationService handles the loan application lifecycle
type ApplicationService struct {
	appRepo     repositories.ApplicationRepository
	historyRepo repositories.HistoryRepository
	productRepo repositories.ProductRepository
	notifier    DecisionNotifier
	now         func() time.Time
}

// NewApplicationService creates a new application service. notifier may be nil.
func NewApplicationService(
	appRepo repositories.ApplicationRepository,
	historyRepo repositories.HistoryRepository,
	productRepo repositories.ProductRepository,
	notifier DecisionNotifier,
) *ApplicationService {
	return &ApplicationService{
		appRepo:     appRepo,
		historyRepo: historyRepo,
		productRepo: productRepo,
		notifier:    notifier,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// SubmitApplicationInput represents a new loan application
type SubmitApplicationInput struct {
	FullName        string   `json:"fullName" validate:"required,notblank"`
	Email           string   `json:"email" validate:"required,email"`
	Phone           string   `json:"phone" validate:"required,notblank"`
	DOB             string   `json:"dob" validate:"required,notblank"`
	Gender          string   `json:"gender" validate:"required,notblank"`
	IDNumber        string   `json:"idNumber" validate:"required,notblank"`
	Address         string   `json:"address" validate:"required,notblank"`
	LoanProductID   uint     `json:"loanProductId" validate:"required"`
	LoanAmount      *float64 `json:"loanAmount" validate:"required"`
	Tenure          *int     `json:"tenure" validate:"required"`
	Purpose         string   `json:"purpose" validate:"required,notblank"`
	Employment      string   `json:"employment" validate:"required,notblank"`
	Income          *float64 `json:"income" validate:"required,gte=0"`
	BusinessName    string   `json:"businessName"`
	YearsInBusiness *int     `json:"yearsInBusiness" validate:"omitempty,gte=0"`
	Employees       *int     `json:"employees" validate:"omitempty,gte=0"`
}

// UpdateApplicationInput is a partial edit. A body carrying only Status is
// a plain status change.
type UpdateApplicationInput struct {
	FullName        *string  `json:"fullName" validate:"omitnil,notblank"`
	Email           *string  `json:"email" validate:"omitempty,email"`
	Phone           *string  `json:"phone" validate:"omitnil,notblank"`
	DOB             *string  `json:"dob" validate:"omitnil,notblank"`
	Gender          *string  `json:"gender" validate:"omitnil,notblank"`
	IDNumber        *string  `json:"idNumber" validate:"omitnil,notblank"`
	Address         *string  `json:"address" validate:"omitnil,notblank"`
	LoanProductID   *uint    `json:"loanProductId" validate:"omitempty,gt=0"`
	LoanAmount      *float64 `json:"loanAmount"`
	Tenure          *int     `json:"tenure"`
	Purpose         *string  `json:"purpose" validate:"omitnil,notblank"`
	Employment      *string  `json:"employment" validate:"omitnil,notblank"`
	Income          *float64 `json:"income" validate:"omitempty,gte=0"`
	BusinessName    *string  `json:"businessName"`
	YearsInBusiness *int     `json:"yearsInBusiness" validate:"omitempty,gte=0"`
	Employees       *int     `json:"employees" validate:"omitempty,gte=0"`
	Status          *string  `json:"status"`
}

// statusOnly reports whether the patch carries nothing but a status
func (in *UpdateApplicationInput) statusOnly() bool {
	return in.Status != nil &&
		in.FullName == nil && in.Email == nil && in.Phone == nil && in.DOB == nil &&
		in.Gender == nil && in.IDNumber == nil && in.Address == nil &&
		in.LoanProductID == nil && in.LoanAmount == nil && in.Tenure == nil &&
		in.Purpose == nil && in.Employment == nil && in.Income == nil &&
		in.BusinessName == nil && in.YearsInBusiness == nil && in.Employees == nil
}

// ListApplicationsInput filters an application listing
type ListApplicationsInput struct {
	Status string
	Search string
	Offset int
	Limit  int // 0 = all
}

// Submit validates an application against its product and stores it as Pending
func (s *ApplicationService) Submit(ctx context.Context, input *SubmitApplicationInput, actor *domain.Session, ipAddress string) (*models.LoanApplication, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	dob, err := parseDate("dob", input.DOB)
	if err != nil {
		return nil, err
	}

	product, err := s.resolveProduct(ctx, input.LoanProductID)
	if err != nil {
		return nil, err
	}
	if product.Status != domain.ProductActive {
		return nil, domain.NewValidationError("Invalid loan product", fmt.Sprintf("%s is not accepting applications", product.Name))
	}
	if err := checkLoanBounds(product, *input.LoanAmount, *input.Tenure); err != nil {
		return nil, err
	}

	now := s.now()
	app := &models.LoanApplication{
		FullName:        strings.TrimSpace(input.FullName),
		Email:           strings.TrimSpace(input.Email),
		Phone:           strings.TrimSpace(input.Phone),
		DOB:             dob,
		Gender:          input.Gender,
		IDNumber:        strings.TrimSpace(input.IDNumber),
		Address:         input.Address,
		Product:         models.ProductSnapshot{ProductID: product.ID, ProductName: product.Name},
		LoanAmount:      *input.LoanAmount,
		Tenure:          *input.Tenure,
		Purpose:         input.Purpose,
		Employment:      input.Employment,
		Income:          *input.Income,
		BusinessName:    input.BusinessName,
		YearsInBusiness: input.YearsInBusiness,
		Employees:       input.Employees,
		Status:          domain.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, domain.StorageError("create application", err)
	}

	s.recordHistory(ctx, &models.ApplicationHistory{
		ApplicationID: app.ID,
		Action:        models.HistoryCreate,
		ToStatus:      domain.StatusPending,
		Description:   fmt.Sprintf("Application submitted for %s (%s)", product.Name, money.Format(app.LoanAmount)),
		PerformedBy:   actor.ActorID(),
		IPAddress:     ipAddress,
	})

	log.Printf("✅ Application #%d submitted: %s, %s", app.ID, app.FullName, product.Name)
	return app, nil
}

// List lists applications newest first
func (s *ApplicationService) List(ctx context.Context, input ListApplicationsInput) ([]*models.LoanApplication, int64, error) {
	filter := repositories.ApplicationFilter{
		Search: input.Search,
		Offset: input.Offset,
		Limit:  input.Limit,
	}
	if input.Status != "" {
		status, err := domain.ParseApplicationStatus(input.Status)
		if err != nil {
			return nil, 0, err
		}
		filter.Status = status
	}

	apps, total, err := s.appRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, domain.StorageError("fetch applications", err)
	}
	return apps, total, nil
}

// GetByID gets an application by ID
func (s *ApplicationService) GetByID(ctx context.Context, id uint) (*models.LoanApplication, error) {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, ErrApplicationNotFound, "fetch application")
	}
	return app, nil
}

// UpdateStatus moves an application to a new status and bumps updatedAt.
// Repeating the same status is allowed.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id uint, rawStatus string, actor *domain.Session, ipAddress string) (*models.LoanApplication, error) {
	status, err := domain.ParseApplicationStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	app, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := app.Status
	if !domain.IsValidTransition(from, status) {
		return nil, domain.NewValidationError("Invalid status transition", fmt.Sprintf("cannot move from %s to %s", from, status))
	}

	now := s.now()
	if err := s.appRepo.UpdateStatus(ctx, id, status, now); err != nil {
		return nil, domain.StorageError("update application status", err)
	}
	app.Status = status
	app.UpdatedAt = now

	s.recordHistory(ctx, &models.ApplicationHistory{
		ApplicationID: id,
		Action:        models.HistoryStatusChange,
		FromStatus:    from,
		ToStatus:      status,
		Description:   fmt.Sprintf("Status changed from %s to %s", from, status),
		PerformedBy:   actor.ActorID(),
		IPAddress:     ipAddress,
	})

	log.Printf("✅ Application #%d status: %s -> %s", id, from, status)
	s.notifyIfDecided(app, from)
	return app, nil
}

// Update applies a field patch. Edits touching amount, tenure or product are
// re-checked against the (possibly new) product's ranges.
func (s *ApplicationService) Update(ctx context.Context, id uint, input *UpdateApplicationInput, actor *domain.Session, ipAddress string) (*models.LoanApplication, error) {
	if input.statusOnly() {
		return s.UpdateStatus(ctx, id, *input.Status, actor, ipAddress)
	}
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	app, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := app.Status

	var changed []string
	setString := func(field string, dst *string, src *string) {
		if src == nil {
			return
		}
		if v := strings.TrimSpace(*src); v != *dst {
			*dst = v
			changed = append(changed, field)
		}
	}
	setString("fullName", &app.FullName, input.FullName)
	setString("email", &app.Email, input.Email)
	setString("phone", &app.Phone, input.Phone)
	setString("gender", &app.Gender, input.Gender)
	setString("idNumber", &app.IDNumber, input.IDNumber)
	setString("address", &app.Address, input.Address)
	setString("purpose", &app.Purpose, input.Purpose)
	setString("employment", &app.Employment, input.Employment)
	setString("businessName", &app.BusinessName, input.BusinessName)

	if input.DOB != nil {
		dob, err := parseDate("dob", *input.DOB)
		if err != nil {
			return nil, err
		}
		app.DOB = dob
		changed = append(changed, "dob")
	}
	if input.Income != nil {
		app.Income = *input.Income
		changed = append(changed, "income")
	}
	if input.YearsInBusiness != nil {
		app.YearsInBusiness = input.YearsInBusiness
		changed = append(changed, "yearsInBusiness")
	}
	if input.Employees != nil {
		app.Employees = input.Employees
		changed = append(changed, "employees")
	}

	if input.LoanProductID != nil || input.LoanAmount != nil || input.Tenure != nil {
		productID := app.Product.ProductID
		if input.LoanProductID != nil {
			productID = *input.LoanProductID
		}
		product, err := s.resolveProduct(ctx, productID)
		if err != nil {
			return nil, err
		}
		if input.LoanAmount != nil {
			app.LoanAmount = *input.LoanAmount
			changed = append(changed, "loanAmount")
		}
		if input.Tenure != nil {
			app.Tenure = *input.Tenure
			changed = append(changed, "tenure")
		}
		if err := checkLoanBounds(product, app.LoanAmount, app.Tenure); err != nil {
			return nil, err
		}
		if input.LoanProductID != nil {
			app.Product = models.ProductSnapshot{ProductID: product.ID, ProductName: product.Name}
			changed = append(changed, "loanProductId")
		}
	}

	if input.Status != nil {
		status, err := domain.ParseApplicationStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		if !domain.IsValidTransition(from, status) {
			return nil, domain.NewValidationError("Invalid status transition", fmt.Sprintf("cannot move from %s to %s", from, status))
		}
		app.Status = status
	}

	app.UpdatedAt = s.now()
	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, domain.StorageError("update application", err)
	}

	if len(changed) > 0 {
		s.recordHistory(ctx, &models.ApplicationHistory{
			ApplicationID: id,
			Action:        models.HistoryUpdate,
			Description:   "Updated " + strings.Join(changed, ", "),
			PerformedBy:   actor.ActorID(),
			IPAddress:     ipAddress,
		})
	}
	if input.Status != nil {
		s.recordHistory(ctx, &models.ApplicationHistory{
			ApplicationID: id,
			Action:        models.HistoryStatusChange,
			FromStatus:    from,
			ToStatus:      app.Status,
			Description:   fmt.Sprintf("Status changed from %s to %s", from, app.Status),
			PerformedBy:   actor.ActorID(),
			IPAddress:     ipAddress,
		})
		s.notifyIfDecided(app, from)
	}

	return app, nil
}

// Delete hard deletes an application and its history. Attached documents
// are not touched.
func (s *ApplicationService) Delete(ctx context.Context, id uint) error {
	if err := s.appRepo.Delete(ctx, id); err != nil {
		return lookupErr(err, ErrApplicationNotFound, "delete application")
	}
	log.Printf("🗑️ Application #%d deleted", id)
	return nil
}

// History returns the audit trail of an application, oldest first
func (s *ApplicationService) History(ctx context.Context, id uint) ([]*models.ApplicationHistory, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	entries, err := s.historyRepo.ListByApplication(ctx, id)
	if err != nil {
		return nil, domain.StorageError("fetch application history", err)
	}
	return entries, nil
}

// resolveProduct loads the product an application points at; a missing
// product is a validation failure of the application, not a 404.
func (s *ApplicationService) resolveProduct(ctx context.Context, id uint) (*models.LoanProduct, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewValidationError("Invalid loan product", fmt.Sprintf("loan product %d does not exist", id))
		}
		return nil, domain.StorageError("fetch product", err)
	}
	return product, nil
}

func (s *ApplicationService) recordHistory(ctx context.Context, entry *models.ApplicationHistory) {
	if err := s.historyRepo.Create(ctx, entry); err != nil {
		log.Printf("⚠️ Failed to record history for application #%d: %v", entry.ApplicationID, err)
	}
}

func (s *ApplicationService) notifyIfDecided(app *models.LoanApplication, from domain.ApplicationStatus) {
	if s.notifier == nil || !app.Status.IsDecision() || app.Status == from {
		return
	}
	snapshot := *app
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := s.notifier.NotifyDecision(ctx, &snapshot); err != nil {
			log.Printf("⚠️ Decision notification for application #%d failed: %v", snapshot.ID, err)
		}
	}()
}

// checkLoanBounds enforces the product's amount and tenure ranges
func checkLoanBounds(product *models.LoanProduct, amount float64, tenure int) error {
	if amount < product.MinAmount || amount > product.MaxAmount {
		ve := domain.NewValidationError("Loan amount out of range",
			fmt.Sprintf("loanAmount must be between %s and %s for %s",
				money.Format(product.MinAmount), money.Format(product.MaxAmount), product.Name))
		ve.Fields = []domain.FieldError{{Field: "loanAmount", Message: ve.Detail}}
		return ve
	}
	if tenure < product.MinTenure || tenure > product.MaxTenure {
		ve := domain.NewValidationError("Tenure out of range",
			fmt.Sprintf("tenure must be between %d and %d months for %s",
				product.MinTenure, product.MaxTenure, product.Name))
		ve.Fields = []domain.FieldError{{Field: "tenure", Message: ve.Detail}}
		return ve
	}
	return nil
}

// parseDate accepts YYYY-MM-DD or RFC 3339
func parseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, domain.NewValidationError("Invalid request", field+" must be a date (YYYY-MM-DD)")
}

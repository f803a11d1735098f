package repositories

import (
	"context"
	"time"

	"mfi-backoffice/internal/adapters/persistence/models"
	"mfi-backoffice/internal/core/domain"
)

// UserRepository defines staff user persistence
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
}

// RefreshTokenRepository defines refresh token persistence
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// ProductRepository defines loan product persistence
type ProductRepository interface {
	Create(ctx context.Context, product *models.LoanProduct) error
	GetByID(ctx context.Context, id uint) (*models.LoanProduct, error)
	List(ctx context.Context, status domain.ProductStatus) ([]*models.LoanProduct, error)
	ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, product *models.LoanProduct) error
	Delete(ctx context.Context, id uint) error
}

// ApplicationFilter narrows an application listing
type ApplicationFilter struct {
	Status domain.ApplicationStatus
	Search string
	Offset int
	Limit  int // 0 = no limit
}

// StatusCount is one row of a count-by-status aggregation
type StatusCount struct {
	Status domain.ApplicationStatus
	Count  int64
}

// ApplicationRepository defines loan application persistence
type ApplicationRepository interface {
	Create(ctx context.Context, app *models.LoanApplication) error
	GetByID(ctx context.Context, id uint) (*models.LoanApplication, error)
	List(ctx context.Context, filter ApplicationFilter) ([]*models.LoanApplication, int64, error)
	ListCreatedBetween(ctx context.Context, from, to *time.Time) ([]*models.LoanApplication, error)
	Update(ctx context.Context, app *models.LoanApplication) error
	UpdateStatus(ctx context.Context, id uint, status domain.ApplicationStatus, at time.Time) error
	Delete(ctx context.Context, id uint) error
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	SumAmount(ctx context.Context, status domain.ApplicationStatus) (float64, error)
	AverageAmount(ctx context.Context) (float64, error)
}

// HistoryRepository defines application audit trail persistence
type HistoryRepository interface {
	Create(ctx context.Context, entry *models.ApplicationHistory) error
	ListByApplication(ctx context.Context, applicationID uint) ([]*models.ApplicationHistory, error)
}

// DocumentFilter narrows a document listing; empty fields are ignored
type DocumentFilter struct {
	RelatedTo domain.DocumentRelation
	RelatedID string
	Category  domain.DocumentCategory
	Status    domain.DocumentStatus
}

// DocumentRepository defines document metadata persistence
type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id uint) (*models.Document, error)
	List(ctx context.Context, filter DocumentFilter) ([]*models.Document, error)
	Update(ctx context.Context, doc *models.Document) error
	Delete(ctx context.Context, id uint) error
}

// OrphanedFileRepository tracks stored files left behind by deletions
type OrphanedFileRepository interface {
	Create(ctx context.Context, orphan *models.OrphanedFile) error
	List(ctx context.Context, limit int) ([]*models.OrphanedFile, error)
	RecordFailure(ctx context.Context, id uint, reason string) error
	Delete(ctx context.Context, id uint) error
}

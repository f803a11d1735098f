package models

import (
	"time"

	"mfi-backoffice/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Staff & Sessions
// ============================================================

// User represents a back-office staff account
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      domain.Role    `gorm:"size:20;not null;default:'officer'" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"isActive"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint        `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Role      domain.Role `json:"role"`
	IsActive  bool        `json:"isActive"`
	CreatedAt time.Time   `json:"createdAt"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents a stored (hashed) refresh token
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"userId"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expiresAt"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	RevokedAt *time.Time `gorm:"index" json:"revokedAt"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Loan Products
// ============================================================

// LoanProduct defines the valid ranges of a loan offering
type LoanProduct struct {
	ID            uint                 `gorm:"primaryKey" json:"id"`
	Name          string               `gorm:"uniqueIndex;size:120;not null" json:"name"`
	Description   string               `gorm:"type:text" json:"description"`
	MinAmount     float64              `gorm:"type:decimal(15,2);not null" json:"minAmount"`
	MaxAmount     float64              `gorm:"type:decimal(15,2);not null" json:"maxAmount"`
	MinTenure     int                  `gorm:"not null" json:"minTenure"`
	MaxTenure     int                  `gorm:"not null" json:"maxTenure"`
	MinInterest   float64              `gorm:"type:decimal(6,3);not null" json:"minInterest"`
	MaxInterest   float64              `gorm:"type:decimal(6,3);not null" json:"maxInterest"`
	ProcessingFee float64              `gorm:"type:decimal(6,3);default:0" json:"processingFee"`
	Status        domain.ProductStatus `gorm:"size:20;not null;default:'Active';index" json:"status"`
	CreatedAt     time.Time            `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time            `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (LoanProduct) TableName() string {
	return "loan_products"
}

// ============================================================
// Loan Applications
// ============================================================

// ProductSnapshot records which product an application was submitted
// against and the product's name at that moment. Reports group by the
// name so they still render after the product is renamed or deleted.
type ProductSnapshot struct {
	ProductID   uint   `gorm:"column:loan_product_id;index;not null" json:"productId"`
	ProductName string `gorm:"column:loan_type;size:120;index;not null" json:"productNameAtSubmission"`
}

// LoanApplication represents a submitted loan application
type LoanApplication struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Applicant
	FullName string    `gorm:"size:150;not null" json:"fullName"`
	Email    string    `gorm:"size:150;not null;index" json:"email"`
	Phone    string    `gorm:"size:30;not null" json:"phone"`
	DOB      time.Time `gorm:"column:dob;not null" json:"dob"`
	Gender   string    `gorm:"size:20;not null" json:"gender"`
	IDNumber string    `gorm:"column:id_number;size:50;not null;index" json:"idNumber"`
	Address  string    `gorm:"type:text;not null" json:"address"`

	// Loan
	Product    ProductSnapshot `gorm:"embedded" json:"product"`
	LoanAmount float64         `gorm:"type:decimal(15,2);not null" json:"loanAmount"`
	Tenure     int             `gorm:"not null" json:"tenure"`
	Purpose    string          `gorm:"type:text;not null" json:"purpose"`

	// Employment
	Employment      string  `gorm:"size:50;not null" json:"employment"`
	Income          float64 `gorm:"type:decimal(15,2);not null" json:"income"`
	BusinessName    string  `gorm:"size:150" json:"businessName,omitempty"`
	YearsInBusiness *int    `json:"yearsInBusiness,omitempty"`
	Employees       *int    `json:"employees,omitempty"`

	Status    domain.ApplicationStatus `gorm:"size:20;not null;default:'Pending';index" json:"status"`
	CreatedAt time.Time                `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time                `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (LoanApplication) TableName() string {
	return "loan_applications"
}

// LoanApplicationResponse DTO
type LoanApplicationResponse struct {
	ID              uint                     `json:"id"`
	FullName        string                   `json:"fullName"`
	Email           string                   `json:"email"`
	Phone           string                   `json:"phone"`
	DOB             string                   `json:"dob"`
	Gender          string                   `json:"gender"`
	IDNumber        string                   `json:"idNumber"`
	Address         string                   `json:"address"`
	LoanProductID   uint                     `json:"loanProductId"`
	LoanType        string                   `json:"loanType"`
	Product         ProductSnapshot          `json:"product"`
	LoanAmount      float64                  `json:"loanAmount"`
	Tenure          int                      `json:"tenure"`
	Purpose         string                   `json:"purpose"`
	Employment      string                   `json:"employment"`
	Income          float64                  `json:"income"`
	BusinessName    string                   `json:"businessName,omitempty"`
	YearsInBusiness *int                     `json:"yearsInBusiness,omitempty"`
	Employees       *int                     `json:"employees,omitempty"`
	Status          domain.ApplicationStatus `json:"status"`
	CreatedAt       time.Time                `json:"createdAt"`
	UpdatedAt       time.Time                `json:"updatedAt"`
}

func (a *LoanApplication) ToResponse() *LoanApplicationResponse {
	return &LoanApplicationResponse{
		ID:              a.ID,
		FullName:        a.FullName,
		Email:           a.Email,
		Phone:           a.Phone,
		DOB:             a.DOB.Format("2006-01-02"),
		Gender:          a.Gender,
		IDNumber:        a.IDNumber,
		Address:         a.Address,
		LoanProductID:   a.Product.ProductID,
		LoanType:        a.Product.ProductName,
		Product:         a.Product,
		LoanAmount:      a.LoanAmount,
		Tenure:          a.Tenure,
		Purpose:         a.Purpose,
		Employment:      a.Employment,
		Income:          a.Income,
		BusinessName:    a.BusinessName,
		YearsInBusiness: a.YearsInBusiness,
		Employees:       a.Employees,
		Status:          a.Status,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// ApplicationHistory is an audit row written on every change to an application
type ApplicationHistory struct {
	ID            uint                     `gorm:"primaryKey" json:"id"`
	ApplicationID uint                     `gorm:"not null;index" json:"applicationId"`
	Action        string                   `gorm:"size:30;not null" json:"action"`
	FromStatus    domain.ApplicationStatus `gorm:"size:20" json:"fromStatus,omitempty"`
	ToStatus      domain.ApplicationStatus `gorm:"size:20" json:"toStatus,omitempty"`
	Description   string                   `gorm:"type:text" json:"description"`
	PerformedBy   *uint                    `gorm:"index" json:"performedBy"`
	IPAddress     string                   `gorm:"size:50" json:"ipAddress"`
	CreatedAt     time.Time                `gorm:"autoCreateTime" json:"createdAt"`
}

func (ApplicationHistory) TableName() string {
	return "application_histories"
}

// History actions
const (
	HistoryCreate       = "CREATE"
	HistoryStatusChange = "STATUS_CHANGE"
	HistoryUpdate       = "UPDATE"
)

// ============================================================
// Documents
// ============================================================

// Document is the metadata row of an uploaded file
type Document struct {
	ID             uint                    `gorm:"primaryKey" json:"id"`
	RelatedTo      domain.DocumentRelation `gorm:"size:20;not null;index:idx_documents_related" json:"relatedTo"`
	RelatedID      string                  `gorm:"size:64;not null;index:idx_documents_related" json:"relatedId"`
	FileName       string                  `gorm:"size:255;not null" json:"fileName"`
	OriginalName   string                  `gorm:"size:255;not null" json:"originalName"`
	FileType       string                  `gorm:"size:20;not null" json:"fileType"`
	FileSize       int64                   `gorm:"not null" json:"fileSize"`
	MimeType       string                  `gorm:"size:150;not null" json:"mimeType"`
	FilePath       string                  `gorm:"size:500;not null" json:"filePath"`
	FileURL        string                  `gorm:"size:500" json:"fileUrl"`
	StorageBackend string                  `gorm:"size:20;not null" json:"storageBackend"`
	StorageKey     string                  `gorm:"size:500;not null" json:"-"`
	Category       domain.DocumentCategory `gorm:"size:30;not null;index" json:"category"`
	Description    string                  `gorm:"type:text" json:"description"`
	Tags           []string                `gorm:"serializer:json" json:"tags"`
	Status         domain.DocumentStatus   `gorm:"size:20;not null;default:'Active';index" json:"status"`
	Verified       bool                    `gorm:"default:false" json:"verified"`
	VerifiedBy     *uint                   `json:"verifiedBy"`
	VerifiedAt     *time.Time              `json:"verifiedAt"`
	UploadedBy     *uint                   `json:"uploadedBy"`
	CreatedAt      time.Time               `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time               `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Document) TableName() string {
	return "documents"
}

// OrphanedFile is a stored file whose metadata row was removed while the
// file itself could not be deleted. The reconciliation job retries these.
type OrphanedFile struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	DocumentID uint      `gorm:"index" json:"documentId"`
	Backend    string    `gorm:"size:20;not null" json:"backend"`
	StorageKey string    `gorm:"size:500;not null" json:"storageKey"`
	LastError  string    `gorm:"type:text" json:"lastError"`
	Attempts   int       `gorm:"not null;default:0" json:"attempts"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (OrphanedFile) TableName() string {
	return "orphaned_files"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate creates or updates every table the service owns
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&LoanProduct{},
		&LoanApplication{},
		&ApplicationHistory{},
		&Document{},
		&OrphanedFile{},
	)
}

package domain

// Role represents a staff role in the back office
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleOfficer Role = "officer"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleOfficer:
		return true
	}
	return false
}

// ApplicationStatus is the lifecycle state of a loan application
type ApplicationStatus string

const (
	StatusPending     ApplicationStatus = "Pending"
	StatusUnderReview ApplicationStatus = "Under Review"
	StatusApproved    ApplicationStatus = "Approved"
	StatusRejected    ApplicationStatus = "Rejected"
)

// ApplicationStatuses lists every recognized status in funnel order
var ApplicationStatuses = []ApplicationStatus{
	StatusPending,
	StatusUnderReview,
	StatusApproved,
	StatusRejected,
}

// Valid reports whether s is one of the four recognized statuses
func (s ApplicationStatus) Valid() bool {
	for _, known := range ApplicationStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsDecision reports whether s is a final decision (Approved or Rejected)
func (s ApplicationStatus) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

// ParseApplicationStatus converts raw input into a status, rejecting unknown values
func ParseApplicationStatus(raw string) (ApplicationStatus, error) {
	s := ApplicationStatus(raw)
	if !s.Valid() {
		return "", NewValidationError("Invalid status", "status must be one of: Pending, Under Review, Approved, Rejected")
	}
	return s, nil
}

// ProductStatus is the availability of a loan product
type ProductStatus string

const (
	ProductActive   ProductStatus = "Active"
	ProductInactive ProductStatus = "Inactive"
)

// Valid reports whether s is a known product status
func (s ProductStatus) Valid() bool {
	return s == ProductActive || s == ProductInactive
}

// DocumentRelation names the kind of entity a document is attached to
type DocumentRelation string

const (
	RelatedApplication DocumentRelation = "Application"
	RelatedProduct     DocumentRelation = "Product"
	RelatedUser        DocumentRelation = "User"
	RelatedBranch      DocumentRelation = "Branch"
	RelatedOther       DocumentRelation = "Other"
)

// Valid reports whether r is a known relation
func (r DocumentRelation) Valid() bool {
	switch r {
	case RelatedApplication, RelatedProduct, RelatedUser, RelatedBranch, RelatedOther:
		return true
	}
	return false
}

// DocumentCategory is the kind of supporting document
type DocumentCategory string

const (
	CategoryIdentity      DocumentCategory = "Identity"
	CategoryIncome        DocumentCategory = "Income"
	CategoryBusiness      DocumentCategory = "Business"
	CategoryBankStatement DocumentCategory = "Bank Statement"
	CategoryCollateral    DocumentCategory = "Collateral"
	CategoryAgreement     DocumentCategory = "Agreement"
	CategoryOther         DocumentCategory = "Other"
)

// Valid reports whether c is a known category
func (c DocumentCategory) Valid() bool {
	switch c {
	case CategoryIdentity, CategoryIncome, CategoryBusiness, CategoryBankStatement,
		CategoryCollateral, CategoryAgreement, CategoryOther:
		return true
	}
	return false
}

// DocumentStatus is the lifecycle state of document metadata
type DocumentStatus string

const (
	DocumentActive   DocumentStatus = "Active"
	DocumentArchived DocumentStatus = "Archived"
	DocumentDeleted  DocumentStatus = "Deleted"
)

// Valid reports whether s is a known document status
func (s DocumentStatus) Valid() bool {
	return s == DocumentActive || s == DocumentArchived || s == DocumentDeleted
}

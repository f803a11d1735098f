package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"mfi-backoffice/internal/adapters/persistence/models"
	"mfi-backoffice/internal/adapters/persistence/repositories"
	"mfi-backoffice/internal/adapters/storage"
	"mfi-backoffice/internal/core/domain"
	"mfi-backoffice/internal/pkg/validate"

	"github.com/google/uuid"
)

const reconcileBatch = 100

// allowed MIME types and the file type each maps to
var allowedMimeTypes = map[string]string{
	"image/jpeg":         "image",
	"image/png":          "image",
	"image/gif":          "image",
	"image/webp":         "image",
	"application/pdf":    "pdf",
	"application/msword": "word",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "word",
	"application/vnd.ms-excel": "excel",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": "excel",
}

// MIME types by extension, used when the client sends a generic content type
var extensionMimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// DocumentService handles document uploads and their metadata
type DocumentService struct {
	docRepo     repositories.DocumentRepository
	orphanRepo  repositories.OrphanedFileRepository
	store       storage.Storage
	maxFileSize int64
	now         func() time.Time
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo repositories.DocumentRepository,
	orphanRepo repositories.OrphanedFileRepository,
	store storage.Storage,
	maxFileSize int64,
) *DocumentService {
	return &DocumentService{
		docRepo:     docRepo,
		orphanRepo:  orphanRepo,
		store:       store,
		maxFileSize: maxFileSize,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// UploadFile is one file of a multipart upload
type UploadFile struct {
	OriginalName string
	Size         int64
	MimeType     string
	Open         func() (io.ReadCloser, error)
}

// UploadInput carries the form fields shared by every file of an upload
type UploadInput struct {
	RelatedTo   domain.DocumentRelation `json:"relatedTo" validate:"required,relation"`
	RelatedID   string                  `json:"relatedId" validate:"required,max=64"`
	Category    domain.DocumentCategory `json:"category" validate:"omitempty,doccategory"`
	Description string                  `json:"description"`
	Tags        []string                `json:"tags"`
}

// UploadResult is the outcome of one file
type UploadResult struct {
	OriginalName string           `json:"originalName"`
	Success      bool             `json:"success"`
	Document     *models.Document `json:"document,omitempty"`
	Error        string           `json:"error,omitempty"`
}

// UpdateDocumentInput represents a partial metadata update
type UpdateDocumentInput struct {
	Category    *domain.DocumentCategory `json:"category" validate:"omitempty,doccategory"`
	Description *string                  `json:"description"`
	Tags        *[]string                `json:"tags"`
	Status      *domain.DocumentStatus   `json:"status" validate:"omitempty,docstatus"`
	Verified    *bool                    `json:"verified"`
}

// ListDocumentsInput filters a document listing
type ListDocumentsInput struct {
	RelatedTo string
	RelatedID string
	Category  string
	Status    string
}

// DeleteResult reports whether the stored file outlived its metadata
type DeleteResult struct {
	FileRemovalFailed bool `json:"fileRemovalFailed"`
}

// Upload stores every acceptable file and records its metadata. Files are
// handled one after another; a failing file does not stop its siblings.
func (s *DocumentService) Upload(ctx context.Context, input *UploadInput, files []UploadFile, actor *domain.Session) ([]UploadResult, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, domain.NewValidationError("No files uploaded", "send one or more files in the files field")
	}

	category := input.Category
	if category == "" {
		category = domain.CategoryOther
	}

	results := make([]UploadResult, 0, len(files))
	for _, f := range files {
		doc, err := s.uploadOne(ctx, input, category, f, actor)
		result := UploadResult{OriginalName: f.OriginalName, Success: err == nil, Document: doc}
		if err != nil {
			result.Error = uploadErrorMessage(err)
			log.Printf("⚠️ Upload of %q failed: %v", f.OriginalName, err)
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *DocumentService) uploadOne(ctx context.Context, input *UploadInput, category domain.DocumentCategory, f UploadFile, actor *domain.Session) (*models.Document, error) {
	mimeType, fileType, err := detectFileType(f.OriginalName, f.MimeType)
	if err != nil {
		return nil, err
	}
	if f.Size > s.maxFileSize {
		return nil, domain.NewValidationError("File too large",
			fmt.Sprintf("%s is %d bytes; the limit is %d bytes", f.OriginalName, f.Size, s.maxFileSize))
	}

	r, err := f.Open()
	if err != nil {
		return nil, domain.StorageError("read uploaded file", err)
	}
	defer r.Close()

	fileName := uuid.New().String() + strings.ToLower(filepath.Ext(f.OriginalName))
	stored, err := s.store.Save(ctx, fileName, r, f.Size, mimeType)
	if err != nil {
		return nil, domain.StorageError("store file", err)
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}
	doc := &models.Document{
		RelatedTo:      input.RelatedTo,
		RelatedID:      input.RelatedID,
		FileName:       fileName,
		OriginalName:   f.OriginalName,
		FileType:       fileType,
		FileSize:       f.Size,
		MimeType:       mimeType,
		FilePath:       stored.Path,
		FileURL:        stored.URL,
		StorageBackend: s.store.Name(),
		StorageKey:     stored.Key,
		Category:       category,
		Description:    input.Description,
		Tags:           tags,
		Status:         domain.DocumentActive,
		UploadedBy:     actor.ActorID(),
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		if delErr := s.store.Delete(ctx, stored.Key); delErr != nil {
			log.Printf("⚠️ Failed to remove %s after metadata error: %v", stored.Key, delErr)
		}
		return nil, domain.StorageError("save document metadata", err)
	}
	return doc, nil
}

// List lists documents matching the filter
func (s *DocumentService) List(ctx context.Context, input ListDocumentsInput) ([]*models.Document, error) {
	filter := repositories.DocumentFilter{
		RelatedTo: domain.DocumentRelation(input.RelatedTo),
		RelatedID: input.RelatedID,
		Category:  domain.DocumentCategory(input.Category),
		Status:    domain.DocumentStatus(input.Status),
	}
	if filter.RelatedTo != "" && !filter.RelatedTo.Valid() {
		return nil, domain.NewValidationError("Invalid relatedTo", "relatedTo must be one of: Application, Product, User, Branch, Other")
	}
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, domain.NewValidationError("Invalid category", string(filter.Category))
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.NewValidationError("Invalid status", "status must be one of: Active, Archived, Deleted")
	}

	docs, err := s.docRepo.List(ctx, filter)
	if err != nil {
		return nil, domain.StorageError("fetch documents", err)
	}
	return docs, nil
}

// GetByID gets a document by ID
func (s *DocumentService) GetByID(ctx context.Context, id uint) (*models.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, ErrDocumentNotFound, "fetch document")
	}
	return doc, nil
}

// Update patches document metadata. Marking a document verified records
// who verified it and when; unverifying clears both.
func (s *DocumentService) Update(ctx context.Context, id uint, input *UpdateDocumentInput, actor *domain.Session) (*models.Document, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	doc, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Category != nil {
		doc.Category = *input.Category
	}
	if input.Description != nil {
		doc.Description = *input.Description
	}
	if input.Tags != nil {
		doc.Tags = *input.Tags
	}
	if input.Status != nil {
		doc.Status = *input.Status
	}
	if input.Verified != nil {
		doc.Verified = *input.Verified
		if doc.Verified {
			now := s.now()
			doc.VerifiedBy = actor.ActorID()
			doc.VerifiedAt = &now
		} else {
			doc.VerifiedBy = nil
			doc.VerifiedAt = nil
		}
	}

	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, domain.StorageError("update document", err)
	}
	return doc, nil
}

// Delete removes the metadata row, then the stored file. A file that cannot
// be removed is recorded for the reconciliation job and reported, but the
// delete still succeeds.
func (s *DocumentService) Delete(ctx context.Context, id uint) (*DeleteResult, error) {
	doc, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.docRepo.Delete(ctx, id); err != nil {
		return nil, lookupErr(err, ErrDocumentNotFound, "delete document")
	}

	result := &DeleteResult{}
	if removeErr := s.removeFile(ctx, doc); removeErr != nil {
		result.FileRemovalFailed = true
		log.Printf("⚠️ Document #%d deleted but file %s was not removed: %v", doc.ID, doc.StorageKey, removeErr)

		orphan := &models.OrphanedFile{
			DocumentID: doc.ID,
			Backend:    doc.StorageBackend,
			StorageKey: doc.StorageKey,
			LastError:  removeErr.Error(),
			Attempts:   1,
		}
		if err := s.orphanRepo.Create(ctx, orphan); err != nil {
			log.Printf("⚠️ Failed to record orphaned file %s: %v", doc.StorageKey, err)
		}
	}
	return result, nil
}

func (s *DocumentService) removeFile(ctx context.Context, doc *models.Document) error {
	if doc.StorageBackend != s.store.Name() {
		return fmt.Errorf("file is held by the %s backend, %s is active", doc.StorageBackend, s.store.Name())
	}
	return s.store.Delete(ctx, doc.StorageKey)
}

// ReconcileOrphans retries removal of orphaned files held by the active
// backend and returns how many were cleaned up.
func (s *DocumentService) ReconcileOrphans(ctx context.Context) (int, error) {
	orphans, err := s.orphanRepo.List(ctx, reconcileBatch)
	if err != nil {
		return 0, domain.StorageError("fetch orphaned files", err)
	}

	removed := 0
	for _, orphan := range orphans {
		if orphan.Backend != s.store.Name() {
			continue
		}
		if err := s.store.Delete(ctx, orphan.StorageKey); err != nil {
			if recErr := s.orphanRepo.RecordFailure(ctx, orphan.ID, err.Error()); recErr != nil {
				log.Printf("⚠️ Failed to update orphan #%d: %v", orphan.ID, recErr)
			}
			continue
		}
		if err := s.orphanRepo.Delete(ctx, orphan.ID); err != nil {
			log.Printf("⚠️ Removed %s but could not clear orphan #%d: %v", orphan.StorageKey, orphan.ID, err)
			continue
		}
		removed++
	}
	return removed, nil
}

// detectFileType resolves the MIME type of an upload and checks the allow-list
func detectFileType(name, declared string) (mimeType, fileType string, err error) {
	if declared != "" {
		if mt, _, parseErr := mime.ParseMediaType(declared); parseErr == nil {
			mimeType = strings.ToLower(mt)
		}
	}
	if _, ok := allowedMimeTypes[mimeType]; !ok {
		if byExt, found := extensionMimeTypes[strings.ToLower(filepath.Ext(name))]; found &&
			(mimeType == "" || mimeType == "application/octet-stream") {
			mimeType = byExt
		}
	}

	fileType, ok := allowedMimeTypes[mimeType]
	if !ok {
		shown := mimeType
		if shown == "" {
			shown = "unknown"
		}
		return "", "", domain.NewValidationError("File type not allowed",
			fmt.Sprintf("%s has type %s; allowed: images, PDF, Word, Excel", name, shown))
	}
	return mimeType, fileType, nil
}

func uploadErrorMessage(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	if summary, ok := domain.StorageSummary(err); ok {
		return summary
	}
	return "Upload failed"
}

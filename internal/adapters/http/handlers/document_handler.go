package handlers

import (
	"io"
	"mime/multipart"
	"strings"

	"mfi-backoffice/internal/adapters/http/middleware"
	"mfi-backoffice/internal/core/domain"
	"mfi-backoffice/internal/core/services"
	"mfi-backoffice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DocumentHandler handles document upload endpoints
type DocumentHandler struct {
	documentService *services.DocumentService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentService *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// Upload stores one or more files
// @Summary Upload documents
// @Description Multipart upload. 201 when every file is stored, 207 for a mixed batch, 400 when none is.
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param files formData file true "Files (files or files[])"
// @Param relatedTo formData string true "Application, Product, User, Branch or Other"
// @Param relatedId formData string true "ID of the related entity"
// @Param category formData string false "Document category"
// @Param description formData string false "Description"
// @Param tags formData string false "Comma-separated tags"
// @Success 201 {object} response.Response
// @Success 207 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /upload [post]
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return response.BadRequest(c, "Expected a multipart form")
	}

	input := &services.UploadInput{
		RelatedTo:   domain.DocumentRelation(formValue(form, "relatedTo")),
		RelatedID:   formValue(form, "relatedId"),
		Category:    domain.DocumentCategory(formValue(form, "category")),
		Description: formValue(form, "description"),
		Tags:        parseTags(form.Value["tags"]),
	}

	var files []services.UploadFile
	for _, field := range []string{"files", "files[]"} {
		for _, fh := range form.File[field] {
			files = append(files, toUploadFile(fh))
		}
	}

	results, err := h.documentService.Upload(c.Context(), input, files, middleware.CurrentSession(c))
	if err != nil {
		return response.FromError(c, err, "Not found", "Failed to upload documents")
	}

	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}
	data := fiber.Map{
		"results":   results,
		"uploaded":  succeeded,
		"failed":    len(results) - succeeded,
		"totalSize": totalSize(files),
	}

	switch succeeded {
	case len(results):
		return response.Created(c, "Files uploaded successfully", data)
	case 0:
		return c.Status(fiber.StatusBadRequest).JSON(response.Response{
			Success: false,
			Error:   "No files were uploaded",
			Data:    data,
		})
	default:
		return response.MultiStatus(c, "Some files failed to upload", data)
	}
}

// List lists documents
// @Summary List documents
// @Tags Documents
// @Produce json
// @Security BearerAuth
// @Param relatedTo query string false "Related entity type"
// @Param relatedId query string false "Related entity ID"
// @Param category query string false "Category"
// @Param status query string false "Active, Archived or Deleted"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /upload [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	docs, err := h.documentService.List(c.Context(), services.ListDocumentsInput{
		RelatedTo: c.Query("relatedTo"),
		RelatedID: c.Query("relatedId"),
		Category:  c.Query("category"),
		Status:    c.Query("status"),
	})
	if err != nil {
		return response.FromError(c, err, "Not found", "Failed to fetch documents")
	}

	return response.Success(c, "Documents retrieved successfully", fiber.Map{
		"documents": docs,
		"total":     len(docs),
	})
}

// GetByID gets document metadata
// @Summary Get document
// @Tags Documents
// @Produce json
// @Security BearerAuth
// @Param id path int true "Document ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /upload/{id} [get]
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid document ID")
	}

	doc, err := h.documentService.GetByID(c.Context(), id)
	if err != nil {
		return response.FromError(c, err, "Document not found", "Failed to fetch document")
	}

	return response.Success(c, "Document retrieved successfully", fiber.Map{
		"document": doc,
	})
}

// Update patches document metadata
// @Summary Update document
// @Tags Documents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Document ID"
// @Param body body services.UpdateDocumentInput true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /upload/{id} [put]
func (h *DocumentHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid document ID")
	}

	var input services.UpdateDocumentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	doc, err := h.documentService.Update(c.Context(), id, &input, middleware.CurrentSession(c))
	if err != nil {
		return response.FromError(c, err, "Document not found", "Failed to update document")
	}

	return response.Success(c, "Document updated successfully", fiber.Map{
		"document": doc,
	})
}

// Delete deletes a document and its stored file
// @Summary Delete document
// @Description Metadata is always removed; fileRemovalFailed reports a file left in storage.
// @Tags Documents
// @Produce json
// @Security BearerAuth
// @Param id path int true "Document ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /upload/{id} [delete]
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid document ID")
	}

	result, err := h.documentService.Delete(c.Context(), id)
	if err != nil {
		return response.FromError(c, err, "Document not found", "Failed to delete document")
	}

	return response.Success(c, "Document deleted successfully", result)
}

func toUploadFile(fh *multipart.FileHeader) services.UploadFile {
	return services.UploadFile{
		OriginalName: fh.Filename,
		Size:         fh.Size,
		MimeType:     fh.Header.Get(fiber.HeaderContentType),
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return strings.TrimSpace(values[0])
	}
	return ""
}

// parseTags accepts repeated tags fields and comma-separated lists
func parseTags(values []string) []string {
	tags := []string{}
	for _, v := range values {
		for _, tag := range strings.Split(v, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

func totalSize(files []services.UploadFile) int64 {
	var total int64
	for _, f := range files {
		total += f.Size
	}
	return total
}

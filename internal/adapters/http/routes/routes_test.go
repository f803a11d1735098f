package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"mfi-backoffice/internal/adapters/persistence/models"
	"mfi-backoffice/internal/adapters/persistence/repositories"
	"mfi-backoffice/internal/adapters/storage"
	"mfi-backoffice/internal/config"
	"mfi-backoffice/internal/core/domain"
	"mfi-backoffice/internal/core/services"
	"mfi-backoffice/internal/pkg/jwt"
	"mfi-backoffice/internal/pkg/password"
	"mfi-backoffice/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

type server struct {
	app *fiber.App
	db  *gorm.DB
	cfg *config.Config
}

func newServer(t *testing.T) *server {
	t.Helper()
	password.Cost = bcrypt.MinCost

	db := testutil.OpenDB(t)
	cfg := &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "routes-test-secret",
			RefreshSecret:    "routes-test-refresh",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
		Upload: config.UploadConfig{
			Backend:     "local",
			Dir:         t.TempDir(),
			BaseURL:     "/uploads",
			MaxFileSize: 1 << 20,
		},
	}
	store, err := storage.NewLocalStorage(cfg.Upload.Dir, cfg.Upload.BaseURL)
	require.NoError(t, err)

	documents := services.NewDocumentService(
		repositories.NewDocumentRepository(db),
		repositories.NewOrphanedFileRepository(db),
		store,
		cfg.Upload.MaxFileSize,
	)

	app := fiber.New()
	Setup(app, Deps{DB: db, Config: cfg, Storage: store, Documents: documents})
	return &server{app: app, db: db, cfg: cfg}
}

func (s *server) token(t *testing.T, role domain.Role) string {
	t.Helper()
	token, err := jwt.GenerateAccessToken(1, "staff@mfi.test", string(role), s.cfg.JWT.Secret, 15)
	require.NoError(t, err)
	return token
}

func (s *server) do(t *testing.T, method, path, token string, body io.Reader, contentType string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set(fiber.HeaderContentType, contentType)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode, decodeEnvelope(t, resp)
}

func (s *server) sendJSON(t *testing.T, method, path, token string, payload any) (int, envelope) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	return s.do(t, method, path, token, body, fiber.MIMEApplicationJSON)
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func submission(productID uint) map[string]any {
	return map[string]any{
		"fullName":      "Amina Yusuf",
		"email":         "amina@example.com",
		"phone":         "0801234567",
		"dob":           "1990-05-17",
		"gender":        "Female",
		"idNumber":      "NIN-0001",
		"address":       "12 Market Road",
		"loanProductId": productID,
		"loanAmount":    2_000_000,
		"tenure":        12,
		"purpose":       "Restock shop",
		"employment":    "Self-employed",
		"income":        450_000,
	}
}

func TestRoutes_RequireStaffSession(t *testing.T) {
	s := newServer(t)

	status, env := s.sendJSON(t, fiber.MethodPost, "/api/v1/products", "", map[string]any{"name": "Anonymous"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.False(t, env.Success)

	status, _ = s.sendJSON(t, fiber.MethodGet, "/api/v1/applications", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = s.sendJSON(t, fiber.MethodGet, "/api/v1/users", s.token(t, domain.RoleOfficer), nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = s.sendJSON(t, fiber.MethodGet, "/api/v1/users", s.token(t, domain.RoleManager), nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestRoutes_CatalogIsPublicForActiveProducts(t *testing.T) {
	s := newServer(t)

	active := &models.LoanProduct{Name: "Market Women Loan", MinAmount: 50_000, MaxAmount: 500_000,
		MinTenure: 3, MaxTenure: 12, MinInterest: 5, MaxInterest: 12, Status: domain.ProductActive}
	retired := &models.LoanProduct{Name: "Legacy Loan", MinAmount: 50_000, MaxAmount: 500_000,
		MinTenure: 3, MaxTenure: 12, MinInterest: 5, MaxInterest: 12, Status: domain.ProductInactive}
	require.NoError(t, s.db.Create(active).Error)
	require.NoError(t, s.db.Create(retired).Error)

	type listing struct {
		Products []struct {
			Name string `json:"name"`
		} `json:"products"`
		Total int `json:"total"`
	}

	for _, path := range []string{"/api/v1/products", "/api/v1/products?status=Inactive"} {
		status, env := s.sendJSON(t, fiber.MethodGet, path, "", nil)
		require.Equal(t, fiber.StatusOK, status, path)
		var got listing
		require.NoError(t, json.Unmarshal(env.Data, &got))
		require.Equal(t, 1, got.Total, path)
		assert.Equal(t, "Market Women Loan", got.Products[0].Name)
	}

	status, env := s.sendJSON(t, fiber.MethodGet, "/api/v1/products", s.token(t, domain.RoleOfficer), nil)
	require.Equal(t, fiber.StatusOK, status)
	var all listing
	require.NoError(t, json.Unmarshal(env.Data, &all))
	assert.Equal(t, 2, all.Total)

	retiredPath := "/api/v1/products/" + strconv.FormatUint(uint64(retired.ID), 10)
	status, _ = s.sendJSON(t, fiber.MethodGet, retiredPath, "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	status, _ = s.sendJSON(t, fiber.MethodGet, retiredPath, s.token(t, domain.RoleOfficer), nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = s.sendJSON(t, fiber.MethodGet, "/api/v1/products/"+strconv.FormatUint(uint64(active.ID), 10), "", nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = s.sendJSON(t, fiber.MethodDelete, retiredPath, "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestRoutes_LoginAndMe(t *testing.T) {
	s := newServer(t)

	hash, err := password.Hash("correct-horse")
	require.NoError(t, err)
	require.NoError(t, s.db.Create(&models.User{
		Email: "officer@mfi.test", Name: "Loan Officer", Password: hash, Role: domain.RoleOfficer, IsActive: true,
	}).Error)

	status, _ := s.sendJSON(t, fiber.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "officer@mfi.test", "password": "wrong-password",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, env := s.sendJSON(t, fiber.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "officer@mfi.test", "password": "correct-horse",
	})
	require.Equal(t, fiber.StatusOK, status)

	var auth struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &auth))
	require.NotEmpty(t, auth.AccessToken)

	status, env = s.sendJSON(t, fiber.MethodGet, "/api/v1/auth/me", auth.AccessToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(env.Data), "officer@mfi.test")
}

func TestRoutes_ApplicationLifecycle(t *testing.T) {
	s := newServer(t)
	staff := s.token(t, domain.RoleOfficer)

	status, env := s.sendJSON(t, fiber.MethodPost, "/api/v1/products", staff, map[string]any{
		"name": "Micro Business Loan", "minAmount": 1_000_000, "maxAmount": 10_000_000,
		"minTenure": 6, "maxTenure": 24, "minInterest": 10, "maxInterest": 18, "processingFee": 1.5,
	})
	require.Equal(t, fiber.StatusCreated, status, env.Error)

	var created struct {
		Product struct {
			ID uint `json:"id"`
		} `json:"product"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	productID := created.Product.ID

	// applicants submit without a session
	status, env = s.sendJSON(t, fiber.MethodPost, "/api/v1/applications", "", submission(productID))
	require.Equal(t, fiber.StatusCreated, status, env.Error)

	var submitted struct {
		Application struct {
			ID     uint   `json:"id"`
			Status string `json:"status"`
		} `json:"application"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &submitted))
	assert.Equal(t, "Pending", submitted.Application.Status)
	appPath := "/api/v1/applications/" + strconv.FormatUint(uint64(submitted.Application.ID), 10)

	tooLarge := submission(productID)
	tooLarge["loanAmount"] = 50_000_000
	status, env = s.sendJSON(t, fiber.MethodPost, "/api/v1/applications", "", tooLarge)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.False(t, env.Success)

	status, env = s.sendJSON(t, fiber.MethodPut, appPath, staff, map[string]string{"status": "Approved"})
	require.Equal(t, fiber.StatusOK, status, env.Error)
	assert.Contains(t, string(env.Data), `"status":"Approved"`)

	status, _ = s.sendJSON(t, fiber.MethodPut, appPath, staff, map[string]string{"status": "Disbursed"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, env = s.sendJSON(t, fiber.MethodGet, "/api/v1/applications?status=Approved", staff, nil)
	require.Equal(t, fiber.StatusOK, status)
	var listed struct {
		Applications []json.RawMessage `json:"applications"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	assert.Len(t, listed.Applications, 1)

	status, env = s.sendJSON(t, fiber.MethodGet, appPath+"/history", staff, nil)
	require.Equal(t, fiber.StatusOK, status)
	var history struct {
		History []json.RawMessage `json:"history"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &history))
	assert.Len(t, history.History, 2)

	status, env = s.sendJSON(t, fiber.MethodGet, appPath+"/payment-summary?rate=12", staff, nil)
	require.Equal(t, fiber.StatusOK, status, env.Error)
	assert.Contains(t, string(env.Data), "monthlyPayment")

	status, _ = s.sendJSON(t, fiber.MethodGet, appPath+"/payment-summary?rate=abc", staff, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	for _, path := range []string{"/api/v1/reports/applications", "/api/v1/reports/financial", "/api/v1/stats"} {
		status, env = s.sendJSON(t, fiber.MethodGet, path, staff, nil)
		assert.Equal(t, fiber.StatusOK, status, path+": "+env.Error)
	}

	status, _ = s.sendJSON(t, fiber.MethodDelete, appPath, staff, nil)
	assert.Equal(t, fiber.StatusOK, status)
	status, _ = s.sendJSON(t, fiber.MethodGet, appPath, staff, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

type formFile struct {
	name    string
	content []byte
}

func multipartBody(t *testing.T, fields map[string]string, files []formFile) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		part, err := w.CreateFormFile("files", f.name)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestRoutes_UploadStatusCodes(t *testing.T) {
	s := newServer(t)
	staff := s.token(t, domain.RoleOfficer)
	fields := map[string]string{"relatedTo": "Application", "relatedId": "42", "tags": "kyc, id"}

	tests := []struct {
		name     string
		files    []formFile
		status   int
		uploaded int
	}{
		{"all stored", []formFile{{"id-card.pdf", []byte("%PDF-1.4")}, {"photo.png", []byte("png")}}, fiber.StatusCreated, 2},
		{"mixed batch", []formFile{{"statement.pdf", []byte("%PDF-1.4")}, {"virus.exe", []byte("MZ")}}, fiber.StatusMultiStatus, 1},
		{"nothing stored", []formFile{{"virus.exe", []byte("MZ")}}, fiber.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartBody(t, fields, tt.files)
			status, env := s.do(t, fiber.MethodPost, "/api/v1/upload", staff, body, contentType)
			require.Equal(t, tt.status, status, env.Error)

			var data struct {
				Uploaded int `json:"uploaded"`
				Failed   int `json:"failed"`
			}
			require.NoError(t, json.Unmarshal(env.Data, &data))
			assert.Equal(t, tt.uploaded, data.Uploaded)
			assert.Equal(t, len(tt.files)-tt.uploaded, data.Failed)
		})
	}

	var count int64
	require.NoError(t, s.db.WithContext(context.Background()).Model(&models.Document{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)

	status, env := s.sendJSON(t, fiber.MethodGet, "/api/v1/upload?relatedTo=Application&relatedId=42", staff, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(env.Data), `"total":3`)
}

func TestRoutes_Health(t *testing.T) {
	s := newServer(t)

	prev := config.DB
	t.Cleanup(func() { config.DB = prev })

	config.DB = nil
	resp, err := s.app.Test(httptest.NewRequest(fiber.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	config.DB = s.db
	resp, err = s.app.Test(httptest.NewRequest(fiber.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	status, env := s.sendJSON(t, fiber.MethodGet, "/api/v1/", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "MFI Back Office API v1.0", env.Message)
}

func TestRoutes_UploadUsesSharedDocumentService(t *testing.T) {
	db := testutil.OpenDB(t)
	cfg := &config.Config{
		AppMode: "dev",
		JWT:     config.JWTConfig{Secret: "routes-test-secret", AccessTokenMins: 15},
		Upload:  config.UploadConfig{Backend: "local", Dir: t.TempDir(), BaseURL: "/uploads", MaxFileSize: 1 << 20},
	}
	store, err := storage.NewLocalStorage(cfg.Upload.Dir, cfg.Upload.BaseURL)
	require.NoError(t, err)

	// a tighter limit than the config proves the injected service handles uploads
	documents := services.NewDocumentService(
		repositories.NewDocumentRepository(db),
		repositories.NewOrphanedFileRepository(db),
		store,
		4,
	)
	app := fiber.New()
	Setup(app, Deps{DB: db, Config: cfg, Storage: store, Documents: documents})
	s := &server{app: app, db: db, cfg: cfg}

	body, contentType := multipartBody(t,
		map[string]string{"relatedTo": "Application", "relatedId": "42"},
		[]formFile{{"statement.pdf", []byte("%PDF-1.4 long enough")}})
	status, env := s.do(t, fiber.MethodPost, "/api/v1/upload", s.token(t, domain.RoleOfficer), body, contentType)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "No files were uploaded", env.Error)
}

package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"mfi-backoffice/internal/adapters/persistence/models"
	"mfi-backoffice/internal/adapters/persistence/repositories"
	"mfi-backoffice/internal/adapters/storage"
	"mfi-backoffice/internal/testutil"

	"gorm.io/gorm"
)

var fixedNow = time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	db           *gorm.DB
	products     *ProductService
	applications *ApplicationService
	reports      *ReportService
	notifier     *fakeNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.OpenDB(t)

	appRepo := repositories.NewApplicationRepository(db)
	productRepo := repositories.NewProductRepository(db)
	notifier := &fakeNotifier{sent: make(chan *models.LoanApplication, 4)}

	apps := NewApplicationService(appRepo, repositories.NewHistoryRepository(db), productRepo, notifier)
	apps.now = func() time.Time { return fixedNow }
	reports := NewReportService(appRepo)
	reports.now = func() time.Time { return fixedNow }

	return &testEnv{
		db:           db,
		products:     NewProductService(productRepo),
		applications: apps,
		reports:      reports,
		notifier:     notifier,
	}
}

type fakeNotifier struct {
	sent chan *models.LoanApplication
}

func (n *fakeNotifier) NotifyDecision(_ context.Context, app *models.LoanApplication) error {
	n.sent <- app
	return nil
}

// memStorage keeps files in memory; keys listed in failDelete refuse removal
type memStorage struct {
	mu         sync.Mutex
	name       string
	files      map[string][]byte
	failDelete map[string]bool
}

func newMemStorage() *memStorage {
	return &memStorage{name: "local", files: map[string][]byte{}, failDelete: map[string]bool{}}
}

func (m *memStorage) Save(_ context.Context, key string, r io.Reader, _ int64, _ string) (*storage.StoredFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[key] = data
	return &storage.StoredFile{Key: key, Path: "mem/" + key, URL: "/uploads/" + key}, nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDelete[key] {
		return errors.New("permission denied")
	}
	delete(m.files, key)
	return nil
}

func (m *memStorage) Name() string { return m.name }

func (m *memStorage) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[key]
	return ok
}

func uploadFile(name, mimeType string, content []byte) UploadFile {
	return UploadFile{
		OriginalName: name,
		Size:         int64(len(content)),
		MimeType:     mimeType,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(content)), nil
		},
	}
}

func ptr[T any](v T) *T { return &v }

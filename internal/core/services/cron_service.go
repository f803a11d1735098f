package services

import (
	"context"
	"log"
	"time"

	"mfi-backoffice/internal/adapters/persistence/repositories"
	"mfi-backoffice/internal/config"

	"github.com/robfig/cron/v3"
)

const jobTimeout = 5 * time.Minute

// CronService runs the scheduled maintenance jobs
type CronService struct {
	cron             *cron.Cron
	documentService  *DocumentService
	refreshTokenRepo repositories.RefreshTokenRepository
}

// NewCronService registers the reconcile and token cleanup jobs
func NewCronService(
	documentService *DocumentService,
	refreshTokenRepo repositories.RefreshTokenRepository,
	cfg config.CronConfig,
) (*CronService, error) {
	s := &CronService{
		cron:             cron.New(cron.WithLocation(time.UTC)),
		documentService:  documentService,
		refreshTokenRepo: refreshTokenRepo,
	}

	if _, err := s.cron.AddFunc(cfg.ReconcileSpec, s.reconcileOrphans); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(cfg.TokenCleanupSpec, s.cleanupTokens); err != nil {
		return nil, err
	}
	return s, nil
}

// Start starts the scheduler in its own goroutine
func (s *CronService) Start() {
	s.cron.Start()
	log.Printf("🚀 Cron service started (%d jobs)", len(s.cron.Entries()))
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	log.Println("🛑 Cron service stopped")
}

func (s *CronService) reconcileOrphans() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	removed, err := s.documentService.ReconcileOrphans(ctx)
	if err != nil {
		log.Printf("❌ Orphan reconcile failed: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("🧹 Removed %d orphaned files", removed)
	}
}

func (s *CronService) cleanupTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	deleted, err := s.refreshTokenRepo.DeleteExpired(ctx)
	if err != nil {
		log.Printf("❌ Refresh token cleanup failed: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("🧹 Deleted %d expired refresh tokens", deleted)
	}
}

// Package service содержит планировщик обновления кэша плейлиста.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// refreshTimeout ограничивает длительность одного планового обновления кэша
const refreshTimeout = 5 * time.Minute

// Scheduler периодически обновляет кэш состава целевого плейлиста,
// чтобы правки плейлиста напрямую в Spotify не копились в кэше до
// следующей мутации
type Scheduler struct {
	syncService *SyncService
	cronSpec    string
	cron        *cron.Cron
	logger      *zap.Logger
	mu          sync.Mutex
	running     bool
}

// NewScheduler создает новый планировщик обновления кэша
func NewScheduler(syncService *SyncService, cronSpec string, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		syncService: syncService,
		cronSpec:    cronSpec,
		cron:        cron.New(cron.WithLocation(time.UTC)),
		logger:      logger,
	}
}

// Start запускает планировщик
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	if _, err := s.cron.AddFunc(s.cronSpec, s.refresh); err != nil {
		return fmt.Errorf("failed to schedule membership refresh: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("Scheduler started",
		zap.String("cron", s.cronSpec),
		zap.String("playlist_id", s.syncService.PlaylistID()))

	return nil
}

// Stop останавливает планировщик и дожидается завершения текущего обновления
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.running = false

	s.logger.Info("Scheduler stopped")
}

// refresh выполняет одно плановое обновление кэша состава
func (s *Scheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	s.logger.Debug("Scheduled membership refresh started",
		zap.String("playlist_id", s.syncService.PlaylistID()))

	if err := s.syncService.RefreshMembership(ctx); err != nil {
		s.logger.Error("Scheduled membership refresh failed",
			zap.String("playlist_id", s.syncService.PlaylistID()),
			zap.Error(err))
		return
	}

	s.logger.Info("Scheduled membership refresh completed",
		zap.String("playlist_id", s.syncService.PlaylistID()))
}

package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
	"github.com/vfg2006/media-pacing-api/internal/config"
	"github.com/vfg2006/media-pacing-api/internal/domain"
	"golang.org/x/time/rate"
)

// PacingWarmer é a parte do serviço de pacing usada pelo aquecimento do cache
type PacingWarmer interface {
	RecentRequests() []domain.PacingRequest
	Refresh(ctx context.Context, req domain.PacingRequest) error
}

// PacingWarmupConfig representa a configuração do agendador de aquecimento do cache de pacing
type PacingWarmupConfig struct {
	CronSchedule      string
	MaxConcurrentJobs int
	RatePerSecond     float64
	Enabled           bool
}

// PacingWarmupService reexecuta periodicamente as consultas de pacing recentes,
// para que as requisições dos usuários encontrem entradas vivas no cache
type PacingWarmupService struct {
	scheduler           *gocron.Scheduler
	config              PacingWarmupConfig
	warmer              PacingWarmer
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastRefreshed       int
	lastFailed          int
}

func NewPacingWarmupService(warmer PacingWarmer, appConfig *config.Config) *PacingWarmupService {
	warmupConfig := PacingWarmupConfig{
		CronSchedule:      appConfig.PacingWarmup.CronSchedule,
		MaxConcurrentJobs: appConfig.PacingWarmup.MaxConcurrentJobs,
		RatePerSecond:     appConfig.PacingWarmup.RatePerSecond,
		Enabled:           appConfig.PacingWarmup.Enabled,
	}

	if warmupConfig.MaxConcurrentJobs <= 0 {
		warmupConfig.MaxConcurrentJobs = 1
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule":       warmupConfig.CronSchedule,
		"max_concurrent_jobs": warmupConfig.MaxConcurrentJobs,
		"rate_per_second":     warmupConfig.RatePerSecond,
		"enabled":             warmupConfig.Enabled,
	}).Info("Configuração do aquecimento do cache de pacing carregada")

	return &PacingWarmupService{
		scheduler: gocron.NewScheduler(time.UTC),
		config:    warmupConfig,
		warmer:    warmer,
	}
}

// Start inicia o agendador
func (s *PacingWarmupService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Aquecimento do cache de pacing desabilitado por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de aquecimento do cache de pacing")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.warmup(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar aquecimento do cache de pacing: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de aquecimento do cache de pacing")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *PacingWarmupService) warmup(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Aquecimento do cache de pacing já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	startTime := time.Now()
	requests := s.warmer.RecentRequests()

	var refreshed, failed atomic.Int32
	workers := pool.New().WithMaxGoroutines(s.config.MaxConcurrentJobs)
	limiter := s.newLimiter()

	for _, req := range requests {
		workers.Go(func() {
			if err := limiter.Wait(ctx); err != nil {
				failed.Add(1)
				return
			}

			if err := s.warmer.Refresh(ctx, req); err != nil {
				failed.Add(1)
				logrus.WithError(err).WithField("campaign_id", req.CampaignID).Warn("Erro ao aquecer pacing da campanha")
				return
			}
			refreshed.Add(1)
		})
	}
	workers.Wait()

	logrus.WithFields(logrus.Fields{
		"duration":  time.Since(startTime).String(),
		"requests":  len(requests),
		"refreshed": refreshed.Load(),
		"failed":    failed.Load(),
	}).Info("Aquecimento do cache de pacing concluído")

	s.syncMutex.Lock()
	s.syncRunning = false
	s.lastSyncCompletedAt = time.Now()
	s.lastRefreshed = int(refreshed.Load())
	s.lastFailed = int(failed.Load())
	s.syncMutex.Unlock()
}

// newLimiter limita o ritmo de consultas ao warehouse; taxa zero ou negativa desliga o limite
func (s *PacingWarmupService) newLimiter() *rate.Limiter {
	if s.config.RatePerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(s.config.RatePerSecond), 1)
}

// TriggerManualSync inicia manualmente um aquecimento
func (s *PacingWarmupService) TriggerManualSync(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Aquecimento do cache de pacing já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando aquecimento manual do cache de pacing")
	go s.warmup(ctx)
}

// GetStatus retorna o status atual do aquecimento
func (s *PacingWarmupService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_running":           s.syncRunning,
		"sync_cron":              s.config.CronSchedule,
		"sync_enabled":           s.config.Enabled,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_refreshed":         s.lastRefreshed,
		"last_failed":            s.lastFailed,
	}
}

package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/media-pacing-api/infrastructure/cache/pacingcache"
	"github.com/vfg2006/media-pacing-api/infrastructure/database"
	"github.com/vfg2006/media-pacing-api/infrastructure/repository"
	"github.com/vfg2006/media-pacing-api/infrastructure/warehouse"
	"github.com/vfg2006/media-pacing-api/internal/api"
	"github.com/vfg2006/media-pacing-api/internal/api/handler"
	"github.com/vfg2006/media-pacing-api/internal/config"
	"github.com/vfg2006/media-pacing-api/internal/scheduler"
	"github.com/vfg2006/media-pacing-api/internal/usecases/billing"
	"github.com/vfg2006/media-pacing-api/internal/usecases/normalizing"
	"github.com/vfg2006/media-pacing-api/internal/usecases/pacing"
	"github.com/vfg2006/media-pacing-api/pkg/log"
	"github.com/vfg2006/media-pacing-api/pkg/metrics"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Formato e nível de log a partir da configuração
	log.Setup(cfg.App.LogLevel)
	logrus.Infof("Nível de log configurado para: %s", logrus.GetLevel())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appMetrics := metrics.New()

	pool, db := warehousePool(ctx, cfg.Warehouse, appMetrics)

	deliveryRepo := repository.NewDeliveryRepository(pool, cfg.Warehouse.DeliveryTable)

	cache := pacingcache.New(pacingcache.WithMetrics(appMetrics))

	pacingService := pacing.NewService(
		cfg.Pacing,
		deliveryRepo,
		cache,
		pacing.WithRecentWindow(time.Duration(cfg.PacingWarmup.RecentHours)*time.Hour),
	)

	normalizer := normalizing.NewNormalizer()
	scheduleBuilder := billing.NewBuilder(cfg.Billing)

	// Agendador de aquecimento do cache de pacing
	warmupService := scheduler.NewPacingWarmupService(pacingService, cfg)
	if err := warmupService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de aquecimento do cache de pacing")
	} else {
		logrus.Info("Agendador de aquecimento do cache de pacing iniciado com sucesso")
	}

	server, err := api.New(cfg, api.Dependencies{
		Normalizer:     normalizer,
		Pacer:          pacingService,
		Billing:        scheduleBuilder,
		Warehouse:      pool,
		MetricsHandler: appMetrics.Handler(),
		Cron: handler.CronJobServices{
			PacingWarmupService: warmupService,
			AppContext:          ctx,
		},
	})
	if err != nil {
		logrus.Fatal(err)
	}

	server.OnShutdown(pool.Close)
	server.OnShutdown(db.Close)

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// warehousePool abre o driver do dialeto configurado e aquece o pool de conexões
func warehousePool(ctx context.Context, cfg config.Warehouse, m *metrics.Metrics) (*warehouse.Pool, *sql.DB) {
	dialer, db, err := database.NewWarehouseDialer(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao warehouse")
	}

	pool := warehouse.NewPool(dialer, warehouse.OptionsFromConfig(cfg), warehouse.WithMetrics(m))

	if err := pool.Prewarm(ctx); err != nil {
		logrus.WithError(err).Warn("Não foi possível aquecer o pool do warehouse, conexões serão abertas sob demanda")
	} else {
		logrus.WithField("warehouse_dialect", cfg.Dialect).Info("Pool do warehouse pronto")
	}

	return pool, db
}

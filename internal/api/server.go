package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/media-pacing-api/internal/api/handler"
	"github.com/vfg2006/media-pacing-api/internal/api/handler/router"
	"github.com/vfg2006/media-pacing-api/internal/config"
	"github.com/vfg2006/media-pacing-api/internal/usecases/billing"
	"github.com/vfg2006/media-pacing-api/internal/usecases/normalizing"
	"github.com/vfg2006/media-pacing-api/internal/usecases/pacing"
	"github.com/vfg2006/media-pacing-api/pkg/middleware"
)

// Dependencies reúne os serviços expostos pela API
type Dependencies struct {
	Normalizer     normalizing.LineItemNormalizer
	Pacer          pacing.Pacer
	Billing        billing.ScheduleBuilder
	Warehouse      handler.WarehouseProber
	MetricsHandler http.Handler
	Cron           handler.CronJobServices
}

type Server struct {
	httpServer *http.Server
	onShutdown []func() error
}

func New(config *config.Config, deps Dependencies) (*Server, error) {
	if deps.Normalizer == nil || deps.Pacer == nil || deps.Billing == nil || deps.Warehouse == nil {
		return nil, fmt.Errorf("api: dependências obrigatórias ausentes")
	}

	metricsHandler := deps.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = http.NotFoundHandler()
	}

	rt := router.New(
		router.WithRoutes(handler.Healthcheck(deps.Warehouse, metricsHandler)...),
		router.WithRoutes(handler.LineItems(deps.Normalizer)...),
		router.WithRoutes(handler.Campaigns(deps.Pacer, deps.Normalizer)...),
		router.WithRoutes(handler.Billing(deps.Billing, deps.Normalizer)...),
		router.WithRoutes(handler.CronJobs(deps.Cron)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(config.Server.AllowedOrigins),
	}

	handler := alice.New(middlewares...).Then(rt)

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           handler,
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

// OnShutdown registra uma operação de limpeza executada depois que o HTTP para de aceitar requisições
func (s *Server) OnShutdown(fn func() error) {
	s.onShutdown = append(s.onShutdown, fn)
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	// Canal para aguardar sinais de término
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": "15s",
	}).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	logrus.Info("Servidor HTTP desligado com sucesso")

	logrus.Info("Executando operações de limpeza antes do desligamento")
	for _, fn := range s.onShutdown {
		if err := fn(); err != nil {
			logrus.WithError(err).Warn("Erro ao liberar recurso no desligamento")
		}
	}

	return nil
}

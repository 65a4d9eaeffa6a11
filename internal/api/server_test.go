package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/media-pacing-api/infrastructure/warehouse"
	"github.com/vfg2006/media-pacing-api/internal/config"
	"github.com/vfg2006/media-pacing-api/internal/domain"
	"github.com/vfg2006/media-pacing-api/internal/usecases/billing"
	"github.com/vfg2006/media-pacing-api/internal/usecases/normalizing"
)

type stubPacer struct{}

func (stubPacer) GetCampaignPacing(context.Context, domain.PacingRequest) (*domain.PacingReport, error) {
	return &domain.PacingReport{CacheState: "MISS"}, nil
}

func (stubPacer) GetDailyDelivery(context.Context, string, domain.Date, domain.Date) ([]domain.DailyDelivery, error) {
	return []domain.DailyDelivery{}, nil
}

func (stubPacer) Refresh(context.Context, domain.PacingRequest) error { return nil }

func (stubPacer) RecentRequests() []domain.PacingRequest { return nil }

type stubProber struct{}

func (stubProber) Probe(context.Context, string, ...any) warehouse.Outcome {
	return warehouse.Outcome{Status: warehouse.OutcomeRows}
}

func (stubProber) Stats() warehouse.Stats { return warehouse.Stats{} }

func testConfig() *config.Config {
	return &config.Config{
		Server:  config.Server{Host: "localhost", Port: "0", AllowedOrigins: []string{"http://localhost:3000"}},
		Billing: config.Billing{CurrencySymbol: "$", Locale: "en-AU"},
	}
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(testConfig(), Dependencies{})
	assert.Error(t, err)
}

func TestServer_RoutesThroughMiddlewareChain(t *testing.T) {
	srv, err := New(testConfig(), Dependencies{
		Normalizer: normalizing.NewNormalizer(),
		Pacer:      stubPacer{},
		Billing:    billing.NewBuilder(config.Billing{CurrencySymbol: "$"}),
		Warehouse:  stubProber{},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/readiness", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_ShutdownRunsCleanup(t *testing.T) {
	srv, err := New(testConfig(), Dependencies{
		Normalizer: normalizing.NewNormalizer(),
		Pacer:      stubPacer{},
		Billing:    billing.NewBuilder(config.Billing{}),
		Warehouse:  stubProber{},
	})
	require.NoError(t, err)

	closed := 0
	srv.OnShutdown(func() error {
		closed++
		return nil
	})

	require.NoError(t, srv.Shutdown(context.Background()))
	assert.Equal(t, 1, closed)
}

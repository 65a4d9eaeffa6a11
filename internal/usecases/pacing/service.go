package pacing

import (
	"context"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/media-pacing-api/infrastructure/cache/pacingcache"
	"github.com/vfg2006/media-pacing-api/infrastructure/repository"
	"github.com/vfg2006/media-pacing-api/internal/config"
	"github.com/vfg2006/media-pacing-api/internal/domain"
	"github.com/vfg2006/media-pacing-api/internal/usecases/prorating"
	"github.com/vfg2006/media-pacing-api/pkg/log"
)

const cacheScope = "pacing"

var hundred = decimal.NewFromInt(100)

// Pacer compara o planejado prorrateado com a entrega real do warehouse
type Pacer interface {
	GetCampaignPacing(ctx context.Context, req domain.PacingRequest) (*domain.PacingReport, error)
	GetDailyDelivery(ctx context.Context, campaignID string, startDate, endDate domain.Date) ([]domain.DailyDelivery, error)
	// Refresh busca novamente a entrega da requisição e sobrescreve a entrada do cache
	Refresh(ctx context.Context, req domain.PacingRequest) error
	RecentRequests() []domain.PacingRequest
}

type Service struct {
	cfg    config.Pacing
	repo   repository.DeliveryRepository
	cache  *pacingcache.Cache
	recent *gocache.Cache
	now    func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithRecentWindow define por quanto tempo uma requisição atendida fica elegível ao aquecimento
func WithRecentWindow(window time.Duration) Option {
	return func(s *Service) {
		s.recent = gocache.New(window, window/2)
	}
}

func NewService(cfg config.Pacing, repo repository.DeliveryRepository, cache *pacingcache.Cache, opts ...Option) *Service {
	s := &Service{
		cfg:    cfg,
		repo:   repo,
		cache:  cache,
		recent: gocache.New(6*time.Hour, time.Hour),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// prepared é a requisição validada, já com janela e ids limitados
type prepared struct {
	req        domain.PacingRequest
	filter     domain.DeliveryFilter
	key        string
	asOf       domain.Date
	clamped    bool
	truncated  bool
	campaignID string
}

func (s *Service) GetCampaignPacing(ctx context.Context, req domain.PacingRequest) (*domain.PacingReport, error) {
	p, err := s.prepare(req)
	if err != nil {
		return nil, err
	}

	logger := log.ForContext(ctx).WithField("campaign_id", p.campaignID)

	result, err := pacingcache.GetOrFetch(ctx, s.cache, p.key, func(ctx context.Context) ([]domain.DeliveryActual, error) {
		return s.repo.GetDeliveryActuals(ctx, p.filter)
	}, s.cfg.CacheTTL())
	if err != nil {
		return nil, err
	}

	s.recent.SetDefault(p.key, p.req)

	report := s.buildReport(p, result.Value)
	report.CacheState = string(result.State)
	if result.State == pacingcache.StateStale {
		report.Stale = true
		report.StaleReason = result.StaleErr.Error()
		logger.WithField("cache_state", result.State).WithError(result.StaleErr).Warn("pacing servido a partir de cache vencido")
	} else {
		logger.WithField("cache_state", result.State).Debugf("pacing calculado para %d linhas", len(report.LineItems))
	}

	return report, nil
}

func (s *Service) GetDailyDelivery(ctx context.Context, campaignID string, startDate, endDate domain.Date) ([]domain.DailyDelivery, error) {
	if strings.TrimSpace(campaignID) == "" {
		return nil, domain.NewValidationError("campaignId", "obrigatório")
	}
	if startDate.IsZero() || endDate.IsZero() {
		return nil, domain.NewValidationError("startDate", "período obrigatório")
	}
	if endDate.Before(startDate) {
		return nil, domain.NewValidationError("endDate", "fim anterior ao início")
	}

	start, _ := s.clampWindow(startDate, endDate)
	return s.repo.GetDailyDelivery(ctx, campaignID, start, endDate)
}

func (s *Service) Refresh(ctx context.Context, req domain.PacingRequest) error {
	p, err := s.prepare(req)
	if err != nil {
		return err
	}

	actuals, err := s.repo.GetDeliveryActuals(ctx, p.filter)
	if err != nil {
		return err
	}

	s.cache.Store(p.key, actuals)
	return nil
}

// RecentRequests devolve as requisições atendidas dentro da janela recente, em ordem de chave
func (s *Service) RecentRequests() []domain.PacingRequest {
	items := s.recent.Items()

	keys := make([]string, 0, len(items))
	for key := range items {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	requests := make([]domain.PacingRequest, 0, len(keys))
	for _, key := range keys {
		if req, ok := items[key].Object.(domain.PacingRequest); ok {
			requests = append(requests, req)
		}
	}
	return requests
}

func (s *Service) prepare(req domain.PacingRequest) (prepared, error) {
	campaignID := strings.TrimSpace(req.CampaignID)
	if campaignID == "" {
		return prepared{}, domain.NewValidationError("campaignId", "obrigatório")
	}

	if len(req.LineItems) == 0 {
		return prepared{}, domain.NewValidationError("lineItems", "nenhuma linha informada")
	}

	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		start, end := span(req.LineItems)
		if req.StartDate.IsZero() {
			req.StartDate = start
		}
		if req.EndDate.IsZero() {
			req.EndDate = end
		}
	}

	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return prepared{}, domain.NewValidationError("startDate", "período não informado e linhas sem bursts")
	}

	if req.EndDate.Before(req.StartDate) {
		return prepared{}, domain.NewValidationError("endDate", "fim anterior ao início")
	}

	asOf := req.AsOfDate
	if asOf.IsZero() {
		asOf = domain.DateOf(s.now().UTC())
	}

	ids := pacingcache.NormalizeIDs(lineItemIDs(req.LineItems))
	if len(ids) == 0 {
		return prepared{}, domain.NewValidationError("lineItems", "linhas sem id")
	}

	truncated := false
	if len(ids) > s.cfg.MaxIDs {
		ids = ids[:s.cfg.MaxIDs]
		truncated = true
	}

	start, clamped := s.clampWindow(req.StartDate, req.EndDate)

	return prepared{
		req: req,
		filter: domain.DeliveryFilter{
			CampaignID:  campaignID,
			LineItemIDs: ids,
			StartDate:   start,
			EndDate:     req.EndDate,
		},
		key:        pacingcache.BuildKey(cacheScope, campaignID, ids, start.String(), req.EndDate.String()),
		asOf:       asOf,
		clamped:    clamped,
		truncated:  truncated,
		campaignID: campaignID,
	}, nil
}

// clampWindow avança o início quando a janela passa do limite de dias configurado
func (s *Service) clampWindow(start, end domain.Date) (domain.Date, bool) {
	if s.cfg.MaxLookbackDays <= 0 || domain.DaysInclusive(start, end) <= s.cfg.MaxLookbackDays {
		return start, false
	}
	return end.AddDays(-(s.cfg.MaxLookbackDays - 1)), true
}

func (s *Service) buildReport(p prepared, actuals []domain.DeliveryActual) *domain.PacingReport {
	byID := make(map[string]domain.DeliveryActual, len(actuals))
	for _, actual := range actuals {
		byID[strings.ToLower(actual.LineItemID)] = actual
	}

	tolerance := decimal.NewFromFloat(s.cfg.TolerancePercent)
	totals := domain.PacingTotals{}
	lines := make([]domain.LineItemPacing, 0, len(p.req.LineItems))

	for _, item := range p.req.LineItems {
		actual := byID[strings.ToLower(strings.TrimSpace(item.LineItemID))]
		metric := DeliverableMetric(item.Attributes.BuyType)

		expectedSpend := prorating.SpendToDate(item.Bursts, p.asOf)
		expectedDeliverables := prorating.DeliverablesToDate(item.Bursts, p.asOf)
		spendPacing := prorating.PacingPercent(actual.Spend, expectedSpend)

		lines = append(lines, domain.LineItemPacing{
			LineItemID:           item.LineItemID,
			MediaType:            item.MediaType,
			Title:                item.Title,
			DeliverableMetric:    metric,
			BudgetTotal:          item.TotalBudget(),
			DeliverableTotal:     item.TotalDeliverables(),
			ExpectedSpend:        expectedSpend.Round(2),
			ActualSpend:          actual.Spend.Round(2),
			ExpectedDeliverables: expectedDeliverables.Round(0),
			ActualDeliverables:   actual.Metric(metric),
			SpendPacing:          spendPacing.Round(2),
			DeliveryPacing:       prorating.PacingPercent(actual.Metric(metric), expectedDeliverables).Round(2),
			Status:               Status(expectedSpend, actual.Spend, tolerance),
		})

		totals.BudgetTotal = totals.BudgetTotal.Add(item.TotalBudget())
		totals.ExpectedSpend = totals.ExpectedSpend.Add(expectedSpend)
		totals.ActualSpend = totals.ActualSpend.Add(actual.Spend)
	}

	totals.SpendPacing = prorating.PacingPercent(totals.ActualSpend, totals.ExpectedSpend).Round(2)
	totals.ExpectedSpend = totals.ExpectedSpend.Round(2)
	totals.ActualSpend = totals.ActualSpend.Round(2)

	return &domain.PacingReport{
		CampaignID:         p.campaignID,
		StartDate:          p.req.StartDate,
		EndDate:            p.req.EndDate,
		AsOfDate:           p.asOf,
		QueryStartDate:     p.filter.StartDate,
		TimeElapsedPercent: prorating.TimeElapsedPercent(p.req.StartDate, p.req.EndDate, p.asOf).Round(2),
		LineItems:          lines,
		Totals:             totals,
		DateRangeClamped:   p.clamped,
		IDsTruncated:       p.truncated,
		GeneratedAt:        s.now().UTC(),
	}
}

// Status classifica a entrega pela faixa de tolerância em torno de 100%
func Status(expected, actual, tolerance decimal.Decimal) domain.PacingStatus {
	if !expected.IsPositive() {
		if actual.IsPositive() {
			return domain.PacingOver
		}
		return domain.PacingNotStarted
	}

	percent := actual.Div(expected).Mul(hundred)
	switch {
	case percent.LessThan(hundred.Sub(tolerance)):
		return domain.PacingUnder
	case percent.GreaterThan(hundred.Add(tolerance)):
		return domain.PacingOver
	default:
		return domain.PacingOn
	}
}

// DeliverableMetric escolhe a métrica do warehouse que mede o entregável do tipo de compra
func DeliverableMetric(buyType string) string {
	switch strings.ToLower(strings.TrimSpace(buyType)) {
	case "cpc":
		return domain.MetricClicks
	case "cpa", "cpl":
		return domain.MetricConversions
	case "cpv", "cpcv":
		return domain.MetricVideoViews
	default:
		return domain.MetricImpressions
	}
}

func lineItemIDs(items []domain.LineItem) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.LineItemID)
	}
	return ids
}

// span devolve o menor início e o maior fim entre os bursts das linhas
func span(items []domain.LineItem) (domain.Date, domain.Date) {
	var start, end domain.Date
	for _, item := range items {
		for _, burst := range item.Bursts {
			if start.IsZero() || burst.StartDate.Before(start) {
				start = burst.StartDate
			}
			if end.IsZero() || burst.EndDate.After(end) {
				end = burst.EndDate
			}
		}
	}
	return start, end
}

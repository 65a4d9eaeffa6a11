package handler

import (
	"net/http"

	"github.com/vfg2006/media-pacing-api/internal/api/handler/router"
	"github.com/vfg2006/media-pacing-api/internal/usecases/billing"
	"github.com/vfg2006/media-pacing-api/internal/usecases/normalizing"
	"github.com/vfg2006/media-pacing-api/internal/usecases/pacing"
)

func Healthcheck(prober WarehouseProber, metricsHandler http.Handler) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
		{
			Path:    "/readiness",
			Method:  http.MethodGet,
			Handler: ReadinessHandler(prober),
		},
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: metricsHandler,
		},
	}
}

func LineItems(normalizer normalizing.LineItemNormalizer) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/line-items/normalize",
			Method:  http.MethodPost,
			Handler: NormalizeLineItems(normalizer),
		},
		{
			Path:    "/v1/line-items/prorate",
			Method:  http.MethodPost,
			Handler: ProrateBursts(),
		},
	}
}

func Campaigns(pacer pacing.Pacer, normalizer normalizing.LineItemNormalizer) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/campaigns/:id/time-elapsed",
			Method:  http.MethodGet,
			Handler: GetTimeElapsed(),
		},
		{
			Path:    "/v1/campaigns/:id/pacing",
			Method:  http.MethodPost,
			Handler: GetCampaignPacing(pacer, normalizer),
		},
		{
			Path:    "/v1/campaigns/:id/delivery/daily",
			Method:  http.MethodGet,
			Handler: GetDailyDelivery(pacer),
		},
	}
}

func Billing(builder billing.ScheduleBuilder, normalizer normalizing.LineItemNormalizer) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/billing/schedule",
			Method:  http.MethodPost,
			Handler: BuildBillingSchedule(builder),
		},
		{
			Path:    "/v1/billing/schedule/from-line-items",
			Method:  http.MethodPost,
			Handler: BuildScheduleFromLineItems(builder, normalizer),
		},
		{
			Path:    "/v1/finance/line-items",
			Method:  http.MethodPost,
			Handler: ExtractFinanceLineItems(builder),
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/cron/:type/run",
			Method:  http.MethodPost,
			Handler: RunCronJob(services),
		},
		{
			Path:    "/v1/cron",
			Method:  http.MethodGet,
			Handler: GetCronStatus(services),
		},
	}
}

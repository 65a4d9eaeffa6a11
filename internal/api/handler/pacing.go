package handler

import (
	"net/http"
	"sort"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/media-pacing-api/internal/domain"
	"github.com/vfg2006/media-pacing-api/internal/usecases/normalizing"
	"github.com/vfg2006/media-pacing-api/internal/usecases/pacing"
	"github.com/vfg2006/media-pacing-api/pkg/apiErrors"
	"github.com/vfg2006/media-pacing-api/pkg/log"
)

const (
	HeaderPacingCache  = "X-Pacing-Cache"
	HeaderDataDegraded = "X-Data-Degraded"
)

// pacingRequest aceita linhas já normalizadas ou registros brutos agrupados por tipo de mídia
type pacingRequest struct {
	StartDate    domain.Date                     `json:"startDate"`
	EndDate      domain.Date                     `json:"endDate"`
	AsOfDate     domain.Date                     `json:"asOfDate"`
	LineItems    []domain.LineItem               `json:"lineItems"`
	RawLineItems map[string][]domain.RawLineItem `json:"rawLineItems"`
}

func GetCampaignPacing(pacer pacing.Pacer, normalizer normalizing.LineItemNormalizer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		logger = logger.WithField("campaign_id", id)

		var body pacingRequest
		if err := decodeBody(r, &body); err != nil {
			writeServiceError(w, logger, err, "pacing: corpo inválido")
			return
		}

		lineItems := append([]domain.LineItem{}, body.LineItems...)
		lineItems = append(lineItems, flattenNormalized(normalizer.NormalizeAll(body.RawLineItems))...)

		report, err := pacer.GetCampaignPacing(r.Context(), domain.PacingRequest{
			CampaignID: id,
			StartDate:  body.StartDate,
			EndDate:    body.EndDate,
			AsOfDate:   body.AsOfDate,
			LineItems:  lineItems,
		})
		if err != nil {
			writeServiceError(w, logger, err, "pacing: falha ao calcular pacing da campanha")
			return
		}

		w.Header().Set(HeaderPacingCache, report.CacheState)
		if report.Stale {
			w.Header().Set(HeaderDataDegraded, "true")
		}

		logger.WithField("cache_state", report.CacheState).Info("pacing: relatório gerado")

		writeJSON(w, http.StatusOK, report)
	})
}

func GetDailyDelivery(pacer pacing.Pacer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		logger = logger.WithField("campaign_id", id)

		startDate, err := parseDateParam(r, "start_date")
		if err != nil {
			writeServiceError(w, logger, err, "delivery: start_date inválido")
			return
		}

		endDate, err := parseDateParam(r, "end_date")
		if err != nil {
			writeServiceError(w, logger, err, "delivery: end_date inválido")
			return
		}

		if startDate.IsZero() || endDate.IsZero() {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "start_date e end_date são obrigatórios", nil)
			return
		}

		series, err := pacer.GetDailyDelivery(r.Context(), id, startDate, endDate)
		if err != nil {
			writeServiceError(w, logger, err, "delivery: falha ao consultar entrega diária")
			return
		}

		writeJSON(w, http.StatusOK, series)
	})
}

// flattenNormalized junta as linhas em ordem estável de tipo de mídia
func flattenNormalized(byMediaType map[string][]domain.LineItem) []domain.LineItem {
	mediaTypes := make([]string, 0, len(byMediaType))
	for mediaType := range byMediaType {
		mediaTypes = append(mediaTypes, mediaType)
	}
	sort.Strings(mediaTypes)

	items := make([]domain.LineItem, 0)
	for _, mediaType := range mediaTypes {
		items = append(items, byMediaType[mediaType]...)
	}
	return items
}

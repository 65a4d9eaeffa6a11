package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/media-pacing-api/internal/domain"
	"github.com/vfg2006/media-pacing-api/internal/usecases/normalizing"
	"github.com/vfg2006/media-pacing-api/internal/usecases/prorating"
	"github.com/vfg2006/media-pacing-api/pkg/apiErrors"
	"github.com/vfg2006/media-pacing-api/pkg/log"
)

type normalizeRequest struct {
	MediaType string               `json:"mediaType"`
	Records   []domain.RawLineItem `json:"records"`
}

type prorateRequest struct {
	Bursts   []domain.Burst `json:"bursts"`
	AsOfDate domain.Date    `json:"asOfDate"`
}

type prorateResponse struct {
	AsOfDate           domain.Date     `json:"asOfDate"`
	SpendToDate        decimal.Decimal `json:"spendToDate"`
	DeliverablesToDate decimal.Decimal `json:"deliverablesToDate"`
}

type timeElapsedResponse struct {
	CampaignID         string          `json:"campaignId"`
	StartDate          domain.Date     `json:"startDate"`
	EndDate            domain.Date     `json:"endDate"`
	AsOfDate           domain.Date     `json:"asOfDate"`
	TimeElapsedPercent decimal.Decimal `json:"timeElapsedPercent"`
}

func NormalizeLineItems(normalizer normalizing.LineItemNormalizer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var req normalizeRequest
		if err := decodeBody(r, &req); err != nil {
			writeServiceError(w, logger, err, "line-items: corpo inválido")
			return
		}

		if req.MediaType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "mediaType é obrigatório", nil)
			return
		}

		items := normalizer.Normalize(req.Records, req.MediaType)

		logger.WithField("media_type", req.MediaType).Infof("line-items: %d registros normalizados em %d linhas", len(req.Records), len(items))

		writeJSON(w, http.StatusOK, items)
	})
}

func ProrateBursts() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var req prorateRequest
		if err := decodeBody(r, &req); err != nil {
			writeServiceError(w, logger, err, "line-items: corpo inválido")
			return
		}

		if req.AsOfDate.IsZero() {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "asOfDate é obrigatório", nil)
			return
		}

		writeJSON(w, http.StatusOK, prorateResponse{
			AsOfDate:           req.AsOfDate,
			SpendToDate:        prorating.SpendToDate(req.Bursts, req.AsOfDate).Round(2),
			DeliverablesToDate: prorating.DeliverablesToDate(req.Bursts, req.AsOfDate).Round(0),
		})
	})
}

func GetTimeElapsed() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		startDate, err := parseDateParam(r, "start_date")
		if err != nil {
			writeServiceError(w, logger, err, "time-elapsed: start_date inválido")
			return
		}

		endDate, err := parseDateParam(r, "end_date")
		if err != nil {
			writeServiceError(w, logger, err, "time-elapsed: end_date inválido")
			return
		}

		if startDate.IsZero() || endDate.IsZero() {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "start_date e end_date são obrigatórios", nil)
			return
		}

		asOf, err := parseDateParam(r, "as_of")
		if err != nil {
			writeServiceError(w, logger, err, "time-elapsed: as_of inválido")
			return
		}
		if asOf.IsZero() {
			asOf = domain.Today()
		}

		writeJSON(w, http.StatusOK, timeElapsedResponse{
			CampaignID:         id,
			StartDate:          startDate,
			EndDate:            endDate,
			AsOfDate:           asOf,
			TimeElapsedPercent: prorating.TimeElapsedPercent(startDate, endDate, asOf).Round(2),
		})
	})
}

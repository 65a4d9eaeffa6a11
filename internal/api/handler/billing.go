package handler

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/media-pacing-api/internal/domain"
	"github.com/vfg2006/media-pacing-api/internal/usecases/billing"
	"github.com/vfg2006/media-pacing-api/internal/usecases/normalizing"
	"github.com/vfg2006/media-pacing-api/pkg/apiErrors"
	"github.com/vfg2006/media-pacing-api/pkg/log"
	"github.com/vfg2006/media-pacing-api/pkg/utils"
)

type billingScheduleRequest struct {
	Months []domain.BillingMonthInput `json:"months"`
}

type scheduleFromLineItemsRequest struct {
	LineItems    []domain.LineItem               `json:"lineItems"`
	RawLineItems map[string][]domain.RawLineItem `json:"rawLineItems"`
	FeePercent   any                             `json:"feePercent"`
	AdServing    map[string]any                  `json:"adServing"`
	Production   map[string]any                  `json:"production"`
}

type financeRequest struct {
	Schedule []domain.BillingMonth `json:"schedule"`
	Costs    []domain.AdHocCost    `json:"costs"`
	Year     int                   `json:"year"`
	Month    int                   `json:"month"`
}

func BuildBillingSchedule(builder billing.ScheduleBuilder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var req billingScheduleRequest
		if err := decodeBody(r, &req); err != nil {
			writeServiceError(w, logger, err, "billing: corpo inválido")
			return
		}

		schedule := builder.Build(req.Months)
		logger.Infof("billing: %d meses recebidos, %d meses faturáveis", len(req.Months), len(schedule))

		writeJSON(w, http.StatusOK, schedule)
	})
}

func BuildScheduleFromLineItems(builder billing.ScheduleBuilder, normalizer normalizing.LineItemNormalizer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var req scheduleFromLineItemsRequest
		if err := decodeBody(r, &req); err != nil {
			writeServiceError(w, logger, err, "billing: corpo inválido")
			return
		}

		lineItems := append([]domain.LineItem{}, req.LineItems...)
		lineItems = append(lineItems, flattenNormalized(normalizer.NormalizeAll(req.RawLineItems))...)

		if len(lineItems) == 0 {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "nenhuma linha informada", nil)
			return
		}

		schedule := builder.FromLineItems(lineItems, billing.ScheduleOptions{
			FeePercent: utils.ParseAmount(req.FeePercent),
			AdServing:  amountsByMonth(req.AdServing),
			Production: amountsByMonth(req.Production),
		})

		logger.Infof("billing: programação gerada com %d meses a partir de %d linhas", len(schedule), len(lineItems))

		writeJSON(w, http.StatusOK, schedule)
	})
}

// ExtractFinanceLineItems achata um mês da programação (ou da lista de custos avulsos) para faturamento
func ExtractFinanceLineItems(builder billing.ScheduleBuilder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var req financeRequest
		if err := decodeBody(r, &req); err != nil {
			writeServiceError(w, logger, err, "finance: corpo inválido")
			return
		}

		month := time.Month(req.Month)

		items, err := builder.ExtractFinanceLineItems(req.Schedule, req.Year, month)
		if err != nil {
			writeServiceError(w, logger, err, "finance: mês inválido")
			return
		}

		costs, err := billing.ExtractAdHocCosts(req.Costs, req.Year, month)
		if err != nil {
			writeServiceError(w, logger, err, "finance: mês inválido")
			return
		}

		items = append(items, costs...)

		if wantsCSV(r) {
			writeFinanceCSV(w, logger, items)
			return
		}

		writeJSON(w, http.StatusOK, items)
	})
}

// financeCSVRow é a linha exportada para a planilha de faturamento
type financeCSVRow struct {
	MonthYear   string `csv:"month_year"`
	MediaType   string `csv:"media_type"`
	LineItemID  string `csv:"line_item_id"`
	Description string `csv:"description"`
	Amount      string `csv:"amount"`
}

func wantsCSV(r *http.Request) bool {
	return r.URL.Query().Get("format") == "csv" || strings.Contains(r.Header.Get("Accept"), "text/csv")
}

func writeFinanceCSV(w http.ResponseWriter, logger log.Logger, items []domain.FinanceLineItem) {
	rows := make([]*financeCSVRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, &financeCSVRow{
			MonthYear:   item.MonthYear,
			MediaType:   item.MediaType,
			LineItemID:  item.LineItemID,
			Description: item.Description,
			Amount:      item.Amount.StringFixed(2),
		})
	}

	var buf bytes.Buffer
	if err := gocsv.Marshal(rows, &buf); err != nil {
		writeServiceError(w, logger, err, "finance: falha ao gerar CSV")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="finance-line-items.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.WithError(err).Warn("finance: erro ao escrever CSV")
	}
}

func amountsByMonth(values map[string]any) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(values))
	for month, value := range values {
		out[month] = utils.ParseAmount(value)
	}
	return out
}

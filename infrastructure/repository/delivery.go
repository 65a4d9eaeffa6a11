package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/vfg2006/media-pacing-api/infrastructure/warehouse"
	"github.com/vfg2006/media-pacing-api/internal/domain"
	"github.com/vfg2006/media-pacing-api/pkg/utils"
)

const (
	defaultDeliveryTable = "delivery_daily"
	dateOnly             = "2006-01-02"
)

// Executor é o contrato mínimo do pool do warehouse usado pelos repositórios
type Executor interface {
	Execute(ctx context.Context, query string, args ...any) ([]warehouse.Row, error)
}

type DeliveryRepository interface {
	GetDeliveryActuals(ctx context.Context, filter domain.DeliveryFilter) ([]domain.DeliveryActual, error)
	GetDailyDelivery(ctx context.Context, campaignID string, startDate, endDate domain.Date) ([]domain.DailyDelivery, error)
}

type deliveryRepository struct {
	executor Executor
	table    string
}

func NewDeliveryRepository(executor Executor, table string) DeliveryRepository {
	if table == "" {
		table = defaultDeliveryTable
	}

	return &deliveryRepository{
		executor: executor,
		table:    table,
	}
}

// GetDeliveryActuals agrega a entrega por linha. Linhas sem entrega no período não aparecem no resultado.
func (r *deliveryRepository) GetDeliveryActuals(ctx context.Context, filter domain.DeliveryFilter) ([]domain.DeliveryActual, error) {
	if filter.CampaignID == "" {
		return nil, domain.NewValidationError("campaignId", "obrigatório")
	}
	if len(filter.LineItemIDs) == 0 {
		return nil, domain.NewValidationError("lineItemIds", "lista de linhas vazia")
	}

	query, args, err := squirrel.
		Select(
			"LOWER(line_item_id) AS line_item_id",
			"COALESCE(SUM(spend), 0) AS spend",
			"COALESCE(SUM(impressions), 0) AS impressions",
			"COALESCE(SUM(clicks), 0) AS clicks",
			"COALESCE(SUM(conversions), 0) AS conversions",
			"COALESCE(SUM(video_views), 0) AS video_views",
			"MAX(date) AS last_delivery_date",
		).
		From(r.table).
		Where(squirrel.Eq{"campaign_id": filter.CampaignID}).
		Where("date >= CAST(? AS DATE)", filter.StartDate.Time().Format(dateOnly)).
		Where("date <= CAST(? AS DATE)", filter.EndDate.Time().Format(dateOnly)).
		Where(squirrel.Eq{"LOWER(line_item_id)": filter.LineItemIDs}).
		GroupBy("LOWER(line_item_id)").
		OrderBy("line_item_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.executor.Execute(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao consultar entrega por linha")
	}

	actuals := make([]domain.DeliveryActual, 0, len(rows))
	for _, row := range rows {
		actuals = append(actuals, domain.DeliveryActual{
			LineItemID:       strings.ToLower(fmt.Sprint(row["line_item_id"])),
			Spend:            utils.ParseAmount(row["spend"]),
			Impressions:      utils.ParseAmount(row["impressions"]),
			Clicks:           utils.ParseAmount(row["clicks"]),
			Conversions:      utils.ParseAmount(row["conversions"]),
			VideoViews:       utils.ParseAmount(row["video_views"]),
			LastDeliveryDate: dateValue(row["last_delivery_date"]),
		})
	}

	return actuals, nil
}

// GetDailyDelivery devolve a série diária da campanha, para gráficos
func (r *deliveryRepository) GetDailyDelivery(ctx context.Context, campaignID string, startDate, endDate domain.Date) ([]domain.DailyDelivery, error) {
	if campaignID == "" {
		return nil, domain.NewValidationError("campaignId", "obrigatório")
	}

	query, args, err := squirrel.
		Select(
			"date",
			"COALESCE(SUM(spend), 0) AS spend",
			"COALESCE(SUM(impressions), 0) AS impressions",
			"COALESCE(SUM(clicks), 0) AS clicks",
		).
		From(r.table).
		Where(squirrel.Eq{"campaign_id": campaignID}).
		Where("date >= CAST(? AS DATE)", startDate.Time().Format(dateOnly)).
		Where("date <= CAST(? AS DATE)", endDate.Time().Format(dateOnly)).
		GroupBy("date").
		OrderBy("date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.executor.Execute(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao consultar entrega diária")
	}

	series := make([]domain.DailyDelivery, 0, len(rows))
	for _, row := range rows {
		series = append(series, domain.DailyDelivery{
			Date:        dateValue(row["date"]),
			Spend:       utils.ParseAmount(row["spend"]),
			Impressions: utils.ParseAmount(row["impressions"]),
			Clicks:      utils.ParseAmount(row["clicks"]),
		})
	}

	return series, nil
}

func dateValue(value any) domain.Date {
	switch v := value.(type) {
	case time.Time:
		return domain.DateOf(v.UTC())
	case string:
		date, err := domain.ParseDate(v)
		if err != nil {
			return domain.Date{}
		}
		return date
	default:
		return domain.Date{}
	}
}

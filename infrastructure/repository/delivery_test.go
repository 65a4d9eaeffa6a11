package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/media-pacing-api/infrastructure/repository/mocks"
	"github.com/vfg2006/media-pacing-api/infrastructure/warehouse"
	"github.com/vfg2006/media-pacing-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func TestDeliveryRepository_GetDeliveryActuals(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	executor := mocks.NewMockExecutor(ctrl)
	repo := NewDeliveryRepository(executor, "analytics.delivery_daily")

	filter := domain.DeliveryFilter{
		CampaignID:  "cmp-1",
		LineItemIDs: []string{"a", "b"},
		StartDate:   domain.MustParseDate("2025-01-01"),
		EndDate:     domain.MustParseDate("2025-01-31"),
	}

	executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), "cmp-1", "2025-01-01", "2025-01-31", "a", "b").
		DoAndReturn(func(_ context.Context, query string, _ ...any) ([]warehouse.Row, error) {
			assert.Contains(t, query, "FROM analytics.delivery_daily")
			assert.Contains(t, query, "LOWER(line_item_id) IN (?,?)")
			assert.Contains(t, query, "date >= CAST(? AS DATE)")
			assert.Contains(t, query, "GROUP BY LOWER(line_item_id)")
			return []warehouse.Row{
				{
					"line_item_id":       "A",
					"spend":              1234.5,
					"impressions":        int64(100000),
					"clicks":             uint64(250),
					"conversions":        "12",
					"video_views":        nil,
					"last_delivery_date": time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
				},
			}, nil
		})

	actuals, err := repo.GetDeliveryActuals(context.Background(), filter)

	require.NoError(t, err)
	require.Len(t, actuals, 1)
	assert.Equal(t, "a", actuals[0].LineItemID)
	assert.True(t, actuals[0].Spend.Equal(decimal.NewFromFloat(1234.5)))
	assert.True(t, actuals[0].Impressions.Equal(decimal.NewFromInt(100000)))
	assert.True(t, actuals[0].Clicks.Equal(decimal.NewFromInt(250)))
	assert.True(t, actuals[0].Conversions.Equal(decimal.NewFromInt(12)))
	assert.True(t, actuals[0].VideoViews.IsZero())
	assert.Equal(t, "2025-01-20", actuals[0].LastDeliveryDate.String())
}

func TestDeliveryRepository_GetDeliveryActuals_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewDeliveryRepository(mocks.NewMockExecutor(ctrl), "")

	_, err := repo.GetDeliveryActuals(context.Background(), domain.DeliveryFilter{CampaignID: "cmp-1"})
	assert.True(t, domain.IsValidationError(err))

	_, err = repo.GetDeliveryActuals(context.Background(), domain.DeliveryFilter{LineItemIDs: []string{"a"}})
	assert.True(t, domain.IsValidationError(err))
}

func TestDeliveryRepository_GetDeliveryActuals_KeepsWarehouseErrorKind(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	executor := mocks.NewMockExecutor(ctrl)
	repo := NewDeliveryRepository(executor, "")

	executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), "cmp-1", "2025-01-01", "2025-01-02", "a").
		Return(nil, &warehouse.TimeoutError{Limit: time.Minute})

	_, err := repo.GetDeliveryActuals(context.Background(), domain.DeliveryFilter{
		CampaignID:  "cmp-1",
		LineItemIDs: []string{"a"},
		StartDate:   domain.MustParseDate("2025-01-01"),
		EndDate:     domain.MustParseDate("2025-01-02"),
	})

	require.Error(t, err)
	assert.True(t, warehouse.IsTimeout(err))
	assert.Contains(t, err.Error(), "erro ao consultar entrega por linha")
}

func TestDeliveryRepository_GetDailyDelivery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	executor := mocks.NewMockExecutor(ctrl)
	repo := NewDeliveryRepository(executor, "")

	executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), "cmp-9", "2025-03-01", "2025-03-02").
		Return([]warehouse.Row{
			{"date": "2025-03-01", "spend": "10.50", "impressions": int64(1000), "clicks": int64(3)},
			{"date": "2025-03-02", "spend": 0.0, "impressions": int64(0), "clicks": int64(0)},
		}, nil)

	series, err := repo.GetDailyDelivery(context.Background(), "cmp-9", domain.MustParseDate("2025-03-01"), domain.MustParseDate("2025-03-02"))

	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, "2025-03-01", series[0].Date.String())
	assert.True(t, series[0].Spend.Equal(decimal.RequireFromString("10.50")))
}

func TestDeliveryRepository_GetDailyDelivery_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	executor := mocks.NewMockExecutor(ctrl)
	repo := NewDeliveryRepository(executor, "")
	boom := errors.New("warehouse fatal: boom")

	executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, boom)

	series, err := repo.GetDailyDelivery(context.Background(), "cmp-9", domain.MustParseDate("2025-03-01"), domain.MustParseDate("2025-03-02"))

	assert.Nil(t, series)
	assert.ErrorIs(t, err, boom)
}

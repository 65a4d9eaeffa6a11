package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/media-pacing-api/internal/domain"
)

func TestMonthlyInputs_SharesSumToBudget(t *testing.T) {
	item := domain.LineItem{
		LineItemID: "r1",
		MediaType:  domain.MediaRadio,
		Bursts: []domain.Burst{{
			StartDate:    domain.MustParseDate("2025-01-15"),
			EndDate:      domain.MustParseDate("2025-03-20"),
			BudgetAmount: decimal.NewFromInt(1000),
		}},
	}

	inputs := MonthlyInputs([]domain.LineItem{item}, ScheduleOptions{})

	require.Len(t, inputs, 3)
	assert.Equal(t, "January 2025", inputs[0].MonthYear)
	assert.Equal(t, "March 2025", inputs[2].MonthYear)

	total := decimal.Zero
	for _, input := range inputs {
		require.Len(t, input.MediaTypes, 1)
		total = total.Add(input.MediaTypes[0].LineItems[0].Amount.(decimal.Decimal))
	}
	assert.True(t, total.Equal(decimal.NewFromInt(1000)), "got %s", total)
}

func TestMonthlyInputs_MergesBurstsOfSameMonthAndAddsExtras(t *testing.T) {
	item := domain.LineItem{
		LineItemID: "s1",
		MediaType:  domain.MediaSearch,
		Bursts: []domain.Burst{
			{StartDate: domain.MustParseDate("2025-04-01"), EndDate: domain.MustParseDate("2025-04-10"), BudgetAmount: decimal.NewFromInt(100)},
			{StartDate: domain.MustParseDate("2025-04-20"), EndDate: domain.MustParseDate("2025-04-30"), BudgetAmount: decimal.NewFromInt(50)},
		},
	}
	opts := ScheduleOptions{
		AdServing:  map[string]decimal.Decimal{"2025-04": decimal.NewFromInt(20)},
		Production: map[string]decimal.Decimal{"2025-06": decimal.NewFromInt(75)},
	}

	inputs := MonthlyInputs([]domain.LineItem{item}, opts)

	require.Len(t, inputs, 2)
	assert.Equal(t, "April 2025", inputs[0].MonthYear)
	assert.True(t, inputs[0].MediaTypes[0].LineItems[0].Amount.(decimal.Decimal).Equal(decimal.NewFromInt(150)))
	assert.Equal(t, decimal.NewFromInt(20), inputs[0].AdservingTechFees)

	assert.Equal(t, "June 2025", inputs[1].MonthYear)
	assert.Empty(t, inputs[1].MediaTypes)
	assert.Equal(t, decimal.NewFromInt(75), inputs[1].Production)
}

func TestMonthlyInputs_NoLineItems(t *testing.T) {
	assert.Empty(t, MonthlyInputs(nil, ScheduleOptions{}))
}

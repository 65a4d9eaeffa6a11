package prorating

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/media-pacing-api/internal/domain"
)

func newBurst(start, end string, budget int64) domain.Burst {
	return domain.Burst{
		StartDate:         domain.MustParseDate(start),
		EndDate:           domain.MustParseDate(end),
		BudgetAmount:      decimal.NewFromInt(budget),
		DeliverableAmount: decimal.NewFromInt(budget * 10),
	}
}

func TestSpendToDate_HalfwayThroughTenDayBurst(t *testing.T) {
	burst := newBurst("2025-01-01", "2025-01-10", 1000)

	got := SpendToDate([]domain.Burst{burst}, domain.MustParseDate("2025-01-05"))

	assert.True(t, got.Equal(decimal.NewFromInt(500)), "got %s", got)
}

func TestBurstToDate_Boundaries(t *testing.T) {
	burst := newBurst("2025-03-10", "2025-03-20", 1100)

	tests := []struct {
		name     string
		asOf     string
		expected decimal.Decimal
	}{
		{name: "antes do início", asOf: "2025-03-09", expected: decimal.Zero},
		{name: "muito antes do início", asOf: "2024-01-01", expected: decimal.Zero},
		{name: "primeiro dia", asOf: "2025-03-10", expected: decimal.NewFromInt(100)},
		{name: "último dia", asOf: "2025-03-20", expected: decimal.NewFromInt(1100)},
		{name: "depois do fim", asOf: "2025-04-01", expected: decimal.NewFromInt(1100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BurstToDate(burst, domain.MustParseDate(tt.asOf), burst.BudgetAmount)
			assert.True(t, got.Equal(tt.expected), "got %s, expected %s", got, tt.expected)
		})
	}
}

func TestBurstToDate_SingleDayBurst(t *testing.T) {
	burst := newBurst("2025-06-15", "2025-06-15", 750)

	assert.True(t, BurstToDate(burst, domain.MustParseDate("2025-06-14"), burst.BudgetAmount).IsZero())
	assert.True(t, BurstToDate(burst, domain.MustParseDate("2025-06-15"), burst.BudgetAmount).Equal(decimal.NewFromInt(750)))
	assert.True(t, BurstToDate(burst, domain.MustParseDate("2025-06-16"), burst.BudgetAmount).Equal(decimal.NewFromInt(750)))
}

func TestBurstToDate_MonotonicAndNeverAboveTotal(t *testing.T) {
	burst := newBurst("2025-01-01", "2025-03-31", 1000)
	asOf := domain.MustParseDate("2024-12-25")
	previous := decimal.Zero

	for i := 0; i < 120; i++ {
		got := BurstToDate(burst, asOf, burst.BudgetAmount)

		assert.True(t, got.GreaterThanOrEqual(previous), "%s: %s < %s", asOf, got, previous)
		assert.True(t, got.LessThanOrEqual(burst.BudgetAmount))

		previous = got
		asOf = asOf.AddDays(1)
	}

	assert.True(t, previous.Equal(burst.BudgetAmount))
}

func TestComputeToDate_SumsBurstsAndSelectsField(t *testing.T) {
	bursts := []domain.Burst{
		newBurst("2025-01-01", "2025-01-10", 1000),
		newBurst("2025-01-11", "2025-01-20", 2000),
		newBurst("2025-02-01", "2025-02-28", 5000),
	}
	asOf := domain.MustParseDate("2025-01-15")

	spend := SpendToDate(bursts, asOf)
	deliverables := DeliverablesToDate(bursts, asOf)

	// 1000 completo + 2000 * 5/10 + 0
	assert.True(t, spend.Equal(decimal.NewFromInt(2000)), "got %s", spend)
	assert.True(t, deliverables.Equal(decimal.NewFromInt(20000)), "got %s", deliverables)
}

func TestComputeToDate_EmptyBursts(t *testing.T) {
	assert.True(t, SpendToDate(nil, domain.MustParseDate("2025-01-01")).IsZero())
}

func TestTimeElapsedPercent(t *testing.T) {
	start := domain.MustParseDate("2025-01-01")
	end := domain.MustParseDate("2025-01-31")

	tests := []struct {
		name     string
		asOf     string
		expected decimal.Decimal
	}{
		{name: "antes do início", asOf: "2024-12-31", expected: decimal.Zero},
		{name: "depois do fim", asOf: "2025-02-01", expected: decimal.NewFromInt(100)},
		{name: "no fim", asOf: "2025-01-31", expected: decimal.NewFromInt(100)},
		{name: "primeiro dia", asOf: "2025-01-01", expected: decimal.NewFromInt(1).Div(decimal.NewFromInt(31)).Mul(decimal.NewFromInt(100))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TimeElapsedPercent(start, end, domain.MustParseDate(tt.asOf))
			assert.True(t, got.Equal(tt.expected), "got %s, expected %s", got, tt.expected)
		})
	}
}

func TestPacingPercent(t *testing.T) {
	assert.True(t, PacingPercent(decimal.NewFromInt(50), decimal.Zero).IsZero())
	assert.True(t, PacingPercent(decimal.NewFromInt(50), decimal.NewFromInt(100)).Equal(decimal.NewFromInt(50)))
	assert.True(t, PacingPercent(decimal.NewFromInt(150), decimal.NewFromInt(100)).Equal(decimal.NewFromInt(150)))
}

// Package prorating distribui linearmente, por dia de calendário, o total de um burst
// para estimar quanto deveria ter sido investido ou entregue até uma data.
//
// As contagens de dias incluem as duas pontas: um burst de um único dia tem um dia.
// Nenhum arredondamento é aplicado aqui; formatação monetária é responsabilidade de quem apresenta.
package prorating

import (
	"github.com/shopspring/decimal"
	"github.com/vfg2006/media-pacing-api/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// AmountSelector escolhe qual total do burst será prorrateado
type AmountSelector func(domain.Burst) decimal.Decimal

var (
	// Spend prorrateia o orçamento do burst
	Spend AmountSelector = func(b domain.Burst) decimal.Decimal { return b.BudgetAmount }

	// Deliverables prorrateia os entregáveis do burst
	Deliverables AmountSelector = func(b domain.Burst) decimal.Decimal { return b.DeliverableAmount }
)

// ComputeToDate soma, na ordem recebida, a contribuição de cada burst até asOf
func ComputeToDate(bursts []domain.Burst, asOf domain.Date, amount AmountSelector) decimal.Decimal {
	total := decimal.Zero
	for _, burst := range bursts {
		total = total.Add(BurstToDate(burst, asOf, amount(burst)))
	}
	return total
}

// SpendToDate é o investimento esperado até asOf
func SpendToDate(bursts []domain.Burst, asOf domain.Date) decimal.Decimal {
	return ComputeToDate(bursts, asOf, Spend)
}

// DeliverablesToDate é a entrega esperada até asOf
func DeliverablesToDate(bursts []domain.Burst, asOf domain.Date) decimal.Decimal {
	return ComputeToDate(bursts, asOf, Deliverables)
}

// BurstToDate calcula a parcela de total devida até asOf para o intervalo do burst.
//
//	asOf < início  -> 0
//	asOf >= fim    -> total
//	caso contrário -> total * diasDecorridos / diasTotais (ambos inclusivos)
//
// O resultado é sempre limitado a [0, total].
func BurstToDate(burst domain.Burst, asOf domain.Date, total decimal.Decimal) decimal.Decimal {
	if asOf.Before(burst.StartDate) {
		return decimal.Zero
	}

	if !asOf.Before(burst.EndDate) {
		return clamp(total, total)
	}

	totalDays := domain.DaysInclusive(burst.StartDate, burst.EndDate)
	if totalDays <= 0 {
		return decimal.Zero
	}

	elapsed := domain.DaysInclusive(burst.StartDate, asOf)
	value := total.Mul(decimal.NewFromInt(int64(elapsed))).Div(decimal.NewFromInt(int64(totalDays)))

	return clamp(value, total)
}

// TimeElapsedPercent usa a mesma contagem inclusiva sobre o período inteiro da campanha.
// Devolve exatamente 0 antes do início e exatamente 100 a partir do fim.
func TimeElapsedPercent(start, end, asOf domain.Date) decimal.Decimal {
	if asOf.Before(start) || end.Before(start) {
		return decimal.Zero
	}

	if !asOf.Before(end) {
		return hundred
	}

	totalDays := domain.DaysInclusive(start, end)
	elapsed := domain.DaysInclusive(start, asOf)

	percent := decimal.NewFromInt(int64(elapsed)).Div(decimal.NewFromInt(int64(totalDays))).Mul(hundred)
	return clamp(percent, hundred)
}

// PacingPercent compara realizado e esperado; esperado zero resulta em zero
func PacingPercent(actual, expected decimal.Decimal) decimal.Decimal {
	if !expected.IsPositive() {
		return decimal.Zero
	}
	return actual.Div(expected).Mul(hundred)
}

// clamp limita value a [0, upper]; com upper negativo o resultado é zero
func clamp(value, upper decimal.Decimal) decimal.Decimal {
	if upper.IsNegative() || value.IsNegative() {
		return decimal.Zero
	}
	if value.GreaterThan(upper) {
		return upper
	}
	return value
}

package billing

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/vfg2006/media-pacing-api/internal/domain"
	"github.com/vfg2006/media-pacing-api/pkg/utils"
)

const (
	feeMediaType         = "fees"
	adservingDescription = "Ad Serving & Tech Fees"
	productionDesc       = "Production"
	feeDescription       = "Agency Fee"
)

var (
	isoMonthPattern     = regexp.MustCompile(`^(\d{4})-(\d{1,2})(?:-\d{1,2})?$`)
	compactMonthPattern = regexp.MustCompile(`^(\d{4})(\d{2})$`)
	textMonthPattern    = regexp.MustCompile(`^([a-z]+)[\s,\-/]+(\d{4})$`)
)

var monthNames = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"may": time.May, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "sept": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
}

// ParseMonthLabel reconhece "YYYY-MM", "YYYYMM" e "Month YYYY" (nome completo ou abreviado)
func ParseMonthLabel(label string) (int, time.Month, bool) {
	text := strings.ToLower(strings.TrimSpace(label))

	if m := isoMonthPattern.FindStringSubmatch(text); m != nil {
		return yearMonth(m[1], m[2])
	}

	if m := compactMonthPattern.FindStringSubmatch(text); m != nil {
		return yearMonth(m[1], m[2])
	}

	if m := textMonthPattern.FindStringSubmatch(text); m != nil {
		name := m[1]
		month, ok := monthNames[name]
		if !ok && len(name) > 3 {
			month, ok = monthNames[name[:3]]
		}
		if !ok {
			return 0, 0, false
		}
		year, err := strconv.Atoi(m[2])
		if err != nil {
			return 0, 0, false
		}
		return year, month, true
	}

	return 0, 0, false
}

// MatchMonthLabel indica se o rótulo corresponde ao ano e mês pedidos
func MatchMonthLabel(label string, year int, month time.Month) bool {
	y, m, ok := ParseMonthLabel(label)
	return ok && y == year && m == month
}

// ExtractFinanceLineItems achata o mês correspondente da programação numa lista pronta para fatura.
// Os valores são lidos com o mesmo locale usado por Build. Mês não encontrado resulta em lista vazia.
func (b *Builder) ExtractFinanceLineItems(schedule []domain.BillingMonth, year int, month time.Month) ([]domain.FinanceLineItem, error) {
	if err := validateTarget(year, month); err != nil {
		return nil, err
	}

	items := make([]domain.FinanceLineItem, 0)
	for _, entry := range schedule {
		if !MatchMonthLabel(entry.MonthYear, year, month) {
			continue
		}

		for _, bucket := range entry.MediaTypes {
			for _, line := range bucket.LineItems {
				amount := b.money.Parse(line.Amount)
				if !amount.IsPositive() {
					continue
				}
				items = append(items, domain.FinanceLineItem{
					MonthYear:   entry.MonthYear,
					MediaType:   bucket.MediaType,
					LineItemID:  line.LineItemID,
					Description: describe(line.Header1, line.Header2),
					Amount:      amount,
				})
			}
		}

		for _, fee := range []struct{ description, value string }{
			{adservingDescription, entry.AdservingTechFees},
			{productionDesc, entry.Production},
			{feeDescription, entry.FeeTotal},
		} {
			amount := b.money.Parse(fee.value)
			if !amount.IsPositive() {
				continue
			}
			items = append(items, domain.FinanceLineItem{
				MonthYear:   entry.MonthYear,
				MediaType:   feeMediaType,
				Description: fee.description,
				Amount:      amount,
			})
		}

		break
	}

	return items, nil
}

// ExtractAdHocCosts filtra os custos avulsos do mês pedido com valor positivo
func ExtractAdHocCosts(costs []domain.AdHocCost, year int, month time.Month) ([]domain.FinanceLineItem, error) {
	if err := validateTarget(year, month); err != nil {
		return nil, err
	}

	items := make([]domain.FinanceLineItem, 0)
	for _, cost := range costs {
		if !MatchMonthLabel(cost.MonthYear, year, month) {
			continue
		}

		amount := utils.ParseAmount(cost.Amount)
		if !amount.IsPositive() {
			continue
		}

		items = append(items, domain.FinanceLineItem{
			MonthYear:   cost.MonthYear,
			MediaType:   cost.MediaType,
			Description: cost.Description,
			Amount:      amount,
		})
	}

	return items, nil
}

func validateTarget(year int, month time.Month) error {
	if year < 1900 || year > 9999 {
		return domain.NewValidationError("year", "ano inválido")
	}
	if month < time.January || month > time.December {
		return domain.NewValidationError("month", "mês deve estar entre 1 e 12")
	}
	return nil
}

func yearMonth(yearText, monthText string) (int, time.Month, bool) {
	year, err := strconv.Atoi(yearText)
	if err != nil {
		return 0, 0, false
	}
	month, err := strconv.Atoi(monthText)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, time.Month(month), true
}

func describe(header1, header2 string) string {
	switch {
	case header1 == "":
		return header2
	case header2 == "":
		return header1
	default:
		return header1 + " - " + header2
	}
}

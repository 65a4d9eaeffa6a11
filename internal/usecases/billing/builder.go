package billing

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/media-pacing-api/internal/config"
	"github.com/vfg2006/media-pacing-api/internal/domain"
	"github.com/vfg2006/media-pacing-api/pkg/log"
	"github.com/vfg2006/media-pacing-api/pkg/utils"
)

// ScheduleBuilder monta a programação de faturamento mês a mês
type ScheduleBuilder interface {
	Build(months []domain.BillingMonthInput) []domain.BillingMonth
	FromLineItems(lineItems []domain.LineItem, opts ScheduleOptions) []domain.BillingMonth
	ExtractFinanceLineItems(schedule []domain.BillingMonth, year int, month time.Month) ([]domain.FinanceLineItem, error)
}

type Builder struct {
	money *MoneyFormatter
}

func NewBuilder(cfg config.Billing) *Builder {
	return &Builder{
		money: NewMoneyFormatter(cfg.Locale, cfg.CurrencySymbol),
	}
}

// Build poda linhas com valor não positivo, tipos de mídia vazios e meses sem nada a faturar.
// A ordem dos meses é a da entrada. Valores ilegíveis contam como zero.
func (b *Builder) Build(months []domain.BillingMonthInput) []domain.BillingMonth {
	schedule := make([]domain.BillingMonth, 0, len(months))

	for _, month := range months {
		mediaTypes := make([]domain.BillingMediaType, 0, len(month.MediaTypes))

		for _, bucket := range month.MediaTypes {
			items := make([]domain.BillingLineItem, 0, len(bucket.LineItems))
			for _, item := range bucket.LineItems {
				amount := utils.ParseAmount(item.Amount)
				if !amount.IsPositive() {
					continue
				}

				items = append(items, domain.BillingLineItem{
					LineItemID: item.LineItemID,
					Header1:    item.Header1,
					Header2:    item.Header2,
					Amount:     b.money.Format(amount),
				})
			}

			if len(items) == 0 {
				continue
			}

			mediaTypes = append(mediaTypes, domain.BillingMediaType{
				MediaType: bucket.MediaType,
				LineItems: items,
			})
		}

		fee := utils.ParseAmount(month.FeeTotal)
		adserving := utils.ParseAmount(month.AdservingTechFees)
		production := utils.ParseAmount(month.Production)

		if len(mediaTypes) == 0 && fee.IsZero() && adserving.IsZero() && production.IsZero() {
			log.L.WithField("month", month.MonthYear).Debug("mês sem valores faturáveis removido da programação")
			continue
		}

		schedule = append(schedule, domain.BillingMonth{
			MonthYear:         month.MonthYear,
			MediaTypes:        mediaTypes,
			AdservingTechFees: b.optional(adserving),
			Production:        b.optional(production),
			FeeTotal:          b.optional(fee),
		})
	}

	return schedule
}

// FromLineItems distribui os bursts por mês e em seguida aplica Build
func (b *Builder) FromLineItems(lineItems []domain.LineItem, opts ScheduleOptions) []domain.BillingMonth {
	return b.Build(MonthlyInputs(lineItems, opts))
}

func (b *Builder) optional(amount decimal.Decimal) string {
	if amount.IsZero() {
		return ""
	}
	return b.money.Format(amount)
}

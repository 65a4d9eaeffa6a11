package billing

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/media-pacing-api/internal/domain"
)

const monthLabelLayout = "January 2006"

// ScheduleOptions complementa a distribuição mensal.
// AdServing e Production são indexados pelo mês no formato "YYYY-MM".
type ScheduleOptions struct {
	FeePercent decimal.Decimal
	AdServing  map[string]decimal.Decimal
	Production map[string]decimal.Decimal
}

type monthBucket struct {
	first  domain.Date
	totals map[string]map[string]decimal.Decimal // mídia -> linha -> valor
	media  decimal.Decimal
}

// MonthlyInputs reparte o orçamento de cada burst entre os meses que ele toca,
// proporcionalmente aos dias inclusivos em cada mês. O último mês recebe o resto,
// então a soma das parcelas é exatamente o orçamento do burst.
func MonthlyInputs(lineItems []domain.LineItem, opts ScheduleOptions) []domain.BillingMonthInput {
	buckets := make(map[string]*monthBucket)
	headers := make(map[string]domain.LineItem)
	order := make(map[string][]string)

	for _, item := range lineItems {
		key := item.MediaType + "|" + item.LineItemID
		if _, seen := headers[key]; !seen {
			headers[key] = item
			order[item.MediaType] = append(order[item.MediaType], item.LineItemID)
		}

		for _, burst := range item.Bursts {
			for _, share := range splitByMonth(burst) {
				bucket := buckets[share.month]
				if bucket == nil {
					bucket = &monthBucket{
						first:  share.first,
						totals: make(map[string]map[string]decimal.Decimal),
					}
					buckets[share.month] = bucket
				}

				if bucket.totals[item.MediaType] == nil {
					bucket.totals[item.MediaType] = make(map[string]decimal.Decimal)
				}
				bucket.totals[item.MediaType][item.LineItemID] = bucket.totals[item.MediaType][item.LineItemID].Add(share.amount)
				bucket.media = bucket.media.Add(share.amount)
			}
		}
	}

	for key := range opts.AdServing {
		ensureBucket(buckets, key)
	}
	for key := range opts.Production {
		ensureBucket(buckets, key)
	}

	keys := make([]string, 0, len(buckets))
	for key, bucket := range buckets {
		if bucket != nil {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	mediaNames := make([]string, 0, len(order))
	for name := range order {
		mediaNames = append(mediaNames, name)
	}
	sort.Strings(mediaNames)

	inputs := make([]domain.BillingMonthInput, 0, len(keys))
	for _, key := range keys {
		bucket := buckets[key]

		input := domain.BillingMonthInput{
			MonthYear:  bucket.first.Time().Format(monthLabelLayout),
			MediaTypes: make([]domain.MediaTypeInput, 0, len(bucket.totals)),
		}

		for _, mediaType := range mediaNames {
			totals, ok := bucket.totals[mediaType]
			if !ok {
				continue
			}

			mt := domain.MediaTypeInput{MediaType: mediaType}
			for _, id := range order[mediaType] {
				amount, ok := totals[id]
				if !ok {
					continue
				}
				item := headers[mediaType+"|"+id]
				mt.LineItems = append(mt.LineItems, domain.BillingLineItemInput{
					LineItemID: id,
					Header1:    item.Header1(),
					Header2:    item.Header2(),
					Amount:     amount,
				})
			}
			input.MediaTypes = append(input.MediaTypes, mt)
		}

		if opts.FeePercent.IsPositive() && bucket.media.IsPositive() {
			input.FeeTotal = bucket.media.Mul(opts.FeePercent).Div(decimal.NewFromInt(100))
		}
		if amount, ok := opts.AdServing[key]; ok {
			input.AdservingTechFees = amount
		}
		if amount, ok := opts.Production[key]; ok {
			input.Production = amount
		}

		inputs = append(inputs, input)
	}

	return inputs
}

type monthShare struct {
	month  string
	first  domain.Date
	amount decimal.Decimal
}

func splitByMonth(burst domain.Burst) []monthShare {
	totalDays := domain.DaysInclusive(burst.StartDate, burst.EndDate)
	if totalDays <= 0 {
		return nil
	}

	shares := make([]monthShare, 0)
	allocated := decimal.Zero
	cursor := burst.StartDate

	for !cursor.After(burst.EndDate) {
		first := cursor.FirstOfMonth()
		last := cursor.LastOfMonth()
		if last.After(burst.EndDate) {
			last = burst.EndDate
		}

		var amount decimal.Decimal
		if last.Equal(burst.EndDate) {
			amount = burst.BudgetAmount.Sub(allocated)
		} else {
			days := domain.DaysInclusive(cursor, last)
			amount = burst.BudgetAmount.Mul(decimal.NewFromInt(int64(days))).Div(decimal.NewFromInt(int64(totalDays)))
		}
		allocated = allocated.Add(amount)

		shares = append(shares, monthShare{
			month:  first.Time().Format("2006-01"),
			first:  first,
			amount: amount,
		})

		cursor = last.AddDays(1)
	}

	return shares
}

func ensureBucket(buckets map[string]*monthBucket, key string) {
	if _, ok := buckets[key]; ok {
		return
	}

	first, err := domain.ParseDate(key + "-01")
	if err != nil {
		return
	}

	buckets[key] = &monthBucket{
		first:  first,
		totals: make(map[string]map[string]decimal.Decimal),
	}
}

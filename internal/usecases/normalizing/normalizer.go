package normalizing

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/media-pacing-api/internal/domain"
	"github.com/vfg2006/media-pacing-api/pkg/log"
	"github.com/vfg2006/media-pacing-api/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// LineItemNormalizer converte registros brutos de containers de mídia no modelo uniforme de bursts
type LineItemNormalizer interface {
	Normalize(records []domain.RawLineItem, mediaType string) []domain.LineItem
	NormalizeAll(recordsByMediaType map[string][]domain.RawLineItem) map[string][]domain.LineItem
}

type Normalizer struct {
	adapters map[string]adapter
	fallback adapter
}

func NewNormalizer() *Normalizer {
	return &Normalizer{
		adapters: adapterTable(),
		fallback: defaultAdapter(),
	}
}

// group acumula os registros que compartilham o mesmo id de linha
type group struct {
	id      string
	order   int
	records []parsedRecord
}

type parsedRecord struct {
	raw        domain.RawLineItem
	lineNumber int
	createdAt  time.Time
	bursts     []domain.Burst
}

// Normalize é uma transformação pura: não falha, não descarta linhas e nunca devolve campos indefinidos
func (n *Normalizer) Normalize(records []domain.RawLineItem, mediaType string) []domain.LineItem {
	mediaType = domain.NormalizeMediaType(mediaType)
	ad := n.adapterFor(mediaType)
	logger := log.L.WithField("media_type", mediaType)

	groups := make(map[string]*group)
	for index, raw := range records {
		if raw == nil {
			continue
		}

		id := strings.ToLower(stringValue(lookup(raw, ad.ID)))
		if id == "" {
			id = fmt.Sprintf("%s_%d", mediaType, index)
		}

		g, ok := groups[id]
		if !ok {
			g = &group{id: id, order: index}
			groups[id] = g
		}

		g.records = append(g.records, parseRecord(raw, ad, logger))
	}

	ordered := lo.Values(groups)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].order < ordered[j].order })

	items := make([]domain.LineItem, 0, len(ordered))
	for _, g := range ordered {
		items = append(items, buildLineItem(g, ad, mediaType))
	}

	logger.Debugf("normalização concluída: %d registros brutos, %d linhas", len(records), len(items))
	return items
}

// NormalizeAll normaliza vários containers de uma vez, indexando pelo tipo de mídia canônico
func (n *Normalizer) NormalizeAll(recordsByMediaType map[string][]domain.RawLineItem) map[string][]domain.LineItem {
	out := make(map[string][]domain.LineItem, len(recordsByMediaType))
	for mediaType, records := range recordsByMediaType {
		canonical := domain.NormalizeMediaType(mediaType)
		out[canonical] = append(out[canonical], n.Normalize(records, canonical)...)
	}
	return out
}

func (n *Normalizer) adapterFor(mediaType string) adapter {
	if ad, ok := n.adapters[mediaType]; ok {
		return ad
	}
	return n.fallback
}

func parseRecord(raw domain.RawLineItem, ad adapter, logger log.Logger) parsedRecord {
	rec := parsedRecord{
		raw:        raw,
		lineNumber: math.MaxInt,
	}

	if number, ok := utils.ParseAmountStrict(lookup(raw, ad.LineNumber)); ok && number.IsInteger() {
		rec.lineNumber = int(number.IntPart())
	}

	if created := stringValue(lookup(raw, ad.CreatedAt)); created != "" {
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			rec.createdAt = t
		} else if ms, err := strconv.ParseInt(created, 10, 64); err == nil {
			rec.createdAt = time.UnixMilli(ms)
		}
	}

	for _, entry := range allBurstEntries(raw, ad.Bursts, logger) {
		if b, ok := parseBurst(entry, ad.Burst); ok {
			rec.bursts = append(rec.bursts, b)
		} else if log.DebugEnabled() {
			logger.Debugf("burst descartado (sem datas válidas): %s", utils.PrettyJson(entry))
		}
	}

	// Registro sem bursts mas com datas diretas gera um burst de fallback
	if len(rec.bursts) == 0 {
		fallback := map[string]any{
			"startDate":    lookup(raw, ad.StartDate),
			"endDate":      lookup(raw, ad.EndDate),
			"budget":       lookup(raw, ad.Budget),
			"buyAmount":    lookup(raw, ad.BuyAmount),
			"deliverables": lookup(raw, ad.Deliverable),
		}
		if b, ok := parseBurst(fallback, defaultBurstAdapter); ok {
			rec.bursts = append(rec.bursts, b)
		}
	}

	return rec
}

// allBurstEntries junta os bursts de todas as variantes de campo presentes no registro;
// repetições entre variantes são removidas depois pela chave do burst
func allBurstEntries(raw domain.RawLineItem, keys fieldKeys, logger log.Logger) []map[string]any {
	var entries []map[string]any
	for _, key := range keys {
		value, ok := raw[key]
		if !ok || isEmpty(value) {
			continue
		}
		entries = append(entries, burstEntries(value, logger)...)
	}
	return entries
}

// burstEntries aceita lista JSON, texto JSON ou lista de mapas já decodificada
func burstEntries(value any, logger log.Logger) []map[string]any {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return nil
		}
		var decoded []map[string]any
		if err := json.Unmarshal([]byte(text), &decoded); err != nil {
			logger.Debugf("bursts_json inválido ignorado: %v", err)
			return nil
		}
		return decoded
	case []map[string]any:
		return v
	case []any:
		entries := make([]map[string]any, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				entries = append(entries, m)
			}
		}
		return entries
	case []domain.RawLineItem:
		return lo.Map(v, func(item domain.RawLineItem, _ int) map[string]any { return item })
	default:
		return nil
	}
}

func parseBurst(entry map[string]any, ad burstAdapter) (domain.Burst, bool) {
	start, err := domain.ParseDate(stringValue(lookup(entry, ad.StartDate)))
	if err != nil {
		return domain.Burst{}, false
	}

	end, err := domain.ParseDate(stringValue(lookup(entry, ad.EndDate)))
	if err != nil {
		return domain.Burst{}, false
	}

	if end.Before(start) {
		return domain.Burst{}, false
	}

	return domain.Burst{
		StartDate:         start,
		EndDate:           end,
		BudgetAmount:      utils.NonNegative(utils.ParseAmount(lookup(entry, ad.Budget))),
		BuyAmount:         utils.NonNegative(utils.ParseAmount(lookup(entry, ad.BuyAmount))),
		DeliverableAmount: utils.NonNegative(utils.ParseAmount(lookup(entry, ad.Deliverable))),
	}, true
}

func buildLineItem(g *group, ad adapter, mediaType string) domain.LineItem {
	best := pickBest(g.records)

	seen := make(map[string]bool)
	bursts := make([]domain.Burst, 0)
	for _, rec := range g.records {
		for _, b := range rec.bursts {
			key := b.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			bursts = append(bursts, b)
		}
	}
	sortBursts(bursts)

	attrs := domain.LineItemAttributes{
		Platform:   attribute(best.raw, ad, attrPlatform),
		Network:    attribute(best.raw, ad, attrNetwork),
		Station:    attribute(best.raw, ad, attrStation),
		Site:       attribute(best.raw, ad, attrSite),
		Publisher:  attribute(best.raw, ad, attrPublisher),
		Targeting:  stringValue(lookup(best.raw, ad.Targeting)),
		Creative:   attribute(best.raw, ad, attrCreative),
		BuyType:    strings.ToLower(attribute(best.raw, ad, attrBuyType)),
		BuyingDemo: attribute(best.raw, ad, attrBuyingDemo),
		Market:     attribute(best.raw, ad, attrMarket),
	}

	title := stringValue(lookup(best.raw, ad.Title))
	if title == "" {
		title = attrs.Targeting
	}
	if attrs.Targeting == "" {
		attrs.Targeting = title
	}

	lineNumber := best.lineNumber
	if lineNumber == math.MaxInt {
		lineNumber = 0
	}

	return domain.LineItem{
		LineItemID: g.id,
		LineNumber: lineNumber,
		MediaType:  mediaType,
		Title:      title,
		Attributes: attrs,
		Bursts:     bursts,
	}
}

// pickBest escolhe o registro representativo: menor número de linha, depois criação mais antiga
func pickBest(records []parsedRecord) parsedRecord {
	best := records[0]
	for _, rec := range records[1:] {
		if rec.lineNumber < best.lineNumber {
			best = rec
			continue
		}
		if rec.lineNumber == best.lineNumber && earlier(rec.createdAt, best.createdAt) {
			best = rec
		}
	}
	return best
}

// earlier trata datas ausentes como as mais recentes possíveis
func earlier(a, b time.Time) bool {
	switch {
	case a.IsZero():
		return false
	case b.IsZero():
		return true
	default:
		return a.Before(b)
	}
}

func sortBursts(bursts []domain.Burst) {
	sort.SliceStable(bursts, func(i, j int) bool {
		a, b := bursts[i], bursts[j]
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.Before(b.StartDate)
		}
		if !a.EndDate.Equal(b.EndDate) {
			return a.EndDate.Before(b.EndDate)
		}
		return a.Key() < b.Key()
	})
}

func attribute(raw domain.RawLineItem, ad adapter, name string) string {
	return stringValue(lookup(raw, ad.Attributes[name]))
}

// lookup devolve o primeiro valor não vazio entre as chaves aceitas
func lookup(record map[string]any, keys fieldKeys) any {
	for _, key := range keys {
		if value, ok := record[key]; ok && !isEmpty(value) {
			return value
		}
	}
	return nil
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	default:
		return false
	}
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case decimal.Decimal:
		return v.String()
	case time.Time:
		return v.Format(time.RFC3339)
	case fmt.Stringer:
		return v.String()
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

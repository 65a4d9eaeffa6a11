package normalizing

import "github.com/vfg2006/media-pacing-api/internal/domain"

// fieldKeys lista as chaves aceitas na origem para um campo canônico; a primeira presente vence
type fieldKeys []string

type burstAdapter struct {
	StartDate   fieldKeys
	EndDate     fieldKeys
	Budget      fieldKeys
	BuyAmount   fieldKeys
	Deliverable fieldKeys
}

// adapter descreve como ler os registros brutos de um container de mídia
type adapter struct {
	ID          fieldKeys
	LineNumber  fieldKeys
	CreatedAt   fieldKeys
	Bursts      fieldKeys
	StartDate   fieldKeys
	EndDate     fieldKeys
	Budget      fieldKeys
	BuyAmount   fieldKeys
	Deliverable fieldKeys
	Title       fieldKeys
	Targeting   fieldKeys
	Attributes  map[string]fieldKeys
	Burst       burstAdapter
}

const (
	attrPlatform   = "platform"
	attrNetwork    = "network"
	attrStation    = "station"
	attrSite       = "site"
	attrPublisher  = "publisher"
	attrCreative   = "creative"
	attrBuyType    = "buyType"
	attrBuyingDemo = "buyingDemo"
	attrMarket     = "market"
)

var defaultBurstAdapter = burstAdapter{
	StartDate:   fieldKeys{"startDate", "start_date", "start", "fromDate"},
	EndDate:     fieldKeys{"endDate", "end_date", "end", "toDate"},
	Budget:      fieldKeys{"budget", "budgetAmount", "budget_amount", "mediaAmount", "media_amount"},
	BuyAmount:   fieldKeys{"buyAmount", "buy_amount", "rate"},
	Deliverable: fieldKeys{"deliverables", "deliverable", "deliverableAmount", "calculatedValue", "calculated_value"},
}

func defaultAdapter() adapter {
	return adapter{
		ID:          fieldKeys{"line_item_id", "lineItemId", "lineItemID", "id"},
		LineNumber:  fieldKeys{"line_item", "lineItem", "line_item_number", "lineItemNumber", "line_number"},
		CreatedAt:   fieldKeys{"created_at", "createdAt", "created"},
		Bursts:      fieldKeys{"bursts_json", "burstsJson", "bursts", "burst_schedule"},
		StartDate:   fieldKeys{"start_date", "startDate", "burst_start"},
		EndDate:     fieldKeys{"end_date", "endDate", "burst_end"},
		Budget:      fieldKeys{"budget", "total_budget", "totalBudget", "media_budget", "amount"},
		BuyAmount:   fieldKeys{"buy_amount", "buyAmount", "rate"},
		Deliverable: fieldKeys{"deliverables", "deliverable", "total_deliverables", "impressions"},
		Title:       fieldKeys{"creative", "placement", "title", "description", "line_item_name"},
		Targeting:   fieldKeys{"targeting", "target", "targeting_attribute", "audience", "creative_targeting"},
		Attributes: map[string]fieldKeys{
			attrPlatform:   {"platform", "channel"},
			attrNetwork:    {"network"},
			attrStation:    {"station"},
			attrSite:       {"site", "website"},
			attrPublisher:  {"publisher", "vendor"},
			attrCreative:   {"creative", "creative_name"},
			attrBuyType:    {"buy_type", "buyType"},
			attrBuyingDemo: {"buying_demo", "buyingDemo", "demo"},
			attrMarket:     {"market", "region"},
		},
		Burst: defaultBurstAdapter,
	}
}

// adapterTable monta a tabela por tipo de mídia; só os desvios do padrão são declarados
func adapterTable() map[string]adapter {
	television := defaultAdapter()
	television.Title = fieldKeys{"placement", "creative", "daypart", "program", "title"}
	television.Attributes[attrNetwork] = fieldKeys{"network", "channel"}
	television.Attributes[attrPlatform] = fieldKeys{"platform"}
	television.Deliverable = fieldKeys{"deliverables", "tarps", "spots", "total_deliverables"}

	radio := defaultAdapter()
	radio.Title = fieldKeys{"placement", "creative", "daypart", "title"}
	radio.Attributes[attrStation] = fieldKeys{"station", "network"}
	radio.Deliverable = fieldKeys{"deliverables", "spots", "total_deliverables"}

	search := defaultAdapter()
	search.Title = fieldKeys{"creative", "keywords", "campaign_name", "title"}
	search.Deliverable = fieldKeys{"deliverables", "clicks", "total_deliverables"}

	social := defaultAdapter()
	social.Title = fieldKeys{"creative", "placement", "objective", "title"}
	social.Attributes[attrPlatform] = fieldKeys{"platform", "network", "channel"}

	ooh := defaultAdapter()
	ooh.Title = fieldKeys{"format", "creative", "placement", "title"}
	ooh.Attributes[attrSite] = fieldKeys{"site", "location", "panel"}

	printMedia := defaultAdapter()
	printMedia.Title = fieldKeys{"creative", "placement", "size", "title"}
	printMedia.Attributes[attrPublisher] = fieldKeys{"publisher", "title_name", "masthead"}
	printMedia.Deliverable = fieldKeys{"deliverables", "insertions", "total_deliverables"}

	return map[string]adapter{
		domain.MediaTelevision: television,
		domain.MediaBVOD:       television,
		domain.MediaRadio:      radio,
		domain.MediaSearch:     search,
		domain.MediaSocial:     social,
		domain.MediaOOH:        ooh,
		domain.MediaProgOOH:    ooh,
		domain.MediaNewspaper:  printMedia,
		domain.MediaMagazines:  printMedia,
	}
}

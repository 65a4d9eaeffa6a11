package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PacingStatus string

const (
	PacingNotStarted PacingStatus = "not_started"
	PacingUnder      PacingStatus = "under"
	PacingOn         PacingStatus = "on"
	PacingOver       PacingStatus = "over"
)

// Métricas de entrega usadas como "entregável" de acordo com o tipo de compra
const (
	MetricImpressions = "impressions"
	MetricClicks      = "clicks"
	MetricConversions = "conversions"
	MetricVideoViews  = "video_views"
)

// DeliveryFilter delimita a consulta de entrega no warehouse
type DeliveryFilter struct {
	CampaignID  string
	LineItemIDs []string
	StartDate   Date
	EndDate     Date
}

// DeliveryActual é a entrega real agregada por linha no warehouse
type DeliveryActual struct {
	LineItemID       string          `json:"lineItemId"`
	Spend            decimal.Decimal `json:"spend"`
	Impressions      decimal.Decimal `json:"impressions"`
	Clicks           decimal.Decimal `json:"clicks"`
	Conversions      decimal.Decimal `json:"conversions"`
	VideoViews       decimal.Decimal `json:"videoViews"`
	LastDeliveryDate Date            `json:"lastDeliveryDate"`
}

// Metric devolve o valor da métrica de entregável pedida
func (d DeliveryActual) Metric(name string) decimal.Decimal {
	switch name {
	case MetricClicks:
		return d.Clicks
	case MetricConversions:
		return d.Conversions
	case MetricVideoViews:
		return d.VideoViews
	default:
		return d.Impressions
	}
}

type DailyDelivery struct {
	Date        Date            `json:"date"`
	Spend       decimal.Decimal `json:"spend"`
	Impressions decimal.Decimal `json:"impressions"`
	Clicks      decimal.Decimal `json:"clicks"`
}

// PacingRequest é a consulta "pacing da campanha X no período D"
type PacingRequest struct {
	CampaignID string     `json:"campaignId"`
	StartDate  Date       `json:"startDate"`
	EndDate    Date       `json:"endDate"`
	AsOfDate   Date       `json:"asOfDate"`
	LineItems  []LineItem `json:"lineItems"`
}

type LineItemPacing struct {
	LineItemID           string          `json:"lineItemId"`
	MediaType            string          `json:"mediaType"`
	Title                string          `json:"title"`
	DeliverableMetric    string          `json:"deliverableMetric"`
	BudgetTotal          decimal.Decimal `json:"budgetTotal"`
	DeliverableTotal     decimal.Decimal `json:"deliverableTotal"`
	ExpectedSpend        decimal.Decimal `json:"expectedSpend"`
	ActualSpend          decimal.Decimal `json:"actualSpend"`
	ExpectedDeliverables decimal.Decimal `json:"expectedDeliverables"`
	ActualDeliverables   decimal.Decimal `json:"actualDeliverables"`
	SpendPacing          decimal.Decimal `json:"spendPacing"`
	DeliveryPacing       decimal.Decimal `json:"deliveryPacing"`
	Status               PacingStatus    `json:"status"`
}

type PacingTotals struct {
	BudgetTotal   decimal.Decimal `json:"budgetTotal"`
	ExpectedSpend decimal.Decimal `json:"expectedSpend"`
	ActualSpend   decimal.Decimal `json:"actualSpend"`
	SpendPacing   decimal.Decimal `json:"spendPacing"`
}

// PacingReport combina o planejado (prorrateado) com o realizado (warehouse)
type PacingReport struct {
	CampaignID         string           `json:"campaignId"`
	StartDate          Date             `json:"startDate"`
	EndDate            Date             `json:"endDate"`
	AsOfDate           Date             `json:"asOfDate"`
	QueryStartDate     Date             `json:"queryStartDate"`
	TimeElapsedPercent decimal.Decimal  `json:"timeElapsedPercent"`
	LineItems          []LineItemPacing `json:"lineItems"`
	Totals             PacingTotals     `json:"totals"`
	CacheState         string           `json:"cacheState"`
	Stale              bool             `json:"stale"`
	StaleReason        string           `json:"staleReason,omitempty"`
	DateRangeClamped   bool             `json:"dateRangeClamped"`
	IDsTruncated       bool             `json:"idsTruncated"`
	GeneratedAt        time.Time        `json:"generatedAt"`
}

package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RawLineItem é o registro bruto de um container de mídia, com nomes de campos heterogêneos
type RawLineItem map[string]any

// Burst é um intervalo contínuo de datas com orçamento e entregáveis associados
type Burst struct {
	StartDate         Date            `json:"startDate"`
	EndDate           Date            `json:"endDate"`
	BudgetAmount      decimal.Decimal `json:"budgetAmount"`
	BuyAmount         decimal.Decimal `json:"buyAmount"`
	DeliverableAmount decimal.Decimal `json:"deliverableAmount"`
}

// Key identifica o burst para deduplicação ao mesclar registros da mesma linha
func (b Burst) Key() string {
	return fmt.Sprintf("%s|%s|%s|%s",
		b.StartDate.String(),
		b.EndDate.String(),
		b.BudgetAmount.String(),
		b.BuyAmount.String(),
	)
}

func (b Burst) Days() int {
	return DaysInclusive(b.StartDate, b.EndDate)
}

type LineItemAttributes struct {
	Platform   string `json:"platform"`
	Network    string `json:"network"`
	Station    string `json:"station"`
	Site       string `json:"site"`
	Publisher  string `json:"publisher"`
	Targeting  string `json:"targeting"`
	Creative   string `json:"creative"`
	BuyType    string `json:"buyType"`
	BuyingDemo string `json:"buyingDemo"`
	Market     string `json:"market"`
}

// LineItem é a menor unidade planejada de investimento dentro de um tipo de mídia
type LineItem struct {
	LineItemID string             `json:"lineItemId"`
	LineNumber int                `json:"lineNumber,omitempty"`
	MediaType  string             `json:"mediaType"`
	Title      string             `json:"title"`
	Attributes LineItemAttributes `json:"attributes"`
	Bursts     []Burst            `json:"bursts"`
}

// TotalBudget soma o orçamento de todos os bursts da linha
func (l LineItem) TotalBudget() decimal.Decimal {
	total := decimal.Zero
	for _, b := range l.Bursts {
		total = total.Add(b.BudgetAmount)
	}
	return total
}

func (l LineItem) TotalDeliverables() decimal.Decimal {
	total := decimal.Zero
	for _, b := range l.Bursts {
		total = total.Add(b.DeliverableAmount)
	}
	return total
}

// Header1 é o rótulo principal usado na programação de faturamento
func (l LineItem) Header1() string {
	for _, candidate := range []string{
		l.Attributes.Publisher,
		l.Attributes.Network,
		l.Attributes.Station,
		l.Attributes.Platform,
		l.Attributes.Site,
	} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

func (l LineItem) Header2() string {
	if l.Title != "" {
		return l.Title
	}
	return l.Attributes.Targeting
}

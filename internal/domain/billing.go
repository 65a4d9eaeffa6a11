package domain

import "github.com/shopspring/decimal"

// BillingMonthInput é o mês bruto recebido pelo construtor da programação de faturamento.
// Os valores monetários aceitam número ou texto ("$1,200.50"); texto inválido vale zero.
type BillingMonthInput struct {
	MonthYear         string           `json:"monthYear"`
	MediaTypes        []MediaTypeInput `json:"mediaTypes"`
	FeeTotal          any              `json:"feeTotal,omitempty"`
	AdservingTechFees any              `json:"adservingTechFees,omitempty"`
	Production        any              `json:"production,omitempty"`
}

type MediaTypeInput struct {
	MediaType string                 `json:"mediaType"`
	LineItems []BillingLineItemInput `json:"lineItems"`
}

type BillingLineItemInput struct {
	LineItemID string `json:"lineItemId"`
	Header1    string `json:"header1"`
	Header2    string `json:"header2"`
	Amount     any    `json:"amount"`
}

// BillingMonth é o mês já podado e formatado para persistência no sistema de registro
type BillingMonth struct {
	MonthYear         string             `json:"monthYear"`
	MediaTypes        []BillingMediaType `json:"mediaTypes"`
	AdservingTechFees string             `json:"adservingTechFees,omitempty"`
	Production        string             `json:"production,omitempty"`
	FeeTotal          string             `json:"feeTotal,omitempty"`
}

type BillingMediaType struct {
	MediaType string            `json:"mediaType"`
	LineItems []BillingLineItem `json:"lineItems"`
}

type BillingLineItem struct {
	LineItemID string `json:"lineItemId"`
	Header1    string `json:"header1"`
	Header2    string `json:"header2"`
	Amount     string `json:"amount"`
}

// FinanceLineItem é a linha achatada, pronta para fatura
type FinanceLineItem struct {
	MonthYear   string          `json:"monthYear"`
	MediaType   string          `json:"mediaType"`
	LineItemID  string          `json:"lineItemId,omitempty"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// AdHocCost é um custo avulso de um escopo de trabalho
type AdHocCost struct {
	MonthYear   string `json:"monthYear"`
	MediaType   string `json:"mediaType,omitempty"`
	Description string `json:"description"`
	Amount      any    `json:"amount"`
}

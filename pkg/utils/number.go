package utils

import (
	stdjson "encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var amountCleaner = strings.NewReplacer(
	"$", "",
	"R$", "",
	"€", "",
	"£", "",
	",", "",
	"\u00a0", "",
	" ", "",
)

// ParseAmount converte números e textos monetários em decimal.
// Valores que não podem ser interpretados valem zero, nunca erro.
func ParseAmount(value any) decimal.Decimal {
	amount, _ := ParseAmountStrict(value)
	return amount
}

// ParseAmountStrict funciona como ParseAmount, mas informa se o valor foi reconhecido
func ParseAmountStrict(value any) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case nil:
		return decimal.Zero, false
	case decimal.Decimal:
		return v, true
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero, false
		}
		return *v, true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(v), true
	case float32:
		return ParseAmountStrict(float64(v))
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int32:
		return decimal.NewFromInt32(v), true
	case int64:
		return decimal.NewFromInt(v), true
	case uint32:
		return decimal.NewFromInt(int64(v)), true
	case uint64:
		return decimal.NewFromUint64(v), true
	case stdjson.Number:
		return ParseAmountStrict(v.String())
	case string:
		return parseAmountText(v)
	default:
		return decimal.Zero, false
	}
}

func parseAmountText(raw string) (decimal.Decimal, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return decimal.Zero, false
	}

	negative := false
	if strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") {
		negative = true
		text = strings.TrimSuffix(strings.TrimPrefix(text, "("), ")")
	}

	text = amountCleaner.Replace(text)
	amount, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, false
	}

	if negative {
		amount = amount.Neg()
	}
	return amount, true
}

// NonNegative limita valores negativos a zero
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

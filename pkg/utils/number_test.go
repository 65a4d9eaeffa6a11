package utils

import (
	stdjson "encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
		ok       bool
	}{
		{"nulo", nil, "0", false},
		{"float", 1200.5, "1200.5", true},
		{"inteiro", 42, "42", true},
		{"uint64", uint64(7), "7", true},
		{"json.Number", stdjson.Number("12.25"), "12.25", true},
		{"texto com símbolo e milhar", "$1,200.50", "1200.5", true},
		{"texto com espaço não separável", "1\u00a0000", "1000", true},
		{"real brasileiro", "R$ 99", "99", true},
		{"símbolo separado por espaço", "$ 1,200", "1200", true},
		{"negativo contábil", "(250.00)", "-250", true},
		{"texto vazio", "   ", "0", false},
		{"texto inválido", "abc", "0", false},
		{"NaN", math.NaN(), "0", false},
		{"tipo desconhecido", []string{"1"}, "0", false},
		{"decimal", decimal.NewFromInt(3), "3", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, ok := ParseAmountStrict(tt.input)

			assert.Equal(t, tt.ok, ok)
			assert.True(t, amount.Equal(decimal.RequireFromString(tt.expected)), amount.String())
			assert.True(t, ParseAmount(tt.input).Equal(amount))
		})
	}
}

func TestNonNegative(t *testing.T) {
	assert.True(t, NonNegative(decimal.NewFromInt(-5)).IsZero())
	assert.True(t, NonNegative(decimal.NewFromInt(5)).Equal(decimal.NewFromInt(5)))
}

func TestGenerateID(t *testing.T) {
	first, err := GenerateID()
	assert.NoError(t, err)
	assert.Len(t, first, 12)
	assert.NotEqual(t, first, MustGenerateID())
}

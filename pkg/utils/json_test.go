package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrettyJson(t *testing.T) {
	tests := []struct {
		name  string
		input any
		json  string
	}{
		{"mapa", map[string]any{"budget": 100}, `{"budget":100}`},
		{"bytes json", []byte(`{"a":1}`), `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out string
			assert.NotPanics(t, func() { out = PrettyJson(tt.input) })
			assert.JSONEq(t, tt.json, out)
			assert.Contains(t, out, "\n  \"")
		})
	}
}

func TestPrettyJson_InvalidBytesAreReturnedAsText(t *testing.T) {
	assert.Equal(t, "não é json", PrettyJson([]byte("não é json")))
}

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntheticRows(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := syntheticRows("camp-1", 3, start, 10, 100)

	require.Len(t, rows, 30)

	lineItems := map[string]int{}
	for _, row := range rows {
		lineItems[row.LineItemID]++
		assert.Equal(t, "camp-1", row.CampaignID)
		assert.GreaterOrEqual(t, row.Spend, 70.0)
		assert.LessOrEqual(t, row.Spend, 130.0)
		assert.False(t, row.Date.Before(start))
		assert.True(t, row.Date.Before(start.AddDate(0, 0, 10)))
		assert.Equal(t, row.Impressions/100, row.Clicks)
	}

	assert.Len(t, lineItems, 3)
	for _, count := range lineItems {
		assert.Equal(t, 10, count)
	}
}

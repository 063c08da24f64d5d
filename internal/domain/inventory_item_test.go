package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestNewInventoryItem_AppliesDefaults(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	item, err := NewInventoryItem(NewInventoryItemInput{CardName: "Island", Price: intPtr(100)}, now)
	require.NoError(t, err)

	assert.Equal(t, "Island", item.CardName)
	assert.Equal(t, 100, item.Price)
	assert.Equal(t, 1, item.Stock)
	assert.Equal(t, "SINGLE", item.Type)
	assert.Equal(t, "NM", item.Condition)
	assert.Equal(t, "EN", item.Language)
	assert.Equal(t, "N/A", item.SetCode)
	assert.Equal(t, "0", item.CollectorNumber)
	assert.False(t, item.IsFoil)
	assert.Nil(t, item.Category)
	assert.Nil(t, item.ImageURL)
	assert.True(t, strings.HasPrefix(item.ScryfallID, "sealed-"))
	assert.Equal(t, "sealed-1700000000123", item.ScryfallID)
}

func TestNewInventoryItem_KeepsSuppliedValues(t *testing.T) {
	item, err := NewInventoryItem(NewInventoryItemInput{
		ScryfallID:      "abc-123",
		CardName:        "Lightning Bolt",
		SetCode:         "lea",
		CollectorNumber: "161",
		Price:           intPtr(2500),
		Stock:           intPtr(0),
		Condition:       "LP",
		Language:        "ES",
		IsFoil:          true,
		ImageURL:        "https://img.example/bolt.jpg",
		Type:            "SEALED",
		Category:        "booster",
	}, time.Now())
	require.NoError(t, err)

	assert.Equal(t, "abc-123", item.ScryfallID)
	assert.Equal(t, 0, item.Stock)
	assert.Equal(t, "SEALED", item.Type)
	require.NotNil(t, item.Category)
	assert.Equal(t, "booster", *item.Category)
	require.NotNil(t, item.ImageURL)
	assert.True(t, item.IsFoil)
}

func TestNewInventoryItem_Rejects(t *testing.T) {
	cases := map[string]NewInventoryItemInput{
		"missing name":   {Price: intPtr(10)},
		"missing price":  {CardName: "Island"},
		"zero price":     {CardName: "Island", Price: intPtr(0)},
		"negative price": {CardName: "Island", Price: intPtr(-5)},
		"negative stock": {CardName: "Island", Price: intPtr(5), Stock: intPtr(-1)},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewInventoryItem(in, time.Now())
			require.Error(t, err)
			assert.Equal(t, KindInvalidRequest, KindOf(err))
		})
	}
}

package sample

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taisugar/toolkit/freebie"
	"github.com/taisugar/toolkit/itemneeds"
	"github.com/taisugar/toolkit/purchaseorder"
)

func TestItemNeeds_Shape(t *testing.T) {
	// Given
	date := time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC)

	// When
	needs := ItemNeeds(Stations[:5], Options{Decoys: 3, OrderDate: date, Seed: 42})

	// Then
	assert.Len(t, needs.Items(), len(freebie.All())+3)
	for _, fb := range freebie.All() {
		_, ok := needs.ItemByTitle(fb.Name())
		assert.True(t, ok, fb.Name())
	}

	rows, err := needs.All()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	for i, row := range rows {
		assert.Equal(t, Stations[i], row.StationName)
		assert.Equal(t, date, row.OrderDate)
		for id, n := range row.ItemCounts {
			assert.Zero(t, n%10, id)
			assert.LessOrEqual(t, n, uint64(100), id)
		}
	}
}

func TestItemNeeds_SeedIsReproducible(t *testing.T) {
	a, err := ItemNeeds(Stations, Options{Seed: 7}).All()
	require.NoError(t, err)
	b, err := ItemNeeds(Stations, Options{Seed: 7}).All()
	require.NoError(t, err)

	for i := range a {
		assert.Equal(t, a[i].ItemCounts, b[i].ItemCounts)
	}
}

func TestTemplate_RoundTripsStations(t *testing.T) {
	for _, fb := range freebie.All() {
		t.Run(fb.Slug(), func(t *testing.T) {
			tmpl, err := Template(fb, Stations)
			require.NoError(t, err)
			defer tmpl.Close()

			got, err := TemplateStations(tmpl)
			require.NoError(t, err)
			assert.Equal(t, Stations, got)
		})
	}
}

func TestTemplate_TooManyStations(t *testing.T) {
	_, err := Template(freebie.Tissue60, append(Stations, "台北站"))
	assert.Error(t, err)
}

func TestPreviewProjection(t *testing.T) {
	// Given
	tmpl, err := Template(freebie.MineralWater, Stations)
	require.NoError(t, err)
	defer tmpl.Close()
	needs := ItemNeeds(Stations, Options{Seed: 3})

	// When
	doc, err := purchaseorder.Generate(tmpl, []*itemneeds.ItemNeeds{needs}, freebie.MineralWater, time.Now(), "10-1")

	// Then
	require.NoError(t, err)
	defer doc.Close()

	item, ok := needs.ItemByTitle(freebie.MineralWater.Name())
	require.True(t, ok)
	want, ok := needs.LookupCount(Stations[0], item.ID)
	require.True(t, ok)
	got, err := doc.GetCellValue(purchaseorder.TemplateSheet, "C5")
	require.NoError(t, err)
	n, err := strconv.ParseUint(got, 10, 64)
	require.NoError(t, err)
	assert.Equal(t, want, n)
}

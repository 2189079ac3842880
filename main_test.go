package main

import (
	"testing"

	"legiscraper/scraper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageRange(t *testing.T) {
	tests := []struct {
		in   string
		want *scraper.PageRange
	}{
		{"", nil},
		{"3", scraper.Pages(3, 3)},
		{"1-5", scraper.Pages(1, 5)},
		{" 2 - 10 ", scraper.Pages(2, 10)},
	}

	for _, tt := range tests {
		got, err := parsePageRange(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParsePageRangeInvalid(t *testing.T) {
	for _, in := range []string{"abc", "1-x", "-", "1-2-3"} {
		_, err := parsePageRange(in)
		assert.Error(t, err, in)
	}
}

func TestSplitTerms(t *testing.T) {
	assert.Equal(t, []string{"lei", "decreto federal"}, splitTerms(" lei , decreto federal ,"))
	assert.Empty(t, splitTerms("  ,  "))
}

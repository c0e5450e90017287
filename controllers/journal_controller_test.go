package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/odyssey-app/api-go/services"
)

func TestMatchBoundariesIgnoresCase(t *testing.T) {
	boundaries := []services.CountryBoundary{
		{Name: "Japan", ISOCode: "JPN"},
		{Name: "Portugal", ISOCode: "PRT"},
		{Name: "France", ISOCode: "FRA"},
	}

	matched := matchBoundaries([]string{"japan", "PORTUGAL"}, boundaries)

	assert.Len(t, matched, 2)
	codes := make([]string, len(matched))
	for i, b := range matched {
		codes[i] = b.ISOCode
	}
	assert.ElementsMatch(t, []string{"JPN", "PRT"}, codes)
}

func TestMatchBoundariesNoVisits(t *testing.T) {
	boundaries := []services.CountryBoundary{{Name: "Japan", ISOCode: "JPN"}}

	matched := matchBoundaries(nil, boundaries)

	assert.Empty(t, matched)
}

package planner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-app/api-go/models"
	"github.com/odyssey-app/api-go/planner"
)

func item(ref string, lat, lng float64) models.ItineraryItem {
	return models.ItineraryItem{SiteRefID: ref, Name: ref, Latitude: lat, Longitude: lng}
}

func site(ref string, lat, lng float64) models.Site {
	return models.Site{RefID: ref, Name: ref, Latitude: lat, Longitude: lng}
}

func refIDs(items []models.ItineraryItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.SiteRefID
	}
	return out
}

func TestHaversine(t *testing.T) {
	paris := planner.Coordinate{Lat: 48.8566, Lng: 2.3522}
	london := planner.Coordinate{Lat: 51.5074, Lng: -0.1278}

	assert.Zero(t, planner.Haversine(paris, paris))
	assert.Equal(t, planner.Haversine(paris, london), planner.Haversine(london, paris))

	// Paris-London is roughly 344 km.
	d := planner.Haversine(paris, london)
	assert.InDelta(t, 344, d, 2)

	// One degree of latitude on the equator is about 111.19 km.
	d = planner.Haversine(planner.Coordinate{}, planner.Coordinate{Lat: 1})
	assert.InDelta(t, 111.19, d, 0.1)
}

func TestCoordinateValidate(t *testing.T) {
	assert.NoError(t, planner.Coordinate{Lat: 90, Lng: -180}.Validate())
	assert.NoError(t, planner.Coordinate{Lat: -90, Lng: 180}.Validate())
	assert.ErrorIs(t, planner.Coordinate{Lat: 90.01}.Validate(), planner.ErrInvalidLatitude)
	assert.ErrorIs(t, planner.Coordinate{Lat: -91}.Validate(), planner.ErrInvalidLatitude)
	assert.ErrorIs(t, planner.Coordinate{Lng: 180.5}.Validate(), planner.ErrInvalidLongitude)
	assert.ErrorIs(t, planner.Coordinate{Lng: -181}.Validate(), planner.ErrInvalidLongitude)
}

func TestAddSiteIdempotent(t *testing.T) {
	var draft []models.Site
	draft = planner.AddSite(draft, site("a", 0, 0))
	draft = planner.AddSite(draft, site("b", 1, 1))
	require.Len(t, draft, 2)

	again := planner.AddSite(draft, site("a", 99, 99))
	assert.Len(t, again, 2)
	assert.Equal(t, draft, again)
}

func TestRemoveSite(t *testing.T) {
	draft := []models.Site{site("a", 0, 0), site("b", 1, 1), site("c", 2, 2)}

	out := planner.RemoveSite(draft, "b")
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].RefID)
	assert.Equal(t, "c", out[1].RefID)

	// Removing an absent id leaves the list untouched.
	same := planner.RemoveSite(draft, "missing")
	assert.Equal(t, draft, same)
}

func TestSmartPlanSmallInputs(t *testing.T) {
	assert.Empty(t, planner.SmartPlan(nil))
	assert.Empty(t, planner.SmartPlan([]models.ItineraryItem{}))

	one := []models.ItineraryItem{item("solo", 10, 20)}
	assert.Equal(t, one, planner.SmartPlan(one))
}

func TestSmartPlanNearestFirst(t *testing.T) {
	// Three sites on a meridian, added out of geographic order. Starting from
	// (0,0) the nearest-neighbor walk visits (0,5) before (0,10).
	items := []models.ItineraryItem{
		item("start", 0, 0),
		item("far", 0, 10),
		item("near", 0, 5),
	}

	got := planner.SmartPlan(items)
	assert.Equal(t, []string{"start", "near", "far"}, refIDs(got))
}

func TestSmartPlanKeepsStartingPoint(t *testing.T) {
	// The first item anchors the route even when another item is closer to
	// everything else.
	items := []models.ItineraryItem{
		item("anchor", 40, 40),
		item("a", 0, 0),
		item("b", 0, 1),
	}

	got := planner.SmartPlan(items)
	assert.Equal(t, "anchor", got[0].SiteRefID)
}

func TestSmartPlanTieBreaksOnOriginalIndex(t *testing.T) {
	// Two candidates equidistant from the start; the scan picks the one that
	// appeared first.
	items := []models.ItineraryItem{
		item("start", 0, 0),
		item("east", 0, 5),
		item("west", 0, -5),
	}

	got := planner.SmartPlan(items)
	assert.Equal(t, []string{"start", "east", "west"}, refIDs(got))
}

func TestSmartPlanIsPermutation(t *testing.T) {
	items := []models.ItineraryItem{
		item("a", 35.0116, 135.7681),
		item("b", 34.6937, 135.5023),
		item("c", 35.6762, 139.6503),
		item("d", 43.0618, 141.3545),
		item("e", 26.2124, 127.6809),
	}

	got := planner.SmartPlan(items)
	require.Len(t, got, len(items))

	seen := map[string]int{}
	for _, it := range got {
		seen[it.SiteRefID]++
	}
	for _, it := range items {
		assert.Equal(t, 1, seen[it.SiteRefID], "each input appears exactly once")
	}
}

func TestSmartPlanCanDoubleBack(t *testing.T) {
	// Greedy behavior: from the middle the walk first exhausts one side, then
	// crosses back over the start. Total distance 15+20 degrees rather than
	// the optimal sweep; this is the documented heuristic trade-off.
	items := []models.ItineraryItem{
		item("mid", 0, 0),
		item("left", 0, -5),
		item("right", 0, 15),
	}

	got := planner.SmartPlan(items)
	assert.Equal(t, []string{"mid", "left", "right"}, refIDs(got))
}

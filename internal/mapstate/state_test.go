package mapstate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivu-app/journey-planner/internal/domain"
	"github.com/vivu-app/journey-planner/internal/mapstate"
)

func hanoi() domain.Location {
	return domain.Location{ID: "hn", Name: "Hà Nội", Lat: 21.0285, Lon: 105.8542}
}

func hue() domain.Location {
	return domain.Location{ID: "hue", Name: "Huế", Lat: 16.4637, Lon: 107.5909}
}

func TestNew(t *testing.T) {
	s := mapstate.New()

	locs := s.Locations()
	require.Len(t, locs, 1)
	assert.Equal(t, "initial", locs[0].ID)
	assert.Equal(t, "Thành phố Hồ Chí Minh", locs[0].Name)
	assert.Equal(t, mapstate.DefaultCenter.Lat, locs[0].Lat)
	assert.Equal(t, mapstate.DefaultCenter.Lon, locs[0].Lon)
	assert.Equal(t, mapstate.DefaultCenter, s.Center())
	assert.Empty(t, s.JourneyName())
	_, ok := s.ClickedPlace()
	assert.False(t, ok)
	assert.Zero(t, s.Popups().Len())
}

func TestReset(t *testing.T) {
	s := mapstate.LoadJourney(mapstate.New(), domain.Journey{
		Name:      "Bắc tiến",
		Locations: []domain.Location{hanoi(), hue()},
	})
	s = mapstate.SetClickedPlace(s, &mapstate.ClickedPlace{Name: "Chợ"})

	s = mapstate.Reset(s)

	assert.Equal(t, mapstate.New().Locations(), s.Locations())
	assert.Empty(t, s.JourneyName())
	assert.Equal(t, mapstate.DefaultCenter, s.Center())
	_, ok := s.ClickedPlace()
	assert.False(t, ok)
}

func TestApplyLocations_RecentersOnLastPlaced(t *testing.T) {
	s := mapstate.ApplyLocations(mapstate.New(), []domain.Location{hanoi(), hue()})

	assert.Equal(t, mapstate.Center{Lat: hue().Lat, Lon: hue().Lon}, s.Center())
}

func TestApplyLocations_LastUnplacedKeepsCenter(t *testing.T) {
	s := mapstate.ApplyLocations(mapstate.New(), []domain.Location{hanoi(), {ID: "blank"}})

	assert.Equal(t, mapstate.DefaultCenter, s.Center())
}

func TestApplyLocations_EmptyKeepsOneRow(t *testing.T) {
	s := mapstate.ApplyLocations(mapstate.New(), nil)

	locs := s.Locations()
	require.Len(t, locs, 1)
	assert.NotEmpty(t, locs[0].ID)
	assert.False(t, locs[0].Placed())
}

func TestApplyLocations_DoesNotAliasInput(t *testing.T) {
	in := []domain.Location{hanoi()}
	s := mapstate.ApplyLocations(mapstate.New(), in)

	in[0].Name = "changed"

	assert.Equal(t, "Hà Nội", s.Locations()[0].Name)
}

func TestAddLocation(t *testing.T) {
	before := mapstate.New()
	after := mapstate.AddLocation(before, "new")

	require.Equal(t, 2, after.Len())
	loc, ok := after.Location("new")
	require.True(t, ok)
	assert.Equal(t, domain.Location{ID: "new"}, loc)
	assert.Equal(t, 1, before.Len(), "the previous snapshot must not change")
	assert.Equal(t, mapstate.DefaultCenter, after.Center())
}

func TestAddLocation_DuplicateID(t *testing.T) {
	s := mapstate.AddLocation(mapstate.New(), "initial")
	assert.Equal(t, 1, s.Len())
}

func TestRemoveLocation(t *testing.T) {
	s := mapstate.ApplyLocations(mapstate.New(), []domain.Location{hanoi(), hue()})

	s = mapstate.RemoveLocation(s, "hue")

	require.Equal(t, 1, s.Len())
	assert.Equal(t, "hn", s.Locations()[0].ID)
	assert.Equal(t, mapstate.Center{Lat: hanoi().Lat, Lon: hanoi().Lon}, s.Center())
}

func TestRemoveLocation_LastRemainingIsNoop(t *testing.T) {
	s := mapstate.RemoveLocation(mapstate.New(), "initial")
	assert.Equal(t, 1, s.Len())
}

func TestRemoveLocation_UnknownID(t *testing.T) {
	s := mapstate.ApplyLocations(mapstate.New(), []domain.Location{hanoi(), hue()})
	s = mapstate.RemoveLocation(s, "nope")
	assert.Equal(t, 2, s.Len())
}

func TestSelectResult(t *testing.T) {
	s := mapstate.AddLocation(mapstate.New(), "row")

	s = mapstate.SelectResult(s, "row", domain.SearchResult{
		Name:        "Chợ Bến Thành",
		DisplayName: "Chợ Bến Thành, Quận 1",
		Lat:         "10.772",
		Lon:         "106.698",
	})

	loc, ok := s.Location("row")
	require.True(t, ok)
	assert.Equal(t, "Chợ Bến Thành", loc.Name)
	assert.InDelta(t, 10.772, loc.Lat, 1e-9)
	assert.InDelta(t, 106.698, loc.Lon, 1e-9)
	assert.Equal(t, mapstate.Center{Lat: 10.772, Lon: 106.698}, s.Center())
}

func TestSelectResult_FallsBackToDisplayName(t *testing.T) {
	s := mapstate.SelectResult(mapstate.New(), "initial", domain.SearchResult{
		DisplayName: "Hội An, Quảng Nam",
		Lat:         "15.88",
		Lon:         "108.33",
	})

	loc, _ := s.Location("initial")
	assert.Equal(t, "Hội An, Quảng Nam", loc.Name)
}

func TestSelectResult_BadCoordinates(t *testing.T) {
	before := mapstate.New()
	after := mapstate.SelectResult(before, "initial", domain.SearchResult{Name: "x", Lat: "abc", Lon: "1"})
	assert.Equal(t, before.Locations(), after.Locations())
}

func TestUpdateProperties(t *testing.T) {
	s := mapstate.ApplyLocations(mapstate.New(), []domain.Location{hanoi()})
	props := domain.LocationProperties{Notes: "phở", Links: []string{"https://example.com"}}

	s = mapstate.UpdateProperties(s, "hn", props)
	props.Links[0] = "mutated"

	loc, _ := s.Location("hn")
	require.NotNil(t, loc.Properties)
	assert.Equal(t, "phở", loc.Properties.Notes)
	assert.Equal(t, []string{"https://example.com"}, loc.Properties.Links)
}

func TestClickedPlace(t *testing.T) {
	s := mapstate.SetClickedPlace(mapstate.New(), &mapstate.ClickedPlace{
		Name: "Nhà thờ Đức Bà", Lat: 10.7798, Lon: 106.699, Type: "church",
	})
	center := s.Center()

	s = mapstate.AddClickedPlace(s, "church")

	loc, ok := s.Location("church")
	require.True(t, ok)
	assert.Equal(t, "Nhà thờ Đức Bà", loc.Name)
	assert.Equal(t, 10.7798, loc.Lat)
	_, ok = s.ClickedPlace()
	assert.False(t, ok)
	assert.Equal(t, center, s.Center())
}

func TestAddClickedPlace_NothingClicked(t *testing.T) {
	s := mapstate.AddClickedPlace(mapstate.New(), "x")
	assert.Equal(t, 1, s.Len())
}

func TestSetCenterAndName(t *testing.T) {
	s := mapstate.SetCenter(mapstate.New(), mapstate.Center{Lat: 1, Lon: 2})
	s = mapstate.SetJourneyName(s, "Tây Bắc")

	assert.Equal(t, mapstate.Center{Lat: 1, Lon: 2}, s.Center())
	assert.Equal(t, "Tây Bắc", s.JourneyName())
}

func TestLoadJourney(t *testing.T) {
	s := mapstate.SetClickedPlace(mapstate.New(), &mapstate.ClickedPlace{Name: "x"})

	s = mapstate.LoadJourney(s, domain.Journey{
		Name:      "Bắc tiến",
		Locations: []domain.Location{hanoi(), hue()},
	})

	assert.Equal(t, "Bắc tiến", s.JourneyName())
	assert.Equal(t, []domain.Location{hanoi(), hue()}, s.Locations())
	assert.Equal(t, mapstate.Center{Lat: hanoi().Lat, Lon: hanoi().Lon}, s.Center())
	_, ok := s.ClickedPlace()
	assert.False(t, ok)
}

func TestLoadJourney_FirstUnplacedKeepsCenter(t *testing.T) {
	s := mapstate.LoadJourney(mapstate.New(), domain.Journey{
		Name:      "draft",
		Locations: []domain.Location{{ID: "a"}, hue()},
	})
	assert.Equal(t, mapstate.DefaultCenter, s.Center())
}

func TestLoadJourney_Empty(t *testing.T) {
	s := mapstate.LoadJourney(mapstate.New(), domain.Journey{Name: "empty"})

	locs := s.Locations()
	require.Len(t, locs, 1)
	assert.False(t, locs[0].Placed())
}

func TestMarkers_SkipUnplaced(t *testing.T) {
	s := mapstate.ApplyLocations(mapstate.New(), []domain.Location{hanoi(), {ID: "blank"}, hue()})

	markers := s.Markers()
	require.Len(t, markers, 2)
	assert.Equal(t, "hn", markers[0].ID)
	assert.Equal(t, "hue", markers[1].ID)
}

func TestRouteCoordinates(t *testing.T) {
	s := mapstate.ApplyLocations(mapstate.New(), []domain.Location{hanoi(), {ID: "blank"}, hue()})

	assert.Equal(t, [][]float64{
		{hanoi().Lon, hanoi().Lat},
		{hue().Lon, hue().Lat},
	}, s.RouteCoordinates())
}

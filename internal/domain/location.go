package domain

// Location is a single named point within a journey.
// ID is generated by the client and is unique only within its journey.
// The pair Lat=0, Lon=0 marks a location that has not been placed on the map yet.
type Location struct {
	ID         string              `json:"id" validate:"required"`
	Name       string              `json:"name"`
	Lat        float64             `json:"lat" validate:"latitude"`
	Lon        float64             `json:"lon" validate:"longitude"`
	Properties *LocationProperties `json:"properties,omitempty"`
}

// LocationProperties holds the free-form details a user attaches to a location.
type LocationProperties struct {
	Notes string   `json:"notes"`
	Links []string `json:"links"`
}

// Placed reports whether the location has real coordinates.
func (l Location) Placed() bool {
	return l.Lat != 0 || l.Lon != 0
}

// SearchResult is a geocoded candidate returned by the search proxy.
// Lat and Lon are decimal text, exactly as the proxy emits them.
type SearchResult struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

package domain

// ExportFormat selects the representation produced by a journey export.
type ExportFormat string

const (
	ExportGeoJSON ExportFormat = "geojson"
	ExportCSV     ExportFormat = "csv"
)

// ExportRow is one location of a journey in flat form.
// Position is 1-based and follows the journey's location order.
type ExportRow struct {
	Position int
	ID       string
	Name     string
	Lat      float64
	Lon      float64
	Notes    string
	Links    []string
}

// FeatureCollection is a GeoJSON FeatureCollection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a single GeoJSON feature.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// Geometry holds either a Point ([lon, lat]) or a LineString ([][lon, lat]).
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

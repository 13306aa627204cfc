// README: Coordinate pair shared by location, trip and geocoding code.
package types

// Point is a coordinate pair, longitude first to match the stored [lng, lat] layout.
type Point struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

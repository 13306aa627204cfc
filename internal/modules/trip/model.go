// README: Trip is the ordered route of a booking: optional start/end plus intermediate stops.
package trip

import (
	"errors"
	"fmt"

	"github.com/twpayne/go-polyline"

	"taxibook/internal/modules/location"
	"taxibook/internal/types"
)

// Endpoint selects the start or the end of a trip.
type Endpoint int

const (
	Start Endpoint = iota
	End
)

func (e Endpoint) String() string {
	switch e {
	case Start:
		return "start"
	case End:
		return "end"
	default:
		return fmt.Sprintf("endpoint(%d)", int(e))
	}
}

// ParseEndpoint accepts "start"/"pickup" and "end"/"dropoff".
func ParseEndpoint(s string) (Endpoint, error) {
	switch s {
	case "start", "pickup":
		return Start, nil
	case "end", "dropoff":
		return End, nil
	}
	return 0, fmt.Errorf("%w: unknown endpoint %q", types.ErrValidation, s)
}

// ErrNoStops is returned by Centroid for a trip without any stop.
var ErrNoStops = errors.New("trip has no stops")

// Trip holds its stops by value; nothing outside the trip aliases them.
type Trip struct {
	start        *location.Location
	end          *location.Location
	intermediate []location.Location
}

// SetEndpoint stores a copy of loc as the start or end. Invalid locations are
// rejected without touching the trip.
func (t *Trip) SetEndpoint(loc location.Location, which Endpoint) error {
	if err := loc.Validate(); err != nil {
		return err
	}
	switch which {
	case Start:
		t.start = &loc
	case End:
		t.end = &loc
	default:
		return fmt.Errorf("%w: unknown endpoint %d", types.ErrValidation, int(which))
	}
	return nil
}

// Endpoint returns a copy of the start or end and whether it is set.
func (t *Trip) Endpoint(which Endpoint) (location.Location, bool) {
	var p *location.Location
	switch which {
	case Start:
		p = t.start
	case End:
		p = t.end
	}
	if p == nil {
		return location.Location{}, false
	}
	return *p, true
}

func (t *Trip) AddIntermediate(loc location.Location) error {
	if err := loc.Validate(); err != nil {
		return err
	}
	t.intermediate = append(t.intermediate, loc)
	return nil
}

func (t *Trip) DeleteIntermediate(pos int) error {
	if pos < 0 || pos >= len(t.intermediate) {
		return fmt.Errorf("%w: stop %d of %d", types.ErrOutOfRange, pos, len(t.intermediate))
	}
	t.intermediate = append(t.intermediate[:pos], t.intermediate[pos+1:]...)
	return nil
}

func (t *Trip) EditIntermediate(loc location.Location, pos int) error {
	if err := loc.Validate(); err != nil {
		return err
	}
	if pos < 0 || pos >= len(t.intermediate) {
		return fmt.Errorf("%w: stop %d of %d", types.ErrOutOfRange, pos, len(t.intermediate))
	}
	t.intermediate[pos] = loc
	return nil
}

// Intermediate returns a copy of the intermediate stops in insertion order.
func (t *Trip) Intermediate() []location.Location {
	out := make([]location.Location, len(t.intermediate))
	copy(out, t.intermediate)
	return out
}

func (t *Trip) NumStops() int {
	n := len(t.intermediate)
	if t.start != nil {
		n++
	}
	if t.end != nil {
		n++
	}
	return n
}

// Complete reports whether both endpoints are set.
func (t *Trip) Complete() bool {
	return t.start != nil && t.end != nil
}

// Stops lists start, intermediate stops and end, skipping absent endpoints.
func (t *Trip) Stops() []location.Location {
	all := make([]location.Location, 0, t.NumStops())
	if t.start != nil {
		all = append(all, *t.start)
	}
	all = append(all, t.intermediate...)
	if t.end != nil {
		all = append(all, *t.end)
	}
	return all
}

// DistanceKm sums the great-circle legs along Stops.
func (t *Trip) DistanceKm() float64 {
	stops := t.Stops()
	var total float64
	for i := 1; i < len(stops); i++ {
		total += location.DistanceKm(stops[i-1].Coordinates, stops[i].Coordinates)
	}
	return total
}

// Centroid is the arithmetic mean of all stop coordinates.
func (t *Trip) Centroid() (types.Point, error) {
	stops := t.Stops()
	if len(stops) == 0 {
		return types.Point{}, ErrNoStops
	}
	var c types.Point
	for _, s := range stops {
		c.Lng += s.Coordinates.Lng
		c.Lat += s.Coordinates.Lat
	}
	c.Lng /= float64(len(stops))
	c.Lat /= float64(len(stops))
	return c, nil
}

// PathGeometry is the ordered coordinate sequence used to draw the route.
func (t *Trip) PathGeometry() []types.Point {
	stops := t.Stops()
	path := make([]types.Point, len(stops))
	for i, s := range stops {
		path[i] = s.Coordinates
	}
	return path
}

// EncodedPath returns PathGeometry as a Google encoded polyline.
func (t *Trip) EncodedPath() string {
	path := t.PathGeometry()
	coords := make([][]float64, len(path))
	for i, p := range path {
		coords[i] = []float64{p.Lat, p.Lng}
	}
	return string(polyline.EncodeCoords(coords))
}

// Clone returns a deep copy.
func (t *Trip) Clone() Trip {
	c := Trip{intermediate: t.Intermediate()}
	if t.start != nil {
		s := *t.start
		c.start = &s
	}
	if t.end != nil {
		e := *t.end
		c.end = &e
	}
	return c
}

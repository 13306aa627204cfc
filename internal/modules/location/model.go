// README: Location value type (named, addressed coordinate pair) and its validity gate.
package location

import (
	"fmt"
	"strings"

	"taxibook/internal/types"
)

type Location struct {
	Name        string      `json:"name"`
	Address     string      `json:"address"`
	Coordinates types.Point `json:"coordinates"`
}

// New builds a Location and rejects it unless it passes Validate.
func New(name, address string, lng, lat float64) (Location, error) {
	l := Location{Name: name, Address: address, Coordinates: types.Point{Lng: lng, Lat: lat}}
	if err := l.Validate(); err != nil {
		return Location{}, err
	}
	return l, nil
}

func (l Location) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("%w: location name is empty", types.ErrValidation)
	}
	if strings.TrimSpace(l.Address) == "" {
		return fmt.Errorf("%w: location address is empty", types.ErrValidation)
	}
	if !ValidPoint(l.Coordinates) {
		return fmt.Errorf("%w: coordinates (%f, %f) out of range", types.ErrValidation, l.Coordinates.Lng, l.Coordinates.Lat)
	}
	return nil
}

// README: Taxi inventory: allocation, targeted claim and release of units by index.
package taxi

import (
	"fmt"

	"taxibook/internal/modules/pricing"
	"taxibook/internal/types"
)

// Inventory is index-addressed; a unit's Index always equals its position.
type Inventory struct {
	units []Unit
}

func NewInventory(units []Unit) *Inventory {
	inv := &Inventory{units: make([]Unit, len(units))}
	for i, u := range units {
		u.Index = i
		inv.units[i] = u
	}
	return inv
}

func (inv *Inventory) Len() int {
	return len(inv.units)
}

// Units returns a copy of every unit in index order.
func (inv *Inventory) Units() []Unit {
	out := make([]Unit, len(inv.units))
	copy(out, inv.units)
	return out
}

func (inv *Inventory) Unit(index int) (Unit, error) {
	if err := inv.checkIndex(index); err != nil {
		return Unit{}, err
	}
	return inv.units[index], nil
}

// Allocate takes the first available unit of class and marks it unavailable.
func (inv *Inventory) Allocate(class pricing.Class) (Unit, error) {
	if !class.Valid() {
		return Unit{}, fmt.Errorf("%w: unknown taxi class %d", types.ErrValidation, uint8(class))
	}
	for i := range inv.units {
		if inv.units[i].Class == class && inv.units[i].Available {
			inv.units[i].Available = false
			return inv.units[i], nil
		}
	}
	return Unit{}, fmt.Errorf("%w: no %s available", types.ErrNotAvailable, class)
}

// Claim allocates the unit at index.
func (inv *Inventory) Claim(index int) (Unit, error) {
	if err := inv.checkIndex(index); err != nil {
		return Unit{}, err
	}
	if !inv.units[index].Available {
		return Unit{}, fmt.Errorf("%w: unit %d (%s) is taken", types.ErrNotAvailable, index, inv.units[index].Registration)
	}
	inv.units[index].Available = false
	return inv.units[index], nil
}

// Release marks the unit at index available again. Releasing twice is harmless.
func (inv *Inventory) Release(index int) error {
	if err := inv.checkIndex(index); err != nil {
		return err
	}
	inv.units[index].Available = true
	return nil
}

// Alternatives lists, per class other than exclude, the first available unit.
func (inv *Inventory) Alternatives(exclude pricing.Class) []Alternative {
	var out []Alternative
	for _, class := range alternativeOrder {
		if class == exclude {
			continue
		}
		for _, u := range inv.units {
			if u.Class == class && u.Available {
				out = append(out, Alternative{Class: class, Index: u.Index})
				break
			}
		}
	}
	return out
}

// AvailableCount counts available units per class.
func (inv *Inventory) AvailableCount() map[pricing.Class]int {
	counts := make(map[pricing.Class]int, len(alternativeOrder))
	for _, u := range inv.units {
		if u.Available {
			counts[u.Class]++
		}
	}
	return counts
}

func (inv *Inventory) Clone() *Inventory {
	return &Inventory{units: inv.Units()}
}

func (inv *Inventory) checkIndex(index int) error {
	if index < 0 || index >= len(inv.units) {
		return fmt.Errorf("%w: taxi %d of %d", types.ErrOutOfRange, index, len(inv.units))
	}
	return nil
}

// README: Booking aggregate: trip, assigned taxi copy, scheduling info and fares.
package booking

import (
	"errors"
	"fmt"
	"time"

	"taxibook/internal/modules/pricing"
	"taxibook/internal/modules/taxi"
	"taxibook/internal/modules/trip"
	"taxibook/internal/types"
)

var (
	ErrTaxiUnassigned  = errors.New("booking has no taxi assigned")
	ErrScheduleMissing = errors.New("advance booking has no scheduled time")
	ErrTripIncomplete  = fmt.Errorf("%w: trip needs a start and an end", types.ErrValidation)
)

// Status tells a confirmed booking that has yet to start from one under way.
type Status string

const (
	StatusFuture    Status = "Future"
	StatusCommenced Status = "Commenced"
)

// Booking is a draft until CreatedAt is stamped by the ledger.
type Booking struct {
	Name        string
	Trip        trip.Trip
	Taxi        *taxi.Unit
	CreatedAt   time.Time
	ScheduledAt *time.Time
	IsAdvance   bool
}

func NewDraft(name string) *Booking {
	return &Booking{Name: name}
}

// Confirmed reports whether the booking has been committed to a ledger.
func (b *Booking) Confirmed() bool {
	return !b.CreatedAt.IsZero()
}

// AssignTaxi stores a copy of u; later inventory changes do not reach it.
func (b *Booking) AssignTaxi(u taxi.Unit) {
	b.Taxi = &u
}

// ChooseClass records a class before any unit is allocated.
func (b *Booking) ChooseClass(c pricing.Class) error {
	if !c.Valid() {
		return fmt.Errorf("%w: unknown taxi class %d", types.ErrValidation, uint8(c))
	}
	b.Taxi = &taxi.Unit{Class: c, Index: -1}
	return nil
}

// Class is the assigned or chosen class, if any.
func (b *Booking) Class() (pricing.Class, bool) {
	if b.Taxi == nil || !b.Taxi.Class.Valid() {
		return 0, false
	}
	return b.Taxi.Class, true
}

// Allocated reports whether a physical unit (not just a class) is assigned.
// Class-only choices carry Index -1.
func (b *Booking) Allocated() bool {
	return b.Taxi != nil && b.Taxi.Index >= 0
}

// Schedule switches between immediate and advance booking. An advance booking
// requires at; an immediate one clears any previous scheduled time.
func (b *Booking) Schedule(advance bool, at *time.Time) error {
	if advance && at == nil {
		return fmt.Errorf("%w: %w", types.ErrValidation, ErrScheduleMissing)
	}
	b.IsAdvance = advance
	if advance {
		t := *at
		b.ScheduledAt = &t
	} else {
		b.ScheduledAt = nil
	}
	return nil
}

// Status compares the scheduled time with now. Drafts have no status.
func (b *Booking) Status(now time.Time) (Status, bool) {
	if !b.Confirmed() || b.ScheduledAt == nil {
		return "", false
	}
	if b.ScheduledAt.After(now) {
		return StatusFuture, true
	}
	return StatusCommenced, true
}

// EffectiveTime is the scheduled time of an advance booking, otherwise now.
func (b *Booking) EffectiveTime(now time.Time) (time.Time, error) {
	if !b.IsAdvance {
		return now, nil
	}
	if b.ScheduledAt == nil {
		return time.Time{}, ErrScheduleMissing
	}
	return *b.ScheduledAt, nil
}

func (b *Booking) Clone() *Booking {
	c := &Booking{
		Name:      b.Name,
		Trip:      b.Trip.Clone(),
		CreatedAt: b.CreatedAt,
		IsAdvance: b.IsAdvance,
	}
	if b.Taxi != nil {
		u := *b.Taxi
		c.Taxi = &u
	}
	if b.ScheduledAt != nil {
		t := *b.ScheduledAt
		c.ScheduledAt = &t
	}
	return c
}

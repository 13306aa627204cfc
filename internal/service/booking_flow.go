// README: BookingFlow runs each user action as load, mutate, commit over the session store.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"taxibook/internal/modules/booking"
	"taxibook/internal/modules/location"
	"taxibook/internal/modules/pricing"
	"taxibook/internal/modules/taxi"
	"taxibook/internal/modules/trip"
	"taxibook/internal/storage"
	"taxibook/internal/types"
)

// Place is either an explicit Location or a point to reverse-geocode.
type Place struct {
	Location *location.Location
	Point    *types.Point
}

type Options struct {
	Clock    func() time.Time
	TimeZone *time.Location
	PageSize int
}

// Page is one page of the booking list.
type Page struct {
	Number  int
	Last    int
	Entries []booking.Entry
}

type BookingFlow struct {
	// mu serialises whole actions; the model assumes one writer per session.
	mu       sync.Mutex
	store    *storage.SessionStore
	places   *location.Service
	clock    func() time.Time
	tz       *time.Location
	pageSize int
}

func NewBookingFlow(store *storage.SessionStore, places *location.Service, opts Options) *BookingFlow {
	f := &BookingFlow{
		store:    store,
		places:   places,
		clock:    opts.Clock,
		tz:       opts.TimeZone,
		pageSize: opts.PageSize,
	}
	if f.clock == nil {
		f.clock = time.Now
	}
	if f.tz == nil {
		f.tz = time.Local
	}
	if f.pageSize <= 0 {
		f.pageSize = booking.DefaultPageSize
	}
	return f
}

// Now is the current time in the service time zone; fares read its hour.
func (f *BookingFlow) Now() time.Time {
	return f.clock().In(f.tz)
}

func (f *BookingFlow) TimeZone() *time.Location {
	return f.tz
}

func (f *BookingFlow) PageSize() int {
	return f.pageSize
}

func (f *BookingFlow) Ping(ctx context.Context) error {
	return f.store.Ping(ctx)
}

func (f *BookingFlow) localize(b *booking.Booking) *booking.Booking {
	if !b.CreatedAt.IsZero() {
		b.CreatedAt = b.CreatedAt.In(f.tz)
	}
	if b.ScheduledAt != nil {
		t := b.ScheduledAt.In(f.tz)
		b.ScheduledAt = &t
	}
	return b
}

// ---------------------------------------------------------------------------
// Draft
// ---------------------------------------------------------------------------

func (f *BookingFlow) loadDraft(ctx context.Context, user string) (*booking.Booking, error) {
	ledger, err := f.store.LoadLedger(ctx, user)
	if err != nil {
		return nil, err
	}
	draft, err := f.store.LoadDraft(ctx, user, ledger)
	if err != nil {
		return nil, err
	}
	return f.localize(draft), nil
}

func (f *BookingFlow) Draft(ctx context.Context, user string) (*booking.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loadDraft(ctx, user)
}

// editDraft applies mutate to the stored draft and saves it only on success.
func (f *BookingFlow) editDraft(ctx context.Context, user string, mutate func(*booking.Booking) error) (*booking.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	draft, err := f.loadDraft(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := mutate(draft); err != nil {
		return nil, err
	}
	if err := f.store.Commit(ctx, user, storage.Changes{Draft: draft}); err != nil {
		return nil, err
	}
	return draft, nil
}

func (f *BookingFlow) resolve(ctx context.Context, p Place) (location.Location, error) {
	switch {
	case p.Location != nil:
		if err := p.Location.Validate(); err != nil {
			return location.Location{}, err
		}
		return *p.Location, nil
	case p.Point != nil:
		if f.places == nil {
			return location.Location{}, location.ErrGeocodingDisabled
		}
		return f.places.Resolve(ctx, *p.Point)
	default:
		return location.Location{}, fmt.Errorf("%w: a location or a point is required", types.ErrValidation)
	}
}

// SetEndpoint sets the pickup or dropoff of the draft. Geocoding runs before
// the draft is loaded so a slow lookup does not hold the session.
func (f *BookingFlow) SetEndpoint(ctx context.Context, user string, which trip.Endpoint, p Place) (*booking.Booking, error) {
	loc, err := f.resolve(ctx, p)
	if err != nil {
		return nil, err
	}
	return f.editDraft(ctx, user, func(b *booking.Booking) error {
		return b.Trip.SetEndpoint(loc, which)
	})
}

func (f *BookingFlow) AddStop(ctx context.Context, user string, p Place) (*booking.Booking, error) {
	loc, err := f.resolve(ctx, p)
	if err != nil {
		return nil, err
	}
	return f.editDraft(ctx, user, func(b *booking.Booking) error {
		return b.Trip.AddIntermediate(loc)
	})
}

func (f *BookingFlow) EditStop(ctx context.Context, user string, pos int, p Place) (*booking.Booking, error) {
	loc, err := f.resolve(ctx, p)
	if err != nil {
		return nil, err
	}
	return f.editDraft(ctx, user, func(b *booking.Booking) error {
		return b.Trip.EditIntermediate(loc, pos)
	})
}

func (f *BookingFlow) DeleteStop(ctx context.Context, user string, pos int) (*booking.Booking, error) {
	return f.editDraft(ctx, user, func(b *booking.Booking) error {
		return b.Trip.DeleteIntermediate(pos)
	})
}

// Schedule makes the draft immediate, or an advance booking at the given
// time. Advance times must lie in the future.
func (f *BookingFlow) Schedule(ctx context.Context, user string, advance bool, at *time.Time) (*booking.Booking, error) {
	if advance && at != nil && !at.After(f.Now()) {
		return nil, fmt.Errorf("%w: scheduled time %s is not in the future", types.ErrValidation, at.Format(time.RFC3339))
	}
	return f.editDraft(ctx, user, func(b *booking.Booking) error {
		if at == nil {
			return b.Schedule(advance, nil)
		}
		local := at.In(f.tz)
		return b.Schedule(advance, &local)
	})
}

func (f *BookingFlow) ChooseClass(ctx context.Context, user string, class pricing.Class) (*booking.Booking, error) {
	return f.editDraft(ctx, user, func(b *booking.Booking) error {
		return b.ChooseClass(class)
	})
}

// Offer is a fare quote with the number of free units of its class.
type Offer struct {
	booking.Quote
	Available int
}

// Quotes previews the draft fare for every class alongside current availability.
func (f *BookingFlow) Quotes(ctx context.Context, user string) ([]Offer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	draft, err := f.loadDraft(ctx, user)
	if err != nil {
		return nil, err
	}
	quotes, err := draft.Quotes(f.Now())
	if errors.Is(err, booking.ErrScheduleMissing) {
		return nil, fmt.Errorf("%w: %w", types.ErrValidation, err)
	}
	if err != nil {
		return nil, err
	}
	inv, err := f.store.LoadInventory(ctx)
	if err != nil {
		return nil, err
	}
	free := inv.AvailableCount()
	offers := make([]Offer, 0, len(quotes))
	for _, q := range quotes {
		offers = append(offers, Offer{Quote: q, Available: free[q.Class]})
	}
	return offers, nil
}

func (f *BookingFlow) DiscardDraft(ctx context.Context, user string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.store.DiscardDraft(ctx, user)
}

// ---------------------------------------------------------------------------
// Confirmed bookings
// ---------------------------------------------------------------------------

// Confirm allocates a unit of the chosen class and files the draft in the
// ledger. When no unit is free nothing is written and the draft is kept.
func (f *BookingFlow) Confirm(ctx context.Context, user string) (int, *booking.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ledger, err := f.store.LoadLedger(ctx, user)
	if err != nil {
		return 0, nil, err
	}
	draft, err := f.store.LoadDraft(ctx, user, ledger)
	if err != nil {
		return 0, nil, err
	}
	f.localize(draft)

	if !draft.Trip.Complete() {
		return 0, nil, booking.ErrTripIncomplete
	}
	class, ok := draft.Class()
	if !ok {
		return 0, nil, fmt.Errorf("%w: %w", types.ErrValidation, booking.ErrTaxiUnassigned)
	}
	if draft.IsAdvance && draft.ScheduledAt == nil {
		return 0, nil, fmt.Errorf("%w: %w", types.ErrValidation, booking.ErrScheduleMissing)
	}

	inv, err := f.store.LoadInventory(ctx)
	if err != nil {
		return 0, nil, err
	}
	unit, err := inv.Allocate(class)
	if err != nil {
		log.WithFields(log.Fields{"user": user, "class": class.String()}).Info("no taxi available")
		return 0, nil, err
	}
	draft.AssignTaxi(unit)

	index := ledger.Add(draft, f.Now())
	if err := f.store.Commit(ctx, user, storage.Changes{
		Ledger:       ledger,
		Inventory:    inv,
		DiscardDraft: true,
		LastViewed:   &index,
	}); err != nil {
		return 0, nil, err
	}

	confirmed, err := ledger.Get(index)
	if err != nil {
		return 0, nil, err
	}
	log.WithFields(log.Fields{
		"user":    user,
		"booking": confirmed.Name,
		"index":   index,
		"taxi":    unit.Registration,
	}).Info("booking confirmed")
	return index, confirmed, nil
}

// List returns one 1-based page of the ledger, newest first.
func (f *BookingFlow) List(ctx context.Context, user string, page int) (Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ledger, err := f.store.LoadLedger(ctx, user)
	if err != nil {
		return Page{}, err
	}
	entries, err := ledger.PageOf(page, f.pageSize)
	if err != nil {
		return Page{}, err
	}
	for _, e := range entries {
		f.localize(e.Booking)
	}
	return Page{Number: page, Last: ledger.MaxPage(f.pageSize), Entries: entries}, nil
}

// Detail returns the booking at index and remembers it as last viewed.
func (f *BookingFlow) Detail(ctx context.Context, user string, index int) (*booking.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ledger, err := f.store.LoadLedger(ctx, user)
	if err != nil {
		return nil, err
	}
	b, err := ledger.Get(index)
	if err != nil {
		return nil, err
	}
	if err := f.store.Commit(ctx, user, storage.Changes{LastViewed: &index}); err != nil {
		return nil, err
	}
	return f.localize(b), nil
}

// LastViewed reopens the booking last shown in detail.
func (f *BookingFlow) LastViewed(ctx context.Context, user string) (int, *booking.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	index, err := f.store.LoadLastViewed(ctx, user)
	if err != nil {
		return 0, nil, err
	}
	ledger, err := f.store.LoadLedger(ctx, user)
	if err != nil {
		return 0, nil, err
	}
	b, err := ledger.Get(index)
	if err != nil {
		return 0, nil, err
	}
	return index, f.localize(b), nil
}

// Alternatives lists one free unit per class other than the booking's own.
func (f *BookingFlow) Alternatives(ctx context.Context, user string, index int) ([]taxi.Alternative, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ledger, err := f.store.LoadLedger(ctx, user)
	if err != nil {
		return nil, err
	}
	b, err := ledger.Get(index)
	if err != nil {
		return nil, err
	}
	inv, err := f.store.LoadInventory(ctx)
	if err != nil {
		return nil, err
	}
	class, _ := b.Class()
	return inv.Alternatives(class), nil
}

// ChangeTaxi moves the booking onto inventory unit unitIndex, releasing the
// unit it held. Choosing the unit already held changes nothing.
func (f *BookingFlow) ChangeTaxi(ctx context.Context, user string, index, unitIndex int) (*booking.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ledger, err := f.store.LoadLedger(ctx, user)
	if err != nil {
		return nil, err
	}
	b, err := ledger.Get(index)
	if err != nil {
		return nil, err
	}
	if b.Allocated() && b.Taxi.Index == unitIndex {
		return f.localize(b), nil
	}

	inv, err := f.store.LoadInventory(ctx)
	if err != nil {
		return nil, err
	}
	unit, err := inv.Claim(unitIndex)
	if err != nil {
		return nil, err
	}
	from := ""
	if b.Allocated() {
		from = b.Taxi.Registration
		if err := inv.Release(b.Taxi.Index); err != nil {
			return nil, err
		}
	}
	if err := ledger.SetTaxi(index, unit); err != nil {
		return nil, err
	}
	if err := f.store.Commit(ctx, user, storage.Changes{Ledger: ledger, Inventory: inv}); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user":    user,
		"booking": b.Name,
		"from":    from,
		"to":      unit.Registration,
	}).Info("taxi changed")

	updated, err := ledger.Get(index)
	if err != nil {
		return nil, err
	}
	return f.localize(updated), nil
}

// Delete returns the booking's unit to the inventory, removes the booking and
// leaves a notice naming it. A last-viewed index on the deleted booking is
// cleared and one past it shifts down. It returns the deleted booking's name.
func (f *BookingFlow) Delete(ctx context.Context, user string, index int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ledger, err := f.store.LoadLedger(ctx, user)
	if err != nil {
		return "", err
	}
	b, err := ledger.Get(index)
	if err != nil {
		return "", err
	}
	inv, err := f.store.LoadInventory(ctx)
	if err != nil {
		return "", err
	}
	if b.Allocated() {
		if err := inv.Release(b.Taxi.Index); err != nil {
			return "", err
		}
	}
	if err := ledger.Delete(index); err != nil {
		return "", err
	}
	name := b.Name
	changes := storage.Changes{
		Ledger:         ledger,
		Inventory:      inv,
		DeletionNotice: &name,
	}
	last, err := f.store.LoadLastViewed(ctx, user)
	switch {
	case errors.Is(err, types.ErrDecode):
		// nothing viewed yet
	case err != nil:
		return "", err
	case last == index:
		changes.ClearLastViewed = true
	case last > index:
		shifted := last - 1
		changes.LastViewed = &shifted
	}
	if err := f.store.Commit(ctx, user, changes); err != nil {
		return "", err
	}

	log.WithFields(log.Fields{"user": user, "booking": name, "index": index}).Info("booking deleted")
	return name, nil
}

// DeletionNotice returns and clears the name of the last deleted booking.
func (f *BookingFlow) DeletionNotice(ctx context.Context, user string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.store.PopDeletionNotice(ctx, user)
}

// Taxis lists the shared inventory.
func (f *BookingFlow) Taxis(ctx context.Context) ([]taxi.Unit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	inv, err := f.store.LoadInventory(ctx)
	if err != nil {
		return nil, err
	}
	return inv.Units(), nil
}

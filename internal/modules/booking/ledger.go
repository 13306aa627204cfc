// README: Booking ledger of one user, newest booking first.
package booking

import (
	"fmt"
	"time"

	"taxibook/internal/modules/taxi"
	"taxibook/internal/types"
)

const DefaultPageSize = 3

type Ledger struct {
	bookings []*Booking
}

// NewLedger adopts bookings as already ordered newest first.
func NewLedger(bookings []*Booking) *Ledger {
	return &Ledger{bookings: bookings}
}

func (l *Ledger) Len() int {
	return len(l.bookings)
}

// Bookings returns deep copies in ledger order.
func (l *Ledger) Bookings() []*Booking {
	out := make([]*Booking, len(l.bookings))
	for i, b := range l.bookings {
		out[i] = b.Clone()
	}
	return out
}

// Add copies the draft, stamps its creation time and, for immediate bookings,
// its scheduled time, then inserts it before the first entry not newer than it.
func (l *Ledger) Add(draft *Booking, now time.Time) int {
	b := draft.Clone()
	b.CreatedAt = now
	if !b.IsAdvance {
		t := now
		b.ScheduledAt = &t
	}

	for i, existing := range l.bookings {
		if !existing.CreatedAt.After(b.CreatedAt) {
			l.bookings = append(l.bookings, nil)
			copy(l.bookings[i+1:], l.bookings[i:])
			l.bookings[i] = b
			return i
		}
	}
	l.bookings = append(l.bookings, b)
	return len(l.bookings) - 1
}

// Get returns a copy of the booking at index.
func (l *Ledger) Get(index int) (*Booking, error) {
	if err := l.checkIndex(index); err != nil {
		return nil, err
	}
	return l.bookings[index].Clone(), nil
}

// Delete removes the booking at index. Releasing its taxi is the caller's job.
func (l *Ledger) Delete(index int) error {
	if err := l.checkIndex(index); err != nil {
		return err
	}
	l.bookings = append(l.bookings[:index], l.bookings[index+1:]...)
	return nil
}

// SetTaxi replaces the recorded taxi of the booking at index.
func (l *Ledger) SetTaxi(index int, u taxi.Unit) error {
	if err := l.checkIndex(index); err != nil {
		return err
	}
	l.bookings[index].AssignTaxi(u)
	return nil
}

type Entry struct {
	Index   int
	Booking *Booking
}

// MaxPage is the number of pages of size; an empty ledger still has page 1.
func (l *Ledger) MaxPage(size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if len(l.bookings) == 0 {
		return 1
	}
	return (len(l.bookings) + size - 1) / size
}

// PageOf returns the 1-based page of size entries with their ledger indexes.
func (l *Ledger) PageOf(page, size int) ([]Entry, error) {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 || page > l.MaxPage(size) {
		return nil, fmt.Errorf("%w: page %d of %d", types.ErrOutOfRange, page, l.MaxPage(size))
	}
	from := (page - 1) * size
	to := min(from+size, len(l.bookings))
	out := make([]Entry, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, Entry{Index: i, Booking: l.bookings[i].Clone()})
	}
	return out, nil
}

// NextDraftName names the next draft after the bookings already made.
func (l *Ledger) NextDraftName() string {
	return fmt.Sprintf("Booking %d", len(l.bookings)+1)
}

func (l *Ledger) checkIndex(index int) error {
	if index < 0 || index >= len(l.bookings) {
		return fmt.Errorf("%w: booking %d of %d", types.ErrOutOfRange, index, len(l.bookings))
	}
	return nil
}

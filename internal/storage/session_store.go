// README: Typed access to the logical records of a booking session.
package storage

import (
	"context"
	"fmt"

	"taxibook/internal/codec"
	"taxibook/internal/modules/booking"
	"taxibook/internal/modules/taxi"
	"taxibook/internal/types"
)

const (
	keyPrefix = "taxibook"

	ledgerRecordKey     = "userData"
	draftRecordKey      = "newBooking"
	lastViewedRecordKey = "detailedInfo"
	deletionRecordKey   = "deletion"
	inventoryRecordKey  = "taxiList"
)

type SessionStore struct {
	kv   KV
	seed func() []taxi.Unit
}

func NewSessionStore(kv KV) *SessionStore {
	return &SessionStore{kv: kv, seed: taxi.DefaultFleet}
}

// WithSeed replaces the fleet used when no inventory has been stored yet.
func (s *SessionStore) WithSeed(seed func() []taxi.Unit) *SessionStore {
	s.seed = seed
	return s
}

func userKey(user, name string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, user, name)
}

func inventoryKey() string {
	return fmt.Sprintf("%s:%s", keyPrefix, inventoryRecordKey)
}

func (s *SessionStore) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}

// LoadLedger returns the user's ledger; a user without one gets an empty ledger.
func (s *SessionStore) LoadLedger(ctx context.Context, user string) (*booking.Ledger, error) {
	data, ok, err := s.kv.Get(ctx, userKey(user, ledgerRecordKey))
	if err != nil {
		return nil, err
	}
	if !ok {
		return booking.NewLedger(nil), nil
	}
	return codec.DecodeLedger(data)
}

// LoadInventory returns the shared taxi inventory, seeding it on first use.
func (s *SessionStore) LoadInventory(ctx context.Context) (*taxi.Inventory, error) {
	data, ok, err := s.kv.Get(ctx, inventoryKey())
	if err != nil {
		return nil, err
	}
	if !ok {
		return taxi.NewInventory(s.seed()), nil
	}
	return codec.DecodeInventory(data)
}

// LoadDraft returns the stored draft or a fresh one named after the ledger size.
func (s *SessionStore) LoadDraft(ctx context.Context, user string, ledger *booking.Ledger) (*booking.Booking, error) {
	data, ok, err := s.kv.Get(ctx, userKey(user, draftRecordKey))
	if err != nil {
		return nil, err
	}
	if !ok {
		return booking.NewDraft(ledger.NextDraftName()), nil
	}
	return codec.DecodeBooking(data)
}

// LoadLastViewed returns the ledger index last opened in detail. It is
// required: absence is a decode failure.
func (s *SessionStore) LoadLastViewed(ctx context.Context, user string) (int, error) {
	data, ok, err := s.kv.Get(ctx, userKey(user, lastViewedRecordKey))
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: no booking has been viewed", types.ErrDecode)
	}
	return codec.DecodeIndex(data)
}

// LoadDeletionNotice returns the name of the last deleted booking, if any.
func (s *SessionStore) LoadDeletionNotice(ctx context.Context, user string) (string, bool, error) {
	data, ok, err := s.kv.Get(ctx, userKey(user, deletionRecordKey))
	if err != nil || !ok {
		return "", false, err
	}
	name, err := codec.DecodeNotice(data)
	if err != nil {
		return "", false, err
	}
	return name, true, nil
}

// Changes lists the records a single Commit overwrites or removes.
type Changes struct {
	Ledger              *booking.Ledger
	Inventory           *taxi.Inventory
	Draft               *booking.Booking
	DiscardDraft        bool
	LastViewed          *int
	ClearLastViewed     bool
	DeletionNotice      *string
	ClearDeletionNotice bool
}

// Commit encodes every changed record first and then writes them in one
// atomic batch, so an encoding failure writes nothing.
func (s *SessionStore) Commit(ctx context.Context, user string, c Changes) error {
	b := Batch{Set: map[string]string{}}

	if c.Ledger != nil {
		data, err := codec.EncodeLedger(c.Ledger)
		if err != nil {
			return err
		}
		b.Set[userKey(user, ledgerRecordKey)] = data
	}
	if c.Inventory != nil {
		data, err := codec.EncodeInventory(c.Inventory)
		if err != nil {
			return err
		}
		b.Set[inventoryKey()] = data
	}
	switch {
	case c.DiscardDraft:
		b.Delete = append(b.Delete, userKey(user, draftRecordKey))
	case c.Draft != nil:
		data, err := codec.EncodeBooking(c.Draft)
		if err != nil {
			return err
		}
		b.Set[userKey(user, draftRecordKey)] = data
	}
	switch {
	case c.ClearLastViewed:
		b.Delete = append(b.Delete, userKey(user, lastViewedRecordKey))
	case c.LastViewed != nil:
		b.Set[userKey(user, lastViewedRecordKey)] = codec.EncodeIndex(*c.LastViewed)
	}
	switch {
	case c.ClearDeletionNotice:
		b.Delete = append(b.Delete, userKey(user, deletionRecordKey))
	case c.DeletionNotice != nil:
		data, err := codec.EncodeNotice(*c.DeletionNotice)
		if err != nil {
			return err
		}
		b.Set[userKey(user, deletionRecordKey)] = data
	}

	return s.kv.Write(ctx, b)
}

// PopDeletionNotice returns the pending deletion notice and removes it.
func (s *SessionStore) PopDeletionNotice(ctx context.Context, user string) (string, bool, error) {
	name, ok, err := s.LoadDeletionNotice(ctx, user)
	if err != nil || !ok {
		return "", false, err
	}
	if err := s.Commit(ctx, user, Changes{ClearDeletionNotice: true}); err != nil {
		return "", false, err
	}
	return name, true, nil
}

func (s *SessionStore) DiscardDraft(ctx context.Context, user string) error {
	return s.Commit(ctx, user, Changes{DiscardDraft: true})
}

package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"wildoasis-backend/models"
)

// Loader contracts for the reference data a booking form needs. Each load is
// an independent asynchronous operation with no ordering guarantee.
type (
	CabinLoader interface {
		LoadCabins(ctx context.Context) ([]models.Cabin, error)
	}
	GuestLoader interface {
		LoadGuests(ctx context.Context) ([]models.Guest, error)
	}
	IdentityLoader interface {
		LoadIdentityUsers(ctx context.Context) ([]IdentityUser, error)
	}
	SettingsLoader interface {
		LoadPricingSettings(ctx context.Context) (*models.Setting, error)
	}
	BookingReader interface {
		GetBooking(ctx context.Context, id uint) (*models.Booking, error)
	}
)

// BookingStore is the full persistence gateway contract a draft session uses.
type BookingStore interface {
	BookingReader
	BookingWriter
}

const (
	referenceLoadTimeout = 15 * time.Second

	// Abandoned forms are swept after this much inactivity.
	sessionIdleTimeout = 2 * time.Hour
	sweepInterval      = 10 * time.Minute
)

// DraftManager keeps the live draft sessions and feeds them their reference
// data. Loads run in their own goroutines and outlive the request that
// opened the session, so they use a manager-scoped timeout rather than the
// request context. Sessions nobody touches within sessionIdleTimeout are
// dropped by a background sweep.
type DraftManager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*DraftSession
	touched  map[uuid.UUID]time.Time

	cabins   CabinLoader
	guests   GuestLoader
	identity IdentityLoader
	settings SettingsLoader
	bookings BookingStore

	now func() time.Time
}

func NewDraftManager(
	cabins CabinLoader,
	guests GuestLoader,
	identity IdentityLoader,
	settings SettingsLoader,
	bookings BookingStore,
) *DraftManager {
	m := &DraftManager{
		sessions: make(map[uuid.UUID]*DraftSession),
		touched:  make(map[uuid.UUID]time.Time),
		cabins:   cabins,
		guests:   guests,
		identity: identity,
		settings: settings,
		bookings: bookings,
		now:      time.Now,
	}
	go m.sweepLoop()
	return m
}

func (m *DraftManager) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for range ticker.C {
		m.sweepIdle()
	}
}

// sweepIdle drops every session idle for longer than sessionIdleTimeout and
// returns how many were dropped.
func (m *DraftManager) sweepIdle() int {
	cutoff := m.now().Add(-sessionIdleTimeout)
	m.mu.Lock()
	defer m.mu.Unlock()
	dropped := 0
	for id, at := range m.touched {
		if at.Before(cutoff) {
			delete(m.sessions, id)
			delete(m.touched, id)
			dropped++
		}
	}
	return dropped
}

// Open starts a new form session. editTarget nil means create mode; a booking
// id means edit mode, which additionally fetches the persisted booking.
func (m *DraftManager) Open(editTarget *uint) *DraftSession {
	s := NewDraftSession(m.bookings, editTarget)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.touched[s.ID] = m.now()
	m.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), referenceLoadTimeout)
		defer cancel()
		cabins, err := m.cabins.LoadCabins(ctx)
		s.SupplyCabins(cabins, err)
	}()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), referenceLoadTimeout)
		defer cancel()
		guests, err := m.guests.LoadGuests(ctx)
		s.SupplyGuests(guests, err)
	}()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), referenceLoadTimeout)
		defer cancel()
		users, err := m.identity.LoadIdentityUsers(ctx)
		s.SupplyIdentityUsers(users, err)
	}()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), referenceLoadTimeout)
		defer cancel()
		settings, err := m.settings.LoadPricingSettings(ctx)
		s.SupplySettings(settings, err)
	}()

	if editTarget != nil {
		m.fetchBooking(s, *editTarget)
	}
	return s
}

func (m *DraftManager) fetchBooking(s *DraftSession, id uint) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), referenceLoadTimeout)
		defer cancel()
		booking, err := m.bookings.GetBooking(ctx, id)
		s.SupplyBooking(booking, err)
	}()
}

func (m *DraftManager) Get(id uuid.UUID) (*DraftSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	m.touched[id] = m.now()
	return s, nil
}

// ChangeEditTarget retargets a session mid-flight and kicks off the fetch of
// the newly designated booking.
func (m *DraftManager) ChangeEditTarget(id uuid.UUID, target *uint) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	before := s.EditTarget()
	if err := s.SetEditTarget(target); err != nil {
		return err
	}
	if target != nil && !sameTarget(before, target) {
		m.fetchBooking(s, *target)
	}
	return nil
}

// Cancel cancels the session and drops it from the registry.
func (m *DraftManager) Cancel(id uuid.UUID) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	if err := s.Cancel(); err != nil {
		return err
	}
	m.remove(id)
	return nil
}

// Submit runs the session's submit; a successful submission is terminal, so
// the session is dropped from the registry afterwards.
func (m *DraftManager) Submit(ctx context.Context, id uuid.UUID) (*models.Booking, []FieldError, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, nil, err
	}
	booking, fieldErrs, err := s.Submit(ctx)
	if err == nil && len(fieldErrs) == 0 {
		m.remove(id)
	}
	return booking, fieldErrs, err
}

func (m *DraftManager) remove(id uuid.UUID) {
	m.mu.Lock()
	delete(m.sessions, id)
	delete(m.touched, id)
	m.mu.Unlock()
}

package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"wildoasis-backend/models"
)

type DraftState string

const (
	StateEmpty     DraftState = "empty"
	StateSeeding   DraftState = "seeding"
	StateReady     DraftState = "ready"
	StateSubmitted DraftState = "submitted"
	StateCancelled DraftState = "cancelled"
)

// BookingWriter is the persistence gateway a finished draft is handed to.
type BookingWriter interface {
	SubmitCreate(ctx context.Context, payload BookingPayload) (*models.Booking, error)
	SubmitUpdate(ctx context.Context, id uint, payload BookingPayload) (*models.Booking, error)
}

// DraftSession owns the editable state of one booking form. All events —
// user mutations, reference-data arrivals, submit completion — are serialized
// by the session mutex, so no mutation ever interleaves with another.
//
// Lifecycle: empty -> ready (create mode) or empty -> seeding -> ready (edit
// mode, once the persisted booking plus the cabin and guest lists have all
// arrived). ready -> submitted or cancelled are terminal. Changing the edit
// target from ready re-enters seeding with the one-shot seed guard reset.
type DraftSession struct {
	ID uuid.UUID

	mu sync.Mutex

	state DraftState
	draft BookingDraft

	editTarget *uint
	seededFor  *uint

	// Reference data; nil slices mean "not arrived yet".
	cabins    []models.Cabin
	guests    []models.Guest
	identity  []IdentityUser
	settings  *models.Setting
	persisted *models.Booking

	loadErrs map[string]string

	submitting bool

	writer BookingWriter
	now    func() time.Time
}

func NewDraftSession(writer BookingWriter, editTarget *uint) *DraftSession {
	s := &DraftSession{
		ID:       uuid.New(),
		draft:    newBookingDraft(),
		loadErrs: make(map[string]string),
		writer:   writer,
		now:      time.Now,
	}
	if editTarget != nil {
		id := *editTarget
		s.editTarget = &id
		s.state = StateSeeding
	} else {
		// Nothing to wait for in create mode.
		s.state = StateReady
	}
	return s
}

func (s *DraftSession) State() DraftState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *DraftSession) EditTarget() *uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editTarget == nil {
		return nil
	}
	id := *s.editTarget
	return &id
}

// ---------------------------------------------------------------
// Reference-data arrivals
// ---------------------------------------------------------------

func (s *DraftSession) SupplyCabins(cabins []models.Cabin, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.loadErrs["cabins"] = err.Error()
		return
	}
	delete(s.loadErrs, "cabins")
	if cabins == nil {
		cabins = []models.Cabin{}
	}
	s.cabins = cabins
	s.trySeedLocked()
	s.deriveLocked()
}

func (s *DraftSession) SupplyGuests(guests []models.Guest, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.loadErrs["guests"] = err.Error()
		return
	}
	delete(s.loadErrs, "guests")
	if guests == nil {
		guests = []models.Guest{}
	}
	s.guests = guests
	s.trySeedLocked()
}

// SupplyIdentityUsers degrades a failed identity load to an empty list: guest
// selection still works from the primary directory.
func (s *DraftSession) SupplyIdentityUsers(users []IdentityUser, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.loadErrs["identity"] = err.Error()
		s.identity = []IdentityUser{}
		return
	}
	delete(s.loadErrs, "identity")
	if users == nil {
		users = []IdentityUser{}
	}
	s.identity = users
}

func (s *DraftSession) SupplySettings(settings *models.Setting, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.loadErrs["settings"] = err.Error()
		return
	}
	delete(s.loadErrs, "settings")
	s.settings = settings
	s.deriveLocked()
}

func (s *DraftSession) SupplyBooking(booking *models.Booking, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.loadErrs["booking"] = err.Error()
		return
	}
	delete(s.loadErrs, "booking")
	s.persisted = booking
	s.trySeedLocked()
}

// trySeedLocked performs the seeding -> ready transition exactly once per
// edit target, and only when the persisted booking and both reference lists
// are available. Arrival order of the three loads does not matter.
func (s *DraftSession) trySeedLocked() {
	if s.state != StateSeeding || s.editTarget == nil {
		return
	}
	if s.seededFor != nil && *s.seededFor == *s.editTarget {
		return
	}
	if s.persisted == nil || s.cabins == nil || s.guests == nil {
		return
	}
	if s.persisted.ID != *s.editTarget {
		// Stale fetch from a previous edit target; ignore it.
		return
	}

	b := s.persisted
	d := newBookingDraft()
	if b.CabinID != 0 {
		id := b.CabinID
		d.CabinID = &id
	}
	if b.GuestID != 0 {
		id := b.GuestID
		d.GuestID = &id
	}
	d.StartDate = copyDate(b.StartDate)
	d.EndDate = copyDate(b.EndDate)
	if b.NumGuests > 0 {
		d.NumGuests = b.NumGuests
	}
	d.HasBreakfast = b.HasBreakfast
	d.IsPaid = b.IsPaid
	if models.ValidStatus(b.Status) {
		d.Status = b.Status
	}
	d.Observations = b.Observations

	s.draft = d
	seeded := *s.editTarget
	s.seededFor = &seeded
	s.state = StateReady
	s.deriveLocked()
}

func copyDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := toDay(*t)
	return &d
}

// ---------------------------------------------------------------
// Edit target
// ---------------------------------------------------------------

// SetEditTarget switches the session to a different booking, or back to
// create mode when target is nil. The seed guard resets so stale data from
// the previous target cannot leak into the new one.
func (s *DraftSession) SetEditTarget(target *uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSubmitted || s.state == StateCancelled {
		return ErrDraftFinished
	}
	if s.submitting {
		return ErrSubmitInFlight
	}
	if sameTarget(s.editTarget, target) {
		return nil
	}

	s.seededFor = nil
	s.persisted = nil
	delete(s.loadErrs, "booking")

	if target == nil {
		s.editTarget = nil
		s.draft = newBookingDraft()
		s.state = StateReady
		s.deriveLocked()
		return nil
	}

	id := *target
	s.editTarget = &id
	s.state = StateSeeding
	s.trySeedLocked()
	return nil
}

func sameTarget(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// ---------------------------------------------------------------
// Mutations (ready state only)
// ---------------------------------------------------------------

func (s *DraftSession) mutableLocked() error {
	switch s.state {
	case StateSubmitted, StateCancelled:
		return ErrDraftFinished
	case StateReady:
		if s.submitting {
			return ErrSubmitInFlight
		}
		return nil
	default:
		return ErrDraftNotReady
	}
}

// SelectCabin sets the cabin and re-clamps occupancy to its capacity,
// adjusting only when out of range.
func (s *DraftSession) SelectCabin(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutableLocked(); err != nil {
		return err
	}
	if s.cabins == nil {
		// Selection is disabled until the catalog has arrived.
		return ErrDraftNotReady
	}
	if s.findCabinLocked(id) == nil {
		return fmt.Errorf("%w: id %d", ErrUnknownCabin, id)
	}
	s.draft.CabinID = &id
	s.deriveLocked()
	return nil
}

func (s *DraftSession) SelectGuest(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutableLocked(); err != nil {
		return err
	}
	if s.guests == nil {
		return ErrDraftNotReady
	}
	found := false
	for _, opt := range s.guestOptionsLocked() {
		if opt.ID == id {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: id %d", ErrUnknownGuest, id)
	}
	s.draft.GuestID = &id
	return nil
}

func (s *DraftSession) SetDates(start, end *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutableLocked(); err != nil {
		return err
	}
	s.draft.StartDate = copyDate(start)
	s.draft.EndDate = copyDate(end)
	s.deriveLocked()
	return nil
}

func (s *DraftSession) SetNumGuests(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutableLocked(); err != nil {
		return err
	}
	s.draft.NumGuests = n
	s.deriveLocked() // clamps and reprices
	return nil
}

func (s *DraftSession) SetBreakfast(hasBreakfast bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutableLocked(); err != nil {
		return err
	}
	s.draft.HasBreakfast = hasBreakfast
	s.deriveLocked()
	return nil
}

func (s *DraftSession) SetPaid(isPaid bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutableLocked(); err != nil {
		return err
	}
	s.draft.IsPaid = isPaid
	return nil
}

func (s *DraftSession) SetStatus(status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutableLocked(); err != nil {
		return err
	}
	if !models.ValidStatus(status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	s.draft.Status = status
	return nil
}

func (s *DraftSession) SetObservations(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutableLocked(); err != nil {
		return err
	}
	s.draft.Observations = text
	return nil
}

// ---------------------------------------------------------------
// Validation, submit, cancel
// ---------------------------------------------------------------

func (s *DraftSession) Validate() []FieldError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validateLocked()
}

// validateLocked runs the draft's own checks and additionally requires a
// selected guest to still resolve in the merged option list. A seeded guest
// id can stop resolving when the guest is removed from the directory after
// the booking was made.
func (s *DraftSession) validateLocked() []FieldError {
	errs := s.draft.Validate(s.currentCabinLocked(), s.now())
	if s.draft.GuestID != nil {
		found := false
		for _, opt := range s.guestOptionsLocked() {
			if opt.ID == *s.draft.GuestID {
				found = true
				break
			}
		}
		if !found {
			errs = append(errs, FieldError{Field: "guestId", Err: ErrUnknownGuest})
		}
	}
	return errs
}

// Submit validates the draft and, on success, re-derives nights, occupancy
// and total price one final time from the current inputs (never trusting
// cached derived fields), hands the normalized payload to the gateway, and
// moves to submitted. Validation failures are returned as field errors with
// the session left in ready; a gateway rejection is returned as a SubmitError,
// also with the session left in ready. At most one submit is in flight.
func (s *DraftSession) Submit(ctx context.Context) (*models.Booking, []FieldError, error) {
	s.mu.Lock()
	switch s.state {
	case StateSubmitted, StateCancelled:
		s.mu.Unlock()
		return nil, nil, ErrDraftFinished
	case StateReady:
	default:
		s.mu.Unlock()
		return nil, nil, ErrDraftNotReady
	}
	if s.submitting {
		s.mu.Unlock()
		return nil, nil, ErrSubmitInFlight
	}

	cabin := s.currentCabinLocked()
	if errs := s.validateLocked(); len(errs) > 0 {
		s.mu.Unlock()
		return nil, errs, nil
	}

	draft := s.draft
	deriveDependentFields(&draft, cabin, s.settings)
	payload := draft.payload()
	target := s.editTarget

	s.submitting = true
	s.mu.Unlock()

	var booking *models.Booking
	var err error
	if target != nil {
		booking, err = s.writer.SubmitUpdate(ctx, *target, payload)
	} else {
		booking, err = s.writer.SubmitCreate(ctx, payload)
	}

	s.mu.Lock()
	s.submitting = false
	if err != nil {
		s.mu.Unlock()
		return nil, nil, err
	}
	s.draft = draft
	s.state = StateSubmitted
	s.mu.Unlock()
	return booking, nil, nil
}

// Cancel discards the draft. Only meaningful in ready state; an in-flight
// submit cannot be cancelled once issued.
func (s *DraftSession) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSubmitted || s.state == StateCancelled {
		return ErrDraftFinished
	}
	if s.submitting {
		return ErrSubmitInFlight
	}
	if s.state != StateReady {
		return ErrDraftNotReady
	}
	s.state = StateCancelled
	return nil
}

// ---------------------------------------------------------------
// Derivation helpers and views
// ---------------------------------------------------------------

func (s *DraftSession) deriveLocked() {
	deriveDependentFields(&s.draft, s.currentCabinLocked(), s.settings)
}

func (s *DraftSession) currentCabinLocked() *models.Cabin {
	if s.draft.CabinID == nil {
		return nil
	}
	return s.findCabinLocked(*s.draft.CabinID)
}

func (s *DraftSession) findCabinLocked(id uint) *models.Cabin {
	for i := range s.cabins {
		if s.cabins[i].ID == id {
			return &s.cabins[i]
		}
	}
	return nil
}

func (s *DraftSession) guestOptionsLocked() []GuestOption {
	directory := make([]GuestOption, 0, len(s.guests))
	for _, g := range s.guests {
		directory = append(directory, GuestOption{
			ID:    g.ID,
			Email: g.Email,
			Label: GuestOptionLabel(g.FullName, g.Email),
		})
	}
	identity := make([]GuestOption, 0, len(s.identity))
	for _, u := range s.identity {
		identity = append(identity, GuestOption{
			ID:    u.ID,
			Email: u.Email,
			Label: GuestOptionLabel(u.FullName, u.Email),
		})
	}
	return MergeGuestOptions(directory, identity)
}

// DraftView is a consistent snapshot of a session for the HTTP surface.
// The *Loaded flags let clients disable individual controls while their
// backing list is still outstanding.
type DraftView struct {
	ID             uuid.UUID         `json:"id"`
	State          DraftState        `json:"state"`
	EditTarget     *uint             `json:"editTarget,omitempty"`
	Draft          BookingDraft      `json:"draft"`
	CabinOptions   []CabinOption     `json:"cabinOptions"`
	GuestOptions   []GuestOption     `json:"guestOptions"`
	CabinsLoaded   bool              `json:"cabinsLoaded"`
	GuestsLoaded   bool              `json:"guestsLoaded"`
	SettingsLoaded bool              `json:"settingsLoaded"`
	Submitting     bool              `json:"submitting"`
	LoadErrors     map[string]string `json:"loadErrors,omitempty"`
}

func (s *DraftSession) View() DraftView {
	s.mu.Lock()
	defer s.mu.Unlock()

	cabinOptions := make([]CabinOption, 0, len(s.cabins))
	for _, c := range s.cabins {
		cabinOptions = append(cabinOptions, CabinOption{
			ID:    c.ID,
			Label: fmt.Sprintf("%s (%d guests)", c.Name, c.MaxCapacity),
		})
	}

	var target *uint
	if s.editTarget != nil {
		id := *s.editTarget
		target = &id
	}

	loadErrs := make(map[string]string, len(s.loadErrs))
	for k, v := range s.loadErrs {
		loadErrs[k] = v
	}

	return DraftView{
		ID:             s.ID,
		State:          s.state,
		EditTarget:     target,
		Draft:          s.draft,
		CabinOptions:   cabinOptions,
		GuestOptions:   s.guestOptionsLocked(),
		CabinsLoaded:   s.cabins != nil,
		GuestsLoaded:   s.guests != nil,
		SettingsLoaded: s.settings != nil,
		Submitting:     s.submitting,
		LoadErrors:     loadErrs,
	}
}

package services

import (
	"time"

	"wildoasis-backend/models"
)

// Occupancy cap used while no cabin is selected.
const fallbackMaxCapacity = 10

// BookingDraft is the editable state of one booking form session. NumNights
// and TotalPrice are derived and never set directly by the user.
type BookingDraft struct {
	CabinID      *uint      `json:"cabinId"`
	GuestID      *uint      `json:"guestId"`
	StartDate    *time.Time `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
	NumGuests    int        `json:"numGuests"`
	NumNights    int        `json:"numNights"`
	HasBreakfast bool       `json:"hasBreakfast"`
	IsPaid       bool       `json:"isPaid"`
	Status       string     `json:"status"`
	Observations string     `json:"observations"`
	TotalPrice   float64    `json:"totalPrice"`
}

func newBookingDraft() BookingDraft {
	return BookingDraft{
		NumGuests: 1,
		Status:    models.StatusUnconfirmed,
	}
}

func clampOccupancy(n int, cabin *models.Cabin) int {
	max := fallbackMaxCapacity
	if cabin != nil && cabin.MaxCapacity > 0 {
		max = cabin.MaxCapacity
	}
	if n < 1 {
		return 1
	}
	if n > max {
		return max
	}
	return n
}

// deriveDependentFields recomputes every derived field from the current
// inputs: nights from the dates, occupancy clamped to the selected cabin,
// total price from all of the above. Called after every mutation and data
// arrival so the draft can never carry stale derived values.
func deriveDependentFields(d *BookingDraft, cabin *models.Cabin, settings *models.Setting) {
	d.NumNights = NightsBetween(d.StartDate, d.EndDate)
	d.NumGuests = clampOccupancy(d.NumGuests, cabin)

	breakfastPrice := 0.0
	if settings != nil {
		breakfastPrice = settings.BreakfastPrice
	}
	d.TotalPrice = ComputeTotalPrice(cabin, d.NumNights, d.NumGuests, d.HasBreakfast, breakfastPrice)
}

// Validate checks the draft against the submission invariants: both dates
// present with start >= today and end > start, cabin and guest selected and
// resolvable, and occupancy inside the cabin's capacity. cabin is the outcome
// of looking the selected id up in the catalog; nil with CabinID set means the
// cabin has vanished since seeding (e.g. soft-deleted) and the draft must not
// submit against it. Setters already clamp occupancy, but the cabin can change
// after a manual occupancy edit, so it is rechecked here.
func (d *BookingDraft) Validate(cabin *models.Cabin, today time.Time) []FieldError {
	var errs []FieldError

	switch {
	case d.StartDate == nil || d.EndDate == nil:
		errs = append(errs, FieldError{Field: "startDate", Err: ErrInvalidDateRange})
	case toDay(*d.StartDate).Before(toDay(today)):
		errs = append(errs, FieldError{Field: "startDate", Err: ErrInvalidDateRange})
	case !toDay(*d.EndDate).After(toDay(*d.StartDate)):
		errs = append(errs, FieldError{Field: "endDate", Err: ErrInvalidDateRange})
	}

	if d.CabinID == nil {
		errs = append(errs, FieldError{Field: "cabinId", Err: ErrMissingSelection})
	} else if cabin == nil {
		errs = append(errs, FieldError{Field: "cabinId", Err: ErrUnknownCabin})
	}
	if d.GuestID == nil {
		errs = append(errs, FieldError{Field: "guestId", Err: ErrMissingSelection})
	}

	maxCapacity := fallbackMaxCapacity
	if cabin != nil {
		maxCapacity = cabin.MaxCapacity
	}
	if d.NumGuests < 1 || d.NumGuests > maxCapacity {
		errs = append(errs, FieldError{Field: "numGuests", Err: ErrOccupancyOutOfRange})
	}

	return errs
}

// BookingPayload is the normalized record handed to the persistence gateway.
// Dates are ISO-8601 calendar dates.
type BookingPayload struct {
	CabinID      uint    `json:"cabinId"`
	GuestID      uint    `json:"guestId"`
	StartDate    string  `json:"startDate"`
	EndDate      string  `json:"endDate"`
	NumNights    int     `json:"numNights"`
	NumGuests    int     `json:"numGuests"`
	TotalPrice   float64 `json:"totalPrice"`
	Status       string  `json:"status"`
	HasBreakfast bool    `json:"hasBreakfast"`
	IsPaid       bool    `json:"isPaid"`
	Observations string  `json:"observations"`
}

// payload builds the submission record from an already re-derived draft.
// Validate must have passed: cabin, guest and both dates are set.
func (d *BookingDraft) payload() BookingPayload {
	status := d.Status
	if !models.ValidStatus(status) {
		status = models.StatusUnconfirmed
	}
	return BookingPayload{
		CabinID:      *d.CabinID,
		GuestID:      *d.GuestID,
		StartDate:    toDay(*d.StartDate).Format("2006-01-02"),
		EndDate:      toDay(*d.EndDate).Format("2006-01-02"),
		NumNights:    d.NumNights,
		NumGuests:    d.NumGuests,
		TotalPrice:   d.TotalPrice,
		Status:       status,
		HasBreakfast: d.HasBreakfast,
		IsPaid:       d.IsPaid,
		Observations: d.Observations,
	}
}

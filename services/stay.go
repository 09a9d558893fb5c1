package services

import (
	"math"
	"time"

	"wildoasis-backend/models"
)

// toDay truncates a timestamp to midnight in its own location.
func toDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// NightsBetween returns the number of nights between two calendar dates.
// Either date missing means 0. The ceiling keeps a partial-day difference
// (e.g. across a DST transition) counting as a full night; both dates are
// normalized to midnight before subtracting.
func NightsBetween(start, end *time.Time) int {
	if start == nil || end == nil {
		return 0
	}
	diff := toDay(*end).Sub(toDay(*start))
	nights := int(math.Ceil(diff.Hours() / 24))
	if nights < 0 {
		return 0
	}
	return nights
}

// ComputeTotalPrice prices a stay: discounted nightly cabin rate times nights,
// plus breakfast per guest per night when selected. Occupancy beyond the
// cabin's capacity does not raise the price. No cabin means no price.
func ComputeTotalPrice(cabin *models.Cabin, nights, numGuests int, hasBreakfast bool, breakfastPrice float64) float64 {
	if cabin == nil {
		return 0
	}
	if nights < 0 {
		nights = 0
	}

	rate := cabin.RegularPrice - cabin.Discount
	if rate < 0 {
		rate = 0
	}
	total := rate * float64(nights)

	if hasBreakfast {
		if breakfastPrice < 0 {
			breakfastPrice = 0
		}
		guests := numGuests
		if guests < 0 {
			guests = 0
		}
		if cabin.MaxCapacity > 0 && guests > cabin.MaxCapacity {
			guests = cabin.MaxCapacity
		}
		total += breakfastPrice * float64(nights) * float64(guests)
	}

	if total < 0 {
		return 0
	}
	return total
}

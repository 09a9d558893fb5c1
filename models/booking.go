package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StatusUnconfirmed = "unconfirmed"
	StatusCheckedIn   = "checked-in"
	StatusCheckedOut  = "checked-out"
)

// ValidStatus reports whether s is one of the booking status values.
func ValidStatus(s string) bool {
	switch s {
	case StatusUnconfirmed, StatusCheckedIn, StatusCheckedOut:
		return true
	}
	return false
}

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CabinID uint `gorm:"index;column:cabin_id" json:"cabinId"`
	GuestID uint `gorm:"index;column:guest_id" json:"guestId"`

	// Calendar-day granularity; time-of-day is always midnight.
	StartDate *time.Time `gorm:"column:start_date" json:"startDate,omitempty"`
	EndDate   *time.Time `gorm:"column:end_date" json:"endDate,omitempty"`

	NumNights int `gorm:"column:num_nights" json:"numNights"`
	NumGuests int `gorm:"column:num_guests;default:1" json:"numGuests"`

	TotalPrice   float64 `gorm:"column:total_price" json:"totalPrice"`
	Status       string  `gorm:"column:status;size:32;default:unconfirmed" json:"status"`
	HasBreakfast bool    `gorm:"column:has_breakfast;default:false" json:"hasBreakfast"`
	IsPaid       bool    `gorm:"column:is_paid;default:false" json:"isPaid"`
	Observations string  `gorm:"type:text" json:"observations"`

	// Snapshot of the price components at save time, for audit/display.
	PriceBreakdown datatypes.JSON `gorm:"column:price_breakdown" json:"priceBreakdown,omitempty"`

	Cabin Cabin `gorm:"foreignKey:CabinID;references:ID" json:"cabin,omitempty"`
	Guest Guest `gorm:"foreignKey:GuestID;references:ID" json:"guest,omitempty"`
}

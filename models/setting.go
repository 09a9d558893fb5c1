package models

import "time"

// Setting is a singleton row of hotel-wide booking settings.
type Setting struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BreakfastPrice      float64 `gorm:"column:breakfast_price" json:"breakfastPrice"`
	MinBookingLength    int     `gorm:"column:min_booking_length" json:"minBookingLength"`
	MaxBookingLength    int     `gorm:"column:max_booking_length" json:"maxBookingLength"`
	MaxGuestsPerBooking int     `gorm:"column:max_guests_per_booking" json:"maxGuestsPerBooking"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

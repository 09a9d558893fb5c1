package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	mysql "github.com/go-sql-driver/mysql"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"wildoasis-backend/models"
)

// BookingService is the persistence gateway: it turns normalized submission
// payloads into booking rows and serves the CRUD surface around them.
type BookingService struct {
	DB *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{DB: db}
}

func (s *BookingService) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.DB.WithContext(ctx).Preload("Cabin").Preload("Guest").First(&booking, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, &LoadError{Source: "booking", Err: err}
	}
	return &booking, nil
}

func (s *BookingService) List(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.DB.WithContext(ctx).
		Preload("Cabin").
		Preload("Guest").
		Order("start_date DESC, id DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, &LoadError{Source: "bookings", Err: err}
	}
	return bookings, nil
}

func (s *BookingService) Delete(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.Booking{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// Checkout moves a checked-in booking to checked-out.
func (s *BookingService) Checkout(ctx context.Context, id uint) (*models.Booking, error) {
	booking, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.StatusCheckedIn {
		return nil, fmt.Errorf("booking %d is %s, not %s", id, booking.Status, models.StatusCheckedIn)
	}
	booking.Status = models.StatusCheckedOut
	if err := s.DB.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ?", id).
		Update("status", models.StatusCheckedOut).Error; err != nil {
		return nil, err
	}
	return booking, nil
}

// SubmitCreate persists a new booking from a normalized payload.
func (s *BookingService) SubmitCreate(ctx context.Context, payload BookingPayload) (*models.Booking, error) {
	booking, err := s.bookingFromPayload(ctx, payload)
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Create(booking).Error; err != nil {
		log.Printf("booking create failed: %v", err)
		return nil, &SubmitError{Reason: submitReason(err), Err: err}
	}
	return booking, nil
}

// SubmitUpdate overwrites an existing booking with a normalized payload.
func (s *BookingService) SubmitUpdate(ctx context.Context, id uint, payload BookingPayload) (*models.Booking, error) {
	var existing models.Booking
	if err := s.DB.WithContext(ctx).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &SubmitError{Reason: fmt.Sprintf("booking %d no longer exists", id), Err: err}
		}
		return nil, &SubmitError{Reason: err.Error(), Err: err}
	}

	booking, err := s.bookingFromPayload(ctx, payload)
	if err != nil {
		return nil, err
	}
	booking.ID = id

	// Updates with a map so false/zero fields are written too.
	updates := map[string]interface{}{
		"cabin_id":        booking.CabinID,
		"guest_id":        booking.GuestID,
		"start_date":      booking.StartDate,
		"end_date":        booking.EndDate,
		"num_nights":      booking.NumNights,
		"num_guests":      booking.NumGuests,
		"total_price":     booking.TotalPrice,
		"status":          booking.Status,
		"has_breakfast":   booking.HasBreakfast,
		"is_paid":         booking.IsPaid,
		"observations":    booking.Observations,
		"price_breakdown": booking.PriceBreakdown,
	}
	if err := s.DB.WithContext(ctx).Model(&models.Booking{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		log.Printf("booking update failed: %v", err)
		return nil, &SubmitError{Reason: submitReason(err), Err: err}
	}
	return booking, nil
}

func (s *BookingService) bookingFromPayload(ctx context.Context, payload BookingPayload) (*models.Booking, error) {
	start, err := parseISODate(payload.StartDate)
	if err != nil {
		return nil, &SubmitError{Reason: "invalid start date", Err: err}
	}
	end, err := parseISODate(payload.EndDate)
	if err != nil {
		return nil, &SubmitError{Reason: "invalid end date", Err: err}
	}

	booking := &models.Booking{
		CabinID:      payload.CabinID,
		GuestID:      payload.GuestID,
		StartDate:    &start,
		EndDate:      &end,
		NumNights:    payload.NumNights,
		NumGuests:    payload.NumGuests,
		TotalPrice:   payload.TotalPrice,
		Status:       payload.Status,
		HasBreakfast: payload.HasBreakfast,
		IsPaid:       payload.IsPaid,
		Observations: payload.Observations,
	}
	booking.PriceBreakdown = s.priceBreakdownSnapshot(ctx, payload)
	return booking, nil
}

func parseISODate(value string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", value, time.Local)
}

// priceBreakdownSnapshot records the price components in effect at save time.
// Best-effort: a missing cabin row just leaves the rate fields at zero.
func (s *BookingService) priceBreakdownSnapshot(ctx context.Context, payload BookingPayload) datatypes.JSON {
	snapshot := map[string]interface{}{
		"numNights":  payload.NumNights,
		"numGuests":  payload.NumGuests,
		"totalPrice": payload.TotalPrice,
	}

	var cabin models.Cabin
	if err := s.DB.WithContext(ctx).First(&cabin, payload.CabinID).Error; err == nil {
		rate := cabin.RegularPrice - cabin.Discount
		if rate < 0 {
			rate = 0
		}
		cabinTotal := rate * float64(payload.NumNights)
		snapshot["cabinRate"] = rate
		snapshot["cabinTotal"] = cabinTotal
		snapshot["breakfastTotal"] = payload.TotalPrice - cabinTotal
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

// submitReason maps driver-level errors to a human-readable rejection reason.
func submitReason(err error) string {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1062:
			return "a booking with these details already exists"
		case 1452:
			return "the selected cabin or guest no longer exists"
		}
	}
	return err.Error()
}

package services

import (
	"context"
	"errors"

	"wildoasis-backend/models"

	"gorm.io/gorm"
)

type SettingsService struct {
	DB *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{DB: db}
}

// LoadPricingSettings returns the singleton settings row. A missing row is a
// load failure: the breakfast price is required for correct price derivation.
func (s *SettingsService) LoadPricingSettings(ctx context.Context) (*models.Setting, error) {
	var setting models.Setting
	if err := s.DB.WithContext(ctx).First(&setting).Error; err != nil {
		return nil, &LoadError{Source: "settings", Err: err}
	}
	return &setting, nil
}

// Update writes the settings row, creating it if the seed row was deleted.
func (s *SettingsService) Update(ctx context.Context, in models.Setting) (*models.Setting, error) {
	var setting models.Setting
	err := s.DB.WithContext(ctx).First(&setting).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		setting = models.Setting{}
	}

	setting.BreakfastPrice = in.BreakfastPrice
	setting.MinBookingLength = in.MinBookingLength
	setting.MaxBookingLength = in.MaxBookingLength
	setting.MaxGuestsPerBooking = in.MaxGuestsPerBooking

	if err := s.DB.WithContext(ctx).Save(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

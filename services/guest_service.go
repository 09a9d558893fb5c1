package services

import (
	"context"

	"wildoasis-backend/models"

	"gorm.io/gorm"
)

type GuestService struct {
	DB *gorm.DB
}

func NewGuestService(db *gorm.DB) *GuestService {
	return &GuestService{DB: db}
}

// LoadGuests returns the guest directory, newest first.
func (s *GuestService) LoadGuests(ctx context.Context) ([]models.Guest, error) {
	var guests []models.Guest
	if err := s.DB.WithContext(ctx).Order("id DESC").Find(&guests).Error; err != nil {
		return nil, &LoadError{Source: "guests", Err: err}
	}
	return guests, nil
}

func (s *GuestService) GetByID(ctx context.Context, id uint) (*models.Guest, error) {
	var guest models.Guest
	if err := s.DB.WithContext(ctx).First(&guest, id).Error; err != nil {
		return nil, err
	}
	return &guest, nil
}

func (s *GuestService) Create(ctx context.Context, guest *models.Guest) error {
	return s.DB.WithContext(ctx).Create(guest).Error
}

func (s *GuestService) Update(ctx context.Context, guest *models.Guest) error {
	return s.DB.WithContext(ctx).Model(&models.Guest{}).
		Where("id = ?", guest.ID).
		Updates(map[string]interface{}{
			"full_name":    guest.FullName,
			"email":        guest.Email,
			"nationality":  guest.Nationality,
			"country_flag": guest.CountryFlag,
			"national_id":  guest.NationalID,
		}).Error
}

func (s *GuestService) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Delete(&models.Guest{}, id).Error
}

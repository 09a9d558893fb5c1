package services

import (
	"context"

	"wildoasis-backend/models"

	"gorm.io/gorm"
)

type CabinService struct {
	DB *gorm.DB
}

func NewCabinService(db *gorm.DB) *CabinService {
	return &CabinService{DB: db}
}

// LoadCabins returns the full rentable-unit catalog.
func (s *CabinService) LoadCabins(ctx context.Context) ([]models.Cabin, error) {
	var cabins []models.Cabin
	if err := s.DB.WithContext(ctx).Order("name").Find(&cabins).Error; err != nil {
		return nil, &LoadError{Source: "cabins", Err: err}
	}
	return cabins, nil
}

func (s *CabinService) GetByID(ctx context.Context, id uint) (*models.Cabin, error) {
	var cabin models.Cabin
	if err := s.DB.WithContext(ctx).First(&cabin, id).Error; err != nil {
		return nil, err
	}
	return &cabin, nil
}

func (s *CabinService) Create(ctx context.Context, cabin *models.Cabin) error {
	return s.DB.WithContext(ctx).Create(cabin).Error
}

func (s *CabinService) Update(ctx context.Context, cabin *models.Cabin) error {
	return s.DB.WithContext(ctx).Model(&models.Cabin{}).
		Where("id = ?", cabin.ID).
		Updates(map[string]interface{}{
			"name":          cabin.Name,
			"max_capacity":  cabin.MaxCapacity,
			"regular_price": cabin.RegularPrice,
			"discount":      cabin.Discount,
			"description":   cabin.Description,
			"image":         cabin.Image,
		}).Error
}

func (s *CabinService) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Delete(&models.Cabin{}, id).Error
}

package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"wildoasis-backend/models"
	"wildoasis-backend/services"
	"wildoasis-backend/utils"
)

type SettingsController struct {
	SettingsSvc *services.SettingsService
}

func NewSettingsController(svc *services.SettingsService) *SettingsController {
	return &SettingsController{SettingsSvc: svc}
}

type settingsPayload struct {
	BreakfastPrice      float64 `json:"breakfastPrice" binding:"min=0"`
	MinBookingLength    int     `json:"minBookingLength" binding:"min=0"`
	MaxBookingLength    int     `json:"maxBookingLength" binding:"min=0"`
	MaxGuestsPerBooking int     `json:"maxGuestsPerBooking" binding:"min=0"`
}

// GET /api/settings
func (ctrl *SettingsController) GetSettings(c *gin.Context) {
	setting, err := ctrl.SettingsSvc.LoadPricingSettings(c.Request.Context())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONSuccess(c, http.StatusOK, models.Setting{})
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, setting)
}

// PUT /api/settings
func (ctrl *SettingsController) UpdateSettings(c *gin.Context) {
	var payload settingsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	setting, err := ctrl.SettingsSvc.Update(c.Request.Context(), models.Setting{
		BreakfastPrice:      payload.BreakfastPrice,
		MinBookingLength:    payload.MinBookingLength,
		MaxBookingLength:    payload.MaxBookingLength,
		MaxGuestsPerBooking: payload.MaxGuestsPerBooking,
	})
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, setting)
}

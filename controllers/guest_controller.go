package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"wildoasis-backend/models"
	"wildoasis-backend/services"
	"wildoasis-backend/utils"
)

type GuestController struct {
	GuestSvc *services.GuestService
}

func NewGuestController(svc *services.GuestService) *GuestController {
	return &GuestController{GuestSvc: svc}
}

type guestPayload struct {
	FullName    string `json:"fullName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Nationality string `json:"nationality"`
	CountryFlag string `json:"countryFlag"`
	NationalID  string `json:"nationalID"`
}

// GET /api/guests
func (ctrl *GuestController) GetGuests(c *gin.Context) {
	guests, err := ctrl.GuestSvc.LoadGuests(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, guests)
}

// GET /api/guests/:id
func (ctrl *GuestController) GetGuestByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	guest, err := ctrl.GuestSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(c, http.StatusNotFound, "guest not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, guest)
}

// POST /api/guests
func (ctrl *GuestController) CreateGuest(c *gin.Context) {
	var payload guestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	guest := models.Guest{
		FullName:    strings.TrimSpace(payload.FullName),
		Email:       strings.ToLower(strings.TrimSpace(payload.Email)),
		Nationality: payload.Nationality,
		CountryFlag: payload.CountryFlag,
		NationalID:  payload.NationalID,
	}
	if err := ctrl.GuestSvc.Create(c.Request.Context(), &guest); err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			utils.JSONError(c, http.StatusConflict, "a guest with this email already exists")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, guest)
}

// PUT /api/guests/:id
func (ctrl *GuestController) UpdateGuest(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var payload guestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	guest, err := ctrl.GuestSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(c, http.StatusNotFound, "guest not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}

	guest.FullName = strings.TrimSpace(payload.FullName)
	guest.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	guest.Nationality = payload.Nationality
	guest.CountryFlag = payload.CountryFlag
	guest.NationalID = payload.NationalID

	if err := ctrl.GuestSvc.Update(c.Request.Context(), guest); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, guest)
}

// DELETE /api/guests/:id
func (ctrl *GuestController) DeleteGuest(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := ctrl.GuestSvc.Delete(c.Request.Context(), id); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": true})
}

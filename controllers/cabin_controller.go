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

type CabinController struct {
	CabinSvc *services.CabinService
}

func NewCabinController(svc *services.CabinService) *CabinController {
	return &CabinController{CabinSvc: svc}
}

type cabinPayload struct {
	Name         string  `json:"name" binding:"required"`
	MaxCapacity  int     `json:"maxCapacity" binding:"required,min=1"`
	RegularPrice float64 `json:"regularPrice" binding:"min=0"`
	Discount     float64 `json:"discount" binding:"min=0"`
	Description  string  `json:"description"`
	Image        string  `json:"image"`
}

func (p *cabinPayload) check() string {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return "cabin name is required"
	}
	if p.Discount > p.RegularPrice {
		return "discount cannot exceed the regular price"
	}
	return ""
}

// GET /api/cabins
func (ctrl *CabinController) GetCabins(c *gin.Context) {
	cabins, err := ctrl.CabinSvc.LoadCabins(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, cabins)
}

// GET /api/cabins/:id
func (ctrl *CabinController) GetCabinByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	cabin, err := ctrl.CabinSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(c, http.StatusNotFound, "cabin not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, cabin)
}

// POST /api/cabins
func (ctrl *CabinController) CreateCabin(c *gin.Context) {
	var payload cabinPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	if msg := payload.check(); msg != "" {
		utils.JSONError(c, http.StatusBadRequest, msg)
		return
	}

	cabin := models.Cabin{
		Name:         payload.Name,
		MaxCapacity:  payload.MaxCapacity,
		RegularPrice: payload.RegularPrice,
		Discount:     payload.Discount,
		Description:  payload.Description,
		Image:        payload.Image,
	}
	if err := ctrl.CabinSvc.Create(c.Request.Context(), &cabin); err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			utils.JSONError(c, http.StatusConflict, "a cabin with this name already exists")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, cabin)
}

// PUT /api/cabins/:id
func (ctrl *CabinController) UpdateCabin(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var payload cabinPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	if msg := payload.check(); msg != "" {
		utils.JSONError(c, http.StatusBadRequest, msg)
		return
	}

	cabin, err := ctrl.CabinSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(c, http.StatusNotFound, "cabin not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}

	cabin.Name = payload.Name
	cabin.MaxCapacity = payload.MaxCapacity
	cabin.RegularPrice = payload.RegularPrice
	cabin.Discount = payload.Discount
	cabin.Description = payload.Description
	cabin.Image = payload.Image

	if err := ctrl.CabinSvc.Update(c.Request.Context(), cabin); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, cabin)
}

// DELETE /api/cabins/:id
func (ctrl *CabinController) DeleteCabin(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := ctrl.CabinSvc.Delete(c.Request.Context(), id); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": true})
}

package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"wildoasis-backend/services"
	"wildoasis-backend/utils"
)

// DraftController exposes the booking-form sessions over HTTP: open a draft,
// read its state, mutate fields, retarget, submit, cancel.
type DraftController struct {
	Drafts *services.DraftManager
}

func NewDraftController(m *services.DraftManager) *DraftController {
	return &DraftController{Drafts: m}
}

type openDraftRequest struct {
	BookingID *uint `json:"bookingId"`
}

type retargetDraftRequest struct {
	BookingID *uint `json:"bookingId"`
}

// updateDraftRequest carries any subset of the draft's editable fields.
// Dates are ISO calendar dates; status is restricted to the booking enum.
type updateDraftRequest struct {
	CabinID      *uint   `json:"cabinId"`
	GuestID      *uint   `json:"guestId"`
	StartDate    *string `json:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate      *string `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
	NumGuests    *int    `json:"numGuests"`
	HasBreakfast *bool   `json:"hasBreakfast"`
	IsPaid       *bool   `json:"isPaid"`
	Status       *string `json:"status" binding:"omitempty,bookingstatus"`
	Observations *string `json:"observations"`
}

func draftID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid draft id")
		return uuid.UUID{}, false
	}
	return id, true
}

func respondDraftError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrDraftNotFound):
		utils.JSONError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrDraftNotReady),
		errors.Is(err, services.ErrDraftFinished),
		errors.Is(err, services.ErrSubmitInFlight):
		utils.JSONError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrUnknownCabin),
		errors.Is(err, services.ErrUnknownGuest),
		errors.Is(err, services.ErrInvalidStatus):
		utils.JSONError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
	}
}

// POST /api/booking-drafts
func (ctrl *DraftController) OpenDraft(c *gin.Context) {
	var payload openDraftRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			utils.JSONError(c, http.StatusBadRequest, err.Error())
			return
		}
	}
	session := ctrl.Drafts.Open(payload.BookingID)
	utils.JSONSuccess(c, http.StatusCreated, session.View())
}

// GET /api/booking-drafts/:id
func (ctrl *DraftController) GetDraft(c *gin.Context) {
	id, ok := draftID(c)
	if !ok {
		return
	}
	session, err := ctrl.Drafts.Get(id)
	if err != nil {
		respondDraftError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, session.View())
}

// PATCH /api/booking-drafts/:id
func (ctrl *DraftController) UpdateDraft(c *gin.Context) {
	id, ok := draftID(c)
	if !ok {
		return
	}
	session, err := ctrl.Drafts.Get(id)
	if err != nil {
		respondDraftError(c, err)
		return
	}

	var payload updateDraftRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	if payload.StartDate != nil || payload.EndDate != nil {
		current := session.View().Draft
		start, end := current.StartDate, current.EndDate
		if payload.StartDate != nil {
			t, perr := time.ParseInLocation("2006-01-02", *payload.StartDate, time.Local)
			if perr != nil {
				utils.JSONError(c, http.StatusBadRequest, "invalid startDate")
				return
			}
			start = &t
		}
		if payload.EndDate != nil {
			t, perr := time.ParseInLocation("2006-01-02", *payload.EndDate, time.Local)
			if perr != nil {
				utils.JSONError(c, http.StatusBadRequest, "invalid endDate")
				return
			}
			end = &t
		}
		if err := session.SetDates(start, end); err != nil {
			respondDraftError(c, err)
			return
		}
	}

	if payload.CabinID != nil {
		if err := session.SelectCabin(*payload.CabinID); err != nil {
			respondDraftError(c, err)
			return
		}
	}
	if payload.GuestID != nil {
		if err := session.SelectGuest(*payload.GuestID); err != nil {
			respondDraftError(c, err)
			return
		}
	}
	if payload.NumGuests != nil {
		if err := session.SetNumGuests(*payload.NumGuests); err != nil {
			respondDraftError(c, err)
			return
		}
	}
	if payload.HasBreakfast != nil {
		if err := session.SetBreakfast(*payload.HasBreakfast); err != nil {
			respondDraftError(c, err)
			return
		}
	}
	if payload.IsPaid != nil {
		if err := session.SetPaid(*payload.IsPaid); err != nil {
			respondDraftError(c, err)
			return
		}
	}
	if payload.Status != nil {
		if err := session.SetStatus(*payload.Status); err != nil {
			respondDraftError(c, err)
			return
		}
	}
	if payload.Observations != nil {
		if err := session.SetObservations(*payload.Observations); err != nil {
			respondDraftError(c, err)
			return
		}
	}

	utils.JSONSuccess(c, http.StatusOK, session.View())
}

// PUT /api/booking-drafts/:id/target
func (ctrl *DraftController) RetargetDraft(c *gin.Context) {
	id, ok := draftID(c)
	if !ok {
		return
	}
	var payload retargetDraftRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			utils.JSONError(c, http.StatusBadRequest, err.Error())
			return
		}
	}
	if err := ctrl.Drafts.ChangeEditTarget(id, payload.BookingID); err != nil {
		respondDraftError(c, err)
		return
	}
	session, err := ctrl.Drafts.Get(id)
	if err != nil {
		respondDraftError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, session.View())
}

// POST /api/booking-drafts/:id/submit
func (ctrl *DraftController) SubmitDraft(c *gin.Context) {
	id, ok := draftID(c)
	if !ok {
		return
	}
	booking, fieldErrs, err := ctrl.Drafts.Submit(c.Request.Context(), id)
	if err != nil {
		var submitErr *services.SubmitError
		if errors.As(err, &submitErr) {
			// Remote rejection: surfaced verbatim, draft kept for retry.
			utils.JSONError(c, http.StatusBadGateway, submitErr.Reason)
			return
		}
		respondDraftError(c, err)
		return
	}
	if len(fieldErrs) > 0 {
		fields := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			if _, exists := fields[fe.Field]; !exists {
				fields[fe.Field] = fe.Err.Error()
			}
		}
		utils.JSONFieldErrors(c, http.StatusUnprocessableEntity, fields)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// DELETE /api/booking-drafts/:id
func (ctrl *DraftController) CancelDraft(c *gin.Context) {
	id, ok := draftID(c)
	if !ok {
		return
	}
	if err := ctrl.Drafts.Cancel(id); err != nil {
		respondDraftError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"cancelled": true})
}

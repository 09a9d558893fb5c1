package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wildoasis-backend/models"
	"wildoasis-backend/services"

	"gorm.io/gorm"
)

// fakeBackend implements every reference loader plus the booking store in memory.
type fakeBackend struct {
	mu       sync.Mutex
	bookings map[uint]*models.Booking
	created  []services.BookingPayload
	nextID   uint
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{bookings: make(map[uint]*models.Booking), nextID: 100}
}

func (f *fakeBackend) LoadCabins(context.Context) ([]models.Cabin, error) {
	return []models.Cabin{
		{Model: gorm.Model{ID: 1}, Name: "001", MaxCapacity: 2, RegularPrice: 100, Discount: 20},
		{Model: gorm.Model{ID: 2}, Name: "002", MaxCapacity: 6, RegularPrice: 400},
	}, nil
}

func (f *fakeBackend) LoadGuests(context.Context) ([]models.Guest, error) {
	return []models.Guest{
		{ID: 7, FullName: "Jonas", Email: "jonas@example.com"},
	}, nil
}

func (f *fakeBackend) LoadIdentityUsers(context.Context) ([]services.IdentityUser, error) {
	return []services.IdentityUser{}, nil
}

func (f *fakeBackend) LoadPricingSettings(context.Context) (*models.Setting, error) {
	return &models.Setting{ID: 1, BreakfastPrice: 10}, nil
}

func (f *fakeBackend) GetBooking(_ context.Context, id uint) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.bookings[id]; ok {
		return b, nil
	}
	return nil, services.ErrBookingNotFound
}

func (f *fakeBackend) SubmitCreate(_ context.Context, payload services.BookingPayload) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, payload)
	f.nextID++
	return &models.Booking{ID: f.nextID, CabinID: payload.CabinID, GuestID: payload.GuestID}, nil
}

func (f *fakeBackend) SubmitUpdate(_ context.Context, id uint, payload services.BookingPayload) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &models.Booking{ID: id, CabinID: payload.CabinID, GuestID: payload.GuestID}, nil
}

func setupTestRouter(backend *fakeBackend) *gin.Engine {
	gin.SetMode(gin.TestMode)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("bookingstatus", func(fl validator.FieldLevel) bool {
			return models.ValidStatus(fl.Field().String())
		})
	}

	manager := services.NewDraftManager(backend, backend, backend, backend, backend)
	dc := NewDraftController(manager)

	r := gin.New()
	drafts := r.Group("/api/booking-drafts")
	drafts.POST("", dc.OpenDraft)
	drafts.GET("/:id", dc.GetDraft)
	drafts.PATCH("/:id", dc.UpdateDraft)
	drafts.PUT("/:id/target", dc.RetargetDraft)
	drafts.POST("/:id/submit", dc.SubmitDraft)
	drafts.DELETE("/:id", dc.CancelDraft)
	return r
}

type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Errors  map[string]string `json:"errors"`
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func decodeView(t *testing.T, env envelope) services.DraftView {
	t.Helper()
	var view services.DraftView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	return view
}

func openDraft(t *testing.T, router *gin.Engine) services.DraftView {
	t.Helper()
	rec, env := doJSON(t, router, http.MethodPost, "/api/booking-drafts", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	view := decodeView(t, env)

	// Reference loads run async; wait for the selects to become usable.
	require.Eventually(t, func() bool {
		rec, env := doJSON(t, router, http.MethodGet, "/api/booking-drafts/"+view.ID.String(), nil)
		if rec.Code != http.StatusOK {
			return false
		}
		v := decodeView(t, env)
		return v.CabinsLoaded && v.GuestsLoaded && v.SettingsLoaded
	}, time.Second, 5*time.Millisecond)

	return view
}

func TestOpenAndGetDraft(t *testing.T) {
	router := setupTestRouter(newFakeBackend())
	view := openDraft(t, router)

	assert.Equal(t, services.StateReady, view.State)
	assert.Equal(t, 1, view.Draft.NumGuests)

	rec, _ := doJSON(t, router, http.MethodGet, "/api/booking-drafts/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUnknownDraft(t *testing.T) {
	router := setupTestRouter(newFakeBackend())
	rec, _ := doJSON(t, router, http.MethodGet, "/api/booking-drafts/6a06ba39-8c0e-4a36-9b2f-24e98a4c0c2e", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPatchDerivesNightsAndPrice(t *testing.T) {
	router := setupTestRouter(newFakeBackend())
	view := openDraft(t, router)

	start := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	end := time.Now().AddDate(0, 0, 4).Format("2006-01-02")

	rec, env := doJSON(t, router, http.MethodPatch, "/api/booking-drafts/"+view.ID.String(), gin.H{
		"cabinId":      1,
		"guestId":      7,
		"startDate":    start,
		"endDate":      end,
		"numGuests":    5,
		"hasBreakfast": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	updated := decodeView(t, env)
	assert.Equal(t, 3, updated.Draft.NumNights)
	assert.Equal(t, 2, updated.Draft.NumGuests) // clamped to cabin capacity
	assert.Equal(t, 300.0, updated.Draft.TotalPrice)
}

func TestPatchRejectsBadStatus(t *testing.T) {
	router := setupTestRouter(newFakeBackend())
	view := openDraft(t, router)

	rec, _ := doJSON(t, router, http.MethodPatch, "/api/booking-drafts/"+view.ID.String(), gin.H{
		"status": "nonsense",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPatchUnknownCabin(t *testing.T) {
	router := setupTestRouter(newFakeBackend())
	view := openDraft(t, router)

	rec, env := doJSON(t, router, http.MethodPatch, "/api/booking-drafts/"+view.ID.String(), gin.H{
		"cabinId": 99,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Error, "cabin_not_found")
}

func TestSubmitValidationErrorsInline(t *testing.T) {
	router := setupTestRouter(newFakeBackend())
	view := openDraft(t, router)

	rec, env := doJSON(t, router, http.MethodPost, "/api/booking-drafts/"+view.ID.String()+"/submit", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "missing_selection", env.Errors["cabinId"])
	assert.Equal(t, "missing_selection", env.Errors["guestId"])
	assert.Equal(t, "invalid_date_range", env.Errors["startDate"])

	// Draft survives the failed submit.
	rec, _ = doJSON(t, router, http.MethodGet, "/api/booking-drafts/"+view.ID.String(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSubmitHappyPath(t *testing.T) {
	backend := newFakeBackend()
	router := setupTestRouter(backend)
	view := openDraft(t, router)

	start := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	end := time.Now().AddDate(0, 0, 4).Format("2006-01-02")

	rec, _ := doJSON(t, router, http.MethodPatch, "/api/booking-drafts/"+view.ID.String(), gin.H{
		"cabinId":   1,
		"guestId":   7,
		"startDate": start,
		"endDate":   end,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := doJSON(t, router, http.MethodPost, "/api/booking-drafts/"+view.ID.String()+"/submit", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var booking models.Booking
	require.NoError(t, json.Unmarshal(env.Data, &booking))
	assert.Equal(t, uint(1), booking.CabinID)

	backend.mu.Lock()
	require.Len(t, backend.created, 1)
	assert.Equal(t, 3, backend.created[0].NumNights)
	backend.mu.Unlock()

	// Submission is terminal; the session is gone.
	rec, _ = doJSON(t, router, http.MethodGet, "/api/booking-drafts/"+view.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRetargetDraft(t *testing.T) {
	backend := newFakeBackend()
	target := uint(42)
	startDate := time.Date(2026, 10, 1, 0, 0, 0, 0, time.Local)
	endDate := time.Date(2026, 10, 4, 0, 0, 0, 0, time.Local)
	backend.bookings[target] = &models.Booking{
		ID: target, CabinID: 2, GuestID: 7, NumGuests: 4,
		StartDate: &startDate, EndDate: &endDate,
	}
	router := setupTestRouter(backend)
	view := openDraft(t, router)

	rec, _ := doJSON(t, router, http.MethodPut, "/api/booking-drafts/"+view.ID.String()+"/target", gin.H{
		"bookingId": target,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	require.Eventually(t, func() bool {
		rec, env := doJSON(t, router, http.MethodGet, "/api/booking-drafts/"+view.ID.String(), nil)
		if rec.Code != http.StatusOK {
			return false
		}
		v := decodeView(t, env)
		return v.State == services.StateReady && v.Draft.CabinID != nil && *v.Draft.CabinID == 2
	}, time.Second, 5*time.Millisecond)
}

func TestCancelDraft(t *testing.T) {
	router := setupTestRouter(newFakeBackend())
	view := openDraft(t, router)

	rec, _ := doJSON(t, router, http.MethodDelete, "/api/booking-drafts/"+view.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, router, http.MethodGet, "/api/booking-drafts/"+view.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

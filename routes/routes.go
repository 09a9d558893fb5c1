package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"wildoasis-backend/controllers"
	"wildoasis-backend/middleware"
	"wildoasis-backend/models"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("bookingstatus", func(fl validator.FieldLevel) bool {
			return models.ValidStatus(fl.Field().String())
		})
	}
}

func SetupRouter(
	dc *controllers.DraftController,
	bc *controllers.BookingController,
	cc *controllers.CabinController,
	gc *controllers.GuestController,
	sc *controllers.SettingsController,
) *gin.Engine {
	registerValidations()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		drafts := api.Group("/booking-drafts")
		{
			drafts.POST("", dc.OpenDraft)
			drafts.GET("/:id", dc.GetDraft)
			drafts.PATCH("/:id", dc.UpdateDraft)
			drafts.PUT("/:id/target", dc.RetargetDraft)
			drafts.POST("/:id/submit", dc.SubmitDraft)
			drafts.DELETE("/:id", dc.CancelDraft)
		}

		bookings := api.Group("/bookings")
		{
			bookings.GET("", bc.GetBookings)
			bookings.GET("/:id", bc.GetBookingByID)
			bookings.DELETE("/:id", bc.DeleteBooking)
			bookings.POST("/:id/checkout", bc.CheckoutBooking)
		}

		cabins := api.Group("/cabins")
		{
			cabins.GET("", cc.GetCabins)
			cabins.GET("/:id", cc.GetCabinByID)
			cabins.POST("", cc.CreateCabin)
			cabins.PUT("/:id", cc.UpdateCabin)
			cabins.DELETE("/:id", cc.DeleteCabin)
		}

		guests := api.Group("/guests")
		{
			guests.GET("", gc.GetGuests)
			guests.GET("/:id", gc.GetGuestByID)
			guests.POST("", gc.CreateGuest)
			guests.PUT("/:id", gc.UpdateGuest)
			guests.DELETE("/:id", gc.DeleteGuest)
		}

		settings := api.Group("/settings")
		{
			settings.GET("", sc.GetSettings)
			settings.PUT("", sc.UpdateSettings)
		}
	}

	return r
}

package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"wildoasis-backend/models"
	"wildoasis-backend/utils"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := utils.EnvOrDefault("DB_USER", "root")
	pass := utils.EnvOrDefault("DB_PASS", "")
	host := utils.EnvOrDefault("DB_HOST", "127.0.0.1")
	port := utils.EnvOrDefault("DB_PORT", "3306")
	dbName := utils.EnvOrDefault("DB_NAME", "wildoasis_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

// SeedDatabase ensures the singleton settings row and a starter cabin
// catalog exist. Idempotent.
func SeedDatabase() {
	var settingCount int64
	DB.Model(&models.Setting{}).Count(&settingCount)
	if settingCount == 0 {
		setting := models.Setting{
			BreakfastPrice:      15,
			MinBookingLength:    3,
			MaxBookingLength:    90,
			MaxGuestsPerBooking: 10,
		}
		if err := DB.Create(&setting).Error; err != nil {
			log.Printf("warning: failed to seed settings: %v", err)
		} else {
			log.Println("Default settings seeded")
		}
	}

	var cabinCount int64
	DB.Model(&models.Cabin{}).Count(&cabinCount)
	if cabinCount == 0 {
		cabins := []models.Cabin{
			{Name: "001", MaxCapacity: 2, RegularPrice: 250, Discount: 0, Description: "Small luxury cabin in the woods"},
			{Name: "002", MaxCapacity: 2, RegularPrice: 350, Discount: 25, Description: "Cozy cabin for couples"},
			{Name: "003", MaxCapacity: 4, RegularPrice: 300, Discount: 0, Description: "Comfortable cabin for a small family"},
			{Name: "004", MaxCapacity: 4, RegularPrice: 500, Discount: 50, Description: "Luxury cabin with mountain view"},
			{Name: "005", MaxCapacity: 6, RegularPrice: 350, Discount: 0, Description: "Spacious cabin for a group"},
			{Name: "006", MaxCapacity: 6, RegularPrice: 800, Discount: 100, Description: "Premium cabin with a private deck"},
			{Name: "007", MaxCapacity: 8, RegularPrice: 600, Discount: 100, Description: "Family cabin with bunk beds"},
			{Name: "008", MaxCapacity: 10, RegularPrice: 1400, Discount: 0, Description: "The presidential cabin"},
		}
		if err := DB.Create(&cabins).Error; err != nil {
			log.Printf("warning: failed to seed cabins: %v", err)
		} else {
			log.Println("Cabin catalog seeded")
		}
	}
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	if err := DB.AutoMigrate(
		&models.Setting{},
		&models.Cabin{},
		&models.Guest{},
		&models.Booking{},
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}

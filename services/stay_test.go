package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"wildoasis-backend/models"

	"gorm.io/gorm"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	return &t
}

func TestNightsBetween(t *testing.T) {
	tests := []struct {
		name  string
		start *time.Time
		end   *time.Time
		want  int
	}{
		{"three nights", date(2024, 1, 1), date(2024, 1, 4), 3},
		{"one night", date(2024, 1, 1), date(2024, 1, 2), 1},
		{"same day", date(2024, 1, 1), date(2024, 1, 1), 0},
		{"end before start", date(2024, 1, 4), date(2024, 1, 1), 0},
		{"missing start", nil, date(2024, 1, 4), 0},
		{"missing end", date(2024, 1, 1), nil, 0},
		{"both missing", nil, nil, 0},
		{"across month boundary", date(2024, 1, 30), date(2024, 2, 2), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NightsBetween(tt.start, tt.end))
		})
	}
}

func TestNightsBetweenIgnoresTimeOfDay(t *testing.T) {
	// A 23h or 25h day (DST transitions) must still count as one full night:
	// both ends are normalized to midnight before subtracting, and any
	// partial-day remainder rounds up.
	start := time.Date(2024, 3, 10, 18, 30, 0, 0, time.Local)
	end := time.Date(2024, 3, 12, 7, 0, 0, 0, time.Local)
	assert.Equal(t, 2, NightsBetween(&start, &end))
}

func testCabin(id uint, capacity int, price, discount float64) *models.Cabin {
	return &models.Cabin{
		Model:        gorm.Model{ID: id},
		Name:         "cabin",
		MaxCapacity:  capacity,
		RegularPrice: price,
		Discount:     discount,
	}
}

func TestComputeTotalPriceScenario(t *testing.T) {
	// Base 100, discount 20, capacity 2; 3 nights; 5 guests requested but
	// only 2 fit; breakfast at 10/guest/night: (100-20)*3 + 10*3*2 = 300.
	cabin := testCabin(1, 2, 100, 20)
	got := ComputeTotalPrice(cabin, 3, 5, true, 10)
	assert.Equal(t, 300.0, got)
}

func TestComputeTotalPrice(t *testing.T) {
	cabin := testCabin(1, 4, 200, 50)

	t.Run("no cabin means no price", func(t *testing.T) {
		assert.Equal(t, 0.0, ComputeTotalPrice(nil, 3, 2, true, 10))
	})

	t.Run("no breakfast", func(t *testing.T) {
		assert.Equal(t, 450.0, ComputeTotalPrice(cabin, 3, 2, false, 10))
	})

	t.Run("zero nights", func(t *testing.T) {
		assert.Equal(t, 0.0, ComputeTotalPrice(cabin, 0, 2, true, 10))
	})

	t.Run("negative nights clamped", func(t *testing.T) {
		assert.Equal(t, 0.0, ComputeTotalPrice(cabin, -2, 2, true, 10))
	})

	t.Run("discount above price clamps rate to zero", func(t *testing.T) {
		overDiscounted := testCabin(2, 2, 100, 150)
		assert.Equal(t, 0.0, ComputeTotalPrice(overDiscounted, 3, 1, false, 0))
	})

	t.Run("zero occupancy prices no breakfast", func(t *testing.T) {
		assert.Equal(t, 450.0, ComputeTotalPrice(cabin, 3, 0, true, 10))
	})

	t.Run("negative occupancy prices no breakfast", func(t *testing.T) {
		assert.Equal(t, 450.0, ComputeTotalPrice(cabin, 3, -1, true, 10))
	})
}

func TestComputeTotalPriceMonotonicity(t *testing.T) {
	cabin := testCabin(1, 4, 120, 20)

	t.Run("non-decreasing in nights", func(t *testing.T) {
		prev := -1.0
		for n := 0; n <= 10; n++ {
			total := ComputeTotalPrice(cabin, n, 2, true, 15)
			assert.GreaterOrEqual(t, total, prev, "nights=%d", n)
			prev = total
		}
	})

	t.Run("non-decreasing in occupancy up to capacity", func(t *testing.T) {
		prev := -1.0
		for g := 0; g <= cabin.MaxCapacity; g++ {
			total := ComputeTotalPrice(cabin, 3, g, true, 15)
			assert.GreaterOrEqual(t, total, prev, "guests=%d", g)
			prev = total
		}
	})

	t.Run("unaffected beyond capacity", func(t *testing.T) {
		atCap := ComputeTotalPrice(cabin, 3, cabin.MaxCapacity, true, 15)
		for g := cabin.MaxCapacity + 1; g <= cabin.MaxCapacity+5; g++ {
			assert.Equal(t, atCap, ComputeTotalPrice(cabin, 3, g, true, 15), "guests=%d", g)
		}
	})
}

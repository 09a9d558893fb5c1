package models

import (
	"gorm.io/gorm"
)

type Cabin struct {
	gorm.Model

	Name         string  `json:"name" gorm:"column:name;uniqueIndex;type:varchar(100)"`
	MaxCapacity  int     `json:"maxCapacity" gorm:"column:max_capacity"`
	RegularPrice float64 `json:"regularPrice" gorm:"column:regular_price"`
	Discount     float64 `json:"discount" gorm:"column:discount"`
	Description  string  `json:"description" gorm:"type:text"`
	Image        string  `json:"image" gorm:"type:varchar(255)"`
}

package models

import (
	"time"
)

type Guest struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	FullName string `json:"fullName"`

	// Email is the dedup key when merging with identity-provider users.
	Email string `json:"email" gorm:"uniqueIndex;type:varchar(150)"`

	Nationality string `json:"nationality"`
	CountryFlag string `json:"countryFlag"`
	NationalID  string `json:"nationalID" gorm:"column:national_id;type:varchar(64)"`
}

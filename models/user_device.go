package models

import (
	"time"

	"gorm.io/gorm"
)

type UserDevice struct {
	gorm.Model
	UserID      string `gorm:"type:varchar(64);index;not null"`
	Platform    string // "android" | "ios"
	TokenHash   string `gorm:"type:varchar(64);index"`
	EndpointARN string
	Enabled     bool `gorm:"default:true"`
	UpdatedAt   time.Time
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// LoginRecord is one successful sign-in.
type LoginRecord struct {
	Base
	UserID    uuid.UUID `json:"userId" gorm:"type:char(36);not null;index"`
	IPAddress string    `json:"ipAddress" gorm:"size:64"`
	Device    string    `json:"device" gorm:"size:512"`
	Timestamp time.Time `json:"timestamp" gorm:"not null;index"`
}

package models

import "time"

type Newsletter struct {
	Base
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	IsSubscribed bool      `json:"isSubscribed" gorm:"default:true"`
	SubscribedAt time.Time `json:"subscribedAt"`
}

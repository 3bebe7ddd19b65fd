package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the identity and timestamps shared by every entity.
type Base struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// StoredFile references an object kept in the external object store.
type StoredFile struct {
	Filename   string     `json:"filename,omitempty"`
	StorageKey string     `json:"storageKey,omitempty"`
	URL        string     `json:"downloadURL,omitempty"`
	UploadedAt *time.Time `json:"uploadedAt,omitempty"`
}

func (f StoredFile) IsEmpty() bool {
	return f.StorageKey == "" && f.URL == ""
}

// Transcript is an academic record uploaded to a user's profile.
type Transcript struct {
	ID          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	StorageKey  string    `json:"storageKey"`
	URL         string    `json:"downloadURL"`
	Description string    `json:"description"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// Document is a pre-uploaded file attached to an application.
type Document struct {
	Name       string    `json:"name" validate:"required,max=255"`
	StorageKey string    `json:"storageKey" validate:"required"`
	URL        string    `json:"url" validate:"required,url"`
	Size       int64     `json:"size" validate:"gte=0"`
	Type       string    `json:"type"`
	UploadedAt time.Time `json:"uploadedAt"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var (
	Genders = []string{"Male", "Female", "Other"}
	Races   = []string{"African", "Coloured", "Indian", "White", "Other"}
)

type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	Province   string `json:"province,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
}

type Education struct {
	Institution    string  `json:"institution,omitempty"`
	Qualification  string  `json:"qualification,omitempty"`
	FieldOfStudy   string  `json:"fieldOfStudy,omitempty"`
	YearOfStudy    int     `json:"yearOfStudy,omitempty"`
	GraduationYear int     `json:"graduationYear,omitempty"`
	AverageMarks   float64 `json:"averageMarks,omitempty"`
}

// User is an account of the portal. Applications are never stored on the
// row; ApplicationIDs is filled from the applications table when needed.
type User struct {
	Base
	FirstName     string                            `json:"firstName" gorm:"size:50;not null"`
	LastName      string                            `json:"lastName" gorm:"size:50;not null"`
	Email         string                            `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Password      string                            `json:"-" gorm:"not null"`
	Phone         string                            `json:"phone,omitempty"`
	DateOfBirth   *time.Time                        `json:"dateOfBirth,omitempty"`
	IDNumber      string                            `json:"idNumber,omitempty"`
	Gender        string                            `json:"gender,omitempty"`
	Race          string                            `json:"race,omitempty"`
	Address       Address                           `json:"address" gorm:"embedded;embeddedPrefix:address_"`
	Education     Education                         `json:"education" gorm:"embedded;embeddedPrefix:education_"`
	Skills        datatypes.JSONSlice[string]       `json:"skills"`
	Resume        StoredFile                        `json:"resume" gorm:"embedded;embeddedPrefix:resume_"`
	ProfilePhoto  StoredFile                        `json:"profilePhoto" gorm:"embedded;embeddedPrefix:profile_photo_"`
	Transcripts   datatypes.JSONSlice[Transcript]   `json:"transcripts"`
	IsAdmin       bool                              `json:"isAdmin" gorm:"default:false"`
	EmailVerified bool                              `json:"emailVerified" gorm:"default:false"`

	ApplicationIDs []uuid.UUID `json:"applications,omitempty" gorm:"-"`
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

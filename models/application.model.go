package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Status string

const (
	StatusPending     Status = "Pending"
	StatusUnderReview Status = "Under Review"
	StatusShortlisted Status = "Shortlisted"
	StatusRejected    Status = "Rejected"
	StatusAccepted    Status = "Accepted"
)

var Statuses = []Status{StatusPending, StatusUnderReview, StatusShortlisted, StatusRejected, StatusAccepted}

var transitions = map[Status][]Status{
	StatusPending:     {StatusUnderReview, StatusShortlisted, StatusRejected, StatusAccepted},
	StatusUnderReview: {StatusShortlisted, StatusRejected, StatusAccepted},
	StatusShortlisted: {StatusRejected, StatusAccepted},
}

func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusAccepted
}

// CanTransitionTo reports whether an administrator may move an application
// from s to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Answer struct {
	Question string `json:"question" validate:"max=1000"`
	Answer   string `json:"answer" validate:"max=5000"`
}

// Application is a user's submission against one opportunity. The pair
// (ApplicantID, OpportunityID) is unique at the storage level.
type Application struct {
	Base
	ApplicantID     uuid.UUID                     `json:"applicantId" gorm:"type:char(36);not null;uniqueIndex:idx_application_applicant_opportunity"`
	Applicant       *User                         `json:"applicant,omitempty" gorm:"foreignKey:ApplicantID"`
	OpportunityID   uuid.UUID                     `json:"opportunityId" gorm:"type:char(36);not null;uniqueIndex:idx_application_applicant_opportunity;index"`
	Opportunity     *Opportunity                  `json:"opportunity,omitempty" gorm:"foreignKey:OpportunityID"`
	Status          Status                        `json:"status" gorm:"size:20;not null;default:'Pending';index"`
	ApplicationDate time.Time                     `json:"applicationDate" gorm:"not null;index"`
	Answers         datatypes.JSONSlice[Answer]   `json:"answers"`
	Documents       datatypes.JSONSlice[Document] `json:"documents"`
	Notes           string                        `json:"notes,omitempty" gorm:"type:text"`
}

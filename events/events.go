// Package events holds the topics and payloads published on the event bus.
package events

import (
	"time"

	"portal/models"

	"github.com/google/uuid"
)

var (
	ApplicationSubmittedTopic     = "application:submitted"
	ApplicationStatusChangedTopic = "application:status_changed"
	UserRegisteredTopic           = "user:registered"
	DeadlineSoonTopic             = "opportunity:deadline_soon"
)

type ApplicationSubmitted struct {
	ApplicationID    uuid.UUID
	ApplicantEmail   string
	ApplicantName    string
	OpportunityTitle string
	Provider         string
	SubmittedAt      time.Time
}

type ApplicationStatusChanged struct {
	ApplicationID    uuid.UUID
	ApplicantEmail   string
	ApplicantName    string
	OpportunityTitle string
	From             models.Status
	To               models.Status
}

type UserRegistered struct {
	UserID uuid.UUID
	Email  string
	Name   string
}

type DeadlineSoon struct {
	OpportunityID uuid.UUID
	Title         string
	Deadline      time.Time
	DaysLeft      int
	Recipients    []Recipient
}

type Recipient struct {
	Email string
	Name  string
}

package services

import (
	"context"
	"strings"
	"time"

	"portal/apperrors"
	"portal/events"
	"portal/logger"
	"portal/models"
	"portal/repositories"

	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// LoginSource describes where a sign-in came from.
type LoginSource struct {
	IPAddress string
	Device    string
}

type Registration struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Auth checks credentials. Token issuing stays with the HTTP layer.
type Auth struct {
	users      *repositories.Users
	logins     *repositories.Logins
	bus        EventBus.Bus
	adminEmail string
	cost       int
}

func NewAuth(users *repositories.Users, logins *repositories.Logins, bus EventBus.Bus, adminEmail string, cost int) *Auth {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Auth{
		users:      users,
		logins:     logins,
		bus:        bus,
		adminEmail: strings.ToLower(strings.TrimSpace(adminEmail)),
		cost:       cost,
	}
}

func (s *Auth) Register(ctx context.Context, registration Registration) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(registration.Email))
	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, apperrors.Conflict("Email is already registered!")
	case !apperrors.Is(err, apperrors.KindNotFound):
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registration.Password), s.cost)
	if err != nil {
		return nil, apperrors.Internal("hash password", err)
	}

	user := &models.User{
		FirstName: strings.TrimSpace(registration.FirstName),
		LastName:  strings.TrimSpace(registration.LastName),
		Email:     email,
		Password:  string(hashedPassword),
		IsAdmin:   s.adminEmail != "" && email == s.adminEmail,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.bus.Publish(events.UserRegisteredTopic, events.UserRegistered{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.FullName(),
	})
	log.WithField("user_id", user.ID).Info("User registered")
	return user, nil
}

// Login returns the account for valid credentials. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *Auth) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if apperrors.Is(err, apperrors.KindNotFound) {
		return nil, apperrors.Unauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperrors.Unauthorized("Invalid credentials")
	}
	return user, nil
}

// RecordLogin stores a successful sign-in. Failures are logged and
// never block the login itself.
func (s *Auth) RecordLogin(ctx context.Context, userID uuid.UUID, source LoginSource) {
	record := &models.LoginRecord{
		UserID:    userID,
		IPAddress: source.IPAddress,
		Device:    source.Device,
		Timestamp: time.Now().UTC(),
	}
	if err := s.logins.Create(ctx, record); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("Error saving login tracking details: %v", err)
		return
	}
	log.WithFields(log.Fields{"user_id": userID, "ip": source.IPAddress}).Info("User logged in")
}

func (s *Auth) LoginHistory(ctx context.Context, userID uuid.UUID, page, limit int) (*Page[models.LoginRecord], error) {
	page, limit = normalizePage(page, limit)
	records, total, err := s.logins.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}
	return newPage(records, total, page, limit), nil
}

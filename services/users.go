package services

import (
	"context"

	"portal/apperrors"
	"portal/models"
	"portal/repositories"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// UserUpdate is an administrator's change to an account.
type UserUpdate struct {
	ProfileUpdate
	Email         string
	IsAdmin       *bool
	EmailVerified *bool
}

type Users struct {
	users        *repositories.Users
	applications *repositories.Applications
	reconciler   *Reconciler
}

func NewUsers(users *repositories.Users, applications *repositories.Applications, reconciler *Reconciler) *Users {
	return &Users{users: users, applications: applications, reconciler: reconciler}
}

func (s *Users) List(ctx context.Context, search string, page, limit int) (*Page[models.User], error) {
	page, limit = normalizePage(page, limit)
	users, total, err := s.users.List(ctx, search, page, limit)
	if err != nil {
		return nil, err
	}
	return newPage(users, total, page, limit), nil
}

func (s *Users) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.ApplicationIDs, err = s.users.ApplicationIDs(ctx, id); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Users) Update(ctx context.Context, id uuid.UUID, update UserUpdate) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	mergeProfile(user, update.ProfileUpdate)
	if update.Email != "" {
		user.Email = update.Email
	}
	if update.IsAdmin != nil {
		user.IsAdmin = *update.IsAdmin
	}
	if update.EmailVerified != nil {
		user.EmailVerified = *update.EmailVerified
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes the account with its applications and brings the counters
// of the affected opportunities back in line.
func (s *Users) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := s.users.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.reconciler.Resync(ctx, affected)
	log.WithFields(log.Fields{
		"user_id":       id,
		"opportunities": len(affected),
	}).Info("User deleted")
	return nil
}

// Applications lists an account's applications for its owner or an
// administrator.
func (s *Users) Applications(ctx context.Context, id uuid.UUID, requester Requester) ([]models.Application, error) {
	if !requester.CanAccess(id) {
		return nil, apperrors.Forbidden("Not authorized to view these applications")
	}
	return s.applications.ListByApplicant(ctx, id)
}

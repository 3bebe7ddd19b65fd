// Package services holds the portal's business operations. Handlers call
// services; services call repositories and collaborators.
package services

import (
	"time"

	"portal/config"
	"portal/notifications"
	"portal/repositories"
	"portal/storage"
	"portal/utils"

	"github.com/asaskevich/EventBus"
	"gorm.io/gorm"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
	countTTL     = 5 * time.Minute
)

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

func newPage[T any](items []T, total int64, page, limit int) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:       items,
		Total:       total,
		CurrentPage: page,
		TotalPages:  utils.TotalPages(total, limit),
	}
}

// Services wires every service on top of one database handle.
type Services struct {
	Auth          *Auth
	Applications  *Applications
	Opportunities *Opportunities
	Profile       *Profile
	Users         *Users
	Newsletter    *Newsletter
	Admin         *Admin
	Counts        *CountCache
	Reconciler    *Reconciler
	Reminders     *Reminders

	UserRepo *repositories.Users
}

func New(db *gorm.DB, cfg *config.Config, bus EventBus.Bus, mailer notifications.Mailer, store storage.ObjectStore) *Services {
	userRepo := repositories.NewUserRepository(db)
	opportunityRepo := repositories.NewOpportunityRepository(db)
	applicationRepo := repositories.NewApplicationRepository(db)
	newsletterRepo := repositories.NewNewsletterRepository(db)
	loginRepo := repositories.NewLoginRepository(db)

	counts := NewCountCache(applicationRepo, countTTL)
	reconciler := NewReconciler(opportunityRepo, applicationRepo, counts)

	return &Services{
		Auth:          NewAuth(userRepo, loginRepo, bus, cfg.AdminEmail, cfg.SaltRound),
		Applications:  NewApplications(applicationRepo, opportunityRepo, userRepo, counts, bus),
		Opportunities: NewOpportunities(opportunityRepo, counts),
		Profile:       NewProfile(userRepo, store),
		Users:         NewUsers(userRepo, applicationRepo, reconciler),
		Newsletter:    NewNewsletter(newsletterRepo, mailer),
		Admin:         NewAdmin(userRepo, opportunityRepo, applicationRepo, newsletterRepo, counts),
		Counts:        counts,
		Reconciler:    reconciler,
		Reminders:     NewReminders(opportunityRepo, newsletterRepo, bus),
		UserRepo:      userRepo,
	}
}

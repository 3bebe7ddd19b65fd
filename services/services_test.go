package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"portal/config"
	"portal/database"
	"portal/models"
	"portal/storage"

	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeMailer struct {
	mu     sync.Mutex
	sent   []string
	failTo map[string]bool
}

func (m *fakeMailer) Send(_ context.Context, to, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failTo[to] {
		return errors.New("mailbox unavailable")
	}
	m.sent = append(m.sent, to)
	return nil
}

type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	fail    error
	clock   int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (s *fakeStore) Upload(_ context.Context, folder, filename, contentType string, data []byte) (*storage.StoredObject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, s.fail
	}
	s.clock++
	at := time.UnixMilli(s.clock)
	key := storage.ObjectKey(folder, filename, at)
	s.objects[key] = data
	return &storage.StoredObject{
		Filename:    filename,
		Key:         key,
		URL:         "https://storage.googleapis.com/test-bucket/" + key,
		ContentType: contentType,
		Size:        int64(len(data)),
		UploadedAt:  at,
	}, nil
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

type fixture struct {
	db     *gorm.DB
	bus    EventBus.Bus
	mailer *fakeMailer
	store  *fakeStore
	svc    *Services
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := database.OpenTest(t)
	cfg := &config.Config{AdminEmail: "admin@portal.test", SaltRound: bcrypt.MinCost}
	f := &fixture{
		db:     db,
		bus:    EventBus.New(),
		mailer: &fakeMailer{failTo: map[string]bool{}},
		store:  newFakeStore(),
	}
	f.svc = New(db, cfg, f.bus, f.mailer, f.store)
	return f
}

func (f *fixture) user(t *testing.T, email string) *models.User {
	t.Helper()
	user, err := f.svc.Auth.Register(context.Background(), Registration{
		FirstName: "Thandi",
		LastName:  "Mokoena",
		Email:     email,
		Password:  "secret123",
	})
	require.NoError(t, err)
	return user
}

func (f *fixture) opportunity(t *testing.T, title string, deadline time.Time) *models.Opportunity {
	t.Helper()
	opportunity, err := f.svc.Opportunities.Create(context.Background(), OpportunityInput{
		Title:               title,
		Description:         "Full funding for " + title,
		Category:            models.CategoryBursary,
		Field:               "Engineering",
		Provider:            "Sasol",
		Location:            "Johannesburg",
		ApplicationDeadline: deadline,
	})
	require.NoError(t, err)
	return opportunity
}

func (f *fixture) users(t *testing.T, n int) []*models.User {
	t.Helper()
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		users = append(users, f.user(t, fmt.Sprintf("student%d@example.com", i)))
	}
	return users
}

package services

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/isdelr/authkit/internal/auth"
	"github.com/isdelr/authkit/internal/config"
	"github.com/isdelr/authkit/internal/database"
	"github.com/isdelr/authkit/internal/models"
	"github.com/isdelr/authkit/internal/pagination"
)

// fakeDirectory is a map-backed UserDirectory.
type fakeDirectory struct {
	mu        sync.Mutex
	byID      map[string]models.User
	getErr    error
	createErr error
	updateErr error
	updates   int
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{byID: make(map[string]models.User)}
}

func (f *fakeDirectory) GetUserByID(_ context.Context, id string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return models.User{}, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return models.User{}, database.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeDirectory) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return models.User{}, f.getErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, database.ErrUserNotFound
}

func (f *fakeDirectory) CreateUser(_ context.Context, user models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, u := range f.byID {
		if u.Email == user.Email {
			return database.ErrUserAlreadyExists
		}
	}
	f.byID[user.ID] = user
	return nil
}

func (f *fakeDirectory) UpdateUser(_ context.Context, user models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.byID[user.ID]; !ok {
		return database.ErrUserNotFound
	}
	f.byID[user.ID] = user
	f.updates++
	return nil
}

func (f *fakeDirectory) mustGetByEmail(t *testing.T, email string) models.User {
	t.Helper()
	u, err := f.GetUserByEmail(context.Background(), email)
	if err != nil {
		t.Fatalf("user %s not in directory: %v", email, err)
	}
	return u
}

type sentEmail struct {
	to      string
	subject string
	html    string
}

// fakeMailer records messages and optionally fails.
type fakeMailer struct {
	sent []sentEmail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, html string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentEmail{to: to, subject: subject, html: html})
	return nil
}

var tokenInLink = regexp.MustCompile(`token=([A-Za-z0-9_\-.]+)`)

// lastToken extracts the action token from the most recent email.
func (m *fakeMailer) lastToken(t *testing.T) string {
	t.Helper()
	if len(m.sent) == 0 {
		t.Fatal("no email sent")
	}
	match := tokenInLink.FindStringSubmatch(m.sent[len(m.sent)-1].html)
	if match == nil {
		t.Fatal("no token link in email")
	}
	return match[1]
}

// fakeRecorder collects recorded event types.
type fakeRecorder struct {
	types []string
}

func (r *fakeRecorder) Record(_ context.Context, _ string, eventType, _ string) {
	r.types = append(r.types, eventType)
}

// fakeEventStore is an in-memory EventStore.
type fakeEventStore struct {
	events    []models.AccountEvent
	createErr error
	countErr  error
}

func (s *fakeEventStore) CreateEvent(_ context.Context, event models.AccountEvent) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.events = append([]models.AccountEvent{event}, s.events...)
	return nil
}

func (s *fakeEventStore) CountEventsForUser(_ context.Context, userID string) (int, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	return len(s.forUser(userID)), nil
}

func (s *fakeEventStore) ListEventsForUser(_ context.Context, userID string, limit, offset int) ([]models.AccountEvent, error) {
	p := pagination.Paginator{Page: offset/limit + 1, Size: limit}
	return pagination.Slice(p, s.forUser(userID)), nil
}

func (s *fakeEventStore) forUser(userID string) []models.AccountEvent {
	var out []models.AccountEvent
	for _, e := range s.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out
}

func testConfig() *config.Config {
	return &config.Config{
		ProjectName:          "authkit",
		SecretKey:            "test-secret",
		AccessTokenTTL:       time.Hour,
		PasswordResetTTL:     15 * time.Minute,
		EmailVerificationTTL: time.Hour,
		FrontendHost:         "http://localhost:3000",
	}
}

type authFixture struct {
	svc    *AuthService
	users  *fakeDirectory
	mailer *fakeMailer
	events *fakeRecorder
	codec  *auth.TokenCodec
	cfg    *config.Config
}

func newAuthFixture(t *testing.T, mutate ...func(*config.Config)) *authFixture {
	t.Helper()
	cfg := testConfig()
	for _, m := range mutate {
		m(cfg)
	}
	f := &authFixture{
		users:  newFakeDirectory(),
		mailer: &fakeMailer{},
		events: &fakeRecorder{},
		codec:  auth.NewTokenCodec(cfg.SecretKey),
		cfg:    cfg,
	}
	f.svc = NewAuthService(f.users, f.codec, f.mailer, f.events, cfg)
	return f
}

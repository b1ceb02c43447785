package handlers

import (
	"context"
	"errors"

	"github.com/isdelr/authkit/internal/models"
	"github.com/isdelr/authkit/internal/pagination"
)

type fakeAuthService struct {
	err   error
	token models.Token

	calls []string
	args  []string
}

func (f *fakeAuthService) record(op string, args ...string) {
	f.calls = append(f.calls, op)
	f.args = args
}

func (f *fakeAuthService) Register(_ context.Context, email, password string) error {
	f.record("register", email, password)
	return f.err
}

func (f *fakeAuthService) VerifyEmail(_ context.Context, token string) (models.Token, error) {
	f.record("verify", token)
	return f.token, f.err
}

func (f *fakeAuthService) ResendVerificationEmail(_ context.Context, email string) error {
	f.record("resend", email)
	return f.err
}

func (f *fakeAuthService) Login(_ context.Context, email, password string) (models.Token, error) {
	f.record("login", email, password)
	return f.token, f.err
}

func (f *fakeAuthService) RecoverPassword(_ context.Context, email string) error {
	f.record("recover", email)
	return f.err
}

func (f *fakeAuthService) ResetPassword(_ context.Context, token, newPassword string) error {
	f.record("reset", token, newPassword)
	return f.err
}

type fakeUserService struct {
	user models.User
	err  error

	updated []string
}

func (f *fakeUserService) GetUserByID(_ context.Context, id string) (models.User, error) {
	if f.err != nil {
		return models.User{}, f.err
	}
	return f.user, nil
}

func (f *fakeUserService) GetCurrentUser(ctx context.Context, id string) (models.UserProfile, error) {
	user, err := f.GetUserByID(ctx, id)
	if err != nil {
		return models.UserProfile{}, err
	}
	return user.Profile(), nil
}

func (f *fakeUserService) UpdatePassword(_ context.Context, id, currentPassword, newPassword string) error {
	if f.err != nil {
		return f.err
	}
	f.updated = []string{id, currentPassword, newPassword}
	return nil
}

type fakeEventService struct {
	events []models.AccountEvent
	err    error

	gotUser string
	gotPage pagination.Paginator
}

func (f *fakeEventService) Record(context.Context, string, string, string) {}

func (f *fakeEventService) GetEventsForUser(_ context.Context, userID string, p pagination.Paginator) (pagination.Pagination[models.AccountEvent], error) {
	f.gotUser = userID
	f.gotPage = p
	if f.err != nil {
		return pagination.Pagination[models.AccountEvent]{}, f.err
	}
	return pagination.Create(pagination.Slice(p, f.events), len(f.events), p.Page, p.Size), nil
}

type fakePinger struct {
	err error
}

func (f fakePinger) PingContext(context.Context) error {
	return f.err
}

var errBoom = errors.New("boom")

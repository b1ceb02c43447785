package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/authkit/internal/auth"
	"github.com/isdelr/authkit/internal/config"
	"github.com/isdelr/authkit/internal/database"
	"github.com/isdelr/authkit/internal/models"
	"github.com/isdelr/authkit/internal/notify"
)

// AuthServiceProvider defines the interface for the credential lifecycle.
type AuthServiceProvider interface {
	Register(ctx context.Context, email, password string) error
	VerifyEmail(ctx context.Context, token string) (models.Token, error)
	ResendVerificationEmail(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (models.Token, error)
	RecoverPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// AuthService handles registration, email verification, login and password
// recovery.
//
// Side effects are ordered the same way in every flow: state is persisted
// first and the email is sent afterwards. A failed send is returned as a
// *DeliveryError while the persisted change stays in place.
type AuthService struct {
	users  UserDirectory
	codec  *auth.TokenCodec
	mailer notify.Sender
	events EventRecorder

	projectName          string
	frontendHost         string
	accessTokenTTL       time.Duration
	passwordResetTTL     time.Duration
	emailVerificationTTL time.Duration
	requireVerifiedLogin bool
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserDirectory, codec *auth.TokenCodec, mailer notify.Sender, events EventRecorder, cfg *config.Config) *AuthService {
	return &AuthService{
		users:                users,
		codec:                codec,
		mailer:               mailer,
		events:               events,
		projectName:          cfg.ProjectName,
		frontendHost:         cfg.FrontendHost,
		accessTokenTTL:       cfg.AccessTokenTTL,
		passwordResetTTL:     cfg.PasswordResetTTL,
		emailVerificationTTL: cfg.EmailVerificationTTL,
		requireVerifiedLogin: cfg.RequireVerifiedLogin,
	}
}

// Register creates an unverified account and sends the verification email.
func (s *AuthService) Register(ctx context.Context, email, password string) error {
	if _, err := s.findByEmail(ctx, email); err == nil {
		return ErrConflict
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	user := models.User{
		ID:             uuid.New().String(),
		Email:          email,
		HashedPassword: hashed,
		IsActive:       true,
		IsVerified:     false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrUserAlreadyExists) {
			return ErrConflict
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	s.events.Record(ctx, user.ID, models.EventUserRegistered, "Account registered")

	return s.sendVerificationEmail(ctx, email)
}

// VerifyEmail marks the account named by an action token as verified and
// returns an access token, so verification doubles as login.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (models.Token, error) {
	email, ok := s.codec.Verify(token)
	if !ok {
		return models.Token{}, ErrInvalidToken
	}

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return models.Token{}, err
	}
	if user.IsVerified {
		return models.Token{}, ErrAlreadyVerified
	}

	user.IsVerified = true
	user.UpdatedAt = time.Now().UTC()
	if err := s.save(ctx, user); err != nil {
		return models.Token{}, err
	}
	s.events.Record(ctx, user.ID, models.EventUserVerified, "Email verified")

	return s.accessToken(user)
}

// ResendVerificationEmail issues a fresh verification link. Links sent
// earlier stay valid until they expire.
func (s *AuthService) ResendVerificationEmail(ctx context.Context, email string) error {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return ErrAlreadyVerified
	}
	return s.sendVerificationEmail(ctx, user.Email)
}

// Login checks the credentials and returns an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.Token, error) {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return models.Token{}, err
	}
	if !auth.VerifyPassword(password, user.HashedPassword) {
		return models.Token{}, ErrUnauthorized
	}
	if s.requireVerifiedLogin && !user.IsVerified {
		return models.Token{}, ErrEmailNotVerified
	}

	token, err := s.accessToken(user)
	if err != nil {
		return models.Token{}, err
	}
	s.events.Record(ctx, user.ID, models.EventUserLogin, "Logged in")
	return token, nil
}

// RecoverPassword sends a password reset link to a registered email.
func (s *AuthService) RecoverPassword(ctx context.Context, email string) error {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := s.codec.Issue(user.Email, s.passwordResetTTL)
	if err != nil {
		return err
	}
	msg, err := notify.ResetPasswordEmail(s.projectName, s.frontendHost, user.Email, token, s.passwordResetTTL)
	if err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, user.Email, msg.Subject, msg.HTML); err != nil {
		return &DeliveryError{Email: user.Email, Err: err}
	}
	return nil
}

// ResetPassword replaces the password of the account named by an action
// token. Access tokens issued before the reset remain valid until they expire.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	email, ok := s.codec.Verify(token)
	if !ok {
		return ErrInvalidToken
	}

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.HashedPassword = hashed
	user.UpdatedAt = time.Now().UTC()
	if err := s.save(ctx, user); err != nil {
		return err
	}

	s.events.Record(ctx, user.ID, models.EventUserPasswordReset, "Password reset")
	return nil
}

func (s *AuthService) sendVerificationEmail(ctx context.Context, email string) error {
	token, err := s.codec.Issue(email, s.emailVerificationTTL)
	if err != nil {
		return err
	}
	msg, err := notify.NewAccountEmail(s.projectName, s.frontendHost, email, token, s.emailVerificationTTL)
	if err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, email, msg.Subject, msg.HTML); err != nil {
		return &DeliveryError{Email: email, Err: err}
	}
	return nil
}

func (s *AuthService) accessToken(user models.User) (models.Token, error) {
	token, err := s.codec.Issue(user.ID, s.accessTokenTTL)
	if err != nil {
		return models.Token{}, err
	}
	return models.NewBearerToken(token), nil
}

func (s *AuthService) findByEmail(ctx context.Context, email string) (models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *AuthService) save(ctx context.Context, user models.User) error {
	if err := s.users.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

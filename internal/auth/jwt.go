package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/isdelr/authkit/internal/models"
)

// TokenCodec issues and verifies HS256 tokens signed with a single shared secret.
// The same format serves access tokens (subject = user id) and action tokens
// (subject = email); only the caller knows which one it asked for.
type TokenCodec struct {
	secret []byte
	now    func() time.Time
}

// NewTokenCodec creates a TokenCodec for the given secret.
func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), now: time.Now}
}

// Issue signs a token for subject that is valid from now until now+ttl.
func (c *TokenCodec) Issue(subject string, ttl time.Duration) (string, error) {
	return c.IssueNotBefore(subject, ttl, c.now())
}

// IssueNotBefore signs a token for subject that is not valid before notBefore
// and expires ttl after issuance.
func (c *TokenCodec) IssueNotBefore(subject string, ttl time.Duration, notBefore time.Time) (string, error) {
	now := c.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		NotBefore: jwt.NewNumericDate(notBefore),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, expiry and not-before of a token and returns its
// subject. Any failure, including malformed input, yields ok == false.
func (c *TokenCodec) Verify(tokenStr string) (subject string, ok bool) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}

type contextKey string

// CurrentUserKey is the context key for the authenticated user.
const CurrentUserKey = contextKey("currentUser")

// WithUser returns a copy of ctx carrying the authenticated user.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, CurrentUserKey, user)
}

// UserFromContext returns the authenticated user stored by the bearer middleware.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(CurrentUserKey).(models.User)
	return user, ok
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

package models

import "time"

// User represents a user account in the system.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // Never expose this to the client
	IsActive       bool      `json:"isActive"`
	IsVerified     bool      `json:"isVerified"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// UserProfile is the public view of a user returned by /user/me.
type UserProfile struct {
	Email string `json:"email"`
}

// Profile returns the public view of the user.
func (u User) Profile() UserProfile {
	return UserProfile{Email: u.Email}
}

// TokenTypeBearer is the only token type issued.
const TokenTypeBearer = "bearer"

// Token is the response body of a successful login or email verification.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// NewBearerToken wraps an access token for the client.
func NewBearerToken(accessToken string) Token {
	return Token{AccessToken: accessToken, TokenType: TokenTypeBearer}
}

// Message is a plain human-readable response body.
type Message struct {
	Message string `json:"message"`
}

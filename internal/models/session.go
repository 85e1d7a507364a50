package models

import (
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

// Session is an authenticated browser session.
//
// Holds the listener's catalog user ID and their OAuth token. One session is
// assumed to be driven by one active request at a time; the session layer
// serializes access.
type Session struct {
	id          string
	userID      string
	displayName string
	token       *oauth2.Token
	createdAt   time.Time
	updatedAt   time.Time
}

// NewSession builds a session for the given catalog user and token.
// The ID is assigned by the repository on Create.
func NewSession(userID, displayName string, token *oauth2.Token) *Session {
	now := time.Now()
	return &Session{
		userID:      userID,
		displayName: displayName,
		token:       token,
		createdAt:   now,
		updatedAt:   now,
	}
}

func (s *Session) ID() string           { return s.id }
func (s *Session) CreatedAt() time.Time { return s.createdAt }
func (s *Session) UpdatedAt() time.Time { return s.updatedAt }

// UserID returns the catalog user ID this session authenticates.
func (s *Session) UserID() string { return s.userID }

// DisplayName returns the catalog user's display name.
func (s *Session) DisplayName() string { return s.displayName }

// Token returns the session's OAuth token.
func (s *Session) Token() *oauth2.Token { return s.token }

func (s *Session) SetID(id string)            { s.id = id }
func (s *Session) SetCreatedAt(t time.Time)   { s.createdAt = t }
func (s *Session) SetUpdatedAt(t time.Time)   { s.updatedAt = t }
func (s *Session) SetToken(tok *oauth2.Token) { s.token = tok }

// Validate checks the session holds enough state to authenticate catalog calls.
func (s *Session) Validate() error {
	if s.userID == "" {
		return fmt.Errorf("session requires a user ID")
	}
	if s.token == nil || s.token.AccessToken == "" {
		return fmt.Errorf("session requires an access token")
	}
	return nil
}

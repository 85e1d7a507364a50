package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/oauth2"

	"github.com/desertthunder/moodfm/internal/models"
	"github.com/desertthunder/moodfm/internal/shared"
)

// SessionRepository implements [models.Repository] for [models.Session] persistence.
//
// OAuth tokens are serialized as JSON in the token column; rotations are
// persisted through Update.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session into the database with a generated ID.
func (r *SessionRepository) Create(session *models.Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	id := shared.GenerateID()
	session.SetID(id)

	tokenJSON, err := json.Marshal(session.Token())
	if err != nil {
		return fmt.Errorf("failed to serialize token: %w", err)
	}

	query := `
		INSERT INTO sessions (id, user_id, display_name, token, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, session.UserID(), session.DisplayName(), string(tokenJSON), session.CreatedAt(), session.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	return nil
}

// Get retrieves a session by ID.
func (r *SessionRepository) Get(id string) (*models.Session, error) {
	query := `
		SELECT id, user_id, display_name, token, created_at, updated_at
		FROM sessions
		WHERE id = ?
	`

	var (
		sessionID   string
		userID      string
		displayName string
		tokenJSON   string
		createdAt   time.Time
		updatedAt   time.Time
	)

	err := r.db.QueryRow(query, id).Scan(&sessionID, &userID, &displayName, &tokenJSON, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: session %s", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal([]byte(tokenJSON), &token); err != nil {
		return nil, fmt.Errorf("failed to deserialize token: %w", err)
	}

	session := models.NewSession(userID, displayName, &token)
	session.SetID(sessionID)
	session.SetCreatedAt(createdAt)
	session.SetUpdatedAt(updatedAt)

	return session, nil
}

// Update persists the session's current token.
func (r *SessionRepository) Update(session *models.Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	session.SetUpdatedAt(now)

	tokenJSON, err := json.Marshal(session.Token())
	if err != nil {
		return fmt.Errorf("failed to serialize token: %w", err)
	}

	query := `
		UPDATE sessions
		SET token = ?, display_name = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query, string(tokenJSON), session.DisplayName(), now, session.ID())
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: session %s", shared.ErrNotFound, session.ID())
	}

	return nil
}

// Delete removes a session by ID. Deleting an unknown ID is not an error.
func (r *SessionRepository) Delete(id string) error {
	if _, err := r.db.Exec("DELETE FROM sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

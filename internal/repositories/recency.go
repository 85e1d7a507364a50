package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/moodfm/internal/mood"
)

// RecencyRepository persists the per-(user, mood) set of recently surfaced
// track IDs, bounded to the most recent limit entries.
//
// Implements the selector's RecencyStore interface. Eviction is oldest-first,
// keyed by the monotonic seq column.
type RecencyRepository struct {
	db    *sql.DB
	limit int
}

// NewRecencyRepository creates a new [RecencyRepository] bounded to limit
// entries per (user, mood). A non-positive limit defaults to 100.
func NewRecencyRepository(db *sql.DB, limit int) *RecencyRepository {
	if limit <= 0 {
		limit = 100
	}
	return &RecencyRepository{db: db, limit: limit}
}

// Recent returns the remembered track IDs for the given user and mood,
// oldest first.
func (r *RecencyRepository) Recent(userID string, label mood.Label) ([]string, error) {
	query := `
		SELECT track_id FROM recency_entries
		WHERE user_id = ? AND mood = ?
		ORDER BY seq ASC
	`

	rows, err := r.db.Query(query, userID, string(label))
	if err != nil {
		return nil, fmt.Errorf("failed to query recency entries: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan recency entry: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recency entries: %w", err)
	}

	return ids, nil
}

// Append records surfaced track IDs and evicts the oldest entries beyond the
// bound.
func (r *RecencyRepository) Append(userID string, label mood.Label, trackIDs []string) error {
	if len(trackIDs) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for _, id := range trackIDs {
		_, err := tx.Exec(
			"INSERT INTO recency_entries (user_id, mood, track_id, created_at) VALUES (?, ?, ?, ?)",
			userID, string(label), id, now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert recency entry: %w", err)
		}
	}

	evict := `
		DELETE FROM recency_entries
		WHERE user_id = ? AND mood = ? AND seq NOT IN (
			SELECT seq FROM recency_entries
			WHERE user_id = ? AND mood = ?
			ORDER BY seq DESC
			LIMIT ?
		)
	`
	if _, err := tx.Exec(evict, userID, string(label), userID, string(label), r.limit); err != nil {
		return fmt.Errorf("failed to evict recency entries: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit recency entries: %w", err)
	}

	return nil
}

// Count reports how many entries exist for the given user and mood.
func (r *RecencyRepository) Count(userID string, label mood.Label) (int, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM recency_entries WHERE user_id = ? AND mood = ?",
		userID, string(label),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count recency entries: %w", err)
	}
	return count, nil
}

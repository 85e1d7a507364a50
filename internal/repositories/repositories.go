// package repositories provides persistence layer implementations backed by SQLite.
//
// [SessionRepository] implements [models.Repository] for browser sessions.
// [RecencyRepository] is the bounded per-(user, mood) memory of recently
// surfaced track IDs consumed by the selector.
package repositories

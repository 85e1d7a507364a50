// Package models defines domain entities and persistence interfaces for the moodfm service.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing catalog data
//   - [Track] : Song metadata surfaced to the listener
//   - [PlaylistRef] : Reference to a catalog playlist
//   - [User] : The authenticated catalog user
//
// DTOs are transient copies owned by the external catalog; they live for one
// request/response cycle and are never persisted as-is.
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [Session] : Authenticated browser session holding the OAuth token
//
// Persistent entities implement the [Model] interface providing ID generation,
// timestamps and validation. The [Repository] interface defines standard CRUD
// operations for database access.
package models

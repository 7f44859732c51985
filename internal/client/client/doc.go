// Package client contains client-side building blocks for notekeeper.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     the server's auth and notes endpoints.
//  2. A concrete HTTP/JSON implementation (see HTTPClient). It is stateless:
//     the session token is passed on each protected call, and non-2xx
//     responses are mapped to sentinel errors.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations) for
//     the CLI, wiring an SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Server errors are returned as *APIError, which carries the server's
// message and unwraps to one of ErrBadRequest, ErrUnauthorized,
// ErrForbidden, ErrNotFound, ErrConflict or ErrServer. Transport failures
// wrap ErrUnavailable.
package client

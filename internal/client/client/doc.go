// Package client talks to the VOAT Network API.
//
// # Overview
//
// The package provides:
//  1. The remote API contract (see the Client interface) used by the
//     registration flow and the dashboard.
//  2. An HTTP implementation (see HTTPClient) with a per-request timeout and
//     a client-side rate limit.
//  3. Backend discovery (Discover), which probes candidate base URLs once at
//     startup and returns the one to use.
//  4. Local database bootstrap (InitDatabase, RunMigrations) for the SQLite
//     local storage.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. Non-2xx responses are returned as
// *ServerError carrying the server's message. A 2xx reply whose payload
// reports failure wraps ErrRejected; a payload that cannot be decoded wraps
// ErrInvalidResponse. UserMessage picks the text to show a user.
package client

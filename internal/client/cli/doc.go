// Package cli provides the interactive VOAT Network command-line client.
//
// It wires configuration, local storage, the API client and an interactive
// REPL on top of the registration and dashboard state machines. A stored
// session is resumed at startup and a background watcher tracks whether the
// backend is reachable.
//
// Key features:
//   - Register (signup, OTP entry with resend countdown) / Login / Logout
//   - Profile view and edit, wishlist, bookings, orders, notifications
//   - Portfolio submission and status, project showcase
//   - Local storage listing and wipe (cache, clear-cache)
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli

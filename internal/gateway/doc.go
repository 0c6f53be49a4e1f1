// Package gateway implements the relay's HTTP surface.
//
// # Overview
//
// The Gateway wires the session manager, persona loader, and embedded web UI
// into one HTTP server. Front ends (the Telegram bot, the bundled web page,
// or any HTTP client) talk to it through a small JSON API.
//
// # Routes
//
//   - POST   /api/chat           Send a message, receive the assistant reply
//   - DELETE /api/thread/{user}  Drop the user's thread mapping
//   - GET    /api/health         Liveness check
//   - GET    /                   Embedded chat web UI
//
// All /api/ routes carry permissive CORS headers so the web UI can also be
// hosted elsewhere during development.
//
// # Lifecycle
//
// Run blocks until the context is canceled, then drains in-flight requests
// with a five second grace period. When a persona loader is attached, Run
// also starts its watch loop and pushes instruction changes to the
// assistant on reload.
package gateway

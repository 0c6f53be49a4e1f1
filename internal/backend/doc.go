// Package backend binds the session manager to the OpenAI Assistants API.
//
// The OpenAI type is a stateless adapter: each session.Backend method maps to
// exactly one API call (assistants, threads, messages, runs). Error wrapping
// adds the failing object's ID; retries and degradation policy live in the
// session package, not here.
package backend

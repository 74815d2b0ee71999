// Package session provides session management for Gift Run.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Idle session expiry
//
// Core Types:
//
// Manager is the session manager that handles all session operations. Each
// service.Session owns one engine built from its level, plus creation and
// last access times.
//
// Session Identifiers:
//
// Generated IDs are 4 hex characters from crypto/rand. Lookups are
// case-insensitive.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//
// Cleanup:
//
// Sessions live in memory only. RunSweeper drops sessions that have been idle
// longer than a TTL.
package session

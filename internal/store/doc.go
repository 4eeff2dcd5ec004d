// Package store is the local persistence layer of the study-aid core.
//
// A Store owns one SQLite handle for the lifetime of the process. The
// handle is opened lazily by Initialize, which also applies the embedded
// schema. Initialize is single-flight and idempotent: concurrent callers
// block until the first open finishes, and a failed open leaves the store
// uninitialised so a later call can retry.
//
// Every record operation fails with ErrNotInitialized until Initialize has
// succeeded once. There is no way back to the uninitialised state.
//
// Lookups that match nothing are not errors: single-record reads return
// nil, listings return an empty slice, and deletes return false.
//
// Passwords are stored and compared exactly as given. Hashing would change
// the credential lookup and the export format, so it is left to a later
// schema revision.
package store

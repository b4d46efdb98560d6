// Package persistence stores payments with GORM on PostgreSQL or SQLite.
//
// The schema is owned by the embedded golang-migrate scripts; the transaction id
// unique index backs the duplicate-request check, and driver errors are translated
// into payments.DuplicateTransactionError and payments.NotFoundError.
package persistence

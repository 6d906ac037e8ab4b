package dbtx

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Bind returns a gorm handle whose statements run on tx. The caller keeps
// ownership of tx and is responsible for Commit/Rollback.
func Bind(db *gorm.DB, tx *sql.Tx) *gorm.DB {
	if db == nil || tx == nil {
		return db
	}
	// A Context in the session forces gorm to clone the statement, so the
	// ConnPool swap below does not leak into db.
	bound := db.Session(&gorm.Session{Context: context.Background(), NewDB: true})
	bound.Statement.ConnPool = tx
	return bound
}

const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

// IsUniqueViolation reports a 23505 error, optionally restricted to one constraint.
func IsUniqueViolation(err error, constraint string) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation && (constraint == "" || pgErr.ConstraintName == constraint)
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key value") &&
		(constraint == "" || strings.Contains(errMsg, strings.ToLower(constraint)))
}

// IsConcurrencyFailure reports errors that mean another transaction won the race.
func IsConcurrencyFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
			return true
		}
	}
	return false
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// PostgreSQL error codes the repositories translate into domain errors.
const (
	uniqueViolation     pq.ErrorCode = "23505"
	foreignKeyViolation pq.ErrorCode = "23503"
	checkViolation      pq.ErrorCode = "23514"
	numericOutOfRange   pq.ErrorCode = "22003"
)

func pqErrorCode(err error) (pq.ErrorCode, *pq.Error) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code, pqErr
	}
	return "", nil
}

// withTx runs fn inside a transaction, committing on success and rolling back
// on error or panic.
func withTx(ctx context.Context, db *sql.DB, log *logrus.Logger, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Errorf("Repository: Failed to begin transaction: %v", err)
		return fmt.Errorf("could not start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			log.Error("Repository: Recovered from panic, rolling back transaction")
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			log.Debugf("Repository: Rolling back transaction due to error: %v", err)
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Errorf("Repository: Failed to rollback transaction: %v (original error: %v)", rbErr, err)
			}
		} else if cErr := tx.Commit(); cErr != nil {
			log.Errorf("Repository: Failed to commit transaction: %v", cErr)
			err = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()

	return fn(tx)
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// clearable maps a provided patch value to a column value; "" becomes NULL.
func clearable(s string) sql.NullString {
	return nullString(&s)
}

package services

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel-ops/apperr"
)

const mysqlDuplicateEntry = 1062

// isDuplicateKey covers both translated gorm errors and raw MySQL driver errors.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}

// storeErr converts a store failure into the caller-facing taxonomy. Errors
// already classified pass through untouched.
func storeErr(err error, notFound *apperr.Error, action string) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) && notFound != nil {
		return notFound
	}
	return apperr.Internal(err, "failed to %s", action)
}

// onCommit queues metrics and log lines that must only be emitted once the
// surrounding transaction has committed.
type onCommit []func()

func (q *onCommit) add(fn func()) {
	*q = append(*q, fn)
}

func (q onCommit) run() {
	for _, fn := range q {
		fn()
	}
}

func forUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

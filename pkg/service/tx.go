package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gridfantasy/fantasy-league-manager-go/log"
	"github.com/gridfantasy/fantasy-league-manager-go/pkg/repository"
)

// each mutation is one atomic read-modify-write against the store
const txAttempts = 3

// runInTx runs fn in a transaction and retries a bounded number of times
// when the store reports a serialization conflict. Conflicts that survive
// all attempts are returned to the caller.
func runInTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	var err error
	for attempt := 1; attempt <= txAttempts; attempt++ {
		err = pgx.BeginFunc(ctx, pool, fn)
		if err == nil || !isSerializationFailure(err) {
			return err
		}
		log.Warn("retrying conflicting transaction",
			log.Int("attempt", attempt),
			log.ErrorField(err))
	}
	return err
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// serialization_failure, deadlock_detected
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

func isNoData(err error) bool {
	return errors.Is(err, repository.ErrNoData)
}

// isForeignKeyViolation reports a delete blocked by a referencing row.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}

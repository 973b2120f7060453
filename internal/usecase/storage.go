package usecase

import (
	"context"
	"errors"
	"strings"

	"ride-share/internal/apperr"

	"github.com/jackc/pgx/v5/pgconn"
)

// storageErr classifies a failure from the ledger layer. Timeouts and
// connection losses surface as unavailable with a stable code; anything
// else passes through and is reported as internal by the transport
// layer. Errors that already carry a kind are left alone.
func storageErr(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || pgconn.Timeout(err) {
		return apperr.Wrap(err, apperr.ErrStorageTimeout)
	}

	// Class 08 is postgres connection exceptions.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "08") {
		return apperr.Wrap(err, apperr.ErrStorageUnavailable)
	}

	return err
}

package service

import (
	"database/sql"
	"errors"

	appErrors "github.com/salonmost/booking-api/pkg/errors"
)

// notFoundOrInternal maps a repository error to the typed API error.
func notFoundOrInternal(err error, notFoundMsg, internalMsg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFoundMsg)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, internalMsg)
}

package service

import (
	"errors"
	"fmt"

	app_errors "lumen-ai/backend/internal/errors"
	"lumen-ai/backend/internal/repository"
)

// fromStore translates repository sentinel errors into domain errors so
// callers above the service layer never see storage-level sentinels.
// Domain errors already attached lower down (e.g. a corrupt credential)
// pass through untouched.
func fromStore(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %s", app_errors.ErrNotFound, err)
	case errors.Is(err, repository.ErrConflict):
		return fmt.Errorf("%w: %s", app_errors.ErrConflict, err)
	case errors.Is(err, app_errors.ErrCredentialCorrupt):
		return err
	default:
		return err
	}
}

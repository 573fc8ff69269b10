package journal

import "github.com/projectsol/solclient/internal/foundation/errors"

var (
	// ErrMissionNotFound indicates no active mission matches the container ID.
	ErrMissionNotFound = errors.NotFoundError("no active mission for container").Build()

	// ErrContainerIDRequired indicates a mission was recorded without a container ID.
	ErrContainerIDRequired = errors.ValidationError("mission container id is required").Build()
)

func storageError(err error, message string) error {
	return errors.WrapError(err, errors.CategoryStorage, message).Build()
}

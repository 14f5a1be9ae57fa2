package services

import (
	"errors"
	"fmt"

	"tienda/internal/models"
)

// Authorization errors. Handlers map ErrUnauthenticated to 401 and
// ErrForbidden to 403.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("insufficient role")
)

// Authorize decides whether a user may perform an operation guarded by
// the given role set. It is a pure predicate: no identity at all is an
// authentication failure, an empty role set admits any authenticated
// user, and otherwise the user must hold at least one of the required
// roles. It must run before any mutation reaches a repository.
func Authorize(user *models.User, required []models.Role) error {
	if user == nil {
		return ErrUnauthenticated
	}
	if len(required) == 0 {
		return nil
	}
	for _, need := range required {
		if user.HasRole(need) {
			return nil
		}
	}
	return fmt.Errorf("user %s needs one of roles %v but holds %v: %w",
		user.ID, required, user.Roles(), ErrForbidden)
}

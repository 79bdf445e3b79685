package services

import (
	"hotel-ops/apperr"
	"hotel-ops/models"
)

// RequireRole gates privileged operations. A nil caller is unauthenticated.
func RequireRole(caller *models.User, allowed ...models.Role) (*models.User, error) {
	if caller == nil {
		return nil, apperr.Unauthorized("authentication required")
	}
	for _, r := range allowed {
		if caller.Role == r {
			return caller, nil
		}
	}
	return nil, apperr.Forbidden("role %q is not allowed to perform this operation", caller.Role)
}

func requireAdmin(caller *models.User) error {
	_, err := RequireRole(caller, models.RoleAdmin)
	return err
}

func requireStaff(caller *models.User) error {
	_, err := RequireRole(caller, models.RoleAdmin, models.RoleStaff)
	return err
}

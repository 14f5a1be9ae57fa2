package services_test

import (
	"errors"
	"testing"

	"tienda/internal/models"
	"tienda/internal/services"

	"github.com/stretchr/testify/assert"
)

func userWithRoles(roles ...models.Role) *models.User {
	u := &models.User{ID: "user-1", Username: "tester", Email: "tester@example.com"}
	u.SetRoles(roles...)
	return u
}

func TestAuthorize_NoIdentity(t *testing.T) {
	err := services.Authorize(nil, []models.Role{models.RoleAdmin})
	assert.ErrorIs(t, err, services.ErrUnauthenticated)

	// Even with no role requirement, an absent identity is rejected.
	err = services.Authorize(nil, nil)
	assert.ErrorIs(t, err, services.ErrUnauthenticated)
}

func TestAuthorize_EmptyRequiredSet(t *testing.T) {
	// Any authenticated user passes when no specific role is demanded.
	err := services.Authorize(userWithRoles(models.RoleUser), nil)
	assert.NoError(t, err)

	err = services.Authorize(userWithRoles(), []models.Role{})
	assert.NoError(t, err)
}

func TestAuthorize_RoleIntersection(t *testing.T) {
	admin := userWithRoles(models.RoleAdmin)
	plain := userWithRoles(models.RoleUser)
	both := userWithRoles(models.RoleUser, models.RoleAdmin)

	assert.NoError(t, services.Authorize(admin, []models.Role{models.RoleAdmin}))
	assert.NoError(t, services.Authorize(both, []models.Role{models.RoleAdmin}))

	// One shared role out of several required suffices.
	assert.NoError(t, services.Authorize(plain, []models.Role{models.RoleAdmin, models.RoleUser}))

	err := services.Authorize(plain, []models.Role{models.RoleAdmin})
	assert.ErrorIs(t, err, services.ErrForbidden)
	// The denial names required and held roles for diagnostics.
	assert.Contains(t, err.Error(), "admin")
	assert.Contains(t, err.Error(), "user")

	err = services.Authorize(userWithRoles(), []models.Role{models.RoleSuperUser})
	assert.ErrorIs(t, err, services.ErrForbidden)
	assert.False(t, errors.Is(err, services.ErrUnauthenticated))
}

package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"asset-control/pkg/constants"
)

func TestCanManageRole(t *testing.T) {
	assert.True(t, CanManageRole(constants.RoleAdministrator))
	assert.True(t, CanManageRole(constants.RoleManager))
	assert.False(t, CanManageRole(constants.RoleUser))
	assert.False(t, CanManageRole(0))
}

func TestCanDeleteHardRole(t *testing.T) {
	assert.True(t, CanDeleteHardRole(constants.RoleAdministrator))
	assert.False(t, CanDeleteHardRole(constants.RoleManager))
	assert.False(t, CanDeleteHardRole(constants.RoleUser))
	assert.False(t, CanDeleteHardRole(0))
}

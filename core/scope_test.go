package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTenantScope(t *testing.T) {
	admin := AdminScope()
	ctr := TenantScope{Role: RoleCenter, CenterID: "c1", UserID: "u1"}
	parent := TenantScope{Role: RoleParent, CenterID: "c1", UserID: "p1"}

	assert.True(t, admin.AllCenters())
	assert.False(t, ctr.AllCenters())
	assert.False(t, parent.AllCenters())

	assert.True(t, admin.CanAccessCenter("c2"))
	assert.True(t, ctr.CanAccessCenter("c1"))
	assert.False(t, ctr.CanAccessCenter("c2"))
	assert.False(t, TenantScope{Role: RoleCenter}.CanAccessCenter(""))

	// parents only reach their own children
	assert.True(t, parent.CanAccessStudent("c1", "p1"))
	assert.False(t, parent.CanAccessStudent("c1", "p2"))
	assert.False(t, parent.CanAccessStudent("c1", ""))
	assert.True(t, ctr.CanAccessStudent("c1", ""))
	assert.False(t, ctr.CanAccessStudent("c2", "p1"))
	assert.True(t, admin.CanAccessStudent("c2", ""))

	assert.True(t, admin.CanWrite())
	assert.True(t, ctr.CanWrite())
	assert.False(t, parent.CanWrite())
}

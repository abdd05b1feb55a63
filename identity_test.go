package ezauth

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityHasRole(t *testing.T) {
	admin := NewIdentity(Claims{Subject: 1, Role: "admin"})
	anonymousRole := NewIdentity(Claims{Subject: 2})

	tests := []struct {
		name     string
		identity *Identity
		roles    []string
		want     bool
	}{
		{"case-insensitive match", admin, []string{"Admin"}, true},
		{"one of many", admin, []string{"ops", "ADMIN"}, true},
		{"no match", admin, []string{"ops"}, false},
		{"prefix is not a match", admin, []string{"adm"}, false},
		{"empty role list", admin, []string{}, false},
		{"nil role list", admin, nil, false},
		{"no role claim", anonymousRole, []string{"Admin"}, false},
		{"no role claim, empty role", anonymousRole, []string{""}, false},
		{"nil identity", nil, []string{"admin"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.identity.HasRole(tt.roles...))
		})
	}
}

func TestIdentityHasRoleOrForbidden_Detached(t *testing.T) {
	i := NewIdentity(Claims{Subject: 1, Role: "viewer"})

	assert.NoError(t, i.HasRoleOrForbidden("viewer"))
	assert.ErrorIs(t, i.HasRoleOrForbidden("admin"), ErrForbidden)
}

func TestIdentityJSON(t *testing.T) {
	i := NewIdentity(Claims{Subject: 9, Username: "vel", Email: "vel@example.com"})

	b, err := json.Marshal(i)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":9,"username":"vel","email":"vel@example.com"}`, string(b))
}

func TestIdentityAccessors(t *testing.T) {
	c := Claims{Subject: 4, Username: "kleya", FirstName: "Kleya", LastName: "Marki", Email: "kleya@example.com", Role: "ops"}
	i := NewIdentity(c)

	assert.Equal(t, int64(4), i.ID())
	assert.Equal(t, "kleya", i.Username())
	assert.Equal(t, "Kleya", i.FirstName())
	assert.Equal(t, "Marki", i.LastName())
	assert.Equal(t, "kleya@example.com", i.Email())
	assert.Equal(t, "ops", i.Role())

	// The identity keeps its own copy of the claims.
	c.Role = "admin"
	assert.False(t, i.HasRole("admin"))
	assert.Equal(t, "ops", i.Role())
}

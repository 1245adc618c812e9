package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginRequestAliases(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		identifier string
		secret     string
	}{
		{"web client names", `{"username":" ADM-001 ","password":"admin123"}`, "ADM-001", "admin123"},
		{"canonical names", `{"identifier":"ADM-001","secret":"admin123"}`, "ADM-001", "admin123"},
		{"canonical wins", `{"identifier":"A","username":"B","secret":"s1","password":"p1"}`, "A", "s1"},
		{"empty", `{}`, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req LoginRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			identifier, secret := req.Credentials()
			assert.Equal(t, tt.identifier, identifier)
			assert.Equal(t, tt.secret, secret)
		})
	}
}

func TestChangePasswordRequestAliases(t *testing.T) {
	var req ChangePasswordRequest
	require.NoError(t, json.Unmarshal([]byte(`{"currentPassword":"old","newSecret":"fresh1"}`), &req))
	current, next := req.Secrets()
	assert.Equal(t, "old", current)
	assert.Equal(t, "fresh1", next)
}

func TestUpdateUserRequestAllowList(t *testing.T) {
	var req UpdateUserRequest
	require.NoError(t, json.Unmarshal([]byte(`{"is_active":false,"password_hash":"x","user_id":9}`), &req))
	update := req.ToUpdate()
	require.NotNil(t, update.Active)
	assert.False(t, *update.Active)
	assert.Nil(t, update.FullName)
	assert.Nil(t, update.RoleID)
}

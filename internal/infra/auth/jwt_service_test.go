package auth

import (
	"testing"

	"coti/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(t *testing.T) *jwtService {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Access = "access-secret-for-tests"
	cfg.SecretKey.Refresh = "refresh-secret-for-tests"

	svc, err := NewJWTService(cfg)
	require.NoError(t, err)

	return svc.(*jwtService)
}

func TestNewJWTService_RequiresSecrets(t *testing.T) {
	_, err := NewJWTService(&config.Config{})
	require.Error(t, err)
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := newTestJWTService(t)
	userID := uuid.New()

	access, refresh, err := svc.GenerateTokens(userID, []string{"buyer", "seller"})
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	accessClaims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, userID, accessClaims.UserID)
	assert.Equal(t, []string{"buyer", "seller"}, accessClaims.Roles)
	assert.Equal(t, "access", accessClaims.Type)

	refreshClaims, err := svc.ValidateToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, userID, refreshClaims.UserID)
	assert.Equal(t, "refresh", refreshClaims.Type)
	// Roles are not carried by refresh tokens.
	assert.Empty(t, refreshClaims.Roles)
}

func TestJWTService_RejectsTamperedToken(t *testing.T) {
	svc := newTestJWTService(t)

	access, _, err := svc.GenerateTokens(uuid.New(), []string{"buyer"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(access + "x")
	require.Error(t, err)

	_, err = svc.ValidateToken("not-a-token")
	require.Error(t, err)
}

func TestJWTService_RejectsForeignSignature(t *testing.T) {
	svc := newTestJWTService(t)

	otherCfg := &config.Config{}
	otherCfg.SecretKey.Access = "another-access-secret"
	otherCfg.SecretKey.Refresh = "another-refresh-secret"
	other, err := NewJWTService(otherCfg)
	require.NoError(t, err)

	access, refresh, err := other.GenerateTokens(uuid.New(), nil)
	require.NoError(t, err)

	_, err = svc.ValidateToken(access)
	require.Error(t, err)
	_, err = svc.ValidateToken(refresh)
	require.Error(t, err)
}

func TestJWTService_HashToken(t *testing.T) {
	svc := newTestJWTService(t)

	first := svc.HashToken("some-token")
	second := svc.HashToken("some-token")
	different := svc.HashToken("other-token")

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, different)
	assert.Len(t, first, 64)
	assert.NotContains(t, first, "some-token")
}

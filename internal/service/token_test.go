package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sydneykevadiya/groundnut-backend/internal/models"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, time.Hour)
	userID := uuid.New()

	pair, jti, refreshExp, err := m.GeneratePair(userID, models.RoleFarmer)
	require.NoError(t, err)
	assert.NotEmpty(t, jti)
	assert.True(t, refreshExp.After(time.Now()))

	parsedID, role, err := m.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, parsedID)
	assert.Equal(t, models.RoleFarmer, role)

	claims, err := m.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, jti, claims.ID)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	m := NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, time.Hour)
	other := NewTokenManager("other-access", "other-refresh", 15*time.Minute, time.Hour)

	pair, _, _, err := m.GeneratePair(uuid.New(), models.RoleCompany)
	require.NoError(t, err)

	_, _, err = other.ParseAccess(pair.AccessToken)
	assert.Error(t, err)

	_, err = other.ParseRefresh(pair.RefreshToken)
	assert.Error(t, err)
}

func TestTokenManager_RefreshTokenNotValidAsAccess(t *testing.T) {
	m := NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, time.Hour)

	pair, _, _, err := m.GeneratePair(uuid.New(), models.RoleFarmer)
	require.NoError(t, err)

	// Токены подписаны разными секретами и не взаимозаменяемы.
	_, _, err = m.ParseAccess(pair.RefreshToken)
	assert.Error(t, err)
}

func TestTokenManager_ExpiredAccess(t *testing.T) {
	m := NewTokenManager("access-secret", "refresh-secret", -time.Minute, time.Hour)

	pair, _, _, err := m.GeneratePair(uuid.New(), models.RoleFarmer)
	require.NoError(t, err)

	_, _, err = m.ParseAccess(pair.AccessToken)
	assert.Error(t, err)
}

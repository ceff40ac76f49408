package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/behnamfe76/helpdesk-service/internal/domain"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 15*time.Minute)
	user := &domain.User{ID: "u1", Email: "a@b.c", Role: domain.RoleTechnician}

	issued, err := tm.GenerateToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)

	claims, err := tm.ParseToken(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, domain.RoleTechnician, claims.Role)
	assert.Equal(t, issued.ID, claims.ID)
	assert.WithinDuration(t, issued.ExpiresAt, claims.ExpiresAt.Time, time.Second)
}

func TestTokenManager_TokenIDsAreUnique(t *testing.T) {
	tm := NewTokenManager("secret", time.Minute)
	user := &domain.User{ID: "u1", Role: domain.RoleCustomer}

	a, err := tm.GenerateToken(user)
	require.NoError(t, err)
	b, err := tm.GenerateToken(user)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestTokenManager_RejectsExpiredAndForeignTokens(t *testing.T) {
	tm := NewTokenManager("secret", time.Minute)
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	issued, err := tm.GenerateToken(&domain.User{ID: "u1", Role: domain.RoleCustomer})
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.ParseToken(issued.Token)
	assert.Error(t, err)

	other := NewTokenManager("other-secret", time.Minute)
	fresh, err := other.GenerateToken(&domain.User{ID: "u1", Role: domain.RoleCustomer})
	require.NoError(t, err)
	_, err = tm.ParseToken(fresh.Token)
	assert.Error(t, err)
}

func TestPassword_HashAndCompare(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, "s3cret"))
	assert.Error(t, ComparePassword(hash, "wrong"))
}

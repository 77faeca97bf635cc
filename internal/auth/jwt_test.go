package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-humble/farm-connect/internal/model"
)

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()

	token, err := GenerateToken("test-secret-key", "farmer-1", RoleFarmer, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken("test-secret-key", token)
	require.NoError(t, err)
	assert.Equal(t, "farmer-1", claims.UserID)
	assert.Equal(t, RoleFarmer, claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestValidateTokenRejects(t *testing.T) {
	t.Parallel()

	good, _ := GenerateToken("secret1", "u1", RoleCustomer, time.Hour)
	expired, _ := GenerateToken("secret1", "u1", RoleCustomer, -time.Minute)
	badRole, _ := GenerateToken("secret1", "u1", "superuser", time.Hour)
	noUser, _ := GenerateToken("secret1", "", RoleAdmin, time.Hour)

	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "u1", Role: RoleAdmin}).
		SignedString([]byte("secret1"))
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u1", Role: RoleAdmin}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{name: "wrong secret", secret: "secret2", token: good},
		{name: "garbage", secret: "secret1", token: "not-a-token"},
		{name: "expired", secret: "secret1", token: expired},
		{name: "unknown role", secret: "secret1", token: badRole},
		{name: "missing user", secret: "secret1", token: noUser},
		{name: "no expiry", secret: "secret1", token: noExp},
		{name: "alg none", secret: "secret1", token: none},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			claims, err := ValidateToken(tt.secret, tt.token)
			require.ErrorIs(t, err, model.ErrUnauthorized)
			assert.Nil(t, claims)
		})
	}
}

func TestClaimsContext(t *testing.T) {
	t.Parallel()

	assert.Nil(t, ClaimsFromContext(context.Background()))

	c := &Claims{UserID: "u1", Role: RoleAdmin}
	assert.Same(t, c, ClaimsFromContext(WithClaims(context.Background(), c)))
}

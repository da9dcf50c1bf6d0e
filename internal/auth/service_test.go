package auth

import (
	"testing"
	"time"

	"music_library_backend/internal/common"
	"music_library_backend/internal/config"
	"music_library_backend/internal/shared"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type tokenUserData struct {
	id    uuid.UUID
	email string
	role  string
}

func (d tokenUserData) GetID() uuid.UUID { return d.id }
func (d tokenUserData) GetEmail() string { return d.email }
func (d tokenUserData) GetRole() string  { return d.role }

func newTestJWTService(secret string, expiry time.Duration) shared.TokenService {
	cfg := &config.Config{
		JWTSecretKey: secret,
		JWTExpiry:    expiry,
	}
	return NewJWTService(cfg, zap.NewNop())
}

func TestJWTService_GenerateAndValidate_Roundtrip(t *testing.T) {
	svc := newTestJWTService("test-secret-key", time.Hour)
	userID := uuid.New()
	userData := tokenUserData{id: userID, email: "user@example.com", role: common.RoleUser}

	tokenString, expiresAt, err := svc.GenerateToken(userData)

	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(tokenString)

	assert.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, common.RoleUser, claims.Role)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestJWTService_ValidateToken_Expired(t *testing.T) {
	svc := newTestJWTService("test-secret-key", -time.Minute)
	userData := tokenUserData{id: uuid.New(), email: "user@example.com", role: common.RoleUser}

	tokenString, _, err := svc.GenerateToken(userData)
	assert.NoError(t, err)

	claims, err := svc.ValidateToken(tokenString)

	assert.Nil(t, claims)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
	// Expiry must not be misreported as a signature problem.
	assert.NotErrorIs(t, err, common.ErrTokenSignature)
}

func TestJWTService_ValidateToken_WrongSecret(t *testing.T) {
	issuer := newTestJWTService("issuing-secret", time.Hour)
	verifier := newTestJWTService("different-secret", time.Hour)
	userData := tokenUserData{id: uuid.New(), email: "user@example.com", role: common.RoleUser}

	tokenString, _, err := issuer.GenerateToken(userData)
	assert.NoError(t, err)

	claims, err := verifier.ValidateToken(tokenString)

	assert.Nil(t, claims)
	assert.ErrorIs(t, err, common.ErrTokenSignature)
}

func TestJWTService_ValidateToken_Malformed(t *testing.T) {
	svc := newTestJWTService("test-secret-key", time.Hour)

	for _, tokenString := range []string{"", "not-a-jwt", "aaa.bbb.ccc"} {
		claims, err := svc.ValidateToken(tokenString)
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, common.ErrTokenMalformed)
	}
}

func TestJWTService_ValidateToken_RejectsForeignIssuer(t *testing.T) {
	svc := newTestJWTService("test-secret-key", time.Hour)

	// Correctly signed, but minted by a different system.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &shared.Claims{
		UserID: uuid.New(),
		Email:  "user@example.com",
		Role:   common.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "some_other_service",
		},
	})
	tokenString, err := token.SignedString([]byte("test-secret-key"))
	assert.NoError(t, err)

	claims, err := svc.ValidateToken(tokenString)

	assert.Nil(t, claims)
	assert.ErrorIs(t, err, common.ErrTokenMalformed)
}

func TestJWTService_ValidateToken_RejectsUnexpectedSigningMethod(t *testing.T) {
	svc := newTestJWTService("test-secret-key", time.Hour)

	// alg=none tokens must never validate regardless of payload.
	token := jwt.NewWithClaims(jwt.SigningMethodNone, &shared.Claims{
		UserID: uuid.New(),
		Email:  "user@example.com",
		Role:   common.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	claims, err := svc.ValidateToken(tokenString)

	assert.Nil(t, claims)
	assert.Error(t, err)
}

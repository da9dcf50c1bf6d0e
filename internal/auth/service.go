// File: internal/auth/service.go
package auth

import (
	"errors"
	"time"

	"music_library_backend/internal/common"
	"music_library_backend/internal/config"
	"music_library_backend/internal/shared"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const tokenIssuer = "music_library_backend"

// JWTService implements shared.TokenService.
type JWTService struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewJWTService creates a new JWT service.
func NewJWTService(cfg *config.Config, logger *zap.Logger) shared.TokenService {
	return &JWTService{cfg: cfg, logger: logger.Named("JWTService")}
}

// GenerateToken mints a signed token for the given user identity. A signing
// failure is surfaced as an internal auth error; callers must treat it as
// fatal to the request and never set a cookie without a token.
func (s *JWTService) GenerateToken(userData shared.UserDataForToken) (string, time.Time, error) {
	expirationTime := time.Now().Add(s.cfg.JWTExpiry)

	claims := &shared.Claims{
		UserID: userData.GetID(),
		Email:  userData.GetEmail(),
		Role:   userData.GetRole(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    tokenIssuer,
			Subject:   userData.GetID().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		s.logger.Error("Failed to sign token", zap.Error(err))
		return "", time.Time{}, common.ErrAuthInternal.WithDetails("Could not sign session token.")
	}
	return tokenString, expirationTime, nil
}

// ValidateToken validates a JWT and returns its claims. Failures are
// classified into three distinct kinds: expired, bad signature, and
// malformed. An expired token must never be reported as a signature error.
func (s *JWTService) ValidateToken(tokenString string) (*shared.Claims, error) {
	if tokenString == "" {
		return nil, common.ErrTokenMalformed
	}

	claims := &shared.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.cfg.JWTSecretKey), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, common.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			s.logger.Warn("Token signature validation failed", zap.Error(err))
			return nil, common.ErrTokenSignature
		default:
			s.logger.Warn("Malformed token rejected", zap.Error(err))
			return nil, common.ErrTokenMalformed
		}
	}
	if !token.Valid {
		return nil, common.ErrTokenMalformed
	}
	return claims, nil
}

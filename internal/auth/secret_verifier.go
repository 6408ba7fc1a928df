package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"loomspace/internal/domain"
	"loomspace/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
)

// SecretVerifier verifies HS256 tokens signed with the project's JWT secret.
// Used for local development and by the CLI, where no JWKS endpoint exists.
type SecretVerifier struct {
	secret []byte
	logger *slog.Logger
}

// NewSecretVerifier creates a verifier for tokens signed with secret
func NewSecretVerifier(secret string, logger *slog.Logger) (JWTVerifier, error) {
	if secret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}
	return &SecretVerifier{secret: []byte(secret), logger: logger}, nil
}

func (v *SecretVerifier) VerifyToken(tokenString string) (*models.SupabaseClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SupabaseClaims{},
		func(*jwt.Token) (interface{}, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		v.logger.Debug("token parse failed", "error", err.Error())
		return nil, domain.ErrUnauthorized
	}
	return checkClaims(token, v.logger)
}

func (v *SecretVerifier) Close() error {
	return nil
}

// SignToken issues an authenticated-role HS256 token for userID.
func SignToken(secret, userID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &models.SupabaseClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
		Role:  "authenticated",
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

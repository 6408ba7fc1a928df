package auth

import "loomspace/internal/domain/models"

// JWTVerifier defines the interface for JWT token verification.
// The HTTP middleware and the realtime upgrade both depend on it.
type JWTVerifier interface {
	// VerifyToken validates a JWT token string and returns the parsed claims.
	// Returns domain.ErrUnauthorized if the token is invalid, expired, or has an invalid signature.
	VerifyToken(tokenString string) (*models.SupabaseClaims, error)

	// Close releases any resources held by the verifier.
	Close() error
}

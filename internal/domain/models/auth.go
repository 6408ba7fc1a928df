package models

import "github.com/golang-jwt/jwt/v5"

// SupabaseClaims represents the JWT claims issued by Supabase Auth.
// See: https://supabase.com/docs/guides/auth/jwts
type SupabaseClaims struct {
	jwt.RegisteredClaims                        // sub, iss, aud, exp, iat
	Email                string                 `json:"email"`
	UserMetadata         map[string]interface{} `json:"user_metadata,omitempty"`
	Role                 string                 `json:"role"` // "authenticated" or "anon"
	SessionID            string                 `json:"session_id,omitempty"`
	IsAnonymous          bool                   `json:"is_anonymous,omitempty"`
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *SupabaseClaims) GetUserID() string {
	return c.Subject
}

// FullName returns user_metadata.full_name when present.
func (c *SupabaseClaims) FullName() string {
	name, _ := c.UserMetadata["full_name"].(string)
	return name
}

// Package auth verifies the bearer tokens that guard moderation endpoints.
// Tokens are issued by an external identity provider; the service only
// validates signature, issuer, and scope.
package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Claims are the token claims the moderation layer cares about.
type Claims struct {
	Sub   string
	Scope string
	Iss   string
}

// HasScope reports whether the space-separated scope claim contains want.
func (c *Claims) HasScope(want string) bool {
	for _, s := range strings.Fields(c.Scope) {
		if s == want {
			return true
		}
	}
	return false
}

// TokenVerifier validates a raw bearer token. Satisfied by *Verifier; handler
// tests substitute a stub.
type TokenVerifier interface {
	Verify(ctx context.Context, tokenString string) (*Claims, error)
}

// Verifier verifies JWT tokens against a JWKS endpoint.
type Verifier struct {
	jwksManager *JWKSManager
	issuer      string
	jwksURL     string
}

// NewVerifier creates a JWT verifier for one issuer.
func NewVerifier(jwksManager *JWKSManager, issuer, jwksURL string) *Verifier {
	return &Verifier{
		jwksManager: jwksManager,
		issuer:      issuer,
		jwksURL:     jwksURL,
	}
}

// Verify checks the token's signature, validity window, and issuer, then
// extracts the claims.
func (v *Verifier) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	keys, err := v.jwksManager.GetJWKS(ctx, v.jwksURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get JWKS: %w", err)
	}

	token, err := jwt.Parse([]byte(tokenString), jwt.WithKeySet(keys), jwt.WithValidate(true))
	if err != nil {
		return nil, fmt.Errorf("failed to parse/verify token: %w", err)
	}

	iss, ok := token.Get("iss")
	if !ok {
		return nil, fmt.Errorf("token missing issuer claim")
	}
	issStr, ok := iss.(string)
	if !ok || issStr != v.issuer {
		return nil, fmt.Errorf("token issuer mismatch: expected %s, got %v", v.issuer, iss)
	}

	claims := &Claims{Iss: issStr}

	if sub, ok := token.Get("sub"); ok {
		if subStr, ok := sub.(string); ok {
			claims.Sub = subStr
		}
	}
	if scope, ok := token.Get("scope"); ok {
		if scopeStr, ok := scope.(string); ok {
			claims.Scope = scopeStr
		}
	}

	return claims, nil
}

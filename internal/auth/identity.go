// Package auth extracts the console user's identity from the backend's
// bearer token. The console never holds the backend's signing key, so the
// token payload is decoded without signature verification; the backend itself
// re-verifies the token on every proxied call.
package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"retail-console/internal/domain"
)

var ErrInvalidToken = errors.New("invalid token")

// FromToken decodes the JWT payload into an Identity. Roles may appear under
// "roles", "authorities" or "auth" (arrays) or a singular "role" claim,
// depending on the backend build.
func FromToken(token string) (domain.Identity, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	email, _ := claims["sub"].(string)
	if email == "" {
		email, _ = claims["email"].(string)
	}
	if email == "" {
		return domain.Identity{}, fmt.Errorf("%w: no subject or email claim", ErrInvalidToken)
	}

	name, _ := claims["name"].(string)

	return domain.Identity{
		Email: email,
		Name:  name,
		Roles: rolesFromClaims(claims),
	}, nil
}

func rolesFromClaims(claims jwt.MapClaims) []string {
	for _, key := range []string{"roles", "authorities", "auth"} {
		if arr, ok := claims[key].([]interface{}); ok {
			out := make([]string, 0, len(arr))
			for _, v := range arr {
				if s, ok := v.(string); ok && s != "" {
					out = append(out, domain.NormalizeRole(s))
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	if s, ok := claims["role"].(string); ok && s != "" {
		return []string{domain.NormalizeRole(s)}
	}
	return nil
}

package http

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"stackmaster-quiz-service/internal/domain"
)

// Authenticator verifies identity-provider tokens (HS256 JWT) and maps them
// to domain identities. A failed or absent token yields the zero Identity;
// whether that matters is decided where the identity is used.
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Identity parses a raw token. Invalid tokens map to the zero Identity.
func (a *Authenticator) Identity(token string) domain.Identity {
	if token == "" {
		return domain.Identity{}
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return a.secret, nil
	})
	if err != nil || !parsed.Valid {
		return domain.Identity{}
	}

	identity := domain.Identity{}
	if sub, ok := claims["sub"].(string); ok {
		identity.UID = sub
	}
	if name, ok := claims["name"].(string); ok {
		identity.DisplayName = name
	}
	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}
	return identity
}

// FromRequest extracts the identity from the Authorization header, falling
// back to a token query parameter for websocket clients.
func (a *Authenticator) FromRequest(r *http.Request) domain.Identity {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return a.Identity(strings.TrimPrefix(header, "Bearer "))
	}
	return a.Identity(r.URL.Query().Get("token"))
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingAuthHeader = errors.New("missing or malformed authorization header")
	ErrUnknownSigningKey = errors.New("no signing key matches the token key id")
	ErrInvalidSignature  = errors.New("token verification failed")
	ErrTokenExpired      = errors.New("token has expired")
	ErrKeySetUnavailable = errors.New("key set unavailable")
)

// Verifier validates bearer tokens against the issuer's published key set
// and extracts the subject. It is the only source of caller identity in the
// server; nothing else decodes token claims.
type Verifier struct {
	KeySet *KeySetClient
}

func NewVerifier(jwksURL string) *Verifier {
	return &Verifier{KeySet: NewKeySetClient(jwksURL)}
}

// Verify checks an Authorization header value of the form "Bearer <token>"
// and returns the token's subject claim.
func (v *Verifier) Verify(ctx context.Context, authHeader string) (string, error) {
	tokenString, err := extractToken(authHeader)
	if err != nil {
		return "", err
	}

	jwks, err := v.KeySet.Fetch(ctx)
	if err != nil {
		return "", err
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		kid, ok := t.Header["kid"].(string)
		if !ok || kid == "" {
			return nil, ErrUnknownSigningKey
		}
		key, ok := jwks.Key(kid)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSigningKey, kid)
		}
		return key.PublicKey()
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownSigningKey):
			return "", err
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", fmt.Errorf("%w: %v", ErrTokenExpired, err)
		default:
			return "", fmt.Errorf("%w: %v", ErrInvalidSignature, err)
		}
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("%w: token has no subject claim", ErrInvalidSignature)
	}

	return subject, nil
}

func extractToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingAuthHeader
	}

	if !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return "", ErrMissingAuthHeader
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", ErrMissingAuthHeader
	}

	return parts[1], nil
}

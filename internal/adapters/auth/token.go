package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"crewmatch/internal/domain"
)

type crewClaims struct {
	jwt.RegisteredClaims
}

// JWT signs and verifies crew bearer tokens with HS256. The subject is the crew ID.
type JWT struct {
	secret []byte
	issuer string
}

// NewJWT returns a JWT signer/verifier for secret.
func NewJWT(secret, issuer string) *JWT {
	return &JWT{secret: []byte(secret), issuer: issuer}
}

var (
	_ domain.TokenIssuer   = (*JWT)(nil)
	_ domain.TokenVerifier = (*JWT)(nil)
)

func (j *JWT) Issue(crewID string, expiry time.Duration) (string, error) {
	crewID = strings.ToLower(strings.TrimSpace(crewID))
	if crewID == "" {
		return "", fmt.Errorf("%w: crew id is required", domain.ErrInvalidInput)
	}
	now := time.Now()
	claims := crewClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   crewID,
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Verify returns the crew ID carried by a valid, unexpired token.
func (j *JWT) Verify(tokenString string) (string, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired()}
	if j.issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.issuer))
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &crewClaims{}, func(*jwt.Token) (any, error) {
		return j.secret, nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	claims, ok := parsed.Claims.(*crewClaims)
	if !ok || claims.Subject == "" {
		return "", fmt.Errorf("%w: %w", domain.ErrUnauthorized, errors.New("token has no subject"))
	}
	return claims.Subject, nil
}

// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"strings"
	"time"

	"taskvault/config"
	"taskvault/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// sessionValidity is the fixed lifetime of a session token. Expiry is
// the only termination mechanism; there is no refresh or revocation.
const sessionValidity = 7 * 24 * time.Hour

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret []byte        // HMAC key for signing session tokens.
	ttl    time.Duration // Validity window of an issued token.
	now    func() time.Time
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if strings.TrimSpace(cfg.SecretKey.Signing) == "" {
		return nil, errors.New("signing secret must be provided")
	}

	return &jwtService{
		secret: []byte(cfg.SecretKey.Signing),
		ttl:    sessionValidity,
		now:    time.Now,
	}, nil
}

// Issue creates a new signed session token for the given subject.
func (s *jwtService) Issue(subject uuid.UUID) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub": subject.String(),      // Subject (who the token is for)
		"iat": now.Unix(),            // Issued At
		"exp": now.Add(s.ttl).Unix(), // Expiration Time
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign session token")
	}

	return signed, nil
}

// Verify checks the validity of a token string. Signature mismatch,
// malformed structure and expiry all map to service.ErrTokenInvalid so
// the failing check never leaks to the outside.
func (s *jwtService) Verify(tokenString string) (*service.Claims, error) {
	token, err := jwt.Parse(tokenString,
		func(token *jwt.Token) (any, error) {
			// Ensure the signing method is what we expect.
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, errors.Wrap(service.ErrTokenInvalid, "session token rejected")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.Wrap(service.ErrTokenInvalid, "session token claims unreadable")
	}

	subjectStr, err := claims.GetSubject()
	if err != nil || subjectStr == "" {
		return nil, errors.Wrap(service.ErrTokenInvalid, "session token subject missing")
	}

	subject, err := uuid.Parse(subjectStr)
	if err != nil {
		return nil, errors.Wrap(service.ErrTokenInvalid, "session token subject malformed")
	}

	verified := &service.Claims{Subject: subject}
	if issuedAt, err := claims.GetIssuedAt(); err == nil && issuedAt != nil {
		verified.IssuedAt = issuedAt.Time
	}
	if expiresAt, err := claims.GetExpirationTime(); err == nil && expiresAt != nil {
		verified.ExpiresAt = expiresAt.Time
	}

	return verified, nil
}

// ValidityWindow returns the fixed session token lifetime.
func (s *jwtService) ValidityWindow() time.Duration {
	return s.ttl
}

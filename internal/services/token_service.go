package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	AccessTokenTTL       = 7 * 24 * time.Hour
	VerificationTokenTTL = 24 * time.Hour

	tokenTypeAccess = "access"
	tokenTypeVerify = "verify"
)

// Authenticator resolves a bearer token to the user it was issued for.
type Authenticator interface {
	Authenticate(token string) (uuid.UUID, error)
}

type tokenClaims struct {
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenService issues and checks HS256 tokens. Access and verification tokens
// share a secret and are told apart by the typ claim.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

func NewTokenService(secret []byte) *TokenService {
	return &TokenService{secret: secret, now: time.Now}
}

var _ Authenticator = (*TokenService)(nil)

func (t *TokenService) IssueAccess(userID uuid.UUID) (string, error) {
	return t.issue(userID, tokenTypeAccess, AccessTokenTTL)
}

func (t *TokenService) IssueVerification(userID uuid.UUID) (string, error) {
	return t.issue(userID, tokenTypeVerify, VerificationTokenTTL)
}

func (t *TokenService) issue(userID uuid.UUID, typ string, ttl time.Duration) (string, error) {
	now := t.now()
	claims := tokenClaims{
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

// Authenticate accepts access tokens only.
func (t *TokenService) Authenticate(token string) (uuid.UUID, error) {
	id, err := t.parse(token, tokenTypeAccess)
	if err != nil {
		return uuid.Nil, ErrUnauthenticated
	}
	return id, nil
}

// ParseVerification returns the user a verification token was issued for.
func (t *TokenService) ParseVerification(token string) (uuid.UUID, error) {
	id, err := t.parse(token, tokenTypeVerify)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}

func (t *TokenService) parse(token, typ string) (uuid.UUID, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return uuid.Nil, err
	}
	if claims.Type != typ {
		return uuid.Nil, errors.New("unexpected token type")
	}
	return uuid.Parse(claims.Subject)
}

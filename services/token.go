package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"notevault/config"

	"github.com/golang-jwt/jwt/v5"
)

// TokenStatus is the outcome of a validation attempt. Callers branch on
// the status instead of inspecting error strings.
type TokenStatus int

const (
	TokenValid TokenStatus = iota
	TokenExpired
	TokenMalformed
	TokenSignatureInvalid
)

func (s TokenStatus) String() string {
	switch s {
	case TokenValid:
		return "valid"
	case TokenExpired:
		return "expired"
	case TokenMalformed:
		return "malformed"
	case TokenSignatureInvalid:
		return "signature invalid"
	}
	return "unknown"
}

const tokenIssuer = "notevault"

// TokenService issues and validates bearer tokens binding a request to
// a username. Tokens are HMAC-signed with a process-wide secret; there
// is no refresh or revocation, expired tokens require a new login.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

func NewTokenService(cfg config.AuthConfig) (*TokenService, error) {
	method := jwt.GetSigningMethod(cfg.JWTAlgorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", cfg.JWTAlgorithm)
	}
	if !strings.HasPrefix(cfg.JWTAlgorithm, "HS") {
		return nil, fmt.Errorf("signing algorithm %q is not in the HMAC family", cfg.JWTAlgorithm)
	}

	return &TokenService{
		secret: []byte(cfg.JWTSecretKey),
		method: method,
		ttl:    cfg.TokenTTL,
	}, nil
}

// GenerateToken signs a token carrying the username as subject with an
// absolute expiry.
func (s *TokenService) GenerateToken(username string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": username,
		"iss": tokenIssuer,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}

	token := jwt.NewWithClaims(s.method, claims)
	return token.SignedString(s.secret)
}

// ValidateToken verifies signature, expiry and issuer. The username is
// only meaningful when the status is TokenValid.
func (s *TokenService) ValidateToken(tokenString string) (string, TokenStatus) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)

	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", TokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "", TokenSignatureInvalid
	default:
		return "", TokenMalformed
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", TokenMalformed
	}

	username, ok := claims["sub"].(string)
	if !ok || username == "" {
		return "", TokenMalformed
	}

	return username, TokenValid
}

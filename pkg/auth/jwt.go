package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrMissingToken     = errors.New("missing authentication token")
	ErrInvalidClaims    = errors.New("invalid token claims")
)

// Claims represents the JWT claims carried by an authenticated caller
type Claims struct {
	UserID string   `json:"sub"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// JWTConfig holds JWT validation configuration
type JWTConfig struct {
	SecretKey string   // HS256 signing secret
	Issuer    string   // Expected issuer
	Audience  []string // Expected audience
}

// JWTValidator handles JWT validation
type JWTValidator struct {
	secretKey []byte
	issuer    string
	audience  []string
}

// NewJWTValidator creates a new JWT validator
func NewJWTValidator(config JWTConfig) (*JWTValidator, error) {
	if config.SecretKey == "" {
		return nil, errors.New("secret key required")
	}
	return &JWTValidator{
		secretKey: []byte(config.SecretKey),
		issuer:    config.Issuer,
		audience:  config.Audience,
	}, nil
}

// ValidateToken validates a JWT token and returns the claims
func (v *JWTValidator) ValidateToken(tokenString string) (*Claims, error) {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")
	tokenString = strings.TrimSpace(tokenString)

	if tokenString == "" {
		return nil, ErrMissingToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Method)
		}
		return v.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrSignatureInvalid) {
			return nil, ErrInvalidSignature
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	if v.issuer != "" && claims.Issuer != v.issuer {
		return nil, fmt.Errorf("%w: invalid issuer", ErrInvalidClaims)
	}

	if len(v.audience) > 0 {
		validAudience := false
		for _, aud := range v.audience {
			if contains(claims.Audience, aud) {
				validAudience = true
				break
			}
		}
		if !validAudience {
			return nil, fmt.Errorf("%w: invalid audience", ErrInvalidClaims)
		}
	}

	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing user ID", ErrInvalidClaims)
	}

	return claims, nil
}

// UserContext represents user information extracted from a validated token
type UserContext struct {
	UserID string
	Email  string
	Roles  []string
}

type contextKey string

// UserContextKey is the context key for the authenticated caller
const UserContextKey contextKey = "user"

// GetUserFromContext extracts the caller from the request context
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(UserContextKey).(*UserContext)
	if !ok || user == nil {
		return nil, errors.New("user not found in context")
	}
	return user, nil
}

// SetUserInContext adds the caller to the request context
func SetUserInContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

package util

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/ferdian3456/devblog/internal/constant"
	"github.com/ferdian3456/devblog/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"time"
)

var (
	BearerPrefix            = "Bearer "
	TokenIssuer             = "github.com/ferdian3456/devblog"
	AccessTokenDuration     = 24 * time.Hour
	ErrInvalidSigningMethod = errors.New("invalid token signing method")
)

// HashToken hashes a token using SHA256 for storage in the token cache
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

func GenerateAccessToken(userId uuid.UUID, username string, jwtSecretKey string) (model.TokenResponse, error) {
	if jwtSecretKey == "" {
		return model.TokenResponse{}, errors.New("jwt secret key is not configured")
	}

	now := time.Now().UTC()
	claims := &model.Claims{
		UserId:   userId,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    TokenIssuer,
			Subject:   fmt.Sprintf("user:%s", userId.String()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(jwtSecretKey))
	if err != nil {
		return model.TokenResponse{}, err
	}

	return model.TokenResponse{
		AccessToken:          signedToken,
		AccessTokenExpiresIn: int(AccessTokenDuration.Seconds()),
		TokenType:            "Bearer",
	}, nil
}

// ValidateAccessToken checks an Authorization header value and returns the raw token with its claims
func ValidateAccessToken(authHeader string, jwtSecretKey string) (string, *model.Claims, error) {
	if jwtSecretKey == "" {
		return "", nil, errors.New("jwt secret key is not configured")
	}

	tokenString, err := extractBearerToken(authHeader)
	if err != nil {
		return "", nil, err
	}

	token, err := jwt.ParseWithClaims(tokenString, &model.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSigningMethod
		}
		return []byte(jwtSecretKey), nil
	}, jwt.WithIssuer(TokenIssuer))

	if err != nil {
		return "", nil, handleParseError(err)
	}

	claims, ok := token.Claims.(*model.Claims)
	if !ok || !token.Valid || claims.UserId == uuid.Nil {
		return "", nil, newAuthenticationError("Authentication token is invalid")
	}

	return tokenString, claims, nil
}

func extractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", newAuthenticationError("No authentication token is provided")
	}

	if !strings.HasPrefix(authHeader, BearerPrefix) {
		return "", newAuthenticationError("Authentication token format is not match")
	}

	token := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerPrefix))
	if token == "" {
		return "", newAuthenticationError("Authentication token is empty")
	}

	return token, nil
}

func handleParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return newAuthenticationError("Authentication token is malformed")
	case errors.Is(err, jwt.ErrTokenExpired):
		return newAuthenticationError("Authentication token is expired")
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return newAuthenticationError("Authentication token is not valid yet")
	case errors.Is(err, ErrInvalidSigningMethod):
		return newAuthenticationError("Authentication token has invalid signing method")
	default:
		return newAuthenticationError("Authentication token is invalid")
	}
}

func newAuthenticationError(message string) *model.AuthenticationError {
	return &model.AuthenticationError{
		Code:    constant.ERR_UNAUTHORIZED_ERROR,
		Message: message,
		Param:   "accessToken",
	}
}

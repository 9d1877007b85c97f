// Package middleware provides authentication, logging, rate limiting and
// tracing middleware for the application.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// TokenIssuer is the iss claim of every token minted by the API.
	TokenIssuer = "inkwell-api"
	// TokenAudience is the aud claim of every token minted by the API.
	TokenAudience = "inkwell-client"
)

// Identity is the authenticated caller extracted from a token.
type Identity struct {
	UserID   uint
	Username string
}

// IssueToken signs an HS256 token for the given user.
func IssueToken(secret string, userID uint, username string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"username": username,
		"iss":      TokenIssuer,
		"aud":      TokenAudience,
		"exp":      now.Add(ttl).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates tokenString and returns the identity it carries.
func ParseToken(secret, tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	},
		jwt.WithIssuer(TokenIssuer),
		jwt.WithAudience(TokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	// Subject carries the user ID (RFC 7519 "sub").
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, errors.New("invalid token structure - missing subject")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return nil, errors.New("invalid user ID in token")
	}

	username, _ := claims["username"].(string)
	return &Identity{UserID: uint(userID), Username: username}, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(c *fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// OptionalAuth attaches the caller's identity when a valid bearer token is
// present. Anonymous or invalid requests pass through unchanged; routes that
// need a user enforce it separately.
func OptionalAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := BearerToken(c)
		if tokenString == "" {
			return c.Next()
		}

		identity, err := ParseToken(secret, tokenString)
		if err != nil {
			LoggerFromContext(c.UserContext()).Debug("ignoring invalid bearer token")
			return c.Next()
		}

		c.Locals("userID", identity.UserID)
		c.Locals("username", identity.Username)
		c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, identity.UserID))
		return c.Next()
	}
}

// CurrentUserID returns the authenticated user's ID, if any.
func CurrentUserID(c *fiber.Ctx) (uint, bool) {
	uid, ok := c.Locals("userID").(uint)
	return uid, ok && uid != 0
}

package appMiddleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ChampLong29/Multi-Agents-trip-planner/config"
	"github.com/ChampLong29/Multi-Agents-trip-planner/internal/api"
)

var errNoToken = errors.New("authorization header required")

// Authenticate rejects requests without a valid bearer token.
func Authenticate(logger *slog.Logger, jwtCfg config.JWTConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := userFromRequest(r, jwtCfg)
			if err != nil {
				logger.WarnContext(r.Context(), "Authentication failed", slog.String("path", r.URL.Path), slog.Any("error", err))
				api.ErrorResponse(w, r, http.StatusUnauthorized, authErrorMessage(err))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// OptionalAuthenticate attaches the user when a valid token is present and lets
// anonymous requests through. A present but invalid token is still rejected.
func OptionalAuthenticate(logger *slog.Logger, jwtCfg config.JWTConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := userFromRequest(r, jwtCfg)
			switch {
			case errors.Is(err, errNoToken):
				next.ServeHTTP(w, r)
			case err != nil:
				logger.WarnContext(r.Context(), "Authentication failed", slog.String("path", r.URL.Path), slog.Any("error", err))
				api.ErrorResponse(w, r, http.StatusUnauthorized, authErrorMessage(err))
			default:
				next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
			}
		})
	}
}

func userFromRequest(r *http.Request, jwtCfg config.JWTConfig) (uuid.UUID, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return uuid.Nil, errNoToken
	}
	headerParts := strings.Split(authHeader, " ")
	if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
		return uuid.Nil, errors.New("authorization header format must be Bearer {token}")
	}

	secretKey := []byte(jwtCfg.SecretKey)
	if len(secretKey) == 0 {
		return uuid.Nil, errors.New("jwt secret key is not configured")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(headerParts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secretKey, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return uuid.Nil, err
	}
	if !token.Valid {
		return uuid.Nil, errors.New("invalid token")
	}
	if jwtCfg.Issuer != "" && claims.Issuer != jwtCfg.Issuer {
		return uuid.Nil, jwt.ErrTokenInvalidIssuer
	}
	if jwtCfg.Audience != "" && !api.VerifyAudience(claims.Audience, jwtCfg.Audience) {
		return uuid.Nil, jwt.ErrTokenInvalidAudience
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user id in token: %w", err)
	}
	return userID, nil
}

func authErrorMessage(err error) string {
	switch {
	case errors.Is(err, errNoToken):
		return "Authorization header required"
	case errors.Is(err, jwt.ErrTokenExpired):
		return "Token has expired"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "Malformed token"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "Invalid token signature"
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return "Invalid token issuer"
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return "Invalid token audience"
	default:
		return "Invalid or expired token"
	}
}

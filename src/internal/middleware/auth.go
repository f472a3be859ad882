package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/clients"
	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/internal/cache"
	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/internal/config"
	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

type AuthMiddleware struct {
	jwtKey       []byte
	authClient   *clients.AuthClient
	cacheService cache.Service
}

func NewAuthMiddleware(cfg *config.Configuration, authClient *clients.AuthClient, cacheService cache.Service) *AuthMiddleware {
	return &AuthMiddleware{
		jwtKey:       []byte(cfg.Security.JwtKey),
		authClient:   authClient,
		cacheService: cacheService,
	}
}

type Claims struct {
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// RequireAuth validates the bearer token and the session behind it before
// letting the request through. Claims are stored on the gin context for
// handlers downstream.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
			c.Abort()
			return
		}

		claims, err := m.Authenticate(c.Request.Context(), token)
		if err != nil {
			logrus.WithError(err).Warn("Authentication failed")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("userId", claims.UserID)
		c.Set("sessionId", claims.SessionID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// Authenticate verifies a raw token and its backing session. The websocket
// handshake calls this directly since it carries the token as a query
// parameter rather than a header.
func (m *AuthMiddleware) Authenticate(ctx context.Context, token string) (*Claims, error) {
	claims, err := m.validateToken(token)
	if err != nil {
		return nil, err
	}

	if err := m.validateSession(ctx, claims); err != nil {
		return nil, err
	}

	return claims, nil
}

func (m *AuthMiddleware) validateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.jwtKey, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if claims.TokenType != "access" {
		return nil, fmt.Errorf("invalid token type: %s", claims.TokenType)
	}

	return claims, nil
}

func (m *AuthMiddleware) validateSession(ctx context.Context, claims *Claims) error {
	key := fmt.Sprintf("session:%s:%s", claims.UserID, claims.SessionID)

	session, err := m.cacheService.GetActiveSession(ctx, key)
	if err != nil {
		logrus.WithError(err).Warn("Cache lookup failed, falling back to auth service")
	}

	if session == nil {
		session, err = m.authClient.GetSessionById(ctx, claims.SessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return models.ErrSessionNotFound
		}
		if session.UserID != claims.UserID {
			return models.ErrSessionInvalid
		}

		if err := m.cacheService.CacheActiveSession(ctx, session); err != nil {
			logrus.WithError(err).Warn("Failed to cache session after fallback lookup")
		}
	}

	if !session.IsActive {
		return models.ErrSessionInactive
	}

	if session.ExpiresAt.Before(time.Now()) {
		return models.ErrSessionExpired
	}

	if err := m.cacheService.UpdateSessionActivity(ctx, key); err != nil {
		logrus.WithError(err).Debug("Failed to refresh session activity")
	}

	return nil
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return parts[1]
}

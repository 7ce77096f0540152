package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// TokenVerifier is satisfied by *auth.Client.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
	log      *zap.SugaredLogger
}

func NewAuthMiddleware(verifier TokenVerifier, log *zap.SugaredLogger) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, log: log}
}

// RequireAuth admits requests carrying a valid Firebase ID token and stores
// the caller's uid and email in the context.
func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authz := c.Request().Header.Get("Authorization")
		if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
			return c.JSON(http.StatusUnauthorized, map[string]map[string]string{
				"error": {"code": "unauthorized", "message": "unauthorized"},
			})
		}
		tokenStr := strings.TrimPrefix(authz, "Bearer ")
		token, err := m.verifier.VerifyIDToken(c.Request().Context(), tokenStr)
		if err != nil {
			m.log.Warnw("id token rejected", "error", err, "path", c.Path())
			return c.JSON(http.StatusUnauthorized, map[string]map[string]string{
				"error": {"code": "invalid_token", "message": "invalid token"},
			})
		}
		c.Set("uid", token.UID)
		if email, ok := token.Claims["email"].(string); ok {
			c.Set("email", email)
		}
		return next(c)
	}
}

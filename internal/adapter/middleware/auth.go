package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// userIDKey is the echo context key the auth middleware stores the verified
// subject under.
const userIDKey = "auth_user_id"

// Auth verifies a Bearer token signed with the shared HMAC secret and puts
// the subject claim (the user's public id) on the context. Token issuance
// lives outside this service; only verification happens here.
func Auth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := strings.TrimSpace(c.Request().Header.Get("Authorization"))
			if !strings.HasPrefix(raw, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}
			raw = strings.TrimPrefix(raw, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token claims"})
			}
			sub, _ := claims["sub"].(string)
			if !reHex32.MatchString(sub) {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid subject claim"})
			}

			c.Set(userIDKey, sub)
			return next(c)
		}
	}
}

// UserID returns the authenticated user's public id, empty when the route
// skipped Auth.
func UserID(c echo.Context) string {
	s, _ := c.Get(userIDKey).(string)
	return s
}

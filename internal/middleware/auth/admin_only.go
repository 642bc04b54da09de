package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/bookbakery/storefront/internal/models"
)

const adminContextKey = "admin"

type AdminMiddleware struct {
	DB        *gorm.DB
	JWTSecret []byte
}

// RequireAdmin verifies the bearer token and resolves it against the admin
// identity store before letting the request through.
func (m *AdminMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return m.JWTSecret, nil
		})
		if err != nil || !parsed.Valid {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}

		claims, ok := parsed.Claims.(jwt.MapClaims)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
		}
		sub, ok := claims["sub"].(string)
		if !ok || sub == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid subject claim")
		}

		var admin models.AdminUser
		if err := m.DB.WithContext(c.Request().Context()).First(&admin, "id = ?", sub).Error; err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}

		c.Set(adminContextKey, &admin)
		return next(c)
	}
}

func AdminFromContext(c echo.Context) (*models.AdminUser, bool) {
	admin, ok := c.Get(adminContextKey).(*models.AdminUser)
	return admin, ok
}

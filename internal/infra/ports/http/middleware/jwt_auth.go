package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/qrave1/MemStudy/internal/infra/appctx"
)

const (
	CookieName = "jwt"

	bearerPrefix = "Bearer "
)

// JWTAuthMiddleware пускает дальше только запросы с валидным токеном в cookie или в Authorization
func JWTAuthMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := tokenFromRequest(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing or malformed jwt"})
			}

			token, err := jwt.ParseWithClaims(
				raw,
				&jwt.RegisteredClaims{},
				func(token *jwt.Token) (any, error) {
					return []byte(secret), nil
				},
				jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired jwt"})
			}

			claims, ok := token.Claims.(*jwt.RegisteredClaims)
			if !ok || !token.Valid {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired jwt"})
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid subject"})
			}

			c.SetRequest(
				c.Request().WithContext(
					appctx.WithUserID(c.Request().Context(), userID),
				),
			)

			return next(c)
		}
	}
}

func tokenFromRequest(c echo.Context) (string, bool) {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}

	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, bearerPrefix) {
		if token := strings.TrimSpace(header[len(bearerPrefix):]); token != "" {
			return token, true
		}
	}

	return "", false
}

// BuildCookieDomain возвращает значение для cookie.Domain или пустую строку, если Domain не нужно задавать.
// host может быть как cfg.Domain (со схемой), так и r.Host.
func BuildCookieDomain(host string) string {
	if i := strings.Index(host, "://"); i != -1 {
		host = host[i+3:]
	}

	host = strings.TrimSuffix(host, "/")

	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	host = strings.ToLower(strings.TrimSpace(host))

	// для localhost и IP адресов Domain не указываем
	if host == "" || host == "localhost" || net.ParseIP(host) != nil {
		return ""
	}

	parts := strings.Split(host, ".")
	if len(parts) < 2 {
		return ""
	}

	// api.example.com -> .example.com
	return "." + strings.Join(parts[len(parts)-2:], ".")
}

package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/vesturport/spjall/internal/config"
)

type loginRequest struct {
	Password string `json:"password" form:"password"`
}

// handleLogin checks the shared password against the configured bcrypt
// hash and establishes the session cookie.
func (s *Server) handleLogin(c *echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "password required")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.PasswordHash), []byte(req.Password)); err != nil {
		slog.Warn("failed login attempt")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid password")
	}

	expires := time.Now().Add(config.SessionTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expires),
	})
	signed, err := token.SignedString([]byte(s.cfg.SecretKey))
	if err != nil {
		slog.Error("sign session token", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to establish session")
	}

	http.SetCookie(c.Response(), &http.Cookie{
		Name:     config.SessionCookieName,
		Value:    signed,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.NoContent(http.StatusNoContent)
}

// requireSession gates every route behind a valid session cookie.
func (s *Server) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c *echo.Context) error {
		cookie, err := c.Request().Cookie(config.SessionCookieName)
		if err != nil {
			slog.Warn("unauthenticated request", "path", c.Request().URL.Path)
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}

		token, err := jwt.Parse(cookie.Value, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(s.cfg.SecretKey), nil
		})
		if err != nil || !token.Valid {
			slog.Warn("unauthenticated request", "path", c.Request().URL.Path)
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}
		return next(c)
	}
}

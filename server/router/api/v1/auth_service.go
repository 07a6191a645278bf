package v1

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/oivmap/oivmap/server/auth"
	apierrors "github.com/oivmap/oivmap/server/internal/errors"
	"github.com/oivmap/oivmap/store"
)

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates against the static user list by exact string
// comparison and opens a server-side session. There is no lockout and no
// hashing; the user list is trusted seed data.
// POST /api/login
func (s *APIV1Service) Login(c echo.Context) error {
	if !s.loginLimiter.Allow(c.RealIP()) {
		return errorJSON(c, apierrors.RateLimitExceeded("too many login attempts"))
	}

	req := &LoginRequest{}
	if err := c.Bind(req); err != nil {
		return errorJSON(c, apierrors.ValidationFailed("invalid request body"))
	}

	ctx := c.Request().Context()
	user, err := s.Store.GetUser(ctx, &store.FindUser{Username: &req.Username})
	if err != nil {
		slog.Error("failed to look up user", slog.String("username", req.Username), slog.Any("error", err))
		return errorJSON(c, err)
	}
	if user == nil || user.Password != req.Password {
		return errorJSON(c, apierrors.InvalidCredentials())
	}

	session, token, err := s.Sessions.Create(user.ID)
	if err != nil {
		slog.Error("failed to create session", slog.Any("error", err))
		return errorJSON(c, err)
	}

	c.SetCookie(&http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	slog.Info("user logged in", slog.String("username", user.Username), slog.Int64("user_id", int64(user.ID)))

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"user":    convertUser(user),
	})
}

// Logout destroys the session. Logging out without a session is fine.
// POST /api/logout
func (s *APIV1Service) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(auth.SessionCookieName); err == nil {
		s.Sessions.Destroy(cookie.Value)
	}
	c.SetCookie(&http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// CurrentUser returns the session's user, or null without a session.
// GET /api/current-user
func (s *APIV1Service) CurrentUser(c echo.Context) error {
	user, err := s.currentUser(c)
	if err != nil {
		slog.Error("failed to resolve current user", slog.Any("error", err))
		return errorJSON(c, err)
	}
	if user == nil {
		return c.JSON(http.StatusOK, nil)
	}
	return c.JSON(http.StatusOK, convertUser(user))
}

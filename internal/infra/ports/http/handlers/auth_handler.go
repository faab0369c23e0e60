package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/qrave1/MemStudy/internal/application/config"
	"github.com/qrave1/MemStudy/internal/application/constant"
	"github.com/qrave1/MemStudy/internal/infra/appctx"
	"github.com/qrave1/MemStudy/internal/infra/ports/http/dto"
	"github.com/qrave1/MemStudy/internal/infra/ports/http/middleware"
	"github.com/qrave1/MemStudy/internal/usecase"
)

type AuthHandler struct {
	cfg *config.Config

	userUsecase usecase.UserUsecase
}

func NewAuthHandler(cfg *config.Config, userUsecase usecase.UserUsecase) *AuthHandler {
	return &AuthHandler{
		cfg:         cfg,
		userUsecase: userUsecase,
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	user, err := h.userUsecase.CreateUser(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrValidation):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, usecase.ErrUsernameTaken):
			return c.JSON(http.StatusConflict, map[string]string{"error": "username already taken"})
		}

		slog.Error("create user failed", slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create user"})
	}

	return c.JSON(http.StatusCreated, dto.GetMeResponse{ID: user.ID, Username: user.Username})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	user, err := h.userUsecase.ValidateCredentials(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			slog.Warn("invalid credentials", slog.String(constant.UserName, req.Username))
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		}

		slog.Error("validate credentials failed", slog.String(constant.UserName, req.Username), slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not log in"})
	}

	token, err := h.userUsecase.GenerateJWT(user)
	if err != nil {
		slog.Error("generate JWT failed", slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create token"})
	}

	c.SetCookie(h.cookie(token, time.Now().Add(h.cfg.JWTTTL)))

	return c.JSON(http.StatusOK, dto.LoginResponse{Token: token})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	cookie := h.cookie("", time.Unix(0, 0))
	cookie.MaxAge = -1

	c.SetCookie(cookie)

	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) GetMe(c echo.Context) error {
	userID, ok := appctx.UserID(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user ID in context"})
	}

	user, err := h.userUsecase.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
	}

	return c.JSON(http.StatusOK, dto.GetMeResponse{ID: user.ID, Username: user.Username})
}

func (h *AuthHandler) cookie(value string, expires time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     middleware.CookieName,
		Value:    value,
		Expires:  expires,
		Domain:   middleware.BuildCookieDomain(h.cfg.Domain),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	// в debug работаем по http на localhost
	if !h.cfg.Debug {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteNoneMode
	}

	return cookie
}

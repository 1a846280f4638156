package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/propmarket/backend/internal/middleware"
	"github.com/propmarket/backend/internal/models"
	"github.com/propmarket/backend/internal/services"
	"github.com/propmarket/backend/pkg/logger"
	"github.com/propmarket/backend/pkg/utils"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateTTL    = 10 * time.Minute
)

type AuthHandler struct {
	Users       *services.UserService
	Verifier    services.IdentityVerifier
	OAuth       *services.GoogleOAuth
	FrontendURL string
	Secure      bool
}

func NewAuthHandler(users *services.UserService, verifier services.IdentityVerifier, oauth *services.GoogleOAuth, frontendURL string, secure bool) *AuthHandler {
	return &AuthHandler{
		Users:       users,
		Verifier:    verifier,
		OAuth:       oauth,
		FrontendURL: strings.TrimRight(frontendURL, "/"),
		Secure:      secure,
	}
}

func (h *AuthHandler) cookie(name, value string, expires time.Time) *fiber.Cookie {
	sameSite := fiber.CookieSameSiteLaxMode
	if h.Secure {
		sameSite = fiber.CookieSameSiteNoneMode
	}
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.Secure,
		SameSite: sameSite,
	}
}

func (h *AuthHandler) clearCookie(c *fiber.Ctx, name string) {
	expired := h.cookie(name, "", time.Unix(0, 0))
	expired.MaxAge = -1
	c.Cookie(expired)
}

// startSession issues both token cookies for user.
func (h *AuthHandler) startSession(c *fiber.Ctx, user *models.User) error {
	pair, err := utils.GenerateTokenPair(user)
	if err != nil {
		return err
	}
	c.Cookie(h.cookie(middleware.AccessCookie, pair.AccessToken, pair.AccessExpiresAt))
	c.Cookie(h.cookie(middleware.RefreshCookie, pair.RefreshToken, pair.RefreshExpiresAt))
	return nil
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return utils.Error(c, fiber.StatusBadRequest, "Name, email and password are required.")
	}

	user, err := h.Users.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return respondServiceError(c, "signup_failed", err, "")
	}
	if err := h.startSession(c, user); err != nil {
		return respondServiceError(c, "token_issue_failed", err, "")
	}
	return utils.Success(c, fiber.StatusCreated, fiber.Map{"user": user})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return utils.Error(c, fiber.StatusBadRequest, "Email and password are required.")
	}

	user, err := h.Users.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			logger.Warn("login_failed", map[string]interface{}{
				"email": strings.ToLower(strings.TrimSpace(req.Email)),
				"ip":    c.IP(),
			})
			return utils.Error(c, fiber.StatusUnauthorized, "Incorrect email or password.")
		}
		return respondServiceError(c, "login_failed", err, "")
	}
	if err := h.startSession(c, user); err != nil {
		return respondServiceError(c, "token_issue_failed", err, "")
	}

	logger.InfoWithUser(user.ID.String(), "user_logged_in", nil)
	return utils.Success(c, fiber.StatusOK, fiber.Map{"user": user})
}

type googleLoginRequest struct {
	IDToken    string `json:"idToken"`
	Credential string `json:"credential"`
}

// GoogleLogin signs in with an ID token obtained by the frontend.
func (h *AuthHandler) GoogleLogin(c *fiber.Ctx) error {
	if h.Verifier == nil {
		return respondServiceError(c, "google_login_failed", services.ErrIdentityUnavailable, "")
	}

	var req googleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	raw := req.IDToken
	if raw == "" {
		raw = req.Credential
	}
	if raw == "" {
		return utils.FieldError(c, "idToken", "Google ID token is required")
	}

	identity, err := h.Verifier.Verify(c.UserContext(), raw)
	if err != nil {
		logger.Warn("google_token_rejected", map[string]interface{}{
			"ip":    c.IP(),
			"error": err.Error(),
		})
		return utils.Error(c, fiber.StatusUnauthorized, "Invalid Google token")
	}
	return h.finishExternalLogin(c, identity, false)
}

// GoogleURL starts the redirect flow. The state travels in a short-lived
// cookie and is checked on the callback.
func (h *AuthHandler) GoogleURL(c *fiber.Ctx) error {
	if h.OAuth == nil {
		return respondServiceError(c, "google_url_failed", services.ErrIdentityUnavailable, "")
	}

	state, err := h.OAuth.GenerateState()
	if err != nil {
		return respondServiceError(c, "oauth_state_failed", err, "")
	}
	c.Cookie(h.cookie(oauthStateCookie, state, time.Now().Add(oauthStateTTL)))

	return utils.Success(c, fiber.StatusOK, fiber.Map{"url": h.OAuth.AuthCodeURL(state)})
}

func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	if h.OAuth == nil {
		return respondServiceError(c, "google_callback_failed", services.ErrIdentityUnavailable, "")
	}

	state := c.Cookies(oauthStateCookie)
	h.clearCookie(c, oauthStateCookie)
	if state == "" || c.Query("state") != state {
		logger.Warn("oauth_state_mismatch", map[string]interface{}{
			"ip": c.IP(),
		})
		return c.Redirect(h.FrontendURL + "/login?error=invalid_state")
	}
	if errParam := c.Query("error"); errParam != "" {
		return c.Redirect(h.FrontendURL + "/login?error=" + errParam)
	}

	identity, err := h.OAuth.Exchange(c.UserContext(), c.Query("code"))
	if err != nil {
		return c.Redirect(h.FrontendURL + "/login?error=google_auth_failed")
	}
	return h.finishExternalLogin(c, identity, true)
}

func (h *AuthHandler) finishExternalLogin(c *fiber.Ctx, identity *services.ExternalIdentity, redirect bool) error {
	user, err := h.Users.FindOrCreateExternalUser(c.UserContext(), identity)
	if err != nil {
		if redirect {
			logger.Warn("external_login_failed", map[string]interface{}{"error": err.Error()})
			return c.Redirect(h.FrontendURL + "/login?error=google_auth_failed")
		}
		return respondServiceError(c, "external_login_failed", err, "")
	}
	if err := h.startSession(c, user); err != nil {
		return respondServiceError(c, "token_issue_failed", err, "")
	}

	logger.InfoWithUser(user.ID.String(), "user_logged_in", map[string]interface{}{
		"provider": "google",
	})
	if redirect {
		return c.Redirect(h.FrontendURL + "/")
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"user": user})
}

// Refresh issues a new access cookie from a valid refresh cookie.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	raw := c.Cookies(middleware.RefreshCookie)
	if raw == "" {
		return utils.Error(c, fiber.StatusUnauthorized, "Session expired. Please log in again.")
	}

	claims, err := utils.ValidateRefreshToken(raw)
	if err != nil {
		return utils.Error(c, fiber.StatusUnauthorized, "Session expired. Please log in again.")
	}

	user, err := h.Users.GetByID(c.UserContext(), claims.UserID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return utils.Error(c, fiber.StatusUnauthorized, "Session expired. Please log in again.")
		}
		return respondServiceError(c, "token_refresh_failed", err, "")
	}

	token, expiresAt, err := utils.GenerateAccessToken(user)
	if err != nil {
		return respondServiceError(c, "token_issue_failed", err, "")
	}
	c.Cookie(h.cookie(middleware.AccessCookie, token, expiresAt))

	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "Access token refreshed successfully."})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.clearCookie(c, middleware.AccessCookie)
	h.clearCookie(c, middleware.RefreshCookie)
	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "Logged out successfully."})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return utils.Success(c, fiber.StatusOK, fiber.Map{"user": middleware.GetCurrentUser(c)})
}

package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gitedu/docuvault/internal/api/middleware"
	"github.com/gitedu/docuvault/internal/core/ports"
)

// AuthHandler handles HTTP requests for the account lifecycle.
type AuthHandler struct {
	accounts ports.AccountService
	tokenTTL time.Duration
}

func NewAuthHandler(accounts ports.AccountService, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{accounts: accounts, tokenTTL: tokenTTL}
}

// setSessionCookie attaches the signed token as the session cookie. Expiry
// matches the token's own validity window.
func (h *AuthHandler) setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokenTTL.Seconds()),
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// clearSessionCookie overwrites the session cookie with an already-expired
// value. The attributes must match setSessionCookie exactly, or user agents
// may treat the expired cookie as a different one and keep the session alive.
func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// Register creates a new account and grants a session immediately.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /users [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.accounts.Register(c.Request().Context(), ports.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Department: req.Department,
		Role:       req.Role,
	})
	if err != nil {
		return err
	}

	h.setSessionCookie(c, result.Token)
	return c.JSON(http.StatusOK, messageResponse{
		Success: true,
		Message: "User Created Successfully. Please Verify your Email",
	})
}

// VerifyEmail consumes the emailed code for the logged-in account.
//
// @Summary      Verify the account email
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      verifyEmailRequest  true  "Verification code"
// @Success      200   {object}  verifyEmailResponse
// @Failure      400   {object}  map[string]string
// @Router       /users/verify [post]
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	var req verifyEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.accounts.VerifyEmail(c.Request().Context(), ident.ID, req.Token)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, verifyEmailResponse{
		Success: true,
		Message: "Account Verified. Please Login to Continue",
		Role:    user.Role,
	})
}

// Login authenticates credentials and sets the session cookie.
//
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.accounts.Login(c.Request().Context(), req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, result.Token)
	return c.JSON(http.StatusOK, loginResponse{
		Success: true,
		Message: "Login Successful",
		ID:      result.User.ID,
		Name:    result.User.Name,
		Email:   result.User.Email,
		Role:    result.User.Role,
	})
}

// Logout clears the session cookie.
//
// @Summary      Logout
// @Tags         users
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /users/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.clearSessionCookie(c)
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Logged out successfully"})
}

// RequestPasswordChange emails a fresh one-time code to the logged-in user.
//
// @Summary      Request a password-change code
// @Tags         users
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /users/password/request [post]
func (h *AuthHandler) RequestPasswordChange(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.accounts.RequestPasswordChange(c.Request().Context(), ident.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Email sent successfully."})
}

// ChangePassword sets a new password for the logged-in user after verifying
// the one-time code.
//
// @Summary      Change the password
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      changePasswordRequest  true  "Code and new password"
// @Success      200   {object}  messageResponse
// @Failure      401   {object}  map[string]string
// @Router       /users/password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.accounts.ChangePassword(c.Request().Context(), ident.ID, req.Token, req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Password Reset Successfully"})
}

// RequestPasswordReset emails a code to an account the caller cannot log into.
//
// @Summary      Request a password-reset code
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequestRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      404   {object}  map[string]string
// @Router       /users/forgot/request [post]
func (h *AuthHandler) RequestPasswordReset(c echo.Context) error {
	var req forgotPasswordRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.accounts.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Email sent successfully for Password Reset."})
}

// ResetPassword is the unauthenticated completion of the forgot-password flow.
//
// @Summary      Reset a forgotten password
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Email, code, and new password"
// @Success      200   {object}  messageResponse
// @Failure      401   {object}  map[string]string
// @Router       /users/forgot [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.accounts.ResetPassword(c.Request().Context(), req.Email, req.Token, req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Password Reset Successful. Please Login Again"})
}

// DeleteAccount removes the logged-in account, optionally cascading into the
// account's documents. A partial cascade is reported, never hidden: the
// identity is already gone by then and cannot be restored.
//
// @Summary      Delete the account
// @Tags         users
// @Produce      json
// @Param        deleteDocuments  path      bool  true  "Also delete owned documents"
// @Success      200              {object}  deleteAccountResponse
// @Failure      400              {object}  map[string]string
// @Router       /users/{deleteDocuments} [delete]
func (h *AuthHandler) DeleteAccount(c echo.Context) error {
	deleteDocuments, err := strconv.ParseBool(c.Param("deleteDocuments"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid deleteDocuments parameter")
	}

	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	result, err := h.accounts.DeleteAccount(c.Request().Context(), ident.ID, deleteDocuments)
	if err != nil {
		return err
	}

	h.clearSessionCookie(c)

	msg := "User Successfully Deleted"
	if result.CascadeIncomplete {
		msg = "User Deleted. Some documents could not be fully removed, please retry their deletion later"
	}
	return c.JSON(http.StatusOK, deleteAccountResponse{
		Success:           true,
		Message:           msg,
		DocumentsRemoved:  result.DocumentsRemoved,
		DocumentsPartial:  result.DocumentsPartial,
		CascadeIncomplete: result.CascadeIncomplete,
	})
}

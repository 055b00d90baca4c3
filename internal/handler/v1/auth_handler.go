package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/carelink/carelink-api/internal/domain"
	"github.com/carelink/carelink-api/internal/service"
)

type AuthHandler struct {
	authSvc        *service.AuthService
	frontendOrigin string
}

func NewAuthHandler(authSvc *service.AuthService, frontendOrigin string) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, frontendOrigin: frontendOrigin}
}

type registerRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Phone    string      `json:"phone"`
	Role     domain.Role `json:"role"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authSvc.Register(c.Request.Context(), &service.RegisterCommand{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     req.Role,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, result)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, result)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authSvc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, result)
}

// GoogleRedirect sends the browser to the Google consent screen. The state
// parameter is random per request and echoed back on the callback.
func (h *AuthHandler) GoogleRedirect(c *gin.Context) {
	state := uuid.NewString()
	c.SetCookie("oauth_state", state, 600, "/", "", true, true)
	c.Redirect(http.StatusFound, h.authSvc.GoogleAuthURL(state))
}

// GoogleCallback finishes the OAuth dance. Known identities get a session;
// first-timers are redirected to the SPA's role-selection page carrying a
// short-lived registration token.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	cookieState, err := c.Cookie("oauth_state")
	if err != nil || state == "" || state != cookieState {
		respondError(c, http.StatusBadRequest, "invalid oauth state")
		return
	}

	code := c.Query("code")
	if code == "" {
		respondError(c, http.StatusBadRequest, "missing authorization code")
		return
	}

	result, err := h.authSvc.HandleGoogleCallback(c.Request.Context(), code, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if result.RegistrationToken != "" {
		c.Redirect(http.StatusFound, h.frontendOrigin+"/auth/select-role?token="+result.RegistrationToken)
		return
	}

	respondOK(c, result.Result)
}

type completeRegistrationRequest struct {
	RegistrationToken string      `json:"registration_token"`
	Role              domain.Role `json:"role"`
}

func (h *AuthHandler) CompleteRegistration(c *gin.Context) {
	var req completeRegistrationRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authSvc.CompleteRegistration(c.Request.Context(), req.RegistrationToken, req.Role, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, result)
}

package handler

import (
	"github.com/gin-gonic/gin"

	"ezwallet/internal/auth"
	"ezwallet/internal/dto"
	"ezwallet/internal/service"
	"ezwallet/pkg/response"
)

// AuthHandler handles account lifecycle HTTP requests
type AuthHandler struct {
	authGuard
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService, verifier *auth.Verifier, codec *auth.Codec) *AuthHandler {
	return &AuthHandler{
		authGuard:   authGuard{verifier: verifier, codec: codec},
		authService: authService,
	}
}

// Register handles user registration
// POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, result)
}

// RegisterAdmin handles admin registration
// POST /api/admin
func (h *AuthHandler) RegisterAdmin(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.RegisterAdmin(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, result)
}

// Login issues the session cookies
// POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tokens, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}

	setAuthCookie(c, accessTokenCookie, tokens.AccessToken, accessTokenMaxAge)
	setAuthCookie(c, refreshTokenCookie, tokens.RefreshToken, refreshTokenMaxAge)
	response.OK(c, tokens)
}

// Logout clears the session
// GET /api/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	refreshToken, _ := c.Cookie(refreshTokenCookie)

	result, err := h.authService.Logout(c.Request.Context(), refreshToken)
	if err != nil {
		fail(c, err)
		return
	}

	clearAuthCookies(c)
	response.OK(c, result)
}

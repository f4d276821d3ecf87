package handler

import (
	"github.com/gin-gonic/gin"

	"ezwallet/internal/auth"
	"ezwallet/internal/dto"
	"ezwallet/internal/service"
	"ezwallet/pkg/response"
)

// UserHandler handles user account HTTP requests
type UserHandler struct {
	authGuard
	userService service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, verifier *auth.Verifier, codec *auth.Codec) *UserHandler {
	return &UserHandler{
		authGuard:   authGuard{verifier: verifier, codec: codec},
		userService: userService,
	}
}

// List returns every registered user
// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	if !h.authorize(c, auth.Admin()) {
		return
	}

	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, users)
}

// Get returns one user
// GET /api/users/:username
func (h *UserHandler) Get(c *gin.Context) {
	if !h.authorize(c, auth.User(c.Param("username")), auth.Admin()) {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), c.Param("username"))
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, user)
}

// Delete removes a regular user and their data
// DELETE /api/users
func (h *UserHandler) Delete(c *gin.Context) {
	if !h.authorize(c, auth.Admin()) {
		return
	}

	var req dto.DeleteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.userService.Delete(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, result)
}

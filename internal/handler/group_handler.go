package handler

import (
	"github.com/gin-gonic/gin"

	"ezwallet/internal/auth"
	"ezwallet/internal/dto"
	"ezwallet/internal/service"
	"ezwallet/pkg/response"
)

// GroupHandler handles group HTTP requests
type GroupHandler struct {
	authGuard
	groupService service.GroupService
}

// NewGroupHandler creates a new GroupHandler
func NewGroupHandler(groupService service.GroupService, verifier *auth.Verifier, codec *auth.Codec) *GroupHandler {
	return &GroupHandler{
		authGuard:    authGuard{verifier: verifier, codec: codec},
		groupService: groupService,
	}
}

// Create makes a new group with the caller as a member
// POST /api/groups
func (h *GroupHandler) Create(c *gin.Context) {
	if !h.authorize(c, auth.Simple()) {
		return
	}

	claims := h.sessionClaims(c)
	if claims == nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.groupService.Create(c.Request.Context(), claims.Email, &req)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, result)
}

// List returns every group
// GET /api/groups
func (h *GroupHandler) List(c *gin.Context) {
	if !h.authorize(c, auth.Admin()) {
		return
	}

	groups, err := h.groupService.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, groups)
}

// Get returns one group
// GET /api/groups/:name
func (h *GroupHandler) Get(c *gin.Context) {
	name := c.Param("name")
	emails, err := h.groupService.MemberEmails(c.Request.Context(), name)
	if err != nil {
		fail(c, err)
		return
	}
	if !h.authorize(c, auth.Group(emails), auth.Admin()) {
		return
	}

	group, err := h.groupService.Get(c.Request.Context(), name)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, group)
}

// AddMembers adds members to the caller's group
// PATCH /api/groups/:name/add
func (h *GroupHandler) AddMembers(c *gin.Context) {
	name := c.Param("name")
	emails, err := h.groupService.MemberEmails(c.Request.Context(), name)
	if err != nil {
		fail(c, err)
		return
	}
	if !h.authorize(c, auth.Group(emails)) {
		return
	}

	h.addMembers(c, name)
}

// InsertMembers is the admin variant of AddMembers
// PATCH /api/groups/:name/insert
func (h *GroupHandler) InsertMembers(c *gin.Context) {
	name := c.Param("name")
	if _, err := h.groupService.MemberEmails(c.Request.Context(), name); err != nil {
		fail(c, err)
		return
	}
	if !h.authorize(c, auth.Admin()) {
		return
	}

	h.addMembers(c, name)
}

func (h *GroupHandler) addMembers(c *gin.Context, name string) {
	var req dto.EmailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.groupService.AddMembers(c.Request.Context(), name, &req)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, result)
}

// RemoveMembers removes members from the caller's group
// PATCH /api/groups/:name/remove
func (h *GroupHandler) RemoveMembers(c *gin.Context) {
	name := c.Param("name")
	emails, err := h.groupService.MemberEmails(c.Request.Context(), name)
	if err != nil {
		fail(c, err)
		return
	}
	if !h.authorize(c, auth.Group(emails)) {
		return
	}

	h.removeMembers(c, name)
}

// PullMembers is the admin variant of RemoveMembers
// PATCH /api/groups/:name/pull
func (h *GroupHandler) PullMembers(c *gin.Context) {
	name := c.Param("name")
	if _, err := h.groupService.MemberEmails(c.Request.Context(), name); err != nil {
		fail(c, err)
		return
	}
	if !h.authorize(c, auth.Admin()) {
		return
	}

	h.removeMembers(c, name)
}

func (h *GroupHandler) removeMembers(c *gin.Context, name string) {
	var req dto.EmailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.groupService.RemoveMembers(c.Request.Context(), name, &req)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, result)
}

// Delete removes a group
// DELETE /api/groups
func (h *GroupHandler) Delete(c *gin.Context) {
	if !h.authorize(c, auth.Admin()) {
		return
	}

	var req dto.DeleteGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.groupService.Delete(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, result)
}

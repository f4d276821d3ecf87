package handler

import (
	"github.com/gin-gonic/gin"

	"ezwallet/internal/auth"
	"ezwallet/internal/dto"
	"ezwallet/internal/service"
	"ezwallet/pkg/response"
)

// CategoryHandler handles category HTTP requests
type CategoryHandler struct {
	authGuard
	categoryService service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService service.CategoryService, verifier *auth.Verifier, codec *auth.Codec) *CategoryHandler {
	return &CategoryHandler{
		authGuard:       authGuard{verifier: verifier, codec: codec},
		categoryService: categoryService,
	}
}

// Create registers a new category
// POST /api/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	if !h.authorize(c, auth.Admin()) {
		return
	}

	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, category)
}

// List returns every category
// GET /api/categories
func (h *CategoryHandler) List(c *gin.Context) {
	if !h.authorize(c, auth.User(c.Param("username")), auth.Admin()) {
		return
	}

	categories, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, categories)
}

// Update renames a category and repoints its transactions
// PATCH /api/categories/:type
func (h *CategoryHandler) Update(c *gin.Context) {
	if !h.authorize(c, auth.Admin()) {
		return
	}

	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.categoryService.Update(c.Request.Context(), c.Param("type"), &req)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, result)
}

// Delete removes categories
// DELETE /api/categories
func (h *CategoryHandler) Delete(c *gin.Context) {
	if !h.authorize(c, auth.Admin()) {
		return
	}

	var req dto.DeleteCategoriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.categoryService.Delete(c.Request.Context(), req.Types)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, result)
}

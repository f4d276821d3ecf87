package handler

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/gin-gonic/gin"

	"ezwallet/internal/auth"
	"ezwallet/internal/dto"
	"ezwallet/internal/filter"
	"ezwallet/internal/service"
	"ezwallet/pkg/response"
)

// TransactionHandler handles transaction HTTP requests
type TransactionHandler struct {
	authGuard
	transactionService service.TransactionService
	groupService       service.GroupService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(
	transactionService service.TransactionService,
	groupService service.GroupService,
	verifier *auth.Verifier,
	codec *auth.Codec,
) *TransactionHandler {
	return &TransactionHandler{
		authGuard:          authGuard{verifier: verifier, codec: codec},
		transactionService: transactionService,
		groupService:       groupService,
	}
}

// Create records a transaction for the route's user
// POST /api/users/:username/transactions
func (h *TransactionHandler) Create(c *gin.Context) {
	username := c.Param("username")
	if !h.authorize(c, auth.User(username), auth.Admin()) {
		return
	}

	// The session owner must be the route's user, admins included.
	claims := h.sessionClaims(c)
	if claims == nil || claims.Username != username {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tx, err := h.transactionService.Create(c.Request.Context(), username, &req)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, tx)
}

// All returns every transaction in the system
// GET /api/transactions
func (h *TransactionHandler) All(c *gin.Context) {
	if !h.authorize(c, auth.Admin()) {
		return
	}

	details, err := h.transactionService.All(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, details)
}

// ByUser returns a user's transactions, narrowed by the date and amount
// query parameters
// GET /api/users/:username/transactions
func (h *TransactionHandler) ByUser(c *gin.Context) {
	username := c.Param("username")
	if !h.authorize(c, auth.User(username)) {
		return
	}

	extra, err := queryFilters(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	details, err := h.transactionService.ByUser(c.Request.Context(), username, extra)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, details)
}

// ByUserAdmin returns a user's transactions without filtering
// GET /api/transactions/users/:username
func (h *TransactionHandler) ByUserAdmin(c *gin.Context) {
	if !h.authorize(c, auth.Admin()) {
		return
	}

	details, err := h.transactionService.ByUser(c.Request.Context(), c.Param("username"), nil)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, details)
}

// ByUserCategory returns a user's transactions of one category
// GET /api/users/:username/transactions/category/:category
// GET /api/transactions/users/:username/category/:category
func (h *TransactionHandler) ByUserCategory(c *gin.Context) {
	username := c.Param("username")
	if !h.authorize(c, auth.User(username), auth.Admin()) {
		return
	}

	details, err := h.transactionService.ByUserCategory(c.Request.Context(), username, c.Param("category"))
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, details)
}

// ByGroup returns the transactions of a group's members
// GET /api/groups/:name/transactions[/category/:category]
func (h *TransactionHandler) ByGroup(c *gin.Context) {
	name := c.Param("name")
	emails, err := h.groupService.MemberEmails(c.Request.Context(), name)
	if err != nil {
		fail(c, err)
		return
	}
	if !h.authorize(c, auth.Group(emails)) {
		return
	}

	details, err := h.transactionService.ByGroup(c.Request.Context(), name, c.Param("category"))
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, details)
}

// ByGroupAdmin is the admin variant of ByGroup
// GET /api/transactions/groups/:name[/category/:category]
func (h *TransactionHandler) ByGroupAdmin(c *gin.Context) {
	name := c.Param("name")
	if _, err := h.groupService.MemberEmails(c.Request.Context(), name); err != nil {
		fail(c, err)
		return
	}
	if !h.authorize(c, auth.Admin()) {
		return
	}

	details, err := h.transactionService.ByGroup(c.Request.Context(), name, c.Param("category"))
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, details)
}

// Delete removes one transaction owned by the route's user
// DELETE /api/users/:username/transactions
func (h *TransactionHandler) Delete(c *gin.Context) {
	username := c.Param("username")
	if !h.authorize(c, auth.User(username), auth.Admin()) {
		return
	}

	var req dto.DeleteTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.transactionService.Delete(c.Request.Context(), username, req.ID)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, result)
}

// DeleteMany removes a batch of transactions
// DELETE /api/transactions
func (h *TransactionHandler) DeleteMany(c *gin.Context) {
	if !h.authorize(c, auth.Admin()) {
		return
	}

	var req dto.DeleteTransactionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.transactionService.DeleteMany(c.Request.Context(), req.IDs)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, result)
}

// queryFilters builds the date and amount predicate fragments from the
// request's query string
func queryFilters(c *gin.Context) ([]sq.Sqlizer, error) {
	var extra []sq.Sqlizer

	dateFrag, err := filter.Date(c.Query("date"), c.Query("from"), c.Query("upTo"))
	if err != nil {
		return nil, err
	}
	if dateFrag != nil {
		extra = append(extra, dateFrag)
	}

	amountFrag, err := filter.Amount(c.Query("min"), c.Query("max"))
	if err != nil {
		return nil, err
	}
	if amountFrag != nil {
		extra = append(extra, amountFrag)
	}

	return extra, nil
}

package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RefreshedTokenKey is the gin context key under which handlers stash the
// token-renewal advisory before writing the response body.
const RefreshedTokenKey = "refreshedTokenMessage"

// Body is the JSON envelope every endpoint answers with.
type Body struct {
	Data                  interface{} `json:"data,omitempty"`
	Error                 string      `json:"error,omitempty"`
	RefreshedTokenMessage string      `json:"refreshedTokenMessage,omitempty"`
}

// OK writes a 200 response with the given payload. If a token renewal
// happened during authorization the advisory is carried along.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{
		Data:                  data,
		RefreshedTokenMessage: c.GetString(RefreshedTokenKey),
	})
}

// Error writes an error response with the given status and message
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Body{Error: message})
}

// BadRequest writes a 400 response
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized writes a 401 response
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// InternalError writes a 500 response
func InternalError(c *gin.Context, err error) {
	Error(c, http.StatusInternalServerError, err.Error())
}

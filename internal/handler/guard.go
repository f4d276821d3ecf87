package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ezwallet/internal/auth"
	"ezwallet/internal/service"
	"ezwallet/pkg/response"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
	cookiePath         = "/api"

	accessTokenMaxAge  = 3600
	refreshTokenMaxAge = 7 * 24 * 3600
)

// authGuard runs capability checks for handlers and applies token renewals
// to the outbound response. Embedded by every handler that guards routes.
type authGuard struct {
	verifier *auth.Verifier
	codec    *auth.Codec
}

// authorize checks the session cookies against the given requirements. On
// failure it writes the 401 and returns false. On a silent renewal the new
// access cookie and the advisory are attached to the response.
func (g *authGuard) authorize(c *gin.Context, reqs ...auth.Requirement) bool {
	access, _ := c.Cookie(accessTokenCookie)
	refresh, _ := c.Cookie(refreshTokenCookie)

	var result auth.Result
	if len(reqs) == 1 {
		result = g.verifier.Check(access, refresh, reqs[0])
	} else {
		result = g.verifier.CheckAny(access, refresh, reqs...)
	}

	if !result.Authorized {
		response.Unauthorized(c, result.Cause)
		return false
	}
	if result.RenewedAccessToken != "" {
		setAuthCookie(c, accessTokenCookie, result.RenewedAccessToken, accessTokenMaxAge)
		c.Set(response.RefreshedTokenKey, result.RefreshMessage)
	}
	return true
}

// sessionClaims returns the claims of the current session, falling back to
// the refresh token when the access token is no longer parseable. Both
// tokens carry the same claims.
func (g *authGuard) sessionClaims(c *gin.Context) *auth.Claims {
	access, _ := c.Cookie(accessTokenCookie)
	if claims, err := g.codec.Parse(access); err == nil {
		return claims
	}
	refresh, _ := c.Cookie(refreshTokenCookie)
	if claims, err := g.codec.Parse(refresh); err == nil {
		return claims
	}
	return nil
}

func setAuthCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(name, value, maxAge, cookiePath, "", true, true)
}

func clearAuthCookies(c *gin.Context) {
	setAuthCookie(c, accessTokenCookie, "", -1)
	setAuthCookie(c, refreshTokenCookie, "", -1)
}

// clientErrors are service failures whose message goes back verbatim with a
// 400 status. Anything else is a 500.
var clientErrors = []error{
	service.ErrMissingParameters,
	service.ErrEmptyParameters,
	service.ErrMailFormat,
	service.ErrUserNotFound,
	service.ErrEmailFormat,
	service.ErrAlreadyExists,
	service.ErrNeedToRegister,
	service.ErrWrongPassword,
	service.ErrNotLoggedIn,
	service.ErrCannotDeleteAdmin,
	service.ErrCategoryExists,
	service.ErrCategoryNotFound,
	service.ErrLastCategory,
	service.ErrInvalidAmount,
	service.ErrUserNotExists,
	service.ErrUsernameMismatch,
	service.ErrEmptyID,
	service.ErrTransactionNotFound,
	service.ErrNotYourTransaction,
	service.ErrGroupNotFound,
	service.ErrGroupExists,
	service.ErrGroupNameEmpty,
	service.ErrEmptyGroupName,
	service.ErrAllEmailsInvalid,
	service.ErrCallerInGroup,
	service.ErrGroupWouldBeEmpty,
	service.ErrMissingAttributes,
}

// fail writes the HTTP translation of a service error
func fail(c *gin.Context, err error) {
	for _, known := range clientErrors {
		if errors.Is(err, known) {
			response.BadRequest(c, err.Error())
			return
		}
	}
	response.InternalError(c, err)
}

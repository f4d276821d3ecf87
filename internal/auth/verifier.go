package auth

import (
	"errors"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"ezwallet/internal/domain"
)

// RefreshAdvisory is attached to the outcome whenever a new access token is
// minted so the caller knows to re-capture it.
const RefreshAdvisory = "Access token has been refreshed. Remember to copy the new one in the headers of subsequent calls"

// Result is the outcome of an authorization check. The verifier never
// returns an error: every failure is folded into Cause. When the access
// token was silently renewed, RenewedAccessToken carries the replacement and
// RefreshMessage the advisory for the client.
type Result struct {
	Authorized         bool
	Cause              string
	RenewedAccessToken string
	RefreshMessage     string
}

// Verifier decides whether a pair of session cookies satisfies a capability
// requirement. It trusts the signed claims and performs no storage lookups,
// so revocations only take effect once both tokens expire.
type Verifier struct {
	codec *Codec
}

// NewVerifier creates a Verifier on top of the given codec
func NewVerifier(codec *Codec) *Verifier {
	return &Verifier{codec: codec}
}

// Check evaluates one requirement against the access/refresh cookie pair.
// An empty string stands for a missing cookie.
func (v *Verifier) Check(accessToken, refreshToken string, req Requirement) Result {
	if accessToken == "" || refreshToken == "" {
		return Result{Cause: "Unauthorized"}
	}

	access, err := v.codec.Parse(accessToken)
	if err != nil {
		return v.recover(refreshToken, err)
	}
	refresh, err := v.codec.Parse(refreshToken)
	if err != nil {
		return v.recover(refreshToken, err)
	}

	if missingInfo(access) || missingInfo(refresh) {
		return Result{Cause: "Token is missing information"}
	}
	if access.Username != refresh.Username ||
		access.Email != refresh.Email ||
		access.Role != refresh.Role {
		return Result{Cause: "Mismatched users"}
	}

	switch req.Type {
	case AuthUser:
		if req.Username == "" {
			return Result{Cause: "Cannot detect the user"}
		}
		if req.Username != access.Username {
			return Result{Cause: "Requested user different from the logged one"}
		}
	case AuthAdmin:
		if access.Role != string(domain.RoleAdmin) {
			return Result{Cause: "Not admin"}
		}
	case AuthGroup:
		if !slices.Contains(req.Emails, access.Email) {
			return Result{Cause: "User not in group"}
		}
	}

	return Result{Authorized: true, Cause: "Authorized"}
}

// recover handles a token parse failure. An expired access token is
// refreshable: if the refresh token still verifies, a brand-new access token
// is minted from its claims and the check succeeds. Note the capability
// predicate is NOT re-evaluated on this path; the renewed session is
// authorized on the strength of the refresh token alone.
func (v *Verifier) recover(refreshToken string, parseErr error) Result {
	if !errors.Is(parseErr, jwt.ErrTokenExpired) {
		return Result{Cause: causeOf(parseErr)}
	}

	refresh, err := v.codec.Parse(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Result{Cause: "Perform login again"}
		}
		return Result{Cause: causeOf(err)}
	}

	renewed, err := v.codec.IssueAccess(Claims{
		Username: refresh.Username,
		Email:    refresh.Email,
		ID:       refresh.ID,
		Role:     refresh.Role,
	})
	if err != nil {
		return Result{Cause: causeOf(err)}
	}

	return Result{
		Authorized:         true,
		Cause:              "Authorized",
		RenewedAccessToken: renewed,
		RefreshMessage:     RefreshAdvisory,
	}
}

// CheckAny evaluates the requirements in order, short-circuiting on the
// first success. On total failure the distinct causes are joined with
// " or "; a cause already contained in the accumulated message is skipped.
func (v *Verifier) CheckAny(accessToken, refreshToken string, reqs ...Requirement) Result {
	var message string
	for _, req := range reqs {
		res := v.Check(accessToken, refreshToken, req)
		if res.Authorized {
			return res
		}
		if message == "" {
			message = res.Cause
		} else if !strings.Contains(message, res.Cause) {
			message += " or " + res.Cause
		}
	}
	return Result{Cause: message}
}

func missingInfo(c *Claims) bool {
	return c.Username == "" || c.Email == "" || c.Role == ""
}

func causeOf(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "Malformed token"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "Invalid signature"
	default:
		return err.Error()
	}
}

package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"hidden-market/internal/clientstate"
	market "hidden-market/internal/marketService"
	"hidden-market/internal/marketerrors"
	"hidden-market/utils"

	"github.com/gin-gonic/gin"
)

const (
	clientKey    = "client"
	sessionIDKey = "session_id"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message.
// Errors that carry alert text keep it as the message.
func MapErrorToHTTP(err error) (int, string) {
	status, message := statusFor(err)
	if alert, ok := market.AlertMessage(err); ok {
		message = alert
	}
	return status, message
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, marketerrors.ErrListingNotFound):
		return http.StatusNotFound, "listing not found"
	case errors.Is(err, marketerrors.ErrInvalidListing):
		return http.StatusBadRequest, "invalid listing details"
	case errors.Is(err, marketerrors.ErrInvalidBid):
		return http.StatusBadRequest, "invalid bid details"
	case errors.Is(err, marketerrors.ErrInvalidFilter):
		return http.StatusBadRequest, "invalid listing filter"
	case errors.Is(err, marketerrors.ErrBidTooLow):
		return http.StatusConflict, "bid amount too low"
	case errors.Is(err, marketerrors.ErrStalePrice):
		return http.StatusConflict, "listing price changed"
	case errors.Is(err, marketerrors.ErrListingClosed):
		return http.StatusConflict, "listing closed"
	case errors.Is(err, marketerrors.ErrBuyNowUnavailable):
		return http.StatusConflict, "buy-now not available"
	case errors.Is(err, marketerrors.ErrNotOwner):
		return http.StatusForbidden, "only the seller can do this"
	case errors.Is(err, marketerrors.ErrUnauthenticated):
		return http.StatusUnauthorized, "login required"
	case errors.Is(err, marketerrors.ErrEmptyName):
		return http.StatusBadRequest, "display name required"
	case errors.Is(err, marketerrors.ErrSelfChat):
		return http.StatusBadRequest, "cannot chat with yourself"
	case errors.Is(err, marketerrors.ErrNoActiveChat):
		return http.StatusConflict, "no conversation open"
	case errors.Is(err, marketerrors.ErrEmptyMessage):
		return http.StatusBadRequest, "message is empty"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// RespondError maps err, answers the request and logs the failure
func RespondError(c *gin.Context, handlerName string, err error, fields map[string]any) {
	status, message := MapErrorToHTTP(err)
	utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)

	if fields == nil {
		fields = map[string]any{}
	}
	fields["handler"] = handlerName
	fields["error"] = err.Error()
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": request failed", fields)
		return
	}
	utils.Warn(handlerName+": request rejected", fields)
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}

// SetSession stores the session's client on the request context
func SetSession(c *gin.Context, sessionID string, client *clientstate.Client) {
	c.Set(sessionIDKey, sessionID)
	c.Set(clientKey, client)
}

// ClientFrom returns the session client stored by SetSession
func ClientFrom(c *gin.Context) (*clientstate.Client, string, bool) {
	v, ok := c.Get(clientKey)
	if !ok {
		return nil, "", false
	}
	client, ok := v.(*clientstate.Client)
	if !ok {
		return nil, "", false
	}
	return client, c.GetString(sessionIDKey), true
}

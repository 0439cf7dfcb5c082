package handler

import (
	"errors"
	"net/http"

	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/BloggingApp/social-service/internal/service"
	"github.com/gin-gonic/gin"
)

var (
	errUnauthenticated = errors.New("please login")
	errTokenExpired    = errors.New("please re-authenticate")
	errInvalidToken    = errors.New("invalid token")
	errUnauthorized    = errors.New("you are not allowed to perform this action")
	errInvalidID       = errors.New("provided an invalid ID")
	errFileRequired    = errors.New("please provide a file")
)

var errorStatuses = []struct {
	err    error
	status int
}{
	{service.ErrUserAlreadyExists, http.StatusNotAcceptable},
	{service.ErrPhoneNumberAlreadyExists, http.StatusNotAcceptable},
	{service.ErrInvalidCredentials, http.StatusNotAcceptable},
	{service.ErrNotFollowing, http.StatusNotAcceptable},
	{service.ErrUserNotFound, http.StatusNotFound},
	{service.ErrPostNotFound, http.StatusNotFound},
	{service.ErrSelfFollow, http.StatusForbidden},
	{service.ErrSelfUnfollow, http.StatusForbidden},
	{service.ErrAlreadyFollowing, http.StatusBadRequest},
	{service.ErrSamePassword, http.StatusBadRequest},
	{service.ErrTokenExpiredOrInvalid, http.StatusBadRequest},
	{service.ErrInvalidMedia, http.StatusBadRequest},
	{service.ErrBlankText, http.StatusBadRequest},
	{service.ErrInvalidRelationship, http.StatusBadRequest},
	{service.ErrTimeout, http.StatusServiceUnavailable},
	{errUnauthenticated, http.StatusUnauthorized},
	{errTokenExpired, http.StatusUnauthorized},
	{errInvalidToken, http.StatusUnauthorized},
	{errUnauthorized, http.StatusForbidden},
	{errInvalidID, http.StatusBadRequest},
	{errFileRequired, http.StatusBadRequest},
}

// errorStatus maps a known error to its status code. Anything unknown is
// reported as an internal error without its text.
func errorStatus(err error) (int, string) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status, e.err.Error()
		}
	}
	return http.StatusInternalServerError, service.ErrInternal.Error()
}

func abortWithError(c *gin.Context, err error) {
	status, message := errorStatus(err)
	c.AbortWithStatusJSON(status, dto.NewBasicResponse(false, message))
}

func abortWithBindingError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
}

package handler

import (
	"errors"
	"strings"

	"github.com/BloggingApp/social-service/pkg/utils"
	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

type TokenVerifier interface {
	Verify(token string) (*utils.Principal, error)
}

func bearerToken(header string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(header, bearer) {
		return "", false
	}

	token := strings.TrimSpace(header[len(bearer):])
	return token, token != ""
}

// authMiddleware verifies the bearer token and stores the principal for
// the handlers and policies that follow.
func (h *Handler) authMiddleware(c *gin.Context) {
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		abortWithError(c, errUnauthenticated)
		return
	}

	principal, err := h.tokens.Verify(token)
	if err != nil {
		if errors.Is(err, utils.ErrTokenExpired) {
			abortWithError(c, errTokenExpired)
			return
		}
		abortWithError(c, errInvalidToken)
		return
	}

	c.Set(principalKey, *principal)

	c.Next()
}

func getPrincipal(c *gin.Context) utils.Principal {
	value, _ := c.Get(principalKey)
	principal, _ := value.(utils.Principal)
	return principal
}

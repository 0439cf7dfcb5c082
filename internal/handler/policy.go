package handler

import (
	"github.com/BloggingApp/social-service/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Role int

const (
	RoleAny Role = iota
	// RoleElevated is held by admins and super admins alike.
	RoleElevated
	RoleSuperAdmin
)

type Ownership int

const (
	OwnershipNone Ownership = iota
	// OwnershipPathAccount requires the ":id" account to be the caller.
	OwnershipPathAccount
	// OwnershipPost requires the ":id" post to belong to the caller.
	OwnershipPost
)

// Policy is the access rule a protected route declares. Elevated principals
// pass every ownership check.
type Policy struct {
	Role      Role
	Ownership Ownership
}

var (
	anyAccount   = Policy{}
	accountOwner = Policy{Ownership: OwnershipPathAccount}
	postOwner    = Policy{Ownership: OwnershipPost}
	superAdmin   = Policy{Role: RoleSuperAdmin}
)

func (r Role) allows(p utils.Principal) bool {
	switch r {
	case RoleAny:
		return true
	case RoleElevated:
		return p.Elevated()
	case RoleSuperAdmin:
		return p.IsSuperAdmin
	}
	return false
}

// authorize runs after authMiddleware and enforces policy.
func (h *Handler) authorize(policy Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := getPrincipal(c)

		if !policy.Role.allows(principal) {
			abortWithError(c, errUnauthorized)
			return
		}

		if policy.Ownership == OwnershipNone || principal.Elevated() {
			c.Next()
			return
		}

		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			abortWithError(c, errInvalidID)
			return
		}

		ownerID := id
		if policy.Ownership == OwnershipPost {
			ownerID, err = h.services.Post.OwnerID(c.Request.Context(), id)
			if err != nil {
				abortWithError(c, err)
				return
			}
		}

		if ownerID != principal.SubjectID {
			abortWithError(c, errUnauthorized)
			return
		}

		c.Next()
	}
}

// protected chains the gate and the policy for one route.
func (h *Handler) protected(policy Policy, handler gin.HandlerFunc) []gin.HandlerFunc {
	return []gin.HandlerFunc{h.authMiddleware, h.authorize(policy), handler}
}

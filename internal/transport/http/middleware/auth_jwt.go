package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"warbler/internal/core/auth"
	resp "warbler/internal/transport/http/response"
)

const (
	KeyClaims = "claims"
	KeyUserID = "uid"
)

// AuthJWT guards the admin API with a bearer token carrying requireRole.
func AuthJWT(j *auth.JWTer, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			abort(c, resp.CodeUnauthorized, "access unauthorized")
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			abort(c, resp.CodeUnauthorized, "access unauthorized")
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			abort(c, resp.CodeForbidden, "access unauthorized")
			return
		}
		c.Set(KeyClaims, claims)
		c.Set(KeyUserID, claims.UID)
		c.Next()
	}
}

// ClaimsFrom returns the claims stored by AuthJWT, or nil.
func ClaimsFrom(c *gin.Context) *auth.Claims {
	v, ok := c.Get(KeyClaims)
	if !ok {
		return nil
	}
	cl, _ := v.(*auth.Claims)
	return cl
}

func abort(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(resp.Status(code), resp.Error(code, msg))
}

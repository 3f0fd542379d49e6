package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const submitterKey = "tidestom.submitter_id"

// Authenticator resolves the submitter of write requests. When disabled,
// every write is attributed to AnonymousSubmitterID.
type Authenticator struct {
	JWT                  JWT
	Enabled              bool
	AnonymousSubmitterID int64
}

// RequireSubmitter rejects requests without a valid bearer token when auth
// is enabled and stores the submitter id on the gin context.
func (a Authenticator) RequireSubmitter() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.Enabled {
			c.Set(submitterKey, a.AnonymousSubmitterID)
			c.Next()
			return
		}
		tok := bearerToken(c.GetHeader("Authorization"))
		if tok == "" {
			abort(c, "missing bearer token")
			return
		}
		claims, err := a.JWT.Verify(tok)
		if err != nil {
			abort(c, "invalid token")
			return
		}
		c.Set(submitterKey, claims.SubmitterID)
		c.Next()
	}
}

func SubmitterFromGin(c *gin.Context) (int64, bool) {
	if c == nil {
		return 0, false
	}
	v, ok := c.Get(submitterKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func abort(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":    http.StatusUnauthorized,
		"message": message,
	})
}

func bearerToken(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	parts := strings.SplitN(v, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

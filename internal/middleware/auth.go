package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/util"
)

// ActorKey is the gin context key the actor name is stored under.
const ActorKey = "actor"

// ActorMiddleware verifies the JWT issued by the upstream auth service
// and puts the actor name into the context. The ledger never issues
// tokens or manages users; it only needs to know who is acting so every
// mutation carries an explicit created_by.
func ActorMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		// Header: Authorization: Bearer xxx
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = parts[1]
			}
		}

		// Query param ?token=xxx, for export downloads that cannot set
		// headers.
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}

		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "missing token")
			c.Abort()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil || claims.ExpiresAt == nil || claims.ExpiresAt.Before(time.Now()) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "invalid or expired token")
			c.Abort()
			return
		}
		if claims.Actor == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "token carries no actor")
			c.Abort()
			return
		}

		c.Set(ActorKey, claims.Actor)
		c.Next()
	}
}

// Actor returns the actor name set by ActorMiddleware.
func Actor(c *gin.Context) string {
	if v, ok := c.Get(ActorKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

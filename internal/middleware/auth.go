package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vetstack/vetclinic-api/internal/handler"
	"github.com/vetstack/vetclinic-api/internal/service/authz"
)

// ContextActor is the gin context key under which the resolved caller
// identity is stored.
const ContextActor = "actor"

// ActorResolver turns a bearer token into a caller identity.
type ActorResolver interface {
	ResolveActor(ctx context.Context, token string) (*authz.Actor, error)
}

type AuthMiddleware struct {
	resolver ActorResolver
}

func NewAuthMiddleware(resolver ActorResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

// Authenticate verifies the bearer token and stores the resolved actor
// in the request context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			c.Abort()
			return
		}

		actor, err := m.resolver.ResolveActor(c.Request.Context(), parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			c.Abort()
			return
		}

		c.Set(ContextActor, actor)
		c.Next()
	}
}

// ActorFromContext returns the authenticated caller, or nil when the
// request carried no identity.
func ActorFromContext(c *gin.Context) *authz.Actor {
	v, ok := c.Get(ContextActor)
	if !ok {
		return nil
	}
	actor, ok := v.(*authz.Actor)
	if !ok {
		return nil
	}
	return actor
}

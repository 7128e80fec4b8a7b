package middleware

import (
	"context"
	"strings"

	"inkwell/internal/authz"
	"inkwell/internal/observability"
	"inkwell/internal/token"

	"github.com/gofiber/fiber/v2"
)

const identityKey = "identity"

// Authenticate inspects the Authorization credential and attaches the
// resolved identity to the request. It never rejects a request: a missing,
// malformed or unverifiable credential yields an unauthenticated identity and
// the request proceeds. Authorization is deferred to each operation.
func Authenticate(codec *token.Codec) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := authz.Identity{}
		outcome := "anonymous"

		if header := c.Get("Authorization"); header != "" {
			outcome = "invalid"
			parts := strings.Split(header, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				if claims, err := codec.Verify(parts[1]); err == nil {
					id = authz.Identity{UserID: claims.UserID, Authenticated: true}
					outcome = "authenticated"
				}
			}
		}

		observability.AuthOutcomes.WithLabelValues(outcome).Inc()

		c.Locals(identityKey, id)
		if id.Authenticated {
			// Sync to UserContext for logging and downstream services
			ctx := context.WithValue(c.UserContext(), UserIDKey, id.UserID)
			c.SetUserContext(ctx)
		}

		return c.Next()
	}
}

// IdentityFrom returns the identity attached by Authenticate, or an
// unauthenticated identity when the middleware did not run.
func IdentityFrom(c *fiber.Ctx) authz.Identity {
	if id, ok := c.Locals(identityKey).(authz.Identity); ok {
		return id
	}
	return authz.Identity{}
}

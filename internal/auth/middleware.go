package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/club-admin/internal/domain"
	"github.com/spec-kit/club-admin/internal/rbac"
	"github.com/spec-kit/club-admin/pkg/util"
)

const sessionKey = "auth_session"

// SessionResolver is the slice of the auth facade the middleware needs.
// *service.AuthService satisfies it.
type SessionResolver interface {
	CurrentSession(ctx context.Context, token string) (*domain.Session, error)
}

// Middleware validates bearer tokens and loads the caller's session.
type Middleware struct {
	resolver SessionResolver
}

// NewMiddleware constructs middleware.
func NewMiddleware(resolver SessionResolver) *Middleware {
	return &Middleware{resolver: resolver}
}

// Handle enforces authentication for protected routes. A resolver error is a
// store failure and renders as unauthorized: fail closed, never open.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	token := TokenFromRequest(c)
	if token == "" {
		return util.NewUnauthorized("authentication required")
	}

	session, err := m.resolver.CurrentSession(c.UserContext(), token)
	if err != nil || session == nil {
		return util.NewUnauthorized("session invalid or expired")
	}

	c.Locals(sessionKey, session)
	return c.Next()
}

// RequireAction gates a route on the policy table for the session's role.
func RequireAction(action rbac.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := SessionFromContext(c)
		if !ok {
			return util.NewUnauthorized("authentication required")
		}
		if !rbac.IsAllowed(session.Role, action) {
			return util.NewForbidden("not permitted for role")
		}
		return c.Next()
	}
}

// SessionFromContext retrieves the authenticated session.
func SessionFromContext(c *fiber.Ctx) (*domain.Session, bool) {
	val := c.Locals(sessionKey)
	if val == nil {
		return nil, false
	}
	session, ok := val.(*domain.Session)
	return session, ok
}

// TokenFromRequest extracts the bearer token from the Authorization header.
func TokenFromRequest(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

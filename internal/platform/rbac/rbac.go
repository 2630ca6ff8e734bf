// Package rbac provides role-based route guards layered on top of the JWT
// authentication middleware.
package rbac

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"fundops_backend/internal/feature/auth/domain/entity"
	jwtmw "fundops_backend/internal/platform/jwt"
)

// Options selects exactly one authorization mode for a route:
// an exact role, a minimum role rank, or an explicit set of allowed roles.
type Options struct {
	// Role requires the principal's role to match exactly.
	Role entity.Role
	// MinRole requires the principal's role rank to be at least this role's rank.
	MinRole entity.Role
	// AnyOf requires the principal's role to be one of the listed roles.
	AnyOf []entity.Role
}

// validate reports a configuration error when the options do not describe
// exactly one well-formed authorization mode.
func (o Options) validate() error {
	modes := 0
	if o.Role != "" {
		modes++
		if !o.Role.IsValid() {
			return fmt.Errorf("unknown role %q", o.Role)
		}
	}
	if o.MinRole != "" {
		modes++
		if !o.MinRole.IsValid() {
			return fmt.Errorf("unknown minimum role %q", o.MinRole)
		}
	}
	if len(o.AnyOf) > 0 {
		modes++
		for _, role := range o.AnyOf {
			if !role.IsValid() {
				return fmt.Errorf("unknown role %q in allow set", role)
			}
		}
	}
	if modes != 1 {
		return fmt.Errorf("exactly one of Role, MinRole, or AnyOf must be set, got %d", modes)
	}
	return nil
}

// allows reports whether the given role satisfies the configured mode.
// validate must have succeeded before calling.
func (o Options) allows(role entity.Role) bool {
	switch {
	case o.Role != "":
		return role == o.Role
	case o.MinRole != "":
		return role.AtLeast(o.MinRole)
	default:
		return slices.Contains(o.AnyOf, role)
	}
}

// Require returns a Gin middleware that enforces the given authorization
// options. It expects jwtmw.AuthRequired to have run first.
//
// Responses:
//   - 401 when no authenticated principal is present
//   - 403 when the principal's role is unknown or fails the check
//   - 500 on every request when the options themselves are invalid
func Require(opts Options) gin.HandlerFunc {
	if err := opts.validate(); err != nil {
		// A misconfigured guard must never fall open.
		slog.Error("invalid authorization options", "error", err)
		return func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server misconfigured"})
		}
	}

	return func(c *gin.Context) {
		if _, ok := jwtmw.UserIDFromContext(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		role, ok := jwtmw.RoleFromContext(c)
		if !ok || !role.IsValid() {
			// An authenticated principal with an unrecognized role fails every check.
			slog.Warn("unrecognized role denied", "role", role.String(), "path", c.FullPath(), "remote_addr", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		if !opts.allows(role) {
			slog.Warn("insufficient role", "role", role.String(), "path", c.FullPath(), "remote_addr", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Next()
	}
}

// RequireRole guards a route with an exact role match.
func RequireRole(role entity.Role) gin.HandlerFunc {
	return Require(Options{Role: role})
}

// RequireMinRole guards a route with a minimum role rank.
func RequireMinRole(min entity.Role) gin.HandlerFunc {
	return Require(Options{MinRole: min})
}

// RequireAnyRole guards a route with an explicit set of allowed roles.
func RequireAnyRole(roles ...entity.Role) gin.HandlerFunc {
	return Require(Options{AnyOf: roles})
}

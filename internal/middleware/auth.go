package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/clerk/clerk-sdk-go/v2"
	clerkhttp "github.com/clerk/clerk-sdk-go/v2/http"
	"github.com/deppfellow/campus-manager/internal/errs"
	"github.com/deppfellow/campus-manager/internal/server"
	"github.com/labstack/echo/v4"
)

// LocalUserID is attributed to every request when auth is disabled.
const LocalUserID = "local-dev"

// AuthMiddleware authenticates API requests with Clerk session tokens.
type AuthMiddleware struct {
	server *server.Server
}

func NewAuthMiddleware(s *server.Server) *AuthMiddleware {
	return &AuthMiddleware{
		server: s,
	}
}

// RequireAuth validates the Authorization bearer token and stores the
// session subject, role and permissions in the echo context.
//
// With auth.disabled set, every request runs as LocalUserID.
func (auth *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	if auth.server.Config.Auth.Disabled {
		return func(c echo.Context) error {
			c.Set(UserIDKey, LocalUserID)
			c.Set(UserRoleKey, "admin")
			return next(c)
		}
	}

	return echo.WrapMiddleware(
		clerkhttp.WithHeaderAuthorization(
			clerkhttp.AuthorizationFailureHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				start := time.Now()

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)

				response := errs.HTTPError{
					Code:     "UNAUTHORIZED",
					Message:  "Unauthorized",
					Status:   http.StatusUnauthorized,
					Override: false,
				}

				if err := json.NewEncoder(w).Encode(response); err != nil {
					auth.server.Logger.Error().
						Err(err).
						Str("function", "RequireAuth").
						Dur("duration", time.Since(start)).
						Msg("failed to write JSON response")
				} else {
					auth.server.Logger.Warn().
						Str("function", "RequireAuth").
						Str("path", r.URL.Path).
						Dur("duration", time.Since(start)).
						Msg("rejected request without a valid session token")
				}
			}))))(
		func(c echo.Context) error {
			start := time.Now()

			claims, ok := clerk.SessionClaimsFromContext(c.Request().Context())
			if !ok {
				auth.server.Logger.Error().
					Str("function", "RequireAuth").
					Str("request_id", GetRequestID(c)).
					Dur("duration", time.Since(start)).
					Msg("could not get session claims from context")

				return errs.NewUnauthorizedError("Unauthorized", false)
			}

			c.Set(UserIDKey, claims.Subject)
			c.Set(UserRoleKey, claims.ActiveOrganizationRole)
			c.Set("permissions", claims.Claims.ActiveOrganizationPermissions)

			auth.server.Logger.Info().
				Str("function", "RequireAuth").
				Str("user_id", claims.Subject).
				Str("request_id", GetRequestID(c)).
				Dur("duration", time.Since(start)).
				Msg("user authenticated successfully")

			return next(c)
		})
}

package middleware

import (
	"errors"
	"log"
	"strings"
	"time"

	"sgspadmin/internal/common"
	"sgspadmin/internal/services"

	"github.com/labstack/echo/v4"
)

const bearerScheme = "Bearer"

// AuthGate attaches verified identity claims to the request context.
// Requests without an Authorization header pass through anonymously; any
// other failure stops the request with 401.
func AuthGate(tokens services.TokenService, blacklist services.TokenBlacklist, clock func() time.Time) echo.MiddlewareFunc {
	if clock == nil {
		clock = time.Now
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return next(c)
			}

			parts := strings.Split(header, " ")
			if len(parts) != 2 || parts[0] != bearerScheme || parts[1] == "" {
				return common.Unauthorized(common.CodeAuthRequired, "Authorization header must be 'Bearer <token>'")
			}
			token := parts[1]

			ctx := c.Request().Context()
			now := clock()

			revoked, err := blacklist.IsRevoked(ctx, token, now)
			if err != nil {
				log.Printf("ERROR: revocation lookup failed: %v", err)
				return common.Internal("Internal server error", err)
			}
			if revoked {
				return common.Unauthorized(common.CodeTokenBlacklisted, "Token has been revoked")
			}

			claims, err := tokens.Verify(token, now)
			if err != nil {
				if !errors.Is(err, services.ErrInvalidToken) {
					log.Printf("ERROR: token verification failed unexpectedly: %v", err)
				}
				return common.Unauthorized(common.CodeInvalidToken, "Invalid or expired token")
			}

			c.SetRequest(c.Request().WithContext(common.WithClaims(ctx, claims)))
			return next(c)
		}
	}
}

// RequireAuth rejects requests that reached it without claims.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := common.ClaimsFromContext(c.Request().Context()); !ok {
				return common.Unauthorized(common.CodeAuthRequired, "Authentication required")
			}
			return next(c)
		}
	}
}

// Except applies mw to every route except the listed route paths, which
// are matched against c.Path().
func Except(mw echo.MiddlewareFunc, routes ...string) echo.MiddlewareFunc {
	skip := make(map[string]struct{}, len(routes))
	for _, route := range routes {
		skip[route] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		gated := mw(next)
		return func(c echo.Context) error {
			if _, ok := skip[c.Path()]; ok {
				return next(c)
			}
			return gated(c)
		}
	}
}

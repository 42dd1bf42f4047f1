package http

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/shelterhub/backend/internal/access"
	"github.com/shelterhub/backend/internal/apperr"
	"github.com/shelterhub/backend/internal/domain"
	"github.com/shelterhub/backend/internal/util"
)

const contextClaimsKey = "auth.claims"

// RequireAuth extracts and verifies the bearer token, stashing the verified
// claims in the request context for downstream middleware and handlers.
func RequireAuth(tokens *util.JWTManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if strings.TrimSpace(authHeader) == "" {
				return apperr.Unauthorized("missing authorization header, use: Authorization: Bearer <token>")
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return apperr.Unauthorized("invalid authorization header")
			}

			claims, err := tokens.Parse(strings.TrimSpace(parts[1]))
			if err != nil {
				if errors.Is(err, util.ErrTokenExpired) {
					return apperr.Unauthorized("token expired, please log in again")
				}
				return apperr.Unauthorized("invalid token")
			}

			c.Set(contextClaimsKey, claims)
			return next(c)
		}
	}
}

// RequireRoles allows only callers whose role is in the given set.
func RequireRoles(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, _ := CurrentClaims(c)
			if err := access.Evaluate(claims, roles, nil).Err(); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// RequireOwnerOrAdmin allows administrators and the account whose id appears
// in the named path parameter.
func RequireOwnerOrAdmin(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, _ := CurrentClaims(c)
			ownerID, err := uuid.Parse(c.Param(param))
			if err != nil {
				return apperr.BadRequest("invalid account id")
			}
			if err := access.Evaluate(claims, nil, &ownerID).Err(); err != nil {
				return err
			}
			return next(c)
		}
	}
}

func CurrentClaims(c echo.Context) (*util.Claims, bool) {
	claims, ok := c.Get(contextClaimsKey).(*util.Claims)
	return claims, ok && claims != nil
}

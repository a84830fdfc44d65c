package middleware // middleware provides shared request processing for handlers

import (
    "net/http" // http package defines standard HTTP status codes

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context

    "github.com/bookhaven/book-catalogue/internal/model"
)

// RequireRole returns a middleware function that enforces that the
// authenticated identity holds one of the specified roles.  Roles form a
// closed enumeration, so the check is an explicit set-membership test on
// the role claim rather than a string comparison scattered through
// handlers.  It assumes CookieAuth has already stored the claims in the
// context; a missing session is treated as a missing role.
//
// The two policies used by the routes are RequireRole(model.RoleAdmin)
// for admin-only operations and RequireRole(model.RoleUser,
// model.RoleAdmin) for any authenticated identity.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            claims, ok := SessionFrom(c)
            if !ok || !claims.Role.In(roles...) {
                return c.JSON(http.StatusForbidden, echo.Map{"message": "Access denied. Insufficient role."})
            }
            return next(c)
        }
    }
}

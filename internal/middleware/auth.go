package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/bookhaven/book-catalogue/internal/utils"
)

// TokenCookie is the cookie carrying the signed bearer token.  Both the
// logical access and refresh lifetimes are realized through this single
// artifact; the per-user expiry bookkeeping lives on the user record.
const TokenCookie = "token"

// sessionKey is the context key under which the decoded claims are
// stashed for downstream middleware and handlers.
const sessionKey = "session"

// CookieAuth returns an Echo middleware that validates the signed token
// from the request cookie and injects the decoded claims into the request
// context.  The provided secret must match the one used when issuing
// tokens.  The per-request outcomes are:
//
//   no cookie              -> 403 "Access denied. No token provided."
//   bad signature/expired  -> 403 "Invalid token."
//   verified               -> claims stored in context, next handler runs
//
// Role enforcement is a separate concern handled by RequireRole.
func CookieAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            cookie, err := c.Cookie(TokenCookie)
            if err != nil || cookie.Value == "" {
                return c.JSON(http.StatusForbidden, echo.Map{"message": "Access denied. No token provided."})
            }
            claims, err := utils.ParseToken(secret, cookie.Value)
            if err != nil {
                // Expired and malformed tokens are indistinguishable to the
                // client at this boundary.
                return c.JSON(http.StatusForbidden, echo.Map{"message": "Invalid token."})
            }
            c.Set(sessionKey, claims)
            return next(c)
        }
    }
}

// SessionFrom returns the decoded claims stashed by CookieAuth.  The
// boolean is false when the request did not pass through the gate.
func SessionFrom(c echo.Context) (*utils.Claims, bool) {
    claims, ok := c.Get(sessionKey).(*utils.Claims)
    return claims, ok
}

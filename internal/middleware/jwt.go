package middleware // middleware provides the request processing shared by every resource route

import (
    "net/http" // HTTP status codes for responses
    "strconv"  // renders the user id stored in the context
    "strings"  // prefix checking and trimming of the Authorization header

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware

    "github.com/mamutes/party-service/internal/utils" // token verification
)

// Context keys set by JWTAuth.
const (
    CtxUserID = "user_id"
    CtxRole   = "role"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and stores the token's subject and role in the request context.  The
// subject is kept as a decimal string so the rate limiter can key on it;
// handlers read it with c.Get("user_id").
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get(echo.HeaderAuthorization)
            if !strings.HasPrefix(auth, "Bearer ") {
                return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
            }
            claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
            if err != nil {
                return echo.NewHTTPError(http.StatusUnauthorized, "invalid token").SetInternal(err)
            }
            c.Set(CtxUserID, strconv.FormatInt(claims.UserID, 10))
            c.Set(CtxRole, claims.Role)
            return next(c)
        }
    }
}

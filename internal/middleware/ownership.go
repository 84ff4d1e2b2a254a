package middleware

import (
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"
)

// RequireSelf allows the request only when the path parameter param equals
// the caller's user ID.  Callers whose role is listed in bypass (typically
// federation) may act on any ID.  Must run after JWTAuth.
func RequireSelf(param string, bypass ...string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            uid, ok := UserID(c)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
            }
            role := Role(c)
            for _, r := range bypass {
                if role == r {
                    return next(c)
                }
            }
            target, err := strconv.ParseUint(c.Param(param), 10, 64)
            if err != nil || target == 0 {
                return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid " + param})
            }
            if target != uid {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }
            return next(c)
        }
    }
}

package middleware

import "github.com/labstack/echo/v4"

// subjectKey is where JWTAuth stores the token subject.
const subjectKey = "subject"

// callerID returns the authenticated subject, or "anon" when the request
// carried no token (reads, or writes with auth disabled).
func callerID(c echo.Context) string {
	if s, ok := c.Get(subjectKey).(string); ok && s != "" {
		return s
	}
	return "anon"
}

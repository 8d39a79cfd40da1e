package middleware

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"retail-admin/services"
)

// Paths reachable without any credential.
var publicPaths = map[string]bool{
	"/":           true,
	"/health":     true,
	"/login":      true,
	"/auth/login": true,
}

// Prefixes reachable without any credential: the public chat widget
// surface and static assets.
var publicPrefixes = []string{
	"/widget/",
	"/assets/",
	"/static/",
}

// Prefixes answered with JSON; everything else is treated as a page.
var apiPrefixes = []string{
	"/auth/",
	"/api/",
	"/admin",
}

// HasCredential is the lightweight presence predicate: it reports
// whether a session cookie was presented at all, with no statement
// about its validity. Usable in contexts without data-store access.
func HasCredential(c *fiber.Ctx) bool {
	return c.Cookies(services.SessionCookieName) != ""
}

// Gatekeeper is the coarse edge pre-filter. It cannot reach the data
// store, so it only checks that a session cookie is present at all and
// forwards the token as a header; full validity (expiry, active user,
// role) is re-checked downstream by each handler via the resolver.
func Gatekeeper(c *fiber.Ctx) error {
	path := c.Path()

	if publicPaths[path] {
		return c.Next()
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return c.Next()
		}
	}

	token := c.Cookies(services.SessionCookieName)
	if token == "" {
		if isAPIPath(path) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}
		return c.Redirect("/login?redirect="+url.QueryEscape(c.OriginalURL()), fiber.StatusFound)
	}

	c.Request().Header.Set(services.HeaderSessionToken, token)
	return c.Next()
}

func isAPIPath(path string) bool {
	for _, prefix := range apiPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"

	"retail-admin/middleware"
	"retail-admin/services"
)

// newGatekeptApp registers the gatekeeper plus catch-all handlers that
// echo whether the request got through and what token header it carried.
func newGatekeptApp() *fiber.App {
	app := fiber.New()
	app.Use(middleware.Gatekeeper)
	app.All("/*", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"token": c.Get(services.HeaderSessionToken),
		})
	})
	return app
}

func request(t *testing.T, app *fiber.App, method, target string, cookie *http.Cookie) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func decodeJSON(resp *http.Response, v interface{}) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(v)
}

func TestGatekeeperAllowsPublicSurface(t *testing.T) {
	app := newGatekeptApp()

	for _, target := range []string{
		"/",
		"/health",
		"/login",
		"/auth/login",
		"/widget/some-tenant/messages",
		"/assets/app.js",
		"/static/logo.png",
	} {
		resp := request(t, app, http.MethodGet, target, nil)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s without cookie: status = %d, want 200", target, resp.StatusCode)
		}
	}
}

func TestGatekeeperRejectsBareAPIRequestsWithJSON(t *testing.T) {
	app := newGatekeptApp()

	for _, target := range []string{"/api/categories", "/auth/me", "/admin/tenants"} {
		resp := request(t, app, http.MethodGet, target, nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("GET %s without cookie: status = %d, want 401", target, resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); ct != fiber.MIMEApplicationJSON {
			t.Errorf("GET %s: content-type = %q, want JSON", target, ct)
		}
	}
}

func TestGatekeeperRedirectsPageRequestsToLogin(t *testing.T) {
	app := newGatekeptApp()

	resp := request(t, app, http.MethodGet, "/dashboard?tab=chat", nil)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("page request without cookie: status = %d, want 302", resp.StatusCode)
	}

	location, err := url.Parse(resp.Header.Get("Location"))
	if err != nil {
		t.Fatalf("bad redirect location: %v", err)
	}
	if location.Path != "/login" {
		t.Errorf("redirect path = %q, want /login", location.Path)
	}
	if got := location.Query().Get("redirect"); got != "/dashboard?tab=chat" {
		t.Errorf("redirect target = %q, want original URL", got)
	}
}

// The gatekeeper only checks presence: any non-empty cookie passes,
// including a stale one. Validity is the resolver's job.
func TestGatekeeperForwardsTokenWithoutValidating(t *testing.T) {
	app := newGatekeptApp()

	cookie := &http.Cookie{Name: services.SessionCookieName, Value: "stale-or-not"}
	resp := request(t, app, http.MethodGet, "/api/categories", cookie)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("API request with cookie: status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := decodeJSON(resp, &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Token != "stale-or-not" {
		t.Errorf("forwarded token = %q, want the cookie value", body.Token)
	}
}

func TestGatekeeperIgnoresForeignCookies(t *testing.T) {
	app := newGatekeptApp()

	cookie := &http.Cookie{Name: "session", Value: "some-token"}
	resp := request(t, app, http.MethodGet, "/api/categories", cookie)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("API request with foreign cookie: status = %d, want 401", resp.StatusCode)
	}
}

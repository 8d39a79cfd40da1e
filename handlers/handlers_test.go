package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"retail-admin/handlers"
	"retail-admin/middleware"
	"retail-admin/models"
	"retail-admin/services"
	"retail-admin/store/memory"
)

// newTestApp wires the route table the way main.go does, backed by a
// fresh in-memory store.
func newTestApp(t *testing.T) (*fiber.App, *memory.Store) {
	t.Helper()

	st := memory.New()
	services.Init(st)

	app := fiber.New()
	app.Use(middleware.Gatekeeper)

	auth := app.Group("/auth")
	auth.Post("/login", handlers.Login)
	auth.Post("/logout", handlers.Logout)
	auth.Get("/me", handlers.GetCurrentUser)
	auth.Post("/change-password", middleware.RequireAuth, handlers.ChangePassword)

	widget := app.Group("/widget")
	widget.Post("/:tenantID/messages", handlers.PostWidgetMessage)
	widget.Get("/:tenantID/messages/:conversationID", handlers.GetWidgetConversation)

	api := app.Group("/api", middleware.RequireAuth, middleware.RequireTenant)
	api.Get("/categories", handlers.ListCategories)
	api.Post("/categories", handlers.CreateCategory)
	api.Get("/categories/:categoryID", handlers.GetCategory)
	api.Put("/categories/:categoryID", handlers.UpdateCategory)
	api.Delete("/categories/:categoryID", handlers.DeleteCategory)
	api.Get("/clients", handlers.ListClients)
	api.Post("/clients", handlers.CreateClient)
	api.Get("/clients/:clientID", handlers.GetClient)
	api.Put("/clients/:clientID", handlers.UpdateClient)
	api.Delete("/clients/:clientID", handlers.DeleteClient)
	api.Get("/messages", handlers.ListMessages)
	api.Get("/messages/:conversationID", handlers.GetConversation)
	api.Post("/messages/:conversationID/reply", handlers.PostAgentReply)

	admin := app.Group("/admin", middleware.RequireAuth, middleware.RequireSuperAdmin)
	admin.Get("/tenants", handlers.ListTenants)
	admin.Post("/tenants", handlers.CreateTenant)
	admin.Get("/tenants/:tenantID", handlers.GetTenant)
	admin.Put("/tenants/:tenantID/activation", handlers.UpdateTenantActivation)
	admin.Get("/users", handlers.ListUsers)
	admin.Post("/users", handlers.CreateUser)
	admin.Put("/users/:userID/role", handlers.UpdateUserRole)
	admin.Put("/users/:userID/status", handlers.UpdateUserStatus)
	admin.Post("/repair", handlers.RepairSuperAdmins)

	return app, st
}

func seedTenant(t *testing.T, st *memory.Store, name string) *models.Tenant {
	t.Helper()

	tenant := &models.Tenant{Name: name, Active: true}
	if err := st.CreateTenant(context.Background(), tenant); err != nil {
		t.Fatalf("failed to seed tenant: %v", err)
	}
	return tenant
}

func seedUser(t *testing.T, st *memory.Store, email, password, tenantID string, role models.UserRole) *models.User {
	t.Helper()

	hash, err := services.HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Email:        email,
		Name:         "Test User",
		TenantID:     tenantID,
		Role:         role,
		PasswordHash: hash,
		Active:       true,
	}
	if err := st.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func deactivateUser(t *testing.T, st *memory.Store, userID string) {
	t.Helper()

	if err := st.SetUserActive(context.Background(), userID, false); err != nil {
		t.Fatalf("failed to deactivate user: %v", err)
	}
}

func doJSON(t *testing.T, app *fiber.App, method, target string, payload interface{}, cookie *http.Cookie) *http.Response {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func login(t *testing.T, app *fiber.App, email, password string) *http.Cookie {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed with status %d", resp.StatusCode)
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == services.SessionCookieName {
			return cookie
		}
	}
	t.Fatal("login response did not set the session cookie")
	return nil
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	resp.Body.Close()
	return body
}

func sessionCount(t *testing.T, st *memory.Store, token string) int {
	t.Helper()

	if _, err := st.GetSessionByToken(context.Background(), token); err != nil {
		return 0
	}
	return 1
}

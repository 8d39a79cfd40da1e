// Package memory implements store.Store with in-process maps. It backs
// local development without a MongoDB instance and the test suites.
// Mutual exclusion is a single RWMutex; every operation touches at most
// one logical row, mirroring the per-document atomicity the MongoDB
// driver relies on.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"retail-admin/models"
	"retail-admin/store"
)

// Store is the in-memory implementation of store.Store.
type Store struct {
	mu         sync.RWMutex
	sessions   map[string]models.Session // keyed by token
	users      map[string]models.User
	tenants    map[string]models.Tenant
	categories map[string]models.Category
	clients    map[string]models.Client
	messages   []models.ChatMessage
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		sessions:   make(map[string]models.Session),
		users:      make(map[string]models.User),
		tenants:    make(map[string]models.Tenant),
		categories: make(map[string]models.Category),
		clients:    make(map[string]models.Client),
	}
}

func (s *Store) CreateSession(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	s.sessions[session.Token] = *session
	return nil
}

func (s *Store) GetSessionByToken(_ context.Context, token string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[token]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &session, nil
}

func (s *Store) DeleteSessionsByToken(_ context.Context, token string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[token]; !ok {
		return 0, nil
	}
	delete(s.sessions, token)
	return 1, nil
}

func (s *Store) DeleteExpiredSessions(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for token, session := range s.sessions {
		if !session.ExpiresAt.After(before) {
			delete(s.sessions, token)
			deleted++
		}
	}
	return deleted, nil
}

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return store.ErrDuplicate
		}
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	s.users[user.ID] = *user
	return nil
}

func (s *Store) GetUserByID(_ context.Context, userID string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListUsers(_ context.Context, tenantID string) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var users []models.User
	for _, user := range s.users {
		if tenantID == "" || user.TenantID == tenantID {
			users = append(users, user)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, userID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	user.PasswordHash = passwordHash
	user.UpdatedAt = time.Now()
	s.users[userID] = user
	return nil
}

func (s *Store) UpdateUserRole(_ context.Context, userID string, role models.UserRole) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	user.Role = role
	user.UpdatedAt = time.Now()
	s.users[userID] = user
	return nil
}

func (s *Store) UpdateUserLastLogin(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	user.LastLogin = time.Now()
	s.users[userID] = user
	return nil
}

func (s *Store) SetUserActive(_ context.Context, userID string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	user.Active = active
	user.UpdatedAt = time.Now()
	s.users[userID] = user
	return nil
}

func (s *Store) SetUserTenant(_ context.Context, userID, tenantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	user.TenantID = tenantID
	user.UpdatedAt = time.Now()
	s.users[userID] = user
	return nil
}

func (s *Store) CountUsersByRole(_ context.Context, role models.UserRole) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, user := range s.users {
		if user.Role == role {
			count++
		}
	}
	return count, nil
}

func (s *Store) ClearSuperAdminTenants(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var repaired int64
	for id, user := range s.users {
		if user.Role == models.RoleSuperAdmin && user.TenantID != "" {
			user.TenantID = ""
			user.UpdatedAt = time.Now()
			s.users[id] = user
			repaired++
		}
	}
	return repaired, nil
}

func (s *Store) CreateTenant(_ context.Context, tenant *models.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tenant.ID == "" {
		tenant.ID = uuid.NewString()
	}
	now := time.Now()
	if tenant.CreatedAt.IsZero() {
		tenant.CreatedAt = now
	}
	tenant.UpdatedAt = now
	s.tenants[tenant.ID] = *tenant
	return nil
}

func (s *Store) GetTenant(_ context.Context, tenantID string) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tenant, ok := s.tenants[tenantID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &tenant, nil
}

func (s *Store) ListTenants(_ context.Context) ([]models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tenants []models.Tenant
	for _, tenant := range s.tenants {
		tenants = append(tenants, tenant)
	}
	sort.Slice(tenants, func(i, j int) bool { return tenants[i].CreatedAt.Before(tenants[j].CreatedAt) })
	return tenants, nil
}

func (s *Store) UpdateTenantActivation(_ context.Context, tenantID string, active bool, plan string, planExpiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tenant, ok := s.tenants[tenantID]
	if !ok {
		return store.ErrNotFound
	}
	tenant.Active = active
	if plan != "" {
		tenant.Plan = plan
	}
	if !planExpiresAt.IsZero() {
		tenant.PlanExpiresAt = planExpiresAt
	}
	tenant.UpdatedAt = time.Now()
	s.tenants[tenantID] = tenant
	return nil
}

func (s *Store) CreateCategory(_ context.Context, category *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.categories {
		if existing.TenantID == category.TenantID && existing.Name == category.Name {
			return store.ErrDuplicate
		}
	}

	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now
	s.categories[category.ID] = *category
	return nil
}

func (s *Store) GetCategory(_ context.Context, tenantID, categoryID string) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	category, ok := s.categories[categoryID]
	if !ok || category.TenantID != tenantID {
		return nil, store.ErrNotFound
	}
	return &category, nil
}

func (s *Store) ListCategories(_ context.Context, tenantID string) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var categories []models.Category
	for _, category := range s.categories {
		if category.TenantID == tenantID {
			categories = append(categories, category)
		}
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (s *Store) UpdateCategory(_ context.Context, tenantID string, category *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.categories[category.ID]
	if !ok || existing.TenantID != tenantID {
		return store.ErrNotFound
	}
	for id, other := range s.categories {
		if id != category.ID && other.TenantID == tenantID && other.Name == category.Name {
			return store.ErrDuplicate
		}
	}
	existing.Name = category.Name
	existing.Description = category.Description
	existing.UpdatedAt = time.Now()
	s.categories[category.ID] = existing
	return nil
}

func (s *Store) DeleteCategory(_ context.Context, tenantID, categoryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	category, ok := s.categories[categoryID]
	if !ok || category.TenantID != tenantID {
		return store.ErrNotFound
	}
	delete(s.categories, categoryID)
	return nil
}

func (s *Store) CreateClient(_ context.Context, client *models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if client.ID == "" {
		client.ID = uuid.NewString()
	}
	now := time.Now()
	client.CreatedAt = now
	client.UpdatedAt = now
	s.clients[client.ID] = *client
	return nil
}

func (s *Store) GetClient(_ context.Context, tenantID, clientID string) (*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	client, ok := s.clients[clientID]
	if !ok || client.TenantID != tenantID {
		return nil, store.ErrNotFound
	}
	return &client, nil
}

func (s *Store) ListClients(_ context.Context, tenantID string) ([]models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var clients []models.Client
	for _, client := range s.clients {
		if client.TenantID == tenantID {
			clients = append(clients, client)
		}
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].Name < clients[j].Name })
	return clients, nil
}

func (s *Store) UpdateClient(_ context.Context, tenantID string, client *models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.clients[client.ID]
	if !ok || existing.TenantID != tenantID {
		return store.ErrNotFound
	}
	existing.Name = client.Name
	existing.Email = client.Email
	existing.Phone = client.Phone
	existing.Notes = client.Notes
	existing.UpdatedAt = time.Now()
	s.clients[client.ID] = existing
	return nil
}

func (s *Store) DeleteClient(_ context.Context, tenantID, clientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, ok := s.clients[clientID]
	if !ok || client.TenantID != tenantID {
		return store.ErrNotFound
	}
	delete(s.clients, clientID)
	return nil
}

func (s *Store) CreateMessage(_ context.Context, message *models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	s.messages = append(s.messages, *message)
	return nil
}

func (s *Store) ListMessages(_ context.Context, tenantID string, limit int) ([]models.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var messages []models.ChatMessage
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].TenantID == tenantID {
			messages = append(messages, s.messages[i])
			if limit > 0 && len(messages) >= limit {
				break
			}
		}
	}
	return messages, nil
}

func (s *Store) ListConversation(_ context.Context, tenantID, conversationID string) ([]models.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var messages []models.ChatMessage
	for _, message := range s.messages {
		if message.TenantID == tenantID && message.ConversationID == conversationID {
			messages = append(messages, message)
		}
	}
	return messages, nil
}

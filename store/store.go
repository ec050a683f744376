package store

import (
	"context"
	"fmt"
	"time"

	"github.com/steamates/steamates/internal/profile"
	"github.com/steamates/steamates/store/cache"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	userCache *cache.Cache // cache for users keyed by steam id
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
		userCache: cache.New(cache.Config{
			DefaultTTL:      10 * time.Minute,
			CleanupInterval: 5 * time.Minute,
			MaxItems:        1000,
		}),
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	s.userCache.Close()
	return s.driver.Close()
}

func userCacheKey(steamID string) string {
	return fmt.Sprintf("user:steam:%s", steamID)
}

func (s *Store) CreateUser(ctx context.Context, create *User) (*User, error) {
	user, err := s.driver.CreateUser(ctx, create)
	if err != nil {
		return nil, err
	}
	s.userCache.Set(ctx, userCacheKey(user.SteamID), user)
	return user, nil
}

func (s *Store) UpdateUser(ctx context.Context, update *UpdateUser) (*User, error) {
	user, err := s.driver.UpdateUser(ctx, update)
	if err != nil {
		return nil, err
	}
	s.userCache.Set(ctx, userCacheKey(user.SteamID), user)
	return user, nil
}

func (s *Store) ListUsers(ctx context.Context, find *FindUser) ([]*User, error) {
	return s.driver.ListUsers(ctx, find)
}

// GetUserBySteamID returns the user for a Steam identity, or nil when no
// such user exists.
func (s *Store) GetUserBySteamID(ctx context.Context, steamID string) (*User, error) {
	if cached, ok := s.userCache.Get(ctx, userCacheKey(steamID)); ok {
		if user, ok := cached.(*User); ok {
			return user, nil
		}
	}

	users, err := s.driver.ListUsers(ctx, &FindUser{SteamID: &steamID})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	user := users[0]
	s.userCache.Set(ctx, userCacheKey(steamID), user)
	return user, nil
}

func (s *Store) CreateChatSession(ctx context.Context, create *ChatSession) (*ChatSession, error) {
	return s.driver.CreateChatSession(ctx, create)
}

// GetChatSessionByUID returns the session for a UID, or nil when not found.
func (s *Store) GetChatSessionByUID(ctx context.Context, uid string) (*ChatSession, error) {
	sessions, err := s.driver.ListChatSessions(ctx, &FindChatSession{UID: &uid})
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	return sessions[0], nil
}

func (s *Store) ListChatSessions(ctx context.Context, find *FindChatSession) ([]*ChatSession, error) {
	return s.driver.ListChatSessions(ctx, find)
}

func (s *Store) UpdateChatSession(ctx context.Context, update *UpdateChatSession) error {
	return s.driver.UpdateChatSession(ctx, update)
}

func (s *Store) CreateChatMessage(ctx context.Context, create *ChatMessage) (*ChatMessage, error) {
	return s.driver.CreateChatMessage(ctx, create)
}

func (s *Store) ListChatMessages(ctx context.Context, find *FindChatMessage) ([]*ChatMessage, error) {
	return s.driver.ListChatMessages(ctx, find)
}

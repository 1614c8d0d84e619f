package session

import (
	"context"
	"sync"
	"time"

	favoritesservice "doctortravel/internal/favorites/service"
	"doctortravel/internal/identity"
	loginservice "doctortravel/internal/login/service"
	"doctortravel/pkg/config"
	apperrors "doctortravel/pkg/errors"
)

// Session is everything one client holds on the server: who is signed in,
// their favorites, where they are in the login flow and the selected tab.
type Session struct {
	ID        string
	CreatedAt time.Time

	Auth      *identity.Auth
	Favorites *favoritesservice.Store
	Login     *loginservice.Flow

	mu          sync.Mutex
	tab         string
	lastSeen    time.Time
	unsubscribe func()
}

func (s *Session) Tab() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tab
}

func (s *Session) SetTab(tab string) error {
	if !config.IsValidTab(tab) {
		return apperrors.Validation("Invalid tab", map[string]any{
			"tab":     tab,
			"allowed": []string{config.TabHome, config.TabFlights, config.TabFavorites, config.TabProfile},
		})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tab = tab
	return nil
}

func (s *Session) User() *identity.User {
	return s.Auth.CurrentUser()
}

// VerifiedUser is the signed-in user once the login flow has completed. A
// user who passed the password step but not the code is not returned.
func (s *Session) VerifiedUser() *identity.User {
	if s.Login.State() != loginservice.StateAuthenticated {
		return nil
	}
	return s.User()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// close signs the user out and waits for pending favorites writes.
func (s *Session) close(ctx context.Context) {
	_ = s.Login.SignOut(ctx)
	s.Favorites.Wait()
	s.unsubscribe()
	s.Login.Close()
}

// Snapshot is the client-visible state of a session.
type Snapshot struct {
	ID             string                 `json:"id"`
	Tab            string                 `json:"tab"`
	LoginState     loginservice.State     `json:"login_state"`
	FavoritesState favoritesservice.State `json:"favorites_state"`
	User           *UserView              `json:"user"`
}

type UserView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (s *Session) Snapshot() Snapshot {
	snapshot := Snapshot{
		ID:             s.ID,
		Tab:            s.Tab(),
		LoginState:     s.Login.State(),
		FavoritesState: s.Favorites.State(),
	}
	if user := s.VerifiedUser(); user != nil {
		snapshot.User = &UserView{ID: user.ID, Email: user.Email, Name: user.DisplayName}
	}
	return snapshot
}

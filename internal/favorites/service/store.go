package service

import (
	"context"
	"errors"
	"sync"
	"time"

	favoriteserrors "doctortravel/internal/favorites/errors"
	"doctortravel/internal/favorites/repository"
	"doctortravel/internal/identity"
	"doctortravel/pkg/kafka"
	"doctortravel/pkg/logger"
	"doctortravel/pkg/model"
)

type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateLoading         State = "loading"
	StateReady           State = "ready"
)

// Store is the session's cache of favorited packages. Mutations apply to the
// cache immediately and are written to the repository in the background; a
// failed insert is rolled back by removing the entry, a failed delete is
// repaired by reloading everything.
type Store struct {
	repo         repository.FavoriteRepository
	events       *kafka.Emitter
	log          *logger.Logger
	writeTimeout time.Duration

	mu        sync.Mutex
	userID    string
	state     State
	favorites []model.Package
	lastErr   error

	pending sync.WaitGroup
}

func NewStore(repo repository.FavoriteRepository, events *kafka.Emitter, writeTimeout time.Duration, log *logger.Logger) *Store {
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	return &Store{
		repo:         repo,
		events:       events,
		log:          log,
		writeTimeout: writeTimeout,
		state:        StateUnauthenticated,
	}
}

// OnAuthStateChanged follows the identity notifier. Signing in starts a fetch;
// signing out keeps only the local packages.
func (s *Store) OnAuthStateChanged(user *identity.User) {
	s.mu.Lock()
	if user == nil {
		s.userID = ""
		s.state = StateUnauthenticated
		s.favorites = keepLocal(s.favorites)
		s.mu.Unlock()
		return
	}
	s.userID = user.ID
	s.state = StateLoading
	s.mu.Unlock()

	s.background(context.Background(), func(ctx context.Context) {
		_ = s.Fetch(ctx, user.ID)
	})
}

// Fetch replaces the cache with the stored favorites of userID. The result is
// discarded when the session user changed while loading.
func (s *Store) Fetch(ctx context.Context, userID string) error {
	rows, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		s.log.Error("Failed to fetch favorites", "user_id", userID, "error", err)
		s.mu.Lock()
		s.lastErr = err
		if s.userID == userID {
			s.state = StateReady
		}
		s.mu.Unlock()
		return err
	}

	packages := repository.ToPackages(rows)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userID != userID {
		s.log.Debug("Discarding favorites of a previous user", "user_id", userID)
		return nil
	}
	s.favorites = packages
	s.state = StateReady
	return nil
}

func (s *Store) Add(ctx context.Context, pkg model.Package) {
	key := pkg.Key()

	s.mu.Lock()
	userID := s.userID
	if userID == "" || indexOf(s.favorites, key) >= 0 {
		s.mu.Unlock()
		return
	}
	s.favorites = append(s.favorites, pkg)
	s.mu.Unlock()

	s.background(ctx, func(ctx context.Context) {
		err := s.repo.Insert(ctx, userID, key)
		if errors.Is(err, favoriteserrors.ErrAlreadyFavorited) {
			// The row exists remotely, which is the state the add asked for.
			s.log.Debug("Favorite already stored", "user_id", userID, "package_id", key.ID, "is_local", key.IsLocal)
			return
		}
		if err != nil {
			s.log.Error("Failed to add favorite", "user_id", userID, "package_id", key.ID, "is_local", key.IsLocal, "error", err)
			s.mu.Lock()
			s.lastErr = err
			if s.userID == userID {
				s.favorites = without(s.favorites, key)
			}
			s.mu.Unlock()
			return
		}
		s.events.Emit(ctx, kafka.EventFavoriteAdded, userID, favoriteEvent(userID, key))
	})
}

func (s *Store) Remove(ctx context.Context, id string, isLocal bool) {
	key := model.PackageKey{ID: id, IsLocal: isLocal}

	s.mu.Lock()
	userID := s.userID
	if userID == "" {
		s.mu.Unlock()
		return
	}
	s.favorites = without(s.favorites, key)
	s.mu.Unlock()

	s.background(ctx, func(ctx context.Context) {
		if err := s.repo.Delete(ctx, userID, key); err != nil {
			s.log.Error("Failed to remove favorite", "user_id", userID, "package_id", key.ID, "is_local", key.IsLocal, "error", err)
			s.mu.Lock()
			s.lastErr = err
			s.mu.Unlock()
			_ = s.Fetch(ctx, userID)
			return
		}
		s.events.Emit(ctx, kafka.EventFavoriteRemoved, userID, favoriteEvent(userID, key))
	})
}

func (s *Store) Has(key model.PackageKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return indexOf(s.favorites, key) >= 0
}

// IsFavorite matches on id alone when isLocal is nil.
func (s *Store) IsFavorite(id string, isLocal *bool) bool {
	if isLocal != nil {
		return s.Has(model.PackageKey{ID: id, IsLocal: *isLocal})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.favorites {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) Favorites() []model.Package {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Package, len(s.favorites))
	copy(out, s.favorites)
	return out
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError returns the most recent background failure, if any.
func (s *Store) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Wait blocks until every background write started so far has finished.
func (s *Store) Wait() {
	s.pending.Wait()
}

// background runs fn on its own goroutine with a context that outlives the
// caller's request but is bounded by the write timeout.
func (s *Store) background(ctx context.Context, fn func(ctx context.Context)) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.writeTimeout)
		defer cancel()
		fn(ctx)
	}()
}

func indexOf(favorites []model.Package, key model.PackageKey) int {
	for i, p := range favorites {
		if p.Key() == key {
			return i
		}
	}
	return -1
}

func without(favorites []model.Package, key model.PackageKey) []model.Package {
	out := favorites[:0:0]
	for _, p := range favorites {
		if p.Key() != key {
			out = append(out, p)
		}
	}
	return out
}

func keepLocal(favorites []model.Package) []model.Package {
	out := favorites[:0:0]
	for _, p := range favorites {
		if p.IsLocal {
			out = append(out, p)
		}
	}
	return out
}

func favoriteEvent(userID string, key model.PackageKey) map[string]any {
	return map[string]any{
		"user_id":    userID,
		"package_id": key.ID,
		"is_local":   key.IsLocal,
	}
}

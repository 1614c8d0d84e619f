package session

import (
	"context"
	"sync"
	"time"

	favoritesrepo "doctortravel/internal/favorites/repository"
	favoritesservice "doctortravel/internal/favorites/service"
	"doctortravel/internal/identity"
	loginrepo "doctortravel/internal/login/repository"
	loginservice "doctortravel/internal/login/service"
	loginvalidator "doctortravel/internal/login/validator"
	"doctortravel/pkg/config"
	apperrors "doctortravel/pkg/errors"
	"doctortravel/pkg/kafka"
	"doctortravel/pkg/logger"

	"github.com/google/uuid"
)

// Dependencies are shared by every session the Manager creates.
type Dependencies struct {
	Provider  identity.Provider
	Codes     loginrepo.CodeRepository
	Profiles  loginrepo.ProfileRepository
	Throttle  loginrepo.CodeThrottle
	Favorites favoritesrepo.FavoriteRepository
	Events    *kafka.Emitter

	CodeTTL      time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Clock and Generate override the login flow's time source and code
	// generator. Both are optional.
	Clock    loginservice.Clock
	Generate loginservice.CodeGenerator
}

type Manager struct {
	deps      Dependencies
	validator *loginvalidator.LoginValidator
	log       *logger.Logger
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session

	stop     chan struct{}
	stopOnce sync.Once
}

func NewManager(deps Dependencies, log *logger.Logger) *Manager {
	return &Manager{
		deps:      deps,
		validator: loginvalidator.NewLoginValidator(log),
		log:       log,
		now:       time.Now,
		sessions:  make(map[string]*Session),
		stop:      make(chan struct{}),
	}
}

// NewDependencies builds the production dependencies from cfg.
func NewDependencies(cfg *config.Config, events *kafka.Emitter) Dependencies {
	var throttle loginrepo.CodeThrottle
	if cfg.Client.Redis != nil {
		throttle = loginrepo.NewRedisCodeThrottle(cfg.Client.Redis, cfg.CodeIssueCooldown, cfg.CodeIssueHourlyLimit)
	} else {
		throttle = loginrepo.NewMemoryCodeThrottle(cfg.CodeIssueCooldown, cfg.CodeIssueHourlyLimit)
	}

	return Dependencies{
		Provider:     identity.NewRESTProvider(cfg.IdentityBaseURL, cfg.IdentityAPIKey, cfg.RemoteCallTimeout),
		Codes:        loginrepo.NewMongoCodeRepository(cfg),
		Profiles:     loginrepo.NewMongoProfileRepository(cfg),
		Throttle:     throttle,
		Favorites:    favoritesrepo.NewFavoriteRepository(cfg),
		Events:       events,
		CodeTTL:      cfg.TwoFactorCodeTTL,
		WriteTimeout: cfg.RemoteCallTimeout,
		IdleTimeout:  cfg.SessionIdleTimeout,
	}
}

func (m *Manager) Create() *Session {
	id := uuid.NewString()
	log := m.log.With("session_id", id)
	now := m.now()

	auth := identity.NewAuth(m.deps.Provider, log)
	// The login flow subscribes first so its unverified-user guard runs
	// before favorites start loading.
	flow := loginservice.NewFlow(auth, m.deps.Codes, m.deps.Profiles, loginservice.Options{
		CodeTTL:   m.deps.CodeTTL,
		Throttle:  m.deps.Throttle,
		Validator: m.validator,
		Events:    m.deps.Events,
		Clock:     m.deps.Clock,
		Generate:  m.deps.Generate,
	}, log)
	store := favoritesservice.NewStore(m.deps.Favorites, m.deps.Events, m.deps.WriteTimeout, log)

	s := &Session{
		ID:        id,
		CreatedAt: now,
		Auth:      auth,
		Favorites: store,
		Login:     flow,
		tab:       config.TabHome,
		lastSeen:  now,
	}
	s.unsubscribe = auth.OnAuthStateChanged(store.OnAuthStateChanged)

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	log.Info("Session created")
	return s
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, apperrors.NotFoundWithID("Session", id)
	}
	s.touch(m.now())
	return s, nil
}

// SessionUser returns the verified user of a session, nil when nobody has
// completed the login flow.
func (m *Manager) SessionUser(id string) (*identity.User, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	return s.VerifiedUser(), nil
}

// End signs the session out and forgets it.
func (m *Manager) End(ctx context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return apperrors.NotFoundWithID("Session", id)
	}

	s.close(ctx)
	m.log.Info("Session ended", "session_id", id)
	return nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep ends the sessions idle for longer than the idle timeout and returns
// how many it removed.
func (m *Manager) Sweep(ctx context.Context) int {
	if m.deps.IdleTimeout <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.deps.IdleTimeout)

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.close(ctx)
	}
	if len(expired) > 0 {
		m.log.Info("Expired idle sessions", "count", len(expired))
	}
	return len(expired)
}

// StartJanitor sweeps idle sessions every interval until Shutdown.
func (m *Manager) StartJanitor(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.Sweep(context.Background())
			case <-m.stop:
				return
			}
		}
	}()
}

// Shutdown stops the janitor and ends every session.
func (m *Manager) Shutdown(ctx context.Context) {
	m.stopOnce.Do(func() { close(m.stop) })

	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.close(ctx)
	}
	m.log.Info("All sessions ended", "count", len(sessions))
}

package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"doctortravel/internal/identity"
	loginerrors "doctortravel/internal/login/errors"
	"doctortravel/internal/login/repository"
	"doctortravel/internal/login/validator"
	apperrors "doctortravel/pkg/errors"
	"doctortravel/pkg/kafka"
	"doctortravel/pkg/logger"
	"doctortravel/pkg/model"
)

type State string

const (
	StateIdle          State = "idle"
	StateVerifying     State = "verifying"
	StateAwaitingCode  State = "awaiting_code"
	StateAuthenticated State = "authenticated"
)

type SignInResult struct {
	State     State     `json:"state"`
	Code      string    `json:"code,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

type Options struct {
	CodeTTL   time.Duration
	Throttle  repository.CodeThrottle
	Validator *validator.LoginValidator
	Events    *kafka.Emitter
	Clock     Clock
	Generate  CodeGenerator
}

// Flow drives one session from credentials to an authenticated user. A
// password sign-in is only complete once the emailed-style 6-digit code is
// presented; federated sign-ins skip that step.
type Flow struct {
	auth     *identity.Auth
	codes    repository.CodeRepository
	profiles repository.ProfileRepository
	opts     Options
	log      *logger.Logger

	// op serializes the operations of the session; mu guards the fields
	// below and is never held across a call into auth.
	op          sync.Mutex
	mu          sync.Mutex
	state       State
	pending     *identity.User
	unsubscribe func()
}

func NewFlow(
	auth *identity.Auth,
	codes repository.CodeRepository,
	profiles repository.ProfileRepository,
	opts Options,
	log *logger.Logger,
) *Flow {
	if opts.CodeTTL <= 0 {
		opts.CodeTTL = 5 * time.Minute
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Generate == nil {
		opts.Generate = RandomCode
	}
	if opts.Validator == nil {
		opts.Validator = validator.NewLoginValidator(log)
	}

	f := &Flow{
		auth:     auth,
		codes:    codes,
		profiles: profiles,
		opts:     opts,
		log:      log,
		state:    StateIdle,
	}
	f.unsubscribe = auth.OnAuthStateChanged(f.onAuthStateChanged)
	return f
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Close detaches the flow from the identity notifier.
func (f *Flow) Close() {
	if f.unsubscribe != nil {
		f.unsubscribe()
	}
}

// onAuthStateChanged keeps unverified users out of the session no matter how
// they got signed in, and resets the flow on any sign-out.
func (f *Flow) onAuthStateChanged(user *identity.User) {
	if user == nil {
		f.mu.Lock()
		f.state = StateIdle
		f.pending = nil
		f.mu.Unlock()
		return
	}
	if !user.EmailVerified {
		f.log.Warn("Signing out user with unverified email", "user_id", user.ID)
		_ = f.auth.SignOut(context.Background())
	}
}

func (f *Flow) setState(state State, pending *identity.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = state
	f.pending = pending
}

func (f *Flow) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	f.op.Lock()
	defer f.op.Unlock()

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperrors.Wrap(loginerrors.ErrMissingFields, apperrors.CodeValidation,
			"Please enter both email and password.", http.StatusUnprocessableEntity)
	}
	if err := f.opts.Validator.Validate(&validator.Credentials{Email: email, Password: password}); err != nil {
		return nil, apperrors.Validation("Invalid credentials input", map[string]any{"error": err.Error()})
	}

	f.setState(StateVerifying, nil)

	user, err := f.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		f.setState(StateIdle, nil)
		return nil, f.providerError(err)
	}

	if !user.EmailVerified {
		f.signOut(ctx)
		return nil, apperrors.Wrap(loginerrors.ErrEmailNotVerified, apperrors.CodeUnauthorized,
			"Please verify your email before logging in.", http.StatusUnauthorized)
	}

	if f.opts.Throttle != nil {
		allowed, err := f.opts.Throttle.Allow(ctx, user.ID)
		if err != nil {
			f.log.Warn("Code issue throttle unavailable", "user_id", user.ID, "error", err)
		} else if !allowed {
			f.signOut(ctx)
			return nil, apperrors.Wrap(loginerrors.ErrCodeThrottled, apperrors.CodeRateLimited,
				"Too many verification codes requested. Please try again later.", http.StatusTooManyRequests)
		}
	}

	code, err := f.opts.Generate()
	if err != nil {
		f.signOut(ctx)
		return nil, apperrors.Internal("Failed to generate verification code", err)
	}

	now := f.opts.Clock()
	record := &model.TwoFactorCode{
		UserID:    user.ID,
		Code:      code,
		ExpiresAt: now.Add(f.opts.CodeTTL),
		CreatedAt: now,
	}
	if err := f.codes.Save(ctx, record); err != nil {
		f.signOut(ctx)
		return nil, apperrors.Internal("Failed to store verification code", err)
	}

	f.setState(StateAwaitingCode, user)
	f.opts.Events.Emit(ctx, kafka.EventCodeIssued, user.ID, map[string]any{
		"user_id":    user.ID,
		"expires_at": record.ExpiresAt,
	})
	f.log.Info("Verification code issued", "user_id", user.ID, "expires_at", record.ExpiresAt)

	return &SignInResult{
		State:     StateAwaitingCode,
		Code:      code,
		ExpiresAt: record.ExpiresAt,
	}, nil
}

// Verify checks code against the stored one. A wrong code keeps the flow
// waiting; a missing or expired one sends it back to Idle.
func (f *Flow) Verify(ctx context.Context, code string) (State, error) {
	f.op.Lock()
	defer f.op.Unlock()

	f.mu.Lock()
	user, state := f.pending, f.state
	f.mu.Unlock()

	code = strings.TrimSpace(code)
	if code == "" || user == nil || state != StateAwaitingCode {
		return state, apperrors.Wrap(loginerrors.ErrNothingToVerify, apperrors.CodeConflict,
			"There is no sign-in waiting for a verification code.", http.StatusConflict)
	}
	if err := f.opts.Validator.Validate(&validator.VerifyCode{Code: code}); err != nil {
		return state, apperrors.Validation("Invalid code input", map[string]any{"error": err.Error()})
	}

	stored, err := f.codes.Find(ctx, user.ID)
	if err != nil {
		if errors.Is(err, loginerrors.ErrCodeNotFound) {
			f.signOut(ctx)
			return StateIdle, apperrors.Wrap(err, apperrors.CodeUnauthorized,
				"No 2FA code found. Please login again.", http.StatusUnauthorized)
		}
		f.log.Error("Failed to load verification code", "user_id", user.ID, "error", err)
		return state, apperrors.Internal("Something went wrong while verifying 2FA.", err)
	}

	if stored.Code != code {
		return StateAwaitingCode, apperrors.Wrap(loginerrors.ErrInvalidCode, apperrors.CodeUnauthorized,
			"The code you entered is incorrect.", http.StatusUnauthorized)
	}
	if stored.Expired(f.opts.Clock()) {
		f.signOut(ctx)
		return StateIdle, apperrors.Wrap(loginerrors.ErrCodeExpired, apperrors.CodeUnauthorized,
			"The code has expired. Please login again.", http.StatusUnauthorized)
	}

	f.mergeProfile(ctx, user)
	f.setState(StateAuthenticated, nil)
	f.opts.Events.Emit(ctx, kafka.EventSignedIn, user.ID, map[string]any{
		"user_id": user.ID,
		"method":  "password",
	})
	f.log.Info("User signed in", "user_id", user.ID, "method", "password")

	return StateAuthenticated, nil
}

// SignInWithCredential signs in with a federated ID token. No code is issued.
func (f *Flow) SignInWithCredential(ctx context.Context, idToken string) (State, error) {
	f.op.Lock()
	defer f.op.Unlock()

	if strings.TrimSpace(idToken) == "" {
		return f.State(), apperrors.Validation("id_token is required", nil)
	}
	if err := f.opts.Validator.Validate(&validator.FederatedCredential{IDToken: idToken}); err != nil {
		return f.State(), apperrors.Validation("Invalid credential input", map[string]any{"error": err.Error()})
	}

	f.setState(StateVerifying, nil)

	user, err := f.auth.SignInWithCredential(ctx, idToken)
	if err != nil {
		f.setState(StateIdle, nil)
		return StateIdle, f.providerError(err)
	}
	if f.auth.CurrentUser() == nil {
		return StateIdle, apperrors.Wrap(loginerrors.ErrEmailNotVerified, apperrors.CodeUnauthorized,
			"Please verify your email before logging in.", http.StatusUnauthorized)
	}

	f.log.Warn("Federated sign-in completed without two-factor verification",
		"user_id", user.ID,
		"email", user.Email,
	)

	f.mergeProfile(ctx, user)
	f.setState(StateAuthenticated, nil)
	f.opts.Events.Emit(ctx, kafka.EventSignedIn, user.ID, map[string]any{
		"user_id": user.ID,
		"method":  "federated",
	})

	return StateAuthenticated, nil
}

func (f *Flow) SignOut(ctx context.Context) error {
	f.op.Lock()
	defer f.op.Unlock()

	user := f.auth.CurrentUser()
	if user == nil {
		f.setState(StateIdle, nil)
		return nil
	}

	f.signOut(ctx)
	f.opts.Events.Emit(ctx, kafka.EventSignedOut, user.ID, map[string]any{"user_id": user.ID})
	f.log.Info("User signed out", "user_id", user.ID)
	return nil
}

// signOut ends the provider session. The provider result is logged by Auth
// and the local session is cleared either way.
func (f *Flow) signOut(ctx context.Context) {
	_ = f.auth.SignOut(ctx)
	f.setState(StateIdle, nil)
}

func (f *Flow) mergeProfile(ctx context.Context, user *identity.User) {
	profile := &model.UserProfile{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.DisplayName,
		LastLogin: f.opts.Clock(),
	}
	if err := f.profiles.Merge(ctx, profile); err != nil {
		f.log.Error("Failed to save user profile", "user_id", user.ID, "error", err)
	}
}

func (f *Flow) providerError(err error) error {
	if identity.IsRejection(err) {
		message := err.Error()
		if len(message) > 0 {
			message = strings.ToUpper(message[:1]) + message[1:] + "."
		}
		return apperrors.Wrap(err, apperrors.CodeUnauthorized, message, http.StatusUnauthorized)
	}
	if errors.Is(err, identity.ErrNotConfigured) {
		return apperrors.Unavailable("identity provider")
	}
	return apperrors.Remote("Login failed", err)
}

package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tasknest-app/tasknest/internal/identity"
	"github.com/tasknest-app/tasknest/internal/models"
)

type SessionState int

const (
	StateUnauthenticated SessionState = iota
	StateResolving
	StateAuthenticated
)

func (s SessionState) String() string {
	switch s {
	case StateResolving:
		return "resolving"
	case StateAuthenticated:
		return "authenticated"
	}
	return "unauthenticated"
}

const (
	fallbackDisplayName = "Usuario"
	fallbackAvatarURL   = "https://ionicframework.com/docs/img/demos/avatar.svg"
)

type LoginResult struct {
	Success  bool
	Message  string
	Identity *models.UserIdentity
}

// SessionStore owns the authenticated-identity state and the locally
// persisted session hint. Category and task stores receive it at
// construction and subscribe to its session events.
type SessionStore struct {
	logger   zerolog.Logger
	provider identity.Provider
	hints    HintStorage

	mu      sync.Mutex
	state   SessionState
	user    *models.UserIdentity
	loading bool
	onStart []func(models.UserIdentity)
	onEnd   []func()
}

func NewSessionStore(
	logger zerolog.Logger,
	provider identity.Provider,
	hints HintStorage,
) *SessionStore {
	return &SessionStore{
		logger:   logger,
		provider: provider,
		hints:    hints,
	}
}

// Initialize resolves the current identity through a one-shot
// subscription to the provider's change notifications. The first
// notification wins; the subscription is dropped immediately after.
// A nil identity with a nil error means the user is signed out.
func (s *SessionStore) Initialize(ctx context.Context) (*models.UserIdentity, error) {
	s.mu.Lock()
	s.state = StateResolving
	s.loading = true
	s.mu.Unlock()

	resolved := make(chan *models.UserIdentity, 1)
	var once sync.Once
	unsubscribe := s.provider.OnChange(func(user *models.UserIdentity) {
		once.Do(func() { resolved <- user })
	})
	defer unsubscribe()

	select {
	case user := <-resolved:
		if user != nil {
			s.setAuthenticated(*user)
		} else {
			s.setUnauthenticated()
		}

		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()

		s.logger.Info().
			Bool("logged_in", user != nil).
			Msg("resolved authentication state")
		return user, nil
	case <-ctx.Done():
		s.mu.Lock()
		s.loading = false
		s.state = StateUnauthenticated
		s.mu.Unlock()

		s.logger.Error().
			Err(ctx.Err()).
			Msg("identity resolution cancelled")
		return nil, ctx.Err()
	}
}

// HasValidSession reports whether a persisted session hint exists and is
// within its TTL window. It never touches the network, which makes it
// safe to call from navigation guards.
func (s *SessionStore) HasValidSession() bool {
	hint, err := s.hints.Get()
	if err != nil {
		s.logger.Warn().
			Err(err).
			Msg("failed to read session hint")
		return false
	}
	return hint != nil && hint.IsLoggedIn
}

// Login delegates to the provider's interactive sign-in flow and
// normalizes provider failure codes into user-facing messages. It never
// returns an error: failures are reported through the result.
func (s *SessionStore) Login(ctx context.Context, cred identity.Credential) LoginResult {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	user, err := s.provider.SignIn(ctx, cred)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("sign-in failed")
		return LoginResult{
			Success: false,
			Message: normalizeSignInFailure(err),
		}
	}
	s.setAuthenticated(*user)

	s.logger.Info().
		Str("uid", user.UID).
		Msg("logged in")
	return LoginResult{
		Success:  true,
		Identity: user,
	}
}

// Logout signs out through the provider and, only on success, clears the
// local identity, deletes the session hint and notifies session-ended
// subscribers. When no session is active it is a successful no-op.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		s.logger.Debug().Msg("logout without active session")
		return nil
	}
	s.loading = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	err := s.provider.SignOut(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to sign out")
		return fmt.Errorf("failed to sign out: %w", err)
	}
	s.setUnauthenticated()

	s.logger.Info().Msg("logged out")
	return nil
}

// SubscribeSessionStart registers fn to run after a user authenticates.
func (s *SessionStore) SubscribeSessionStart(fn func(models.UserIdentity)) {
	s.mu.Lock()
	s.onStart = append(s.onStart, fn)
	s.mu.Unlock()
}

// SubscribeSessionEnd registers fn to run after the session ends.
func (s *SessionStore) SubscribeSessionEnd(fn func()) {
	s.mu.Lock()
	s.onEnd = append(s.onEnd, fn)
	s.mu.Unlock()
}

func (s *SessionStore) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *SessionStore) Identity() *models.UserIdentity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

func (s *SessionStore) IsLoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

func (s *SessionStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// DisplayName returns the user's display name, or a stock placeholder
// when absent.
func (s *SessionStore) DisplayName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil || s.user.DisplayName == "" {
		return fallbackDisplayName
	}
	return s.user.DisplayName
}

// Email returns the user's email, or an empty string when absent.
func (s *SessionStore) Email() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return ""
	}
	return s.user.Email
}

// AvatarURL returns the user's photo URL, or a stock avatar when absent.
func (s *SessionStore) AvatarURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil || s.user.PhotoURL == "" {
		return fallbackAvatarURL
	}
	return s.user.PhotoURL
}

func (s *SessionStore) setAuthenticated(user models.UserIdentity) {
	s.mu.Lock()
	wasLoggedIn := s.user != nil
	s.user = &user
	s.state = StateAuthenticated
	callbacks := make([]func(models.UserIdentity), len(s.onStart))
	copy(callbacks, s.onStart)
	s.mu.Unlock()

	err := s.hints.Save(models.SessionHint{
		IsLoggedIn:  true,
		UID:         user.UID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		PhotoURL:    user.PhotoURL,
		Timestamp:   time.Now(),
	})
	if err != nil {
		// The hint is a fast-path optimization, never authoritative.
		s.logger.Warn().
			Err(err).
			Msg("failed to persist session hint")
	}

	if !wasLoggedIn {
		for _, fn := range callbacks {
			fn(user)
		}
	}
}

func (s *SessionStore) setUnauthenticated() {
	s.mu.Lock()
	wasLoggedIn := s.user != nil
	s.user = nil
	s.state = StateUnauthenticated
	callbacks := make([]func(), len(s.onEnd))
	copy(callbacks, s.onEnd)
	s.mu.Unlock()

	err := s.hints.Delete()
	if err != nil {
		s.logger.Warn().
			Err(err).
			Msg("failed to delete session hint")
	}

	if wasLoggedIn {
		for _, fn := range callbacks {
			fn()
		}
	}
}

func normalizeSignInFailure(err error) string {
	idErr, ok := identity.AsError(err)
	if !ok {
		return "Could not sign in. Please try again."
	}

	switch idErr.Code {
	case identity.CodePopupBlocked:
		return "Popup blocked. Please allow popup windows in your browser."
	case identity.CodePopupClosedByUser:
		return "Sign-in was cancelled."
	case identity.CodeCancelledPopupRequest:
		return "Sign-in request was cancelled."
	case identity.CodeUnauthorizedDomain:
		return "This domain is not authorized for sign-in."
	case identity.CodeUnsupportedEnv:
		return "Sign-in is not supported in this environment. Check the HTTPS configuration."
	}

	// Mobile web views surface as a disallowed user agent or a plain 403.
	if strings.Contains(idErr.Message, "disallowed_useragent") ||
		strings.Contains(idErr.Message, "403") {
		return "Sign-in is restricted in this browser. Please open the app in your regular web browser."
	}

	return "Could not sign in. Please try again."
}

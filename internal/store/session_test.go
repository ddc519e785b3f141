package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tasknest-app/tasknest/internal/identity"
	"github.com/tasknest-app/tasknest/internal/models"
)

func testUser() models.UserIdentity {
	return models.UserIdentity{
		UID:         "user-1",
		Email:       "ana@example.com",
		DisplayName: "Ana",
		PhotoURL:    "https://example.com/ana.png",
	}
}

func newTestSession(user *models.UserIdentity) (*SessionStore, *fakeProvider, *fakeHints) {
	provider := newFakeProvider(user)
	hints := newFakeHints()
	session := NewSessionStore(zerolog.Nop(), provider, hints)
	return session, provider, hints
}

func mustLogin(t *testing.T, session *SessionStore) {
	t.Helper()
	result := session.Login(context.Background(), identity.Credential{IDToken: "token"})
	if !result.Success {
		t.Fatalf("login failed: %s", result.Message)
	}
}

func TestHasValidSession(t *testing.T) {
	user := testUser()
	session, _, hints := newTestSession(&user)

	if session.HasValidSession() {
		t.Error("expected no valid session before any hint exists")
	}

	if err := hints.Save(models.SessionHint{
		IsLoggedIn: true,
		UID:        user.UID,
		Timestamp:  time.Now(),
	}); err != nil {
		t.Fatalf("save hint: %v", err)
	}
	if !session.HasValidSession() {
		t.Error("expected a valid session for a fresh hint")
	}

	if err := hints.Save(models.SessionHint{
		IsLoggedIn: true,
		UID:        user.UID,
		Timestamp:  time.Now().Add(-25 * time.Hour),
	}); err != nil {
		t.Fatalf("save hint: %v", err)
	}
	if session.HasValidSession() {
		t.Error("expected no valid session for a hint older than 24 hours")
	}
	if hints.stored() != nil {
		t.Error("expected the expired hint to be deleted, not just ignored")
	}
}

func TestInitializeResolvesIdentity(t *testing.T) {
	user := testUser()
	session, provider, hints := newTestSession(&user)

	resolved, err := session.Initialize(context.Background())
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if resolved == nil || resolved.UID != user.UID {
		t.Fatalf("expected identity %q, got %+v", user.UID, resolved)
	}
	if session.State() != StateAuthenticated {
		t.Errorf("expected authenticated state, got %s", session.State())
	}
	if hint := hints.stored(); hint == nil || hint.UID != user.UID {
		t.Errorf("expected session hint for %q, got %+v", user.UID, hint)
	}
	if provider.observerCount() != 0 {
		t.Errorf("expected the one-shot subscription to be dropped, %d observers remain", provider.observerCount())
	}
}

func TestInitializeSignedOut(t *testing.T) {
	session, provider, hints := newTestSession(nil)

	resolved, err := session.Initialize(context.Background())
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if resolved != nil {
		t.Fatalf("expected no identity, got %+v", resolved)
	}
	if session.State() != StateUnauthenticated {
		t.Errorf("expected unauthenticated state, got %s", session.State())
	}
	if hints.stored() != nil {
		t.Error("expected no session hint for a signed-out resolution")
	}
	if provider.observerCount() != 0 {
		t.Errorf("expected the one-shot subscription to be dropped, %d observers remain", provider.observerCount())
	}
}

func TestLoginSuccess(t *testing.T) {
	user := testUser()
	session, _, hints := newTestSession(&user)

	var started []models.UserIdentity
	session.SubscribeSessionStart(func(u models.UserIdentity) {
		started = append(started, u)
	})

	result := session.Login(context.Background(), identity.Credential{IDToken: "token"})
	if !result.Success {
		t.Fatalf("login failed: %s", result.Message)
	}
	if result.Identity == nil || result.Identity.UID != user.UID {
		t.Fatalf("expected identity %q, got %+v", user.UID, result.Identity)
	}
	if !session.IsLoggedIn() {
		t.Error("expected the store to be logged in")
	}
	if hints.stored() == nil {
		t.Error("expected a persisted session hint after login")
	}
	if len(started) != 1 || started[0].UID != user.UID {
		t.Errorf("expected one session-start event for %q, got %v", user.UID, started)
	}
}

func TestLoginFailureNormalization(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "popup blocked",
			err:  &identity.Error{Code: identity.CodePopupBlocked},
			want: "Popup blocked",
		},
		{
			name: "popup closed by user",
			err:  &identity.Error{Code: identity.CodePopupClosedByUser},
			want: "cancelled",
		},
		{
			name: "cancelled popup request",
			err:  &identity.Error{Code: identity.CodeCancelledPopupRequest},
			want: "cancelled",
		},
		{
			name: "unauthorized domain",
			err:  &identity.Error{Code: identity.CodeUnauthorizedDomain},
			want: "not authorized",
		},
		{
			name: "unsupported environment",
			err:  &identity.Error{Code: identity.CodeUnsupportedEnv},
			want: "not supported in this environment",
		},
		{
			name: "disallowed user agent",
			err:  &identity.Error{Code: "auth/internal-error", Message: "disallowed_useragent"},
			want: "regular web browser",
		},
		{
			name: "http 403",
			err:  &identity.Error{Code: "auth/internal-error", Message: "server returned 403"},
			want: "regular web browser",
		},
		{
			name: "unknown failure",
			err:  errors.New("boom"),
			want: "try again",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := testUser()
			session, provider, _ := newTestSession(&user)
			provider.signInErr = tt.err

			result := session.Login(context.Background(), identity.Credential{IDToken: "token"})
			if result.Success {
				t.Fatal("expected login to fail")
			}
			if !strings.Contains(result.Message, tt.want) {
				t.Errorf("message %q does not contain %q", result.Message, tt.want)
			}
			if session.IsLoggedIn() {
				t.Error("expected the store to stay logged out")
			}
		})
	}
}

func TestLogoutWithoutSessionIsNoOp(t *testing.T) {
	session, provider, _ := newTestSession(nil)

	if err := session.Logout(context.Background()); err != nil {
		t.Fatalf("expected logout without a session to succeed, got %v", err)
	}
	if provider.signOutCalls != 0 {
		t.Errorf("expected no provider sign-out, got %d calls", provider.signOutCalls)
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	user := testUser()
	session, _, hints := newTestSession(&user)

	categoryPersistence := newFakeCategoryPersistence()
	taskPersistence := newFakeTaskPersistence()
	categories := NewCategoryStore(zerolog.Nop(), session, categoryPersistence, "", "")
	tasks := NewTaskStore(zerolog.Nop(), session, taskPersistence)

	mustLogin(t, session)

	ctx := context.Background()
	for _, name := range []string{"Home", "Work"} {
		if _, err := categories.Create(ctx, models.CreateCategoryData{Name: name, Color: "#fff"}); err != nil {
			t.Fatalf("create category: %v", err)
		}
	}
	for i := 0; i < 5; i++ {
		if _, err := tasks.Create(ctx, models.CreateTaskData{Title: "task"}); err != nil {
			t.Fatalf("create task: %v", err)
		}
	}
	if categories.Count() != 2 || tasks.Count() != 5 {
		t.Fatalf("expected 2 categories and 5 tasks, got %d and %d", categories.Count(), tasks.Count())
	}

	if err := session.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if session.Identity() != nil {
		t.Error("expected identity to be absent after logout")
	}
	if categories.Count() != 0 {
		t.Errorf("expected categories to be cleared, %d remain", categories.Count())
	}
	if tasks.Count() != 0 {
		t.Errorf("expected tasks to be cleared, %d remain", tasks.Count())
	}
	if hints.stored() != nil {
		t.Error("expected the session hint to be deleted")
	}
}

func TestLogoutFailureRetainsState(t *testing.T) {
	user := testUser()
	session, provider, hints := newTestSession(&user)

	mustLogin(t, session)
	provider.signOutErr = errFakeSignOut

	err := session.Logout(context.Background())
	if err == nil {
		t.Fatal("expected logout to fail")
	}
	if !session.IsLoggedIn() {
		t.Error("expected the identity to be retained after a failed sign-out")
	}
	if hints.stored() == nil {
		t.Error("expected the session hint to be retained after a failed sign-out")
	}
}

func TestDerivedAccessorFallbacks(t *testing.T) {
	session, _, _ := newTestSession(nil)

	if got := session.DisplayName(); got != fallbackDisplayName {
		t.Errorf("expected fallback display name, got %q", got)
	}
	if got := session.Email(); got != "" {
		t.Errorf("expected empty email, got %q", got)
	}
	if got := session.AvatarURL(); got != fallbackAvatarURL {
		t.Errorf("expected fallback avatar, got %q", got)
	}

	user := models.UserIdentity{UID: "user-2", Email: "leo@example.com"}
	session2, _, _ := newTestSession(&user)
	mustLogin(t, session2)

	if got := session2.DisplayName(); got != fallbackDisplayName {
		t.Errorf("expected fallback for missing display name, got %q", got)
	}
	if got := session2.Email(); got != "leo@example.com" {
		t.Errorf("expected the user's email, got %q", got)
	}
	if got := session2.AvatarURL(); got != fallbackAvatarURL {
		t.Errorf("expected fallback for missing photo, got %q", got)
	}
}

func TestInitializeCancelled(t *testing.T) {
	session, _, _ := newTestSession(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The fake provider notifies asynchronously, so an already
	// cancelled context can win the race; both outcomes are legal,
	// but an error must be ctx.Err.
	_, err := session.Initialize(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if session.Loading() {
		t.Error("expected loading to be reset")
	}
}

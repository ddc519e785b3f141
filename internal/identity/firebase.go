package identity

import (
	"context"
	"sync"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/rs/zerolog"

	"github.com/tasknest-app/tasknest/internal/models"
)

type firebaseProvider struct {
	logger zerolog.Logger
	auth   *fbauth.Client

	mu        sync.Mutex
	current   *models.UserIdentity
	observers map[int]func(*models.UserIdentity)
	nextID    int
}

func NewFirebaseProvider(logger zerolog.Logger, auth *fbauth.Client) Provider {
	return &firebaseProvider{
		logger:    logger,
		auth:      auth,
		observers: make(map[int]func(*models.UserIdentity)),
	}
}

func (p *firebaseProvider) SignIn(ctx context.Context, cred Credential) (*models.UserIdentity, error) {
	if cred.FailureCode != "" {
		p.logger.Error().
			Str("code", cred.FailureCode).
			Str("message", cred.FailureMessage).
			Msg("interactive sign-in failed")
		return nil, &Error{
			Code:    cred.FailureCode,
			Message: cred.FailureMessage,
		}
	}

	token, err := p.auth.VerifyIDToken(ctx, cred.IDToken)
	if err != nil {
		p.logger.Error().
			Err(err).
			Msg("failed to verify id token")
		return nil, &Error{
			Code:    CodeInvalidToken,
			Message: err.Error(),
			Err:     err,
		}
	}

	user := &models.UserIdentity{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		user.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		user.DisplayName = name
	}
	if picture, ok := token.Claims["picture"].(string); ok {
		user.PhotoURL = picture
	}
	p.logger.Debug().
		Str("uid", user.UID).
		Msg("verified id token")

	p.setCurrent(user)

	p.logger.Info().
		Str("uid", user.UID).
		Str("email", user.Email).
		Msg("signed in")
	return user, nil
}

func (p *firebaseProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	current := p.current
	p.mu.Unlock()

	if current != nil {
		err := p.auth.RevokeRefreshTokens(ctx, current.UID)
		if err != nil {
			p.logger.Error().
				Err(err).
				Str("uid", current.UID).
				Msg("failed to revoke refresh tokens")
			return err
		}
		p.logger.Debug().
			Str("uid", current.UID).
			Msg("revoked refresh tokens")
	}

	p.setCurrent(nil)

	p.logger.Info().Msg("signed out")
	return nil
}

func (p *firebaseProvider) OnChange(fn func(*models.UserIdentity)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.observers[id] = fn
	current := p.current
	p.mu.Unlock()

	// New observers learn the current state right away,
	// like the provider's auth-state-changed callback.
	go fn(current)

	return func() {
		p.mu.Lock()
		delete(p.observers, id)
		p.mu.Unlock()
	}
}

func (p *firebaseProvider) setCurrent(user *models.UserIdentity) {
	p.mu.Lock()
	p.current = user
	observers := make([]func(*models.UserIdentity), 0, len(p.observers))
	for _, fn := range p.observers {
		observers = append(observers, fn)
	}
	p.mu.Unlock()

	for _, fn := range observers {
		fn(user)
	}
}

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrSnakeDoc/vianime/internal/domain"
)

// MinPasswordLength mirrors the hosted auth service's password rule.
const MinPasswordLength = 6

const (
	fieldUID          = "uid"
	fieldEmail        = "email"
	fieldPasswordHash = "password_hash"
)

// SignUp creates an account and opens a session for it.
func (s *Store) SignUp(ctx context.Context, email, password string) (domain.Grant, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.Grant{}, fmt.Errorf("%w: invalid email address", domain.ErrAccountCreation)
	}
	if len(password) < MinPasswordLength {
		return domain.Grant{}, fmt.Errorf("%w: password should be at least %d characters",
			domain.ErrAccountCreation, MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Grant{}, fmt.Errorf("failed to hash password: %w", err)
	}

	key := AccountKey(email)
	uid := uuid.NewString()

	// HSETNX on uid claims the email atomically.
	claimed, err := s.client.HSetNX(ctx, key, fieldUID, uid).Result()
	if err != nil {
		return domain.Grant{}, unavailable("claim account", err)
	}
	if !claimed {
		return domain.Grant{}, fmt.Errorf("%w: email already in use", domain.ErrAccountCreation)
	}

	if err := s.client.HSet(ctx, key, fieldEmail, email, fieldPasswordHash, string(hash)).Err(); err != nil {
		_ = s.client.Del(ctx, key).Err()
		return domain.Grant{}, unavailable("create account", err)
	}

	return s.openSession(ctx, uid, email)
}

// SignIn checks the password and opens a session.
func (s *Store) SignIn(ctx context.Context, email, password string) (domain.Grant, error) {
	fields, err := s.client.HGetAll(ctx, AccountKey(email)).Result()
	if err != nil {
		return domain.Grant{}, unavailable("get account", err)
	}
	if len(fields) == 0 || fields[fieldPasswordHash] == "" {
		return domain.Grant{}, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(fields[fieldPasswordHash]), []byte(password)); err != nil {
		return domain.Grant{}, domain.ErrInvalidCredentials
	}

	return s.openSession(ctx, fields[fieldUID], fields[fieldEmail])
}

func (s *Store) openSession(ctx context.Context, uid, email string) (domain.Grant, error) {
	token := uuid.NewString()
	if err := s.client.Set(ctx, TokenKey(token), uid, s.sessionTTL).Err(); err != nil {
		return domain.Grant{}, unavailable("open session", err)
	}
	return domain.Grant{Identity: uid, Email: email, Token: token}, nil
}

// Verify returns the identity bound to token.
func (s *Store) Verify(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.ErrSessionExpired
	}
	uid, err := s.client.Get(ctx, TokenKey(token)).Result()
	if err != nil {
		if isNil(err) {
			return "", domain.ErrSessionExpired
		}
		return "", unavailable("verify session", err)
	}
	return uid, nil
}

// SignOut invalidates the token and announces it to every watcher.
func (s *Store) SignOut(ctx context.Context, token string) error {
	uid, err := s.Verify(ctx, token)
	if err != nil {
		// Already gone: nothing to invalidate.
		if errors.Is(err, domain.ErrSessionExpired) {
			return nil
		}
		return err
	}

	if err := s.client.Del(ctx, TokenKey(token)).Err(); err != nil {
		return unavailable("sign out", err)
	}
	return s.Publish(ctx, domain.AuthEvent{Identity: uid, Token: token, Kind: domain.AuthEventSignedOut})
}

// Publish pushes an auth event to every watcher.
func (s *Store) Publish(ctx context.Context, ev domain.AuthEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal auth event: %w", err)
	}
	if err := s.client.Publish(ctx, ChannelAuthEvents, data).Err(); err != nil {
		return unavailable("publish auth event", err)
	}
	return nil
}

// Watch subscribes to provider-pushed auth events. The returned channel is
// closed once ctx is done.
func (s *Store) Watch(ctx context.Context) (<-chan domain.AuthEvent, error) {
	pubsub := s.client.Subscribe(ctx, ChannelAuthEvents)
	// Wait for the subscription confirmation so no event published after
	// Watch returns can be missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, unavailable("subscribe auth events", err)
	}

	out := make(chan domain.AuthEvent, 16)
	msgs := pubsub.Channel()
	go func() {
		defer close(out)
		defer func() { _ = pubsub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev domain.AuthEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

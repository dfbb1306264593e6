package session

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/MrSnakeDoc/vianime/internal/domain"
)

// fakeAuth is an in-memory AuthProvider. Setting signOutGate makes SignOut
// block until the gate is closed.
type fakeAuth struct {
	mu       sync.Mutex
	accounts map[string]string // email -> password
	tokens   map[string]string // token -> identity
	events   chan domain.AuthEvent

	signInCalls  atomic.Int32
	signUpCalls  atomic.Int32
	signOutCalls atomic.Int32

	signOutErr     error
	verifyErr      error
	signOutGate    chan struct{}
	signOutEntered chan struct{}
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{
		accounts: map[string]string{"naruto@konoha.jp": "rasengan"},
		tokens:   make(map[string]string),
		events:   make(chan domain.AuthEvent, 4),
	}
}

func (f *fakeAuth) SignIn(_ context.Context, email, password string) (domain.Grant, error) {
	f.signInCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if pw, ok := f.accounts[email]; !ok || pw != password {
		return domain.Grant{}, domain.ErrInvalidCredentials
	}
	token := "tok-" + email
	f.tokens[token] = "uid-" + email
	return domain.Grant{Identity: "uid-" + email, Email: email, Token: token}, nil
}

func (f *fakeAuth) SignUp(_ context.Context, email, password string) (domain.Grant, error) {
	f.signUpCalls.Add(1)
	f.mu.Lock()
	if _, exists := f.accounts[email]; exists {
		f.mu.Unlock()
		return domain.Grant{}, domain.ErrAccountCreation
	}
	f.accounts[email] = password
	f.mu.Unlock()
	return f.SignIn(context.Background(), email, password)
}

func (f *fakeAuth) SignOut(_ context.Context, token string) error {
	f.signOutCalls.Add(1)
	if f.signOutEntered != nil {
		f.signOutEntered <- struct{}{}
	}
	if f.signOutGate != nil {
		<-f.signOutGate
	}
	f.mu.Lock()
	delete(f.tokens, token)
	f.mu.Unlock()
	return f.signOutErr
}

func (f *fakeAuth) Verify(_ context.Context, token string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.verifyErr != nil {
		return "", f.verifyErr
	}
	uid, ok := f.tokens[token]
	if !ok {
		return "", domain.ErrSessionExpired
	}
	return uid, nil
}

func (f *fakeAuth) Watch(ctx context.Context) (<-chan domain.AuthEvent, error) {
	out := make(chan domain.AuthEvent)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-f.events:
				out <- ev
			}
		}
	}()
	return out, nil
}

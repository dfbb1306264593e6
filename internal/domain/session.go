package domain

// Session is either anonymous or bound to an identity issued by the auth service.
// The zero value is Anonymous.
type Session struct {
	Identity string `json:"identity,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Anonymous is the signed-out session.
var Anonymous = Session{}

// Authenticated builds a signed-in session.
func Authenticated(identity, email string) Session {
	return Session{Identity: identity, Email: email}
}

// IsAuthenticated reports whether the session carries an identity.
func (s Session) IsAuthenticated() bool {
	return s.Identity != ""
}

func (s Session) String() string {
	if !s.IsAuthenticated() {
		return "anonymous"
	}
	return "authenticated(" + s.Identity + ")"
}

// Credentials are the sign-in/sign-up form fields.
// Confirm is only checked on sign-up.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Confirm  string `json:"confirm,omitempty"`
}

// AuthEventKind classifies events pushed by the auth provider.
type AuthEventKind string

const (
	AuthEventSignedOut AuthEventKind = "signed_out"
	AuthEventRevoked   AuthEventKind = "revoked"
)

// AuthEvent is a provider-pushed change of authentication state for one identity.
// Token is set when a single session ended; an empty Token targets every
// session of the identity.
type AuthEvent struct {
	Identity string        `json:"identity"`
	Token    string        `json:"token,omitempty"`
	Kind     AuthEventKind `json:"kind"`
}

// Grant is what a successful sign-in or sign-up returns.
type Grant struct {
	Identity string
	Email    string
	Token    string
}

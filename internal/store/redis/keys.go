package redis

import "strings"

const (
	// KeyPrefixUser is the prefix for per-identity user documents
	KeyPrefixUser = "vianime:users:"
	// KeyPrefixAccount is the prefix for accounts, keyed by normalized email
	KeyPrefixAccount = "vianime:accounts:"
	// KeyPrefixToken is the prefix for session tokens
	KeyPrefixToken = "vianime:tokens:"
	// KeyPrefixViAnime is the prefix for documents of the vianimes collection
	KeyPrefixViAnime = "vianime:vianimes:"
	// KeyAllViAnimes is the set of all vianimes document IDs
	KeyAllViAnimes = "vianime:vianimes:all"
	// KeyFeedback is the append-only feedback stream
	KeyFeedback = "vianime:feedback"
	// ChannelAuthEvents carries provider-pushed auth events
	ChannelAuthEvents = "vianime:auth:events"

	// FieldMyList is the user document field holding the personal list
	FieldMyList = "myList"
)

// UserKey returns the Redis key of the user document for identity
func UserKey(identity string) string {
	return KeyPrefixUser + identity
}

// AccountKey returns the Redis key for an account; emails are case-insensitive
func AccountKey(email string) string {
	return KeyPrefixAccount + strings.ToLower(strings.TrimSpace(email))
}

// TokenKey returns the Redis key for a session token
func TokenKey(token string) string {
	return KeyPrefixToken + token
}

// ViAnimeKey returns the Redis key for a vianimes document
func ViAnimeKey(id string) string {
	return KeyPrefixViAnime + id
}
